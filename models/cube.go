package models

import "time"

// MonthCube holds an explorer's total spend on accepted applications
// created within the rolling window of the last Month months.
type MonthCube struct {
	ExplorerID string    `json:"explorerid" bson:"explorerId"`
	Month      int       `json:"month" bson:"month"` // 1..36
	Amount     float64   `json:"amount" bson:"amount"`
	ComputedAt time.Time `json:"computedAt" bson:"computedAt"`
}

// YearCube mirrors the 12/24/36 month windows as years 1..3.
type YearCube struct {
	ExplorerID string    `json:"explorerid" bson:"explorerId"`
	Year       int       `json:"year" bson:"year"` // 1..3
	Amount     float64   `json:"amount" bson:"amount"`
	ComputedAt time.Time `json:"computedAt" bson:"computedAt"`
}
