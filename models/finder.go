package models

import "time"

// Finder is a saved trip search with its cached result set. The cache is
// expired by a TTL index on computedAt; an expired finder simply disappears
// and is recomputed on the next read.
type Finder struct {
	FinderID   string     `json:"finderid" bson:"finderid"`
	ExplorerID string     `json:"explorerid" bson:"explorerid"`
	Keyword    string     `json:"keyword,omitempty" bson:"keyword,omitempty"`
	MinPrice   *float64   `json:"minPrice,omitempty" bson:"minPrice,omitempty"`
	MaxPrice   *float64   `json:"maxPrice,omitempty" bson:"maxPrice,omitempty"`
	StartDate  *time.Time `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Results    []Trip     `json:"results" bson:"results"`
	ComputedAt time.Time  `json:"computedAt" bson:"computedAt"`
}
