package models

import "time"

type Stage struct {
	Title       string  `json:"title" bson:"title"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	POIID       string  `json:"poiid,omitempty" bson:"poiid,omitempty"`
}

type Trip struct {
	TripID       string    `json:"tripid" bson:"tripid"`
	ManagerID    string    `json:"managerid" bson:"managerid"`
	Ticker       string    `json:"ticker" bson:"ticker"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	Requirements []string  `json:"requirements,omitempty" bson:"requirements,omitempty"`
	StartDate    time.Time `json:"startDate" bson:"startDate"`
	EndDate      time.Time `json:"endDate" bson:"endDate"`
	Pictures     []string  `json:"pictures,omitempty" bson:"pictures,omitempty"`
	Price        float64   `json:"price" bson:"price"`
	Stages       []Stage   `json:"stages" bson:"stages"`
	IsPublished  bool      `json:"isPublished" bson:"isPublished"`
	IsCancelled  bool      `json:"isCancelled" bson:"isCancelled"`
	CancelReason string    `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// TotalPrice sums the stage prices; trips persist this as Price at save time.
func (t *Trip) TotalPrice() float64 {
	var sum float64
	for _, s := range t.Stages {
		sum += s.Price
	}
	return sum
}
