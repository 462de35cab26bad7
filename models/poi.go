package models

import "time"

type POI struct {
	POIID       string    `json:"poiid" bson:"poiid"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Latitude    float64   `json:"latitude" bson:"latitude"`
	Longitude   float64   `json:"longitude" bson:"longitude"`
	Type        string    `json:"type,omitempty" bson:"type,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
