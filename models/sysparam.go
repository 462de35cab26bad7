package models

import "time"

type SystemParam struct {
	Key       string    `json:"key" bson:"key"`
	Value     float64   `json:"value" bson:"value"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
