package models

import "time"

// Application statuses
const (
	StatusPending   = "PENDING"
	StatusDue       = "DUE"
	StatusAccepted  = "ACCEPTED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

type Application struct {
	ApplicationID string    `json:"applicationid" bson:"applicationid"`
	ExplorerID    string    `json:"explorerid" bson:"explorerid"`
	TripID        string    `json:"tripid" bson:"tripid"`
	Status        string    `json:"status" bson:"status"`
	Comments      []string  `json:"comments,omitempty" bson:"comments,omitempty"`
	RejectReason  string    `json:"rejectReason,omitempty" bson:"rejectReason,omitempty"`
	PaymentID     string    `json:"paymentid,omitempty" bson:"paymentid,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}
