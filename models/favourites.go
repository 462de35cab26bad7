package models

import "time"

type FavouriteList struct {
	ListID     string    `json:"listid" bson:"listid"`
	ExplorerID string    `json:"explorerid" bson:"explorerid"`
	Name       string    `json:"name" bson:"name"`
	TripIDs    []string  `json:"tripids" bson:"tripids"`
	// SyncedAt is the client-supplied timestamp used for last-writer-wins
	// conflict resolution across devices.
	SyncedAt  time.Time `json:"syncedAt" bson:"syncedAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
