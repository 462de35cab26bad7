package models

import "time"

// IdempotentResponse is the captured outcome of a completed request,
// replayed verbatim on key reuse.
type IdempotentResponse struct {
	Status int         `bson:"status" json:"status"`
	Body   interface{} `bson:"body" json:"body"`
}

// IdempotencyRecord caches a mutating response keyed by the client's
// Idempotency-Key header so payment confirmations replay safely.
type IdempotencyRecord struct {
	Key         string              `bson:"key" json:"key"`
	Method      string              `bson:"method" json:"method"`
	Path        string              `bson:"path" json:"path"`
	UserID      string              `bson:"userid" json:"userid"`
	RequestHash string              `bson:"request_hash" json:"request_hash"`
	Response    *IdempotentResponse `bson:"response,omitempty" json:"response,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	ExpiresAt   time.Time           `bson:"expires_at" json:"expires_at"`
}
