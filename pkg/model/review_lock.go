package model

import "time"

// ReviewLock is an advisory lock taken while an owner reviews a payment
// submission. The _id is the booking ID, so the unique index on _id makes
// acquisition atomic. ExpiresAt backs a TTL index that clears stale locks
// left by crashed reviewers.
type ReviewLock struct {
	ID        string    `bson:"_id" json:"id"`
	OwnerID   string    `bson:"owner_id" json:"owner_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}
