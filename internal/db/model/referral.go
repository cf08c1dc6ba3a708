package model

import "time"

// Referral links a referred user to their referrer. One referrer can refer
// many users; a user has at most one referrer.
type Referral struct {
	Code            string    `bson:"_id"`
	ReferrerAddress string    `bson:"referrer_address"`
	ReferredAddress string    `bson:"referred_address"`
	CreatedAt       time.Time `bson:"created_at"`
}
