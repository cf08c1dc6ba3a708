package model

import "time"

// DailyBalance is the replayed outcome of one (user, pool, day).
// LowestUSD is the day's lowest running balance and feeds points; FinalBalance
// seeds the next day's replay. StreakStartDate anchors the duration
// multiplier: it is inherited from the prior day while the balance stays above
// the minimum threshold, and resets to the record's own date otherwise.
type DailyBalance struct {
	UserAddress     string    `bson:"user_address"`
	PoolAddress     string    `bson:"pool_address"`
	Date            time.Time `bson:"date"`
	LowestUSD       float64   `bson:"value_usd"`
	FinalBalance    float64   `bson:"final_balance"`
	StreakStartDate time.Time `bson:"streak_start_date"`
}
