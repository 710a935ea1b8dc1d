package models

import "time"

type TimeModel struct {
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Clock returns the current time; tests substitute a fixed one.
type Clock func() time.Time

func UTCNow() time.Time {
	return time.Now().UTC()
}
