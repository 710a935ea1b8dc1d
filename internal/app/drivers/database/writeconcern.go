package database

import "go.mongodb.org/mongo-driver/mongo/writeconcern"

// Profile writes gate authorization, so they are acknowledged by a majority.
func writeConcernMajority() *writeconcern.WriteConcern {
	return writeconcern.Majority()
}
