// Package uuid generates time-ordered identifiers used to correlate requests.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. UUIDv7 values sort by creation time, so
// request ids in the logs line up with the order requests arrived.
// Falls back to a random UUIDv4 if the v7 generator fails.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
