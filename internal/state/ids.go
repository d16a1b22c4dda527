package state

import "github.com/google/uuid"

// siteID identifies this process in a room. It doubles as the default
// sender id on outbound room messages.
var siteID = uuid.NewString()

// NewID returns a creation-time unique token for a shape.
func NewID() string {
	return uuid.NewString()
}

// SiteID returns the id of the local participant.
func SiteID() string {
	return siteID
}
