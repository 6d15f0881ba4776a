package util

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// IDLength is the length of generated record ids.
const IDLength = 12

const (
	timestampLayout = "2006-01-02T15:04:05.000000"
	dateLayout      = "2006-01-02"
)

// NewID returns a 12-character lowercase alphanumeric id.
func NewID() string {
	// the leading 12 hex digits of a v4 uuid are all random
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:IDLength]
}

// Timestamp formats t the way created_at/delivered_at columns store it.
func Timestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// Date formats the calendar day of t, which is also the prefix of Timestamp(t).
func Date(t time.Time) string {
	return t.Format(dateLayout)
}

// OrderNumber derives a human-readable order number from the wall clock.
func OrderNumber(t time.Time) string {
	return "ORD-" + t.Format("150405")
}
