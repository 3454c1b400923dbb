package models

import "time"

// CheckInRecord is a single gym visit. CheckOutTime and DurationMinutes
// stay nil until the member checks out (or the nightly auto-checkout runs).
type CheckInRecord struct {
	ID              string
	UserID          string
	CheckInTime     time.Time
	CheckOutTime    *time.Time
	DurationMinutes *int
	CreatedAt       time.Time
}

// Open reports whether the visit has not been checked out yet.
func (r CheckInRecord) Open() bool {
	return r.CheckOutTime == nil
}
