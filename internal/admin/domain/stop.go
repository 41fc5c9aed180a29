package domain

import "time"

// Stop is a transit stop with the routes serving it.
type Stop struct {
	ID        StopID
	Name      string
	RouteIDs  IDList
	UpdatedAt time.Time
}
