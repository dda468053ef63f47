package application

import "time"

// Clock provides time, injectable for deterministic scheduling tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
