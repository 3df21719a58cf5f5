package services

import "time"

// Clock supplies the wall-clock instant to components that classify "now".
// Production code uses SystemClock; tests inject fixed instants.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func SystemClock() Clock {
	return systemClock{}
}

// CivilMinutes returns the minute of the civil day for an instant that has
// already been converted into the user's location.
func CivilMinutes(value time.Time) int {
	return value.Hour()*60 + value.Minute()
}

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}
