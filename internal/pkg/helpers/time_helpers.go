package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yigit/buspass/internal/app/models"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseDate parses a YYYY-MM-DD form value into a calendar date
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return models.DateOf(t), nil
}

// Clock returns the current time; services take one so tests can pin "today"
type Clock func() time.Time

// SystemClock reads the wall clock in loc
func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

// Today returns the clock's calendar date
func (c Clock) Today() time.Time {
	return models.DateOf(c())
}
