package services

import (
	"time"

	"github.com/studysync/studysync-api/internal/constants"
)

// Clock supplies the current calendar date so streak logic is deterministic
// in tests.
type Clock interface {
	// Today returns the current date in constants.DateLayout.
	Today() string
}

type systemClock struct{}

func (systemClock) Today() string {
	return time.Now().Format(constants.DateLayout)
}

// SystemClock returns a Clock backed by the server's wall clock.
func SystemClock() Clock {
	return systemClock{}
}
