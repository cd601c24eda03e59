package postgresadapter

import (
	"time"

	"tipdrop/contexts/tipping/jar-service/ports"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Clock = SystemClock{}
