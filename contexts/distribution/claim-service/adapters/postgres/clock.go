package postgresadapter

import (
	"time"

	"tipdrop/contexts/distribution/claim-service/ports"
)

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

var _ ports.Clock = SystemClock{}
