package memory

import (
	"context"

	"tipdrop/contexts/distribution/drop-service/domain/services"
	"tipdrop/contexts/distribution/drop-service/ports"
)

// RandomShortCodes adapts the domain generator to the port.
type RandomShortCodes struct{}

func (RandomShortCodes) Generate(_ context.Context, length int) (string, error) {
	return services.RandomShortCode(length)
}

// ScriptedShortCodes replays a fixed sequence, then falls back to random.
// Used by collision tests.
type ScriptedShortCodes struct {
	Sequence []string
	next     int
}

func (g *ScriptedShortCodes) Generate(_ context.Context, length int) (string, error) {
	if g.next < len(g.Sequence) {
		code := g.Sequence[g.next]
		g.next++
		return code, nil
	}
	return services.RandomShortCode(length)
}

var _ ports.ShortCodeGenerator = RandomShortCodes{}
var _ ports.ShortCodeGenerator = (*ScriptedShortCodes)(nil)
