package testutil

import (
	"time"

	"github.com/skosovsky/trelly"
)

// NewTestRegistry returns a Registry with a long timeout and panic recovery
// enabled, suitable for tests.
func NewTestRegistry(tools ...trelly.Tool) *trelly.Registry {
	reg := trelly.NewRegistry(
		trelly.WithDefaultTimeout(30*time.Second),
		trelly.WithRecoverPanics(true),
	)
	for _, t := range tools {
		reg.Register(t)
	}
	return reg
}
