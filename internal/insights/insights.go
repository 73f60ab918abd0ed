// Package insights turns a dashboard projection into a short natural-language
// productivity summary. The feature is optional; the service runs without a
// configured generator.
package insights

import (
	"context"
	"errors"

	"github.com/focalhq/focal/internal/types"
)

// ErrUnavailable is returned when no generator is configured.
var ErrUnavailable = errors.New("insight generation unavailable")

// Generator produces a natural-language insight for a dashboard projection.
type Generator interface {
	Generate(ctx context.Context, d types.Dashboard) (string, error)
	ModelName() string
}
