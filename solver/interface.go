package solver

import (
	"context"

	"github.com/ferhatk/fizikcozum/model"
)

// Solver produces a structured explanation for a submitted question.
type Solver interface {
	Solve(ctx context.Context, parts []model.SolvePart) (*model.Solution, error)
}
