package contracts

import (
	"context"

	commitplan "github.com/murkotick/quiz-authoring-service/internal/pkg/committer"
)

// Committer applies a mutation plan atomically.
type Committer interface {
	Apply(ctx context.Context, plan *commitplan.Plan) error
}
