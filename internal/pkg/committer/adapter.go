package committer

import (
	"context"

	"cloud.google.com/go/spanner"
	"github.com/pkg/errors"
)

// Adapter applies plans against Cloud Spanner.
type Adapter struct {
	client *spanner.Client
}

func NewAdapter(client *spanner.Client) *Adapter {
	return &Adapter{client: client}
}

// Apply buffers every mutation of plan in a single read-write transaction.
// An empty plan is a no-op.
func (a *Adapter) Apply(ctx context.Context, plan *Plan) error {
	if plan == nil || plan.IsEmpty() {
		return nil
	}

	if a.client == nil {
		return errors.New("committer: spanner client is nil")
	}

	_, err := a.client.ReadWriteTransaction(ctx, func(ctx context.Context, tx *spanner.ReadWriteTransaction) error {
		return tx.BufferWrite(plan.Mutations())
	})
	if err != nil {
		s := plan.Summary()
		return errors.Wrapf(err, "committer: apply %d mutations", s.Total())
	}
	return nil
}
