// Package userfields persists the user-editable fields (stage, observations)
// attached to readiness records. Everything else in a record is derived.
package userfields

import (
	"context"

	"github.com/dooor-ai/readiness/pkg/types"
)

// Store is the persistence backend for user-edited fields. Get returns zero
// values, not an error, for products that were never edited.
type Store interface {
	Get(ctx context.Context, productID string) (types.UserFields, error)
	SetStage(ctx context.Context, productID, stage string) error
	SetObservations(ctx context.Context, productID, observations string) error
	Ping(ctx context.Context) error
}
