package remote

import (
	"context"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// Client reads and writes the remote replica. Implementations must be safe
// for concurrent use; the reconciliation engine calls them from one goroutine
// per record kind.
type Client interface {
	// CreateOrReplace writes the whole record under {userID}_{entityID}.
	CreateOrReplace(ctx context.Context, e types.Entity) error
	// Patch merges the named document fields of e into the existing
	// document. An empty fields list patches every field.
	Patch(ctx context.Context, e types.Entity, fields []string) error
	// FetchAll returns every document of kind owned by the current user.
	FetchAll(ctx context.Context, kind types.Kind) ([]types.Entity, error)
}

// UserSource yields the identity remote reads are scoped to.
type UserSource interface {
	UserID() string
}

// StaticUser is a fixed UserSource.
type StaticUser string

// UserID returns u.
func (u StaticUser) UserID() string { return string(u) }

// Operation names used in errors and fault injection.
const (
	OpCreateOrReplace = "create_or_replace"
	OpPatch           = "patch"
	OpFetchAll        = "fetch_all"
)
