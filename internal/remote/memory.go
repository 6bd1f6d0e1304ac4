package remote

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// MemoryClient keeps documents in process. It backs the engine tests and the
// CLI's offline remote, and can be told to fail specific calls.
type MemoryClient struct {
	users UserSource

	mu     sync.Mutex
	docs   map[types.Kind]map[string]Document
	faults map[fault]Code
	calls  map[string]int
}

type fault struct {
	op   string
	kind types.Kind
}

// NewMemoryClient returns an empty MemoryClient scoped to users.
func NewMemoryClient(users UserSource) *MemoryClient {
	return &MemoryClient{
		users:  users,
		docs:   make(map[types.Kind]map[string]Document),
		faults: make(map[fault]Code),
		calls:  make(map[string]int),
	}
}

// FailOn makes every later op call for kind fail with code.
func (c *MemoryClient) FailOn(op string, kind types.Kind, code Code) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faults[fault{op, kind}] = code
}

// ClearFaults removes every injected failure.
func (c *MemoryClient) ClearFaults() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.faults)
}

// Calls returns how many times op was invoked, failed calls included.
func (c *MemoryClient) Calls(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

// Document returns a copy of the stored document with docID.
func (c *MemoryClient) Document(kind types.Kind, docID string) (Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[kind][docID]
	return maps.Clone(doc), ok
}

// Len returns the number of stored documents of kind across all users.
func (c *MemoryClient) Len(kind types.Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs[kind])
}

// CreateOrReplace implements Client.
func (c *MemoryClient) CreateOrReplace(ctx context.Context, e types.Entity) error {
	doc, err := Encode(e)
	if err != nil {
		return wrap(OpCreateOrReplace, kindOf(e), "", err)
	}
	id := DocumentID(e.Meta().UserID, e.Meta().ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter(ctx, OpCreateOrReplace, e.Kind(), id); err != nil {
		return err
	}
	if c.docs[e.Kind()] == nil {
		c.docs[e.Kind()] = make(map[string]Document)
	}
	c.docs[e.Kind()][id] = doc
	return nil
}

// Patch implements Client. Patching a missing document fails with
// CodeNotFound.
func (c *MemoryClient) Patch(ctx context.Context, e types.Entity, fields []string) error {
	doc, err := Encode(e)
	if err != nil {
		return wrap(OpPatch, kindOf(e), "", err)
	}
	id := DocumentID(e.Meta().UserID, e.Meta().ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter(ctx, OpPatch, e.Kind(), id); err != nil {
		return err
	}
	existing, ok := c.docs[e.Kind()][id]
	if !ok {
		return &Error{Op: OpPatch, Kind: e.Kind(), ID: id, Code: CodeNotFound}
	}
	maps.Copy(existing, Pick(doc, fields))
	return nil
}

// FetchAll implements Client. Documents are returned in id order.
func (c *MemoryClient) FetchAll(ctx context.Context, kind types.Kind) ([]types.Entity, error) {
	user := c.users.UserID()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter(ctx, OpFetchAll, kind, ""); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(c.docs[kind]))
	for id, doc := range c.docs[kind] {
		if doc[FieldUserID] == user {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	out := make([]types.Entity, 0, len(ids))
	for _, id := range ids {
		e, err := Decode(kind, c.docs[kind][id])
		if err != nil {
			return nil, wrap(OpFetchAll, kind, id, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// enter counts the call and applies cancellation and injected faults.
// The caller must hold c.mu.
func (c *MemoryClient) enter(ctx context.Context, op string, kind types.Kind, id string) error {
	c.calls[op]++
	if err := ctx.Err(); err != nil {
		return wrap(op, kind, id, err)
	}
	if code, ok := c.faults[fault{op, kind}]; ok {
		return &Error{Op: op, Kind: kind, ID: id, Code: code}
	}
	return nil
}

func kindOf(e types.Entity) types.Kind {
	if e == nil {
		return ""
	}
	return e.Kind()
}
