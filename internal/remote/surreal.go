package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// SurrealConfig locates the SurrealDB server holding the replica.
type SurrealConfig struct {
	URL       string // ws://host:8000/rpc
	Namespace string
	Database  string
	Username  string
	Password  string
}

// ErrNoEndpoint is returned by DialSurreal when no URL is configured.
var ErrNoEndpoint = errors.New("remote endpoint not configured")

// Validate checks that the connection settings are complete.
func (c SurrealConfig) Validate() error {
	if c.URL == "" {
		return ErrNoEndpoint
	}
	if c.Namespace == "" || c.Database == "" {
		return errors.New("remote namespace and database are required")
	}
	return nil
}

// SurrealClient stores one table per record kind. Record ids are
// {userID}_{entityID}; reads filter on user_id.
type SurrealClient struct {
	db    *surrealdb.DB
	users UserSource
}

// DialSurreal connects, signs in when credentials are set, and selects the
// namespace and database. The connection uses the surrealcbor codec so
// time.Time values round-trip as native datetimes.
func DialSurreal(ctx context.Context, cfg SurrealConfig, users UserSource) (*SurrealClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Op: "dial", Code: CodeNotConnected, Err: err}
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, &Error{Op: "dial", Code: CodeNotConnected, Err: fmt.Errorf("parsing url: %w", err)}
	}

	conf := connection.NewConfig(u)
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	db, err := surrealdb.FromConnection(ctx, gorillaws.New(conf))
	if err != nil {
		return nil, wrapDial(err, CodeNotConnected)
	}
	if cfg.Username != "" && cfg.Password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": cfg.Username,
			"pass": cfg.Password,
		}); err != nil {
			db.Close(ctx)
			return nil, wrapDial(err, CodeAuthFailed)
		}
	}
	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		db.Close(ctx)
		return nil, wrapDial(err, CodePermissionDenied)
	}
	return &SurrealClient{db: db, users: users}, nil
}

// wrapDial classifies a connection-time failure, falling back to code when
// the message says nothing more specific.
func wrapDial(err error, code Code) error {
	if c := classify(err); c != CodeUnknown {
		code = c
	}
	return &Error{Op: "dial", Code: code, Err: err}
}

// Close closes the connection.
func (c *SurrealClient) Close(ctx context.Context) error {
	return c.db.Close(ctx)
}

// CreateOrReplace implements Client.
func (c *SurrealClient) CreateOrReplace(ctx context.Context, e types.Entity) error {
	doc, err := Encode(e)
	if err != nil {
		return wrap(OpCreateOrReplace, kindOf(e), "", err)
	}
	id := DocumentID(e.Meta().UserID, e.Meta().ID)

	_, err = surrealdb.Upsert[map[string]any](ctx, c.db, models.NewRecordID(string(e.Kind()), id), map[string]any(doc))
	return wrap(OpCreateOrReplace, e.Kind(), id, err)
}

// Patch implements Client.
func (c *SurrealClient) Patch(ctx context.Context, e types.Entity, fields []string) error {
	doc, err := Encode(e)
	if err != nil {
		return wrap(OpPatch, kindOf(e), "", err)
	}
	id := DocumentID(e.Meta().UserID, e.Meta().ID)

	res, err := surrealdb.Merge[map[string]any](ctx, c.db, models.NewRecordID(string(e.Kind()), id), map[string]any(Pick(doc, fields)))
	if err != nil {
		return wrap(OpPatch, e.Kind(), id, err)
	}
	if res == nil || len(*res) == 0 {
		return &Error{Op: OpPatch, Kind: e.Kind(), ID: id, Code: CodeNotFound}
	}
	return nil
}

const fetchAllQuery = "SELECT * FROM type::table($tb) WHERE user_id = $uid"

// FetchAll implements Client.
func (c *SurrealClient) FetchAll(ctx context.Context, kind types.Kind) ([]types.Entity, error) {
	if !kind.Valid() {
		return nil, wrap(OpFetchAll, kind, "", fmt.Errorf("%w: %q", types.ErrUnknownKind, kind))
	}

	results, err := surrealdb.Query[[]map[string]any](ctx, c.db, fetchAllQuery, map[string]any{
		"tb":  string(kind),
		"uid": c.users.UserID(),
	})
	if err != nil {
		return nil, wrap(OpFetchAll, kind, "", err)
	}

	var out []types.Entity
	if results == nil {
		return out, nil
	}
	for _, r := range *results {
		if !strings.EqualFold(r.Status, "OK") {
			return nil, &Error{Op: OpFetchAll, Kind: kind, Code: CodeServer, Err: fmt.Errorf("query status %s", r.Status)}
		}
		for _, doc := range r.Result {
			e, err := Decode(kind, Document(doc))
			if err != nil {
				return nil, wrap(OpFetchAll, kind, "", err)
			}
			out = append(out, e)
		}
	}
	return out, nil
}
