// Package queries binds each API resource to the query cache: the cache
// keys, the read options and the mutation discipline of every operation.
// Slices and maps returned from reads are shared with the cache and must be
// treated as read-only.
package queries

import (
	"context"
	"log/slog"
	"time"

	"github.com/dm0114/capacitor-push-prototype/internal/client/gateway"
	"github.com/dm0114/capacitor-push-prototype/internal/client/querycache"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
	svc "github.com/dm0114/capacitor-push-prototype/internal/domain/services/workspace"
)

// API is the remote surface the queries need; *gateway.Client implements it.
type API interface {
	ListPages(ctx context.Context, filter gateway.PageFilter) ([]models.Page, error)
	GetPage(ctx context.Context, id string) (*models.Page, error)
	CreatePage(ctx context.Context, req *svc.CreatePageRequest) (*models.Page, error)
	UpdatePage(ctx context.Context, id string, update gateway.PageUpdate) (*models.Page, error)
	DeletePage(ctx context.Context, id string) error

	GetBlocks(ctx context.Context, pageID string) (models.Blocks, error)
	SaveBlocks(ctx context.Context, pageID string, blocks models.Blocks) error

	ListProperties(ctx context.Context, databaseID string) ([]models.Property, error)
	CreateProperty(ctx context.Context, databaseID string, req *svc.CreatePropertyRequest) (*models.Property, error)
	UpdateProperty(ctx context.Context, id string, req *svc.UpdatePropertyRequest) (*models.Property, error)
	ListRows(ctx context.Context, databaseID string) ([]models.Row, error)
	CreateRow(ctx context.Context, databaseID string, req *svc.CreateRowRequest) (*models.Row, error)
	UpdateRow(ctx context.Context, id string, values map[string]any) (*models.Row, error)
	DeleteRow(ctx context.Context, id string) error
	ListViews(ctx context.Context, databaseID string) ([]models.View, error)
	CreateView(ctx context.Context, databaseID string, req *svc.CreateViewRequest) (*models.View, error)
	UpdateView(ctx context.Context, id string, req *svc.UpdateViewRequest) (*models.View, error)

	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, provider string) (*svc.Session, error)
	Logout(ctx context.Context) error
}

// Client exposes every resource operation over a shared cache.
type Client struct {
	cache  *querycache.Client
	api    API
	logger *slog.Logger
	now    func() time.Time
}

// New wires the API to the cache.
func New(cache *querycache.Client, api API, logger *slog.Logger) *Client {
	return &Client{
		cache:  cache,
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

// Cache returns the underlying query cache.
func (c *Client) Cache() *querycache.Client {
	return c.cache
}

// readOptions are the defaults with retries limited to transient failures.
func (c *Client) readOptions() querycache.QueryOptions {
	opts := c.cache.Defaults()
	opts.RetryIf = gateway.IsRetryable
	return opts
}
