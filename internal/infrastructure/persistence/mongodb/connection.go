// Package mongodb implements the document-store persistence layer for
// ContestHub. The store holds three independent collections (contests,
// users, participations) with no schema enforcement and no cross-collection
// constraints; referential integrity is a convention the read side
// re-validates, never something the driver guarantees.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrConnectionClosed indicates the client has been disconnected.
	ErrConnectionClosed = errors.New("mongodb: connection is closed")

	// ErrNoDocuments is returned when a lookup matches nothing.
	ErrNoDocuments = mongo.ErrNoDocuments
)

// IsNoDocuments reports whether err means "no record matched the filter".
func IsNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// ══════════════════════════════════════════════════════════════════════════════
// CONNECTION
// ══════════════════════════════════════════════════════════════════════════════

// Collection names. Three collections, written independently, joined only
// at read time.
const (
	CollectionContests       = "contests"
	CollectionUsers          = "users"
	CollectionParticipations = "participations"
)

// Config holds MongoDB connection configuration.
type Config struct {
	// URI is the connection string (mongodb:// or mongodb+srv://).
	URI string

	// Database is the database name.
	Database string

	// ConnectTimeout is the timeout for establishing the connection.
	ConnectTimeout time.Duration

	// OperationTimeout bounds individual storage operations when callers
	// pass an unbounded context.
	OperationTimeout time.Duration

	// MaxPoolSize is the maximum number of pooled connections.
	MaxPoolSize uint64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Database:         "contestHub",
		ConnectTimeout:   10 * time.Second,
		OperationTimeout: 15 * time.Second,
		MaxPoolSize:      20,
	}
}

// Connection wraps the Mongo client and database handle.
type Connection struct {
	client *mongo.Client
	db     *mongo.Database
	config Config
	closed bool
	mu     sync.RWMutex
}

// NewConnection connects to MongoDB and verifies the connection with a ping.
func NewConnection(ctx context.Context, cfg Config) (*Connection, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongodb: URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = "contestHub"
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: failed to connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: failed to ping: %w", err)
	}

	return &Connection{
		client: client,
		db:     client.Database(cfg.Database),
		config: cfg,
	}, nil
}

// Collection returns a handle for the named collection.
func (c *Connection) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Contests returns the contests collection handle.
func (c *Connection) Contests() *mongo.Collection {
	return c.Collection(CollectionContests)
}

// Users returns the users collection handle.
func (c *Connection) Users() *mongo.Collection {
	return c.Collection(CollectionUsers)
}

// Participations returns the participations collection handle.
func (c *Connection) Participations() *mongo.Collection {
	return c.Collection(CollectionParticipations)
}

// OperationContext derives a bounded context for a single storage operation
// when the caller's context carries no deadline of its own.
func (c *Connection) OperationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.config.OperationTimeout)
}

// HealthCheck pings the primary.
func (c *Connection) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnectionClosed
	}
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client. Safe to call more than once.
func (c *Connection) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Disconnect(ctx)
}
