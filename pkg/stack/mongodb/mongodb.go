// Package mongodb gives resources lazy access to the default database and
// collection.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ErrNotConfigured is returned when the service has no URL or database.
var ErrNotConfigured = errors.New("mongodb is not configured")

// ConnectFunc opens a client for uri.
type ConnectFunc func(ctx context.Context, uri string) (*mongo.Client, error)

// Connect opens a client with the driver defaults.
func Connect(_ context.Context, uri string) (*mongo.Client, error) {
	return mongo.Connect(options.Client().ApplyURI(uri))
}

// Option configures a Service.
type Option func(*Service)

// WithConnect replaces the function used to open the client.
func WithConnect(fn ConnectFunc) Option {
	return func(s *Service) {
		s.connect = fn
	}
}

// Service holds one client for the process. The client is created on first
// use; a failed attempt is not cached.
type Service struct {
	uri        string
	database   string
	collection string
	connect    ConnectFunc

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
}

// New returns a service for uri with the given default database and collection.
func New(uri, database, collection string, opts ...Option) *Service {
	s := &Service{
		uri:        uri,
		database:   database,
		collection: collection,
		connect:    Connect,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clientLocked(ctx context.Context) (*mongo.Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	if s.uri == "" || s.database == "" {
		return nil, ErrNotConfigured
	}
	client, err := s.connect(ctx, s.uri)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	s.client = client
	return client, nil
}

// DefaultDatabase returns the configured database, connecting if needed.
func (s *Service) DefaultDatabase(ctx context.Context) (*mongo.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}
	client, err := s.clientLocked(ctx)
	if err != nil {
		return nil, err
	}
	s.db = client.Database(s.database)
	return s.db, nil
}

// DefaultCollection returns the configured collection of the default database.
func (s *Service) DefaultCollection(ctx context.Context) (*mongo.Collection, error) {
	db, err := s.DefaultDatabase(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coll == nil {
		s.coll = db.Collection(s.collection)
	}
	return s.coll, nil
}

// Ping checks that the primary is reachable.
func (s *Service) Ping(ctx context.Context) error {
	s.mu.Lock()
	client, err := s.clientLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("pinging mongodb: %w", err)
	}
	return nil
}

// Close disconnects the client if one was opened.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client, s.db, s.coll = nil, nil, nil
	return err
}
