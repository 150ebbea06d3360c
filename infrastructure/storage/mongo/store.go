// ABOUTME: MongoDB-backed article store with unique-key replace-upsert semantics
// ABOUTME: One document per article, keyed by source_url; the newest parse wins entirely

package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"news-harvester-api/core/domain"
	"news-harvester-api/core/interfaces"
)

const serverSelectionTimeout = 5 * time.Second

// Config holds the store's connection settings
type Config struct {
	// User and Password are required; the process must not start without them
	User     string
	Password string

	// Host and Port locate the server
	Host string
	Port string

	// AuthSource is the authentication database
	AuthSource string

	// Database and Collection name the persisted layout
	Database   string
	Collection string
}

// URI assembles the connection string from the configured parts
func (c Config) URI() string {
	return fmt.Sprintf("mongodb://%s:%s@%s:%s/?authSource=%s",
		c.User, c.Password, c.Host, c.Port, c.AuthSource)
}

var _ interfaces.ArticleStore = (*Store)(nil)

// Store implements the ArticleStore interface over the MongoDB driver.
// The client is opened once at startup and closed once at shutdown.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     interfaces.Logger
}

// NewStore connects to MongoDB. The caller should Ping before first use;
// an unreachable store at startup is fatal to the process.
func NewStore(ctx context.Context, cfg Config, logger interfaces.Logger) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.URI()).
		SetServerSelectionTimeout(serverSelectionTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to store: %w", err)
	}

	return &Store{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		logger:     logger,
	}, nil
}

// Ping verifies the store connection is alive
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("store ping: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique index on source_url. It must succeed
// before the first Save.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "source_url", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating source_url index: %w", err)
	}
	return nil
}

// Save inserts the record, stamping parsed_at_utc. On a duplicate source_url
// the whole document is replaced via upsert; there is no field merge, so a
// conflicting write is safe regardless of arrival order.
func (s *Store) Save(ctx context.Context, record *domain.ArticleRecord) error {
	doc := record.ToStoredDocument()
	doc.ParsedAtUTC = time.Now().UTC().Format(time.RFC3339)

	_, err := s.collection.InsertOne(ctx, doc)
	if err == nil {
		return nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("inserting document: %w", err)
	}

	s.logger.Debug("Replacing existing document", map[string]interface{}{
		"url": doc.SourceURL,
	})

	_, err = s.collection.ReplaceOne(
		ctx,
		bson.M{"source_url": doc.SourceURL},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("replacing document: %w", err)
	}
	return nil
}

// SampleRandom returns up to n randomly sampled documents
func (s *Store) SampleRandom(ctx context.Context, n int) ([]domain.StoredDocument, error) {
	if n <= 0 {
		return []domain.StoredDocument{}, nil
	}

	cursor, err := s.collection.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: n}}}},
		bson.D{{Key: "$project", Value: bson.D{{Key: "_id", Value: 0}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("sampling documents: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []domain.StoredDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding sampled documents: %w", err)
	}
	return docs, nil
}

// Close releases the store connection. Called once at shutdown.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
