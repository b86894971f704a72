package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/annel0/fuelcell/internal/config"
	"github.com/annel0/fuelcell/internal/score"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLeaderboard хранит записи документами коллекции
type MongoLeaderboard struct {
	client     *mongo.Client
	collection *mongo.Collection
	ctxTimeout time.Duration
}

type mongoEntry struct {
	Position int    `bson:"position"`
	Name     string `bson:"name"`
	Score    int    `bson:"score"`
}

// NewMongoLeaderboard подключается к MongoDB и проверяет соединение
func NewMongoLeaderboard(ctx context.Context, cfg config.MongoConfig) (*MongoLeaderboard, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "fuelcell"
	}
	if cfg.Collection == "" {
		cfg.Collection = "leaderboard"
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	repo := &MongoLeaderboard{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		ctxTimeout: 5 * time.Second,
	}

	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "position", Value: 1}},
		Options: options.Index().SetName("position_idx"),
	}
	if _, err := repo.collection.Indexes().CreateOne(cctx, idx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return repo, nil
}

// Load читает документы в порядке position
func (m *MongoLeaderboard) Load(ctx context.Context) ([]score.Entry, error) {
	cctx, cancel := context.WithTimeout(ctx, m.ctxTimeout)
	defer cancel()

	cur, err := m.collection.Find(cctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(cctx)

	var docs []mongoEntry
	if err := cur.All(cctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}

	entries := make([]score.Entry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, score.Entry{Name: d.Name, Score: d.Score})
	}
	return entries, nil
}

// Save заменяет все документы коллекции
func (m *MongoLeaderboard) Save(ctx context.Context, entries []score.Entry) error {
	cctx, cancel := context.WithTimeout(ctx, m.ctxTimeout)
	defer cancel()

	if _, err := m.collection.DeleteMany(cctx, bson.M{}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(entries))
	for i, e := range entries {
		docs = append(docs, mongoEntry{Position: i, Name: e.Name, Score: e.Score})
	}
	if _, err := m.collection.InsertMany(cctx, docs); err != nil {
		return fmt.Errorf("mongo insert: %w", err)
	}
	return nil
}

// Close отключается от MongoDB
func (m *MongoLeaderboard) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.ctxTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}
