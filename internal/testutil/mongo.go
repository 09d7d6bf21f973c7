package testutil

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultTestMongoURI is the local compose MongoDB; override with TEST_MONGO_URI.
const DefaultTestMongoURI = "mongodb://localhost:57017"

// SetupTestMongoCollection returns a fresh collection in a per-test database
// that is dropped on cleanup.
func SetupTestMongoCollection(t TestingTB) *mongo.Collection {
	t.Helper()

	uri := getEnvOrDefault("TEST_MONGO_URI", DefaultTestMongoURI)
	opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		skipOrFail(t, requireMongo(), "MongoDB not available at %s: %v", uri, err)
		return nil
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		skipOrFail(t, requireMongo(), "MongoDB not available at %s: %v", uri, err)
		return nil
	}

	db := client.Database(generateSchemaName())
	registerCleanup(t, func() {
		cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer ccancel()
		if err := db.Drop(cctx); err != nil {
			t.Logf("warning: failed to drop mongo test database: %v", err)
		}
		_ = client.Disconnect(cctx)
	})
	return db.Collection("users")
}
