package db

import (
	"context"
	"fmt"
	"time"

	"github.com/raiseyourvoice/backend/migrations"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.vocdoni.io/dvote/log"
)

// MigrationRecord represents a migration record stored in MongoDB
type MigrationRecord struct {
	Version   int       `bson:"version"`
	Name      string    `bson:"name"`
	AppliedAt time.Time `bson:"appliedAt"`
}

// RunMigrationsUp applies every registered migration newer than the last
// one recorded in the migrations collection.
func (ms *MongoStorage) RunMigrationsUp() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	last, err := ms.LastMigration(ctx)
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}
	database := ms.DBClient.Database(ms.database)
	applied := 0
	for _, m := range migrations.SortedByVersionAsc() {
		if m.Version <= last {
			continue
		}
		log.Infow("applying migration", "version", m.Version, "name", m.Name)
		if err := m.Up(ctx, database); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := ms.migrations.InsertOne(ctx, MigrationRecord{
			Version:   m.Version,
			Name:      m.Name,
			AppliedAt: time.Now(),
		}); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		applied++
	}
	if applied == 0 {
		log.Debugw("database is up-to-date", "version", last)
		return nil
	}
	log.Infow("database migrations completed", "applied", applied)
	return nil
}

// RunMigrationsDown rolls back the given number of migrations, newest first.
func (ms *MongoStorage) RunMigrationsDown(steps int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	last, err := ms.LastMigration(ctx)
	if err != nil {
		return fmt.Errorf("failed to get last applied migration: %w", err)
	}
	if steps <= 0 || steps > last {
		steps = last
	}
	registry := migrations.AsMap()
	database := ms.DBClient.Database(ms.database)
	for version := last; version > last-steps; version-- {
		m, ok := registry[version]
		if !ok {
			return fmt.Errorf("migration %d not found in registry", version)
		}
		log.Infow("rolling back migration", "version", m.Version, "name", m.Name)
		if err := m.Down(ctx, database); err != nil {
			return fmt.Errorf("failed to rollback migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := ms.migrations.DeleteOne(ctx, bson.M{"version": version}); err != nil {
			return fmt.Errorf("failed to remove migration record %d: %w", version, err)
		}
	}
	return nil
}

// LastMigration returns the highest applied migration version, 0 if none.
func (ms *MongoStorage) LastMigration(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	rec, err := findOne[MigrationRecord](ctx, ms.migrations, bson.M{}, opts)
	if err == ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rec.Version, nil
}
