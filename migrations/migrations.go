// Package migrations handles MongoDB schema migrations: collections,
// validators, indexes and data backfills. Each migration registers itself
// from an init function with a unique, increasing version.
package migrations

import (
	"context"
	"maps"
	"sort"

	"go.mongodb.org/mongo-driver/mongo"
)

// MigrationFunc represents a migration function
type MigrationFunc func(ctx context.Context, database *mongo.Database) error

// Migration represents a single migration
type Migration struct {
	Version int
	Name    string
	Up      MigrationFunc
	Down    MigrationFunc
}

var migrationRegistry = make(map[int]Migration)

// AddMigration registers a migration in the global registry. Registering the
// same version twice panics, since it can only be a programming error.
func AddMigration(version int, name string, up, down MigrationFunc) {
	if _, ok := migrationRegistry[version]; ok {
		panic("duplicated migration version " + name)
	}
	migrationRegistry[version] = Migration{
		Version: version,
		Name:    name,
		Up:      up,
		Down:    down,
	}
}

// SortedByVersionAsc returns all registered migrations, sorted by ascending version
func SortedByVersionAsc() []Migration {
	migs := make([]Migration, 0, len(migrationRegistry))
	for _, mig := range migrationRegistry {
		migs = append(migs, mig)
	}
	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	return migs
}

// Latest returns the highest registered version.
func Latest() int {
	latest := 0
	for v := range migrationRegistry {
		if v > latest {
			latest = v
		}
	}
	return latest
}

// AsMap returns all migrations as a map
func AsMap() map[int]Migration {
	return maps.Clone(migrationRegistry)
}
