// Package db implements the MongoDB storage layer: users, organizations,
// campaigns, donations, social content, notifications, localized strings and
// encryption keys.
package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.vocdoni.io/dvote/log"
)

// ResetDBEnv drops every collection on start when set to any value.
const ResetDBEnv = "RYV_MONGO_RESET_DB"

// MongoStorage uses an external MongoDB service to store the platform data.
// Transactions require MongoDB to run as a replica set.
type MongoStorage struct {
	DBClient *mongo.Client
	database string

	users          *mongo.Collection
	refreshTokens  *mongo.Collection
	organizations  *mongo.Collection
	campaigns      *mongo.Collection
	donations      *mongo.Collection
	posts          *mongo.Collection
	comments       *mongo.Collection
	notifications  *mongo.Collection
	localizations  *mongo.Collection
	encryptionKeys *mongo.Collection
	migrations     *mongo.Collection
}

func New(url, database string) (*MongoStorage, error) {
	if url == "" {
		return nil, fmt.Errorf("mongo URL is not defined")
	}
	if database == "" {
		return nil, fmt.Errorf("mongo database is not defined")
	}
	log.Infow("connecting to mongodb", "database", database)
	opts := options.Client()
	opts.ApplyURI(url)
	opts.SetMaxConnecting(200)
	timeout := time.Second * 10
	opts.ConnectTimeout = &timeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := client.Ping(ctx2, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("cannot connect to mongodb: %w", err)
	}
	ms := &MongoStorage{
		DBClient: client,
		database: database,
	}
	ms.initCollections()
	// if reset flag is enabled, Reset drops the database documents and
	// applies the migrations again, else just apply the pending ones
	if reset := os.Getenv(ResetDBEnv); reset != "" {
		if err := ms.Reset(); err != nil {
			return nil, err
		}
		return ms, nil
	}
	if err := ms.RunMigrationsUp(); err != nil {
		return nil, err
	}
	return ms, nil
}

// Close disconnects the client.
func (ms *MongoStorage) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ms.DBClient.Disconnect(ctx); err != nil {
		log.Warn(err)
	}
}

// Reset drops the whole database and recreates the collections, validators
// and indexes from scratch.
func (ms *MongoStorage) Reset() error {
	log.Infof("resetting database %s", ms.database)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := ms.DBClient.Database(ms.database).Drop(ctx); err != nil {
		return err
	}
	return ms.RunMigrationsUp()
}

// Database returns the name of the database in use.
func (ms *MongoStorage) Database() string {
	return ms.database
}
