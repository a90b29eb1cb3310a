package db

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.vocdoni.io/dvote/log"
)

// initCollections binds the collection handlers. The collections themselves,
// their validators and indexes are created by the migrations.
func (ms *MongoStorage) initCollections() {
	database := ms.DBClient.Database(ms.database)
	ms.users = database.Collection("users")
	ms.refreshTokens = database.Collection("refreshTokens")
	ms.organizations = database.Collection("organizations")
	ms.campaigns = database.Collection("campaigns")
	ms.donations = database.Collection("donations")
	ms.posts = database.Collection("posts")
	ms.comments = database.Collection("comments")
	ms.notifications = database.Collection("notifications")
	ms.localizations = database.Collection("localizations")
	ms.encryptionKeys = database.Collection("encryptionKeys")
	ms.migrations = database.Collection("migrations")
}

// dynamicUpdateDocument creates a BSON update document from a struct, including only non-zero fields.
// It uses reflection to iterate over the struct fields and create the update document.
// The struct fields must have a bson tag to be included in the update document.
// The _id field is skipped.
func dynamicUpdateDocument(item any, alwaysUpdateTags []string) (bson.M, error) {
	val := reflect.ValueOf(item)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if !val.IsValid() || val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input must be a valid struct")
	}
	update := bson.M{}
	typ := val.Type()
	alwaysUpdateMap := make(map[string]bool, len(alwaysUpdateTags))
	for _, tag := range alwaysUpdateTags {
		alwaysUpdateMap[tag] = true
	}
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanInterface() {
			continue
		}
		tag := bsonFieldName(typ.Field(i).Tag.Get("bson"))
		if tag == "" || tag == "-" || tag == "_id" {
			continue
		}
		if alwaysUpdateMap[tag] || !field.IsZero() {
			update[tag] = field.Interface()
		}
	}
	return bson.M{"$set": update}, nil
}

// bsonFieldName strips the options (",omitempty") from a bson struct tag.
func bsonFieldName(tag string) string {
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			return tag[:i]
		}
	}
	return tag
}

// paginatedDocuments returns the total number of documents matching the
// filter and the requested page (1-based) of them.
func paginatedDocuments[T any](ctx context.Context, collection *mongo.Collection, page, pageSize int64,
	filter bson.M, findOptions *options.FindOptions,
) (int64, []T, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	// the skip, (page-1)*pageSize, must not overflow
	if page > math.MaxInt64/pageSize {
		return 0, nil, fmt.Errorf("%w: page %d out of range", ErrInvalidData, page)
	}
	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, nil, err
	}
	if findOptions == nil {
		findOptions = options.Find()
	}
	findOptions.SetSkip((page - 1) * pageSize).SetLimit(pageSize)
	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			log.Warnw("error closing cursor", "error", err)
		}
	}()
	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// findAll decodes every document matching the filter.
func findAll[T any](ctx context.Context, collection *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			log.Warnw("error closing cursor", "error", err)
		}
	}()
	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// findOne decodes the first document matching the filter, translating
// mongo.ErrNoDocuments into ErrNotFound.
func findOne[T any](ctx context.Context, collection *mongo.Collection, filter any,
	opts ...*options.FindOneOptions,
) (*T, error) {
	item := new(T)
	if err := collection.FindOne(ctx, filter, opts...).Decode(item); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// withTimeout derives a context with the default timeout. Session contexts
// keep their session since the value chain is preserved.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, defaultTimeout)
}

// isDuplicateKey reports whether err is a unique index violation.
func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
