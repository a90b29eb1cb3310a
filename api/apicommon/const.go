// Package apicommon provides common types, constants, and helper functions for the API.
package apicommon

// MetadataKey is a type to define the key for the metadata stored in the
// context.
type MetadataKey string

// UserMetadataKey is the key used to store the user in the context.
const UserMetadataKey MetadataKey = "user"

const (
	// DefaultPageSize is the page size of the listings when none is requested.
	DefaultPageSize = 20
	// MaxPageSize caps the page size of the listings.
	MaxPageSize = 100
	// IdempotencyKeyHeader lets clients retry a donation without charging twice.
	IdempotencyKeyHeader = "Idempotency-Key"
)
