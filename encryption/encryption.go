// Package encryption encrypts sensitive user fields at rest with AES-256-GCM.
// Data keys are derived with HKDF from a master secret and a per key salt;
// only the key id and the salt are stored. Every ciphertext carries the id of
// the key it was sealed with, so rotating the active key keeps the old
// ciphertexts readable.
package encryption

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/internal"
	"go.vocdoni.io/dvote/log"
	"golang.org/x/crypto/hkdf"
)

const (
	// DefaultRotationPeriod is the maximum age of the active key.
	DefaultRotationPeriod = 90 * 24 * time.Hour
	// MinMasterKeyLength is the minimum length of the master secret in bytes.
	MinMasterKeyLength = 32

	ciphertextPrefix = "enc1"
	keyLength        = 32
	saltLength       = 32
	hkdfInfo         = "raiseyourvoice field encryption"
)

var (
	// ErrMalformedCiphertext is returned when a value does not have the
	// ciphertext format.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")
	// ErrUnknownKey is returned when the key of a ciphertext is not stored.
	ErrUnknownKey = errors.New("unknown encryption key")
)

// Config configures the encryption service.
type Config struct {
	DB             *db.MongoStorage
	MasterKey      []byte
	RotationPeriod time.Duration
}

// Service encrypts and decrypts field values.
type Service struct {
	db     *db.MongoStorage
	master []byte
	period time.Duration

	mu     sync.RWMutex
	active *db.EncryptionKey
	keys   map[string][]byte
}

// New creates the encryption service and makes sure an active key exists.
func New(ctx context.Context, conf *Config) (*Service, error) {
	if conf == nil || conf.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	if len(conf.MasterKey) < MinMasterKeyLength {
		return nil, fmt.Errorf("master key must be at least %d bytes", MinMasterKeyLength)
	}
	period := conf.RotationPeriod
	if period <= 0 {
		period = DefaultRotationPeriod
	}
	s := &Service{
		db:     conf.DB,
		master: conf.MasterKey,
		period: period,
		keys:   map[string][]byte{},
	}
	if err := s.loadActive(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// loadActive loads the active key, creating the first one when none exists.
func (s *Service) loadActive(ctx context.Context) error {
	key, err := s.db.ActiveEncryptionKey(ctx)
	if err == db.ErrNotFound {
		if _, err := s.rotate(ctx, ""); err != nil && !errors.Is(err, db.ErrUpdateWouldOverwrite) {
			return fmt.Errorf("could not create the first encryption key: %w", err)
		}
		key, err = s.db.ActiveEncryptionKey(ctx)
	}
	if err != nil {
		return fmt.Errorf("could not load the active encryption key: %w", err)
	}
	s.setActive(key)
	return nil
}

func (s *Service) setActive(key *db.EncryptionKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = key
	s.keys[key.ID] = s.derive(key)
}

// ActiveKeyID returns the id of the key new values are encrypted with.
func (s *Service) ActiveKeyID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.ID
}

func (s *Service) derive(key *db.EncryptionKey) []byte {
	out := make([]byte, keyLength)
	r := hkdf.New(sha256.New, s.master, key.Salt, []byte(hkdfInfo+" "+key.ID))
	if _, err := io.ReadFull(r, out); err != nil {
		// hkdf can only fail when asked for more than 255 hashes of output
		panic(err)
	}
	return out
}

// IsEncrypted reports whether the value has the ciphertext format.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, ciphertextPrefix+":")
}

// Encrypt seals the value with the active key. The empty string is kept as
// is.
func (s *Service) Encrypt(_ context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	s.mu.RLock()
	id, key := s.active.ID, s.keys[s.active.ID]
	s.mu.RUnlock()

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	// the key id is authenticated as additional data
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), []byte(id))
	return fmt.Sprintf("%s:%s:%s", ciphertextPrefix, id, base64.RawURLEncoding.EncodeToString(sealed)), nil
}

// Decrypt opens a value sealed by Encrypt with any active or retired key.
// Values without the ciphertext format are returned unchanged, which lets
// rows written before encryption was enabled be read.
func (s *Service) Decrypt(ctx context.Context, value string) (string, error) {
	if value == "" || !IsEncrypted(value) {
		return value, nil
	}
	parts := strings.SplitN(value, ":", 3)
	if len(parts) != 3 || parts[1] == "" {
		return "", ErrMalformedCiphertext
	}
	id := parts[1]
	sealed, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	key, err := s.key(ctx, id)
	if err != nil {
		return "", err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	if len(sealed) < gcm.NonceSize() {
		return "", ErrMalformedCiphertext
	}
	plaintext, err := gcm.Open(nil, sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():], []byte(id))
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}

// key returns the derived key of the id, loading it from the database the
// first time a retired key is used.
func (s *Service) key(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	key, ok := s.keys[id]
	s.mu.RUnlock()
	if ok {
		return key, nil
	}
	stored, err := s.db.EncryptionKey(ctx, id)
	if err == db.ErrNotFound {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, id)
	}
	if err != nil {
		return nil, err
	}
	key = s.derive(stored)
	s.mu.Lock()
	s.keys[id] = key
	s.mu.Unlock()
	return key, nil
}

// RotateIfDue creates a new active key when the active one is older than
// the rotation period. Another instance may have rotated meanwhile, in that
// case its key is adopted.
func (s *Service) RotateIfDue(ctx context.Context) (bool, error) {
	current, err := s.db.ActiveEncryptionKey(ctx)
	if err != nil {
		return false, fmt.Errorf("could not load the active encryption key: %w", err)
	}
	if time.Since(current.CreatedAt) < s.period {
		if current.ID != s.ActiveKeyID() {
			s.setActive(current)
		}
		return false, nil
	}
	key, err := s.rotate(ctx, current.ID)
	if errors.Is(err, db.ErrUpdateWouldOverwrite) {
		log.Infow("encryption key rotated by another instance")
		return false, s.loadActive(ctx)
	}
	if err != nil {
		return false, err
	}
	s.setActive(key)
	log.Infow("encryption key rotated", "retired", current.ID, "active", key.ID)
	return true, nil
}

func (s *Service) rotate(ctx context.Context, expected string) (*db.EncryptionKey, error) {
	key := &db.EncryptionKey{
		ID:   time.Now().UTC().Format("20060102") + "-" + internal.RandomHex(4),
		Salt: internal.RandomBytes(saltLength),
	}
	if err := s.db.RotateEncryptionKey(ctx, expected, key); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
