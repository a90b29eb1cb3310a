package encryption

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/test"
)

var testDB *db.MongoStorage

func TestMain(m *testing.M) {
	ctx := context.Background()
	dbContainer, err := test.StartMongoContainer(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to start MongoDB container: %v", err))
	}
	mongoURI, err := test.MongoURI(ctx, dbContainer)
	if err != nil {
		panic(fmt.Sprintf("failed to get MongoDB endpoint: %v", err))
	}
	if testDB, err = db.New(mongoURI, test.RandomDatabaseName()); err != nil {
		panic(fmt.Sprintf("failed to create new MongoDB connection: %v", err))
	}
	code := m.Run()
	testDB.Close()
	if err := dbContainer.Terminate(ctx); err != nil {
		panic(fmt.Sprintf("failed to stop MongoDB container: %v", err))
	}
	os.Exit(code)
}

var masterKey = []byte("0123456789abcdef0123456789abcdef")

func newService(c *qt.C, period time.Duration) *Service {
	s, err := New(context.Background(), &Config{DB: testDB, MasterKey: masterKey, RotationPeriod: period})
	c.Assert(err, qt.IsNil)
	return s
}

func TestEncryptDecrypt(t *testing.T) {
	c := qt.New(t)
	c.Assert(testDB.Reset(), qt.IsNil)
	ctx := context.Background()
	s := newService(c, 0)

	ct, err := s.Encrypt(ctx, "+14155552671")
	c.Assert(err, qt.IsNil)
	c.Assert(IsEncrypted(ct), qt.IsTrue)
	c.Assert(strings.Contains(ct, "+14155552671"), qt.IsFalse)
	c.Assert(strings.Split(ct, ":")[1], qt.Equals, s.ActiveKeyID())

	pt, err := s.Decrypt(ctx, ct)
	c.Assert(err, qt.IsNil)
	c.Assert(pt, qt.Equals, "+14155552671")

	// two encryptions of the same value differ
	other, err := s.Encrypt(ctx, "+14155552671")
	c.Assert(err, qt.IsNil)
	c.Assert(other, qt.Not(qt.Equals), ct)

	// plain and empty values are passed through
	empty, err := s.Encrypt(ctx, "")
	c.Assert(err, qt.IsNil)
	c.Assert(empty, qt.Equals, "")
	pt, err = s.Decrypt(ctx, "+34600000000")
	c.Assert(err, qt.IsNil)
	c.Assert(pt, qt.Equals, "+34600000000")

	// tampering is detected
	parts := strings.Split(ct, ":")
	sealed, err := base64.RawURLEncoding.DecodeString(parts[2])
	c.Assert(err, qt.IsNil)
	sealed[len(sealed)-1] ^= 0xff
	_, err = s.Decrypt(ctx, parts[0]+":"+parts[1]+":"+base64.RawURLEncoding.EncodeToString(sealed))
	c.Assert(err, qt.IsNotNil)
	_, err = s.Decrypt(ctx, "enc1:unknown-key:AAAA")
	c.Assert(err, qt.ErrorIs, ErrUnknownKey)
	_, err = s.Decrypt(ctx, "enc1::AAAA")
	c.Assert(err, qt.ErrorIs, ErrMalformedCiphertext)

	// a different master secret cannot open the values
	wrong, err := New(ctx, &Config{DB: testDB, MasterKey: []byte("ffffffffffffffffffffffffffffffff")})
	c.Assert(err, qt.IsNil)
	_, err = wrong.Decrypt(ctx, ct)
	c.Assert(err, qt.IsNotNil)

	_, err = New(ctx, &Config{DB: testDB, MasterKey: []byte("short")})
	c.Assert(err, qt.IsNotNil)
}

func TestRotateIfDue(t *testing.T) {
	c := qt.New(t)
	c.Assert(testDB.Reset(), qt.IsNil)
	ctx := context.Background()

	s := newService(c, 0)
	rotated, err := s.RotateIfDue(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(rotated, qt.IsFalse)
	first := s.ActiveKeyID()
	old, err := s.Encrypt(ctx, "old secret")
	c.Assert(err, qt.IsNil)

	due := newService(c, time.Nanosecond)
	c.Assert(due.ActiveKeyID(), qt.Equals, first)
	rotated, err = due.RotateIfDue(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(rotated, qt.IsTrue)
	c.Assert(due.ActiveKeyID(), qt.Not(qt.Equals), first)

	// old ciphertexts stay readable
	pt, err := due.Decrypt(ctx, old)
	c.Assert(err, qt.IsNil)
	c.Assert(pt, qt.Equals, "old secret")

	// the other instance adopts the new key and reads the new ciphertexts
	fresh, err := due.Encrypt(ctx, "new secret")
	c.Assert(err, qt.IsNil)
	rotated, err = s.RotateIfDue(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(rotated, qt.IsFalse)
	c.Assert(s.ActiveKeyID(), qt.Equals, due.ActiveKeyID())
	pt, err = s.Decrypt(ctx, fresh)
	c.Assert(err, qt.IsNil)
	c.Assert(pt, qt.Equals, "new secret")

	keys, err := testDB.EncryptionKeys(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(keys, qt.HasLen, 2)
	c.Assert(keys[0].Active, qt.IsTrue)
	c.Assert(keys[1].Active, qt.IsFalse)
	c.Assert(keys[1].RetiredAt, qt.IsNotNil)
}

func TestRotationWorker(t *testing.T) {
	c := qt.New(t)
	c.Assert(testDB.Reset(), qt.IsNil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newService(c, time.Nanosecond)
	first := s.ActiveKeyID()
	s.StartRotationWorker(ctx, 20*time.Millisecond)

	deadline := time.Now().Add(5 * time.Second)
	for s.ActiveKeyID() == first && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	c.Assert(s.ActiveKeyID(), qt.Not(qt.Equals), first)
}
