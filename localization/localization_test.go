package localization

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	root "github.com/raiseyourvoice/backend"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/test"
	"github.com/redis/go-redis/v9"
)

var (
	testDB    *db.MongoStorage
	testRedis *redis.Client
)

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
	redisContainer, err := test.StartRedisContainer(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to start Redis container: %v", err))
	}
	redisURL, err := test.RedisURL(ctx, redisContainer)
	if err != nil {
		panic(fmt.Sprintf("failed to get Redis endpoint: %v", err))
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		panic(fmt.Sprintf("failed to parse Redis URL: %v", err))
	}
	testRedis = redis.NewClient(opts)

	code := m.Run()
	_ = testRedis.Close()
	testDB.Close()
	if err := redisContainer.Terminate(ctx); err != nil {
		panic(fmt.Sprintf("failed to stop Redis container: %v", err))
	}
	if err := dbContainer.Terminate(ctx); err != nil {
		panic(fmt.Sprintf("failed to stop MongoDB container: %v", err))
	}
	os.Exit(code)
}

func newService(c *qt.C, withRedis bool) *Service {
	conf := &Config{DB: testDB, Languages: []string{"en", "es", "fr"}}
	if withRedis {
		conf.Redis = testRedis
	}
	s, err := New(conf)
	c.Assert(err, qt.IsNil)
	return s
}

func reset(c *qt.C) {
	c.Assert(testDB.Reset(), qt.IsNil)
	c.Assert(testRedis.FlushAll(context.Background()).Err(), qt.IsNil)
}

func TestGetString(t *testing.T) {
	c := qt.New(t)
	reset(c)
	ctx := context.Background()
	s := newService(c, true)

	c.Assert(testDB.SetLocalizedString(ctx, "donate", "en", "Donate"), qt.IsNil)
	c.Assert(testDB.SetLocalizedString(ctx, "donate", "es", "Donar"), qt.IsNil)

	value, err := s.GetString(ctx, "donate", "ES")
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, "Donar")

	// populated the upper tiers
	cached, err := testRedis.Get(ctx, "loc:es:donate").Result()
	c.Assert(err, qt.IsNil)
	c.Assert(cached, qt.Equals, "Donar")
	_, ok := s.local.Get("loc:es:donate")
	c.Assert(ok, qt.IsTrue)

	// fallback to the default language
	value, err = s.GetString(ctx, "donate", "fr")
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, "Donate")

	value, err = s.GetString(ctx, "missing.key", "es")
	c.Assert(err, qt.ErrorIs, errors.ErrLocalizationNotFound)
	c.Assert(value, qt.Equals, "missing.key")

	_, err = s.GetString(ctx, "donate", "de")
	c.Assert(err, qt.ErrorIs, errors.ErrUnsupportedLanguage)

	// an empty language means the default one
	value, err = s.GetString(ctx, "donate", "")
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, "Donate")
}

func TestGetStringWithoutRedis(t *testing.T) {
	c := qt.New(t)
	reset(c)
	ctx := context.Background()
	s := newService(c, false)

	c.Assert(s.SetString(ctx, "share", "en", "Share"), qt.IsNil)
	value, err := s.GetString(ctx, "share", "en")
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, "Share")
	c.Assert(s.DeleteString(ctx, "share", "en"), qt.IsNil)
	_, err = s.GetString(ctx, "share", "en")
	c.Assert(err, qt.ErrorIs, errors.ErrLocalizationNotFound)
	c.Assert(s.DeleteString(ctx, "share", "en"), qt.ErrorIs, errors.ErrLocalizationNotFound)
}

func TestKeysIgnoreSurroundingSpaces(t *testing.T) {
	c := qt.New(t)
	reset(c)
	ctx := context.Background()
	s := newService(c, true)

	c.Assert(s.SetString(ctx, "  volunteer ", "en", "Volunteer"), qt.IsNil)
	value, err := s.GetString(ctx, "volunteer", "en")
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, "Volunteer")
	value, err = s.GetString(ctx, " volunteer\t", "en")
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, "Volunteer")

	c.Assert(s.DeleteString(ctx, "volunteer  ", "en"), qt.IsNil)
	_, err = s.GetString(ctx, "volunteer", "en")
	c.Assert(err, qt.ErrorIs, errors.ErrLocalizationNotFound)

	_, err = s.GetString(ctx, "   ", "en")
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidData)
	c.Assert(s.DeleteString(ctx, " ", "en"), qt.ErrorIs, errors.ErrInvalidData)
}

func TestSetStringVisibleFromEveryInstance(t *testing.T) {
	c := qt.New(t)
	reset(c)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	writer := newService(c, true)
	reader := newService(c, true)
	c.Assert(reader.Listen(ctx), qt.IsNil)

	c.Assert(writer.SetString(ctx, "goal", "en", "Goal"), qt.IsNil)
	value, err := reader.GetString(ctx, "goal", "en")
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, "Goal")
	all, err := reader.GetAll(ctx, "en")
	c.Assert(err, qt.IsNil)
	c.Assert(all["goal"], qt.Equals, "Goal")

	c.Assert(writer.SetString(ctx, "goal", "en", "Target"), qt.IsNil)

	// the writer sees its own write right away
	value, err = writer.GetString(ctx, "goal", "en")
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, "Target")

	// the reader drops its local entry once the invalidation arrives
	deadline := time.Now().Add(5 * time.Second)
	for {
		value, err = reader.GetString(ctx, "goal", "en")
		c.Assert(err, qt.IsNil)
		if value == "Target" || time.Now().After(deadline) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	c.Assert(value, qt.Equals, "Target")

	all, err = reader.GetAll(ctx, "en")
	c.Assert(err, qt.IsNil)
	c.Assert(all["goal"], qt.Equals, "Target")
}

func TestGetAll(t *testing.T) {
	c := qt.New(t)
	reset(c)
	ctx := context.Background()
	s := newService(c, true)

	c.Assert(s.SetString(ctx, "like", "en", "Like"), qt.IsNil)
	c.Assert(s.SetString(ctx, "share", "en", "Share"), qt.IsNil)
	c.Assert(s.SetString(ctx, "like", "es", "Me gusta"), qt.IsNil)

	all, err := s.GetAll(ctx, "es")
	c.Assert(err, qt.IsNil)
	c.Assert(all, qt.DeepEquals, map[string]string{"like": "Me gusta", "share": "Share"})
	exists, err := testRedis.Exists(ctx, "loc:all:es").Result()
	c.Assert(err, qt.IsNil)
	c.Assert(exists, qt.Equals, int64(1))

	// a default language write drops the aggregates of every language
	c.Assert(s.SetString(ctx, "share", "en", "Share it"), qt.IsNil)
	all, err = s.GetAll(ctx, "es")
	c.Assert(err, qt.IsNil)
	c.Assert(all["share"], qt.Equals, "Share it")
}

func TestImport(t *testing.T) {
	c := qt.New(t)
	reset(c)
	ctx := context.Background()
	s := newService(c, true)

	c.Assert(s.SetString(ctx, "auth.login", "es", "Entrar"), qt.IsNil)
	n, err := s.ImportDefaults(ctx, root.Assets)
	c.Assert(err, qt.IsNil)
	c.Assert(n > 0, qt.IsTrue)

	// existing keys are kept
	value, err := s.GetString(ctx, "auth.login", "es")
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, "Entrar")
	value, err = s.GetString(ctx, "campaigns.status.pending_approval", "es")
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, "Pendiente de aprobación")
	// missing in the seed of the language, served in the default one
	value, err = s.GetString(ctx, "donations.monthly", "es")
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, "Donate monthly")

	again, err := s.ImportDefaults(ctx, root.Assets)
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.Equals, 0)

	doc := "auth:\n  login: Se connecter\n  count: 3\n"
	n, err = s.Import(ctx, "fr", strings.NewReader(doc), true)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 2)
	value, err = s.GetString(ctx, "auth.count", "fr")
	c.Assert(err, qt.IsNil)
	c.Assert(value, qt.Equals, "3")

	_, err = s.Import(ctx, "fr", strings.NewReader("- not\n- a map\n"), true)
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidData)
}

func TestSupportedLanguages(t *testing.T) {
	c := qt.New(t)
	s, err := New(&Config{DB: testDB, Languages: []string{"ES", "es", " pt "}})
	c.Assert(err, qt.IsNil)
	c.Assert(s.SupportedLanguages(), qt.DeepEquals, []string{"en", "es", "pt"})
	c.Assert(s.IsSupported("PT"), qt.IsTrue)
	c.Assert(s.IsSupported("fr"), qt.IsFalse)
}
