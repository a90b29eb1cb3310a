// Package localization serves the localized UI strings. Lookups go through
// three tiers: an in-process expirable LRU, Redis and MongoDB. Writes update
// MongoDB, drop the Redis entries and broadcast an invalidation message so
// every instance drops its local copy.
package localization

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/metrics"
	"github.com/redis/go-redis/v9"
	"go.vocdoni.io/dvote/log"
)

const (
	// DefaultLanguage is used when a key is missing in the requested language.
	DefaultLanguage = "en"
	// DefaultTTL is the lifetime of the cached values in every tier.
	DefaultTTL = time.Hour
	// DefaultLocalSize is the number of entries kept by the local tier.
	DefaultLocalSize = 4096
	// InvalidationChannel is the Redis channel used to broadcast writes.
	InvalidationChannel = "loc:invalidate"

	tierLocal = "local"
	tierRedis = "redis"
	tierMongo = "mongo"
)

// DefaultLanguages are the languages supported when none are configured.
var DefaultLanguages = []string{"en", "es"}

// Config configures the localization service. Redis is optional, without
// it the service works with the local and MongoDB tiers only.
type Config struct {
	DB        *db.MongoStorage
	Redis     *redis.Client
	Languages []string
	TTL       time.Duration
	LocalSize int
}

// Service is the localization service.
type Service struct {
	db         *db.MongoStorage
	redis      *redis.Client
	local      *expirable.LRU[string, string]
	languages  []string
	supported  map[string]bool
	ttl        time.Duration
	instanceID string
}

// invalidation is the message published on InvalidationChannel.
type invalidation struct {
	Key      string `json:"key"`
	Language string `json:"language"`
	Origin   string `json:"origin"`
}

// New creates the localization service. The default language is always
// supported.
func New(conf *Config) (*Service, error) {
	if conf == nil || conf.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	ttl := conf.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	size := conf.LocalSize
	if size <= 0 {
		size = DefaultLocalSize
	}
	languages := conf.Languages
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	s := &Service{
		db:         conf.DB,
		redis:      conf.Redis,
		local:      expirable.NewLRU[string, string](size, nil, ttl),
		supported:  map[string]bool{},
		ttl:        ttl,
		instanceID: internal.RandomHex(8),
	}
	for _, lang := range append([]string{DefaultLanguage}, languages...) {
		lang = normalizeLanguage(lang)
		if lang == "" || s.supported[lang] {
			continue
		}
		s.supported[lang] = true
		s.languages = append(s.languages, lang)
	}
	return s, nil
}

// SupportedLanguages returns the supported language codes, the default one
// first.
func (s *Service) SupportedLanguages() []string {
	return append([]string{}, s.languages...)
}

// IsSupported reports whether the language is supported.
func (s *Service) IsSupported(lang string) bool {
	return s.supported[normalizeLanguage(lang)]
}

// GetString returns the value of the key in the language, falling back to
// the default language. If the key is missing in both, the key itself is
// returned together with ErrLocalizationNotFound.
func (s *Service) GetString(ctx context.Context, key, lang string) (string, error) {
	lang, err := s.checkLanguage(lang)
	if err != nil {
		return key, err
	}
	if key = normalizeKey(key); key == "" {
		return key, errors.ErrInvalidData.With("key is required")
	}
	value, err := s.lookup(ctx, key, lang)
	if err == nil {
		return value, nil
	}
	if err != db.ErrNotFound {
		return key, errors.ErrGenericInternalServerError.WithErr(err)
	}
	if lang != DefaultLanguage {
		value, err = s.lookup(ctx, key, DefaultLanguage)
		if err == nil {
			return value, nil
		}
		if err != db.ErrNotFound {
			return key, errors.ErrGenericInternalServerError.WithErr(err)
		}
	}
	return key, errors.ErrLocalizationNotFound.Withf("key %s not found", key)
}

// lookup reads the key from the first tier that has it and populates the
// tiers above. It returns db.ErrNotFound if MongoDB does not have it.
func (s *Service) lookup(ctx context.Context, key, lang string) (string, error) {
	ck := cacheKey(lang, key)
	if value, ok := s.local.Get(ck); ok {
		metrics.RecordLocalizationLookup(tierLocal, true)
		return value, nil
	}
	metrics.RecordLocalizationLookup(tierLocal, false)

	if s.redis != nil {
		value, err := s.redis.Get(ctx, ck).Result()
		switch {
		case err == nil:
			metrics.RecordLocalizationLookup(tierRedis, true)
			s.local.Add(ck, value)
			return value, nil
		case goerrors.Is(err, redis.Nil):
			metrics.RecordLocalizationLookup(tierRedis, false)
		default:
			// a broken cache must not break the lookups
			log.Warnw("redis localization lookup failed", "key", ck, "error", err)
		}
	}

	ls, err := s.db.LocalizedString(ctx, key, lang)
	if err != nil {
		metrics.RecordLocalizationLookup(tierMongo, false)
		return "", err
	}
	metrics.RecordLocalizationLookup(tierMongo, true)
	if s.redis != nil {
		if err := s.redis.Set(ctx, ck, ls.Value, s.ttl).Err(); err != nil {
			log.Warnw("could not cache localized string", "key", ck, "error", err)
		}
	}
	s.local.Add(ck, ls.Value)
	return ls.Value, nil
}

// GetAll returns every key of the language, completed with the default
// language values for the missing keys. The aggregate is cached in Redis
// only.
func (s *Service) GetAll(ctx context.Context, lang string) (map[string]string, error) {
	lang, err := s.checkLanguage(lang)
	if err != nil {
		return nil, err
	}
	ak := allKey(lang)
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, ak).Bytes()
		switch {
		case err == nil:
			all := map[string]string{}
			if err := json.Unmarshal(raw, &all); err == nil {
				metrics.RecordLocalizationLookup(tierRedis, true)
				return all, nil
			}
			log.Warnw("discarding malformed cached localizations", "key", ak)
		case goerrors.Is(err, redis.Nil):
			metrics.RecordLocalizationLookup(tierRedis, false)
		default:
			log.Warnw("redis localization lookup failed", "key", ak, "error", err)
		}
	}

	all := map[string]string{}
	languages := []string{lang}
	if lang != DefaultLanguage {
		languages = []string{DefaultLanguage, lang}
	}
	for _, l := range languages {
		list, err := s.db.LocalizedStrings(ctx, l)
		if err != nil {
			return nil, errors.ErrGenericInternalServerError.WithErr(err)
		}
		for _, ls := range list {
			all[ls.Key] = ls.Value
		}
	}
	metrics.RecordLocalizationLookup(tierMongo, true)
	if s.redis != nil {
		if raw, err := json.Marshal(all); err == nil {
			if err := s.redis.Set(ctx, ak, raw, s.ttl).Err(); err != nil {
				log.Warnw("could not cache localizations", "key", ak, "error", err)
			}
		}
	}
	return all, nil
}

// SetString stores the value of the key in the language and invalidates the
// cached copies.
func (s *Service) SetString(ctx context.Context, key, lang, value string) error {
	lang, err := s.checkLanguage(lang)
	if err != nil {
		return err
	}
	if key = normalizeKey(key); key == "" {
		return errors.ErrInvalidData.With("key is required")
	}
	if err := s.db.SetLocalizedString(ctx, key, lang, value); err != nil {
		return errors.ErrGenericInternalServerError.WithErr(err)
	}
	s.invalidate(ctx, key, lang)
	s.local.Add(cacheKey(lang, key), value)
	log.Infow("localized string updated", "key", key, "language", lang)
	return nil
}

// DeleteString removes the key of the language.
func (s *Service) DeleteString(ctx context.Context, key, lang string) error {
	lang, err := s.checkLanguage(lang)
	if err != nil {
		return err
	}
	if key = normalizeKey(key); key == "" {
		return errors.ErrInvalidData.With("key is required")
	}
	if err := s.db.DelLocalizedString(ctx, key, lang); err != nil {
		if err == db.ErrNotFound {
			return errors.ErrLocalizationNotFound.Withf("key %s not found", key)
		}
		return errors.ErrGenericInternalServerError.WithErr(err)
	}
	s.invalidate(ctx, key, lang)
	log.Infow("localized string deleted", "key", key, "language", lang)
	return nil
}

// invalidate drops the cached copies of the key in every tier and tells the
// other instances to drop theirs. The aggregates of every language are
// dropped when the default language changes, they embed its values.
func (s *Service) invalidate(ctx context.Context, key, lang string) {
	s.local.Remove(cacheKey(lang, key))
	if s.redis == nil {
		return
	}
	keys := []string{cacheKey(lang, key), allKey(lang)}
	if lang == DefaultLanguage {
		for _, l := range s.languages {
			keys = append(keys, allKey(l))
		}
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		log.Warnw("could not invalidate cached localizations", "key", key, "language", lang, "error", err)
	}
	msg, err := json.Marshal(invalidation{Key: key, Language: lang, Origin: s.instanceID})
	if err != nil {
		return
	}
	if err := s.redis.Publish(ctx, InvalidationChannel, msg).Err(); err != nil {
		log.Warnw("could not publish localization invalidation", "key", key, "error", err)
	}
}

// Listen subscribes to the invalidation channel and drops the local entries
// written by other instances until ctx is cancelled. It returns once the
// subscription is confirmed.
func (s *Service) Listen(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	pubsub := s.redis.Subscribe(ctx, InvalidationChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("could not subscribe to %s: %w", InvalidationChannel, err)
	}
	go func() {
		defer func() {
			if err := pubsub.Close(); err != nil {
				log.Warnw("could not close localization subscription", "error", err)
			}
		}()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				s.handleInvalidation(msg.Payload)
			}
		}
	}()
	log.Infow("listening for localization invalidations", "channel", InvalidationChannel)
	return nil
}

func (s *Service) handleInvalidation(payload string) {
	var inv invalidation
	if err := json.Unmarshal([]byte(payload), &inv); err != nil {
		log.Warnw("malformed localization invalidation", "payload", payload)
		return
	}
	if inv.Origin == s.instanceID {
		return
	}
	s.local.Remove(cacheKey(inv.Language, inv.Key))
	log.Debugw("localization invalidated", "key", inv.Key, "language", inv.Language)
}

func (s *Service) checkLanguage(lang string) (string, error) {
	lang = normalizeLanguage(lang)
	if lang == "" {
		return DefaultLanguage, nil
	}
	if !s.supported[lang] {
		return "", errors.ErrUnsupportedLanguage.Withf("language %s is not supported", lang)
	}
	return lang, nil
}

func normalizeLanguage(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}

// normalizeKey makes every operation address the same stored key.
func normalizeKey(key string) string { return strings.TrimSpace(key) }

func cacheKey(lang, key string) string { return "loc:" + lang + ":" + key }

func allKey(lang string) string { return "loc:all:" + lang }
