// Package auth registers and authenticates users. Access tokens are HS256
// JWTs carrying the user id and role; refresh tokens are opaque random
// strings stored hashed and rotated on every use. Presenting a refresh token
// that was already rotated revokes every token of its family.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/internal"
	"go.vocdoni.io/dvote/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 30 * 24 * time.Hour
	MinPasswordLength = 8
	DefaultLanguage   = "en"

	// ClaimUserID and ClaimRole are the private claims of the access tokens.
	ClaimUserID = "userId"
	ClaimRole   = "role"

	refreshTokenBytes = 32
	familyBytes       = 16
)

// FieldEncrypter encrypts sensitive user fields at rest.
type FieldEncrypter interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, value string) (string, error)
}

// Config configures the auth service. Encrypter is optional, without it the
// phone numbers are stored in clear.
type Config struct {
	DB         *db.MongoStorage
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Encrypter  FieldEncrypter
}

// Service issues and validates the user tokens.
type Service struct {
	db         *db.MongoStorage
	jwt        *jwtauth.JWTAuth
	accessTTL  time.Duration
	refreshTTL time.Duration
	encrypter  FieldEncrypter
}

// TokenPair is returned on login, registration and refresh.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// Registration holds the data of a new user.
type Registration struct {
	Email             string
	Password          string
	FirstName         string
	LastName          string
	Phone             string
	PreferredLanguage string
}

// New creates the auth service.
func New(conf *Config) (*Service, error) {
	if conf == nil || conf.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	if conf.Secret == "" {
		return nil, fmt.Errorf("secret is required")
	}
	s := &Service{
		db:         conf.DB,
		jwt:        jwtauth.New("HS256", []byte(conf.Secret), nil),
		accessTTL:  conf.AccessTTL,
		refreshTTL: conf.RefreshTTL,
		encrypter:  conf.Encrypter,
	}
	if s.accessTTL <= 0 {
		s.accessTTL = DefaultAccessTTL
	}
	if s.refreshTTL <= 0 {
		s.refreshTTL = DefaultRefreshTTL
	}
	return s, nil
}

// JWTAuth returns the token verifier used by the HTTP middleware.
func (s *Service) JWTAuth() *jwtauth.JWTAuth {
	return s.jwt
}

// HashPassword returns the bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a password against its bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return errors.ErrPasswordTooShort
	}
	if len(password) > 72 {
		return errors.ErrInvalidUserData.With("password must be at most 72 bytes")
	}
	return nil
}

// Register creates a regular user and logs it in.
func (s *Service) Register(ctx context.Context, reg *Registration) (*db.User, *TokenPair, error) {
	if reg == nil {
		return nil, nil, errors.ErrInvalidUserData
	}
	if !internal.ValidEmail(strings.TrimSpace(reg.Email)) {
		return nil, nil, errors.ErrEmailMalformed
	}
	if err := validatePassword(reg.Password); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(reg.FirstName) == "" {
		return nil, nil, errors.ErrInvalidUserData.With("first name is required")
	}
	hash, err := HashPassword(reg.Password)
	if err != nil {
		return nil, nil, errors.ErrGenericInternalServerError.WithErr(err)
	}
	phone, err := s.EncryptPhone(ctx, reg.Phone)
	if err != nil {
		return nil, nil, err
	}
	lang := strings.ToLower(strings.TrimSpace(reg.PreferredLanguage))
	if lang == "" {
		lang = DefaultLanguage
	}
	user := &db.User{
		Email:             reg.Email,
		Password:          hash,
		FirstName:         strings.TrimSpace(reg.FirstName),
		LastName:          strings.TrimSpace(reg.LastName),
		Phone:             phone,
		Role:              db.RegularRole,
		PreferredLanguage: lang,
	}
	if _, err := s.db.SetUser(ctx, user); err != nil {
		if err == db.ErrAlreadyExists {
			return nil, nil, errors.ErrDuplicateConflict.With("email already registered")
		}
		return nil, nil, errors.ErrGenericInternalServerError.WithErr(err)
	}
	log.Infow("user registered", "userID", user.ID.String(), "email", user.Email)
	tokens, err := s.issue(ctx, user, internal.RandomHex(familyBytes))
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Login checks the credentials and issues a new token pair that starts a new
// refresh token family.
func (s *Service) Login(ctx context.Context, email, password string) (*db.User, *TokenPair, error) {
	user, err := s.db.UserByEmail(ctx, email)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, nil, errors.ErrInvalidCredentials
		}
		return nil, nil, errors.ErrGenericInternalServerError.WithErr(err)
	}
	if !CheckPassword(password, user.Password) {
		log.Debugw("login with wrong password", "userID", user.ID.String())
		return nil, nil, errors.ErrInvalidCredentials
	}
	tokens, err := s.issue(ctx, user, internal.RandomHex(familyBytes))
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh rotates the refresh token: the presented token is revoked and a
// new pair of the same family is issued. A token that was already revoked
// means it leaked, so the whole family is revoked.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*db.User, *TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, errors.ErrInvalidRefreshToken
	}
	stored, err := s.db.RefreshTokenByHash(ctx, internal.HashToken(refreshToken))
	if err != nil {
		if err == db.ErrNotFound {
			return nil, nil, errors.ErrInvalidRefreshToken
		}
		return nil, nil, errors.ErrGenericInternalServerError.WithErr(err)
	}
	if stored.RevokedAt != nil {
		s.revokeFamily(ctx, stored)
		return nil, nil, errors.ErrInvalidRefreshToken.With("refresh token reuse detected")
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, nil, errors.ErrInvalidRefreshToken.With("refresh token expired")
	}
	user, err := s.db.User(ctx, stored.UserID)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, nil, errors.ErrInvalidRefreshToken
		}
		return nil, nil, errors.ErrGenericInternalServerError.WithErr(err)
	}
	next := internal.RandomHex(refreshTokenBytes)
	if err := s.db.RevokeRefreshToken(ctx, stored.ID, internal.HashToken(next)); err != nil {
		if err == db.ErrUpdateWouldOverwrite {
			// rotated concurrently with the same token
			s.revokeFamily(ctx, stored)
			return nil, nil, errors.ErrInvalidRefreshToken.With("refresh token reuse detected")
		}
		return nil, nil, errors.ErrGenericInternalServerError.WithErr(err)
	}
	tokens, err := s.issueWithRefresh(ctx, user, stored.Family, next)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *Service) revokeFamily(ctx context.Context, token *db.RefreshToken) {
	n, err := s.db.RevokeRefreshTokenFamily(ctx, token.Family)
	if err != nil {
		log.Warnw("could not revoke refresh token family", "userID", token.UserID.String(), "error", err)
		return
	}
	log.Warnw("refresh token reuse detected, family revoked",
		"userID", token.UserID.String(),
		"revoked", n)
}

// Logout revokes the refresh token. Revoking an already revoked token is not
// an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	stored, err := s.db.RefreshTokenByHash(ctx, internal.HashToken(refreshToken))
	if err != nil {
		if err == db.ErrNotFound {
			return errors.ErrInvalidRefreshToken
		}
		return errors.ErrGenericInternalServerError.WithErr(err)
	}
	if err := s.db.RevokeRefreshToken(ctx, stored.ID, ""); err != nil && err != db.ErrUpdateWouldOverwrite {
		return errors.ErrGenericInternalServerError.WithErr(err)
	}
	log.Debugw("user logged out", "userID", stored.UserID.String())
	return nil
}

// ChangePassword replaces the password of the user after checking the
// current one and revokes every refresh token of the user.
func (s *Service) ChangePassword(ctx context.Context, user *db.User, current, next string) error {
	if user == nil {
		return errors.ErrUnauthorized
	}
	if err := validatePassword(next); err != nil {
		return err
	}
	stored, err := s.db.User(ctx, user.ID)
	if err != nil {
		return errors.ErrUserNotFound
	}
	if !CheckPassword(current, stored.Password) {
		return errors.ErrInvalidCredentials
	}
	hash, err := HashPassword(next)
	if err != nil {
		return errors.ErrGenericInternalServerError.WithErr(err)
	}
	if _, err := s.db.SetUser(ctx, &db.User{ID: user.ID, Email: stored.Email, Password: hash}); err != nil {
		return errors.ErrGenericInternalServerError.WithErr(err)
	}
	if _, err := s.db.RevokeUserRefreshTokens(ctx, user.ID); err != nil {
		log.Warnw("could not revoke refresh tokens after password change", "userID", user.ID.String(), "error", err)
	}
	return nil
}

// EncryptPhone normalises the phone number and encrypts it for storage. The
// empty string is kept as is.
func (s *Service) EncryptPhone(ctx context.Context, phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", nil
	}
	normalized, err := internal.SanitizeAndVerifyPhoneNumber(phone)
	if err != nil {
		return "", errors.ErrInvalidUserData.WithErr(err)
	}
	if s.encrypter == nil {
		return normalized, nil
	}
	encrypted, err := s.encrypter.Encrypt(ctx, normalized)
	if err != nil {
		return "", errors.ErrGenericInternalServerError.WithErr(err)
	}
	return encrypted, nil
}

// Phone returns the phone number of the user in clear.
func (s *Service) Phone(ctx context.Context, user *db.User) (string, error) {
	if s.encrypter == nil || user.Phone == "" {
		return user.Phone, nil
	}
	return s.encrypter.Decrypt(ctx, user.Phone)
}

// issue creates a new refresh token of the family and an access token.
func (s *Service) issue(ctx context.Context, user *db.User, family string) (*TokenPair, error) {
	return s.issueWithRefresh(ctx, user, family, internal.RandomHex(refreshTokenBytes))
}

func (s *Service) issueWithRefresh(ctx context.Context, user *db.User, family, refresh string,
) (*TokenPair, error) {
	access, expiry, err := s.AccessToken(user)
	if err != nil {
		return nil, errors.ErrGenericInternalServerError.WithErr(err)
	}
	record := &db.RefreshToken{
		UserID:    user.ID,
		TokenHash: internal.HashToken(refresh),
		Family:    family,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}
	if err := s.db.SetRefreshToken(ctx, record); err != nil {
		return nil, errors.ErrGenericInternalServerError.WithErr(err)
	}
	return &TokenPair{
		AccessToken:      access,
		ExpiresAt:        expiry,
		RefreshToken:     refresh,
		RefreshExpiresAt: record.ExpiresAt,
	}, nil
}

// AccessToken signs an access token for the user.
func (s *Service) AccessToken(user *db.User) (string, time.Time, error) {
	expiry := time.Now().Add(s.accessTTL)
	claims := map[string]any{
		ClaimUserID: user.ID.String(),
		ClaimRole:   string(user.Role),
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiry(claims, expiry)
	_, token, err := s.jwt.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiry, nil
}

// UserFromToken returns the user of a verified access token. The role is
// read from the database, not from the token.
func (s *Service) UserFromToken(ctx context.Context, token jwt.Token) (*db.User, error) {
	if token == nil || jwt.Validate(token, jwt.WithRequiredClaim(ClaimUserID)) != nil {
		return nil, errors.ErrUnauthorized.With("userId claim not found in token")
	}
	raw, _ := token.Get(ClaimUserID)
	hex, ok := raw.(string)
	if !ok {
		return nil, errors.ErrUnauthorized.With("malformed userId claim")
	}
	id, err := internal.ObjectIDFromHex(hex)
	if err != nil {
		return nil, errors.ErrUnauthorized.With("malformed userId claim")
	}
	user, err := s.db.User(ctx, id)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, errors.ErrUnauthorized.With("user not found")
		}
		return nil, errors.ErrGenericInternalServerError.WithErr(err)
	}
	return user, nil
}

// Authenticate verifies a raw access token and returns its user.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*db.User, error) {
	accessToken = strings.TrimSpace(accessToken)
	if len(accessToken) > 7 && strings.EqualFold(accessToken[:7], "bearer ") {
		accessToken = strings.TrimSpace(accessToken[7:])
	}
	if accessToken == "" {
		return nil, errors.ErrUnauthorized
	}
	token, err := jwtauth.VerifyToken(s.jwt, accessToken)
	if err != nil {
		return nil, errors.ErrUnauthorized.WithErr(err)
	}
	return s.UserFromToken(ctx, token)
}
