package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ncnews/apiserver/internal/apperr"
	"github.com/ncnews/apiserver/internal/store"
	"github.com/ncnews/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

// Messages returned by the authorization middleware.
const (
	MsgNoToken      = "No token provided"
	MsgInvalidToken = "Failed to authenticate token"
	MsgUserNotFound = "User not found"
)

// tokenClaims keeps the username claim used by existing clients next to the
// registered claims.
type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies bearer tokens.
type AuthService struct {
	users  UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService constructs an AuthService signing tokens with secret. A
// non-positive ttl falls back to 24 hours.
func NewAuthService(users UserRepository, secret string, ttl time.Duration) (*AuthService, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Authenticate checks the credentials and returns a signed token. Unknown
// users and wrong passwords fail the same way.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.Unauthenticated("Invalid credentials")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperr.Unauthenticated("Invalid credentials")
	}

	return s.issueToken(user.Username)
}

// Verify validates signature, algorithm and expiry and returns the username
// the token was issued for.
func (s *AuthService) Verify(tokenString string) (string, bool) {
	claims := tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", false
	}

	username := strings.TrimSpace(claims.Username)
	if username == "" {
		username = strings.TrimSpace(claims.Subject)
	}
	return username, username != ""
}

// Identify resolves a bearer token to the user it belongs to. Every failure
// other than a storage error is reported as forbidden.
func (s *AuthService) Identify(ctx context.Context, tokenString string) (types.User, error) {
	username, ok := s.Verify(tokenString)
	if !ok {
		return types.User{}, apperr.Forbidden(MsgInvalidToken)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, apperr.Forbidden(MsgUserNotFound)
		}
		return types.User{}, err
	}
	return user, nil
}

func (s *AuthService) issueToken(username string) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// HashPassword hashes a password with the default bcrypt cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
