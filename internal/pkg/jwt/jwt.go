package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
	ErrEmptySecret  = errors.New("jwt secret is empty")
	ErrEmptySubject = errors.New("token subject is empty")
)

const (
	// DefaultTTL matches the session length users get from the web login
	DefaultTTL = 30 * time.Minute

	// Issuer is written into every token
	Issuer = "skillbook"
)

// Claims represents the JWT claims
type Claims struct {
	jwt.RegisteredClaims
}

// Service issues and verifies signed, time-limited bearer tokens
type Service struct {
	key    []byte
	ttl    time.Duration
	method jwt.SigningMethod
	now    func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the clock used for issuing and verifying
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService derives the signing key from secret once; it is read-only afterwards
func NewService(secret string, ttl time.Duration, opts ...Option) (*Service, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	s := &Service{
		key:    key,
		ttl:    ttl,
		method: jwt.SigningMethodHS512,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the token lifetime
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue generates a new token for subject
func (s *Service) Issue(subject string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", ErrEmptySubject
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			Issuer:    Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.key)
}

// Verify validates a token and returns its subject
func (s *Service) Verify(tokenString string) (string, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Parse validates a token and returns its claims
func (s *Service) Parse(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.key, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
