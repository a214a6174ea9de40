package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/missionflow/internal/clock"
)

var (
	// ErrInvalidToken токен не прошел проверку подписи или формата
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired срок действия токена истек
	ErrTokenExpired = errors.New("token expired")
	// ErrEmptyActor токен выпускается без actor
	ErrEmptyActor = errors.New("actor id cannot be empty")
)

const issuer = "missionflow"

// Service provides JWT token generation and validation
type Service struct {
	clock  clock.Clock
	secret []byte
	ttl    time.Duration
}

// Claims represents JWT claims.
// Actor дублируется в sub и user_id: клиент читает любое из них.
type Claims struct {
	UserID string `json:"user_id"`
	gojwt.RegisteredClaims
}

// NewService creates a new JWT service.
// secret should be a cryptographically secure random string.
// c == nil означает системные часы.
func NewService(secret string, ttl time.Duration, c clock.Clock) *Service {
	if c == nil {
		c = clock.System
	}
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  c,
	}
}

// GenerateAccessToken creates a signed HS256 access token for the actor
func (s *Service) GenerateAccessToken(actorID string) (string, time.Time, error) {
	if actorID == "" {
		return "", time.Time{}, ErrEmptyActor
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		UserID: actorID,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   actorID,
			Issuer:    issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(expiresAt),
		},
	}

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return token, expiresAt, nil
}

// ValidateAccessToken validates signature and expiry and returns the claims
func (s *Service) ValidateAccessToken(token string) (*Claims, error) {
	parser := gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(s.clock.Now),
		gojwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	// Старые токены могут нести только user_id
	if claims.Subject == "" {
		claims.Subject = claims.UserID
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: no actor", ErrInvalidToken)
	}

	return claims, nil
}

// Actor возвращает идентификатор actor из claims
func (c *Claims) Actor() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}
