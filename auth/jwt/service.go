// Package jwt issues and verifies HMAC-signed bearer tokens for a caller
// supplied claims type.
//
//	svc, err := jwt.NewService(&cfg, func() *jwt.Claims { return &jwt.Claims{} })
//	token, err := svc.GenerateAccess(jwt.NewClaims(userID))
//	claims, err := svc.Parse(token)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrExpired is returned by Parse for a well-formed token past its expiry.
var ErrExpired = errors.New("jwt: token expired")

// Claims is the default claims type: the registered claims with the user id as subject.
type Claims struct {
	gojwt.RegisteredClaims
}

// NewClaims returns claims for subject.
func NewClaims(subject string) *Claims {
	return &Claims{RegisteredClaims: gojwt.RegisteredClaims{Subject: subject}}
}

// SetDefaults fills the time and identity claims before signing.
func (c *Claims) SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string) {
	if c.IssuedAt == nil {
		c.IssuedAt = gojwt.NewNumericDate(now)
	}
	if c.ExpiresAt == nil && ttl > 0 {
		c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	}
	if c.Issuer == "" {
		c.Issuer = issuer
	}
	if len(c.Audience) == 0 && len(audience) > 0 {
		c.Audience = audience
	}
}

type defaultsSetter interface {
	SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string)
}

// Service signs and parses tokens carrying claims of type T.
type Service[T gojwt.Claims] struct {
	cfg      Config
	newEmpty func() T
	now      func() time.Time
}

// NewService creates a token service. newEmpty returns a zero T for parsing.
func NewService[T gojwt.Claims](cfg *Config, newEmpty func() T) (*Service[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	return &Service[T]{cfg: *cfg, newEmpty: newEmpty, now: time.Now}, nil
}

// TTL returns the access token lifetime.
func (s *Service[T]) TTL() time.Duration { return s.cfg.AccessTokenTTL }

// Generate signs claims as they are.
func (s *Service[T]) Generate(claims T) (string, error) {
	token := gojwt.NewWithClaims(s.cfg.signingMethod(), claims)
	signed, err := token.SignedString(s.cfg.key())
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// GenerateAccess sets iat, exp, iss and aud when T supports it, then signs.
func (s *Service[T]) GenerateAccess(claims T) (string, error) {
	if setter, ok := any(claims).(defaultsSetter); ok {
		setter.SetDefaults(s.now(), s.cfg.AccessTokenTTL, s.cfg.Issuer, s.cfg.Audience)
	}
	return s.Generate(claims)
}

// Parse verifies the signature, algorithm, expiry and any configured
// issuer or audience. Expired tokens return an error wrapping ErrExpired.
func (s *Service[T]) Parse(tokenString string) (T, error) {
	var zero T

	claims := s.newEmpty()
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return zero, fmt.Errorf("%w: %v", ErrExpired, err)
		}
		return zero, fmt.Errorf("jwt: parse token: %w", err)
	}
	if !token.Valid {
		return zero, errors.New("jwt: invalid token")
	}
	parsed, ok := token.Claims.(T)
	if !ok {
		return zero, errors.New("jwt: unexpected claims type")
	}
	return parsed, nil
}

// ValidatorFunc adapts Parse to the untyped validator middleware expects.
func (s *Service[T]) ValidatorFunc() func(string) (any, error) {
	return func(token string) (any, error) {
		return s.Parse(token)
	}
}

func (s *Service[T]) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return s.cfg.key(), nil
}

func (s *Service[T]) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if len(s.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience[0]))
	}
	return opts
}
