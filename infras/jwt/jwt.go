package jwt

//go:generate go run go.uber.org/mock/mockgen -source=./jwt.go -destination=./mocks/jwt_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"strings"
	"tasklist/config"
	"tasklist/shared/timezone"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	DefaultAccessTTL = 15 * time.Minute
	DefaultAlgorithm = "HS256"
)

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	ErrEmptySecret          = errors.New("signing secret is not configured")
)

// Claims represents the JWT claims structure. The subject carries the username.
type Claims struct {
	jwt.RegisteredClaims
}

// JWT issues and validates signed, time-limited bearer tokens.
type JWT interface {
	Issue(subject string, ttl time.Duration) (string, error)
	Validate(tokenString string) (string, error)
}

// Service handles JWT operations
type Service struct {
	secret    []byte
	method    jwt.SigningMethod
	accessTTL time.Duration
	issuer    string
}

// New creates a new JWT service and stops the process when signing cannot be configured.
func New(cfg *config.Config) JWT {
	service, err := NewService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure token signing")
	}

	return service
}

// NewService builds the JWT service. The signing algorithm is fixed here and is the only one
// Validate accepts. An empty secret is rejected.
func NewService(cfg *config.Config) (*Service, error) {
	if cfg.JWT.SecretKey == "" {
		return nil, ErrEmptySecret
	}

	algorithm := cfg.JWT.Algorithm
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}

	method, err := signingMethod(algorithm)
	if err != nil {
		return nil, err
	}

	accessTTL := DefaultAccessTTL
	if cfg.JWT.AccessExpireMin > 0 {
		accessTTL = time.Duration(cfg.JWT.AccessExpireMin) * time.Minute
	}

	return &Service{
		secret:    []byte(cfg.JWT.SecretKey),
		method:    method,
		accessTTL: accessTTL,
		issuer:    cfg.App.Name,
	}, nil
}

func signingMethod(algorithm string) (jwt.SigningMethod, error) {
	switch strings.ToUpper(algorithm) {
	case jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}
}

// Issue signs a token for subject that expires after ttl. A non-positive ttl selects the
// configured access token lifetime.
func (s *Service) Issue(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.accessTTL
	}

	issuedAt := timezone.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.issuer,
			Subject:   subject,
			ID:        uuid.New().String(),
		},
	}

	signedToken, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Validate verifies the signature against the configured algorithm and the expiry, and
// returns the subject. Every failure collapses into ErrInvalidToken.
func (s *Service) Validate(tokenString string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrInvalidToken
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(timezone.Now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// ExtractTokenFromHeader extracts JWT token from Authorization header
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is required")
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("authorization header must start with 'Bearer '")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("bearer token is empty")
	}

	return token, nil
}
