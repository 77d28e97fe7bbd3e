package jwt_test

import (
	"strings"
	"tasklist/config"
	"tasklist/infras/jwt"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newService(algorithm string, expireMin int) jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "tasklist"
	cfg.JWT.SecretKey = testSecret
	cfg.JWT.Algorithm = algorithm
	cfg.JWT.AccessExpireMin = expireMin

	return jwt.New(cfg)
}

func parseClaims(t *testing.T, token string) *gojwt.RegisteredClaims {
	t.Helper()

	claims := &gojwt.RegisteredClaims{}
	_, _, err := gojwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	return claims
}

func TestIssueAndValidate(t *testing.T) {
	for _, algorithm := range []string{"HS256", "HS384", "HS512", ""} {
		t.Run("alg "+algorithm, func(t *testing.T) {
			svc := newService(algorithm, 0)

			token, err := svc.Issue("alice", time.Minute)
			require.NoError(t, err)

			subject, err := svc.Validate(token)
			require.NoError(t, err)
			assert.Equal(t, "alice", subject)
		})
	}
}

func TestIssueTTL(t *testing.T) {
	tests := []struct {
		name      string
		expireMin int
		ttl       time.Duration
		expected  time.Duration
	}{
		{name: "explicit ttl", expireMin: 30, ttl: 5 * time.Minute, expected: 5 * time.Minute},
		{name: "configured default", expireMin: 30, expected: 30 * time.Minute},
		{name: "unconfigured default", expected: jwt.DefaultAccessTTL},
		{name: "negative ttl uses default", expireMin: 10, ttl: -time.Minute, expected: 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := newService("HS256", tt.expireMin).Issue("alice", tt.ttl)
			require.NoError(t, err)

			claims := parseClaims(t, token)
			lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)

			assert.Equal(t, tt.expected, lifetime)
			assert.NotEmpty(t, claims.ID)
			assert.Equal(t, "alice", claims.Subject)
		})
	}
}

func TestValidateRejects(t *testing.T) {
	svc := newService("HS256", 0)
	now := time.Now()

	sign := func(method gojwt.SigningMethod, key any, claims gojwt.Claims) string {
		token, err := gojwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)

		return token
	}

	valid, err := svc.Issue("alice", time.Minute)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty",
			token: "",
		},
		{
			name:  "garbage",
			token: "not.a.token",
		},
		{
			name:  "tampered signature",
			token: tampered,
		},
		{
			name: "expired",
			token: sign(gojwt.SigningMethodHS256, []byte(testSecret), gojwt.RegisteredClaims{
				Subject:   "alice",
				ExpiresAt: gojwt.NewNumericDate(now.Add(-time.Minute)),
			}),
		},
		{
			name: "missing expiry",
			token: sign(gojwt.SigningMethodHS256, []byte(testSecret), gojwt.RegisteredClaims{
				Subject: "alice",
			}),
		},
		{
			name: "missing subject",
			token: sign(gojwt.SigningMethodHS256, []byte(testSecret), gojwt.RegisteredClaims{
				ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)),
			}),
		},
		{
			name: "wrong secret",
			token: sign(gojwt.SigningMethodHS256, []byte("other-secret"), gojwt.RegisteredClaims{
				Subject:   "alice",
				ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)),
			}),
		},
		{
			name: "different hmac algorithm than configured",
			token: sign(gojwt.SigningMethodHS512, []byte(testSecret), gojwt.RegisteredClaims{
				Subject:   "alice",
				ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)),
			}),
		},
		{
			name: "alg none",
			token: sign(gojwt.SigningMethodNone, gojwt.UnsafeAllowNoneSignatureType, gojwt.RegisteredClaims{
				Subject:   "alice",
				ExpiresAt: gojwt.NewNumericDate(now.Add(time.Minute)),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := svc.Validate(tt.token)

			require.ErrorIs(t, err, jwt.ErrInvalidToken)
			assert.Empty(t, subject)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		expected  string
		expectErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", expected: "abc.def.ghi"},
		{name: "lowercase scheme", header: "bearer abc", expected: "abc"},
		{name: "empty", header: "", expectErr: true},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", expectErr: true},
		{name: "scheme only", header: "Bearer", expectErr: true},
		{name: "blank token", header: "Bearer   ", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.ExtractTokenFromHeader(tt.header)

			if tt.expectErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, token)
		})
	}
}

func TestNewService(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm string
		wantErr   error
	}{
		{name: "configured", secret: testSecret, algorithm: "HS384"},
		{name: "empty secret", algorithm: "HS256", wantErr: jwt.ErrEmptySecret},
		{name: "asymmetric algorithm", secret: testSecret, algorithm: "RS256", wantErr: jwt.ErrUnsupportedAlgorithm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.JWT.SecretKey = tt.secret
			cfg.JWT.Algorithm = tt.algorithm

			svc, err := jwt.NewService(cfg)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

func TestValidateWithoutSecretRejectsEverything(t *testing.T) {
	forged, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("guessed"))
	require.NoError(t, err)

	subject, err := (&jwt.Service{}).Validate(forged)

	require.ErrorIs(t, err, jwt.ErrInvalidToken)
	assert.Empty(t, subject)
}
