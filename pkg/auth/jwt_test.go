package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "safepay-test",
		Expiration: 15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.GenerateToken("teller-app", []string{RoleService, RoleAnalyst})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "teller-app", claims.Subject)
	assert.Equal(t, "safepay-test", claims.Issuer)
	assert.Equal(t, []string{RoleService, RoleAnalyst}, claims.Roles)
}

func TestValidateToken_Expired(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "safepay-test",
		Expiration: -time.Minute,
	})
	require.NoError(t, err)

	token, err := svc.GenerateToken("teller-app", nil)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_InvalidSignature(t *testing.T) {
	svc := newTestJWTService(t)
	other, err := NewJWTService(JWTConfig{Secret: "another-secret", Issuer: "safepay-test", Expiration: time.Minute})
	require.NoError(t, err)

	token, err := other.GenerateToken("teller-app", nil)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTService_RequiresKeyMaterial(t *testing.T) {
	_, err := NewJWTService(JWTConfig{Issuer: "safepay-test"})
	assert.Error(t, err)
}

func TestRSAModes(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	issuer, err := NewJWTService(JWTConfig{PrivateKeyPEM: string(privPEM), Expiration: time.Minute})
	require.NoError(t, err)
	verifier, err := NewJWTService(JWTConfig{PublicKeyPEM: string(pubPEM), Expiration: time.Minute})
	require.NoError(t, err)

	token, err := issuer.GenerateToken("batch-scorer", []string{RoleService})
	require.NoError(t, err)

	claims, err := verifier.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "batch-scorer", claims.Subject)

	_, err = verifier.GenerateToken("batch-scorer", nil)
	assert.Error(t, err, "validation-only mode cannot issue tokens")
}

func TestHasRole(t *testing.T) {
	claims := Claims{Roles: []string{RoleAnalyst}}
	assert.True(t, claims.HasRole(RoleAnalyst))
	assert.False(t, claims.HasRole(RoleAdmin))
	assert.True(t, claims.HasAnyRole(RoleAdmin, RoleAnalyst))
	assert.False(t, claims.HasAnyRole())
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithClaims(context.Background(), &Claims{Roles: []string{RoleAdmin}})
	claims, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.True(t, claims.HasRole(RoleAdmin))
}

func TestHTTPMiddleware(t *testing.T) {
	svc := newTestJWTService(t)
	var seen *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := HTTPMiddleware(svc, []string{"/healthz"}, RoleService)(next)

	serviceToken, err := svc.GenerateToken("teller-app", []string{RoleService})
	require.NoError(t, err)
	analystToken, err := svc.GenerateToken("dashboard", []string{RoleAnalyst})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"skipped path", "/healthz", "", http.StatusNoContent},
		{"missing header", "/v1/predictions", "", http.StatusUnauthorized},
		{"garbage token", "/v1/predictions", "Bearer nope", http.StatusUnauthorized},
		{"wrong role", "/v1/predictions", "Bearer " + analystToken, http.StatusForbidden},
		{"authorized", "/v1/predictions", "Bearer " + serviceToken, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	require.NotNil(t, seen)
	assert.Equal(t, "teller-app", seen.Subject)
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t)
	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		claims, ok := ClaimsFromContext(ctx)
		if !ok {
			return "anonymous", nil
		}
		return claims.Subject, nil
	}

	resp, err := interceptor(context.Background(), nil,
		&grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", resp)

	_, err = interceptor(context.Background(), nil,
		&grpc.UnaryServerInfo{FullMethod: "/safepay.fraud.v1.FraudDetectionService/Predict"}, handler)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	token, err := svc.GenerateToken("teller-app", []string{RoleService})
	require.NoError(t, err)
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
	resp, err = interceptor(ctx, nil,
		&grpc.UnaryServerInfo{FullMethod: "/safepay.fraud.v1.FraudDetectionService/Predict"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "teller-app", resp)
}
