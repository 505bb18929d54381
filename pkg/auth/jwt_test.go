package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
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
		Issuer:     "creditrisk-test",
		Expiration: 15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t)
	userID := uuid.New()
	tenantID := uuid.New()

	token, err := svc.GenerateToken(userID, tenantID, []string{RoleAdmin, RoleUnderwriter})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, []string{RoleAdmin, RoleUnderwriter}, claims.Roles)
	assert.Equal(t, "creditrisk-test", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestGenerateAndValidateToken_RSA(t *testing.T) {
	privPEM, pubPEM, err := GenerateKeyPair()
	require.NoError(t, err)

	issuer, err := NewJWTService(JWTConfig{PrivateKeyPEM: string(privPEM), Expiration: time.Minute})
	require.NoError(t, err)
	validator, err := NewJWTService(JWTConfig{PublicKeyPEM: string(pubPEM)})
	require.NoError(t, err)

	token, err := issuer.GenerateToken(uuid.New(), uuid.New(), []string{RoleAPIClient})
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.HasRole(RoleAPIClient))

	_, err = validator.GenerateToken(uuid.New(), uuid.New(), nil)
	assert.Error(t, err, "validation-only service must not sign")
}

func TestNewJWTService_RequiresKeyMaterial(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	assert.Error(t, err)

	_, err = NewJWTService(JWTConfig{PublicKeyPEM: "not a key"})
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "creditrisk-test",
		Expiration: -1 * time.Hour,
	})
	require.NoError(t, err)

	token, err := svc.GenerateToken(uuid.New(), uuid.New(), []string{RoleUnderwriter})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_InvalidSignature(t *testing.T) {
	svc1, err := NewJWTService(JWTConfig{Secret: "secret-one", Expiration: 15 * time.Minute})
	require.NoError(t, err)
	svc2, err := NewJWTService(JWTConfig{Secret: "secret-two", Expiration: 15 * time.Minute})
	require.NoError(t, err)

	token, err := svc1.GenerateToken(uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	_, err = svc2.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	other, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "someone-else",
		Expiration: time.Minute,
	})
	require.NoError(t, err)

	token, err := other.GenerateToken(uuid.New(), uuid.New(), nil)
	require.NoError(t, err)

	_, err = newTestJWTService(t).ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestValidateToken_Audience(t *testing.T) {
	cfg := JWTConfig{Secret: "test-secret-key-for-unit-tests", Issuer: "creditrisk-test", Expiration: time.Minute}

	cfg.Audience = "creditrisk"
	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	cfg.Audience = "ledger"
	other, err := NewJWTService(cfg)
	require.NoError(t, err)

	token, err := svc.GenerateToken(uuid.New(), uuid.New(), []string{RoleUnderwriter})
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	require.NoError(t, err)

	foreign, err := other.GenerateToken(uuid.New(), uuid.New(), []string{RoleUnderwriter})
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
}

func TestValidateToken_RequiresTenant(t *testing.T) {
	svc := newTestJWTService(t)
	token, err := svc.GenerateToken(uuid.New(), uuid.Nil, []string{RoleAdmin})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenant")
}

func TestValidateToken_RejectsAlgorithmSwitch(t *testing.T) {
	svc := newTestJWTService(t)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "creditrisk-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		TenantID: uuid.New(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret-key-for-unit-tests"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestHasRole(t *testing.T) {
	claims := Claims{Roles: []string{RoleAdmin, RoleAuditor}}

	assert.True(t, claims.HasRole(RoleAdmin))
	assert.True(t, claims.HasRole(RoleAuditor))
	assert.False(t, claims.HasRole(RoleUnderwriter))
	assert.True(t, claims.HasAnyRole(RoleUnderwriter, RoleAuditor))
	assert.False(t, claims.HasAnyRole(RoleAPIClient))
}

func TestClaimsFromContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	expected := &Claims{UserID: uuid.New(), Roles: []string{RoleUnderwriter}}
	got, ok := ClaimsFromContext(ContextWithClaims(context.Background(), expected))
	require.True(t, ok)
	assert.Equal(t, expected, got)
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t)
	interceptor := UnaryAuthInterceptor(svc, []string{"/grpc.health.v1.Health/Check"})

	var seen *Claims
	handler := func(ctx context.Context, req any) (any, error) {
		seen, _ = ClaimsFromContext(ctx)
		return "ok", nil
	}

	t.Run("skipped method", func(t *testing.T) {
		resp, err := interceptor(context.Background(), nil,
			&grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
		require.NoError(t, err)
		assert.Equal(t, "ok", resp)
	})

	t.Run("missing metadata", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil,
			&grpc.UnaryServerInfo{FullMethod: "/svc/Method"}, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := svc.GenerateToken(uuid.New(), uuid.New(), []string{RoleUnderwriter})
		require.NoError(t, err)
		ctx := metadata.NewIncomingContext(context.Background(),
			metadata.Pairs("authorization", "Bearer "+token))

		_, err = interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}, handler)
		require.NoError(t, err)
		require.NotNil(t, seen)
		assert.True(t, seen.HasRole(RoleUnderwriter))
	})

	t.Run("invalid token", func(t *testing.T) {
		ctx := metadata.NewIncomingContext(context.Background(),
			metadata.Pairs("authorization", "Bearer nonsense"))
		_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc/Method"}, handler)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})
}

func TestHTTPMiddleware(t *testing.T) {
	svc := newTestJWTService(t)
	tenantID := uuid.New()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, tenantID, claims.TenantID)
		w.WriteHeader(http.StatusNoContent)
	})
	h := HTTPMiddleware(svc, next)

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/score", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"missing authorization header"}`, rec.Body.String())
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/score", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := svc.GenerateToken(uuid.New(), tenantID, []string{RoleAPIClient})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/v1/score", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
