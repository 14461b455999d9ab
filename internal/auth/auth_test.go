package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "test-secret", Issuer: "prosoche.test"}

func TestIssueAndParse(t *testing.T) {
	token, err := Issue(testConfig, "user-1", []string{ScopeJournalRead, ScopeJournalWrite}, time.Hour, time.Now())
	require.NoError(t, err)

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.True(t, claims.HasScope(ScopeJournalRead))
	assert.True(t, claims.HasScope(ScopeJournalWrite))
	assert.False(t, claims.HasScope("admin"))
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	token, err := Issue(Config{Secret: testConfig.Secret, Issuer: "other"}, "user-1", nil, time.Hour, time.Now())
	require.NoError(t, err)

	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := Issue(testConfig, "user-1", nil, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRequiresSubject(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": testConfig.Issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)

	_, err = Parse(signed, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseScopeList(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    "user-2",
		"iss":    testConfig.Issuer,
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": []string{ScopeJournalRead},
	}).SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)

	claims, err := Parse(signed, testConfig)
	require.NoError(t, err)
	assert.True(t, claims.HasScope(ScopeJournalRead))
	assert.False(t, claims.HasScope(ScopeJournalWrite))
}

func TestMiddleware(t *testing.T) {
	mw := NewMiddleware(testConfig)
	var seen *Claims
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("health is skipped", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/prosoche", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), `"type":"unauthorized"`)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := Issue(testConfig, "user-3", []string{ScopeJournalRead}, time.Hour, time.Now())
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/v1/prosoche", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNoContent, rr.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "user-3", seen.Subject)
	})
}

func TestMiddlewareRejectsOtherSchemes(t *testing.T) {
	handler := NewMiddleware(testConfig).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/v1/prosoche", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), ErrMissingToken.Error())
}

func TestSubjectFrom(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, SubjectFrom(ctx))
	assert.Equal(t, "user-9", SubjectFrom(WithClaims(ctx, &Claims{Subject: "user-9"})))
}
