package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emi-genie/internal/api/handler"
	"emi-genie/internal/config"
)

func newAuthConfig(secret string) config.Config {
	cfg := config.Config{}
	cfg.Server.Auth = config.AuthConfig{Enabled: true, JWTSecret: secret}
	return cfg
}

func TestGenerateBearerTokenSuccess(t *testing.T) {
	h := handler.NewAuthHandler(newAuthConfig("testsecret"), testLogger)

	body, _ := json.Marshal(map[string]string{"username": "operator"})
	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.GenerateBearerToken(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, strings.HasPrefix(resp["token"], "Bearer "))

	tokenString := strings.TrimPrefix(resp["token"], "Bearer ")
	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte("testsecret"), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "operator", claims["username"])
}

func TestGenerateBearerTokenRequiresUsername(t *testing.T) {
	h := handler.NewAuthHandler(newAuthConfig("testsecret"), testLogger)

	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.GenerateBearerToken(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
