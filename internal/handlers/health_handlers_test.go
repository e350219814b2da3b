package handlers

import (
	"net/http"
	"testing"

	"github.com/fiftyhertz/agriapi/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRoot(t *testing.T) {
	env := newHandlerEnv(t)
	rec, resp := call(t, env.health.Root, nil, http.MethodGet, "/api/v1/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "50hertz backend api working properly", resp.Message)
	assert.JSONEq(t, `{}`, string(resp.Payload))
}

func TestHealth(t *testing.T) {
	env := newHandlerEnv(t)
	rec, _ := call(t, env.health.Health, nil, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	testutil.CloseDB(t, env.db)
	rec, resp := call(t, env.health.Health, nil, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Database unavailable", resp.Message)
}
