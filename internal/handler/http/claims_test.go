package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func requestWithID(id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestPathID(t *testing.T) {
	id, ok := pathID(requestWithID("0190a1b2-c3d4-7abc-8def-0123456789ab"))
	assert.True(t, ok)
	assert.Equal(t, "0190a1b2-c3d4-7abc-8def-0123456789ab", id)

	bad := []string{
		"",
		"not-a-uuid",
		"0190a1b2-c3d4-4abc-8def-0123456789ab", // wrong version
	}
	for _, v := range bad {
		_, ok := pathID(requestWithID(v))
		assert.False(t, ok, v)
	}
}
