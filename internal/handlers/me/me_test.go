package me

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/church-finance/internal/auth"
)

func TestHTTP_Me(t *testing.T) {
	user := &auth.User{ID: uuid.Must(uuid.NewV4()), Email: "treasurer@example.org", Role: "admin"}
	_, api := humatest.New(t)
	api.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
		next(huma.WithContext(ctx, auth.WithUser(ctx.Context(), user)))
	})
	Register(api)

	resp := api.Get("/api/me")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body MeOutput
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body.Body))
	assert.Equal(t, user.ID.String(), body.Body.ID)
	assert.Equal(t, "admin", body.Body.Role)
	assert.True(t, body.Body.IsAdmin)
}

func TestHTTP_Me_Anonymous(t *testing.T) {
	_, api := humatest.New(t)
	Register(api)

	resp := api.Get("/api/me")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
