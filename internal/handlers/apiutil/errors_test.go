package apiutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/church-finance/internal/apperr"
)

func TestFrom_MapsKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", apperr.Validation("Missing required fields", "name is required"), http.StatusBadRequest, "Missing required fields"},
		{"not found", apperr.NotFound("Fund"), http.StatusNotFound, "Fund not found"},
		{"unauthorized", apperr.Unauthorized("Session expired", nil), http.StatusUnauthorized, "Session expired"},
		{"forbidden", apperr.Forbidden("Admin role required"), http.StatusForbidden, "Admin role required"},
		{"plain", errors.New("connection refused"), http.StatusInternalServerError, "Failed to load funds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := From(tt.err, "Failed to load funds")
			assert.Equal(t, tt.status, se.GetStatus())
			assert.Equal(t, tt.msg, se.Error())
		})
	}
}

func TestFrom_PersistenceHidesCause(t *testing.T) {
	se := From(errors.New("pq: password authentication failed"), "Failed to update fund")
	body, err := json.Marshal(se)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Failed to update fund"}`, string(body))
}

func TestFrom_KeepsDetails(t *testing.T) {
	se := From(apperr.Validation("Missing required fields", "a", "b"), "x")
	body, err := json.Marshal(se)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Missing required fields","details":["a","b"]}`, string(body))
}

func TestNewError_UnprocessableBecomesBadRequest(t *testing.T) {
	se := NewError(http.StatusUnprocessableEntity, "validation failed", errors.New("expected required property name"))
	assert.Equal(t, http.StatusBadRequest, se.GetStatus())
	assert.Equal(t, []string{"expected required property name"}, se.(*ErrorBody).Details)
}

func TestFail_ReturnsMappedError(t *testing.T) {
	log := logrus.New()
	se := Fail(log, "get-fund", apperr.NotFound("Fund"), "Failed to load fund")
	assert.Equal(t, http.StatusNotFound, se.GetStatus())
}
