package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/opsdeck/filegate/internal/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/downloads", nil)
	return c, w
}

func TestHandleErrorGin(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"NotFound", apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"Conflict", apperrors.ErrConflict, http.StatusConflict, "conflict"},
		{"InvalidInput", apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid_request"},
		{"Unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"Forbidden", apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"PathViolation", apperrors.ErrPathViolation, http.StatusForbidden, "path_violation"},
		{"Internal", apperrors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext()

			HandleErrorGin(c, apperrors.Wrap(tt.err, "handler"), logger)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedCode, resp.Error)
		})
	}

	t.Run("NilErrorWritesNothing", func(t *testing.T) {
		c, w := testContext()

		HandleErrorGin(c, nil, logger)

		assert.Empty(t, w.Body.String())
	})

	t.Run("InternalErrorHidesDetails", func(t *testing.T) {
		c, w := testContext()

		HandleErrorGin(c, apperrors.New("open /var/lib/filegate/resources/x: permission denied"), logger)

		assert.NotContains(t, w.Body.String(), "/var/lib")
	})
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := testContext()

	HandleValidationErrorGin(c, apperrors.New("resource_type: must not be blank"), slog.New(slog.DiscardHandler))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error)
}

func TestMakeJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()

	MakeJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
