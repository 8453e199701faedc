package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
	identityHTTP "github.com/opsdeck/filegate/internal/identity/http"
)

// mockDownloadUseCase is a mock implementation of usecase.DownloadUseCase for testing.
type mockDownloadUseCase struct {
	mock.Mock
}

func (m *mockDownloadUseCase) Download(
	ctx context.Context,
	input *downloadDomain.DownloadInput,
) (*downloadDomain.DownloadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*downloadDomain.DownloadOutput), args.Error(1)
}

func (m *mockDownloadUseCase) IssueLink(
	ctx context.Context,
	input *downloadDomain.IssueLinkInput,
) (*downloadDomain.IssueLinkOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*downloadDomain.IssueLinkOutput), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// createTestContext builds a gin test context for the given request.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

// withActor attaches an authenticated actor to the test request context.
func withActor(c *gin.Context, actor *identityDomain.Actor) {
	c.Request = c.Request.WithContext(identityHTTP.WithActor(c.Request.Context(), actor))
}

func TestDownloadHandler_DownloadHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success_StreamsFileWithHeaders", func(t *testing.T) {
		mockUseCase := &mockDownloadUseCase{}
		handler := NewDownloadHandler(mockUseCase, testLogger())

		actor := &identityDomain.Actor{ID: 10, Role: identityDomain.RoleClient}
		mockUseCase.On("Download", mock.Anything, mock.MatchedBy(func(input *downloadDomain.DownloadInput) bool {
			return input.ResourceType == "task_upload" &&
				input.ResourceID == 42 &&
				input.Actor == actor
		})).Return(&downloadDomain.DownloadOutput{
			File:        io.NopCloser(strings.NewReader("%PDF-1.7")),
			DisplayName: "report.pdf",
			ContentType: "application/pdf",
			Size:        8,
		}, nil)

		c, w := createTestContext(http.MethodGet, "/v1/downloads?resource_type=task_upload&resource_id=42", nil)
		withActor(c, actor)

		handler.DownloadHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "%PDF-1.7", w.Body.String())
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, "8", w.Header().Get("Content-Length"))
		assert.Equal(t, `attachment; filename=report.pdf`, w.Header().Get("Content-Disposition"))
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_TokenOnlyRequest", func(t *testing.T) {
		mockUseCase := &mockDownloadUseCase{}
		handler := NewDownloadHandler(mockUseCase, testLogger())

		mockUseCase.On("Download", mock.Anything, mock.MatchedBy(func(input *downloadDomain.DownloadInput) bool {
			return input.Token == "1700000000|abcd" && input.Actor == nil
		})).Return(&downloadDomain.DownloadOutput{
			File:        io.NopCloser(strings.NewReader("x")),
			DisplayName: "report.pdf",
			ContentType: "application/pdf",
			Size:        1,
		}, nil)

		c, w := createTestContext(http.MethodGet,
			"/v1/downloads?resource_type=task_upload&resource_id=42&token=1700000000%7Cabcd", nil)

		handler.DownloadHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_AccessDeniedMapsTo403", func(t *testing.T) {
		mockUseCase := &mockDownloadUseCase{}
		handler := NewDownloadHandler(mockUseCase, testLogger())

		mockUseCase.On("Download", mock.Anything, mock.Anything).
			Return(nil, downloadDomain.ErrAccessDenied)

		c, w := createTestContext(http.MethodGet, "/v1/downloads?resource_type=task_upload&resource_id=42", nil)
		withActor(c, &identityDomain.Actor{ID: 11, Role: identityDomain.RoleClient})

		handler.DownloadHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "forbidden")
	})

	t.Run("Error_PathViolationMapsTo403", func(t *testing.T) {
		mockUseCase := &mockDownloadUseCase{}
		handler := NewDownloadHandler(mockUseCase, testLogger())

		mockUseCase.On("Download", mock.Anything, mock.Anything).
			Return(nil, downloadDomain.ErrPathEscapesRoot)

		c, w := createTestContext(http.MethodGet, "/v1/downloads?resource_type=task_upload&resource_id=42", nil)
		withActor(c, &identityDomain.Actor{ID: 1, Role: identityDomain.RoleAdmin})

		handler.DownloadHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "path_violation")
	})

	t.Run("Error_NotFoundMapsTo404", func(t *testing.T) {
		mockUseCase := &mockDownloadUseCase{}
		handler := NewDownloadHandler(mockUseCase, testLogger())

		mockUseCase.On("Download", mock.Anything, mock.Anything).
			Return(nil, downloadDomain.ErrResourceNotFound)

		c, w := createTestContext(http.MethodGet, "/v1/downloads?resource_type=task_upload&resource_id=42", nil)
		withActor(c, &identityDomain.Actor{ID: 1, Role: identityDomain.RoleAdmin})

		handler.DownloadHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_MissingCredentialsMapsTo400", func(t *testing.T) {
		mockUseCase := &mockDownloadUseCase{}
		handler := NewDownloadHandler(mockUseCase, testLogger())

		mockUseCase.On("Download", mock.Anything, mock.Anything).
			Return(nil, downloadDomain.ErrMissingCredential)

		c, w := createTestContext(http.MethodGet, "/v1/downloads?resource_type=task_upload&resource_id=42", nil)

		handler.DownloadHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("MalformedResourceIDStillReachesGateway", func(t *testing.T) {
		// Binding failures are not rejected at the handler: the gateway
		// audits the malformed attempt itself.
		mockUseCase := &mockDownloadUseCase{}
		handler := NewDownloadHandler(mockUseCase, testLogger())

		mockUseCase.On("Download", mock.Anything, mock.MatchedBy(func(input *downloadDomain.DownloadInput) bool {
			return input.ResourceID == 0
		})).Return(nil, downloadDomain.ErrMissingCredential)

		c, w := createTestContext(http.MethodGet, "/v1/downloads?resource_type=task_upload&resource_id=abc", nil)

		handler.DownloadHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertExpectations(t)
	})
}

func TestDownloadHandler_ContentDispositionEscaping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockUseCase := &mockDownloadUseCase{}
	handler := NewDownloadHandler(mockUseCase, testLogger())

	mockUseCase.On("Download", mock.Anything, mock.Anything).
		Return(&downloadDomain.DownloadOutput{
			File:        io.NopCloser(strings.NewReader("x")),
			DisplayName: `quarterly "final" report.pdf`,
			ContentType: "application/pdf",
			Size:        1,
		}, nil)

	c, w := createTestContext(http.MethodGet, "/v1/downloads?resource_type=task_upload&resource_id=42", nil)
	withActor(c, &identityDomain.Actor{ID: 1, Role: identityDomain.RoleAdmin})

	handler.DownloadHandler(c)

	require.Equal(t, http.StatusOK, w.Code)
	disposition := w.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.NotContains(t, disposition, `""`)
}
