package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/opsdeck/filegate/internal/config"
	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	downloadHTTP "github.com/opsdeck/filegate/internal/download/http"
	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
	"github.com/opsdeck/filegate/internal/metrics"
)

// mockSessionUseCase is a mock implementation of usecase.SessionUseCase for testing.
type mockSessionUseCase struct {
	mock.Mock
}

func (m *mockSessionUseCase) Authenticate(ctx context.Context, plainToken string) (*identityDomain.Actor, error) {
	args := m.Called(ctx, plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Actor), args.Error(1)
}

// noopDownloadUseCase satisfies usecase.DownloadUseCase for routing tests.
type noopDownloadUseCase struct{}

func (noopDownloadUseCase) Download(
	context.Context,
	*downloadDomain.DownloadInput,
) (*downloadDomain.DownloadOutput, error) {
	return nil, downloadDomain.ErrResourceNotFound
}

func (noopDownloadUseCase) IssueLink(
	context.Context,
	*downloadDomain.IssueLinkInput,
) (*downloadDomain.IssueLinkOutput, error) {
	return nil, downloadDomain.ErrResourceNotFound
}

func testConfig() *config.Config {
	return &config.Config{
		ServerHost:         "127.0.0.1",
		ServerPort:         0,
		LogLevel:           "error",
		SessionTokenHeader: "X-Session-Token",
		MetricsNamespace:   "filegate",
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	provider, err := metrics.NewProvider("filegate")
	require.NoError(t, err)

	downloadUC := &noopDownloadUseCase{}
	return NewServer(
		testConfig(),
		&mockSessionUseCase{},
		downloadHTTP.NewDownloadHandler(downloadUC, logger),
		downloadHTTP.NewLinkHandler(downloadUC, "http://localhost:8080", logger),
		provider,
		logger,
	)
}

func TestServer_HealthEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := newTestServer(t)

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "status")
	}
}

func TestServer_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestServer_UnknownRouteReturns404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v2/unknown", nil)
	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsServer_ServesPrometheusFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.DiscardHandler)

	provider, err := metrics.NewProvider("filegate")
	require.NoError(t, err)

	server := NewMetricsServer("127.0.0.1", 0, logger, provider)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCustomLoggerMiddleware_LogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/probe", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Contains(t, buf.String(), `"path":"/probe"`)
	assert.Contains(t, buf.String(), `"status":204`)
}
