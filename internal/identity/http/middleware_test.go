package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
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

func setupRouter(useCase *mockSessionUseCase) (*gin.Engine, *struct {
	actor *identityDomain.Actor
	found bool
}) {
	gin.SetMode(gin.TestMode)
	captured := &struct {
		actor *identityDomain.Actor
		found bool
	}{}

	router := gin.New()
	router.Use(SessionMiddleware(useCase, "X-Session-Token", slog.New(slog.DiscardHandler)))
	router.GET("/probe", func(c *gin.Context) {
		captured.actor, captured.found = GetActor(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return router, captured
}

func TestSessionMiddleware(t *testing.T) {
	t.Run("ValidTokenSetsActor", func(t *testing.T) {
		useCase := &mockSessionUseCase{}
		actor := &identityDomain.Actor{ID: 10, Role: identityDomain.RoleClient}
		useCase.On("Authenticate", mock.Anything, "session-token").Return(actor, nil)

		router, captured := setupRouter(useCase)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("X-Session-Token", "session-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.True(t, captured.found)
		assert.Equal(t, actor, captured.actor)
	})

	t.Run("MissingHeaderStaysAnonymous", func(t *testing.T) {
		useCase := &mockSessionUseCase{}
		router, captured := setupRouter(useCase)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, captured.found)
		useCase.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("InvalidTokenStaysAnonymousWithoutAborting", func(t *testing.T) {
		useCase := &mockSessionUseCase{}
		useCase.On("Authenticate", mock.Anything, "bad-token").
			Return(nil, identityDomain.ErrSessionExpired)

		router, captured := setupRouter(useCase)

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set("X-Session-Token", "bad-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, captured.found)
	})
}

func TestGetActor_EmptyContext(t *testing.T) {
	actor, ok := GetActor(context.Background())
	assert.Nil(t, actor)
	assert.False(t, ok)
}
