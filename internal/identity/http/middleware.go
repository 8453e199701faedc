package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	identityUseCase "github.com/opsdeck/filegate/internal/identity/usecase"
)

// SessionMiddleware resolves an optional session token header into an actor
// stored in the request context.
//
// The middleware never aborts the request: downloads can also be authorized
// by a capability token in the query string, so the gateway itself decides
// whether the credentials it got are sufficient. A missing, unknown, or
// expired session simply leaves the request anonymous.
func SessionMiddleware(
	sessionUseCase identityUseCase.SessionUseCase,
	headerName string,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainToken := c.GetHeader(headerName)
		if plainToken == "" {
			c.Next()
			return
		}

		actor, err := sessionUseCase.Authenticate(c.Request.Context(), plainToken)
		if err != nil {
			// Hash lookup already failed, so nothing sensitive to log here.
			logger.Debug("session authentication failed", slog.Any("error", err))
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(WithActor(c.Request.Context(), actor))
		c.Next()
	}
}
