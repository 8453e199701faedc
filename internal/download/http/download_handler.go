// Package http provides HTTP handlers for download and link issuance
// operations.
package http

import (
	"log/slog"
	"mime"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	"github.com/opsdeck/filegate/internal/download/http/dto"
	downloadUseCase "github.com/opsdeck/filegate/internal/download/usecase"
	"github.com/opsdeck/filegate/internal/httputil"
	identityHTTP "github.com/opsdeck/filegate/internal/identity/http"
)

// DownloadHandler handles HTTP requests for resource downloads.
type DownloadHandler struct {
	downloadUseCase downloadUseCase.DownloadUseCase
	logger          *slog.Logger
}

// NewDownloadHandler creates a new download handler with required dependencies.
func NewDownloadHandler(
	useCase downloadUseCase.DownloadUseCase,
	logger *slog.Logger,
) *DownloadHandler {
	return &DownloadHandler{
		downloadUseCase: useCase,
		logger:          logger,
	}
}

// DownloadHandler streams an authorized resource to the caller.
// GET /v1/downloads?resource_type=&resource_id=&token=
//
// Credentials are a session header (resolved by the session middleware), a
// capability token query parameter, or both. Binding errors are not
// rejected here: raw values go to the gateway so the attempt is audited.
func (h *DownloadHandler) DownloadHandler(c *gin.Context) {
	var req dto.DownloadRequest
	_ = c.ShouldBindQuery(&req)

	input := &downloadDomain.DownloadInput{
		RequestID:    requestIDFrom(c),
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		Token:        req.Token,
		SourceIP:     c.ClientIP(),
	}
	if actor, ok := identityHTTP.GetActor(c.Request.Context()); ok {
		input.Actor = actor
	}

	output, err := h.downloadUseCase.Download(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer func() {
		_ = output.File.Close()
	}()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": output.DisplayName})
	c.DataFromReader(http.StatusOK, output.Size, output.ContentType, output.File, map[string]string{
		"Content-Disposition": disposition,
	})
}

// requestIDFrom parses the request id header set by the requestid
// middleware, falling back to a fresh UUIDv7 when absent or malformed.
func requestIDFrom(c *gin.Context) uuid.UUID {
	if id, err := uuid.Parse(requestid.Get(c)); err == nil {
		return id
	}
	return uuid.Must(uuid.NewV7())
}
