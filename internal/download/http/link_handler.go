package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	"github.com/opsdeck/filegate/internal/download/http/dto"
	downloadUseCase "github.com/opsdeck/filegate/internal/download/usecase"
	apperrors "github.com/opsdeck/filegate/internal/errors"
	"github.com/opsdeck/filegate/internal/httputil"
	identityHTTP "github.com/opsdeck/filegate/internal/identity/http"
	customValidation "github.com/opsdeck/filegate/internal/validation"
)

// LinkHandler handles HTTP requests for minting shareable download links.
type LinkHandler struct {
	downloadUseCase downloadUseCase.DownloadUseCase
	baseURL         string
	logger          *slog.Logger
}

// NewLinkHandler creates a new link handler with required dependencies.
func NewLinkHandler(
	useCase downloadUseCase.DownloadUseCase,
	baseURL string,
	logger *slog.Logger,
) *LinkHandler {
	return &LinkHandler{
		downloadUseCase: useCase,
		baseURL:         baseURL,
		logger:          logger,
	}
}

// CreateHandler mints a download link for a resource the caller may read.
// POST /v1/download-links - Requires an authenticated session.
// Returns 201 Created with the token, a ready-to-share URL, and the expiry.
func (h *LinkHandler) CreateHandler(c *gin.Context) {
	actor, ok := identityHTTP.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateDownloadLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := &downloadDomain.IssueLinkInput{
		Actor:        actor,
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		TTL:          time.Duration(req.TTLSeconds) * time.Second,
	}

	output, err := h.downloadUseCase.IssueLink(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapIssueLinkToResponse(h.baseURL, req.ResourceType, req.ResourceID, output)

	c.JSON(http.StatusCreated, response)
}
