package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/opsdeck/filegate/internal/app"
	"github.com/opsdeck/filegate/internal/config"
	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	"github.com/opsdeck/filegate/internal/download/http/dto"
	downloadUseCase "github.com/opsdeck/filegate/internal/download/usecase"
	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
)

// IssueDownloadLinkCommand wires the container and runs RunIssueDownloadLink
// against stdout.
func IssueDownloadLinkCommand(
	ctx context.Context,
	actorID int64,
	actorRole string,
	resourceType string,
	resourceID int64,
	ttlSeconds int64,
	format string,
) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	useCase, err := container.DownloadUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize download use case: %w", err)
	}

	return RunIssueDownloadLink(
		ctx,
		useCase,
		logger,
		os.Stdout,
		cfg.DownloadBaseURL,
		actorID,
		actorRole,
		resourceType,
		resourceID,
		ttlSeconds,
		format,
	)
}

// RunIssueDownloadLink mints a time-limited download link on behalf of the
// given actor. The actor goes through the same authorization rules as an
// interactive request: the command cannot mint links for resources the
// actor could not download directly.
func RunIssueDownloadLink(
	ctx context.Context,
	useCase downloadUseCase.DownloadUseCase,
	logger *slog.Logger,
	writer io.Writer,
	baseURL string,
	actorID int64,
	actorRole string,
	resourceType string,
	resourceID int64,
	ttlSeconds int64,
	format string,
) error {
	role := identityDomain.Role(actorRole)
	if !role.IsValid() {
		return fmt.Errorf("invalid actor role: %s (valid options: admin, client, employee)", actorRole)
	}

	// Same ceiling the HTTP surface enforces.
	maxTTLSeconds := int64(downloadDomain.MaxDownloadTokenTTL / time.Second)
	if ttlSeconds < 0 || ttlSeconds > maxTTLSeconds {
		return fmt.Errorf("ttl must be between 0 and %d seconds, got: %d", maxTTLSeconds, ttlSeconds)
	}

	logger.Info("issuing download link",
		slog.Int64("actor_id", actorID),
		slog.String("actor_role", actorRole),
		slog.String("resource_type", resourceType),
		slog.Int64("resource_id", resourceID),
	)

	input := &downloadDomain.IssueLinkInput{
		Actor:        &identityDomain.Actor{ID: actorID, Role: role},
		ResourceType: resourceType,
		ResourceID:   resourceID,
		TTL:          time.Duration(ttlSeconds) * time.Second,
	}

	output, err := useCase.IssueLink(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to issue download link: %w", err)
	}

	link := dto.MapIssueLinkToResponse(baseURL, resourceType, resourceID, output)

	if format == "json" {
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(link); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
		return nil
	}

	_, _ = fmt.Fprintf(writer, "Download Link\n")
	_, _ = fmt.Fprintf(writer, "=============\n\n")
	_, _ = fmt.Fprintf(writer, "Token:      %s\n", link.Token)
	_, _ = fmt.Fprintf(writer, "URL:        %s\n", link.URL)
	_, _ = fmt.Fprintf(writer, "Expires At: %s\n", link.ExpiresAt.Format("2006-01-02 15:04:05 MST"))

	return nil
}
