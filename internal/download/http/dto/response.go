package dto

import (
	"fmt"
	"net/url"
	"time"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
)

// DownloadLinkResponse contains a minted download link. The token grants
// read access to exactly one resource until expiry; treat the URL like the
// file itself.
type DownloadLinkResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapIssueLinkToResponse converts an issued link to an API response. The URL
// reproduces the download endpoint's query shape so the link can be handed
// out as-is.
func MapIssueLinkToResponse(
	baseURL, resourceType string,
	resourceID int64,
	output *downloadDomain.IssueLinkOutput,
) DownloadLinkResponse {
	query := url.Values{}
	query.Set("resource_type", resourceType)
	query.Set("resource_id", fmt.Sprintf("%d", resourceID))
	query.Set("token", output.Token)

	return DownloadLinkResponse{
		Token:     output.Token,
		URL:       fmt.Sprintf("%s/v1/downloads?%s", baseURL, query.Encode()),
		ExpiresAt: output.ExpiresAt,
	}
}
