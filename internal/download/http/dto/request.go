// Package dto provides data transfer objects for download HTTP request and
// response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	customValidation "github.com/opsdeck/filegate/internal/validation"
)

// DownloadRequest carries the query parameters of a download request. The
// values are deliberately not validated here: the gateway validates them
// itself so that malformed requests still produce an audit entry.
type DownloadRequest struct {
	ResourceType string `form:"resource_type"`
	ResourceID   int64  `form:"resource_id"`
	Token        string `form:"token"`
}

// CreateDownloadLinkRequest contains the parameters for minting a shareable
// download link.
type CreateDownloadLinkRequest struct {
	ResourceType string `json:"resource_type"`
	ResourceID   int64  `json:"resource_id"`
	// TTLSeconds of zero means the server default.
	TTLSeconds int64 `json:"ttl_seconds"`
}

// Validate checks if the create download link request is valid.
func (r *CreateDownloadLinkRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ResourceType,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.ResourceID,
			validation.Required,
			customValidation.PositiveID{},
		),
		validation.Field(&r.TTLSeconds,
			validation.Min(int64(0)),
			validation.Max(int64(downloadDomain.MaxDownloadTokenTTL/time.Second)),
		),
	)
}
