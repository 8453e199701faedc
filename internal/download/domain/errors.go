package domain

import (
	"github.com/opsdeck/filegate/internal/errors"
)

// Download domain errors.
var (
	// ErrResourceNotFound indicates no metadata row matches the requested
	// (resource_type, resource_id) pair, or the resolved file is missing.
	ErrResourceNotFound = errors.Wrap(errors.ErrNotFound, "resource not found")

	// ErrPathEscapesRoot indicates a resolved path canonicalized outside the
	// resource root. Always audited distinctly from a missing resource.
	ErrPathEscapesRoot = errors.Wrap(errors.ErrPathViolation, "relative path escapes resource root")

	// ErrInvalidToken indicates a download token that is unparsable, carries
	// a wrong signature, or is expired.
	ErrInvalidToken = errors.Wrap(errors.ErrForbidden, "invalid or expired token")

	// ErrAccessDenied indicates the authorizer rejected the actor/resource pair.
	ErrAccessDenied = errors.Wrap(errors.ErrForbidden, "access denied")

	// ErrMissingCredential indicates the request carried neither an
	// authenticated session nor a download token.
	ErrMissingCredential = errors.Wrap(errors.ErrInvalidInput, "missing session and token")

	// ErrSignatureInvalid indicates an audit entry signature failed verification.
	ErrSignatureInvalid = errors.New("audit entry signature is invalid")
)
