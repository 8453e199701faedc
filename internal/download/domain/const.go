// Package domain defines the download authorization domain model: resource
// types, access decisions, capability tokens, and audit entries.
package domain

import "time"

// ResourceType distinguishes the downloadable entity kinds. Each type carries
// its own ownership semantics, evaluated by a dedicated authorization rule.
type ResourceType string

const (
	// ResourceTypeTaskUpload is a file attached to a client task.
	ResourceTypeTaskUpload ResourceType = "task_upload"

	// ResourceTypeSupportAttachment is a file attached to a support ticket.
	ResourceTypeSupportAttachment ResourceType = "support_attachment"

	// ResourceTypePlanDocument is a plan document belonging to a client.
	ResourceTypePlanDocument ResourceType = "plan_document"

	// ResourceTypeBackup is a system backup archive. Admin-only.
	ResourceTypeBackup ResourceType = "backup"

	// ResourceTypeUnknown is the sentinel recorded in audit entries for
	// requests that failed before the resource type could be established.
	ResourceTypeUnknown ResourceType = "unknown"
)

// KnownResourceTypes lists the resource types a request may name.
var KnownResourceTypes = []ResourceType{
	ResourceTypeTaskUpload,
	ResourceTypeSupportAttachment,
	ResourceTypePlanDocument,
	ResourceTypeBackup,
}

// IsValid reports whether the resource type is one of the four known kinds.
func (rt ResourceType) IsValid() bool {
	switch rt {
	case ResourceTypeTaskUpload, ResourceTypeSupportAttachment, ResourceTypePlanDocument, ResourceTypeBackup:
		return true
	default:
		return false
	}
}

// DefaultDownloadTokenTTL is the validity window for signed download tokens.
// Fixed design choice: expiry is evaluated with no clock-skew tolerance.
const DefaultDownloadTokenTTL = 600 * time.Second

// MaxDownloadTokenTTL caps requested token lifetimes on every issuance
// surface, so neither the API nor operator tooling can mint an effectively
// non-expiring capability link.
const MaxDownloadTokenTTL = 24 * time.Hour
