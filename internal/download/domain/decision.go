package domain

// Outcome is the terminal state a download request reached. Exactly one
// audit entry records the outcome of every gateway invocation.
type Outcome string

const (
	OutcomeCompleted      Outcome = "completed"
	OutcomeDenied         Outcome = "denied"
	OutcomeNotFound       Outcome = "not_found"
	OutcomePathViolation  Outcome = "path_violation"
	OutcomeInvalidRequest Outcome = "invalid_request"
	OutcomeServerError    Outcome = "server_error"
)

// Decision is the result of one authorization check. Reason is always
// populated, on Allow as well as Deny, because it is persisted verbatim
// into the audit entry.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow builds an allowing decision with the given reason.
func Allow(reason string) Decision {
	return Decision{Allowed: true, Reason: reason}
}

// Deny builds a denying decision with the given reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Decision reasons shared between the authorizer and its tests. The audit
// trail stores these strings verbatim, so they are constants rather than
// ad hoc literals.
const (
	ReasonAdminOverride       = "admin override"
	ReasonBackupsAdminOnly    = "backups are admin-only"
	ReasonOwnerMatch          = "owner match"
	ReasonAssigneeMatch       = "assignee match"
	ReasonNotTaskParticipant  = "not task owner or assignee"
	ReasonTicketParticipant   = "ticket participant"
	ReasonNotTicketSubmitter  = "not ticket participant"
	ReasonDocumentOwner       = "document owner"
	ReasonNotDocumentOwner    = "not document owner"
	ReasonUnknownResourceType = "unrecognized resource type"
	ReasonTokenGrant          = "capability token grant"
	ReasonInvalidToken        = "invalid or expired token"
	ReasonMissingCredential   = "missing session and token"
)
