package usecase

import (
	"slices"

	downloadDomain "github.com/opsdeck/filegate/internal/download/domain"
	identityDomain "github.com/opsdeck/filegate/internal/identity/domain"
)

// AuthorizationRule decides access for one resource type. Each rule owns the
// ownership join of its type; adding a fifth resource type means registering
// one new rule, not scattering a new code path.
type AuthorizationRule interface {
	Authorize(actor *identityDomain.Actor, record *downloadDomain.ResourceRecord) downloadDomain.Decision
}

// accessAuthorizer implements Authorizer with per-type rule dispatch.
//
// Precedence, first match wins:
//  1. admin role allows everything
//  2. backups deny every non-admin, before any ownership logic
//  3. the per-type ownership rule
//  4. unknown resource types deny (fail-closed terminal fallback)
type accessAuthorizer struct {
	rules map[downloadDomain.ResourceType]AuthorizationRule
}

// NewAccessAuthorizer creates the Authorizer with all four resource-type
// rules registered.
func NewAccessAuthorizer() Authorizer {
	return &accessAuthorizer{
		rules: map[downloadDomain.ResourceType]AuthorizationRule{
			downloadDomain.ResourceTypeTaskUpload:        taskUploadRule{},
			downloadDomain.ResourceTypeSupportAttachment: supportAttachmentRule{},
			downloadDomain.ResourceTypePlanDocument:      planDocumentRule{},
			downloadDomain.ResourceTypeBackup:            backupRule{},
		},
	}
}

// Authorize evaluates the rule table for the actor/record pair.
func (a *accessAuthorizer) Authorize(
	actor *identityDomain.Actor,
	record *downloadDomain.ResourceRecord,
) downloadDomain.Decision {
	if actor == nil {
		return downloadDomain.Deny(downloadDomain.ReasonMissingCredential)
	}

	// Admin passes uniformly across all resource types.
	if actor.Role == identityDomain.RoleAdmin {
		return downloadDomain.Allow(downloadDomain.ReasonAdminOverride)
	}

	rule, ok := a.rules[record.Type]
	if !ok {
		// Terminal fallback: never silently allow.
		return downloadDomain.Deny(downloadDomain.ReasonUnknownResourceType)
	}

	return rule.Authorize(actor, record)
}

// backupRule denies every caller. Admin access was already granted above,
// so reaching this rule means a non-admin is asking for a backup; there is
// no client or employee access path to backups at all.
type backupRule struct{}

func (backupRule) Authorize(
	actor *identityDomain.Actor,
	record *downloadDomain.ResourceRecord,
) downloadDomain.Decision {
	return downloadDomain.Deny(downloadDomain.ReasonBackupsAdminOnly)
}

// taskUploadRule allows the owning client and employees in the
// dedicated-assignment relation for that client.
type taskUploadRule struct{}

func (taskUploadRule) Authorize(
	actor *identityDomain.Actor,
	record *downloadDomain.ResourceRecord,
) downloadDomain.Decision {
	task := record.Task
	if task == nil {
		return downloadDomain.Deny(downloadDomain.ReasonNotTaskParticipant)
	}

	if actor.Role == identityDomain.RoleClient && actor.ID == task.ClientID {
		return downloadDomain.Allow(downloadDomain.ReasonOwnerMatch)
	}

	if actor.Role == identityDomain.RoleEmployee && slices.Contains(task.AssignedEmployeeIDs, actor.ID) {
		return downloadDomain.Allow(downloadDomain.ReasonAssigneeMatch)
	}

	return downloadDomain.Deny(downloadDomain.ReasonNotTaskParticipant)
}

// supportAttachmentRule allows ticket participants: the client who submitted
// the ticket, the employee it is assigned to, or the employee who submitted
// it. The submitter role is checked alongside the id because client and
// employee id spaces overlap.
type supportAttachmentRule struct{}

func (supportAttachmentRule) Authorize(
	actor *identityDomain.Actor,
	record *downloadDomain.ResourceRecord,
) downloadDomain.Decision {
	ticket := record.Ticket
	if ticket == nil {
		return downloadDomain.Deny(downloadDomain.ReasonNotTicketSubmitter)
	}

	switch actor.Role {
	case identityDomain.RoleClient:
		if actor.ID == ticket.SubmitterID && ticket.SubmitterRole == string(identityDomain.RoleClient) {
			return downloadDomain.Allow(downloadDomain.ReasonTicketParticipant)
		}

	case identityDomain.RoleEmployee:
		if ticket.AssignedTo != nil && actor.ID == *ticket.AssignedTo {
			return downloadDomain.Allow(downloadDomain.ReasonTicketParticipant)
		}
		if actor.ID == ticket.SubmitterID && ticket.SubmitterRole == string(identityDomain.RoleEmployee) {
			return downloadDomain.Allow(downloadDomain.ReasonTicketParticipant)
		}
	}

	return downloadDomain.Deny(downloadDomain.ReasonNotTicketSubmitter)
}

// planDocumentRule allows only the owning client.
type planDocumentRule struct{}

func (planDocumentRule) Authorize(
	actor *identityDomain.Actor,
	record *downloadDomain.ResourceRecord,
) downloadDomain.Decision {
	plan := record.Plan
	if plan == nil {
		return downloadDomain.Deny(downloadDomain.ReasonNotDocumentOwner)
	}

	if actor.Role == identityDomain.RoleClient && actor.ID == plan.ClientID {
		return downloadDomain.Allow(downloadDomain.ReasonDocumentOwner)
	}

	return downloadDomain.Deny(downloadDomain.ReasonNotDocumentOwner)
}
