package domain

// TaskInfo carries the ownership fields of the task a task upload belongs to.
type TaskInfo struct {
	ClientID int64
	// AssignedEmployeeIDs is the dedicated-assignment relation for the
	// owning client: employees allotted to that client's tasks.
	AssignedEmployeeIDs []int64
}

// TicketInfo carries the participant fields of the support ticket an
// attachment belongs to. Tickets can be opened by clients or employees, so
// the submitter role is recorded alongside the submitter id.
type TicketInfo struct {
	SubmitterID   int64
	SubmitterRole string
	// AssignedTo is the employee handling the ticket, nil if unassigned.
	AssignedTo *int64
}

// PlanInfo carries the ownership field of a client plan document.
type PlanInfo struct {
	ClientID int64
}

// ResourceRecord is the read-only metadata for one downloadable resource,
// fetched from the portal's store. Exactly one of Task, Ticket, and Plan is
// populated, matching Type; backups carry none.
type ResourceRecord struct {
	ID           int64
	Type         ResourceType
	RelativePath string
	DisplayName  string

	Task   *TaskInfo
	Ticket *TicketInfo
	Plan   *PlanInfo
}
