package domain

import "time"

type MutationKind string

const (
	MutationAssign       MutationKind = "assign"
	MutationMove         MutationKind = "move"
	MutationUpdate       MutationKind = "update"
	MutationRemove       MutationKind = "remove"
	MutationRunScheduler MutationKind = "run_scheduler"
)

type MutationOutcome string

const (
	OutcomeApplied  MutationOutcome = "applied"
	OutcomeConflict MutationOutcome = "conflict"
	OutcomeRejected MutationOutcome = "rejected"
	OutcomeFailed   MutationOutcome = "failed"
)

// MutationLog 网关发起的每一次排班变更及其结果
type MutationLog struct {
	ID            int64           `json:"id"`
	ActorID       int64           `json:"actorID"`
	Kind          MutationKind    `json:"kind"`
	WeekStartDate string          `json:"weekStartDate"`
	AssignmentID  *int64          `json:"assignmentID"`
	UserID        *int64          `json:"userID"`
	LocationID    *int64          `json:"locationID"`
	TimeSlotID    *int64          `json:"timeSlotID"`
	Outcome       MutationOutcome `json:"outcome"`
	ErrorCode     string          `json:"errorCode"`
	Message       string          `json:"message"`
	CreatedAt     time.Time       `json:"createdAt"`
}
