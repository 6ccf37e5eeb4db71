package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	SessionCtx      ContextKey = "session"
	AssignmentIDCtx ContextKey = "assignmentID"
	LocationIDCtx   ContextKey = "locationID"
	TimeSlotIDCtx   ContextKey = "timeSlotID"
	RequirementCtx  ContextKey = "shiftRequirementID"
)
