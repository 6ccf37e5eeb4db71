package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mulescheduler/shift-grid/internal/apiclient"
	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/mulescheduler/shift-grid/internal/scheduledata"
	"github.com/mulescheduler/shift-grid/internal/utils"
)

// 网络错误等没有拿到服务端信息时展示的兜底文案
const (
	AssignFallback       = "Failed to assign worker"
	MoveFallback         = "Failed to move assignment"
	RemoveFallback       = "Failed to remove assignment"
	UpdateFallback       = "Failed to update shift"
	RunSchedulerFallback = "Failed to run scheduler"
)

// ErrAlreadyAssigned 本地快照中已存在相同的排班，请求不会发往服务端
var ErrAlreadyAssigned = errors.New("该助理已在此时间段和地点排班")

type FailureKind string

const (
	FailureConflict  FailureKind = "conflict"
	FailureServer    FailureKind = "server"
	FailureTransport FailureKind = "transport"
	FailureDuplicate FailureKind = "duplicate"
)

// MutationError 一次变更失败的结果
//
// Message 可以直接展示给用户；Revert 为真表示界面上已经做出的乐观移动需要撤回。
type MutationError struct {
	Kind    FailureKind
	Code    string
	Message string
	Revert  bool
	Err     error
}

func (e *MutationError) Error() string {
	return e.Message
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// Mutator 服务端的变更接口，*apiclient.Client 实现了该接口
type Mutator interface {
	CreateAssignment(ctx context.Context, req domain.CreateAssignmentRequest) (*domain.Assignment, error)
	ReassignAssignment(ctx context.Context, id int64, userID int64) (*domain.Assignment, error)
	MoveAssignment(ctx context.Context, id int64, req domain.MoveAssignmentRequest) (*domain.Assignment, error)
	DeleteAssignment(ctx context.Context, id int64) error
	RunScheduler(ctx context.Context, weekStart string) (*domain.SchedulerRunResult, error)
}

// Refresher 变更成功之后重新加载数据，*scheduledata.Store 实现了该接口
type Refresher interface {
	Snapshot() *scheduledata.Index
	Refresh(ctx context.Context) error
}

// Recorder 记录每一次变更的结果，记录失败不影响变更本身
type Recorder interface {
	RecordMutation(ctx context.Context, log *domain.MutationLog) error
}

type Reconciler struct {
	mutator  Mutator
	store    Refresher
	recorder Recorder
	actorID  int64
}

type Option func(*Reconciler)

func WithRecorder(recorder Recorder, actorID int64) Option {
	return func(r *Reconciler) {
		r.recorder = recorder
		r.actorID = actorID
	}
}

func New(mutator Mutator, store Refresher, opts ...Option) *Reconciler {
	r := &Reconciler{mutator: mutator, store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Assign 在 (时间段, 地点) 为助理排班
// 本地快照中已存在同样的排班时直接返回 ErrAlreadyAssigned；这只是提示，最终以服务端为准
func (r *Reconciler) Assign(ctx context.Context, req domain.CreateAssignmentRequest) (*domain.Assignment, error) {
	entry := &domain.MutationLog{
		Kind:          domain.MutationAssign,
		WeekStartDate: req.WeekStartDate,
		UserID:        &req.UserID,
		LocationID:    &req.LocationID,
		TimeSlotID:    &req.TimeSlotID,
	}

	if r.store.Snapshot().HasAssignment(req.WeekStartDate, req.UserID, req.TimeSlotID, req.LocationID) {
		mutErr := &MutationError{
			Kind:    FailureDuplicate,
			Message: "This worker is already assigned to this slot",
			Err:     ErrAlreadyAssigned,
		}
		r.record(ctx, entry, mutErr)
		return nil, mutErr
	}

	assignment, err := r.mutator.CreateAssignment(ctx, req)
	if err != nil {
		mutErr := classify(err, AssignFallback, false)
		r.record(ctx, entry, mutErr)
		return nil, mutErr
	}

	entry.AssignmentID = &assignment.ID
	r.record(ctx, entry, nil)
	r.refresh(ctx)
	return assignment, nil
}

// MoveTarget 移动的目标格子
type MoveTarget struct {
	TimeSlotID int64 `json:"new_time_slot_id" validate:"required,gt=0"`
	LocationID int64 `json:"new_location_id" validate:"required,gt=0"`
}

// Move 把排班移动到新的格子，起止时刻根据当前周与目标时间段计算
// 冲突时返回的 MutationError 中 Revert 为真
func (r *Reconciler) Move(ctx context.Context, assignmentID int64, target MoveTarget) (*domain.Assignment, error) {
	snapshot := r.store.Snapshot()
	weekStart := snapshot.WeekStart()

	entry := &domain.MutationLog{
		Kind:          domain.MutationMove,
		WeekStartDate: weekStart,
		AssignmentID:  &assignmentID,
		LocationID:    &target.LocationID,
		TimeSlotID:    &target.TimeSlotID,
	}

	req, err := moveRequest(snapshot, target)
	if err != nil {
		mutErr := &MutationError{Kind: FailureServer, Message: MoveFallback, Revert: true, Err: err}
		r.record(ctx, entry, mutErr)
		return nil, mutErr
	}

	assignment, err := r.mutator.MoveAssignment(ctx, assignmentID, req)
	if err != nil {
		mutErr := classify(err, MoveFallback, true)
		r.record(ctx, entry, mutErr)
		return nil, mutErr
	}

	r.record(ctx, entry, nil)
	r.refresh(ctx)
	return assignment, nil
}

func moveRequest(snapshot *scheduledata.Index, target MoveTarget) (domain.MoveAssignmentRequest, error) {
	start, end, err := utils.SlotInstants(snapshot.WeekStart(), snapshot.TimeSlotsByID()[target.TimeSlotID])
	if err != nil {
		return domain.MoveAssignmentRequest{}, err
	}
	return domain.MoveAssignmentRequest{
		NewTimeSlotID: target.TimeSlotID,
		NewLocationID: target.LocationID,
		NewStart:      start,
		NewEnd:        end,
	}, nil
}

// Remove 删除排班
func (r *Reconciler) Remove(ctx context.Context, assignmentID int64) error {
	entry := &domain.MutationLog{
		Kind:          domain.MutationRemove,
		WeekStartDate: r.store.Snapshot().WeekStart(),
		AssignmentID:  &assignmentID,
	}

	if err := r.mutator.DeleteAssignment(ctx, assignmentID); err != nil {
		mutErr := classify(err, RemoveFallback, false)
		r.record(ctx, entry, mutErr)
		return mutErr
	}

	r.record(ctx, entry, nil)
	r.refresh(ctx)
	return nil
}

// UpdateRequest 在编辑对话框中一次性修改助理和/或格子，为 nil 的字段保持不变
type UpdateRequest struct {
	UserID     *int64 `json:"user_id" validate:"omitempty,gt=0"`
	TimeSlotID *int64 `json:"time_slot_id" validate:"omitempty,gt=0"`
	LocationID *int64 `json:"location_id" validate:"omitempty,gt=0"`
}

// Update 先换人再移动；任意一步失败都会停止，已经成功的步骤不会回滚，但仍会刷新数据
func (r *Reconciler) Update(ctx context.Context, assignmentID int64, req UpdateRequest) (*domain.Assignment, error) {
	snapshot := r.store.Snapshot()

	current, ok := snapshot.AssignmentsByID()[assignmentID]
	if !ok {
		return nil, &MutationError{
			Kind:    FailureServer,
			Message: "Assignment not found",
			Err:     fmt.Errorf("排班 %d 不在当前视图中", assignmentID),
		}
	}

	entry := &domain.MutationLog{
		Kind:          domain.MutationUpdate,
		WeekStartDate: snapshot.WeekStart(),
		AssignmentID:  &assignmentID,
		UserID:        req.UserID,
		LocationID:    req.LocationID,
		TimeSlotID:    req.TimeSlotID,
	}

	updated := *current
	changed := false

	if req.UserID != nil && *req.UserID != current.UserID {
		assignment, err := r.mutator.ReassignAssignment(ctx, assignmentID, *req.UserID)
		if err != nil {
			mutErr := classify(err, UpdateFallback, false)
			r.record(ctx, entry, mutErr)
			return nil, mutErr
		}
		updated = *assignment
		changed = true
	}

	target := MoveTarget{TimeSlotID: current.TimeSlotID, LocationID: current.LocationID}
	if req.TimeSlotID != nil {
		target.TimeSlotID = *req.TimeSlotID
	}
	if req.LocationID != nil {
		target.LocationID = *req.LocationID
	}

	if target.TimeSlotID != current.TimeSlotID || target.LocationID != current.LocationID {
		moveReq, err := moveRequest(snapshot, target)
		if err == nil {
			var assignment *domain.Assignment
			assignment, err = r.mutator.MoveAssignment(ctx, assignmentID, moveReq)
			if err == nil {
				updated = *assignment
			}
		}
		if err != nil {
			mutErr := classify(err, UpdateFallback, false)
			r.record(ctx, entry, mutErr)
			if changed {
				r.refresh(ctx)
			}
			return nil, mutErr
		}
		changed = true
	}

	if !changed {
		return &updated, nil
	}

	r.record(ctx, entry, nil)
	r.refresh(ctx)
	return &updated, nil
}

// RunScheduler 同步执行自动排班并刷新数据
func (r *Reconciler) RunScheduler(ctx context.Context, weekStart string) (*domain.SchedulerRunResult, error) {
	entry := &domain.MutationLog{
		Kind:          domain.MutationRunScheduler,
		WeekStartDate: weekStart,
	}

	result, err := r.mutator.RunScheduler(ctx, weekStart)
	if err != nil {
		mutErr := classify(err, RunSchedulerFallback, false)
		r.record(ctx, entry, mutErr)
		return nil, mutErr
	}

	entry.Message = result.Message
	r.record(ctx, entry, nil)
	r.refresh(ctx)
	return result, nil
}

// classify 把上游错误转换为可展示的 MutationError
// revertOnConflict 只对拖拽移动有意义
func classify(err error, fallback string, revertOnConflict bool) *MutationError {
	serverErr, ok := apiclient.AsServerError(err)
	if !ok {
		return &MutationError{Kind: FailureTransport, Message: fallback, Err: err}
	}

	if serverErr.IsConflict() {
		return &MutationError{
			Kind:    FailureConflict,
			Code:    serverErr.Code,
			Message: "Conflict: " + apiclient.ConflictMessage(err, fallback),
			Revert:  revertOnConflict,
			Err:     err,
		}
	}

	return &MutationError{
		Kind:    FailureServer,
		Code:    serverErr.Code,
		Message: apiclient.Message(err, fallback),
		Err:     err,
	}
}

// refresh 变更已经成功，刷新失败只会反映在 Store 的错误状态中
func (r *Reconciler) refresh(ctx context.Context) {
	if err := r.store.Refresh(ctx); err != nil {
		slog.Warn("变更成功但刷新排班数据失败", "error", err)
	}
}

func (r *Reconciler) record(ctx context.Context, entry *domain.MutationLog, mutErr *MutationError) {
	if r.recorder == nil {
		return
	}

	entry.ActorID = r.actorID
	entry.Outcome = domain.OutcomeApplied
	if mutErr != nil {
		entry.Message = mutErr.Message
		entry.ErrorCode = mutErr.Code
		switch mutErr.Kind {
		case FailureConflict:
			entry.Outcome = domain.OutcomeConflict
		case FailureDuplicate:
			entry.Outcome = domain.OutcomeRejected
		default:
			entry.Outcome = domain.OutcomeFailed
		}
	}

	if err := r.recorder.RecordMutation(ctx, entry); err != nil {
		slog.Error("无法记录排班变更", "kind", entry.Kind, "error", err)
	}
}
