package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mulescheduler/shift-grid/internal/apiclient"
	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/mulescheduler/shift-grid/internal/reconcile"
	"github.com/mulescheduler/shift-grid/internal/utils"
	amqp "github.com/rabbitmq/amqp091-go"
)

// mutationFailure 变更失败时放在 data 中，界面据此决定是否撤回拖拽
type mutationFailure struct {
	Kind   reconcile.FailureKind `json:"kind"`
	Code   string                `json:"code"`
	Revert bool                  `json:"revert"`
}

func (h *Handler) reconcilerFor(r *http.Request) *reconcile.Reconciler {
	var opts []reconcile.Option
	if h.auditLog != nil {
		actorID, _ := strconv.ParseInt(r.Context().Value(SubCtxKey).(string), 10, 64)
		opts = append(opts, reconcile.WithRecorder(h.auditLog, actorID))
	}
	return reconcile.New(h.upstreamFor(r), h.storeFor(r), opts...)
}

func (h *Handler) mutationError(w http.ResponseWriter, r *http.Request, err error) {
	if apiclient.IsUnauthorized(err) {
		h.upstreamError(w, r, err, "")
		return
	}

	var mutErr *reconcile.MutationError
	if !errors.As(err, &mutErr) {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: mutErr.Message,
		Data: mutationFailure{
			Kind:   mutErr.Kind,
			Code:   mutErr.Code,
			Revert: mutErr.Revert,
		},
	})
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID        int64  `json:"user_id" validate:"required,gt=0"`
		TimeSlotID    int64  `json:"time_slot_id" validate:"required,gt=0"`
		LocationID    int64  `json:"location_id" validate:"required,gt=0"`
		WeekStartDate string `json:"week_start_date" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateWeekStart(req.WeekStartDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	assignment, err := h.reconcilerFor(r).Assign(r.Context(), domain.CreateAssignmentRequest{
		UserID:        req.UserID,
		TimeSlotID:    req.TimeSlotID,
		LocationID:    req.LocationID,
		WeekStartDate: req.WeekStartDate,
	})
	if err != nil {
		h.mutationError(w, r, err)
		return
	}

	h.successResponse(w, r, "排班成功", assignment)
}

func (h *Handler) MoveAssignment(w http.ResponseWriter, r *http.Request) {
	var req reconcile.MoveTarget

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	id := r.Context().Value(AssignmentIDCtx).(int64)
	assignment, err := h.reconcilerFor(r).Move(r.Context(), id, req)
	if err != nil {
		h.mutationError(w, r, err)
		return
	}

	h.successResponse(w, r, "移动排班成功", assignment)
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	var req reconcile.UpdateRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	id := r.Context().Value(AssignmentIDCtx).(int64)
	assignment, err := h.reconcilerFor(r).Update(r.Context(), id, req)
	if err != nil {
		h.mutationError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新排班成功", assignment)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id := r.Context().Value(AssignmentIDCtx).(int64)
	if err := h.reconcilerFor(r).Remove(r.Context(), id); err != nil {
		h.mutationError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除排班成功", nil)
}

// RunScheduler async 为真时投递到队列，由 worker 执行并邮件通知结果
func (h *Handler) RunScheduler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStartDate string `json:"week_start_date" validate:"required"`
		Async         bool   `json:"async"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateWeekStart(req.WeekStartDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !req.Async {
		result, err := h.reconcilerFor(r).RunScheduler(r.Context(), req.WeekStartDate)
		if err != nil {
			h.mutationError(w, r, err)
			return
		}
		h.successResponse(w, r, result.Message, result)
		return
	}

	sess := currentSession(r)
	job := domain.SchedulerJob{
		SessionID:     sess.ID,
		WeekStartDate: req.WeekStartDate,
		RequestedBy: domain.Requester{
			ID:    sess.User.ID,
			Name:  sess.User.Name,
			Email: sess.User.Email,
		},
	}

	// 序列化任务
	jobData, err := json.Marshal(job)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 发送任务到消息队列中
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.jobChannel.PublishWithContext(
		ctx,
		"",
		domain.SchedulerQueue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        jobData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "自动排班任务已提交，完成后将通过邮件通知", nil)
}
