package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/mulescheduler/shift-grid/internal/apiclient"
	"github.com/mulescheduler/shift-grid/internal/config"
	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/mulescheduler/shift-grid/internal/reconcile"
	"github.com/mulescheduler/shift-grid/internal/session"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AuditLog 排班变更记录的存储，*repository.Repository 实现了该接口
type AuditLog interface {
	reconcile.Recorder
	GetMutationLogsByWeek(weekStart string) ([]*domain.MutationLog, error)
}

// Publisher 投递异步任务，*amqp.Channel 实现了该接口
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	auditLog   AuditLog
	translator ut.Translator
	jobChannel Publisher
	sessions   *session.Store
	upstream   *apiclient.Client
	views      *viewRegistry

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, auditLog AuditLog, upstream *apiclient.Client, sessions *session.Store, jobCh Publisher) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		auditLog:   auditLog,
		translator: trans,
		jobChannel: jobCh,
		sessions:   sessions,
		upstream:   upstream,
		views:      newViewRegistry(time.Duration(cfg.JWT.Expiration)*time.Hour, cfg.Schedule.WithRequirements),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.With(h.auth).Get("/me", h.GetMe)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.GetSchedule)
			r.Get("/cell", h.GetCell)
			r.Post("/refresh", h.RefreshSchedule)

			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
				r.Get("/available-workers", h.GetAvailableWorkers)
				r.Post("/run-scheduler", h.RunScheduler)
				r.Route("/assignments", func(r chi.Router) {
					r.Post("/", h.CreateAssignment)
					r.Route("/{id}", func(r chi.Router) {
						r.Use(h.resourceID(AssignmentIDCtx, "排班ID无效"))
						r.Patch("/", h.UpdateAssignment)
						r.Put("/move", h.MoveAssignment)
						r.Delete("/", h.DeleteAssignment)
					})
				})
			})
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", h.GetAllLocations)

			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
				r.Post("/", h.CreateLocation)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.resourceID(LocationIDCtx, "地点ID无效"))
					r.Put("/", h.UpdateLocation)
					r.Delete("/", h.DeleteLocation)
				})
			})
		})

		r.Route("/time-slots", func(r chi.Router) {
			r.Get("/", h.GetAllTimeSlots)

			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
				r.Post("/", h.CreateTimeSlot)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.resourceID(TimeSlotIDCtx, "时间段ID无效"))
					r.Put("/", h.UpdateTimeSlot)
					r.Delete("/", h.DeleteTimeSlot)
				})
			})
		})

		r.Route("/shift-requirements", func(r chi.Router) {
			r.Get("/", h.GetShiftRequirements)

			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
				r.Post("/", h.CreateShiftRequirement)
				r.Route("/{id}", func(r chi.Router) {
					r.Use(h.resourceID(RequirementCtx, "班次需求ID无效"))
					r.Put("/", h.UpdateShiftRequirement)
					r.Delete("/", h.DeleteShiftRequirement)
				})
			})
		})

		r.Route("/availability", func(r chi.Router) {
			r.Get("/", h.GetMyAvailability)
			r.Post("/", h.SubmitMyAvailability)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))
			r.Get("/users", h.GetAllUsers)
			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)
			r.Get("/mutation-logs", h.GetMutationLogs)
		})
	})
}
