package worker

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"time"

	"github.com/mulescheduler/shift-grid/internal/apiclient"
	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/mulescheduler/shift-grid/internal/reconcile"
	"github.com/mulescheduler/shift-grid/internal/session"
	"github.com/mulescheduler/shift-grid/internal/utils"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templatesFS embed.FS

const resultSubject = "MuleScheduler - 自动排班结果"

const (
	mailAttempts  = 3
	mailRetryWait = 2 * time.Second
)

// Outcome 决定如何回复消息队列
type Outcome int

const (
	Ack     Outcome = iota
	Reject          // 丢弃，不重新入队
	Requeue         // 重新入队
)

type SessionSource interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

type SchedulerRunner interface {
	RunScheduler(ctx context.Context, weekStart string) (*domain.SchedulerRunResult, error)
}

// Mailer *mail.Client 实现了该接口
type Mailer interface {
	DialAndSend(messages ...*mail.Msg) error
}

type Processor struct {
	sessions  SessionSource
	runnerFor func(token string) SchedulerRunner
	mailer    Mailer
	from      string
	tmpl      *template.Template
	retryWait time.Duration
}

func NewProcessor(sessions SessionSource, runnerFor func(token string) SchedulerRunner, mailer Mailer, from string) (*Processor, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/scheduler_result.html")
	if err != nil {
		return nil, err
	}

	return &Processor{
		sessions:  sessions,
		runnerFor: runnerFor,
		mailer:    mailer,
		from:      from,
		tmpl:      tmpl,
		retryWait: mailRetryWait,
	}, nil
}

// UpstreamRunner 以会话令牌访问上游
func UpstreamRunner(client *apiclient.Client) func(token string) SchedulerRunner {
	return func(token string) SchedulerRunner {
		return client.WithToken(token)
	}
}

// Process 处理一条 scheduler_queue 中的消息
func (p *Processor) Process(ctx context.Context, body []byte) Outcome {
	job := domain.SchedulerJob{}
	if err := json.Unmarshal(body, &job); err != nil {
		slog.Error("排班任务反序列化失败", "error", err)
		return Reject
	}
	if job.SessionID == "" || job.RequestedBy.Email == "" {
		slog.Error("排班任务缺少必要字段", "session", job.SessionID, "email", job.RequestedBy.Email)
		return Reject
	}
	if err := utils.ValidateWeekStart(job.WeekStartDate); err != nil {
		slog.Error("排班任务的周起始日期无效", "error", err)
		return Reject
	}

	sess, err := p.sessions.Get(ctx, job.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			slog.Warn("排班任务对应的会话已过期，任务已丢弃", "session", job.SessionID)
			return Reject
		}
		slog.Error("无法读取会话", "session", job.SessionID, "error", err)
		return Requeue
	}

	data := domain.SchedulerResultMailData{
		Name:          job.RequestedBy.Name,
		WeekStartDate: job.WeekStartDate,
	}

	result, err := p.runnerFor(sess.Token).RunScheduler(ctx, job.WeekStartDate)
	if err != nil {
		slog.Error("自动排班失败", "week_start", job.WeekStartDate, "error", err)
		data.Message = apiclient.Message(err, reconcile.RunSchedulerFallback)
	} else {
		slog.Info("自动排班完成", "week_start", job.WeekStartDate, "message", result.Message)
		data.Succeeded = true
		data.Message = result.Message
	}

	// 构建邮件
	msg := mail.NewMsg()
	if err := msg.From(p.from); err != nil {
		slog.Error("无法设置邮件发件人", "error", err)
		return Reject
	}
	if err := msg.To(job.RequestedBy.Email); err != nil {
		slog.Error("无法设置邮件收件人", "error", err)
		return Reject
	}
	if err := msg.SetBodyHTMLTemplate(p.tmpl, data); err != nil {
		slog.Error("无法设置邮件正文", "error", err)
		return Reject
	}
	msg.Subject(resultSubject)

	// 自动排班已经执行过，不能重新入队，只在这里重试发送邮件
	if err := p.send(ctx, msg); err != nil {
		slog.Error("邮件发送失败，排班结果未通知", "email", job.RequestedBy.Email, "week_start", job.WeekStartDate, "error", err)
	}

	return Ack
}

func (p *Processor) send(ctx context.Context, msg *mail.Msg) error {
	var err error
	for attempt := 1; attempt <= mailAttempts; attempt++ {
		if err = p.mailer.DialAndSend(msg); err == nil {
			return nil
		}
		if attempt == mailAttempts {
			break
		}
		slog.Warn("邮件发送失败，稍后重试", "attempt", attempt, "error", err)

		select {
		case <-time.After(p.retryWait):
		case <-ctx.Done():
			return err
		}
	}
	return err
}
