package domain

// SchedulerJob 通过 scheduler_queue 投递给 worker 的异步排班任务
type SchedulerJob struct {
	SessionID     string    `json:"session_id"`
	WeekStartDate string    `json:"week_start_date"`
	RequestedBy   Requester `json:"requested_by"`
}

type Requester struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SchedulerRunResult struct {
	Message string `json:"message"`
}

// SchedulerQueue 异步自动排班任务所在的队列
const SchedulerQueue = "scheduler_queue"
