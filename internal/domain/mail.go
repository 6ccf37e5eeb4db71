package domain

// SchedulerResultMailData 自动排班结果邮件模板所需的数据
type SchedulerResultMailData struct {
	Name          string `json:"name"`
	WeekStartDate string `json:"weekStartDate"`
	Succeeded     bool   `json:"succeeded"`
	Message       string `json:"message"`
}
