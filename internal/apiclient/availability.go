package apiclient

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/mulescheduler/shift-grid/internal/domain"
)

// ListAvailability 当前登录用户在某一周的空闲时间
func (c *Client) ListAvailability(ctx context.Context, weekStart string) ([]domain.UserAvailability, error) {
	availability := []domain.UserAvailability{}
	err := c.do(ctx, http.MethodGet, "/availability", func(r *resty.Request) {
		r.SetQueryParam("week_start", weekStart)
	}, &availability)
	if err != nil {
		return nil, err
	}
	return availability, nil
}

// SubmitAvailability 批量写入空闲时间，已存在的记录只更新偏好
func (c *Client) SubmitAvailability(ctx context.Context, batch domain.AvailabilityBatch) ([]domain.UserAvailability, error) {
	saved := []domain.UserAvailability{}
	if err := c.do(ctx, http.MethodPost, "/availability/batch", func(r *resty.Request) {
		r.SetBody(batch)
	}, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}
