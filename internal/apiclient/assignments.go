package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/mulescheduler/shift-grid/internal/domain"
)

func (c *Client) ListAssignments(ctx context.Context, filter domain.AssignmentFilter) ([]domain.Assignment, error) {
	assignments := []domain.Assignment{}

	err := c.do(ctx, http.MethodGet, "/assignments", func(r *resty.Request) {
		r.SetQueryParam("week_start", filter.WeekStart)
		if filter.LocationID != nil {
			r.SetQueryParam("location_id", strconv.FormatInt(*filter.LocationID, 10))
		}
		if filter.UserID != nil {
			r.SetQueryParam("user_id", strconv.FormatInt(*filter.UserID, 10))
		}
	}, &assignments)
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

func (c *Client) CreateAssignment(ctx context.Context, req domain.CreateAssignmentRequest) (*domain.Assignment, error) {
	assignment := &domain.Assignment{}
	if err := c.do(ctx, http.MethodPost, "/assignments", func(r *resty.Request) {
		r.SetBody(req)
	}, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// ReassignAssignment 把排班换给另一个助理
func (c *Client) ReassignAssignment(ctx context.Context, id int64, userID int64) (*domain.Assignment, error) {
	assignment := &domain.Assignment{}
	body := map[string]int64{"user_id": userID}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/assignments/%d", id), func(r *resty.Request) {
		r.SetBody(body)
	}, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// MoveAssignment 移动排班到新的 (时间段, 地点)，冲突时返回 IsConflict 为真的 *ServerError
func (c *Client) MoveAssignment(ctx context.Context, id int64, req domain.MoveAssignmentRequest) (*domain.Assignment, error) {
	assignment := &domain.Assignment{}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/assignments/%d/move", id), func(r *resty.Request) {
		r.SetBody(req)
	}, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (c *Client) DeleteAssignment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/assignments/%d", id), nil, nil)
}

func (c *Client) RunScheduler(ctx context.Context, weekStart string) (*domain.SchedulerRunResult, error) {
	result := &domain.SchedulerRunResult{}
	body := map[string]string{"week_start_date": weekStart}
	if err := c.do(ctx, http.MethodPost, "/assignments/run-scheduler", func(r *resty.Request) {
		r.SetBody(body)
	}, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AvailableWorkers 在该 (地点, 时间段, 周) 标记了空闲且尚未被排班的助理
func (c *Client) AvailableWorkers(ctx context.Context, locationID, timeSlotID int64, weekStart string) ([]domain.User, error) {
	users := []domain.User{}
	err := c.do(ctx, http.MethodGet, "/assignments/available-workers", func(r *resty.Request) {
		r.SetQueryParams(map[string]string{
			"location_id":  strconv.FormatInt(locationID, 10),
			"time_slot_id": strconv.FormatInt(timeSlotID, 10),
			"week_start":   weekStart,
		})
	}, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}
