package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/mulescheduler/shift-grid/internal/domain"
)

func (c *Client) UpdateLocation(ctx context.Context, id int64, update domain.LocationUpdate) (*domain.Location, error) {
	location := &domain.Location{}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/locations/%d", id), func(r *resty.Request) {
		r.SetBody(update)
	}, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (c *Client) DeleteLocation(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/locations/%d", id), nil, nil)
}

// UpdateTimeSlot 总是提交完整的时间段
func (c *Client) UpdateTimeSlot(ctx context.Context, slot domain.TimeSlot) (*domain.TimeSlot, error) {
	updated := &domain.TimeSlot{}
	body := map[string]any{
		"day_of_week": slot.DayOfWeek,
		"start_time":  slot.StartTime,
		"end_time":    slot.EndTime,
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/time-slots/%d", slot.ID), func(r *resty.Request) {
		r.SetBody(body)
	}, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *Client) DeleteTimeSlot(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/time-slots/%d", id), nil, nil)
}

// CreateShiftRequirement 同一周同一格子已有需求时上游会直接覆盖人数
func (c *Client) CreateShiftRequirement(ctx context.Context, req domain.CreateShiftRequirementRequest) (*domain.ShiftRequirement, error) {
	requirement := &domain.ShiftRequirement{}
	if err := c.do(ctx, http.MethodPost, "/shift-requirements", func(r *resty.Request) {
		r.SetBody(req)
	}, requirement); err != nil {
		return nil, err
	}
	return requirement, nil
}

func (c *Client) UpdateShiftRequirement(ctx context.Context, id int64, update domain.ShiftRequirementUpdate) (*domain.ShiftRequirement, error) {
	requirement := &domain.ShiftRequirement{}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/shift-requirements/%d", id), func(r *resty.Request) {
		r.SetBody(update)
	}, requirement); err != nil {
		return nil, err
	}
	return requirement, nil
}

func (c *Client) DeleteShiftRequirement(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/shift-requirements/%d", id), nil, nil)
}
