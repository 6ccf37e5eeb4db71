package apiclient

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/mulescheduler/shift-grid/internal/domain"
)

// ListUsers 返回所有角色的用户
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) ListLocations(ctx context.Context) ([]domain.Location, error) {
	locations := []domain.Location{}
	if err := c.do(ctx, http.MethodGet, "/locations", nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (c *Client) CreateLocation(ctx context.Context, name string, description *string) (*domain.Location, error) {
	location := &domain.Location{}
	body := map[string]any{"name": name, "description": description}
	if err := c.do(ctx, http.MethodPost, "/locations", func(r *resty.Request) {
		r.SetBody(body)
	}, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (c *Client) ListTimeSlots(ctx context.Context) ([]domain.TimeSlot, error) {
	timeSlots := []domain.TimeSlot{}
	if err := c.do(ctx, http.MethodGet, "/time-slots", nil, &timeSlots); err != nil {
		return nil, err
	}
	return timeSlots, nil
}

func (c *Client) CreateTimeSlot(ctx context.Context, slot domain.TimeSlot) (*domain.TimeSlot, error) {
	created := &domain.TimeSlot{}
	body := map[string]any{
		"day_of_week": slot.DayOfWeek,
		"start_time":  slot.StartTime,
		"end_time":    slot.EndTime,
	}
	if err := c.do(ctx, http.MethodPost, "/time-slots", func(r *resty.Request) {
		r.SetBody(body)
	}, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) ListShiftRequirements(ctx context.Context, weekStart string) ([]domain.ShiftRequirement, error) {
	requirements := []domain.ShiftRequirement{}
	err := c.do(ctx, http.MethodGet, "/shift-requirements", func(r *resty.Request) {
		if weekStart != "" {
			r.SetQueryParam("week_start", weekStart)
		}
	}, &requirements)
	if err != nil {
		return nil, err
	}
	return requirements, nil
}
