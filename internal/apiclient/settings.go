package apiclient

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/mulescheduler/shift-grid/internal/domain"
)

func (c *Client) GetSettings(ctx context.Context) (*domain.GlobalSettings, error) {
	settings := &domain.GlobalSettings{}
	if err := c.do(ctx, http.MethodGet, "/settings", nil, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (c *Client) UpdateSettings(ctx context.Context, settings domain.GlobalSettings) (*domain.GlobalSettings, error) {
	updated := &domain.GlobalSettings{}
	if err := c.do(ctx, http.MethodPut, "/settings", func(r *resty.Request) {
		r.SetBody(settings)
	}, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
