package apiclient

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/mulescheduler/shift-grid/internal/domain"
)

type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login 上游按邮箱登录，用户不存在时会自动创建
func (c *Client) Login(ctx context.Context, email string, role domain.Role) (*LoginResult, error) {
	result := &LoginResult{}
	body := map[string]string{"email": email}
	if role != "" {
		body["role"] = string(role)
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", func(r *resty.Request) {
		r.SetBody(body)
	}, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Me 校验当前令牌，令牌失效时返回 IsUnauthorized 为真的错误
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	user := &domain.User{}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, user); err != nil {
		return nil, err
	}
	return user, nil
}
