package apiclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mulescheduler/shift-grid/internal/config"
)

// Client MuleScheduler 上游 REST API 客户端
// 同一个底层 resty 客户端可以被多个携带不同令牌的 Client 共享
type Client struct {
	http  *resty.Client
	token string
}

type Options struct {
	BaseURL          string
	Timeout          time.Duration
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
}

func New(opts Options) *Client {
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(opts.RetryWaitTime).
		SetRetryMaxWaitTime(opts.RetryMaxWaitTime).
		AddRetryCondition(retryReadsOnly).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: client}
}

// retryReadsOnly 只有 GET 在网络错误时重试；变更请求可能已经在上游生效，重发会重复执行
func retryReadsOnly(resp *resty.Response, err error) bool {
	if err == nil || resp == nil || resp.Request == nil {
		return false
	}
	return resp.Request.Method == http.MethodGet
}

func NewFromConfig(cfg *config.Config) *Client {
	return New(Options{
		BaseURL:          cfg.Upstream.BaseURL,
		Timeout:          time.Duration(cfg.Upstream.Timeout) * time.Second,
		RetryCount:       cfg.Upstream.RetryCount,
		RetryWaitTime:    time.Duration(cfg.Upstream.RetryWaitTime) * time.Second,
		RetryMaxWaitTime: time.Duration(cfg.Upstream.RetryMaxWaitTime) * time.Second,
	})
}

// WithToken 返回一个携带 bearer token 的客户端，空字符串表示未登录
func (c *Client) WithToken(token string) *Client {
	return &Client{http: c.http, token: token}
}

func (c *Client) Token() string {
	return c.token
}

// do 发送请求；out 为 nil 时忽略响应体
func (c *Client) do(ctx context.Context, method, path string, prepare func(*resty.Request), out any) error {
	errBody := &errorBody{}

	req := c.http.R().SetContext(ctx).SetError(errBody)
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	if out != nil {
		req.SetResult(out)
	}
	if prepare != nil {
		prepare(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		slog.Debug("上游请求失败", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}

	if resp.IsError() {
		return &ServerError{
			Status:  resp.StatusCode(),
			Code:    errBody.Error,
			Message: errBody.Message,
		}
	}

	return nil
}
