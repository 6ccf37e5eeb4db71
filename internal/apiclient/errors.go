package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// 业务冲突错误码，由上游在创建或移动排班时返回
const (
	CodeOverMaxWorkers = "OVER_MAX_WORKERS"
	CodeOverlapForUser = "OVERLAP_FOR_USER"
)

// ErrTransport 没有拿到任何响应（网络错误、超时、上下文取消等）
var ErrTransport = errors.New("上游不可达")

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ServerError 上游返回了非 2xx 的响应
// Code 对应响应体中的 error 字段，Message 对应 message 字段，二者都可能为空
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("上游返回 %d: %s: %s", e.Status, e.Code, e.Message)
	case e.Code != "":
		return fmt.Sprintf("上游返回 %d: %s", e.Status, e.Code)
	case e.Message != "":
		return fmt.Sprintf("上游返回 %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("上游返回 %d", e.Status)
	}
}

// IsConflict 是否为业务规则冲突（人数超限或同一助理时间重叠）
func (e *ServerError) IsConflict() bool {
	return e.Code == CodeOverMaxWorkers || e.Code == CodeOverlapForUser
}

func (e *ServerError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// AsServerError 从错误链中取出 *ServerError
func AsServerError(err error) (*ServerError, bool) {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr, true
	}
	return nil, false
}

// IsConflict 错误链中是否包含业务冲突
func IsConflict(err error) bool {
	serverErr, ok := AsServerError(err)
	return ok && serverErr.IsConflict()
}

func IsUnauthorized(err error) bool {
	serverErr, ok := AsServerError(err)
	return ok && serverErr.IsUnauthorized()
}

// Message 提取给用户看的错误信息：优先取 error 字段，其次 message 字段，否则使用 fallback
func Message(err error, fallback string) string {
	serverErr, ok := AsServerError(err)
	if !ok {
		return fallback
	}
	if serverErr.Code != "" {
		return serverErr.Code
	}
	if serverErr.Message != "" {
		return serverErr.Message
	}
	return fallback
}

// ConflictMessage 冲突场景下 message 字段更具可读性，因此优先取 message
func ConflictMessage(err error, fallback string) string {
	serverErr, ok := AsServerError(err)
	if !ok {
		return fallback
	}
	if serverErr.Message != "" {
		return serverErr.Message
	}
	if serverErr.Code != "" {
		return serverErr.Code
	}
	return fallback
}
