package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mulescheduler/shift-grid/internal/apiclient"
	"github.com/mulescheduler/shift-grid/internal/session"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "服务器内部错误", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "服务器内部错误",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// upstreamError 上游返回错误时的统一处理
// 令牌失效时清除会话，其余情况把上游的信息原样返回，拿不到信息时使用 fallback
func (h *Handler) upstreamError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if apiclient.IsUnauthorized(err) {
		h.expireSession(w, r)
		h.errorResponse(w, r, "登录已过期，请重新登录")
		return
	}

	if _, ok := apiclient.AsServerError(err); !ok {
		slog.Warn("无法访问上游", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	h.errorResponse(w, r, apiclient.Message(err, fallback))
}

// expireSession 删除 redis 中的会话以及对应的排班视图，并清除 cookie
func (h *Handler) expireSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := r.Context().Value(SessionCtx).(*session.Session)
	if ok {
		h.views.drop(sess.ID)
		if err := h.sessions.Delete(r.Context(), sess.ID); err != nil {
			slog.Error("无法删除会话", "session", sess.ID, "error", err)
		}
	}
	h.clearCookie(w)
}
