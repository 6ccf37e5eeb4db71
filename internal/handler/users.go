package handler

import (
	"net/http"

	"github.com/mulescheduler/shift-grid/internal/utils"
)

// GetAllUsers 所有角色的用户，带头像缩写
func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.upstreamFor(r).ListUsers(r.Context())
	if err != nil {
		h.upstreamError(w, r, err, "获取用户列表失败")
		return
	}

	views := make([]workerView, 0, len(users))
	for _, user := range users {
		views = append(views, workerView{User: user, Initials: utils.Initials(user.Name)})
	}

	h.successResponse(w, r, "获取所有用户成功", views)
}
