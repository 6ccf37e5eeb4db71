package domain

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User 上游返回的用户快照，id 由服务端分配
type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// IsWorker 只有 user 角色的用户才会出现在可拖拽排班的名单中
func (u *User) IsWorker() bool {
	return u.Role == RoleUser
}
