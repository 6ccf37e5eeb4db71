package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mulescheduler/shift-grid/internal/apiclient"
	"github.com/mulescheduler/shift-grid/internal/domain"
	"github.com/mulescheduler/shift-grid/internal/session"
)

const tokenCookieName = "__mule_scheduler_token"

// AuthClaims jti 即会话 ID
type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) parseToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(h.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, errors.New("令牌中缺少会话 ID")
	}
	return claims, nil
}

func (h *Handler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:    tokenCookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
		Role  string `json:"role" validate:"omitempty,oneof=admin user"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 由上游完成认证
	result, err := h.upstream.Login(r.Context(), req.Email, domain.Role(req.Role))
	if err != nil {
		h.upstreamError(w, r, err, "登录失败")
		return
	}

	// 保存上游令牌
	sess := &session.Session{
		ID:    uuid.NewString(),
		Token: result.Token,
		User:  result.User,
	}
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 生成 JWT
	expiration := time.Now().Add(time.Duration(h.config.JWT.Expiration) * time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(result.User.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(result.User.ID, 10),
			ID:        sess.ID,
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 通过 http-only 的 cookie 返回给客户端
	cookie := &http.Cookie{
		Name:     tokenCookieName,
		Value:    ss,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)

	h.successResponse(w, r, "登录成功", result.User)
}

// Logout 即使令牌无效也会清除 cookie
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		if claims, err := h.parseToken(cookie.Value); err == nil {
			h.views.drop(claims.ID)
			if err := h.sessions.Delete(r.Context(), claims.ID); err != nil {
				slog.Error("无法删除会话", "session", claims.ID, "error", err)
			}
		}
	}

	h.clearCookie(w)

	h.successResponse(w, r, "登出成功", nil)
}

// GetMe 向上游校验令牌，上游返回 401 时清除会话
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.upstreamFor(r).Me(r.Context())
	if err != nil {
		h.upstreamError(w, r, err, "获取个人信息失败")
		return
	}

	h.successResponse(w, r, "获取个人信息成功", user)
}

// upstreamFor 携带当前会话令牌的上游客户端
func (h *Handler) upstreamFor(r *http.Request) *apiclient.Client {
	return h.upstream.WithToken(currentSession(r).Token)
}

func currentSession(r *http.Request) *session.Session {
	return r.Context().Value(SessionCtx).(*session.Session)
}
