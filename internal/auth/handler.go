// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/eatme/internal/config"
	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	cfg       config.AuthConfig
}

func NewHandler(service *Service, cfg config.AuthConfig) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
		cfg:       cfg,
	}
}

// RegisterRoutes mounts login publicly (behind loginLimit) and the logout
// endpoints behind authenticator.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, loginLimit func(http.Handler) http.Handler,
) {
	r.With(loginLimit).Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/logout", h.Logout)
		r.Post("/logout-all", h.LogoutAll)
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), req, r.UserAgent(), middleware.ClientIP(r))
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(w, core.BadRequestError("Invalid email or password"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookie,
		Value:    result.SessionID,
		Path:     "/",
		Expires:  result.SessionExpires,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	core.OK(w, LoginResponse{
		User: LoginUser{
			ID:                  result.UserID,
			AuthenticationToken: result.Token.Token,
			ExpiresAt:           result.Token.ExpiresAt,
		},
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		core.Unauthorized(w, "")
		return
	}

	var sessionID string
	if cookie, err := r.Cookie(h.cfg.SessionCookie); err == nil {
		sessionID = cookie.Value
	}

	if err := h.service.Logout(r.Context(), identity, sessionID); err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.clearCookie(w)
	core.OK(w, SuccessResponse{Success: true})
}

func (h *Handler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		core.Unauthorized(w, "")
		return
	}

	if err := h.service.LogoutAll(r.Context(), identity.UserID); err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.clearCookie(w)
	core.OK(w, SuccessResponse{Success: true})
}

func (h *Handler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
