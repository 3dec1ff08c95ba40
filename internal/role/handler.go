// AngelaMos | 2026
// handler.go

package role

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/middleware"
	"github.com/carterperez-dev/eatme/internal/user"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/users/{id:[0-9]+}/roles", h.ListRoles)
		r.Put("/users/{id:[0-9]+}/roles", h.GrantRole)
		r.Delete("/users/{id:[0-9]+}/roles", h.RevokeRole)
	})
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}

	roles, err := h.service.Roles(r.Context(), subject)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, RolesResponse{Roles: roles})
}

func (h *Handler) GrantRole(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, h.service.Grant)
}

func (h *Handler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, h.service.Revoke)
}

type changeFunc func(
	ctx context.Context,
	caller *middleware.Identity,
	subject *user.User,
	name string,
) error

func (h *Handler) change(w http.ResponseWriter, r *http.Request, apply changeFunc) {
	subject, ok := h.subject(w, r)
	if !ok {
		return
	}

	var req RoleRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	caller := middleware.GetIdentity(r.Context())
	if err := apply(r.Context(), caller, subject, req.Role); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, SettingsResponse{Settings: req})
}

// subject runs the admin and user checks before the body is looked at.
func (h *Handler) subject(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	id, err := core.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "Wrong user id.")
		return nil, false
	}

	subject, err := h.service.Subject(r.Context(), middleware.GetIdentity(r.Context()), id)
	if err != nil {
		core.JSONError(w, err)
		return nil, false
	}
	return subject, true
}
