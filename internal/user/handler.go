// AngelaMos | 2026
// handler.go

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/middleware"
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
	r.Post("/users", h.Register)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/users", h.ListUsers)
		r.Get("/users/self", h.GetSelf)
		r.Put("/users/self", h.UpdateUser)
		r.Get("/users/{id:[0-9]+}", h.GetUser)
		r.Put("/users/{id:[0-9]+}", h.UpdateUser)
		r.Get("/users/{id:[0-9]+}/targets", h.GetTarget)
		r.Put("/users/{id:[0-9]+}/targets", h.SetTarget)
	})
}

type userEnvelope struct {
	User UserResponse `json:"user"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if _, err := h.service.Register(r.Context(), req); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]bool{"success": true})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string][]UserResponse{"users": ToUserResponseList(users)})
}

func (h *Handler) GetSelf(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())
	if caller == nil {
		core.Unauthorized(w, "")
		return
	}

	user, err := h.service.GetUser(r.Context(), caller, caller.UserID)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, userEnvelope{User: ToUserResponse(user)})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), middleware.GetIdentity(r.Context()), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, userEnvelope{User: ToUserResponse(user)})
}

// UpdateUser answers 501: editing account fields other than the target and
// roles is not offered.
func (h *Handler) UpdateUser(w http.ResponseWriter, _ *http.Request) {
	core.JSONError(w, core.NotImplementedError("User modifications not implemented yet"))
}

func (h *Handler) GetTarget(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetTarget(r.Context(), middleware.GetIdentity(r.Context()), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]TargetResponse{"targets": ToTargetResponse(user)})
}

func (h *Handler) SetTarget(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	caller := middleware.GetIdentity(r.Context())
	if !caller.CanAccess(id, middleware.RoleEditor) {
		core.Forbidden(w, "No access to the records of this user.")
		return
	}

	var req UpdateTargetRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.service.SetTarget(r.Context(), caller, id, *req.TargetDailyCalories); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]TargetSettings{
		"settings": {TargetDailyCalories: *req.TargetDailyCalories},
	})
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := core.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "Wrong user id.")
		return 0, false
	}
	return id, true
}
