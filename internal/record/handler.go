// AngelaMos | 2026
// handler.go

package record

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
	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/users/{id:[0-9]+}/records", h.ListUserRecords)

		r.Route("/records", func(r chi.Router) {
			r.Get("/", h.ListOwnRecords)
			r.Post("/", h.CreateRecord)
			r.Get("/{id:[0-9]+}", h.GetRecord)
			r.Put("/{id:[0-9]+}", h.UpdateRecord)
			r.Delete("/{id:[0-9]+}", h.DeleteRecord)
		})
	})
}

type recordsEnvelope struct {
	Records []RecordResponse `json:"records"`
}

func (h *Handler) ListUserRecords(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "Wrong user id.")
		return
	}
	h.list(w, r, id)
}

func (h *Handler) ListOwnRecords(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetIdentity(r.Context())
	if caller == nil {
		core.Unauthorized(w, "")
		return
	}
	h.list(w, r, caller.UserID)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, userID int64) {
	records, err := h.service.List(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		userID,
		r.URL.Query(),
	)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, recordsEnvelope{Records: ToRecordResponseList(records)})
}

func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req CreateRecordRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	record, err := h.service.Create(r.Context(), middleware.GetIdentity(r.Context()), req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]RecordResponse{"new_record": ToRecordResponse(record)})
}

func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	record, err := h.service.Get(r.Context(), middleware.GetIdentity(r.Context()), id)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]RecordResponse{"record": ToRecordResponse(record)})
}

func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	caller := middleware.GetIdentity(r.Context())
	if _, err := h.service.Get(r.Context(), caller, id); err != nil {
		core.JSONError(w, err)
		return
	}

	var req UpdateRecordRequest
	if err := core.DecodeAndValidate(r, h.validator, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	record, err := h.service.Update(r.Context(), caller, id, req)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]RecordResponse{"record": ToRecordResponse(record)})
}

func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := recordID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetIdentity(r.Context()), id); err != nil {
		core.JSONError(w, err)
		return
	}

	core.OK(w, map[string]bool{"deleted": true})
}

func recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := core.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "No such record.")
		return 0, false
	}
	return id, true
}
