package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/repository"
	"locnos-backend/internal/service"
)

type EquipmentHandler struct {
	equipmentSvc service.EquipmentService
}

func NewEquipmentHandler(equipmentSvc service.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{equipmentSvc: equipmentSvc}
}

type listResponse struct {
	Items any   `json:"items"`
	Total int32 `json:"total"`
}

func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var e domain.Equipment
	if err := decodeJSON(r, &e); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		e.CreatedBy = claims.UserID
	}
	if err := h.equipmentSvc.Create(r.Context(), &e); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	e, err := h.equipmentSvc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	var e domain.Equipment
	if err := decodeJSON(r, &e); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	e.ID = id
	if err := h.equipmentSvc.Update(r.Context(), &e); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	if err := h.equipmentSvc.Delete(r.Context(), id); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.EquipmentFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   queryInt32(q.Get("page"), 1),
	}
	filter.PageSize = queryInt32(q.Get("page_size"), 20)
	filter.CategoryID = queryInt32(q.Get("category_id"), 0)

	items, total, err := h.equipmentSvc.List(r.Context(), filter)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items, Total: total})
}

type availabilityResponse struct {
	Available      bool  `json:"available"`
	AvailableUnits int32 `json:"available_units"`
}

func (h *EquipmentHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	qty := queryInt32(r.URL.Query().Get("qty"), 1)
	if qty <= 0 {
		writeBadRequest(w, "qty must be positive")
		return
	}

	ok, units, err := h.equipmentSvc.CheckAvailability(r.Context(), id, qty)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{Available: ok, AvailableUnits: units})
}

type quoteResponse struct {
	UnitPriceCents int64 `json:"unit_price_cents"`
}

// Quote prices one unit over the requested period without reserving it.
func (h *EquipmentHandler) Quote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	q := r.URL.Query()
	start, err := time.Parse("2006-01-02", q.Get("start_date"))
	if err != nil {
		writeBadRequest(w, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", q.Get("end_date"))
	if err != nil {
		writeBadRequest(w, "end_date must be YYYY-MM-DD")
		return
	}

	price, err := h.equipmentSvc.Quote(r.Context(), id, start, end)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, quoteResponse{UnitPriceCents: price})
}

func pathID(r *http.Request) (int32, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, strconv.ErrSyntax
	}
	return int32(id), nil
}

func queryInt32(raw string, def int32) int32 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return def
	}
	return int32(v)
}
