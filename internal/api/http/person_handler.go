package http

import (
	"net/http"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/service"
)

type PersonHandler struct {
	personSvc service.PersonService
}

func NewPersonHandler(personSvc service.PersonService) *PersonHandler {
	return &PersonHandler{personSvc: personSvc}
}

func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p domain.Person
	if err := decodeJSON(r, &p); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := h.personSvc.Create(r.Context(), &p); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PersonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	p, err := h.personSvc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	var p domain.Person
	if err := decodeJSON(r, &p); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	p.ID = id
	if err := h.personSvc.Update(r.Context(), &p); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	if err := h.personSvc.Delete(r.Context(), id); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	persons, total, err := h.personSvc.List(r.Context(), q.Get("search"), queryInt32(q.Get("page"), 1), queryInt32(q.Get("page_size"), 20))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: persons, Total: total})
}
