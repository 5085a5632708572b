package http

import (
	"net/http"
	"time"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/repository"
	"locnos-backend/internal/service"
)

type ContractHandler struct {
	contractSvc service.ContractService
}

func NewContractHandler(contractSvc service.ContractService) *ContractHandler {
	return &ContractHandler{contractSvc: contractSvc}
}

type createContractRequest struct {
	PersonID        int32                    `json:"person_id"`
	Items           []createContractItemBody `json:"items"`
	StartDate       string                   `json:"start_date"`
	EndDate         string                   `json:"end_date"`
	DiscountPercent int32                    `json:"discount_percent"`
	DiscountCents   int64                    `json:"discount_cents"`
	DepositCents    int64                    `json:"deposit_cents"`
	PaymentMethod   string                   `json:"payment_method"`
	Notes           string                   `json:"notes"`
	Quotation       bool                     `json:"quotation"`
}

type createContractItemBody struct {
	EquipmentID int32 `json:"equipment_id"`
	Qty         int32 `json:"quantity"`
}

func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createContractRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeBadRequest(w, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		writeBadRequest(w, "end_date must be YYYY-MM-DD")
		return
	}

	in := service.CreateContractInput{
		PersonID:        req.PersonID,
		StartDate:       start,
		EndDate:         end,
		DiscountPercent: req.DiscountPercent,
		DiscountCents:   req.DiscountCents,
		DepositCents:    req.DepositCents,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
		Quotation:       req.Quotation,
	}
	for _, it := range req.Items {
		if it.Qty <= 0 {
			writeBadRequest(w, "item quantity must be positive")
			return
		}
		in.Items = append(in.Items, service.CreateContractItem{EquipmentID: it.EquipmentID, Qty: it.Qty})
	}
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		in.CreatedBy = claims.UserID
	}

	contract, err := h.contractSvc.Create(r.Context(), in)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract)
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	contract, err := h.contractSvc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ContractFilter{
		PersonID: queryInt32(q.Get("person_id"), 0),
		Status:   q.Get("status"),
		Number:   q.Get("number"),
		Page:     queryInt32(q.Get("page"), 1),
		PageSize: queryInt32(q.Get("page_size"), 20),
	}
	contracts, total, err := h.contractSvc.List(r.Context(), filter)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: contracts, Total: total})
}

func (h *ContractHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	claims, _ := ClaimsFromContext(r.Context())
	var approverID int32
	if claims != nil {
		approverID = claims.UserID
	}

	contract, err := h.contractSvc.Approve(r.Context(), id, approverID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	contract, err := h.contractSvc.Pickup(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

type returnRequest struct {
	Items []returnItemBody `json:"items"`
}

type returnItemBody struct {
	ItemID          int32  `json:"item_id"`
	Condition       string `json:"condition"`
	Notes           string `json:"notes"`
	DamageCostCents int64  `json:"damage_cost_cents"`
}

func (h *ContractHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	var req returnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	items := make([]service.ReturnItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.ReturnItemInput{
			ItemID:          it.ItemID,
			Condition:       domain.ItemCondition(it.Condition),
			Notes:           it.Notes,
			DamageCostCents: it.DamageCostCents,
		})
	}

	contract, err := h.contractSvc.Return(r.Context(), id, items)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *ContractHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	var req cancelRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}
	}

	contract, err := h.contractSvc.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

type paymentRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
	Reference   string `json:"reference"`
	PaidOn      string `json:"paid_on"`
}

func (h *ContractHandler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	paidOn := time.Now()
	if req.PaidOn != "" {
		paidOn, err = time.Parse("2006-01-02", req.PaidOn)
		if err != nil {
			writeBadRequest(w, "paid_on must be YYYY-MM-DD")
			return
		}
	}

	contract, err := h.contractSvc.RegisterPayment(r.Context(), id, req.AmountCents, req.Method, req.Reference, paidOn)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

func (h *ContractHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeBadRequest(w, "invalid id")
		return
	}
	payments, err := h.contractSvc.ListPayments(r.Context(), id)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
