package domain

import "time"

type Payment struct {
	ID          int32     `json:"id"`
	ContractID  int32     `json:"contract_id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	Reference   string    `json:"reference,omitempty"`
	PaidOn      time.Time `json:"paid_on"`
	CreatedOn   time.Time `json:"created_on"`
}
