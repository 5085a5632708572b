package domain

import "time"

type ContractStatus string

const (
	ContractStatusQuotation ContractStatus = "quotation"
	ContractStatusPending   ContractStatus = "pending"
	ContractStatusApproved  ContractStatus = "approved"
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
	ContractStatusOverdue   ContractStatus = "overdue"
)

type ItemCondition string

const (
	ItemConditionExcellent ItemCondition = "excellent"
	ItemConditionGood      ItemCondition = "good"
	ItemConditionFair      ItemCondition = "fair"
	ItemConditionPoor      ItemCondition = "poor"
	ItemConditionDamaged   ItemCondition = "damaged"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// ContractItem is a line item inside a rental contract. UnitPriceCents is a
// snapshot of the price computed at booking time, not the live catalog rate.
type ContractItem struct {
	ID              int32         `json:"id"`
	ContractID      int32         `json:"contract_id"`
	EquipmentID     int32         `json:"equipment_id"`
	Equipment       *Equipment    `json:"equipment,omitempty"`
	Qty             int32         `json:"quantity"`
	UnitPriceCents  int64         `json:"unit_price_cents"`
	SubtotalCents   int64         `json:"subtotal_cents"`
	PickupCondition ItemCondition `json:"pickup_condition,omitempty"`
	PickupNotes     string        `json:"pickup_notes,omitempty"`
	ReturnCondition ItemCondition `json:"return_condition,omitempty"`
	ReturnNotes     string        `json:"return_notes,omitempty"`
	DamageCostCents int64         `json:"damage_cost_cents"`
}

// RentalPeriod holds the requested interval plus the real pickup/return
// dates. RentalDays and ExtraDays are derived on every save.
type RentalPeriod struct {
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	ActualStartDate *time.Time `json:"actual_start_date,omitempty"`
	ActualEndDate   *time.Time `json:"actual_end_date,omitempty"`
	RentalDays      int32      `json:"rental_days"`
	ExtraDays       int32      `json:"extra_days"`
}

type AdditionalFee struct {
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
}

// Financial summarizes the money side of a contract. BalanceCents is always
// recomputed as total - total paid; it is never accepted from a caller.
type Financial struct {
	SubtotalCents       int64           `json:"subtotal_cents"`
	DiscountAmountCents int64           `json:"discount_amount_cents"`
	DiscountPercent     int32           `json:"discount_percent"`
	DepositCents        int64           `json:"deposit_cents"`
	LateFeeCents        int64           `json:"late_fee_cents"`
	DamageFeeCents      int64           `json:"damage_fee_cents"`
	AdditionalFees      []AdditionalFee `json:"additional_fees,omitempty"`
	TotalCents          int64           `json:"total_cents"`
	TotalPaidCents      int64           `json:"total_paid_cents"`
	BalanceCents        int64           `json:"balance_cents"`
}

type Contract struct {
	ID            int32          `json:"id"`
	Number        string         `json:"number"`
	PersonID      int32          `json:"person_id"`
	Person        *Person        `json:"person,omitempty"`
	Status        ContractStatus `json:"status"`
	Items         []ContractItem `json:"items"`
	Period        RentalPeriod   `json:"period"`
	Financial     Financial      `json:"financial"`
	PaymentStatus PaymentStatus  `json:"payment_status"`
	PaymentMethod string         `json:"payment_method,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	InternalNotes string         `json:"internal_notes,omitempty"`
	CreatedBy     int32          `json:"created_by"`
	ApprovedBy    *int32         `json:"approved_by,omitempty"`
	ApprovedOn    *time.Time     `json:"approved_on,omitempty"`
	CreatedOn     time.Time      `json:"created_on"`
	UpdatedOn     time.Time      `json:"updated_on"`
}
