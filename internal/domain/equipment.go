package domain

import "time"

type EquipmentStatus string

const (
	EquipmentStatusAvailable   EquipmentStatus = "available"
	EquipmentStatusRented      EquipmentStatus = "rented"
	EquipmentStatusReserved    EquipmentStatus = "reserved"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
	EquipmentStatusRetired     EquipmentStatus = "retired"
)

type PeriodUnit string

const (
	PeriodUnitHour  PeriodUnit = "hour"
	PeriodUnitDay   PeriodUnit = "day"
	PeriodUnitWeek  PeriodUnit = "week"
	PeriodUnitMonth PeriodUnit = "month"
)

// Pricing holds the rental rates of a catalog item. DailyRateCents is
// mandatory; the other tiers are optional and enabled when > 0.
type Pricing struct {
	DailyRateCents    int64      `json:"daily_rate_cents"`
	WeeklyRateCents   int64      `json:"weekly_rate_cents"`
	MonthlyRateCents  int64      `json:"monthly_rate_cents"`
	HourlyRateCents   int64      `json:"hourly_rate_cents"`
	MinimumPeriod     int32      `json:"minimum_period"`
	MinimumPeriodUnit PeriodUnit `json:"minimum_period_unit"`
	DepositCents      int64      `json:"deposit_cents"`
	ReplacementCents  int64      `json:"replacement_cents"`
}

// Quantity partitions the stock of an equipment into mutually exclusive
// buckets. Total is derived: available + rented + reserved + maintenance.
type Quantity struct {
	Total       int32 `json:"total"`
	Available   int32 `json:"available"`
	Rented      int32 `json:"rented"`
	Reserved    int32 `json:"reserved"`
	Maintenance int32 `json:"maintenance"`
}

type Equipment struct {
	ID           int32           `json:"id"`
	InternalCode string          `json:"internal_code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CategoryID   int32           `json:"category_id"`
	Category     *Category       `json:"category,omitempty"`
	SerialNumber string          `json:"serial_number,omitempty"`
	Pricing      Pricing         `json:"pricing"`
	Quantity     Quantity        `json:"quantity"`
	Status       EquipmentStatus `json:"status"`
	ImageURL     string          `json:"image_url,omitempty"`
	Tags         []string        `json:"tags,omitempty"`
	Visible      bool            `json:"visible"`
	Notes        string          `json:"notes,omitempty"`
	CreatedBy    int32           `json:"created_by"`
	CreatedOn    time.Time       `json:"created_on"`
	UpdatedOn    time.Time       `json:"updated_on"`
	DeletedOn    *time.Time      `json:"deleted_on,omitempty"`
}
