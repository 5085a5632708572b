package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/rental"
	"locnos-backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

type contractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) repository.ContractRepository {
	return &contractRepository{db: db}
}

const contractColumns = `id, contract_number, person_id, status,
	start_date, end_date, actual_start_date, actual_end_date, rental_days, extra_days,
	subtotal_cents, discount_amount_cents, discount_percent, deposit_cents,
	late_fee_cents, damage_fee_cents, additional_fees,
	total_cents, total_paid_cents, balance_cents,
	payment_status, COALESCE(payment_method, ''), COALESCE(notes, ''), COALESCE(internal_notes, ''),
	COALESCE(created_by, 0), approved_by, approved_on, created_on, updated_on`

const itemColumns = `id, contract_id, equipment_id, qty, unit_price_cents, subtotal_cents,
	COALESCE(pickup_condition, ''), COALESCE(pickup_notes, ''),
	COALESCE(return_condition, ''), COALESCE(return_notes, ''), damage_cost_cents`

func scanContract(row interface{ Scan(...any) error }) (*domain.Contract, error) {
	c := &domain.Contract{}
	var fees []byte
	err := row.Scan(
		&c.ID, &c.Number, &c.PersonID, &c.Status,
		&c.Period.StartDate, &c.Period.EndDate, &c.Period.ActualStartDate, &c.Period.ActualEndDate,
		&c.Period.RentalDays, &c.Period.ExtraDays,
		&c.Financial.SubtotalCents, &c.Financial.DiscountAmountCents, &c.Financial.DiscountPercent, &c.Financial.DepositCents,
		&c.Financial.LateFeeCents, &c.Financial.DamageFeeCents, &fees,
		&c.Financial.TotalCents, &c.Financial.TotalPaidCents, &c.Financial.BalanceCents,
		&c.PaymentStatus, &c.PaymentMethod, &c.Notes, &c.InternalNotes,
		&c.CreatedBy, &c.ApprovedBy, &c.ApprovedOn, &c.CreatedOn, &c.UpdatedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(fees) > 0 {
		if err := json.Unmarshal(fees, &c.Financial.AdditionalFees); err != nil {
			return nil, fmt.Errorf("decoding additional fees of contract %d: %w", c.ID, err)
		}
	}
	return c, nil
}

// Create numbers and inserts a contract plus its line items in one
// transaction. The month's greatest existing number is read under FOR UPDATE
// so concurrent creations serialize on the numbering row; a unique-constraint
// violation still maps to ErrDuplicateContractNumber so the caller can retry.
func (r *contractRepository) Create(ctx context.Context, c *domain.Contract) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if c.Number == "" {
		ym := rental.YearMonth(time.Now())
		var last sql.NullString
		err := tx.QueryRowContext(ctx,
			`SELECT contract_number FROM contracts WHERE contract_number LIKE $1 ORDER BY contract_number DESC LIMIT 1 FOR UPDATE`,
			ym+"%",
		).Scan(&last)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		c.Number, err = rental.NextContractNumber(ym, last.String)
		if err != nil {
			return err
		}
	}

	fees, err := json.Marshal(c.Financial.AdditionalFees)
	if err != nil {
		return err
	}

	now := time.Now()
	c.CreatedOn = now
	c.UpdatedOn = now

	query := `INSERT INTO contracts (contract_number, person_id, status,
	          start_date, end_date, actual_start_date, actual_end_date, rental_days, extra_days,
	          subtotal_cents, discount_amount_cents, discount_percent, deposit_cents,
	          late_fee_cents, damage_fee_cents, additional_fees,
	          total_cents, total_paid_cents, balance_cents,
	          payment_status, payment_method, notes, internal_notes, created_by, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, NULLIF($24, 0), $25, $25) RETURNING id`
	err = tx.QueryRowContext(ctx, query,
		c.Number, c.PersonID, c.Status,
		c.Period.StartDate, c.Period.EndDate, c.Period.ActualStartDate, c.Period.ActualEndDate,
		c.Period.RentalDays, c.Period.ExtraDays,
		c.Financial.SubtotalCents, c.Financial.DiscountAmountCents, c.Financial.DiscountPercent, c.Financial.DepositCents,
		c.Financial.LateFeeCents, c.Financial.DamageFeeCents, fees,
		c.Financial.TotalCents, c.Financial.TotalPaidCents, c.Financial.BalanceCents,
		c.PaymentStatus, c.PaymentMethod, c.Notes, c.InternalNotes, c.CreatedBy, now,
	).Scan(&c.ID)
	if err != nil {
		return mapContractErr(err)
	}

	for i := range c.Items {
		it := &c.Items[i]
		it.ContractID = c.ID
		err := tx.QueryRowContext(ctx,
			`INSERT INTO contract_items (contract_id, equipment_id, qty, unit_price_cents, subtotal_cents, pickup_condition, pickup_notes, damage_cost_cents)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
			it.ContractID, it.EquipmentID, it.Qty, it.UnitPriceCents, it.SubtotalCents, it.PickupCondition, it.PickupNotes, it.DamageCostCents,
		).Scan(&it.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func mapContractErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrDuplicateContractNumber
	}
	return err
}

func (r *contractRepository) GetByID(ctx context.Context, id int32) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	c, err := scanContract(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *contractRepository) GetByNumber(ctx context.Context, number string) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE contract_number = $1`
	c, err := scanContract(r.db.QueryRowContext(ctx, query, number))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *contractRepository) loadItems(ctx context.Context, c *domain.Contract) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM contract_items WHERE contract_id = $1 ORDER BY id`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.ContractItem
		if err := rows.Scan(&it.ID, &it.ContractID, &it.EquipmentID, &it.Qty, &it.UnitPriceCents, &it.SubtotalCents,
			&it.PickupCondition, &it.PickupNotes, &it.ReturnCondition, &it.ReturnNotes, &it.DamageCostCents); err != nil {
			return err
		}
		c.Items = append(c.Items, it)
	}
	return rows.Err()
}

func (r *contractRepository) Update(ctx context.Context, c *domain.Contract) error {
	fees, err := json.Marshal(c.Financial.AdditionalFees)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	c.UpdatedOn = time.Now()
	query := `UPDATE contracts SET status=$1,
	          start_date=$2, end_date=$3, actual_start_date=$4, actual_end_date=$5, rental_days=$6, extra_days=$7,
	          subtotal_cents=$8, discount_amount_cents=$9, discount_percent=$10, deposit_cents=$11,
	          late_fee_cents=$12, damage_fee_cents=$13, additional_fees=$14,
	          total_cents=$15, total_paid_cents=$16, balance_cents=$17,
	          payment_status=$18, payment_method=$19, notes=$20, internal_notes=$21,
	          approved_by=$22, approved_on=$23, updated_on=$24
	          WHERE id=$25`
	_, err = tx.ExecContext(ctx, query,
		c.Status,
		c.Period.StartDate, c.Period.EndDate, c.Period.ActualStartDate, c.Period.ActualEndDate,
		c.Period.RentalDays, c.Period.ExtraDays,
		c.Financial.SubtotalCents, c.Financial.DiscountAmountCents, c.Financial.DiscountPercent, c.Financial.DepositCents,
		c.Financial.LateFeeCents, c.Financial.DamageFeeCents, fees,
		c.Financial.TotalCents, c.Financial.TotalPaidCents, c.Financial.BalanceCents,
		c.PaymentStatus, c.PaymentMethod, c.Notes, c.InternalNotes,
		c.ApprovedBy, c.ApprovedOn, c.UpdatedOn, c.ID,
	)
	if err != nil {
		return err
	}

	for i := range c.Items {
		it := &c.Items[i]
		_, err = tx.ExecContext(ctx,
			`UPDATE contract_items SET qty=$1, unit_price_cents=$2, subtotal_cents=$3,
			 pickup_condition=$4, pickup_notes=$5, return_condition=$6, return_notes=$7, damage_cost_cents=$8
			 WHERE id=$9 AND contract_id=$10`,
			it.Qty, it.UnitPriceCents, it.SubtotalCents,
			it.PickupCondition, it.PickupNotes, it.ReturnCondition, it.ReturnNotes, it.DamageCostCents,
			it.ID, it.ContractID,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *contractRepository) List(ctx context.Context, f repository.ContractFilter) ([]domain.Contract, int32, error) {
	base := psql.Select(contractColumns).From("contracts")
	countBase := psql.Select("count(*)").From("contracts")

	if f.PersonID > 0 {
		base = base.Where(sq.Eq{"person_id": f.PersonID})
		countBase = countBase.Where(sq.Eq{"person_id": f.PersonID})
	}
	if f.Status != "" {
		base = base.Where(sq.Eq{"status": f.Status})
		countBase = countBase.Where(sq.Eq{"status": f.Status})
	}
	if f.Number != "" {
		base = base.Where(sq.ILike{"contract_number": "%" + f.Number + "%"})
		countBase = countBase.Where(sq.ILike{"contract_number": "%" + f.Number + "%"})
	}

	countQuery, countArgs, err := countBase.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&count); err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	query, args, err := base.OrderBy("created_on DESC").
		Limit(uint64(f.PageSize)).
		Offset(uint64((page - 1) * f.PageSize)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, 0, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, count, rows.Err()
}

func (r *contractRepository) CountByStatus(ctx context.Context) (map[domain.ContractStatus]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, count(*) FROM contracts GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ContractStatus]int32)
	for rows.Next() {
		var status domain.ContractStatus
		var n int32
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *contractRepository) MarkOverdue(ctx context.Context, now time.Time) ([]domain.Contract, error) {
	query := `UPDATE contracts SET status = $1, updated_on = NOW()
	          WHERE status = $2 AND end_date < $3
	          RETURNING ` + contractColumns
	rows, err := r.db.QueryContext(ctx, query, domain.ContractStatusOverdue, domain.ContractStatusActive, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, rows.Err()
}

func (r *contractRepository) ListOverdue(ctx context.Context) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE status = $1 ORDER BY end_date`
	rows, err := r.db.QueryContext(ctx, query, domain.ContractStatusOverdue)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *c)
	}
	return contracts, rows.Err()
}

// AddPayment records a payment and refreshes the contract's paid/balance
// columns in the same transaction, keeping balance = total - total paid.
func (r *contractRepository) AddPayment(ctx context.Context, p *domain.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	p.CreatedOn = time.Now()
	err = tx.QueryRowContext(ctx,
		`INSERT INTO payments (contract_id, amount_cents, method, reference, paid_on, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.ContractID, p.AmountCents, p.Method, p.Reference, p.PaidOn, p.CreatedOn,
	).Scan(&p.ID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE contracts SET
		   total_paid_cents = total_paid_cents + $2,
		   balance_cents = total_cents - (total_paid_cents + $2),
		   payment_status = CASE
		     WHEN total_paid_cents + $2 >= total_cents THEN 'paid'
		     ELSE 'partial'
		   END,
		   updated_on = NOW()
		 WHERE id = $1`,
		p.ContractID, p.AmountCents,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *contractRepository) ListPayments(ctx context.Context, contractID int32) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, contract_id, amount_cents, method, COALESCE(reference, ''), paid_on, created_on
		 FROM payments WHERE contract_id = $1 ORDER BY paid_on`, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.ContractID, &p.AmountCents, &p.Method, &p.Reference, &p.PaidOn, &p.CreatedOn); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *contractRepository) RevenueSince(ctx context.Context, since time.Time) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM payments WHERE paid_on >= $1`, since).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}
