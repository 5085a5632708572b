package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

type equipmentRepository struct {
	db *sql.DB
}

func NewEquipmentRepository(db *sql.DB) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

const equipmentColumns = `id, internal_code, name, COALESCE(description, ''), COALESCE(category_id, 0), COALESCE(serial_number, ''),
	daily_rate_cents, COALESCE(weekly_rate_cents, 0), COALESCE(monthly_rate_cents, 0), COALESCE(hourly_rate_cents, 0),
	minimum_period, minimum_period_unit, COALESCE(deposit_cents, 0), COALESCE(replacement_cents, 0),
	qty_total, qty_available, qty_rented, qty_reserved, qty_maintenance,
	status, COALESCE(image_url, ''), tags, visible, COALESCE(notes, ''), COALESCE(created_by, 0), created_on, updated_on, deleted_on`

func scanEquipment(row interface{ Scan(...any) error }) (*domain.Equipment, error) {
	e := &domain.Equipment{}
	err := row.Scan(
		&e.ID, &e.InternalCode, &e.Name, &e.Description, &e.CategoryID, &e.SerialNumber,
		&e.Pricing.DailyRateCents, &e.Pricing.WeeklyRateCents, &e.Pricing.MonthlyRateCents, &e.Pricing.HourlyRateCents,
		&e.Pricing.MinimumPeriod, &e.Pricing.MinimumPeriodUnit, &e.Pricing.DepositCents, &e.Pricing.ReplacementCents,
		&e.Quantity.Total, &e.Quantity.Available, &e.Quantity.Rented, &e.Quantity.Reserved, &e.Quantity.Maintenance,
		&e.Status, &e.ImageURL, pq.Array(&e.Tags), &e.Visible, &e.Notes, &e.CreatedBy, &e.CreatedOn, &e.UpdatedOn, &e.DeletedOn,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *equipmentRepository) Create(ctx context.Context, e *domain.Equipment) error {
	query := `INSERT INTO equipment (internal_code, name, description, category_id, serial_number,
	          daily_rate_cents, weekly_rate_cents, monthly_rate_cents, hourly_rate_cents,
	          minimum_period, minimum_period_unit, deposit_cents, replacement_cents,
	          qty_total, qty_available, qty_rented, qty_reserved, qty_maintenance,
	          status, image_url, tags, visible, notes, created_by, created_on, updated_on)
	          VALUES ($1, $2, $3, NULLIF($4, 0), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, NULLIF($24, 0), $25, $25) RETURNING id`
	now := time.Now()
	e.CreatedOn = now
	e.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		e.InternalCode, e.Name, e.Description, e.CategoryID, e.SerialNumber,
		e.Pricing.DailyRateCents, e.Pricing.WeeklyRateCents, e.Pricing.MonthlyRateCents, e.Pricing.HourlyRateCents,
		e.Pricing.MinimumPeriod, e.Pricing.MinimumPeriodUnit, e.Pricing.DepositCents, e.Pricing.ReplacementCents,
		e.Quantity.Total, e.Quantity.Available, e.Quantity.Rented, e.Quantity.Reserved, e.Quantity.Maintenance,
		e.Status, e.ImageURL, pq.Array(e.Tags), e.Visible, e.Notes, e.CreatedBy, now,
	).Scan(&e.ID)
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int32) (*domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`
	return scanEquipment(r.db.QueryRowContext(ctx, query, id))
}

func (r *equipmentRepository) GetByInternalCode(ctx context.Context, code string) (*domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE internal_code = $1`
	return scanEquipment(r.db.QueryRowContext(ctx, query, code))
}

func (r *equipmentRepository) Update(ctx context.Context, e *domain.Equipment) error {
	query := `UPDATE equipment SET name=$1, description=$2, category_id=NULLIF($3, 0), serial_number=$4,
	          daily_rate_cents=$5, weekly_rate_cents=$6, monthly_rate_cents=$7, hourly_rate_cents=$8,
	          minimum_period=$9, minimum_period_unit=$10, deposit_cents=$11, replacement_cents=$12,
	          qty_total=$13, qty_available=$14, qty_rented=$15, qty_reserved=$16, qty_maintenance=$17,
	          status=$18, image_url=$19, tags=$20, visible=$21, notes=$22, updated_on=$23
	          WHERE id=$24`
	e.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		e.Name, e.Description, e.CategoryID, e.SerialNumber,
		e.Pricing.DailyRateCents, e.Pricing.WeeklyRateCents, e.Pricing.MonthlyRateCents, e.Pricing.HourlyRateCents,
		e.Pricing.MinimumPeriod, e.Pricing.MinimumPeriodUnit, e.Pricing.DepositCents, e.Pricing.ReplacementCents,
		e.Quantity.Total, e.Quantity.Available, e.Quantity.Rented, e.Quantity.Reserved, e.Quantity.Maintenance,
		e.Status, e.ImageURL, pq.Array(e.Tags), e.Visible, e.Notes, e.UpdatedOn, e.ID,
	)
	return err
}

// Delete soft-deletes a catalog entry, but never while units are out with a
// customer or committed to one.
func (r *equipmentRepository) Delete(ctx context.Context, id int32) error {
	query := `UPDATE equipment SET deleted_on = $1, status = $2
	          WHERE id = $3 AND status NOT IN ($4, $5)`
	res, err := r.db.ExecContext(ctx, query, time.Now(), domain.EquipmentStatusRetired,
		id, domain.EquipmentStatusRented, domain.EquipmentStatusReserved)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.New("equipment is rented or reserved and cannot be deleted")
	}
	return nil
}

func (r *equipmentRepository) List(ctx context.Context, f repository.EquipmentFilter) ([]domain.Equipment, int32, error) {
	base := psql.Select(equipmentColumns).From("equipment").Where(sq.Eq{"deleted_on": nil})
	countBase := psql.Select("count(*)").From("equipment").Where(sq.Eq{"deleted_on": nil})

	if f.CategoryID > 0 {
		base = base.Where(sq.Eq{"category_id": f.CategoryID})
		countBase = countBase.Where(sq.Eq{"category_id": f.CategoryID})
	}
	if f.Status != "" {
		base = base.Where(sq.Eq{"status": f.Status})
		countBase = countBase.Where(sq.Eq{"status": f.Status})
	}
	if f.Search != "" {
		like := sq.Or{
			sq.ILike{"name": "%" + f.Search + "%"},
			sq.ILike{"description": "%" + f.Search + "%"},
			sq.ILike{"internal_code": "%" + f.Search + "%"},
		}
		base = base.Where(like)
		countBase = countBase.Where(like)
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
	query, args, err := base.OrderBy("name").
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

	var items []domain.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *e)
	}
	return items, count, rows.Err()
}

func (r *equipmentRepository) CountByStatus(ctx context.Context) (map[domain.EquipmentStatus]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, count(*) FROM equipment WHERE deleted_on IS NULL GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.EquipmentStatus]int32)
	for rows.Next() {
		var status domain.EquipmentStatus
		var n int32
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// TryReserve is the atomic check-and-reserve: a single conditional update
// that only fires when enough units are available. The total column is left
// untouched because the statement moves units between buckets.
func (r *equipmentRepository) TryReserve(ctx context.Context, id, qty int32) error {
	query := `UPDATE equipment
	          SET qty_available = qty_available - $2,
	              qty_reserved = qty_reserved + $2,
	              updated_on = NOW()
	          WHERE id = $1 AND status = 'available' AND qty_available >= $2`
	return r.moveBuckets(ctx, query, id, qty, domain.ErrInsufficientStock)
}

func (r *equipmentRepository) ReleaseReservation(ctx context.Context, id, qty int32) error {
	query := `UPDATE equipment
	          SET qty_reserved = qty_reserved - $2,
	              qty_available = qty_available + $2,
	              updated_on = NOW()
	          WHERE id = $1 AND qty_reserved >= $2`
	return r.moveBuckets(ctx, query, id, qty, domain.ErrQuantityInvariant)
}

func (r *equipmentRepository) CommitRental(ctx context.Context, id, qty int32) error {
	query := `UPDATE equipment
	          SET qty_reserved = qty_reserved - $2,
	              qty_rented = qty_rented + $2,
	              updated_on = NOW()
	          WHERE id = $1 AND qty_reserved >= $2`
	return r.moveBuckets(ctx, query, id, qty, domain.ErrQuantityInvariant)
}

func (r *equipmentRepository) ReturnRental(ctx context.Context, id, qty int32) error {
	query := `UPDATE equipment
	          SET qty_rented = qty_rented - $2,
	              qty_available = qty_available + $2,
	              updated_on = NOW()
	          WHERE id = $1 AND qty_rented >= $2`
	return r.moveBuckets(ctx, query, id, qty, domain.ErrQuantityInvariant)
}

func (r *equipmentRepository) moveBuckets(ctx context.Context, query string, id, qty int32, onMiss error) error {
	res, err := r.db.ExecContext(ctx, query, id, qty)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return onMiss
	}
	return nil
}
