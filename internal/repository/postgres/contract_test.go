package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/rental"
)

func contractRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "contract_number", "person_id", "status",
		"start_date", "end_date", "actual_start_date", "actual_end_date", "rental_days", "extra_days",
		"subtotal_cents", "discount_amount_cents", "discount_percent", "deposit_cents",
		"late_fee_cents", "damage_fee_cents", "additional_fees",
		"total_cents", "total_paid_cents", "balance_cents",
		"payment_status", "payment_method", "notes", "internal_notes",
		"created_by", "approved_by", "approved_on", "created_on", "updated_on",
	})
}

func addContractRow(rows *sqlmock.Rows, id int32, number string, status domain.ContractStatus) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, number, 3, status,
		now, now.Add(72*time.Hour), nil, nil, 3, 0,
		24000, 0, 0, 0,
		0, 0, []byte("[]"),
		24000, 0, 24000,
		"pending", "", "", "",
		1, nil, nil, now, now,
	)
}

func newContract() *domain.Contract {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return &domain.Contract{
		PersonID: 3,
		Status:   domain.ContractStatusPending,
		Period:   domain.RentalPeriod{StartDate: start, EndDate: start.AddDate(0, 0, 3), RentalDays: 3},
		Items: []domain.ContractItem{
			{EquipmentID: 7, Qty: 1, UnitPriceCents: 24000, SubtotalCents: 24000, PickupCondition: domain.ItemConditionGood},
		},
		Financial:     domain.Financial{SubtotalCents: 24000, TotalCents: 24000, BalanceCents: 24000},
		PaymentStatus: domain.PaymentStatusPending,
		CreatedBy:     1,
	}
}

func TestContractRepository_Create(t *testing.T) {
	ctx := context.Background()
	ym := rental.YearMonth(time.Now())

	t.Run("Numbers the contract from the month's high-water mark", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		repo := NewContractRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT contract_number FROM contracts WHERE contract_number LIKE (.+) FOR UPDATE").
			WithArgs(ym + "%").
			WillReturnRows(sqlmock.NewRows([]string{"contract_number"}).AddRow(ym + "0004"))
		mock.ExpectQuery("INSERT INTO contracts").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
		mock.ExpectQuery("INSERT INTO contract_items").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
		mock.ExpectCommit()

		c := newContract()
		assert.NoError(t, repo.Create(ctx, c))
		assert.Equal(t, ym+"0005", c.Number)
		assert.Equal(t, int32(42), c.ID)
		assert.Equal(t, int32(42), c.Items[0].ContractID)
		assert.Equal(t, int32(101), c.Items[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("First contract of the month", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		repo := NewContractRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT contract_number FROM contracts WHERE contract_number LIKE (.+) FOR UPDATE").
			WithArgs(ym + "%").
			WillReturnRows(sqlmock.NewRows([]string{"contract_number"}))
		mock.ExpectQuery("INSERT INTO contracts").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery("INSERT INTO contract_items").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		c := newContract()
		assert.NoError(t, repo.Create(ctx, c))
		assert.Equal(t, ym+"0001", c.Number)
	})

	t.Run("Unique violation maps to duplicate number", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		repo := NewContractRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT contract_number FROM contracts WHERE contract_number LIKE (.+) FOR UPDATE").
			WithArgs(ym + "%").
			WillReturnRows(sqlmock.NewRows([]string{"contract_number"}))
		mock.ExpectQuery("INSERT INTO contracts").
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		c := newContract()
		assert.ErrorIs(t, repo.Create(ctx, c), domain.ErrDuplicateContractNumber)
	})
}

func TestContractRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()
	repo := NewContractRepository(db)
	ctx := context.Background()

	t.Run("Loads the contract with its items", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM contracts WHERE id = \\$1").
			WithArgs(int32(42)).
			WillReturnRows(addContractRow(contractRows(), 42, "2026030005", domain.ContractStatusPending))
		mock.ExpectQuery("SELECT (.+) FROM contract_items WHERE contract_id = \\$1").
			WithArgs(int32(42)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "contract_id", "equipment_id", "qty", "unit_price_cents", "subtotal_cents",
				"pickup_condition", "pickup_notes", "return_condition", "return_notes", "damage_cost_cents",
			}).AddRow(101, 42, 7, 1, 24000, 24000, "good", "", "", "", 0))

		c, err := repo.GetByID(ctx, 42)
		assert.NoError(t, err)
		assert.Equal(t, "2026030005", c.Number)
		assert.Len(t, c.Items, 1)
		assert.Equal(t, int32(7), c.Items[0].EquipmentID)
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM contracts WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(contractRows())

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestContractRepository_MarkOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()
	repo := NewContractRepository(db)

	rows := addContractRow(contractRows(), 42, "2026030005", domain.ContractStatusOverdue)
	rows = addContractRow(rows, 43, "2026030006", domain.ContractStatusOverdue)
	mock.ExpectQuery("UPDATE contracts SET status = \\$1").
		WillReturnRows(rows)

	marked, err := repo.MarkOverdue(context.Background(), time.Now())
	assert.NoError(t, err)
	assert.Len(t, marked, 2)
	assert.Equal(t, domain.ContractStatusOverdue, marked[0].Status)
}

func TestContractRepository_AddPayment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()
	repo := NewContractRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO payments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectExec("UPDATE contracts SET").
		WithArgs(int32(42), int64(10000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := &domain.Payment{ContractID: 42, AmountCents: 10000, Method: "pix", PaidOn: time.Now()}
	assert.NoError(t, repo.AddPayment(context.Background(), p))
	assert.Equal(t, int32(9), p.ID)
}
