package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
)

type personRepository struct {
	db *sql.DB
}

func NewPersonRepository(db *sql.DB) repository.PersonRepository {
	return &personRepository{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const personColumns = `id, name, document, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(street, ''), COALESCE(number, ''), COALESCE(neighborhood, ''), COALESCE(city, ''), COALESCE(state, ''), COALESCE(zip_code, ''), COALESCE(notes, ''), active, created_on, updated_on`

func (r *personRepository) Create(ctx context.Context, p *domain.Person) error {
	query := `INSERT INTO persons (name, document, email, phone, street, number, neighborhood, city, state, zip_code, notes, active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13) RETURNING id`
	now := time.Now()
	p.CreatedOn = now
	p.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query, p.Name, p.Document, p.Email, p.Phone, p.Street, p.Number, p.Neighborhood, p.City, p.State, p.ZipCode, p.Notes, p.Active, now).Scan(&p.ID)
}

func (r *personRepository) GetByID(ctx context.Context, id int32) (*domain.Person, error) {
	p := &domain.Person{}
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Document, &p.Email, &p.Phone, &p.Street, &p.Number, &p.Neighborhood, &p.City, &p.State, &p.ZipCode, &p.Notes, &p.Active, &p.CreatedOn, &p.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *personRepository) Update(ctx context.Context, p *domain.Person) error {
	query := `UPDATE persons SET name=$1, document=$2, email=$3, phone=$4, street=$5, number=$6, neighborhood=$7, city=$8, state=$9, zip_code=$10, notes=$11, active=$12, updated_on=$13 WHERE id=$14`
	p.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query, p.Name, p.Document, p.Email, p.Phone, p.Street, p.Number, p.Neighborhood, p.City, p.State, p.ZipCode, p.Notes, p.Active, p.UpdatedOn, p.ID)
	return err
}

func (r *personRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `UPDATE persons SET active = false, updated_on = $1 WHERE id = $2`, time.Now(), id)
	return err
}

func (r *personRepository) List(ctx context.Context, search string, page, pageSize int32) ([]domain.Person, int32, error) {
	base := psql.Select(personColumns).From("persons")
	countBase := psql.Select("count(*)").From("persons")
	if search != "" {
		like := sq.Or{
			sq.ILike{"name": "%" + search + "%"},
			sq.ILike{"document": "%" + search + "%"},
			sq.ILike{"email": "%" + search + "%"},
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

	if page < 1 {
		page = 1
	}
	query, args, err := base.OrderBy("name").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var persons []domain.Person
	for rows.Next() {
		var p domain.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Document, &p.Email, &p.Phone, &p.Street, &p.Number, &p.Neighborhood, &p.City, &p.State, &p.ZipCode, &p.Notes, &p.Active, &p.CreatedOn, &p.UpdatedOn); err != nil {
			return nil, 0, err
		}
		persons = append(persons, p)
	}
	return persons, count, rows.Err()
}
