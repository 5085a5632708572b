package postgres

import (
	"database/sql"

	"locnos-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.CategoryRepository
	repository.PersonRepository
	repository.EquipmentRepository
	repository.ContractRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                  db,
		UserRepository:      NewUserRepository(db),
		CategoryRepository:  NewCategoryRepository(db),
		PersonRepository:    NewPersonRepository(db),
		EquipmentRepository: NewEquipmentRepository(db),
		ContractRepository:  NewContractRepository(db),
	}
}
