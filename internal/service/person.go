package service

import (
	"context"
	"errors"
	"strings"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/repository"
)

var ErrDocumentRequired = errors.New("document is required")

type personService struct {
	repo repository.PersonRepository
}

func NewPersonService(repo repository.PersonRepository) PersonService {
	return &personService{repo: repo}
}

func (s *personService) Create(ctx context.Context, p *domain.Person) error {
	if err := validatePerson(p); err != nil {
		return err
	}
	p.Active = true
	return s.repo.Create(ctx, p)
}

func (s *personService) Get(ctx context.Context, id int32) (*domain.Person, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *personService) Update(ctx context.Context, p *domain.Person) error {
	if err := validatePerson(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *personService) Delete(ctx context.Context, id int32) error {
	return s.repo.Delete(ctx, id)
}

func (s *personService) List(ctx context.Context, search string, page, pageSize int32) ([]domain.Person, int32, error) {
	return s.repo.List(ctx, search, page, pageSize)
}

func validatePerson(p *domain.Person) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(p.Document) == "" {
		return ErrDocumentRequired
	}
	return nil
}
