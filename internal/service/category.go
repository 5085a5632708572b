package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/repository"
)

var ErrNameRequired = errors.New("name is required")

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

var slugStrip = regexp.MustCompile(`[^a-z0-9\s-]`)
var slugSpaces = regexp.MustCompile(`[\s-]+`)

// Slugify derives the URL slug shown in the catalog from a category name.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "ã", "a", "â", "a",
		"é", "e", "ê", "e", "í", "i",
		"ó", "o", "õ", "o", "ô", "o",
		"ú", "u", "ü", "u", "ç", "c",
	)
	s = replacer.Replace(s)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func (s *categoryService) Create(ctx context.Context, c *domain.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return s.repo.Create(ctx, c)
}

func (s *categoryService) Get(ctx context.Context, id int32) (*domain.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) Update(ctx context.Context, c *domain.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return s.repo.Update(ctx, c)
}

func (s *categoryService) Delete(ctx context.Context, id int32) error {
	return s.repo.Delete(ctx, id)
}

func (s *categoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}
