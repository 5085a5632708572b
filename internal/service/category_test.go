package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"locnos-backend/internal/domain"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Betoneiras":          "betoneiras",
		"Andaimes e Escoras":  "andaimes-e-escoras",
		"Compactação":         "compactacao",
		"  Martelo Elétrico ": "martelo-eletrico",
		"A--B":                "a-b",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

type MockCategoryRepo struct{ mock.Mock }

func (m *MockCategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCategoryRepo) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}
func (m *MockCategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockCategoryRepo) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Fills slug from name", func(t *testing.T) {
		repo := new(MockCategoryRepo)
		svc := NewCategoryService(repo)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Category")).Return(nil)

		c := &domain.Category{Name: "Andaimes e Escoras"}
		assert.NoError(t, svc.Create(ctx, c))
		assert.Equal(t, "andaimes-e-escoras", c.Slug)
	})

	t.Run("Name required", func(t *testing.T) {
		svc := NewCategoryService(new(MockCategoryRepo))
		err := svc.Create(ctx, &domain.Category{Name: "   "})
		assert.ErrorIs(t, err, ErrNameRequired)
	})
}
