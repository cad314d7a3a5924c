package usecase_test

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
)

func ptr[T any](v T) *T { return &v }

func newSweetUC() *usecase.SweetUseCase {
	return usecase.NewSweetUseCase(memory.NewSweetRepository(memory.NewStore()), nil)
}

func create(t *testing.T, uc *usecase.SweetUseCase, name, category string, price string, qty int) *dto.SweetResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), dto.CreateSweetRequest{
		Name: name, Category: category, Price: ptr(decimal.RequireFromString(price)), Quantity: ptr(qty),
	})
	require.NoError(t, err)
	return out
}

func TestSweetUseCase_Create(t *testing.T) {
	uc := newSweetUC()
	ctx := context.Background()

	out := create(t, uc, "  Gummy Bears ", "Gummies", "2.50", 100)
	assert.Equal(t, "Gummy Bears", out.Name)
	assert.NotEmpty(t, out.ID)

	_, err := uc.Create(ctx, dto.CreateSweetRequest{Name: "Sin precio", Category: "X", Quantity: ptr(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateSweetRequest{Name: "Neg", Category: "X", Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(-1)})
	assert.ErrorIs(t, err, domain.New(domain.KindValidation, "INVALID_QUANTITY", ""))

	_, err = uc.Create(ctx, dto.CreateSweetRequest{Name: "gummy bears", Category: "X", Price: ptr(decimal.NewFromInt(1)), Quantity: ptr(1)})
	assert.ErrorIs(t, err, domain.ErrDuplicateSweet)
}

func TestSweetUseCase_UpdateParcial(t *testing.T) {
	uc := newSweetUC()
	ctx := context.Background()
	s := create(t, uc, "Toffee", "Caramel", "4", 10)

	out, err := uc.Update(ctx, s.ID, dto.UpdateSweetRequest{Category: ptr("Caramelo")})
	require.NoError(t, err)
	assert.Equal(t, "Caramelo", out.Category)
	assert.Equal(t, 10, out.Quantity)
	assert.True(t, decimal.NewFromInt(4).Equal(out.Price))

	_, err = uc.Update(ctx, s.ID, dto.UpdateSweetRequest{Name: ptr("   ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, s.ID, dto.UpdateSweetRequest{Price: ptr(decimal.NewFromInt(-3))})
	assert.ErrorIs(t, err, domain.New(domain.KindValidation, "INVALID_PRICE", ""))

	unchanged, err := uc.Update(ctx, s.ID, dto.UpdateSweetRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Caramelo", unchanged.Category)

	other := create(t, uc, "Fudge", "Chocolate", "3", 1)
	_, err = uc.Update(ctx, other.ID, dto.UpdateSweetRequest{Name: ptr("toffee")})
	assert.ErrorIs(t, err, domain.ErrDuplicateSweet)

	_, err = uc.Update(ctx, "00000000-0000-4000-8000-000000000000", dto.UpdateSweetRequest{Name: ptr("Nuevo")})
	assert.ErrorIs(t, err, domain.ErrSweetNotFound)
}

func TestSweetUseCase_LimitesDeColumna(t *testing.T) {
	uc := newSweetUC()
	ctx := context.Background()
	price := func(v string) *decimal.Decimal {
		d := decimal.RequireFromString(v)
		return &d
	}
	invalidPrice := domain.New(domain.KindValidation, "INVALID_PRICE", "")

	_, err := uc.Create(ctx, dto.CreateSweetRequest{Name: "Tres decimales", Category: "X", Price: price("1.999"), Quantity: ptr(1)})
	assert.ErrorIs(t, err, invalidPrice)

	_, err = uc.Create(ctx, dto.CreateSweetRequest{Name: "Carísimo", Category: "X", Price: price("10000000000"), Quantity: ptr(1)})
	assert.ErrorIs(t, err, invalidPrice)

	_, err = uc.Create(ctx, dto.CreateSweetRequest{Name: "Demasiados", Category: "X", Price: price("1"), Quantity: ptr(math.MaxInt32 + 1)})
	assert.ErrorIs(t, err, domain.ErrQuantityTooLarge)

	ok, err := uc.Create(ctx, dto.CreateSweetRequest{Name: "En el tope", Category: "X", Price: price("9999999999.99"), Quantity: ptr(math.MaxInt32)})
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32, ok.Quantity)

	trailing, err := uc.Create(ctx, dto.CreateSweetRequest{Name: "Ceros", Category: "X", Price: price("2.500"), Quantity: ptr(1)})
	require.NoError(t, err, "ceros a la derecha no cuentan como decimales")
	assert.True(t, decimal.RequireFromString("2.5").Equal(trailing.Price))

	_, err = uc.Update(ctx, ok.ID, dto.UpdateSweetRequest{Price: price("0.001")})
	assert.ErrorIs(t, err, invalidPrice)
	_, err = uc.Update(ctx, ok.ID, dto.UpdateSweetRequest{Quantity: ptr(math.MaxInt)})
	assert.ErrorIs(t, err, domain.ErrQuantityTooLarge)
}

func TestSweetUseCase_GetByIDYDelete(t *testing.T) {
	uc := newSweetUC()
	ctx := context.Background()
	s := create(t, uc, "Mint", "Hard Candy", "1", 5)

	_, err := uc.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	got, err := uc.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mint", got.Name)

	deleted, err := uc.Delete(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, deleted.ID)

	_, err = uc.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSweetNotFound)
	_, err = uc.Delete(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrSweetNotFound)
}

func TestSweetUseCase_Search(t *testing.T) {
	uc := newSweetUC()
	ctx := context.Background()
	create(t, uc, "Milk Chocolate", "Chocolate", "2", 10)
	create(t, uc, "Dark Chocolate", "Chocolate", "5", 10)
	create(t, uc, "Sour Gummies", "Gummies", "3", 10)

	all, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := uc.Search(ctx, dto.SearchSweetsQuery{Category: "choco", MinPrice: "2", MaxPrice: "5"})
	require.NoError(t, err)
	assert.Len(t, got, 2, "rango de precio inclusive en ambos extremos")

	got, err = uc.Search(ctx, dto.SearchSweetsQuery{Name: "GUMM"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Sour Gummies", got[0].Name)

	got, err = uc.Search(ctx, dto.SearchSweetsQuery{Name: "%"})
	require.NoError(t, err)
	assert.Empty(t, got, "los comodines se comparan de forma literal")

	_, err = uc.Search(ctx, dto.SearchSweetsQuery{MaxPrice: "barato"})
	assert.ErrorIs(t, err, domain.New(domain.KindValidation, "INVALID_PRICE", ""))
}

func TestParseFilter(t *testing.T) {
	f, err := usecase.ParseFilter(dto.SearchSweetsQuery{Name: "  ", MinPrice: " 1.5 "})
	require.NoError(t, err)
	assert.Nil(t, f.Name)
	require.NotNil(t, f.MinPrice)
	assert.True(t, decimal.RequireFromString("1.5").Equal(*f.MinPrice))

	_, err = usecase.ParseFilter(dto.SearchSweetsQuery{MinPrice: "5", MaxPrice: "1"})
	assert.ErrorIs(t, err, domain.New(domain.KindValidation, "INVALID_PRICE_RANGE", ""))
}

func TestUserUseCase_GetByID(t *testing.T) {
	uc := usecase.NewUserUseCase(memory.NewUserRepository(memory.NewStore()))
	_, err := uc.GetByID(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.GetByID(context.Background(), "00000000-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
