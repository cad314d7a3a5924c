// Package seed carga el catálogo de ejemplo y la cuenta administradora. Es idempotente:
// los dulces y el admin ya existentes se conservan.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// Admin credenciales de la cuenta administradora a crear.
type Admin struct {
	Email    string
	Password string
	Name     string
}

// Result resumen de una ejecución.
type Result struct {
	SweetsCreated int
	SweetsSkipped int
	AdminCreated  bool
}

// SampleSweets catálogo de ejemplo.
func SampleSweets() []entity.Sweet {
	mk := func(name, category string, price int64, qty int, desc, img string) entity.Sweet {
		return entity.Sweet{Name: name, Category: category, Price: decimal.NewFromInt(price), Quantity: qty, Description: desc, ImageURL: img}
	}
	return []entity.Sweet{
		mk("Chocolate Truffle", "Chocolate", 299, 25, "Rich dark chocolate truffle with cocoa powder coating", "https://images.unsplash.com/photo-1548907040-4baa42d10919?w=400"),
		mk("Strawberry Gummy Bears", "Gummy", 149, 50, "Soft and chewy strawberry-flavored gummy bears", "https://images.unsplash.com/photo-1582058091505-f87a2e55a40f?w=400"),
		mk("Vanilla Fudge", "Fudge", 349, 15, "Creamy vanilla fudge made with real vanilla beans", "https://images.unsplash.com/photo-1568065850562-a0d9940bdcba?w=400"),
		mk("Lemon Drops", "Hard Candy", 99, 100, "Tangy lemon-flavored hard candies", "https://images.unsplash.com/photo-1499636136210-6f4ee915583e?w=400"),
		mk("Mint Chocolate Chip", "Chocolate", 249, 20, "Refreshing mint chocolate with crunchy chips", "https://images.unsplash.com/photo-1481391243133-f96216dcb5d2?w=400"),
		mk("Caramel Toffee", "Toffee", 299, 30, "Buttery caramel toffee with a hint of sea salt", "https://images.unsplash.com/photo-1582716401301-b2407dc7563d?w=400"),
		mk("Rainbow Lollipops", "Lollipop", 199, 40, "Colorful swirl lollipops in assorted fruit flavors", "https://images.unsplash.com/photo-1514517521153-1be72277b32f?w=400"),
		mk("Peanut Butter Cups", "Chocolate", 399, 18, "Smooth peanut butter wrapped in milk chocolate", "https://images.unsplash.com/photo-1572899247272-5c86f9b2e4b6?w=400"),
	}
}

// Run inserta los dulces de ejemplo y, si admin.Email no está vacío, la cuenta administradora.
func Run(ctx context.Context, sweets repository.SweetRepository, users repository.UserRepository, admin Admin, log *logger.Logger) (Result, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("seed")
	var res Result
	now := time.Now().UTC()

	for i, s := range SampleSweets() {
		s := s
		s.ID = uuid.New().String()
		// Fechas escalonadas: el orden "más recientes primero" sigue el del catálogo.
		s.CreatedAt = now.Add(-time.Duration(i) * time.Second)
		s.UpdatedAt = s.CreatedAt
		err := sweets.Create(ctx, &s)
		switch {
		case err == nil:
			res.SweetsCreated++
		case errors.Is(err, domain.ErrDuplicateSweet):
			res.SweetsSkipped++
		default:
			return res, err
		}
	}
	log.Info().Int("created", res.SweetsCreated).Int("skipped", res.SweetsSkipped).Msg("catálogo de ejemplo cargado")

	if strings.TrimSpace(admin.Email) == "" {
		return res, nil
	}
	created, err := ensureAdmin(ctx, users, admin, now)
	if err != nil {
		return res, err
	}
	res.AdminCreated = created
	return res, nil
}

func ensureAdmin(ctx context.Context, users repository.UserRepository, admin Admin, now time.Time) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if len(admin.Password) < 6 {
		return false, domain.Validation("WEAK_PASSWORD", "el password del administrador debe tener al menos 6 caracteres")
	}
	if len(admin.Password) > 72 {
		return false, domain.Validation("INVALID_PASSWORD", "el password del administrador no puede superar 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	name := admin.Name
	if name == "" {
		name = "Administrador"
	}
	u := &entity.User{
		ID: uuid.New().String(), Email: email, PasswordHash: string(hash), Name: name,
		Role: entity.RoleAdmin, CreatedAt: now, UpdatedAt: now,
	}
	if err := users.Create(ctx, u); err != nil {
		return false, err
	}
	return true, nil
}
