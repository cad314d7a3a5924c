package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/idempotency"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/sweetshop-api/internal/interfaces/http"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
	"github.com/jhoicas/sweetshop-api/pkg/metrics"
	pkgjwt "github.com/jhoicas/sweetshop-api/pkg/jwt"
)

type testEnv struct {
	app        *fiber.App
	adminToken string
	metrics    *metrics.Metrics
}

// newTestEnv arma la API completa sobre el driver en memoria, con un admin ya creado.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.Nop()
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	sweetRepo := memory.NewSweetRepository(store)
	purchaseRepo := memory.NewPurchaseRepository(store)
	m := metrics.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := &entity.User{
		ID: uuid.New().String(), Email: "admin@sweetshop.com", PasswordHash: string(hash),
		Name: "Admin", Role: entity.RoleAdmin, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, userRepo.Create(context.Background(), admin))
	adminToken, err := pkgjwt.Generate(testJWTSecret, admin.ID, admin.Role, testIssuer, testExpMin)
	require.NoError(t, err)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log).
		WithBcryptCost(bcrypt.MinCost)
	inventoryUC := inventory.NewUseCase(memory.NewTxRunner(store), sweetRepo, purchaseRepo, userRepo, log,
		inventory.WithIdempotency(idempotency.NewMemoryStore(), time.Hour),
		inventory.WithObserver(m),
		inventory.WithReceipts(pdf.NewReceiptGenerator("Sweet Shop")),
	)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(apphttp.RequestLogger(log, m))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(userRepo),
		SweetUC:     usecase.NewSweetUseCase(sweetRepo, log),
		InventoryUC: inventoryUC,
		JWTSecret:   testJWTSecret,
		Log:         log,
	})
	return &testEnv{app: app, adminToken: "Bearer " + adminToken, metrics: m}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (e *testEnv) register(t *testing.T, email string) dto.AuthResponse {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "secret1", "name": "Cliente",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.AuthResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func (e *testEnv) createSweet(t *testing.T, name string, price, qty int) dto.SweetResponse {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/api/sweets", e.adminToken, map[string]any{
		"name": name, "category": "Chocolate", "price": price, "quantity": qty,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.SweetResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Code
}

func TestAuth_RegistroYLogin(t *testing.T) {
	env := newTestEnv(t)
	out := env.register(t, "Ana@Example.com")
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "ana@example.com", out.User.Email)
	assert.Equal(t, entity.RoleUser, out.User.Role)

	resp, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ana@example.com", "password": "secret1", "name": "Otra",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", errorCode(t, body))

	resp, body = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ana@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// Password incorrecto y email desconocido responden igual.
	resp, wrongPass := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ana@example.com", "password": "nope!!"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, unknown := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "x@example.com", "password": "nope!!"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, string(wrongPass), string(unknown))

	resp, body = env.do(t, http.MethodGet, "/api/auth/me", "Bearer "+out.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, out.User.ID, me.ID)

	resp, body = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"email": "b@example.com", "password": "123", "name": "B"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "WEAK_PASSWORD", errorCode(t, body))
}

func TestSweets_RequierenToken(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.do(t, http.MethodGet, "/api/sweets", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSweets_EscriturasSoloAdmin(t *testing.T) {
	env := newTestEnv(t)
	user := "Bearer " + env.register(t, "u@example.com").Token

	resp, body := env.do(t, http.MethodPost, "/api/sweets", user, map[string]any{"name": "X", "category": "Y", "price": 1, "quantity": 1})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	sweet := env.createSweet(t, "Bombón", 2, 5)
	resp, _ = env.do(t, http.MethodPost, "/api/sweets/"+sweet.ID+"/restock", user, map[string]int{"quantity": 5})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/api/sweets/"+sweet.ID, user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSweets_CRUD(t *testing.T) {
	env := newTestEnv(t)
	sweet := env.createSweet(t, "Trufa", 8, 10)

	resp, body := env.do(t, http.MethodPost, "/api/sweets", env.adminToken, map[string]any{"name": "trufa", "category": "Chocolate", "price": 1, "quantity": 1})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errorCode(t, body))

	resp, body = env.do(t, http.MethodPost, "/api/sweets", env.adminToken, map[string]any{"name": "Neg", "category": "C", "price": -1, "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_PRICE", errorCode(t, body))

	resp, body = env.do(t, http.MethodPut, "/api/sweets/"+sweet.ID, env.adminToken, map[string]any{"price": "9.50"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated dto.SweetResponse
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.True(t, decimal.RequireFromString("9.50").Equal(updated.Price))
	assert.Equal(t, 10, updated.Quantity, "quantity no enviada no cambia")

	resp, body = env.do(t, http.MethodGet, "/api/sweets/not-a-uuid", env.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", errorCode(t, body))

	resp, body = env.do(t, http.MethodGet, "/api/sweets/"+uuid.NewString(), env.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "SWEET_NOT_FOUND", errorCode(t, body))

	resp, body = env.do(t, http.MethodDelete, "/api/sweets/"+sweet.ID, env.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted dto.DeleteSweetResponse
	require.NoError(t, json.Unmarshal(body, &deleted))
	assert.Equal(t, sweet.ID, deleted.Sweet.ID)
	assert.NotEmpty(t, deleted.Message)

	resp, _ = env.do(t, http.MethodDelete, "/api/sweets/"+sweet.ID, env.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSweets_Search(t *testing.T) {
	env := newTestEnv(t)
	env.createSweet(t, "Chocolate Bar", 2, 10)
	env.createSweet(t, "Dark Chocolate", 8, 10)
	env.createSweet(t, "Lollipop", 1, 10)

	var list []dto.SweetResponse
	resp, body := env.do(t, http.MethodGet, "/api/sweets/search?name=CHOCO&maxPrice=5", env.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Chocolate Bar", list[0].Name)

	resp, body = env.do(t, http.MethodGet, "/api/sweets/search", env.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 3)
	assert.Equal(t, "Lollipop", list[0].Name, "más reciente primero")

	resp, body = env.do(t, http.MethodGet, "/api/sweets/search?minPrice=abc", env.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_PRICE", errorCode(t, body))

	resp, body = env.do(t, http.MethodGet, "/api/sweets/search?minPrice=10&maxPrice=1", env.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_PRICE_RANGE", errorCode(t, body))
}

func TestInventory_CompraYReabastecimiento(t *testing.T) {
	env := newTestEnv(t)
	user := "Bearer " + env.register(t, "buyer@example.com").Token
	sweet := env.createSweet(t, "Gomitas", 50, 100)
	base := "/api/sweets/" + sweet.ID

	resp, body := env.do(t, http.MethodPost, base+"/purchase", user, map[string]int{"quantity": 10})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var result dto.PurchaseResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 90, result.Sweet.Quantity)
	assert.True(t, decimal.NewFromInt(500).Equal(result.Purchase.TotalPrice))
	assert.Equal(t, 10, result.Purchase.Quantity)

	resp, body = env.do(t, http.MethodPost, base+"/purchase", user, map[string]int{"quantity": 95})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, body))

	resp, body = env.do(t, http.MethodPost, base+"/purchase", user, map[string]int{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUANTITY", errorCode(t, body))

	resp, body = env.do(t, http.MethodPost, "/api/sweets/"+uuid.NewString()+"/purchase", user, map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "SWEET_NOT_FOUND", errorCode(t, body))

	resp, body = env.do(t, http.MethodGet, base, user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var current dto.SweetResponse
	require.NoError(t, json.Unmarshal(body, &current))
	assert.Equal(t, 90, current.Quantity)

	resp, body = env.do(t, http.MethodPost, base+"/restock", env.adminToken, map[string]int{"quantity": 500})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &current))
	assert.Equal(t, 590, current.Quantity)

	resp, _ = env.do(t, http.MethodPost, base+"/restock", env.adminToken, map[string]int{"quantity": -5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, base+"/restock", env.adminToken, map[string]int{"quantity": math.MaxInt})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_QUANTITY", errorCode(t, body))

	resp, body = env.do(t, http.MethodGet, base, user, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &current))
	assert.Equal(t, 590, current.Quantity, "un reabastecimiento rechazado no altera el stock")
}

func TestInventory_IdempotencyKey(t *testing.T) {
	env := newTestEnv(t)
	user := "Bearer " + env.register(t, "idem@example.com").Token
	sweet := env.createSweet(t, "Caramelo", 1, 10)
	path := "/api/sweets/" + sweet.ID + "/purchase"

	resp, _ := env.do(t, http.MethodPost, path, user, map[string]int{"quantity": 2}, apphttp.HeaderIdempotencyKey, "k-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, path, user, map[string]int{"quantity": 2}, apphttp.HeaderIdempotencyKey, "k-1")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_REQUEST", errorCode(t, body))

	// Una compra fallida libera la clave.
	resp, _ = env.do(t, http.MethodPost, path, user, map[string]int{"quantity": 100}, apphttp.HeaderIdempotencyKey, "k-2")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, path, user, map[string]int{"quantity": 1}, apphttp.HeaderIdempotencyKey, "k-2")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestInventory_HistorialYComprobante(t *testing.T) {
	env := newTestEnv(t)
	buyer := "Bearer " + env.register(t, "h@example.com").Token
	other := "Bearer " + env.register(t, "o@example.com").Token
	sweet := env.createSweet(t, "Turrón", 3, 20)

	resp, body := env.do(t, http.MethodPost, "/api/sweets/"+sweet.ID+"/purchase", buyer, map[string]int{"quantity": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var result dto.PurchaseResult
	require.NoError(t, json.Unmarshal(body, &result))

	resp, body = env.do(t, http.MethodGet, "/api/sweets/purchases", buyer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var history []dto.PurchaseHistoryItem
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 1)
	require.NotNil(t, history[0].Sweet)
	assert.Equal(t, "Turrón", history[0].Sweet.Name)

	resp, body = env.do(t, http.MethodGet, "/api/sweets/purchases", other, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))

	receiptPath := "/api/sweets/purchases/" + result.Purchase.ID + "/receipt"
	resp, body = env.do(t, http.MethodGet, receiptPath, buyer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, body = env.do(t, http.MethodGet, receiptPath, other, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "PURCHASE_NOT_FOUND", errorCode(t, body))

	// El historial sobrevive al borrado del dulce.
	resp, _ = env.do(t, http.MethodDelete, "/api/sweets/"+sweet.ID, env.adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = env.do(t, http.MethodGet, "/api/sweets/purchases", buyer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 1)
	assert.Nil(t, history[0].Sweet)
	assert.Equal(t, sweet.ID, history[0].SweetID)
}

func TestRouter_RutaInexistente(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}
