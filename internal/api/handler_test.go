package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/msrikanth38/90s-jar/internal/models"
	"github.com/msrikanth38/90s-jar/internal/service"
	"github.com/msrikanth38/90s-jar/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryIdempotency struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (m *memoryIdempotency) Lookup(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memoryIdempotency) Remember(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		m.entries[key] = payload
	}
	return nil
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServer struct {
	router *gin.Engine
	store  *store.Store
	static string
}

func newTestServer(t *testing.T, checks map[string]Pinger) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(context.Background(), store.Options{File: filepath.Join(t.TempDir(), "jar.db")})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>90s Jar</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "app.js"), []byte("console.log('jar')"), 0o644))

	if checks == nil {
		checks = map[string]Pinger{"database": st}
	}

	svc := Services{
		Orders:    service.NewOrderService(st, &memoryIdempotency{entries: map[string][]byte{}}, nil),
		Catalog:   service.NewCatalogService(st),
		Customers: service.NewCustomerService(st),
		Finance:   service.NewFinanceService(st),
		Reports:   service.NewReportService(st),
		Settings:  service.NewSettingsService(st),
	}
	router := gin.New()
	NewHandler(svc, Options{
		StaticDir: staticDir,
		Backend:   st.Dialect().Name(),
		Checks:    checks,
	}).SetupRoutes(router)

	return &testServer{router: router, store: st, static: staticDir}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func stockOf(t *testing.T, s *testServer, id string) int {
	t.Helper()
	w := s.do(t, http.MethodGet, "/api/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.InventoryItem
	decodeBody(t, w, &items)
	for _, it := range items {
		if it.ID == id {
			return it.Stock
		}
	}
	t.Fatalf("inventory item %s not listed", id)
	return 0
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestReadinessCheck(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		s := newTestServer(t, nil)
		w := s.do(t, http.MethodGet, "/ready", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("dependency down", func(t *testing.T) {
		s := newTestServer(t, map[string]Pinger{
			"redis": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
		})
		w := s.do(t, http.MethodGet, "/ready", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/health", nil, "X-Request-ID", "req-42")
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	w = s.do(t, http.MethodGet, "/health", nil)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestInventoryEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.InventoryItem
	decodeBody(t, w, &items)
	assert.Len(t, items, 14)
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].Name, items[i].Name)
	}

	w = s.do(t, http.MethodPost, "/api/inventory", map[string]interface{}{
		"name":         "Lime Pickle",
		"category":     "pickles",
		"costPrice":    60,
		"sellingPrice": 100,
		"stock":        4,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	decodeBody(t, w, &res)
	assert.True(t, res.Success)
	assert.Len(t, res.ID, 12)
	assert.Equal(t, 4, stockOf(t, s, res.ID))

	w = s.do(t, http.MethodPut, "/api/inventory/"+res.ID+"/stock", map[string]int{"change": -6})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -2, stockOf(t, s, res.ID))

	w = s.do(t, http.MethodDelete, "/api/inventory/"+res.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	// deleting again is still a success
	w = s.do(t, http.MethodDelete, "/api/inventory/"+res.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{"inventory without stock", http.MethodPost, "/api/inventory", map[string]interface{}{"name": "x", "category": "c", "costPrice": 1, "sellingPrice": 2}},
		{"customer without name", http.MethodPost, "/api/customers", map[string]string{"phone": "123"}},
		{"order without customer", http.MethodPost, "/api/orders", map[string]interface{}{"items": []interface{}{}}},
		{"combo without price", http.MethodPost, "/api/combos", map[string]string{"name": "Trio"}},
		{"recipe without name", http.MethodPost, "/api/recipes", map[string]string{"category": "snacks"}},
		{"transaction with bad type", http.MethodPost, "/api/transactions", map[string]interface{}{"type": "gift", "amount": 5}},
		{"offer without name", http.MethodPost, "/api/offers", map[string]interface{}{"value": 10}},
		{"stock without change", http.MethodPut, "/api/inventory/pickle1/stock", map[string]string{}},
		{"status without status", http.MethodPut, "/api/orders/abc/status", map[string]string{}},
		{"malformed json", http.MethodPost, "/api/customers", "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Invalid request body")
		})
	}
}

func TestOrderWorkflow(t *testing.T) {
	s := newTestServer(t, nil)

	order := map[string]interface{}{
		"customerName":  "Asha",
		"customerPhone": "98480",
		"items": []map[string]interface{}{
			{"itemId": "pickle1", "name": "Mango Pickle", "price": 5, "quantity": 3, "total": 15},
			{"name": "Gift wrap", "price": 1, "quantity": 1, "total": 1, "isManual": true},
		},
		"subtotal": 16,
		"total":    16,
	}

	w := s.do(t, http.MethodPost, "/api/orders", order)
	require.Equal(t, http.StatusOK, w.Code)
	var placed service.PlaceOrderResult
	decodeBody(t, w, &placed)
	assert.True(t, placed.Success)
	assert.Regexp(t, `^ORD-\d{6}$`, placed.OrderNumber)
	assert.Equal(t, 17, stockOf(t, s, "pickle1"))

	w = s.do(t, http.MethodGet, "/api/customers", nil)
	var customers []models.Customer
	decodeBody(t, w, &customers)
	require.Len(t, customers, 1)
	assert.Equal(t, "Asha", customers[0].Name)
	assert.Equal(t, 1, customers[0].TotalOrders)
	assert.Equal(t, "16", customers[0].TotalSpent.String())

	w = s.do(t, http.MethodPut, "/api/orders/"+placed.ID+"/status", map[string]string{"status": "ready"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/orders", nil)
	var orders []models.Order
	decodeBody(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, "ready", orders[0].Status)
	assert.Equal(t, placed.OrderNumber, orders[0].OrderNumber)
	require.Len(t, orders[0].Items, 2)
	assert.True(t, orders[0].Items[1].IsManual)

	w = s.do(t, http.MethodPut, "/api/orders/"+placed.ID+"/status", map[string]string{"status": "delivered"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/orders", nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/history", nil)
	var history []models.Order
	decodeBody(t, w, &history)
	require.Len(t, history, 1)
	assert.Equal(t, placed.ID, history[0].ID)
	assert.Equal(t, models.StatusDelivered, history[0].Status)
	require.NotNil(t, history[0].DeliveredAt)

	w = s.do(t, http.MethodDelete, "/api/history/"+placed.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/history", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestPlaceOrderIdempotencyKey(t *testing.T) {
	s := newTestServer(t, nil)

	order := map[string]interface{}{
		"customerName": "Ravi",
		"items":        []map[string]interface{}{{"itemId": "pickle2", "name": "Lemon", "price": 5, "quantity": 2, "total": 10}},
		"total":        10,
	}
	before := stockOf(t, s, "pickle2")

	first := s.do(t, http.MethodPost, "/api/orders", order, "Idempotency-Key", "retry-1")
	second := s.do(t, http.MethodPost, "/api/orders", order, "Idempotency-Key", "retry-1")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, before-2, stockOf(t, s, "pickle2"))
}

func TestPlaceOrderConflictsWithHistory(t *testing.T) {
	s := newTestServer(t, nil)

	order := map[string]interface{}{"id": "jar7", "customerName": "Latha", "total": 8}
	w := s.do(t, http.MethodPost, "/api/orders", order)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPut, "/api/orders/jar7/status", map[string]string{"status": "delivered"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/orders", order)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/orders", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUpdateAndDeleteOrder(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/orders", map[string]interface{}{"id": "ord1", "customerName": "Meena", "total": 12})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/orders/ord1", map[string]interface{}{"customerName": "Meena K", "total": 20, "notes": "extra spicy"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"id":"ord1"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/orders", nil)
	var orders []models.Order
	decodeBody(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, "Meena K", orders[0].CustomerName)
	assert.Equal(t, "extra spicy", orders[0].Notes)
	assert.Equal(t, models.StatusPending, orders[0].Status)

	w = s.do(t, http.MethodDelete, "/api/orders/ord1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/orders", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCatalogAndFinanceEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/combos", nil)
	var combos []models.Combo
	decodeBody(t, w, &combos)
	assert.Len(t, combos, 2)

	w = s.do(t, http.MethodPost, "/api/recipes", map[string]interface{}{
		"name":        "Mango Pickle",
		"ingredients": []map[string]interface{}{{"name": "Mango", "quantity": "1kg", "cost": 80}},
		"steps":       []string{"Cut", "Dry", "Mix"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/recipes", nil)
	var recipes []models.Recipe
	decodeBody(t, w, &recipes)
	require.Len(t, recipes, 1)
	assert.Equal(t, service.DefaultRecipeCategory, recipes[0].Category)
	assert.Equal(t, models.Steps{"Cut", "Dry", "Mix"}, recipes[0].Steps)

	w = s.do(t, http.MethodPost, "/api/transactions", map[string]interface{}{"type": "expense", "amount": 42.5})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/offers", map[string]interface{}{"name": "Diwali", "value": 10})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/offers", nil)
	var offers []models.Offer
	decodeBody(t, w, &offers)
	require.Len(t, offers, 1)
	assert.True(t, offers[0].Active)
	assert.Equal(t, service.DefaultOfferType, offers[0].Type)

	w = s.do(t, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.Stats
	decodeBody(t, w, &stats)
	assert.Equal(t, "42.5", stats.TotalExpenses.String())
	assert.Equal(t, 0, stats.TotalCustomers)
}

func TestSettingsEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPut, "/api/settings", map[string]interface{}{"businessName": "90s Jar", "taxRate": 5})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"businessName":"90s Jar","taxRate":"5"}`, w.Body.String())
}

func TestExportImport(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/customers", map[string]string{"name": "Kiran"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	exported := w.Body.String()

	w = s.do(t, http.MethodPost, "/api/import", exported)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Success  bool           `json:"success"`
		Imported map[string]int `json:"imported"`
	}
	decodeBody(t, w, &res)
	assert.True(t, res.Success)
	assert.Equal(t, 14, res.Imported["inventory"])
	assert.Equal(t, 1, res.Imported["customers"])

	w = s.do(t, http.MethodGet, "/api/export", nil)
	assert.JSONEq(t, exported, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/import?scope=inventory", exported)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/api/customers", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.Equal(t, 20, stockOf(t, s, "pickle1"))
}

func TestImportRejectsBadPayload(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/import?scope=everything", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/import", map[string]interface{}{"inventory": "not a list"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// nothing was cleared
	assert.Equal(t, 20, stockOf(t, s, "pickle1"))
}

func TestDebugEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/debug", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"database_url_set": false,
		"has_postgres": true,
		"using_postgres": false,
		"postgres_import_error": null,
		"backend": "sqlite"
	}`, w.Body.String())
}

func TestStaticFiles(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "90s Jar")

	w = s.do(t, http.MethodGet, "/app.js", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log('jar')", w.Body.String())

	w = s.do(t, http.MethodGet, "/missing.css", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}
