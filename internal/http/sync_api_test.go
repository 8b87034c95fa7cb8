package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/crypto/bcrypt"

	"pricewatch/internal/config"
	"pricewatch/internal/http/handlers"
	"pricewatch/internal/repos"
)

const adminToken = "test-admin-token"

// newSyncApp wires a minimal app over an in-memory DB and a stub
// fetch service that always returns a parseable page.
func newSyncApp(t *testing.T) *fiber.App {
	t.Helper()

	fetchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"markdown": "MRP ₹120 Now ₹99 In Stock"},
		})
	}))
	t.Cleanup(fetchSrv.Close)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminToken), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Config{
		DBDSN:          ":memory:",
		FirecrawlURL:   fetchSrv.URL,
		FirecrawlKey:   "test-key",
		Pincode:        "603103",
		Country:        "IN",
		AdminTokenHash: string(hash),
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	deps := handlers.NewDeps(db, cfg)

	app := fiber.New()
	app.Use(requestid.New())
	api := app.Group("/api/v1")
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id/history", deps.ProductHandler.History)
	sync := api.Group("/sync", handlers.RequireAdminToken(cfg.AdminTokenHash))
	sync.Post("/products/:id", deps.SyncHandler.SyncOne)
	sync.Post("/all", deps.SyncHandler.SyncAll)
	return app
}

func TestSyncRequiresAdminToken(t *testing.T) {
	app := newSyncApp(t)

	req := httptest.NewRequest("POST", "/api/v1/sync/products/prod-milk", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token: want 401, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("POST", "/api/v1/sync/products/prod-milk", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong token: want 401, got %d", resp.StatusCode)
	}
}

func TestSyncOneProduct(t *testing.T) {
	app := newSyncApp(t)

	req := httptest.NewRequest("POST", "/api/v1/sync/products/prod-milk", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req, int(30*time.Second/time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("want 200, got %d: %s", resp.StatusCode, body)
	}

	var out struct {
		Success bool `json:"success"`
		Results map[string]*struct {
			Price float64 `json:"price"`
			MRP   float64 `json:"mrp"`
		} `json:"results"`
		Location string `json:"location"`
		Message  string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.Success || out.Location != "603103" {
		t.Fatalf("unexpected result envelope: %+v", out)
	}
	if len(out.Results) != 8 {
		t.Fatalf("want all 8 platforms in results, got %d", len(out.Results))
	}
	for platform, obs := range out.Results {
		if obs == nil {
			t.Fatalf("%s: expected an observation", platform)
		}
		if obs.Price != 99 || obs.MRP != 120 {
			t.Fatalf("%s: want 99/120, got %+v", platform, obs)
		}
	}
}

func TestSyncAllEndpoint(t *testing.T) {
	app := newSyncApp(t)

	req := httptest.NewRequest("POST", "/api/v1/sync/all", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req, int(60*time.Second/time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	var out struct {
		Success       bool `json:"success"`
		TotalProducts int  `json:"totalProducts"`
		SuccessCount  int  `json:"successCount"`
		ErrorCount    int  `json:"errorCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.Success || out.TotalProducts != 3 || out.SuccessCount != 3 || out.ErrorCount != 0 {
		t.Fatalf("unexpected summary: %+v", out)
	}
}

func TestSyncUnconfiguredTokenStaysClosed(t *testing.T) {
	app := fiber.New()
	app.Post("/sync", handlers.RequireAdminToken(""), func(c *fiber.Ctx) error {
		return c.SendString("should not reach")
	})

	req := httptest.NewRequest("POST", "/sync", nil)
	req.Header.Set("Authorization", "Bearer anything")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("unconfigured hash must deny: got %d", resp.StatusCode)
	}
}
