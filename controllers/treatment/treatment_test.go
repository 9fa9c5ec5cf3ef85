package treatment_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/glowcare/clinic-backend/config"
	"github.com/glowcare/clinic-backend/controllers/treatment"
	"github.com/glowcare/clinic-backend/db"
	"github.com/glowcare/clinic-backend/models"
	"github.com/glowcare/clinic-backend/routes"
)

const testSecret = "test-secret"

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Treatment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.SeedTreatments(conn); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return conn
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	conn := openTestDB(t)
	cfg := &config.Config{Logger: log.New(io.Discard, "", 0), JWTSecret: testSecret}
	app := fiber.New()
	// Cache nil: reads go straight to the database in tests.
	routes.SetupTreatmentRoutes(app, treatment.NewController(conn, cfg, nil), testSecret)
	return app, conn
}

func signToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "tester",
		"role":    role,
		"exp":     time.Now().Add(time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestSeededCatalog(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/treatments/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var treatments []models.Treatment
	if err := json.NewDecoder(resp.Body).Decode(&treatments); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(treatments) != 10 {
		t.Fatalf("seeded %d treatments, want 10", len(treatments))
	}
	if treatments[2].Name != "Microneedling" || treatments[2].Price != 300000 {
		t.Fatalf("treatment 3 = %+v, want Microneedling/300000", treatments[2])
	}
}

func TestGetTreatment(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/treatments/3", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var treatment models.Treatment
	if err := json.NewDecoder(resp.Body).Decode(&treatment); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if treatment.PractitionerName != "dr. Budi Santoso" {
		t.Fatalf("practitioner = %q", treatment.PractitionerName)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/treatments/999", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want 404", resp.StatusCode)
	}
}

func TestManagementRequiresAdmin(t *testing.T) {
	app, _ := newTestApp(t)

	payload, _ := json.Marshal(fiber.Map{
		"name":              "Dermaplaning",
		"practitioner_name": "dr. Siti Lestari",
		"price":             220000,
	})

	// No token at all.
	req := httptest.NewRequest(http.MethodPost, "/treatments/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", resp.StatusCode)
	}

	// Patient token.
	req = httptest.NewRequest(http.MethodPost, "/treatments/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, "pasien"))
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("patient status = %d, want 403", resp.StatusCode)
	}

	// Admin token.
	req = httptest.NewRequest(http.MethodPost, "/treatments/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin"))
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin status = %d, want 201", resp.StatusCode)
	}
}

func TestUpdateAndDeleteTreatment(t *testing.T) {
	app, conn := newTestApp(t)
	adminToken := signToken(t, "admin")

	payload, _ := json.Marshal(fiber.Map{"price": 320000})
	req := httptest.NewRequest(http.MethodPut, "/treatments/3", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, want 200", resp.StatusCode)
	}

	var treatment models.Treatment
	if err := conn.First(&treatment, 3).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if treatment.Price != 320000 {
		t.Fatalf("price = %d, want 320000", treatment.Price)
	}
	if treatment.Name != "Microneedling" {
		t.Fatalf("partial update clobbered name: %q", treatment.Name)
	}

	req = httptest.NewRequest(http.MethodDelete, "/treatments/3", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodDelete, "/treatments/3", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, _ = app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", resp.StatusCode)
	}
}
