package user_test

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
	"github.com/glowcare/clinic-backend/controllers/user"
	"github.com/glowcare/clinic-backend/models"
	"github.com/glowcare/clinic-backend/routes"
)

const testSecret = "test-secret"

func testConfig() *config.Config {
	return &config.Config{
		Logger:    log.New(io.Discard, "", 0),
		JWTSecret: testSecret,
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	app := fiber.New()
	routes.SetupUserRoutes(app, user.NewController(db, testConfig()), testSecret)
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}, token string) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	return resp
}

func register(t *testing.T, app *fiber.App, username, password, role string) *http.Response {
	t.Helper()
	return postJSON(t, app, "/register", fiber.Map{
		"username": username,
		"password": password,
		"role":     role,
	}, "")
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()
	resp := postJSON(t, app, "/login", fiber.Map{
		"username": username,
		"password": password,
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return body["token"]
}

func TestRegister(t *testing.T) {
	app, db := newTestApp(t)

	resp := register(t, app, "alice", "secret123", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var user models.User
	if err := db.Where("username = ?", "alice").First(&user).Error; err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if user.Role != models.RolePatient {
		t.Fatalf("role = %q, want default %q", user.Role, models.RolePatient)
	}
	if user.Password == "secret123" {
		t.Fatal("password stored in plaintext")
	}

	// Duplicate username.
	resp = register(t, app, "alice", "other", "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", resp.StatusCode)
	}

	// Missing fields.
	resp = postJSON(t, app, "/register", fiber.Map{"username": "bob"}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing password status = %d, want 400", resp.StatusCode)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	app, _ := newTestApp(t)
	register(t, app, "alice", "secret123", "pasien")

	token := login(t, app, "alice", "secret123")

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("issued token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["user_id"] != "alice" || claims["role"] != "pasien" {
		t.Fatalf("claims = %v, want alice/pasien", claims)
	}

	exp := time.Unix(int64(claims["exp"].(float64)), 0)
	ttl := time.Until(exp)
	if ttl < 25*time.Minute || ttl > 35*time.Minute {
		t.Fatalf("token ttl = %v, want about 30m", ttl)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	app, _ := newTestApp(t)
	register(t, app, "alice", "secret123", "")

	for _, tt := range []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "nope"},
		{"unknown user", "charlie", "secret123"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, "/login", fiber.Map{
				"username": tt.username,
				"password": tt.password,
			}, "")
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	app, _ := newTestApp(t)
	register(t, app, "alice", "secret123", "")

	resp := postJSON(t, app, "/login", fiber.Map{
		"username": "alice",
		"password": "secret123",
	}, "")
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	resp = postJSON(t, app, "/refresh", fiber.Map{"refresh_token": body["refreshToken"]}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status = %d, want 200", resp.StatusCode)
	}

	resp = postJSON(t, app, "/refresh", fiber.Map{"refresh_token": "garbage"}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad refresh status = %d, want 401", resp.StatusCode)
	}
}

func TestProfile(t *testing.T) {
	app, _ := newTestApp(t)
	register(t, app, "alice", "secret123", "")
	token := login(t, app, "alice", "secret123")

	// Read own profile.
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status = %d, want 200", resp.StatusCode)
	}

	// Partial edit.
	payload, _ := json.Marshal(fiber.Map{"address": "Jl. Melati 5", "phone_number": "0812000111"})
	putReq := httptest.NewRequest(http.MethodPut, "/profile/edit", bytes.NewReader(payload))
	putReq.Header.Set("Content-Type", "application/json")
	putReq.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(putReq)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit status = %d, want 200", resp.StatusCode)
	}

	var profile struct {
		Profile struct {
			Address     string `json:"address"`
			PhoneNumber string `json:"phone_number"`
		} `json:"profile"`
	}
	req = httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ = app.Test(req)
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Profile.Address != "Jl. Melati 5" || profile.Profile.PhoneNumber != "0812000111" {
		t.Fatalf("profile after edit = %+v", profile.Profile)
	}

	// Empty edit.
	emptyReq := httptest.NewRequest(http.MethodPut, "/profile/edit", bytes.NewReader([]byte("{}")))
	emptyReq.Header.Set("Content-Type", "application/json")
	emptyReq.Header.Set("Authorization", "Bearer "+token)
	resp, _ = app.Test(emptyReq)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty edit status = %d, want 400", resp.StatusCode)
	}
}

func TestAdminData(t *testing.T) {
	app, _ := newTestApp(t)
	register(t, app, "alice", "secret123", "")
	register(t, app, "root", "secret123", "admin")

	patientToken := login(t, app, "alice", "secret123")
	adminToken := login(t, app, "root", "secret123")

	for _, tt := range []struct {
		token string
		want  int
	}{
		{patientToken, http.StatusForbidden},
		{adminToken, http.StatusOK},
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin_data", nil)
		req.Header.Set("Authorization", "Bearer "+tt.token)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		if resp.StatusCode != tt.want {
			t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
		}
	}
}
