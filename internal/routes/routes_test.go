package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/glowcheck/internal/config"
	"github.com/example/glowcheck/internal/database"
	"github.com/example/glowcheck/internal/models"
	"github.com/example/glowcheck/internal/routes"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))

	cfg := &config.Config{
		AppPort:            "8080",
		JWTSecret:          "test-secret",
		TokenExpires:       time.Hour,
		IncidecoderBaseURL: "https://incidecoder.com",
	}

	app := fiber.New()
	routes.Register(app, db, cfg)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	if len(raw) > 0 && resp.Header.Get("Content-Type") != "" {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func registerUser(t *testing.T, app *fiber.App) string {
	t.Helper()

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":        "kai@example.com",
		"password":     "hunter22",
		"display_name": "Kai",
		"skin_type":    "dry",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func seedProduct(t *testing.T, db *gorm.DB, name, slug string, tags ...string) *models.Product {
	t.Helper()

	product := models.Product{
		Brand:     "Acme",
		Name:      name,
		SourceURL: "https://incidecoder.com/products/" + slug,
		Tags:      tags,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func TestRoutineDayValidation(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/routines/noon", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRoutineAddListAndIssues(t *testing.T) {
	app, db := newTestApp(t)
	token := registerUser(t, app)

	retinol := seedProduct(t, db, "Retinol Serum", "retinol-serum", "retinol")
	vitaminC := seedProduct(t, db, "C Booster", "c-booster", "vitamin_c")

	resp, body := doJSON(t, app, http.MethodPost, "/api/routines/pm", token, map[string]string{
		"product_url": retinol.SourceURL,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["added"])

	// Adding the same product again is a no-op.
	resp, body = doJSON(t, app, http.MethodPost, "/api/routines/pm", token, map[string]string{
		"product_url": retinol.SourceURL,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["added"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/routines/pm", token, map[string]string{
		"product_url": vitaminC.SourceURL,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/api/routines/PM", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	entries, _ := body["data"].([]interface{})
	assert.Len(t, entries, 2)

	resp, body = doJSON(t, app, http.MethodGet, "/api/routines/PM/issues", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	report, _ := body["data"].(map[string]interface{})
	require.NotNil(t, report)

	// retinol and vitamin_c each carry an avoid rule targeting the other, so
	// both scan directions produce a record.
	avoid, _ := report["avoid"].([]interface{})
	assert.Len(t, avoid, 2)

	// At PM, retinol's evening guidance is dropped while vitamin C's morning
	// guidance is surfaced.
	usewhen, _ := report["usewhen"].([]interface{})
	require.Len(t, usewhen, 1)
	entry, _ := usewhen[0].(map[string]interface{})
	assert.Equal(t, "AM", entry["tag"])
	assert.Equal(t, "C Booster", entry["source"])
}

func TestRoutineRemoveProduct(t *testing.T) {
	app, db := newTestApp(t)
	token := registerUser(t, app)

	product := seedProduct(t, db, "Cleanser", "cleanser")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/routines/am", token, map[string]string{
		"product_url": product.SourceURL,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/routines/am/products/"+product.ID.String(), token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/routines/am/products/"+product.ID.String(), token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmitAndFetchCommunityRatings(t *testing.T) {
	app, db := newTestApp(t)
	token := registerUser(t, app)

	product := seedProduct(t, db, "Serum", "serum")

	resp, body := doJSON(t, app, http.MethodPost, "/api/products/"+product.ID.String()+"/ratings", token, map[string]int{
		"rating": 4,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "new", body["status"])
	assert.Equal(t, 4.0, body["average"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/products/"+product.ID.String()+"/ratings", token, map[string]int{
		"rating": 2,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "updated", body["status"])
	assert.Equal(t, 2.0, body["average"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/products/"+product.ID.String()+"/ratings", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data, _ := body["data"].(map[string]interface{})
	require.Contains(t, data, "dry")
	bucket, _ := data["dry"].(map[string]interface{})
	assert.Equal(t, 2.0, bucket["totalRating"])
	assert.Equal(t, 1.0, bucket["ratingCount"])
}

func TestRoutineRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/routines/am", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProfileSkinTypeUpdate(t *testing.T) {
	app, _ := newTestApp(t)
	token := registerUser(t, app)

	resp, _ := doJSON(t, app, http.MethodPut, "/api/profile", token, map[string]string{
		"skin_type": "combination",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data, _ := body["data"].(map[string]interface{})
	assert.Equal(t, "combination", data["skin_type"])

	resp, _ = doJSON(t, app, http.MethodPut, "/api/profile", token, map[string]string{
		"skin_type": "reptilian",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
