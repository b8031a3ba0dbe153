package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The Prometheus middleware registers collectors globally, so the app under
// test is built once and shared. Tests isolate themselves through unique
// users rather than a fresh database.
var (
	apiOnce sync.Once
	apiApp  *fiber.App
)

func testApp(t *testing.T) *fiber.App {
	t.Helper()

	apiOnce.Do(func() {
		os.Setenv("APP_ENV", "test")

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			panic(err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			panic(err)
		}
		sqlDB.SetMaxOpenConns(1)
		if err := database.Migrate(db); err != nil {
			panic(err)
		}

		cfg := &config.Config{
			Port:          "5000",
			JWTSecret:     "unit-test-secret-unit-test-secret",
			Env:           "test",
			UploadDir:     os.TempDir(),
			PublicBaseURL: "http://localhost:5000",
		}
		middleware.InitMiddleware(cfg)

		srv, err := NewServerWithDeps(cfg, db, nil)
		if err != nil {
			panic(err)
		}

		app := fiber.New()
		srv.SetupRoutes(app)
		apiApp = app
	})
	return apiApp
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

var userSeq int

// registerUser creates a fresh account and returns its token and user ID.
func registerUser(t *testing.T, app *fiber.App, name string) (token, id string) {
	t.Helper()

	userSeq++
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"first_name": name,
		"last_name":  "Tester",
		"email":      fmt.Sprintf("%s%d@example.com", name, userSeq),
		"password":   "Sup3rSecret!Pass",
	})
	require.Equal(t, http.StatusCreated, status, "register failed: %v", body)

	token, _ = body["token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	id, _ = user["id"].(string)
	require.NotEmpty(t, id)
	return token, id
}

func createSkillFor(t *testing.T, app *fiber.App, token, title string) uint {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/skills", token, fiber.Map{
		"title":           title,
		"description":     "Created by a handler test",
		"category":        "languages",
		"skill_level":     "intermediate",
		"time_commitment": "2 hours/week",
		"tags":            []string{"Spanish", "conversation"},
	})
	require.Equal(t, http.StatusCreated, status, "create skill failed: %v", body)
	return uint(body["id"].(float64))
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app := testApp(t)

	email := fmt.Sprintf("login-flow-%d@example.com", userSeq+1000)
	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"first_name": "Alice",
		"email":      email,
		"password":   "Sup3rSecret!Pass",
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
			"first_name": "Alice",
			"email":      email,
			"password":   "Sup3rSecret!Pass",
		})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "CONFLICT", body["code"])
	})

	t.Run("weak password rejected", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", fiber.Map{
			"first_name": "Weak",
			"email":      "weak@example.com",
			"password":   "short",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
	})

	t.Run("login", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
			"email":    email,
			"password": "Sup3rSecret!Pass",
		})
		assert.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
			"email":    email,
			"password": "Wrong!Password1",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("protected route requires token", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/skills", "", fiber.Map{})
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestSwapLifecycleEndToEnd(t *testing.T) {
	app := testApp(t)

	aliceToken, aliceID := registerUser(t, app, "alice")
	bobToken, bobID := registerUser(t, app, "bob")
	carolToken, _ := registerUser(t, app, "carol")

	skillID := createSkillFor(t, app, bobToken, "Conversational Spanish")

	// Alice asks bob for a swap anchored to his skill.
	status, body := doJSON(t, app, http.MethodPost, "/api/swap-requests", aliceToken, fiber.Map{
		"to_user_id": bobID,
		"skill_id":   skillID,
		"message":    "Trade for guitar lessons?",
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	assert.Equal(t, "pending", body["status"])
	swapID := uint(body["id"].(float64))

	acceptPath := fmt.Sprintf("/api/swap-requests/%d/accept", swapID)

	t.Run("only the recipient can respond", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, acceptPath, carolToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", body["code"])

		status, _ = doJSON(t, app, http.MethodPut, acceptPath, aliceToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("recipient accepts once", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, acceptPath, bobToken, nil)
		require.Equal(t, http.StatusOK, status, "%v", body)
		assert.Equal(t, "accepted", body["status"])

		// The transition is terminal.
		status, body = doJSON(t, app, http.MethodPut, acceptPath, bobToken, nil)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "INVALID_STATE", body["code"])
	})

	t.Run("deleting an accepted swap is rejected", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/swap-requests/%d", swapID), aliceToken, nil)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "INVALID_STATE", body["code"])
	})

	feedbackPath := fmt.Sprintf("/api/swap-requests/%d/feedback", swapID)

	t.Run("both sides rate once", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, feedbackPath, aliceToken, fiber.Map{"score": 5})
		require.Equal(t, http.StatusOK, status, "%v", body)

		status, profile := doJSON(t, app, http.MethodGet, "/api/users/"+bobID, "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.InDelta(t, 5.0, profile["rating"].(float64), 0.001)
		assert.EqualValues(t, 1, profile["total_ratings"].(float64))

		status, body = doJSON(t, app, http.MethodPut, feedbackPath, bobToken, fiber.Map{"score": 4})
		require.Equal(t, http.StatusOK, status, "%v", body)

		status, profile = doJSON(t, app, http.MethodGet, "/api/users/"+aliceID, "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.InDelta(t, 4.0, profile["rating"].(float64), 0.001)

		// Double submit loses.
		status, body = doJSON(t, app, http.MethodPut, feedbackPath, aliceToken, fiber.Map{"score": 1})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "INVALID_STATE", body["code"])
	})

	t.Run("list mine includes the accepted swap", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/api/swap-requests/me?status=accepted", aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		swaps := body["swap_requests"].([]any)
		require.NotEmpty(t, swaps)
	})
}

func TestSwapRequestValidation(t *testing.T) {
	app := testApp(t)

	aliceToken, aliceID := registerUser(t, app, "alice")
	_, bobID := registerUser(t, app, "bob")
	aliceSkill := createSkillFor(t, app, aliceToken, "Watercolor Painting")

	t.Run("self swap", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/swap-requests", aliceToken, fiber.Map{
			"to_user_id": aliceID,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "SELF_REFERENCE", body["code"])
	})

	t.Run("unknown target user", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/swap-requests", aliceToken, fiber.Map{
			"to_user_id": "00000000-0000-0000-0000-000000000000",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_REFERENCE", body["code"])
	})

	t.Run("skill must belong to the target", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/swap-requests", aliceToken, fiber.Map{
			"to_user_id": bobID,
			"skill_id":   aliceSkill,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_REFERENCE", body["code"])
	})

	t.Run("unknown status filter", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/api/swap-requests/me?status=bogus", aliceToken, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
	})
}

func TestFavoritesFlow(t *testing.T) {
	app := testApp(t)

	aliceToken, _ := registerUser(t, app, "alice")
	bobToken, _ := registerUser(t, app, "bob")
	skillID := createSkillFor(t, app, bobToken, "Sourdough Baking")

	status, body := doJSON(t, app, http.MethodPost, "/api/favorites", aliceToken, fiber.Map{
		"skill_id": skillID,
	})
	require.Equal(t, http.StatusCreated, status, "%v", body)
	favID := uint(body["id"].(float64))

	t.Run("add is idempotent", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/favorites", aliceToken, fiber.Map{
			"skill_id": skillID,
		})
		require.Equal(t, http.StatusCreated, status)
		assert.EqualValues(t, favID, body["id"].(float64))
	})

	t.Run("both or neither target rejected", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/favorites", aliceToken, fiber.Map{})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "INVALID_REFERENCE", body["code"])
	})

	t.Run("list", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/api/favorites", aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		favs := body["favorites"].([]any)
		assert.Len(t, favs, 1)
	})

	t.Run("only the owner removes", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", favID), bobToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", body["code"])
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", favID), aliceToken, nil)
		assert.Equal(t, http.StatusOK, status)

		status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", favID), aliceToken, nil)
		assert.Equal(t, http.StatusOK, status)
	})
}

func TestCatalogVisibility(t *testing.T) {
	app := testApp(t)

	bobToken, bobID := registerUser(t, app, "bob")
	skillID := createSkillFor(t, app, bobToken, "Bike Maintenance Workshop")

	skillPath := fmt.Sprintf("/api/skills/%d", skillID)

	status, _ := doJSON(t, app, http.MethodGet, "/api/skills?q=bike+maintenance", "", nil)
	require.Equal(t, http.StatusOK, status)

	// Deactivate.
	status, _ = doJSON(t, app, http.MethodDelete, skillPath, bobToken, nil)
	require.Equal(t, http.StatusOK, status)

	t.Run("hidden from anonymous readers", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, skillPath, "", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", body["code"])
	})

	t.Run("hidden from search", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/api/skills?q=bike+maintenance+workshop", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, body["skills"])
	})

	t.Run("owner still sees it", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, skillPath, bobToken, nil)
		require.Equal(t, http.StatusOK, status, "%v", body)
		assert.Equal(t, false, body["is_active"])

		status, body = doJSON(t, app, http.MethodGet, "/api/users/"+bobID+"/skills", bobToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body["skills"])
	})

	t.Run("other users do not see inactive listings", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/api/users/"+bobID+"/skills", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, body["skills"])
	})
}

func TestUpdateSkillPartial(t *testing.T) {
	app := testApp(t)

	bobToken, _ := registerUser(t, app, "bob")
	skillID := createSkillFor(t, app, bobToken, "Conversational Spanish")
	skillPath := fmt.Sprintf("/api/skills/%d", skillID)

	t.Run("title-only body updates just the title", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, skillPath, bobToken, fiber.Map{
			"title": "Advanced Spanish",
		})
		require.Equal(t, http.StatusOK, status, "%v", body)
		assert.Equal(t, "Advanced Spanish", body["title"])
		assert.Equal(t, "Created by a handler test", body["description"], "untouched fields survive")
		assert.Equal(t, "languages", body["category"])
	})

	t.Run("supplied blank field rejected", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, skillPath, bobToken, fiber.Map{
			"description": "  ",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", body["code"])
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		aliceToken, _ := registerUser(t, app, "alice")
		status, body := doJSON(t, app, http.MethodPut, skillPath, aliceToken, fiber.Map{
			"title": "Stolen",
		})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", body["code"])
	})
}

func TestDirectory(t *testing.T) {
	app := testApp(t)

	token, id := registerUser(t, app, "directoryuser")

	// No listings yet: the user stays out of the directory.
	status, body := doJSON(t, app, http.MethodGet, "/api/users?search=directoryuser", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["users"])

	createSkillFor(t, app, token, "Trail Running Coaching")

	status, body = doJSON(t, app, http.MethodGet, "/api/users?search=directoryuser&page=1&pageSize=5", "", nil)
	require.Equal(t, http.StatusOK, status)
	users := body["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, id, users[0].(map[string]any)["id"])
	assert.EqualValues(t, 1, body["total"].(float64))
	assert.EqualValues(t, 1, body["page"].(float64))
	assert.EqualValues(t, 5, body["page_size"].(float64))
}

func TestUpdateProfile(t *testing.T) {
	app := testApp(t)

	aliceToken, aliceID := registerUser(t, app, "alice")
	_, bobID := registerUser(t, app, "bob")

	t.Run("self only", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, "/api/users/"+bobID, aliceToken, fiber.Map{
			"bio": "hacked",
		})
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", body["code"])
	})

	t.Run("partial update", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPut, "/api/users/"+aliceID, aliceToken, fiber.Map{
			"bio":          "I teach Spanish",
			"availability": "evenings",
		})
		require.Equal(t, http.StatusOK, status, "%v", body)
		assert.Equal(t, "I teach Spanish", body["bio"])
		assert.Equal(t, "evenings", body["availability"])
		assert.Equal(t, "alice", body["first_name"], "untouched fields survive")
	})
}
