package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"image-quiz-system/models"
	"image-quiz-system/services"
	"image-quiz-system/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *store.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	st := store.NewStore(db)
	require.NoError(t, st.Migrate())

	app := fiber.New()
	SetupQuizRoutes(app, services.NewQuizService(st))
	return app, st
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func seedGame(t *testing.T, st *store.Store, date string) (*models.Game, *models.FilePair) {
	t.Helper()

	game, err := st.CreateGame(date)
	require.NoError(t, err)

	realFile, err := st.CreateFile("https://cdn.test/real/a.jpg", models.SourceTypeReal, nil, nil)
	require.NoError(t, err)
	genFile, err := st.CreateFile("https://cdn.test/generated/a.jpg", models.SourceTypeGenerated, nil, nil)
	require.NoError(t, err)

	pair, err := st.CreateFilePair(realFile.ID, genFile.ID, game.ID)
	require.NoError(t, err)
	return game, pair
}

func TestGetGameByDate(t *testing.T) {
	app, st := newTestApp(t)
	game, _ := seedGame(t, st, "2026-01-01")

	resp, body := doJSON(t, app, http.MethodGet, "/game?date=2026-01-01", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, game.ID, body["id"])

	pairs, ok := body["file_pairs"].([]any)
	require.True(t, ok)
	require.Len(t, pairs, 1)

	pair := pairs[0].(map[string]any)
	assert.NotNil(t, pair["real_file"])
	assert.NotNil(t, pair["generated_file"])
}

func TestGetGameDefaultsToToday(t *testing.T) {
	app, st := newTestApp(t)
	today := time.Now().UTC().Format("2006-01-02")
	game, _ := seedGame(t, st, today)

	resp, body := doJSON(t, app, http.MethodGet, "/game", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, game.ID, body["id"])
}

func TestGetGameNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/game?date=1999-01-01", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body["error"], "no game")
}

func TestVoteFilePair(t *testing.T) {
	app, st := newTestApp(t)
	_, pair := seedGame(t, st, "2026-01-01")

	require.NoError(t, st.DB.Model(pair).UpdateColumn("real_vote_count", 5).Error)

	resp, body := doJSON(t, app, http.MethodPatch, "/file-pair", fiber.Map{
		"file_pair_id":   pair.ID,
		"voted_for_real": true,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 6, body["real_vote_count"])
	assert.EqualValues(t, 0, body["generated_vote_count"])
}

func TestVoteFilePairValidation(t *testing.T) {
	app, st := newTestApp(t)
	_, pair := seedGame(t, st, "2026-01-01")

	resp, body := doJSON(t, app, http.MethodPatch, "/file-pair", fiber.Map{
		"voted_for_real": true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "file_pair_id")

	resp, body = doJSON(t, app, http.MethodPatch, "/file-pair", fiber.Map{
		"file_pair_id": pair.ID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "voted_for_real")

	resp, body = doJSON(t, app, http.MethodPatch, "/file-pair", fiber.Map{
		"file_pair_id":   "nope",
		"voted_for_real": false,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body["error"], "not found")
}

func TestCreateGameResult(t *testing.T) {
	app, st := newTestApp(t)
	game, _ := seedGame(t, st, "2026-01-01")

	for _, points := range []int{1000, 2000, 3000} {
		_, err := st.CreateGameResult(points, 5, game.ID)
		require.NoError(t, err)
	}

	resp, body := doJSON(t, app, http.MethodPost, "/game-result", fiber.Map{
		"points_scored": 2500,
		"accuracy":      8,
		"game_id":       game.ID,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// rank against the three prior plays: beats two of them
	assert.EqualValues(t, 67, body["percentile"])

	result, ok := body["result"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2500, result["points_scored"])
	assert.EqualValues(t, 8, result["accuracy"])

	histogram, ok := body["histogram"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1000, histogram["min"])
	assert.EqualValues(t, 3000, histogram["max"])

	var count int64
	require.NoError(t, st.DB.Model(&models.GameResult{}).Where("game_id = ?", game.ID).Count(&count).Error)
	assert.EqualValues(t, 4, count)
}

func TestCreateGameResultFirstPlayer(t *testing.T) {
	app, st := newTestApp(t)
	game, _ := seedGame(t, st, "2026-01-01")

	resp, body := doJSON(t, app, http.MethodPost, "/game-result", fiber.Map{
		"points_scored": 1200,
		"accuracy":      10,
		"game_id":       game.ID,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 50, body["percentile"])
}

func TestCreateGameResultValidation(t *testing.T) {
	app, st := newTestApp(t)
	game, _ := seedGame(t, st, "2026-01-01")

	resp, body := doJSON(t, app, http.MethodPost, "/game-result", fiber.Map{
		"points_scored": 100,
		"accuracy":      1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "game_id")

	resp, body = doJSON(t, app, http.MethodPost, "/game-result", fiber.Map{
		"game_id": game.ID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "required")

	resp, body = doJSON(t, app, http.MethodPost, "/game-result", fiber.Map{
		"points_scored": 100,
		"accuracy":      1,
		"game_id":       "nope",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body["error"], "not found")
}
