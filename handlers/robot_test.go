package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"map-panel/logger"
	"map-panel/models"
	"map-panel/services"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, services.Migrate(db))
	return db
}

func newRobotApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "uploads")
	h, err := NewRobotHandler(services.NewMappingService(newTestDB(t)), dir, logger.Discard())
	require.NoError(t, err)

	app := fiber.New()
	h.Register(app)
	return app, dir
}

func uploadRequest(t *testing.T, fields map[string]string, withFile bool) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if withFile {
		part, err := w.CreateFormFile("file", "capture.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("\xff\xd8\xff fake jpeg"))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestRobotUploadAndMapData(t *testing.T) {
	app, dir := newRobotApp(t)

	resp, err := app.Test(uploadRequest(t, map[string]string{
		"distance":    "12.5",
		"coordinates": `{"x": 10, "y": 20}`,
	}, true), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".jpg", filepath.Ext(entries[0].Name()))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/map_data", nil), -1)
	require.NoError(t, err)
	var records []models.MapRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Len(t, records, 1)
	assert.Equal(t, models.Coordinates{X: 10, Y: 20}, records[0].Coordinates)
	assert.Equal(t, 12.5, records[0].Distance)
	assert.Equal(t, filepath.ToSlash(filepath.Join(dir, entries[0].Name())), records[0].Image)

	status, body := doJSON(t, app, http.MethodGet, "/get_mapping", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["mapping_data"], 1)
}

func TestRobotUploadValidation(t *testing.T) {
	app, _ := newRobotApp(t)

	t.Run("missing file", func(t *testing.T) {
		resp, err := app.Test(uploadRequest(t, map[string]string{"distance": "3"}, false), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("non-numeric distance", func(t *testing.T) {
		resp, err := app.Test(uploadRequest(t, map[string]string{"distance": "Unknown"}, true), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("bad coordinates fall back to origin", func(t *testing.T) {
		resp, err := app.Test(uploadRequest(t, map[string]string{"distance": "4", "coordinates": "{oops"}, true), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/map_data", nil), -1)
		require.NoError(t, err)
		var records []models.MapRecord
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
		require.Len(t, records, 1)
		assert.Equal(t, models.Coordinates{}, records[0].Coordinates)
	})
}

func TestRobotDestination(t *testing.T) {
	app, _ := newRobotApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/get_destination", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "No destination set", body["error"])

	status, _ = doJSON(t, app, http.MethodPost, "/select_destination", `{"coordinates":{"x":3,"y":4}}`)
	assert.Equal(t, fiber.StatusOK, status)

	status, body = doJSON(t, app, http.MethodGet, "/get_destination", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"x": 3.0, "y": 4.0}, body["coordinates"])

	status, _ = doJSON(t, app, http.MethodPost, "/select_destination", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestRobotMovement(t *testing.T) {
	app, _ := newRobotApp(t)

	status, body := doJSON(t, app, http.MethodGet, "/get_robot_status", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, models.RobotStatusIdle, body["status"])

	status, _ = doJSON(t, app, http.MethodPost, "/move_robot", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = doJSON(t, app, http.MethodPost, "/move_robot", `{"direction":"forward"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Robot moving forward", body["message"])
	assert.Equal(t, models.RobotStatusMoving, body["status"])

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/move_bot?dir=left", nil), -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Moving left", string(raw))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/move_bot?dir=up", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// 패널 RobotClient와 로봇 측 핸들러를 실제 HTTP로 연결
func TestRobotClientAgainstRobotHandler(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	mapping := services.NewMappingService(newTestDB(t))
	h, err := NewRobotHandler(mapping, dir, logger.Discard())
	require.NoError(t, err)
	_, err = mapping.AddRecord("static/uploads/a.jpg", 7, models.Coordinates{X: 1, Y: 2})
	require.NoError(t, err)

	app := fiber.New()
	h.Register(app)
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)

	client := services.NewRobotClient(srv.URL, 2*time.Second)
	records, err := client.FetchMapData()
	require.NoError(t, err)
	assert.Equal(t, []models.MapRecord{
		{Coordinates: models.Coordinates{X: 1, Y: 2}, Image: "static/uploads/a.jpg", Distance: 7},
	}, records)

	msg, err := client.Move(models.DirectionRight)
	require.NoError(t, err)
	assert.Equal(t, "Moving right", msg)
	assert.Equal(t, models.RobotStatusMoving, mapping.Status())
}
