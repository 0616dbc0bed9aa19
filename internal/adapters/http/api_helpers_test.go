package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	httpadapter "github.com/boostclient/boostclient-service/internal/adapters/http"
	"github.com/boostclient/boostclient-service/internal/adapters/persistence"
	"github.com/boostclient/boostclient-service/internal/app"
	"github.com/boostclient/boostclient-service/internal/platform/config"
)

const (
	appName = "boostclient"

	alertHeader  = "X-boostclient-alert"
	paramsHeader = "X-boostclient-params"
	errorHeader  = "X-boostclient-error"
)

// testAPI is the full HTTP stack over a migrated in-memory SQLite database.
type testAPI struct {
	engine *gin.Engine
	db     *gorm.DB
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	api, err := buildTestAPI()
	require.NoError(t, err)

	t.Cleanup(func() { _ = persistence.Close(api.db) })

	return api
}

func buildTestAPI() (*testAPI, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := persistence.Open(&config.DatabaseConfig{
		Driver:   config.DriverSQLite,
		DSN:      "file::memory:",
		LogLevel: "silent",
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := persistence.Migrate(db, config.DriverSQLite, logger); err != nil {
		_ = persistence.Close(db)
		return nil, err
	}

	tx := persistence.NewTransactor(db)
	employers := persistence.NewEmployerRepository(db)
	opts := app.Options{Logger: logger}

	srv := httpadapter.New(&config.ServerConfig{
		Host:           "127.0.0.1",
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		IdleTimeout:    5 * time.Second,
		MaxRequestSize: 1 << 20,
	}, logger)

	httpadapter.SetupRouter(srv.Engine(), httpadapter.RouterConfig{
		Logger:    logger,
		AppConfig: &config.AppConfig{Name: appName},
		Timeout:   5 * time.Second,
		Resources: []httpadapter.Routes{
			httpadapter.NewEmployerResource(appName,
				app.NewEmployerService(employers, tx, opts)),
			httpadapter.NewQuoteResource(appName,
				app.NewQuoteService(persistence.NewQuoteRepository(db), employers, tx, opts)),
			httpadapter.NewEmployeeResource(appName,
				app.NewEmployeeService(persistence.NewEmployeeRepository(db), employers, tx, opts)),
		},
	})

	return &testAPI{engine: srv.Engine(), db: db}, nil
}

// do sends a request. A string body is sent verbatim, anything else is
// encoded as JSON.
func (a *testAPI) do(method, path, contentType string, body any) *httptest.ResponseRecorder {
	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	return w
}

func (a *testAPI) count(t *testing.T, table string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, a.db.Table(table).Count(&n).Error)

	return n
}

func (a *testAPI) createEmployer(t *testing.T, name string) int64 {
	t.Helper()

	w := a.do(http.MethodPost, "/api/employers", "application/json", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return idFromBody(t, w)
}

func (a *testAPI) createQuote(t *testing.T, name, date string, employerID int64) int64 {
	t.Helper()

	w := a.do(http.MethodPost, "/api/quotes", "application/json", map[string]any{
		"name":      name,
		"quoteDate": date,
		"employer":  map[string]any{"id": employerID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return idFromBody(t, w)
}

func idFromBody(t *testing.T, w *httptest.ResponseRecorder) int64 {
	t.Helper()

	var body struct {
		ID *int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.ID)

	return *body.ID
}

func path(collection string, id int64) string {
	return "/api/" + collection + "/" + idString(id)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
