package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flokiorg/lokilsp/logger"
	"github.com/flokiorg/lokilsp/lsps/lsps1"
)

func setupTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	website := "https://lsp.example.com"
	cfg := &lsps1.ServiceConfig{
		Website: &website,
		SupportedOptions: &lsps1.Options{
			MinRequiredChannelConfirmations: 1,
			MaxChannelExpiryBlocks:          12960,
		},
	}

	e := echo.New()
	svc := NewHttpService(nil, cfg)
	svc.RegisterRoutes(e)
	return e
}

func doGet(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHttpService_Info(t *testing.T) {
	e := setupTestServer(t)

	rec := doGet(e, "/api/lsps1/info")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp infoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "https://lsp.example.com", resp.Website)
	require.NotNil(t, resp.SupportedOptions)
	assert.Equal(t, uint32(12960), resp.SupportedOptions.MaxChannelExpiryBlocks)
}

func TestHttpService_GetLog(t *testing.T) {
	workdir := t.TempDir()
	logger.Init("4")
	require.NoError(t, logger.AddFileLogger(workdir))

	logger.Logger.Info().Msg("http log endpoint marker")

	e := setupTestServer(t)

	rec := doGet(e, "/api/log")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp logResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Log, "http log endpoint marker")
}

func TestReadFileTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tail.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("a", 100)+"TAIL"), 0o600))

	data, err := readFileTail(path, 4)
	require.NoError(t, err)
	assert.Equal(t, "TAIL", string(data))

	// maxLen larger than the file returns everything
	data, err = readFileTail(path, 1000)
	require.NoError(t, err)
	assert.Len(t, data, 104)
}
