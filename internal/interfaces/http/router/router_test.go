package router

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hapkiduki/freight-go/internal/application/dto"
	"github.com/hapkiduki/freight-go/internal/application/port"
	"github.com/hapkiduki/freight-go/internal/application/service"
	"github.com/hapkiduki/freight-go/internal/infrastructure/persistance/sqlite"
	"github.com/hapkiduki/freight-go/internal/interfaces/http/handler"
	"github.com/hapkiduki/freight-go/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomSource(values ...uint32) *bytes.Reader {
	buf := make([]byte, 0, 4*len(values))
	for _, v := range values {
		buf = binary.BigEndian.AppendUint32(buf, v)
	}
	return bytes.NewReader(buf)
}

func newTestServer(t *testing.T, values ...uint32) *httptest.Server {
	t.Helper()
	repo, err := sqlite.Open(filepath.Join(t.TempDir(), "freight.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	gen := service.NewTrackingNumberGenerator(repo, service.WithRandomSource(randomSource(values...)))
	svc := service.NewShipmentService(repo, gen, service.DefaultFreightSettings(), 0, nil)

	h := New(
		Config{
			Version:            "test",
			CORSAllowedOrigins: []string{"*"},
			RequestTimeout:     5 * time.Second,
			MaxRequestSize:     1 << 16,
		},
		port.NopLogger{},
		handler.NewShipmentHandler(svc, nil),
		handler.NewHealthHandler("test", map[string]handler.Pinger{"database": repo}),
	)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestRouter_ShipmentLifecycle(t *testing.T) {
	srv := newTestServer(t, 12345678)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/v1/shipments", `{
		"sender_name": "Acme Ltd",
		"receiver_name": "Jane Roe",
		"origin": "Dubai",
		"destination": "Bogota",
		"weight": 10,
		"dimensions": "100cm × 50cm × 30cm"
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	assert.Equal(t, "test", resp.Header.Get("X-API-Version"))

	var created dto.APIResponse[dto.ShipmentResponse]
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "WW123456782", created.Data.TrackingNumber)
	assert.Equal(t, "100 x 50 x 30", created.Data.Measurements.Dimensions)
	assert.Equal(t, 0.15, created.Data.Measurements.CBM)
	assert.Equal(t, 30.0, created.Data.Measurements.ChargeableWeight)
	assert.True(t, created.Data.Measurements.IsDimensional)
	require.NotNil(t, created.Meta)
	assert.Equal(t, resp.Header.Get(middleware.RequestIDHeader), created.Meta.RequestID)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/track/WW123456782", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/track/WW123456783", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/track/WW000000000", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	statusURL := srv.URL + "/api/v1/shipments/" + created.Data.ID + "/status"
	resp, body = do(t, http.MethodPatch, statusURL, `{"status":"in_transit"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, _ = do(t, http.MethodPatch, statusURL, `{"status":"pending"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/v1/shipments?status=in_transit", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page dto.APIResponse[dto.PaginateResponse[dto.ShipmentResponse]]
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, int64(1), page.Data.Total)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/api/v1/shipments/"+created.Data.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/shipments/"+created.Data.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_CreateRejectsBadDimensions(t *testing.T) {
	srv := newTestServer(t, 12345678)

	for _, dims := range []string{"100 x 50", "400 x 50 x 30", "0 x 1 x 1"} {
		resp, body := do(t, http.MethodPost, srv.URL+"/api/v1/shipments",
			`{"sender_name":"a","receiver_name":"b","origin":"c","destination":"d","weight":1,"dimensions":"`+dims+`"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, dims)

		var r dto.APIResponse[json.RawMessage]
		require.NoError(t, json.Unmarshal(body, &r))
		require.NotNil(t, r.Error)
		assert.Equal(t, dto.CodeValidation, r.Error.Code)
	}
}

func TestRouter_TrackingNumberExhausted(t *testing.T) {
	values := make([]uint32, 1+service.DefaultMaxAttempts)
	for i := range values {
		values[i] = 12345678
	}
	srv := newTestServer(t, values...)
	body := `{"sender_name":"a","receiver_name":"b","origin":"c","destination":"d","weight":1}`

	resp, _ := do(t, http.MethodPost, srv.URL+"/api/v1/shipments", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := do(t, http.MethodPost, srv.URL+"/api/v1/shipments", body)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var r dto.APIResponse[json.RawMessage]
	require.NoError(t, json.Unmarshal(raw, &r))
	require.NotNil(t, r.Error)
	assert.Equal(t, dto.CodeTrackingExhausted, r.Error.Code)
}

func TestRouter_Quote(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/v1/measurements/quote",
		`{"weight":12,"dimensions":"60 x 40 x 30","freight_mode":"express"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var q dto.APIResponse[dto.QuoteResponse]
	require.NoError(t, json.Unmarshal(body, &q))
	assert.Equal(t, "express", q.Data.FreightMode)
	assert.Equal(t, 5000.0, q.Data.Divisor)
	assert.Equal(t, 0.072, q.Data.Measurements.CBM)
	assert.Equal(t, 14.4, q.Data.Measurements.DimensionalWeight)
	assert.Equal(t, 14.4, q.Data.Measurements.ChargeableWeight)
}

func TestRouter_RejectsOutOfRangeAmounts(t *testing.T) {
	srv := newTestServer(t, 12345678)

	tests := []struct {
		name string
		path string
		body string
	}{
		{
			name: "declared value overflows cents",
			path: "/api/v1/shipments",
			body: `{"sender_name":"a","receiver_name":"b","origin":"c","destination":"d","weight":1,"declared_value":1e30}`,
		},
		{
			name: "shipment weight above maximum",
			path: "/api/v1/shipments",
			body: `{"sender_name":"a","receiver_name":"b","origin":"c","destination":"d","weight":1e30}`,
		},
		{
			name: "quote weight above maximum",
			path: "/api/v1/measurements/quote",
			body: `{"weight":1e30,"dimensions":"10 x 10 x 10"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, srv.URL+tt.path, tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, string(body))

			var r dto.APIResponse[json.RawMessage]
			require.NoError(t, json.Unmarshal(body, &r))
			require.NotNil(t, r.Error)
			assert.Equal(t, dto.CodeValidation, r.Error.Code)
		})
	}

	resp, body := do(t, http.MethodGet, srv.URL+"/api/v1/shipments", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page dto.APIResponse[dto.PaginateResponse[dto.ShipmentResponse]]
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Zero(t, page.Data.Total)
}

func TestRouter_Probes(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, http.MethodGet, srv.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/ready", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodPut, srv.URL+"/api/v1/shipments", "{}")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRouter_RequiresJSON(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/measurements/quote", strings.NewReader("weight=1"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}
