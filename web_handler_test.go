package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/sales_insights/domain/models"
	"github.com/pivolan/sales_insights/insight"
	"github.com/pivolan/sales_insights/normalize"
)

const wantSummary = "Total Sales: $180, Average Sales: $60.00, Top Region: East, Top Product: Kite"

func TestIndexGet(t *testing.T) {
	router := newRouter(testService(t), testLogger())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Dynamic Graph Generator")
	assert.Contains(t, body, wantSummary)
	assert.Contains(t, body, `src="/chart?q="`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestIndexPost(t *testing.T) {
	router := newRouter(testService(t), testLogger())
	form := url.Values{"user_input": {"compare region sales"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="compare region sales"`)
	assert.Contains(t, body, "/chart?q=compare")
	assert.Contains(t, body, "Sales Comparison Across Regions")
}

func TestChartHTML(t *testing.T) {
	router := newRouter(testService(t), testLogger())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart?q=salesperson", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Sales by Salesperson")
}

func TestChartPNG(t *testing.T) {
	router := newRouter(testService(t), testLogger())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart.png?q=trend", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestChartPNGNoData(t *testing.T) {
	table, err := normalize.Normalize(models.RawTable{Columns: []string{"Product_Category", "Sales"}})
	require.NoError(t, err)
	router := newRouter(insight.New("empty", table), testLogger())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnswerAPI(t *testing.T) {
	router := newRouter(testService(t), testLogger())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/answer?q="+url.QueryEscape("How is customer satisfaction?"), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp answerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.IntentRatingByRegion, resp.Intent)
	assert.Equal(t, models.IntentRatingByRegion, resp.RenderedIntent)
	assert.Equal(t, "rating", resp.Rule)
	assert.False(t, resp.Fallback)
	assert.Equal(t, "bar", resp.Kind)
	assert.Equal(t, 2, resp.Rows)
	assert.Equal(t, wantSummary, resp.SummaryText)
	require.NotNil(t, resp.Summary.TotalSales)
	assert.Equal(t, 180.0, *resp.Summary.TotalSales)
	require.NotNil(t, resp.Summary.TopRegion)
	assert.Equal(t, "East", *resp.Summary.TopRegion)
}

func TestAnswerAPIUnavailableSummary(t *testing.T) {
	table, err := normalize.Normalize(models.RawTable{Columns: []string{"Region"}, Rows: [][]string{{"east"}}})
	require.NoError(t, err)
	router := newRouter(insight.New("regions", table), testLogger())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/answer?q=trend", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp answerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.IntentTimeTrend, resp.Intent)
	assert.Equal(t, models.IntentDefaultCategoryTotals, resp.RenderedIntent)
	assert.True(t, resp.Fallback)
	assert.Nil(t, resp.Summary.TotalSales)
	assert.Nil(t, resp.Summary.TopRegion)
	assert.Contains(t, rec.Body.String(), `"total_sales":null`)
}

func TestMethodNotAllowed(t *testing.T) {
	router := newRouter(testService(t), testLogger())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/chart", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAnswerAPICORS(t *testing.T) {
	router := newRouter(testService(t), testLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/answer?q=profit", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chart?q=profit", nil))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServeShutsDown(t *testing.T) {
	server := &http.Server{Addr: "127.0.0.1:0", Handler: newRouter(testService(t), testLogger())}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, server, testLogger()) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
