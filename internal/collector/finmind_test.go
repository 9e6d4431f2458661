package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

func finMindServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2330", q.Get("data_id"))
		assert.Equal(t, "2024-03-01", q.Get("start_date"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var data string
		switch q.Get("dataset") {
		case datasetFlows:
			data = `[
			  {"date":"2024-03-04","stock_id":"2330","buy":1000,"name":"Foreign_Investor","sell":400},
			  {"date":"2024-03-04","stock_id":"2330","buy":10,"name":"Dealer_self","sell":30},
			  {"date":"2024-03-04","stock_id":"2330","buy":5,"name":"Foreign_Dealer_Self","sell":0},
			  {"date":"2024-03-04","stock_id":"2330","buy":1,"name":"Retail","sell":0}]`
		case datasetMargin:
			data = `[{"date":"2024-03-04","stock_id":"2330","MarginPurchaseTodayBalance":15000,"ShortSaleTodayBalance":800}]`
		case datasetOwnership:
			data = `[
			  {"date":"2024-03-01","stock_id":"2330","HoldingSharesLevel":"1-999","people":10,"percent":2.5,"unit":100},
			  {"date":"2024-03-01","stock_id":"2330","HoldingSharesLevel":"more than 1,000,001","people":1,"percent":70.1,"unit":9},
			  {"date":"2024-03-01","stock_id":"2330","HoldingSharesLevel":"total","people":11,"percent":100,"unit":109}]`
		default:
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fmt.Fprintf(w, `{"msg":"success","status":200,"data":%s}`, data)
	}))
}

func TestFinMindSource(t *testing.T) {
	srv := finMindServer(t)
	defer srv.Close()

	s := NewFinMindSource("secret", "")
	s.BaseURL = srv.URL
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	flows, err := s.FetchFlows(ctx, "2330", start)
	require.NoError(t, err)
	require.Len(t, flows, 4)
	assert.Equal(t, model.ForeignInvestor, flows[0].Actor)
	assert.Equal(t, model.DealerSelf, flows[1].Actor)
	assert.Equal(t, model.ForeignDealerSelf, flows[2].Actor)
	assert.False(t, flows[3].Actor.Known())
	assert.Equal(t, "2024-03-04", flows[0].Date.Format("2006-01-02"))

	margin, err := s.FetchMargin(ctx, "2330", start)
	require.NoError(t, err)
	require.Len(t, margin, 1)
	assert.Equal(t, 15000.0, margin[0].MarginBalance)
	assert.Equal(t, 800.0, margin[0].ShortBalance)

	bands, err := s.FetchOwnership(ctx, "2330", start)
	require.NoError(t, err)
	require.Len(t, bands, 2)
	assert.Equal(t, 1, bands[0].Level)
	assert.Equal(t, 15, bands[1].Level)
	assert.Equal(t, 70.1, bands[1].Percent)
}

func TestFinMindSource_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dataset") == datasetMargin {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"msg":"Requests reach the upper limit","status":402}`))
	}))
	defer srv.Close()

	s := NewFinMindSource("", "")
	s.BaseURL = srv.URL

	_, err := s.FetchFlows(context.Background(), "2330", time.Now())
	assert.ErrorContains(t, err, "upper limit")

	_, err = s.FetchMargin(context.Background(), "2330", time.Now())
	assert.ErrorContains(t, err, "status 503")
}
