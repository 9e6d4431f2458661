package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

const defaultFinMindURL = "https://api.finmindtrade.com/api/v4/data"

// FinMind datasets.
const (
	datasetFlows     = "TaiwanStockInstitutionalInvestorsBuySell"
	datasetMargin    = "TaiwanStockMarginPurchaseShortSale"
	datasetOwnership = "TaiwanStockHoldingSharesPer"
)

// finMindActors maps FinMind investor names onto actor categories.
var finMindActors = map[string]model.Actor{
	"Foreign_Investor":    model.ForeignInvestor,
	"Foreign_Dealer_Self": model.ForeignDealerSelf,
	"Investment_Trust":    model.InvestmentTrust,
	"Dealer_self":         model.DealerSelf,
	"Dealer_Hedging":      model.DealerHedging,
}

// holdingLevels lists TDCC holding-size bands in ascending order; the
// index+1 is the band level.
var holdingLevels = []string{
	"1-999",
	"1,000-5,000",
	"5,001-10,000",
	"10,001-15,000",
	"15,001-20,000",
	"20,001-30,000",
	"30,001-40,000",
	"40,001-50,000",
	"50,001-100,000",
	"100,001-200,000",
	"200,001-400,000",
	"400,001-600,000",
	"600,001-800,000",
	"800,001-1,000,000",
	"more than 1,000,001",
}

func holdingLevel(name string) (int, bool) {
	for i, l := range holdingLevels {
		if l == name {
			return i + 1, true
		}
	}
	return 0, false
}

// FinMindSource implements ChipSource using the FinMind v4 data API.
type FinMindSource struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewFinMindSource creates a new FinMind client with optional proxy support.
// An empty token uses the anonymous quota.
func NewFinMindSource(token, proxyURL string) *FinMindSource {
	return &FinMindSource{
		BaseURL: defaultFinMindURL,
		Token:   token,
		Client:  newHTTPClient(proxyURL),
	}
}

func (s *FinMindSource) Name() string { return "finmind" }

type finMindResponse struct {
	Msg    string          `json:"msg"`
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type finMindFlow struct {
	Date string  `json:"date"`
	Name string  `json:"name"`
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

type finMindMargin struct {
	Date          string  `json:"date"`
	MarginBalance float64 `json:"MarginPurchaseTodayBalance"`
	ShortBalance  float64 `json:"ShortSaleTodayBalance"`
}

type finMindHolding struct {
	Date    string  `json:"date"`
	Level   string  `json:"HoldingSharesLevel"`
	Percent float64 `json:"percent"`
}

func (s *FinMindSource) FetchFlows(ctx context.Context, stockID string, start time.Time) ([]model.FlowRecord, error) {
	var rows []finMindFlow
	if err := s.fetch(ctx, datasetFlows, stockID, start, &rows); err != nil {
		return nil, err
	}
	out := make([]model.FlowRecord, 0, len(rows))
	for _, r := range rows {
		d, err := parseDay(r.Date)
		if err != nil {
			return nil, fmt.Errorf("finmind %s: %w", datasetFlows, err)
		}
		actor, ok := finMindActors[r.Name]
		if !ok {
			actor = model.Actor(r.Name)
		}
		out = append(out, model.FlowRecord{Date: d, Actor: actor, Buy: r.Buy, Sell: r.Sell})
	}
	return out, nil
}

func (s *FinMindSource) FetchMargin(ctx context.Context, stockID string, start time.Time) ([]model.MarginRecord, error) {
	var rows []finMindMargin
	if err := s.fetch(ctx, datasetMargin, stockID, start, &rows); err != nil {
		return nil, err
	}
	out := make([]model.MarginRecord, 0, len(rows))
	for _, r := range rows {
		d, err := parseDay(r.Date)
		if err != nil {
			return nil, fmt.Errorf("finmind %s: %w", datasetMargin, err)
		}
		out = append(out, model.MarginRecord{Date: d, MarginBalance: r.MarginBalance, ShortBalance: r.ShortBalance})
	}
	return out, nil
}

func (s *FinMindSource) FetchOwnership(ctx context.Context, stockID string, start time.Time) ([]model.OwnershipBand, error) {
	var rows []finMindHolding
	if err := s.fetch(ctx, datasetOwnership, stockID, start, &rows); err != nil {
		return nil, err
	}
	out := make([]model.OwnershipBand, 0, len(rows))
	for _, r := range rows {
		level, ok := holdingLevel(r.Level)
		if !ok {
			// totals and adjustment rows
			continue
		}
		d, err := parseDay(r.Date)
		if err != nil {
			return nil, fmt.Errorf("finmind %s: %w", datasetOwnership, err)
		}
		out = append(out, model.OwnershipBand{Date: d, Level: level, Percent: r.Percent})
	}
	return out, nil
}

func (s *FinMindSource) fetch(ctx context.Context, dataset, stockID string, start time.Time, out interface{}) error {
	q := url.Values{}
	q.Set("dataset", dataset)
	q.Set("data_id", stockID)
	q.Set("start_date", start.Format("2006-01-02"))
	endpoint := s.BaseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("finmind %s: %w", dataset, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("finmind %s: status %d, body: %s", dataset, resp.StatusCode, truncate(body, 200))
	}

	var env finMindResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("finmind %s decode: %w", dataset, err)
	}
	if env.Status != http.StatusOK {
		return fmt.Errorf("finmind %s: api status %d: %s", dataset, env.Status, env.Msg)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("finmind %s decode data: %w", dataset, err)
	}
	log.Debug().Str("dataset", dataset).Str("stock_id", stockID).Msg("finmind data fetched")
	return nil
}

func parseDay(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
