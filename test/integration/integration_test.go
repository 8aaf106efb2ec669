package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bahayahay/realty/internal/auth"
	"github.com/bahayahay/realty/internal/config"
	"github.com/bahayahay/realty/internal/inquiry"
	"github.com/bahayahay/realty/internal/listing"
	"github.com/bahayahay/realty/internal/quote"
	"github.com/bahayahay/realty/internal/server"
	"github.com/bahayahay/realty/pkg/estimate"
	"github.com/bahayahay/realty/pkg/testutil"
	"go.uber.org/zap"
)

// newStack wires the application the way `realty serve` does, with the
// sample catalogue in memory and inquiries going to the log.
func newStack(t *testing.T) (*config.Configuration, *httptest.Server) {
	t.Helper()
	logger := zap.NewNop()

	conf, err := config.LoadConfiguration("../test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if err := conf.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	store := listing.NewMemoryStore()
	store.Seed(listing.SampleCatalogue())

	handler := server.NewHandler(server.Dependencies{
		Logger:    logger,
		Version:   "integration",
		Store:     store,
		Quotes:    quote.NewService(store, conf.Rates, logger),
		Inquiries: inquiry.NewService(inquiry.NewLogMailer(logger), store, inquiry.Recipients{}, logger),
		Auth: auth.NewService(auth.Config{
			AdminUsername: conf.Auth.AdminUsername,
			AdminPassword: conf.Auth.AdminPassword,
			Secret:        conf.Auth.JWTSecret,
			TTL:           conf.Auth.TokenTTL,
		}),
	})
	ts := httptest.NewServer(handler)
	t.Cleanup(func() {
		ts.Close()
		handler.Close()
	})
	return conf, ts
}

func postEstimate(t *testing.T, ts *httptest.Server, body string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/estimate", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/estimate failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

// TestScenarioBaseline checks the reference scenarios against the configured
// rate tables, end to end through the HTTP API.
func TestScenarioBaseline(t *testing.T) {
	conf, ts := newStack(t)

	// Scenario A: option 1 spreads the down payment less reservation over 12 months.
	status, resp := postEstimate(t, ts, `{"price": "2,000,000", "propertyOption": "nur_house_lot", "downPaymentPercent": 20, "mode": "summary"}`)
	if status != http.StatusOK {
		t.Fatalf("scenario A: expected 200, got %d: %v", status, resp)
	}
	if resp["option1Monthly"] != "31250" {
		t.Errorf("scenario A: option1Monthly = %v, expected 31250", resp["option1Monthly"])
	}

	// Scenario B: the in-house 15 year figures come from the default table.
	est := estimate.Compute(estimate.Request{
		Price:              testutil.Decimal("2000000"),
		PropertyOption:     estimate.NURHouseLot,
		DownPaymentPercent: 20,
	}, conf.Rates)
	inHouse := testutil.FindTrack(est, testutil.TrackInHouse)
	if got := inHouse.Monthly[15]; !testutil.EqualCurrency("13718.77", got) {
		t.Errorf("scenario B: monthly = %s, expected 13718.77", got)
	}
	if got := inHouse.RequiredIncome[15]; !testutil.EqualCurrency("34296.91", got) {
		t.Errorf("scenario B: required income = %s, expected 34296.91", got)
	}

	// Scenario C: a balance above the Pag-IBIG cap leaves a remainder for the developer.
	status, resp = postEstimate(t, ts, `{"price": 3000000, "propertyOption": "nur_lot_only", "downPaymentPercent": 20}`)
	if status != http.StatusOK {
		t.Fatalf("scenario C: expected 200, got %d: %v", status, resp)
	}
	if resp["hasRemainingAmount"] != true || resp["remainingForDeveloper"] != "1400000" {
		t.Errorf("scenario C: remaining = %v / %v, expected true / 1400000", resp["hasRemainingAmount"], resp["remainingForDeveloper"])
	}
	if resp["reservationFee"] != "12000" {
		t.Errorf("scenario C: configured reservation fee not applied, got %v", resp["reservationFee"])
	}
	if _, ok := resp["pagibigMax"]; !ok {
		t.Error("scenario C: expected a max loanable track")
	}

	// Scenario D: a null cap never leaves a remainder.
	status, resp = postEstimate(t, ts, `{"price": "50000000", "propertyOption": "palm_house_lot", "downPaymentPercent": 20}`)
	if status != http.StatusOK {
		t.Fatalf("scenario D: expected 200, got %d: %v", status, resp)
	}
	if resp["hasRemainingAmount"] != false {
		t.Errorf("scenario D: expected no remaining amount, got %v", resp["hasRemainingAmount"])
	}
	if _, ok := resp["pagibigMax"]; ok {
		t.Error("scenario D: expected no max loanable track")
	}
	if resp["pagibigMaxLoanAmount"] != nil {
		t.Errorf("scenario D: expected null max loan, got %v", resp["pagibigMaxLoanAmount"])
	}
}

// TestConfiguredTablesReachTheAPI checks that settings from the config file
// replace their defaults wholesale.
func TestConfiguredTablesReachTheAPI(t *testing.T) {
	_, ts := newStack(t)

	status, resp := postEstimate(t, ts, `{"price": "2000000", "downPaymentPercent": 25}`)
	if status != http.StatusBadRequest {
		t.Errorf("expected 25%% down payment to be rejected, got %d: %v", status, resp)
	}

	status, resp = postEstimate(t, ts, `{"price": "2000000", "downPaymentPercent": 30}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, resp)
	}
	bank, ok := resp["bank"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing bank track in %v", resp)
	}
	monthly, _ := bank["monthly"].(map[string]interface{})
	if len(monthly) != 2 {
		t.Errorf("expected the configured 2-term bank table, got %v", monthly)
	}
}

// TestListingQuoteFlow walks a visitor from a listing to a printable report.
func TestListingQuoteFlow(t *testing.T) {
	_, ts := newStack(t)

	resp, err := http.Get(ts.URL + "/api/units/queenie-72-basic")
	if err != nil {
		t.Fatalf("GET unit failed: %v", err)
	}
	var unit listing.Unit
	if err := json.NewDecoder(resp.Body).Decode(&unit); err != nil {
		t.Fatalf("failed to decode unit: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/estimate/report?unit=" + unit.ID + "&agent=a20-2&client=Maria")
	if err != nil {
		t.Fatalf("GET report failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	body := string(data)
	for _, want := range []string{unit.DisplayName(), "Armando L. Aman", "Maria", "₱2,060,000.00"} {
		if !strings.Contains(body, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

// TestAdminEditsAreVisibleToQuotes checks that an admin price change is used
// by the next quote for that unit.
func TestAdminEditsAreVisibleToQuotes(t *testing.T) {
	conf, ts := newStack(t)

	login := `{"username": "` + conf.Auth.AdminUsername + `", "password": "` + conf.Auth.AdminPassword + `"}`
	resp, err := http.Post(ts.URL+"/api/admin/login", "application/json", strings.NewReader(login))
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	var token struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil || token.Token == "" {
		t.Fatalf("expected a token, got %v (%v)", token, err)
	}
	resp.Body.Close()

	update := `{"seriesId": "jade-45", "name": "Basic Package", "seriesName": "Jade 45", "price": "1800000"}`
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPut, ts.URL+"/api/admin/units/jade-45-basic", strings.NewReader(update))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.Token)
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT unit failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/estimate?unit=jade-45-basic&mode=summary")
	if err != nil {
		t.Fatalf("GET estimate failed: %v", err)
	}
	defer resp.Body.Close()
	var quoted struct {
		Estimate struct {
			Price string `json:"price"`
		} `json:"estimate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&quoted); err != nil {
		t.Fatalf("failed to decode quote: %v", err)
	}
	if quoted.Estimate.Price != "1800000" {
		t.Errorf("expected the updated price, got %s", quoted.Estimate.Price)
	}
}
