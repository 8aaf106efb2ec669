package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bahayahay/realty/internal/quote"
	"github.com/bahayahay/realty/internal/report"
	"github.com/bahayahay/realty/pkg/estimate"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// priceInput accepts a price as either a JSON string or a JSON number.
type priceInput string

func (p *priceInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = priceInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = priceInput(n.String())
	return nil
}

type estimateRequest struct {
	Price              priceInput `json:"price"`
	PropertyOption     string     `json:"propertyOption"`
	DownPaymentPercent int        `json:"downPaymentPercent"`
	Mode               string     `json:"mode"`
}

type quoteResponse struct {
	Estimate      interface{} `json:"estimate"`
	UnitName      string      `json:"unitName,omitempty"`
	UnitImage     string      `json:"unitImage,omitempty"`
	PreparedFor   string      `json:"preparedFor,omitempty"`
	PreparedBy    string      `json:"preparedBy,omitempty"`
	PropertyLabel string      `json:"propertyLabel"`
	GeneratedAt   time.Time   `json:"generatedAt"`
}

type optionInfo struct {
	Value          estimate.PropertyOption `json:"value"`
	Label          string                  `json:"label"`
	ReservationFee decimal.Decimal         `json:"reservationFee"`
	PagibigMaxLoan *decimal.Decimal        `json:"pagibigMaxLoan"`
}

type rateOptionsResponse struct {
	Options                   []optionInfo     `json:"options"`
	DownPaymentPercentOptions []int            `json:"downPaymentPercentOptions"`
	Terms                     map[string][]int `json:"terms"`
}

func (h *handler) handleRateOptions(w http.ResponseWriter, r *http.Request) {
	rates := h.quotes.Rates()

	resp := rateOptionsResponse{
		DownPaymentPercentOptions: rates.DownPaymentPercentOptions,
		Terms: map[string][]int{
			"inHouse":   rates.InHouseFactorRates.Terms(),
			"pagibig":   rates.PagibigFactorRates.Terms(),
			"remaining": rates.RemainingAmountFactorRates.Terms(),
			"bank":      rates.BankFactorRates.Terms(),
		},
	}
	for _, option := range estimate.Options() {
		resp.Options = append(resp.Options, optionInfo{
			Value:          option,
			Label:          option.Label(),
			ReservationFee: rates.ReservationFees[option],
			PagibigMaxLoan: rates.MaxLoan(option),
		})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEstimate"

	var req estimateRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	mode, err := estimate.ParseMode(req.Mode)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	q, err := h.quotes.Prepare(r.Context(), quote.Input{
		Price:              string(req.Price),
		PropertyOption:     req.PropertyOption,
		DownPaymentPercent: req.DownPaymentPercent,
	})
	if err != nil {
		h.respondQuoteError(w, err, op)
		return
	}

	h.metrics.observeEstimate(q.Estimate.PropertyOption.String())
	h.writeJSON(w, http.StatusOK, q.Estimate.View(mode))
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQuote"

	in, ok := h.quoteInput(w, r, op)
	if !ok {
		return
	}
	mode, err := estimate.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	q, err := h.quotes.Prepare(r.Context(), in)
	if err != nil {
		h.respondQuoteError(w, err, op)
		return
	}

	h.metrics.observeEstimate(q.Estimate.PropertyOption.String())
	h.writeJSON(w, http.StatusOK, quoteResponse{
		Estimate:      q.Estimate.View(mode),
		UnitName:      q.UnitName,
		UnitImage:     q.UnitImage,
		PreparedFor:   q.PreparedFor,
		PreparedBy:    q.PreparedBy,
		PropertyLabel: q.PropertyLabel,
		GeneratedAt:   q.GeneratedAt,
	})
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReport"

	in, ok := h.quoteInput(w, r, op)
	if !ok {
		return
	}
	q, err := h.quotes.Prepare(r.Context(), in)
	if err != nil {
		h.respondQuoteError(w, err, op)
		return
	}

	var buf bytes.Buffer
	if err := report.RenderHTML(&buf, q); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to render report", op)
		h.logger.Error("report rendering failed", zap.String("op", op), zap.Error(err))
		return
	}

	h.metrics.observeEstimate(q.Estimate.PropertyOption.String())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write report", zap.String("op", op), zap.Error(err))
	}
}

// quoteInput reads the calculator query parameters.
func (h *handler) quoteInput(w http.ResponseWriter, r *http.Request, op string) (quote.Input, bool) {
	query := r.URL.Query()
	in := quote.Input{
		UnitID:         query.Get("unit"),
		LotID:          query.Get("lot"),
		Price:          query.Get("price"),
		PropertyOption: query.Get("option"),
		AgentID:        query.Get("agent"),
		ClientName:     query.Get("client"),
		UnitName:       query.Get("unitName"),
		UnitImage:      query.Get("unitImage"),
	}
	if raw := strings.TrimSpace(query.Get("dp")); raw != "" {
		dp, err := strconv.Atoi(raw)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, "dp must be a whole number percentage", op)
			return quote.Input{}, false
		}
		in.DownPaymentPercent = dp
	}
	return in, true
}

func (h *handler) respondQuoteError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, quote.ErrInvalidPrice):
		h.respondErrorWithOp(w, http.StatusBadRequest, quote.ErrInvalidPrice.Error(), op)
	case errors.Is(err, quote.ErrInvalidDownPayment), errors.Is(err, quote.ErrInvalidPropertyOption):
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
	case errors.Is(err, quote.ErrListingNotFound):
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
	default:
		h.logger.Error("failed to prepare estimate", zap.String("op", op), zap.Error(err))
		h.respondErrorWithOp(w, http.StatusInternalServerError, "failed to prepare estimate", op)
	}
}
