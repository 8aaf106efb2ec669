// Package quote prepares estimates for the calculator and the printable
// report. A quote may start from a listed unit or lot, which supplies the
// price, property option, name and image unless the caller overrides them.
package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bahayahay/realty/internal/listing"
	"github.com/bahayahay/realty/pkg/estimate"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrInvalidPrice means the price is missing, malformed or not positive.
	ErrInvalidPrice = errors.New("price must be a positive number")
	// ErrInvalidDownPayment means the percentage is not one of the offered choices.
	ErrInvalidDownPayment = errors.New("down payment percent is not offered")
	// ErrInvalidPropertyOption means the option is outside the known set.
	ErrInvalidPropertyOption = errors.New("unknown property option")
	// ErrListingNotFound means the requested unit or lot does not exist.
	ErrListingNotFound = errors.New("listing not found")
)

// Input is a quote request. Every field is optional except that a price must
// come from either Price or the referenced listing.
type Input struct {
	UnitID             string
	LotID              string
	Price              string
	PropertyOption     string
	DownPaymentPercent int
	AgentID            string
	ClientName         string
	UnitName           string
	UnitImage          string
}

// Quote is an estimate plus what the report shows around it.
type Quote struct {
	Estimate      *estimate.Estimate `json:"estimate"`
	UnitName      string             `json:"unitName,omitempty"`
	UnitImage     string             `json:"unitImage,omitempty"`
	PreparedFor   string             `json:"preparedFor,omitempty"`
	PreparedBy    string             `json:"preparedBy,omitempty"`
	PropertyLabel string             `json:"propertyLabel"`
	GeneratedAt   time.Time          `json:"generatedAt"`
}

// Service builds quotes against a listing store and a rate configuration.
type Service struct {
	store  listing.Store
	rates  estimate.RateConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewService returns a quote service. A nil logger discards logs.
func NewService(store listing.Store, rates estimate.RateConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, rates: rates, logger: logger, now: time.Now}
}

// Rates returns the rate configuration quotes are computed with.
func (s *Service) Rates() estimate.RateConfig {
	return s.rates
}

// listingDefaults is what a referenced unit or lot contributes to a quote.
type listingDefaults struct {
	price  decimal.Decimal
	option estimate.PropertyOption
	name   string
	image  string
}

// Prepare resolves the input against the listing store and computes the estimate.
func (s *Service) Prepare(ctx context.Context, in Input) (*Quote, error) {
	defaults, err := s.lookupListing(ctx, in)
	if err != nil {
		return nil, err
	}

	price := defaults.price
	if strings.TrimSpace(in.Price) != "" {
		parsed, ok := estimate.ParsePrice(in.Price)
		if !ok {
			return nil, ErrInvalidPrice
		}
		price = parsed
	}
	if !price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	option := defaults.option
	if strings.TrimSpace(in.PropertyOption) != "" {
		parsed, ok := estimate.ParsePropertyOption(in.PropertyOption)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPropertyOption, in.PropertyOption)
		}
		option = parsed
	}
	if option == "" {
		option = estimate.DefaultOption
	}

	downPayment := in.DownPaymentPercent
	if downPayment == 0 && len(s.rates.DownPaymentPercentOptions) > 0 {
		downPayment = s.rates.DownPaymentPercentOptions[0]
	}
	if !s.rates.AllowsDownPayment(downPayment) {
		return nil, fmt.Errorf("%w: %d%%", ErrInvalidDownPayment, downPayment)
	}

	est := estimate.Compute(estimate.Request{
		Price:              price,
		PropertyOption:     option,
		DownPaymentPercent: downPayment,
	}, s.rates)
	if est == nil {
		return nil, ErrInvalidPrice
	}

	q := &Quote{
		Estimate:      est,
		UnitName:      firstNonEmpty(in.UnitName, defaults.name),
		UnitImage:     firstNonEmpty(in.UnitImage, defaults.image),
		PreparedFor:   strings.TrimSpace(in.ClientName),
		PreparedBy:    s.agentName(ctx, in.AgentID),
		PropertyLabel: option.Label(),
		GeneratedAt:   s.now(),
	}
	return q, nil
}

func (s *Service) lookupListing(ctx context.Context, in Input) (listingDefaults, error) {
	switch {
	case in.UnitID != "":
		unit, err := s.store.GetUnit(ctx, in.UnitID)
		if err != nil {
			return listingDefaults{}, listingError("unit", in.UnitID, err)
		}
		var series *listing.Series
		found, err := s.store.GetSeries(ctx, unit.SeriesID)
		switch {
		case err == nil:
			series = &found
		case !errors.Is(err, listing.ErrNotFound):
			return listingDefaults{}, fmt.Errorf("failed to load series %s: %w", unit.SeriesID, err)
		}
		return listingDefaults{
			price:  unit.Price,
			option: unit.ResolveOption(series),
			name:   unit.DisplayName(),
			image:  unit.ImageURL,
		}, nil

	case in.LotID != "":
		lot, err := s.store.GetLotOnly(ctx, in.LotID)
		if err != nil {
			return listingDefaults{}, listingError("lot", in.LotID, err)
		}
		return listingDefaults{
			price:  lot.Price,
			option: lot.PropertyOption,
			name:   lot.Name,
			image:  lot.ImageURL,
		}, nil
	}
	return listingDefaults{}, nil
}

func listingError(kind, id string, err error) error {
	if errors.Is(err, listing.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrListingNotFound, kind, id)
	}
	return fmt.Errorf("failed to load %s %s: %w", kind, id, err)
}

// agentName returns the referring agent's name, or "" when the id is empty
// or unknown. Referral tags are hand-typed, so a miss is only logged.
func (s *Service) agentName(ctx context.Context, id string) string {
	if strings.TrimSpace(id) == "" {
		return ""
	}
	agent, err := s.store.GetAgent(ctx, id)
	if err != nil {
		s.logger.Info("ignoring unknown referral agent",
			zap.String("op", "quote.Prepare"),
			zap.String("agent", id),
			zap.Error(err),
		)
		return ""
	}
	return agent.Name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
