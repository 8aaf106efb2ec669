// Package listing stores the site catalogue: model house series and their
// units, lot-only properties, referral agents and developers.
package listing

import (
	"context"
	"errors"
	"strings"

	"github.com/bahayahay/realty/pkg/estimate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("listing: not found")

// Kind names a record collection. Cache keys and invalidation are per kind.
type Kind string

const (
	KindSeries     Kind = "series"
	KindUnits      Kind = "units"
	KindLotOnly    Kind = "lot-only"
	KindAgents     Kind = "agents"
	KindDevelopers Kind = "developers"
)

// Series is a model house design offered across one or more units.
type Series struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	FloorArea       string                  `json:"floorArea"`
	LoftReady       bool                    `json:"loftReady"`
	Description     string                  `json:"description"`
	LongDescription string                  `json:"longDescription"`
	Features        []string                `json:"features"`
	Specifications  map[string]string       `json:"specifications"`
	BasePrice       decimal.Decimal         `json:"basePrice"`
	FloorPlanImage  string                  `json:"floorPlanImage"`
	ImageURL        string                  `json:"imageUrl"`
	Developer       string                  `json:"developer"`
	Project         string                  `json:"project"`
	PropertyOption  estimate.PropertyOption `json:"propertyOption"`
}

// Unit is a specific house and lot for sale.
type Unit struct {
	ID                     string                  `json:"id"`
	SeriesID               string                  `json:"seriesId"`
	Name                   string                  `json:"name"`
	SeriesName             string                  `json:"seriesName"`
	Description            string                  `json:"description"`
	Price                  decimal.Decimal         `json:"price"`
	LotOnlyPrice           decimal.Decimal         `json:"lotOnlyPrice"`
	HouseConstructionPrice decimal.Decimal         `json:"houseConstructionPrice"`
	Location               string                  `json:"location"`
	Status                 string                  `json:"status"`
	IsRFO                  bool                    `json:"isRfo"`
	Features               []string                `json:"features"`
	FloorPlanImage         string                  `json:"floorPlanImage"`
	ImageURL               string                  `json:"imageUrl"`
	LotArea                string                  `json:"lotArea"`
	FloorArea              string                  `json:"floorArea"`
	CompletionDate         string                  `json:"completionDate"`
	ConstructionProgress   int                     `json:"constructionProgress"`
	PropertyOption         estimate.PropertyOption `json:"propertyOption,omitempty"`
}

// LotOnly is a residential lot sold without a house.
type LotOnly struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description"`
	Price           decimal.Decimal         `json:"price"`
	PropertyOption  estimate.PropertyOption `json:"propertyOption"`
	Location        string                  `json:"location"`
	Project         string                  `json:"project"`
	Developer       string                  `json:"developer"`
	Status          string                  `json:"status"`
	LotArea         string                  `json:"lotArea"`
	Features        []string                `json:"features"`
	ImageURL        string                  `json:"imageUrl"`
	Zoning          string                  `json:"zoning"`
	Utilities       []string                `json:"utilities"`
	NearbyAmenities []string                `json:"nearbyAmenities"`
}

// Agent is a referring salesperson or broker.
type Agent struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Brokerage      string `json:"brokerage"`
	Classification string `json:"classification"`
	Team           string `json:"team"`
}

// Developer builds one or more projects.
type Developer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// DeveloperProject is a community built by a developer.
type DeveloperProject struct {
	ID           string `json:"id"`
	DeveloperID  string `json:"developerId"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	PropertyType string `json:"propertyType"`
	LotArea      string `json:"lotArea"`
	Status       string `json:"status"`
	ImageURL     string `json:"imageUrl"`
}

// Store is the record store behind the site. Every Get and Delete of a
// missing record returns ErrNotFound. Save upserts; an empty ID is assigned.
type Store interface {
	ListSeries(ctx context.Context) ([]Series, error)
	GetSeries(ctx context.Context, id string) (Series, error)
	SaveSeries(ctx context.Context, s Series) (Series, error)
	DeleteSeries(ctx context.Context, id string) error

	ListUnits(ctx context.Context) ([]Unit, error)
	ListUnitsBySeries(ctx context.Context, seriesID string) ([]Unit, error)
	GetUnit(ctx context.Context, id string) (Unit, error)
	SaveUnit(ctx context.Context, u Unit) (Unit, error)
	DeleteUnit(ctx context.Context, id string) error

	ListLotOnly(ctx context.Context) ([]LotOnly, error)
	GetLotOnly(ctx context.Context, id string) (LotOnly, error)
	SaveLotOnly(ctx context.Context, l LotOnly) (LotOnly, error)
	DeleteLotOnly(ctx context.Context, id string) error

	ListAgents(ctx context.Context) ([]Agent, error)
	// GetAgent matches the id case-insensitively; referral tags are typed by hand.
	GetAgent(ctx context.Context, id string) (Agent, error)
	SaveAgent(ctx context.Context, a Agent) (Agent, error)
	DeleteAgent(ctx context.Context, id string) error

	ListDevelopers(ctx context.Context) ([]Developer, error)
	// ListDeveloperProjects returns every project when developerID is empty.
	ListDeveloperProjects(ctx context.Context, developerID string) ([]DeveloperProject, error)
}

// Pinger is implemented by stores backed by a remote database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ResolveOption returns the property option used to price the unit. A unit
// without its own option inherits the series' house-and-lot option.
func (u Unit) ResolveOption(series *Series) estimate.PropertyOption {
	if u.PropertyOption != "" {
		return u.PropertyOption
	}
	if series != nil && series.PropertyOption != "" {
		return series.PropertyOption
	}
	return estimate.DefaultOption
}

// DisplayName is the unit name as shown on quotes, e.g. "Queenie 72 - Basic Package".
func (u Unit) DisplayName() string {
	if u.SeriesName == "" {
		return u.Name
	}
	return u.SeriesName + " - " + u.Name
}

func assignID(id string) string {
	if strings.TrimSpace(id) == "" {
		return uuid.NewString()
	}
	return id
}

func agentKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
