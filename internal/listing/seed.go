package listing

import (
	"github.com/bahayahay/realty/pkg/estimate"
	"github.com/shopspring/decimal"
)

const (
	developerAman  = "aman-engineering"
	developerEnjoy = "enjoy-realty"

	nurProject      = "Parkview Naga Urban Residence"
	nurLocation     = "Parkview Naga Urban Residence, Zone 7, Brgy. San Felipe, Naga City"
	palmProject     = "Palm Village"
	palmLocation    = "Palm Village, Brgy. Concepcion Grande, Naga City"
	statusAvailable = "Available"
)

func peso(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// SampleCatalogue returns the catalogue a fresh memory store starts with.
func SampleCatalogue() Catalogue {
	return Catalogue{
		Series: []Series{
			{
				ID:          "queenie-72",
				Name:        "Queenie 72 Series",
				FloorArea:   "72 sqm",
				LoftReady:   true,
				Description: "A quadruplex unit with loft-ready design, perfect for small families or first-time homeowners.",
				Features: []string{
					"Loft-ready design",
					"Open layout ground floor",
					"Toilet and bath",
					"Provision for carport",
				},
				Specifications: map[string]string{
					"roofing":  "Hi-Corrugated Colored Roofing with C-purlins",
					"windows":  "Jalouplus window",
					"excluded": "Interior & Exterior Ceiling, Partition & Loft, Interior & Exterior painting",
				},
				BasePrice:      peso(1800000),
				FloorPlanImage: "/queenie-72-floor-plan.jpg",
				ImageURL:       "/queenie-72.jpg",
				Developer:      "Aman Engineering",
				Project:        nurProject,
				PropertyOption: estimate.NURHouseLot,
			},
			{
				ID:          "jade-45",
				Name:        "Jade 45 Series",
				FloorArea:   "45 sqm",
				LoftReady:   true,
				Description: "A compact rowhouse designed for starting families.",
				Features: []string{
					"Loft-ready design",
					"Living and dining area",
					"Toilet and bath",
				},
				BasePrice:      peso(1400000),
				FloorPlanImage: "/jade-45-floor-plan.jpg",
				ImageURL:       "/jade-45.jpg",
				Developer:      "Aman Engineering",
				Project:        nurProject,
				PropertyOption: estimate.NURHouseLot,
			},
		},
		Units: []Unit{
			{
				ID:          "queenie-72-basic",
				SeriesID:    "queenie-72",
				Name:        "Basic Package",
				SeriesName:  "Queenie 72",
				Description: "Essential features with quality construction at an affordable price point.",
				Price:       peso(2060000),
				Location:    nurLocation,
				Status:      statusAvailable,
				ImageURL:    "/queenie-72-basic.jpg",
			},
			{
				ID:          "queenie-72-complete-finished",
				SeriesID:    "queenie-72",
				Name:        "Complete with Finishing",
				SeriesName:  "Queenie 72",
				Description: "Move-in ready with complete finishing.",
				Price:       peso(2403000),
				Location:    nurLocation,
				Status:      "Fully Constructed",
				IsRFO:       true,
				ImageURL:    "/queenie-72-complete.jpg",
			},
			{
				ID:          "jade-45-basic",
				SeriesID:    "jade-45",
				Name:        "Basic Package",
				SeriesName:  "Jade 45",
				Description: "Essential features with quality construction at an affordable price point.",
				Price:       peso(1702000),
				Location:    nurLocation,
				Status:      statusAvailable,
				ImageURL:    "/jade-45-basic.jpg",
			},
		},
		LotOnly: []LotOnly{
			{
				ID:              "parkview-lot-1",
				Name:            "Parkview Residential Lot 1",
				Description:     "Prime residential lot in Parkview Naga Urban Residence, perfect for building your dream home.",
				Price:           peso(800000),
				PropertyOption:  estimate.NURLotOnly,
				Location:        nurLocation,
				Project:         nurProject,
				Developer:       "Aman Engineering",
				Status:          statusAvailable,
				LotArea:         "100 sqm",
				Features:        []string{"Flat terrain", "Regular shape", "Ready for construction"},
				ImageURL:        "/residential-lot-parkview.jpg",
				Zoning:          "Residential",
				Utilities:       []string{"Water", "Electricity", "Internet", "Drainage"},
				NearbyAmenities: []string{"School", "Market", "Hospital"},
			},
			{
				ID:              "parkview-lot-3",
				Name:            "Parkview Residential Lot 3",
				Description:     "Spacious corner lot near the clubhouse.",
				Price:           peso(1200000),
				PropertyOption:  estimate.NURLotOnly,
				Location:        nurLocation,
				Project:         nurProject,
				Developer:       "Aman Engineering",
				Status:          statusAvailable,
				LotArea:         "150 sqm",
				Features:        []string{"Corner lot", "Near clubhouse"},
				ImageURL:        "/residential-lot-parkview-3.jpg",
				Zoning:          "Residential",
				Utilities:       []string{"Water", "Electricity"},
				NearbyAmenities: []string{"Park", "Church"},
			},
			{
				ID:              "palm-village-lot-1",
				Name:            "Palm Village Lot 1",
				Description:     "Residential lot in a serene gated community.",
				Price:           peso(750000),
				PropertyOption:  estimate.PalmLotOnly,
				Location:        palmLocation,
				Project:         palmProject,
				Developer:       "Enjoy Realty & Development Corporation",
				Status:          statusAvailable,
				LotArea:         "120 sqm",
				Features:        []string{"Gated community", "Flat terrain"},
				ImageURL:        "/palm-village-lot.jpg",
				Zoning:          "Residential",
				Utilities:       []string{"Water", "Electricity"},
				NearbyAmenities: []string{"School", "Market"},
			},
		},
		Agents: []Agent{
			{ID: "a10-1", Name: "Angelica O. Cleofe", Brokerage: "Aces & B Realty", Classification: "Salesperson", Team: "Alpha"},
			{ID: "a10-9", Name: "Mariben C. Pante", Brokerage: "Aces & B Realty", Classification: "Broker", Team: "Alpha"},
			{ID: "a20-2", Name: "Armando L. Aman", Brokerage: "Audjean Realty", Classification: "Broker", Team: "Alpha"},
		},
		Developers: []Developer{
			{
				ID:          developerAman,
				Name:        "Aman Engineering Enterprise",
				Color:       "#04009D",
				Description: "Builder of Parkview Naga Urban Residence.",
			},
			{
				ID:          developerEnjoy,
				Name:        "Enjoy Realty & Development Corporation",
				Color:       "#65932D",
				Description: "Developer of residential communities across Camarines Sur.",
			},
		},
		Projects: []DeveloperProject{
			{
				ID:           "parkview-nur",
				DeveloperID:  developerAman,
				Name:         nurProject,
				Description:  "A modern urban residential community designed for contemporary Filipino families.",
				Location:     "Zone 7, Brgy. San Felipe, Naga City",
				PropertyType: "Urban Residential Community",
				LotArea:      "Various lot sizes from 45-108 sqm",
				Status:       "Ongoing Development",
				ImageURL:     "/parkview-naga-urban-residence.jpg",
			},
			{
				ID:           "palm-village",
				DeveloperID:  developerEnjoy,
				Name:         palmProject,
				Description:  "A premier residential community offering modern homes with complete amenities.",
				Location:     "Brgy. Concepcion Grande, Naga City",
				PropertyType: "Residential Subdivision",
				LotArea:      "Various lot sizes available",
				Status:       "Ongoing Development",
				ImageURL:     "/palm-village-residential.jpg",
			},
			{
				ID:           "haciendas-de-naga",
				DeveloperID:  developerEnjoy,
				Name:         "Haciendas de Naga",
				Description:  "An exclusive residential estate offering premium lots and homes in a prime location.",
				Location:     "Naga City, Camarines Sur",
				PropertyType: "Premium Residential Estate",
				LotArea:      "Premium lot sizes",
				Status:       "Development Phase",
				ImageURL:     "/haciendas-naga-estate.jpg",
			},
		},
	}
}
