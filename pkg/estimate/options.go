package estimate

import "strings"

// PropertyOption selects the reservation fee and the Pag-IBIG loan cap that
// apply to a property. The set is closed.
type PropertyOption string

// Known property options, one lot-only and one house-and-lot per project.
const (
	NURLotOnly    PropertyOption = "nur_lot_only"
	NURHouseLot   PropertyOption = "nur_house_lot"
	PalmLotOnly   PropertyOption = "palm_lot_only"
	PalmHouseLot  PropertyOption = "palm_house_lot"
	DefaultOption                = NURHouseLot
)

var optionLabels = map[PropertyOption]string{
	NURLotOnly:   "NUR Lot Only",
	NURHouseLot:  "NUR House & Lot",
	PalmLotOnly:  "Palm Lot Only",
	PalmHouseLot: "Palm House & Lot",
}

// Options returns every property option in display order.
func Options() []PropertyOption {
	return []PropertyOption{NURLotOnly, NURHouseLot, PalmLotOnly, PalmHouseLot}
}

// ParsePropertyOption maps a raw value onto the closed option set.
func ParsePropertyOption(value string) (PropertyOption, bool) {
	opt := PropertyOption(strings.ToLower(strings.TrimSpace(value)))
	_, ok := optionLabels[opt]
	return opt, ok
}

// Valid reports whether the option belongs to the closed set.
func (o PropertyOption) Valid() bool {
	_, ok := optionLabels[o]
	return ok
}

// Label returns the human-readable name of the option.
func (o PropertyOption) Label() string {
	if label, ok := optionLabels[o]; ok {
		return label
	}
	return string(o)
}

// IsLotOnly reports whether the option covers the lot without a house.
func (o PropertyOption) IsLotOnly() bool {
	return strings.HasSuffix(string(o), "_lot_only")
}

func (o PropertyOption) String() string {
	return string(o)
}
