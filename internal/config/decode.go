package config

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// DecimalHookFunc decodes YAML numbers and strings into decimal.Decimal.
// Floats go through their shortest representation, so a rate written as
// 0.0872197824600924 in the file decodes to exactly that value.
func DecimalHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != decimalType {
			return data, nil
		}
		switch value := data.(type) {
		case decimal.Decimal:
			return value, nil
		case string:
			d, err := decimal.NewFromString(value)
			if err != nil {
				return nil, fmt.Errorf("invalid decimal %q: %w", value, err)
			}
			return d, nil
		case float64:
			return decimal.NewFromFloat(value), nil
		case float32:
			return decimal.NewFromFloat32(value), nil
		case int:
			return decimal.NewFromInt(int64(value)), nil
		case int32:
			return decimal.NewFromInt32(value), nil
		case int64:
			return decimal.NewFromInt(value), nil
		case uint64:
			return decimal.NewFromString(fmt.Sprintf("%d", value))
		default:
			return nil, fmt.Errorf("cannot decode %s into a decimal", from)
		}
	}
}
