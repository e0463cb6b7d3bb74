// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// Register registers all custom types and validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Decimal amounts validate like numbers (gte, lte, ne, ...).
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("money", validateMoney)
		_ = v.RegisterValidation("flexdate", validateFlexDate)
	}
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// validateMoney accepts amounts that fit decimal(14,2): at most two fractional
// digits and twelve integer digits.
func validateMoney(fl validator.FieldLevel) bool {
	var d decimal.Decimal
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		d = v
	case float64:
		d = decimal.NewFromFloat(v)
	default:
		return false
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, 12))
}

// validateFlexDate accepts YYYY-MM-DD or RFC 3339 strings.
func validateFlexDate(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	_, err := models.ParseDate(s)
	return err == nil
}
