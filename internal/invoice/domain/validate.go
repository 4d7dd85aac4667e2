package domain

import (
	"net/url"
	"strings"

	"golang.org/x/text/currency"
)

// FieldError describes a single invalid field on a submitted record.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validate checks the item invariants: quantity >= 0, tax percent >= 0,
// offer is a well-formed URL, currency is a valid ISO 4217 code.
func (i InvoiceItem) Validate() []FieldError {
	var errs []FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Code: "required", Message: "name is required"})
	}
	if i.Quantity < 0 {
		errs = append(errs, FieldError{Field: "quantity", Code: "negative", Message: "quantity must not be negative"})
	}
	if i.TaxPercent < 0 {
		errs = append(errs, FieldError{Field: "tax_percent", Code: "negative", Message: "tax percent must not be negative"})
	}
	if !validURL(i.Offer) {
		errs = append(errs, FieldError{Field: "offer", Code: "invalid_url", Message: "offer must be a valid URL"})
	}
	if !ValidCurrency(i.Currency) {
		errs = append(errs, FieldError{Field: "currency", Code: "invalid_currency", Message: "currency must be a valid ISO 4217 code"})
	}

	return errs
}

// ValidCurrency reports whether code parses as an ISO 4217 currency.
func ValidCurrency(code string) bool {
	code = strings.TrimSpace(code)
	if len(code) != 3 {
		return false
	}
	_, err := currency.ParseISO(code)
	return err == nil
}

func validURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}
