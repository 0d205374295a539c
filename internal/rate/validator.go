package rate

import (
	"maps"
	"slices"

	"fxconvert/internal/domain"
)

type CurrencyValidator struct {
	supportedCodesSet map[string]struct{} // read only copy
	supportedCodesLst []string            // read only copy
}

// ValidateCode accepts three uppercase ASCII letters naming a supported currency.
func (v *CurrencyValidator) ValidateCode(code string) error {
	if err := ValidateFormat(code); err != nil {
		return err
	}
	if _, ok := v.supportedCodesSet[code]; !ok {
		return domain.ErrCodeUnsupported
	}
	return nil
}

// ValidateCodes checks every code and stops at the first invalid one.
func (v *CurrencyValidator) ValidateCodes(codes []string) error {
	for _, code := range codes {
		if err := v.ValidateCode(code); err != nil {
			return err
		}
	}
	return nil
}

func (v *CurrencyValidator) SupportedCodes() []string {
	return slices.Clone(v.supportedCodesLst)
}

// ValidateFormat only checks the shape of code. Detected location currencies may
// fall outside the catalog.
func ValidateFormat(code string) error {
	if code == "" {
		return domain.ErrCodeRequired
	}
	if len(code) != 3 {
		return domain.ErrCodeMalformed
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return domain.ErrCodeMalformed
		}
	}
	return nil
}

func NewValidator(supportedCurrencies map[string]struct{}) *CurrencyValidator {
	codesSet := maps.Clone(supportedCurrencies)
	codesLst := slices.Collect(maps.Keys(codesSet))
	slices.Sort(codesLst)

	return &CurrencyValidator{
		supportedCodesSet: codesSet,
		supportedCodesLst: codesLst,
	}
}

// NewCatalogValidator validates against the built-in currency catalog.
func NewCatalogValidator() *CurrencyValidator {
	set := make(map[string]struct{}, len(domain.Catalog))
	for _, c := range domain.Catalog {
		set[c.Code] = struct{}{}
	}
	return NewValidator(set)
}
