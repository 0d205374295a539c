package domain

import "slices"

const DefaultMainCurrency = "EUR"

type Currency struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Catalog lists the currencies offered for main and additional selection.
var Catalog = []Currency{
	{Code: "EUR", Name: "Euro"},
	{Code: "USD", Name: "US Dollar"},
	{Code: "GBP", Name: "British Pound"},
	{Code: "CHF", Name: "Swiss Franc"},
	{Code: "JPY", Name: "Japanese Yen"},
	{Code: "AUD", Name: "Australian Dollar"},
	{Code: "CAD", Name: "Canadian Dollar"},
	{Code: "CNY", Name: "Chinese Yuan"},
	{Code: "INR", Name: "Indian Rupee"},
	{Code: "BRL", Name: "Brazilian Real"},
	{Code: "MXN", Name: "Mexican Peso"},
	{Code: "RUB", Name: "Russian Ruble"},
	{Code: "KRW", Name: "South Korean Won"},
	{Code: "SGD", Name: "Singapore Dollar"},
	{Code: "HKD", Name: "Hong Kong Dollar"},
	{Code: "NZD", Name: "New Zealand Dollar"},
	{Code: "NOK", Name: "Norwegian Krone"},
	{Code: "SEK", Name: "Swedish Krona"},
	{Code: "DKK", Name: "Danish Krone"},
	{Code: "PLN", Name: "Polish Zloty"},
	{Code: "TRY", Name: "Turkish Lira"},
	{Code: "ZAR", Name: "South African Rand"},
	{Code: "THB", Name: "Thai Baht"},
}

// LookupCurrency returns the catalog entry for code.
func LookupCurrency(code string) (Currency, bool) {
	for _, c := range Catalog {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

// TrackedCurrencies is the set of currencies shown to the user.
type TrackedCurrencies struct {
	Main       string
	Location   string
	Additional []string
}

// VisibleAdditional returns the additional currencies in insertion order, skipping
// duplicates and the codes already shown as main or location currency.
func (t TrackedCurrencies) VisibleAdditional() []string {
	out := make([]string, 0, len(t.Additional))
	for _, code := range t.Additional {
		if code == "" || code == t.Main || code == t.Location || slices.Contains(out, code) {
			continue
		}
		out = append(out, code)
	}
	return out
}
