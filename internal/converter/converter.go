// Package converter converts rupee amounts into other currencies.
package converter

import (
	"math"
	"strconv"
	"strings"
	"sync"

	apperrors "github.com/utafrali/ShopHub/pkg/errors"
)

// Messages returned for unusable amounts.
const (
	MsgAmountRequired = "Please enter amount"
	MsgAmountInvalid  = "Invalid amount"
)

// BaseCurrency is the currency amounts are entered in.
const BaseCurrency = "INR"

// Currency is a conversion target with its rate per rupee.
type Currency struct {
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Symbol    string  `json:"symbol"`
	Flag      string  `json:"flag"`
	Rate      float64 `json:"rate"`
	Precision int     `json:"precision"`
}

// DefaultCurrencies is the static rate table.
func DefaultCurrencies() []Currency {
	return []Currency{
		{Name: "DOLLAR", Code: "USD", Symbol: "$", Flag: "🇺🇸", Rate: 0.0109, Precision: 2},
		{Name: "EURO", Code: "EUR", Symbol: "€", Flag: "🇪🇺", Rate: 0.0093, Precision: 2},
		{Name: "POUND", Code: "GBP", Symbol: "£", Flag: "🇬🇧", Rate: 0.0081, Precision: 2},
		{Name: "RUBEL", Code: "RUB", Symbol: "₽", Flag: "🇷🇺", Rate: 0.99, Precision: 2},
		{Name: "AUS DOLLAR", Code: "AUD", Symbol: "A$", Flag: "🇦🇺", Rate: 0.0165, Precision: 2},
		{Name: "CAN DOLLAR", Code: "CAD", Symbol: "C$", Flag: "🇨🇦", Rate: 0.0153, Precision: 2},
		{Name: "YEN", Code: "JPY", Symbol: "¥", Flag: "🇯🇵", Rate: 1.76, Precision: 2},
		{Name: "DINAR", Code: "KWD", Symbol: "KD", Flag: "🇰🇼", Rate: 0.0033, Precision: 2},
		{Name: "BITCOIN", Code: "BTC", Symbol: "₿", Flag: "₿", Rate: 0.00000012, Precision: 8},
	}
}

// Result is a completed conversion.
type Result struct {
	Amount    float64  `json:"amount"`
	Base      string   `json:"base"`
	Currency  Currency `json:"currency"`
	Value     float64  `json:"value"`
	Formatted string   `json:"formatted"`
}

// Converter holds the current rate table. It is safe for concurrent use.
type Converter struct {
	mu         sync.RWMutex
	currencies []Currency
}

// New creates a converter over currencies.
func New(currencies []Currency) *Converter {
	c := &Converter{currencies: make([]Currency, len(currencies))}
	copy(c.currencies, currencies)
	return c
}

// Default creates a converter over the static rate table.
func Default() *Converter {
	return New(DefaultCurrencies())
}

// Currencies returns the rate table in display order.
func (c *Converter) Currencies() []Currency {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Currency, len(c.currencies))
	copy(out, c.currencies)
	return out
}

// Convert multiplies a rupee amount by the rate of currency, which may be
// given by name or code in any case.
func (c *Converter) Convert(amount, currency string) (Result, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return Result{}, apperrors.InvalidInput(MsgAmountRequired)
	}
	value, err := strconv.ParseFloat(amount, 64)
	if err != nil || value < 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return Result{}, apperrors.InvalidInput(MsgAmountInvalid)
	}

	cur, ok := c.lookup(currency)
	if !ok {
		return Result{}, apperrors.InvalidInput("unknown currency " + strconv.Quote(currency))
	}

	converted := value * cur.Rate
	return Result{
		Amount:    value,
		Base:      BaseCurrency,
		Currency:  cur,
		Value:     converted,
		Formatted: cur.Symbol + " " + strconv.FormatFloat(converted, 'f', cur.Precision, 64),
	}, nil
}

// UpdateRates replaces the rate of every known currency whose code or name
// appears in rates. Non-positive rates are ignored. It returns how many
// currencies changed.
func (c *Converter) UpdateRates(rates map[string]float64) int {
	normalized := make(map[string]float64, len(rates))
	for k, v := range rates {
		normalized[strings.ToUpper(strings.TrimSpace(k))] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	updated := 0
	for i := range c.currencies {
		rate, ok := normalized[c.currencies[i].Code]
		if !ok {
			rate, ok = normalized[c.currencies[i].Name]
		}
		if !ok || rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
			continue
		}
		if c.currencies[i].Rate != rate {
			c.currencies[i].Rate = rate
			updated++
		}
	}
	return updated
}

func (c *Converter) lookup(currency string) (Currency, bool) {
	key := strings.ToUpper(strings.TrimSpace(currency))
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cur := range c.currencies {
		if cur.Name == key || cur.Code == key {
			return cur, true
		}
	}
	return Currency{}, false
}
