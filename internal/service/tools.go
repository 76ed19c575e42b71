package service

import (
	"context"

	"github.com/utafrali/ShopHub/internal/converter"
	"github.com/utafrali/ShopHub/internal/password"
)

// ToolsService exposes the currency converter and the password generator.
type ToolsService struct {
	converter *converter.Converter
}

// NewToolsService creates a new tools service.
func NewToolsService(conv *converter.Converter) *ToolsService {
	return &ToolsService{converter: conv}
}

// Convert converts a rupee amount into currency.
func (s *ToolsService) Convert(ctx context.Context, amount, currency string) (converter.Result, error) {
	return s.converter.Convert(amount, currency)
}

// Currencies returns the current rate table.
func (s *ToolsService) Currencies(ctx context.Context) []converter.Currency {
	return s.converter.Currencies()
}

// GeneratePassword returns a new random password.
func (s *ToolsService) GeneratePassword(ctx context.Context, opts password.Options) (string, error) {
	return password.Generate(opts)
}
