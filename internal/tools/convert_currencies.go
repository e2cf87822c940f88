package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"shopchat/internal/currency"
	"shopchat/internal/logger"
	"shopchat/pkg/chattypes"
)

// ConvertCurrenciesName is the tool name advertised for currency conversion.
const ConvertCurrenciesName = "convertCurrencies"

// ConvertCurrencies exposes the currency service as a callable capability.
type ConvertCurrencies struct {
	service *currency.Service
}

// NewConvertCurrencies creates the conversion tool over the given service.
func NewConvertCurrencies(service *currency.Service) *ConvertCurrencies {
	return &ConvertCurrencies{service: service}
}

// Name returns the tool name.
func (t *ConvertCurrencies) Name() string {
	return ConvertCurrenciesName
}

// Definition describes the tool for the generation service.
func (t *ConvertCurrencies) Definition() chattypes.ToolDefinition {
	return chattypes.ToolDefinition{
		Name: ConvertCurrenciesName,
		Description: "convert an amount from one currency to another using real-time exchange " +
			"rates. Use this when users ask about prices in different currencies",
		Parameters: map[string]any{
			"amount": map[string]any{
				"type":        "number",
				"description": "the monetary amount to convert",
			},
			"from": map[string]any{
				"type":        "string",
				"description": "the source currency code (ISO 4217), e.g., \"USD\", \"EUR\", \"GBP\"",
			},
			"to": map[string]any{
				"type":        "string",
				"description": "the target currency code (ISO 4217), e.g., \"EUR\", \"GBP\", \"JPY\"",
			},
		},
		Required: []string{"amount", "from", "to"},
	}
}

// convertCurrenciesArgs is the argument object for one conversion call.
type convertCurrenciesArgs struct {
	Amount float64 `json:"amount"`
	From   string  `json:"from"`
	To     string  `json:"to"`
}

// convertCurrenciesResult is the JSON result payload for one conversion.
type convertCurrenciesResult struct {
	Success          bool    `json:"success"`
	OriginalAmount   float64 `json:"originalAmount"`
	OriginalCurrency string  `json:"originalCurrency"`
	ConvertedAmount  float64 `json:"convertedAmount"`
	TargetCurrency   string  `json:"targetCurrency"`
}

// Execute performs a currency conversion. Unknown codes and unavailable
// rates surface as errors for the caller to convert into a textual payload.
func (t *ConvertCurrencies) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var parsed convertCurrenciesArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return "", fmt.Errorf("invalid convertCurrencies arguments: %w", err)
	}

	logger.Debug("Executing tool", "tool", ConvertCurrenciesName,
		"amount", parsed.Amount, "from", parsed.From, "to", parsed.To)

	converted, err := t.service.Convert(ctx, parsed.Amount, parsed.From, parsed.To)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(convertCurrenciesResult{
		Success:          true,
		OriginalAmount:   parsed.Amount,
		OriginalCurrency: strings.ToUpper(parsed.From),
		ConvertedAmount:  converted,
		TargetCurrency:   strings.ToUpper(parsed.To),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode conversion result: %w", err)
	}
	return string(payload), nil
}
