package ports

import "context"

// Feature flag names.
const (
	// FlagLLMFortunes allows the language model as a fortune source on the
	// daily fortune and overview endpoints.
	FlagLLMFortunes = "llm-fortunes"
)

// FeatureFlags evaluates boolean feature flags.
//
//	if flags.IsEnabled(ctx, ports.FlagLLMFortunes, false) {
//	    return s.writer.WriteFortune(ctx, req)
//	}
type FeatureFlags interface {
	// IsEnabled returns defaultValue when the flag is unknown.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
}
