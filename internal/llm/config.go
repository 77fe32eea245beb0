// Package llm wraps the text-generation service behind a small client interface.
package llm

// ModelTier selects a model by capability rather than by name
type ModelTier string

const (
	// TierLite is the cheapest model; good enough for short copy
	TierLite ModelTier = "lite"
	// TierStandard is the default for rewrites
	TierStandard ModelTier = "standard"
	// TierAdvanced trades latency for better instruction following
	TierAdvanced ModelTier = "advanced"
)

// ParseTier maps a flag value to a tier, defaulting to TierStandard
func ParseTier(v string) ModelTier {
	switch ModelTier(v) {
	case TierLite, TierAdvanced:
		return ModelTier(v)
	}
	return TierStandard
}

// Provider names a text-generation backend
type Provider string

// ProviderGemini is the only supported backend
const ProviderGemini Provider = "gemini"

// GenerationParams are sent with every request
type GenerationParams struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
}

// DefaultGenerationParams favour varied phrasing across variants
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Temperature:     0.9,
		TopP:            0.95,
		MaxOutputTokens: 1024,
	}
}

// Config selects the provider, the model per tier and the tier in use
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	Tier     ModelTier
	// Override, when set, wins over the tier table
	Override string
}

// DefaultConfig returns the Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Tier: TierStandard,
	}
}

// Model returns the model name in use
func (c *Config) Model() string {
	if c.Override != "" {
		return c.Override
	}
	if model, ok := c.Models[c.Tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	return c.Models[TierLite]
}

// WithModel returns a copy of c that always uses model
func (c *Config) WithModel(model string) *Config {
	out := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)),
		Tier:     c.Tier,
		Override: model,
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	return out
}

// WithTier returns a copy of c using tier
func (c *Config) WithTier(tier ModelTier) *Config {
	out := c.WithModel(c.Override)
	out.Tier = tier
	return out
}
