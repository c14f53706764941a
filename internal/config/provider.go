package config

import (
	"math"
	"strconv"
	"strings"

	"github.com/newthinker/chatrelay/internal/core"
	"github.com/spf13/viper"
)

// Environment variables read by ProviderResolver.
const (
	EnvAPIKey      = "GROQ_API_KEY"
	EnvModel       = "GROQ_MODEL"
	EnvTemperature = "GROQ_TEMPERATURE"
	EnvBaseURL     = "GROQ_BASE_URL"
	EnvServiceKey  = "SERVICE_API_KEY"
)

// Provider defaults.
const (
	DefaultModel       = "llama-3.1-8b-instant"
	DefaultTemperature = 0.7
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
)

// ProviderConfig holds the settings for one provider call.
type ProviderConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	BaseURL     string
}

// ProviderResolver reads provider settings from the process environment.
//
// Nothing is cached: every Resolve call sees the environment as it is at that
// moment, so edits made while the process runs apply to the next request.
type ProviderResolver struct {
	v *viper.Viper
}

// NewProviderResolver creates a resolver bound to the GROQ_* and
// SERVICE_API_KEY environment variables.
func NewProviderResolver() *ProviderResolver {
	v := viper.New()
	_ = v.BindEnv("api_key", EnvAPIKey)
	_ = v.BindEnv("model", EnvModel)
	_ = v.BindEnv("temperature", EnvTemperature)
	_ = v.BindEnv("base_url", EnvBaseURL)
	_ = v.BindEnv("service_key", EnvServiceKey)
	return &ProviderResolver{v: v}
}

// Resolve returns the current provider configuration.
func (r *ProviderResolver) Resolve() (ProviderConfig, error) {
	apiKey := r.lookup("api_key")
	if apiKey == "" {
		return ProviderConfig{}, core.Errorf(core.ErrMissingCredentials,
			"%s environment variable is required.", EnvAPIKey)
	}

	model := r.lookup("model")
	if model == "" {
		model = DefaultModel
	}

	temperature, err := r.lookupFloat("temperature", EnvTemperature, DefaultTemperature)
	if err != nil {
		return ProviderConfig{}, err
	}

	baseURL := r.lookup("base_url")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return ProviderConfig{
		APIKey:      apiKey,
		Model:       model,
		Temperature: temperature,
		BaseURL:     baseURL,
	}, nil
}

// ServiceKey returns the shared secret clients must present, or "" when the
// service is open.
func (r *ProviderResolver) ServiceKey() string {
	return r.lookup("service_key")
}

func (r *ProviderResolver) lookup(key string) string {
	return strings.TrimSpace(r.v.GetString(key))
}

func (r *ProviderResolver) lookupFloat(key, envName string, def float64) (float64, error) {
	raw := r.lookup(key)
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, core.Errorf(core.ErrInvalidConfig, "Invalid %s value: %s", envName, raw)
	}
	return f, nil
}
