package featureflags

import (
	"net/http"

	"github.com/Unleash/unleash-client-go/v3"
	"github.com/rs/zerolog/log"
)

// Config structure
type Config struct {
	Enabled     bool   `mapstructure:"enabled"`
	AppName     string `mapstructure:"app_name"`
	Url         string `mapstructure:"url"`
	InstanceID  string `mapstructure:"instance_id"`
	Environment string `mapstructure:"environment"`
}

var enabled bool

// Initialize the unleash client used to control feature availability
func Initialize(cfg Config) error {
	if !cfg.Enabled {
		log.Warn().Str("lib", "unleash").Msg("Feature flags disabled, all flags fall back to their defaults")
		return nil
	}
	err := unleash.Initialize(
		unleash.WithListener(&unleash.DebugListener{}),
		unleash.WithAppName(cfg.AppName),
		unleash.WithUrl(cfg.Url),
		unleash.WithEnvironment(cfg.Environment),
		unleash.WithCustomHeaders(http.Header{"UNLEASH-INSTANCEID": {cfg.InstanceID}}),
	)
	if err != nil {
		return err
	}
	enabled = true
	return nil
}

// IsEnabled checks the given flag, falling back to fallbackValue when the
// client is not running
func IsEnabled(flag string, fallbackValue bool) bool {
	if !enabled {
		return fallbackValue
	}
	return unleash.IsEnabled(flag, unleash.WithFallback(fallbackValue))
}

// Close the unleash client
func Close() {
	if !enabled {
		return
	}
	if err := unleash.Close(); err != nil {
		log.Error().Err(err).Str("lib", "unleash").Msg("Unable to close unleash client")
	}
}
