package config

import (
	"github.com/ericlagergren/decimal"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/conv"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/featureflags"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/monitor"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/net/kafka"
	"github.com/JPRademeyer84/aureus-alliance-holdings-sub015/net/redis"
)

// Config structure
type Config struct {
	Server          ServerConfig
	Kafka           kafka.Config          `mapstructure:"kafka"`
	DatabaseCluster DatabaseClusterConfig `mapstructure:"database_cluster"`
	Redis           redis.Config
	Unleash         featureflags.Config `mapstructure:"unleash"`
	Referral        ReferralConfig      `mapstructure:"referral_config"`
	Bonus           BonusConfig         `mapstructure:"bonus"`
	Fraud           FraudConfig         `mapstructure:"fraud"`
	Settlement      SettlementConfig    `mapstructure:"settlement"`
	Verification    VerificationConfig  `mapstructure:"verification"`
	Crons           Crons               `mapstructure:"crons"`
}

// ReferralConfig holds the commission base rates per referral level
type ReferralConfig struct {
	L1       float64 `mapstructure:"L1"`
	L2       float64 `mapstructure:"L2"`
	L3       float64 `mapstructure:"L3"`
	MaxDepth int     `mapstructure:"max_depth"`
}

// RateForLevel returns the base commission rate for the given chain level
func (cfg *ReferralConfig) RateForLevel(level int) *decimal.Big {
	switch level {
	case 1:
		return conv.FromFloat(cfg.L1)
	case 2:
		return conv.FromFloat(cfg.L2)
	case 3:
		return conv.FromFloat(cfg.L3)
	}
	return conv.NewDecimalWithPrecision()
}

// BonusConfig structure
type BonusConfig struct {
	UnitPrice float64 `mapstructure:"unit_price"`
}

func (cfg *BonusConfig) GetUnitPrice() *decimal.Big {
	return conv.FromFloat(cfg.UnitPrice)
}

// FraudConfig holds the limits applied by the payment claim screening
type FraudConfig struct {
	MaxDailySubmissions   int     `mapstructure:"max_daily_submissions"`
	MaxPendingSubmissions int     `mapstructure:"max_pending_submissions"`
	CooldownMinutes       int     `mapstructure:"cooldown_minutes"`
	DailyAmountCap        float64 `mapstructure:"daily_amount_cap"`
	DuplicateWindowHours  int     `mapstructure:"duplicate_window_hours"`
	DeviationMultiplier   float64 `mapstructure:"deviation_multiplier"`
	MinApprovedHistory    int     `mapstructure:"min_approved_history"`
	RejectScore           int     `mapstructure:"reject_score"`
	ReviewDeadlineHours   int     `mapstructure:"review_deadline_hours"`
}

func (cfg *FraudConfig) GetDailyAmountCap() *decimal.Big {
	return conv.FromFloat(cfg.DailyAmountCap)
}

func (cfg *FraudConfig) GetDeviationMultiplier() *decimal.Big {
	return conv.FromFloat(cfg.DeviationMultiplier)
}

// SettlementConfig structure
type SettlementConfig struct {
	DeliveryDays int `mapstructure:"delivery_days"`
}

// VerificationConfig maps verification tiers to commission multipliers and
// allowed purchase ranges
type VerificationConfig struct {
	DefaultTier string                 `mapstructure:"default_tier"`
	Tiers       map[string]*TierConfig `mapstructure:"tiers"`
	tiersMap    map[string]*TierConfig
}

type TierConfig struct {
	Multiplier float64 `mapstructure:"multiplier"`
	MinAmount  float64 `mapstructure:"min_amount"`
	MaxAmount  float64 `mapstructure:"max_amount"`
}

func (cfg *VerificationConfig) GetTiersMap() map[string]*TierConfig {
	if cfg.tiersMap == nil {
		list := map[string]*TierConfig{}
		for name, tier := range cfg.Tiers {
			list[name] = tier
		}
		cfg.tiersMap = list
	}
	return cfg.tiersMap
}

// Crons - mapping of ids to execution frequency
type Crons map[string]string

// ServerConfig structure
type ServerConfig struct {
	Monitoring monitor.Config `mapstructure:"monitoring"`
	API        APIConfig      `mapstructure:"api"`
}

// APIConfig structure
type APIConfig struct {
	Port      int
	KeepAlive bool `mapstructure:"keep_alive"`
	Domain    string
}

// DatabaseClusterConfig structure
type DatabaseClusterConfig struct {
	Writer DatabaseConfig `mapstructure:"writer"`
	Reader DatabaseConfig `mapstructure:"reader"`
}

// DatabaseConfig structure
type DatabaseConfig struct {
	Type            string // postgres / mysql
	Host            string
	Username        string
	Password        string
	Name            string
	SSLmode         string `mapstructure:"sslmode"`
	ApplicationName string `mapstructure:"application_name"`
	Port            int
}

// LoadConfig Load server configuration from the yaml file
func LoadConfig(viperConf *viper.Viper) Config {
	var config Config

	err := viperConf.Unmarshal(&config)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to decode config into struct")
	}
	return config
}

// OpenConfig godoc
func OpenConfig(file string) {
	// Don't forget to read config either from cfgFile, from current directory or from home directory!
	if file != "" {
		// Use config file from the flag.
		viper.SetConfigFile(file)
	}

	viper.SetConfigType("yaml")
	viper.SetConfigName(".config")
	viper.AddConfigPath(".")                         // First try to load the config from the current directory
	viper.AddConfigPath("$HOME")                     // Then try to load it from the HOME directory
	viper.AddConfigPath("/etc/aureus_settlement/")   // As a last resort try to load it from /etc/
	viper.SetEnvPrefix("CFG")
	viper.AutomaticEnv()
	setDefaultVariables()

	err := viper.ReadInConfig() // Find and read the config file
	if err != nil {             // Handle errors reading the config file
		log.Fatal().Err(err).Msg("Unable to read configuration file")
	}
}

func setDefaultVariables() {
	viper.SetDefault("referral_config.L1", 0.12)
	viper.SetDefault("referral_config.L2", 0.05)
	viper.SetDefault("referral_config.L3", 0.03)
	viper.SetDefault("referral_config.max_depth", 3)
	viper.SetDefault("bonus.unit_price", 5)
	viper.SetDefault("fraud.max_daily_submissions", 5)
	viper.SetDefault("fraud.max_pending_submissions", 3)
	viper.SetDefault("fraud.cooldown_minutes", 5)
	viper.SetDefault("fraud.daily_amount_cap", 50000)
	viper.SetDefault("fraud.duplicate_window_hours", 24)
	viper.SetDefault("fraud.deviation_multiplier", 5)
	viper.SetDefault("fraud.min_approved_history", 2)
	viper.SetDefault("fraud.reject_score", 70)
	viper.SetDefault("fraud.review_deadline_hours", 72)
	viper.SetDefault("settlement.delivery_days", 180)
	viper.SetDefault("verification.default_tier", "basic")
}
