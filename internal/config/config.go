// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Facility  FacilityConfig  `mapstructure:"facility"`
	Venues    VenuesConfig    `mapstructure:"venues"`
	Treasury  TreasuryConfig  `mapstructure:"treasury"`
	Intake    IntakeConfig    `mapstructure:"intake"`
	Webhook   WebhookConfig   `mapstructure:"webhook"`
	Store     StoreConfig     `mapstructure:"store"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // set at runtime, not from config file
}

// EngineConfig holds the identities the engine operates under.
type EngineConfig struct {
	ChainID           uint64   `mapstructure:"chain_id"`
	Account           string   `mapstructure:"account"`
	Owner             string   `mapstructure:"owner"`
	AuthorizedCallers []string `mapstructure:"authorized_callers"`
}

// AccountHex returns the engine's own account address.
func (c *EngineConfig) AccountHex() common.Address {
	return common.HexToAddress(c.Account)
}

// OwnerHex returns the owner address.
func (c *EngineConfig) OwnerHex() common.Address {
	return common.HexToAddress(c.Owner)
}

// AuthorizedCallersHex returns the authorized caller set as addresses.
func (c *EngineConfig) AuthorizedCallersHex() []common.Address {
	out := make([]common.Address, len(c.AuthorizedCallers))
	for i, s := range c.AuthorizedCallers {
		out[i] = common.HexToAddress(s)
	}
	return out
}

// FacilityConfig holds credit facility parameters.
type FacilityConfig struct {
	Account   string            `mapstructure:"account"`
	FeeBps    int64             `mapstructure:"fee_bps"`
	Liquidity map[string]string `mapstructure:"liquidity"` // symbol -> decimal amount
}

// AccountHex returns the facility's liquidity account address.
func (c *FacilityConfig) AccountHex() common.Address {
	return common.HexToAddress(c.Account)
}

// PoolSeed seeds one venue pool with reserves.
type PoolSeed struct {
	Venue    string `mapstructure:"venue"`
	TokenA   string `mapstructure:"token_a"` // symbol
	TokenB   string `mapstructure:"token_b"` // symbol
	FeeParam uint32 `mapstructure:"fee_param"`
	ReserveA string `mapstructure:"reserve_a"` // decimal amount
	ReserveB string `mapstructure:"reserve_b"` // decimal amount
}

// VenuesConfig holds venue adapter settings.
type VenuesConfig struct {
	SwapDeadline time.Duration `mapstructure:"swap_deadline"` // safety bound on venue calls
	Pools        []PoolSeed    `mapstructure:"pools"`
}

// TreasuryConfig holds withdrawal settings.
type TreasuryConfig struct {
	ReferenceAsset     string `mapstructure:"reference_asset"` // symbol
	TipRecipient       string `mapstructure:"tip_recipient"`
	ConversionVenue    string `mapstructure:"conversion_venue"`
	ConversionFeeParam uint32 `mapstructure:"conversion_fee_param"`
}

// TipRecipientHex returns the incentive recipient address.
func (c *TreasuryConfig) TipRecipientHex() common.Address {
	return common.HexToAddress(c.TipRecipient)
}

// IntakeConfig holds route feed settings.
type IntakeConfig struct {
	FeedURL      string `mapstructure:"feed_url"`
	RoutesPerMin int    `mapstructure:"routes_per_minute"`
}

// WebhookConfig holds execution-record delivery settings.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("FLASH")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "FLASH_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "FLASH_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "FLASH_LOG_LEVEL", "LOG_LEVEL")

	// Engine
	v.BindEnv("engine.chain_id", "FLASH_CHAIN_ID")
	v.BindEnv("engine.account", "FLASH_ENGINE_ACCOUNT")
	v.BindEnv("engine.owner", "FLASH_OWNER")
	v.BindEnv("engine.authorized_callers", "FLASH_AUTHORIZED_CALLERS")

	// Facility
	v.BindEnv("facility.account", "FLASH_FACILITY_ACCOUNT")
	v.BindEnv("facility.fee_bps", "FLASH_FACILITY_FEE_BPS")

	// Treasury
	v.BindEnv("treasury.reference_asset", "FLASH_REFERENCE_ASSET")
	v.BindEnv("treasury.tip_recipient", "FLASH_TIP_RECIPIENT")

	// Intake
	v.BindEnv("intake.feed_url", "FLASH_FEED_URL")

	// Webhook
	v.BindEnv("webhook.url", "FLASH_WEBHOOK_URL")

	// Store
	v.BindEnv("store.path", "FLASH_STORE_PATH")

	// Telemetry
	v.BindEnv("telemetry.enabled", "FLASH_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "FLASH_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "FLASH_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "flash-executor")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Engine defaults (Polygon)
	v.SetDefault("engine.chain_id", 137)
	v.SetDefault("engine.account", "0x00000000000000000000000000000000000F1A58")
	v.SetDefault("engine.authorized_callers", []string{})

	// Facility defaults: 9 bps matches the Aave V3 flash loan premium.
	v.SetDefault("facility.account", "0x0000000000000000000000000000000000FAC117")
	v.SetDefault("facility.fee_bps", 9)

	// Venue defaults
	v.SetDefault("venues.swap_deadline", "30s")

	// Treasury defaults
	v.SetDefault("treasury.reference_asset", "USDC")
	v.SetDefault("treasury.conversion_venue", "quickswap")
	v.SetDefault("treasury.conversion_fee_param", 0)

	// Intake defaults
	v.SetDefault("intake.routes_per_minute", 30)

	// Webhook defaults
	v.SetDefault("webhook.enabled", false)

	// Store defaults
	v.SetDefault("store.path", "flash-executor.db")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "flash-executor")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !common.IsHexAddress(c.Engine.Owner) {
		return fmt.Errorf("invalid engine.owner: %q", c.Engine.Owner)
	}
	if !common.IsHexAddress(c.Engine.Account) {
		return fmt.Errorf("invalid engine.account: %q", c.Engine.Account)
	}
	if !common.IsHexAddress(c.Facility.Account) {
		return fmt.Errorf("invalid facility.account: %q", c.Facility.Account)
	}
	for _, caller := range c.Engine.AuthorizedCallers {
		if !common.IsHexAddress(caller) {
			return fmt.Errorf("invalid engine.authorized_callers entry: %q", caller)
		}
	}
	if c.Facility.FeeBps < 0 || c.Facility.FeeBps > 10_000 {
		return fmt.Errorf("facility.fee_bps out of range: %d", c.Facility.FeeBps)
	}
	if c.Treasury.TipRecipient != "" && !common.IsHexAddress(c.Treasury.TipRecipient) {
		return fmt.Errorf("invalid treasury.tip_recipient: %q", c.Treasury.TipRecipient)
	}
	if c.Webhook.Enabled && c.Webhook.URL == "" {
		return fmt.Errorf("webhook.url is required when webhook.enabled")
	}
	return nil
}
