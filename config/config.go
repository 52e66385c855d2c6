package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Defaults for the single configured network
const (
	DefaultRPCURL            = "https://mainnet.sorobanrpc.com"
	DefaultNetworkPassphrase = "Public Global Stellar Network ; September 2015"
	DefaultBaseFee           = 10000
)

// Config holds the application configuration
type Config struct {
	RPCURL            string
	NetworkPassphrase string
	ContractID        string
	WalletKind        string
	WalletSecret      string
	BaseFee           int64
	PollInterval      time.Duration
	LinkBase          string
	SessionFile       string
}

var globalConfig *Config

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".soroban-swap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	viper.SetDefault("rpc_url", DefaultRPCURL)
	viper.SetDefault("network_passphrase", DefaultNetworkPassphrase)
	viper.SetDefault("base_fee", DefaultBaseFee)
	viper.SetDefault("poll_interval", "1s")
	viper.SetDefault("wallet_kind", "local")
	viper.SetDefault("link_base", "http://localhost:9000/swap")

	viper.SetEnvPrefix("SOROBAN_SWAP")
	viper.AutomaticEnv()

	// Config file is optional
	_ = viper.ReadInConfig()

	cfg := &Config{
		RPCURL:            viper.GetString("rpc_url"),
		NetworkPassphrase: viper.GetString("network_passphrase"),
		ContractID:        viper.GetString("contract_id"),
		WalletKind:        viper.GetString("wallet_kind"),
		WalletSecret:      viper.GetString("wallet_secret"),
		BaseFee:           viper.GetInt64("base_fee"),
		PollInterval:      viper.GetDuration("poll_interval"),
		LinkBase:          viper.GetString("link_base"),
		SessionFile:       viper.GetString("session_file"),
	}

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL not configured. Set SOROBAN_SWAP_RPC_URL or add rpc_url to .soroban-swap.yaml")
	}

	globalConfig = cfg
	return cfg, nil
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}
