package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	ConfigFileName  = ".novadash.json"
	SessionFileName = ".novadash.session.json"
	LogFileName     = ".novadash.log"
)

// Config holds the upstream endpoints and display settings.
type Config struct {
	PriceBaseURL       string `json:"price_base_url"`
	ExplorerBaseURL    string `json:"explorer_base_url"`
	ExplorerProxyURL   string `json:"explorer_proxy_url"`
	WalletScanBaseURL  string `json:"wallet_scan_base_url"`
	WalletScanAPIKey   string `json:"wallet_scan_api_key"`
	PingURL            string `json:"ping_url"`
	WalletRPCURL       string `json:"wallet_rpc_url,omitempty"`
	SessionPath        string `json:"session_path,omitempty"`
	LogPath            string `json:"log_path,omitempty"`
	HTTPTimeoutSeconds int    `json:"http_timeout_seconds"`
	FiatDecimals       int    `json:"fiat_decimals"`
	TokenDecimals      int    `json:"token_decimals"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		PriceBaseURL:       "https://api.coinbase.com/v2/prices",
		ExplorerBaseURL:    "https://api.coingecko.com/api/v3/coins/markets",
		ExplorerProxyURL:   "https://corsproxy.io/?",
		WalletScanBaseURL:  "https://api.ethplorer.io",
		WalletScanAPIKey:   "freekey",
		PingURL:            "https://api.coingecko.com/api/v3/ping",
		HTTPTimeoutSeconds: 10,
		FiatDecimals:       2,
		TokenDecimals:      4,
	}
}

// HTTPTimeout is the per-request timeout for upstream providers.
func (c Config) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func GetConfigPath(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

// ResolvePaths fills SessionPath and LogPath with home-directory defaults.
func (c *Config) ResolvePaths() error {
	if c.SessionPath != "" && c.LogPath != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return errors.Wrap(err, "resolve home directory")
	}
	if c.SessionPath == "" {
		c.SessionPath = filepath.Join(home, SessionFileName)
	}
	if c.LogPath == "" {
		c.LogPath = filepath.Join(home, LogFileName)
	}
	return nil
}

func LoadConfigFromFile(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	return LoadConfig(f)
}

func LoadConfig(r io.Reader) (Config, error) {
	var raw struct {
		PriceBaseURL       *string `json:"price_base_url"`
		ExplorerBaseURL    *string `json:"explorer_base_url"`
		ExplorerProxyURL   *string `json:"explorer_proxy_url"`
		WalletScanBaseURL  *string `json:"wallet_scan_base_url"`
		WalletScanAPIKey   *string `json:"wallet_scan_api_key"`
		PingURL            *string `json:"ping_url"`
		WalletRPCURL       string  `json:"wallet_rpc_url"`
		SessionPath        string  `json:"session_path"`
		LogPath            string  `json:"log_path"`
		HTTPTimeoutSeconds *int    `json:"http_timeout_seconds"`
		FiatDecimals       *int    `json:"fiat_decimals"`
		TokenDecimals      *int    `json:"token_decimals"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Config{}, err
	}

	cfg := Default()
	// An explicitly empty proxy means "call the listing provider directly".
	if raw.ExplorerProxyURL != nil {
		cfg.ExplorerProxyURL = strings.TrimSpace(*raw.ExplorerProxyURL)
	}
	setString(&cfg.PriceBaseURL, raw.PriceBaseURL)
	setString(&cfg.ExplorerBaseURL, raw.ExplorerBaseURL)
	setString(&cfg.WalletScanBaseURL, raw.WalletScanBaseURL)
	setString(&cfg.WalletScanAPIKey, raw.WalletScanAPIKey)
	setString(&cfg.PingURL, raw.PingURL)
	cfg.WalletRPCURL = strings.TrimSpace(raw.WalletRPCURL)
	cfg.SessionPath = raw.SessionPath
	cfg.LogPath = raw.LogPath
	if raw.HTTPTimeoutSeconds != nil {
		cfg.HTTPTimeoutSeconds = *raw.HTTPTimeoutSeconds
	}
	if raw.FiatDecimals != nil {
		cfg.FiatDecimals = *raw.FiatDecimals
	}
	if raw.TokenDecimals != nil {
		cfg.TokenDecimals = *raw.TokenDecimals
	}
	return cfg, nil
}

func setString(dst *string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}

// Validate reports the first structural problem in cfg.
func (c Config) Validate() error {
	required := []struct {
		name, value string
	}{
		{"price_base_url", c.PriceBaseURL},
		{"explorer_base_url", c.ExplorerBaseURL},
		{"wallet_scan_base_url", c.WalletScanBaseURL},
		{"ping_url", c.PingURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.Newf("validation failed: %s is empty", r.name)
		}
	}
	if c.FiatDecimals < 0 || c.TokenDecimals < 0 {
		return errors.New("validation failed: decimals must not be negative")
	}
	return nil
}

func SaveConfig(cfg Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Keep a backup of the file being replaced
	if _, err := os.Stat(path); err == nil {
		backupPath := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
		input, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, "failed to read existing config for backup")
		}
		if err := os.WriteFile(backupPath, input, 0644); err != nil {
			return errors.Wrap(err, "failed to write backup config")
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
