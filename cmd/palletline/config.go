// Config loading for the palletline CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pryzera/palletline/internal/auth"
	"github.com/pryzera/palletline/internal/mail"
	"github.com/pryzera/palletline/pkg/types"
)

const (
	defaultConfigFile = "config.yaml"
	envPrefix         = "PALLETLINE"
)

// appConfig is everything the CLI reads from config.yaml, the
// environment, or .env. The config is assembled key by key rather than
// unmarshalled so env overrides work without mapstructure tags.
type appConfig struct {
	Store types.Config
	Mail  mail.Config
	Auth  auth.Credentials
}

// defaultConfigYAML is written to the config path on first run so
// operators have something to edit.
const defaultConfigYAML = `# palletline configuration

# Backend: sheet (local xlsx), doc (local document store), proxy (remote endpoint)
backend: doc
data_dir: .palletline

# sheet backend
# workbook: pallets.xlsx

# proxy backend
# proxy_url:
# proxy_sheet_id:
# proxy_api_key:

# Station identity stamped onto scans
# device_id: station-1
# operator:

# Notification mail (optional)
# mail:
#   host:
#   port: 587
#   user:
#   password:
#   from:

# Role secrets (plain or bcrypt)
# auth:
#   operator_secret:
#   admin_secret:
`

// loadConfig reads the config file, layering .env and PALLETLINE_*
// environment variables over it. A missing config file is created with
// defaults on first run.
func loadConfig(path string) (appConfig, error) {
	// .env is optional; ignore absence.
	_ = godotenv.Load()

	if path == "" {
		path = defaultConfigFile
	}
	if err := ensureDefaultConfigFile(path); err != nil {
		return appConfig{}, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("backend", types.BackendDoc)
	v.SetDefault("data_dir", ".palletline")
	v.SetDefault("mail.port", 587)

	if err := v.ReadInConfig(); err != nil {
		return appConfig{}, fmt.Errorf("read %s: %w", path, err)
	}

	return appConfig{
		Store: types.Config{
			Backend:      v.GetString("backend"),
			DataDir:      v.GetString("data_dir"),
			Workbook:     v.GetString("workbook"),
			ProxyURL:     v.GetString("proxy_url"),
			ProxySheetID: v.GetString("proxy_sheet_id"),
			ProxyAPIKey:  v.GetString("proxy_api_key"),
			DeviceID:     v.GetString("device_id"),
			Operator:     v.GetString("operator"),
		},
		Mail: mail.Config{
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			User:     v.GetString("mail.user"),
			Password: v.GetString("mail.password"),
			From:     v.GetString("mail.from"),
		},
		Auth: auth.Credentials{
			OperatorSecret: v.GetString("auth.operator_secret"),
			AdminSecret:    v.GetString("auth.admin_secret"),
		},
	}, nil
}

// ensureDefaultConfigFile writes the default config on first run.
func ensureDefaultConfigFile(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
