// Package config loads the daemon configuration from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"

	"github.com/flokiorg/lokilsp/lsps/lsps1"
)

type AppConfig struct {
	Workdir         string `envconfig:"WORK_DIR"`
	Port            string `envconfig:"PORT" default:"1610"`
	DatabaseUri     string `envconfig:"DATABASE_URI" default:"lokilsp.db"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"4"`
	LogToFile       bool   `envconfig:"LOG_TO_FILE" default:"true"`
	LogDBQueries    bool   `envconfig:"LOG_DB_QUERIES" default:"false"`
	LNDAddress      string `envconfig:"LND_ADDRESS"`
	LNDCertFile     string `envconfig:"LND_CERT_FILE"`
	LNDMacaroonFile string `envconfig:"LND_MACAROON_FILE"`

	// LSPS1 advertisement. SupportedOptions is the JSON encoding of the
	// lsps1 options block; leaving it (or the website) unset makes the
	// service refuse get_info and create_order requests.
	LSPS1Token            string `envconfig:"LSPS1_TOKEN"`
	LSPS1Website          string `envconfig:"LSPS1_WEBSITE"`
	LSPS1SupportedOptions string `envconfig:"LSPS1_SUPPORTED_OPTIONS"`
}

func Load() (*AppConfig, error) {
	appConfig := &AppConfig{}
	if err := envconfig.Process("", appConfig); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if appConfig.Workdir == "" {
		appConfig.Workdir = filepath.Join(xdg.DataHome, "lokilsp")
	}

	return appConfig, nil
}

// LSPS1ServiceConfig builds the service handler configuration from the
// loaded environment.
func (c *AppConfig) LSPS1ServiceConfig() (*lsps1.ServiceConfig, error) {
	cfg := &lsps1.ServiceConfig{}

	if c.LSPS1Token != "" {
		token := c.LSPS1Token
		cfg.Token = &token
	}
	if c.LSPS1Website != "" {
		website := c.LSPS1Website
		cfg.Website = &website
	}
	if c.LSPS1SupportedOptions != "" {
		var options lsps1.Options
		if err := json.Unmarshal([]byte(c.LSPS1SupportedOptions), &options); err != nil {
			return nil, fmt.Errorf("failed to parse LSPS1_SUPPORTED_OPTIONS: %w", err)
		}
		cfg.SupportedOptions = &options
	}

	return cfg, nil
}
