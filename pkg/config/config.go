package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/Shopify/ejson"
	"github.com/caarlos0/env/v6"
	"github.com/ghodss/yaml"
	"k8s.io/klog"
)

const (
	DefaultConfigEnvVar = "STATEMENT_IMPORTER_CONFIG"
	ejsonKeyEnvVar      = "STATEMENT_IMPORTER_EJSON_SECRET_KEY"
	ejsonKeyDir         = "/opt/ejson/keys"
)

var config Config
var secrets Secrets

func ReadConfig(configEnvVar, configFile, secretsFile string) error {
	_, err := readConfig(configEnvVar, configFile)
	if err != nil {
		return err
	}

	_, err = readSecrets(secretsFile)
	if err != nil {
		return err
	}
	return nil
}

func CurrentConfig() *Config {
	return &config
}

func CurrentSecrets() *Secrets {
	return &secrets
}

func CurrentSQLConfig() *SQLConfig {
	return &config.SQL
}

func CurrentInfluxConfig() *InfluxConfig {
	return &config.Influx
}

func CurrentInfluxSecrets() *InfluxSecrets {
	return &secrets.Influx
}

func CurrentSqlSecrets() *SqlSecrets {
	return &secrets.SQL
}

// Location returns the configured timezone, UTC when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %s: %w", c.Timezone, err)
	}
	return loc, nil
}

// ImportAfter returns the import cut-off, the zero time when unset.
func (c *Config) ImportAfter() (time.Time, error) {
	if c.ImportAfterDate == "" {
		return time.Time{}, nil
	}

	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}

	t, err := time.ParseInLocation("2006-01-02", c.ImportAfterDate, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse importAfterDate: %w", err)
	}
	return t, nil
}

func applyDefaults(c *Config) {
	if c.Bank == "" {
		c.Bank = "IDFC"
	}
	if c.ImportDir == "" {
		c.ImportDir = "import"
	}
	if c.UpdateFrequency == "" {
		c.UpdateFrequency = "@every 1h"
	}
	if c.SQL.Driver == "" {
		c.SQL.Driver = "postgres"
	}
	if c.SQL.Database == "" {
		c.SQL.Database = "statements"
	}
	if c.SQL.TransactionsTable == "" {
		c.SQL.TransactionsTable = "statement_transactions"
	}
	if c.Influx.Measurement == "" {
		c.Influx.Measurement = "statement_transactions"
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.BodyLimitMB == 0 {
		c.Server.BodyLimitMB = 10
	}
}

func readConfig(envName, filename string) (*Config, error) {
	var raw []byte
	var err error

	rawEnv := os.Getenv(envName)
	if rawEnv != "" {
		klog.Infof("Reading config from environment variable %s", envName)
		raw = []byte(rawEnv)
	} else {
		raw, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	config = Config{}
	err = yaml.Unmarshal(raw, &config)
	applyDefaults(&config)

	return &config, err
}

func readSecrets(filename string) (*Secrets, error) {
	ejsonSecrets, ejsonErr := readEjsonSecrets(filename)

	envSecrets, envErr := readEnvSecrets()

	if ejsonErr == nil && envErr == nil {
		err := mergo.Merge(envSecrets, *ejsonSecrets)
		secrets = *envSecrets
		if err != nil {
			return nil, fmt.Errorf("failed to merge secrets: %w", err)
		}
	} else if ejsonErr != nil && envErr == nil {
		klog.Warningf("Error parsing ejson secrets, using environment only: %v", ejsonErr)
		secrets = *envSecrets
	} else if ejsonErr == nil && envErr != nil {
		klog.Warningf("Error parsing environment secrets, using ejson only: %v", envErr)
		secrets = *ejsonSecrets
	} else {
		return nil, fmt.Errorf("failed to parse secrets. Ejson error: %v. Env error: %v", ejsonErr, envErr)
	}

	return &secrets, nil
}

func readEjsonSecrets(filename string) (*Secrets, error) {
	ejsonSecrets := Secrets{}
	ejsonKeyFile := os.Getenv(ejsonKeyEnvVar)
	ejsonKey := []byte{}
	var err error

	if ejsonKeyFile != "" {
		ejsonKey, err = os.ReadFile(ejsonKeyFile)
		if err != nil {
			return nil, err
		}
	}
	raw, err := ejson.DecryptFile(filename, ejsonKeyDir, string(ejsonKey))
	if err != nil {
		return nil, err
	}

	err = json.Unmarshal(raw, &ejsonSecrets)
	return &ejsonSecrets, err
}

func readEnvSecrets() (*Secrets, error) {
	envSecrets := Secrets{}
	err := env.Parse(&envSecrets)
	return &envSecrets, err
}
