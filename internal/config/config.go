package config

import (
	"flag"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"google.golang.org/api/option"
)

// Config holds the settings of the bank binary. Environment variables are
// read first; flags given on the command line override them.
type Config struct {
	DataFile        string `env:"BANK_DATA_FILE" env-default:"accounts.txt" env-description:"save destination: path, gs://bucket/object or bq://project.dataset.table"`
	Restore         string `env:"BANK_RESTORE" env-description:"source to restore accounts from at startup"`
	LogLevel        string `env:"BANK_LOG_LEVEL" env-default:"info" env-description:"log level"`
	LogFormat       string `env:"BANK_LOG_FORMAT" env-default:"console" env-description:"log format: console or json"`
	CredentialsFile string `env:"BANK_GCP_CREDENTIALS" env-description:"service account key for gs:// and bq:// destinations"`
}

// Load reads the environment, then parses args (without the program or
// command name) into fs. Only flags that were actually set override the
// environment.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}

	dataFile := fs.String("data", cfg.DataFile, "save destination (path, gs:// or bq:// URI)")
	restore := fs.String("restore", cfg.Restore, "restore accounts from this source at startup")
	logLevel := fs.String("log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", cfg.LogFormat, "log format (console, json)")
	credentials := fs.String("credentials", cfg.CredentialsFile, "GCP service account key file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("couldn't parse flags: %w", err)
	}

	cfg.DataFile = *dataFile
	cfg.Restore = *restore
	cfg.LogLevel = *logLevel
	cfg.LogFormat = *logFormat
	cfg.CredentialsFile = *credentials

	return cfg, nil
}

// ClientOptions returns the Google API client options implied by the config.
func (c *Config) ClientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}
	return opts
}

// Usage returns the description of the environment variables, for help output.
func Usage() string {
	desc, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return desc
}
