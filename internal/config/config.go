// Package config holds the fieldusage configuration: connection settings,
// logging, output destinations and the HTTP server.
package config

import (
	"errors"
	"fmt"
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/field-usage/infrastructure/config"
	infraes "github.com/jonesrussell/north-cloud/field-usage/infrastructure/elasticsearch"
	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/field-usage/internal/environment"
)

// Default configuration values.
const (
	DefaultPrefix         = "es_fieldusage"
	DefaultSuffix         = "csv"
	DefaultDelimiter      = ","
	DefaultIndexName      = "es-fieldusage"
	DefaultRequestTimeout = 10 * time.Second
)

// ErrConfiguration matches every *ConfigurationError.
var ErrConfiguration = errors.New("invalid configuration")

// ConfigurationError reports an unusable option.
type ConfigurationError struct {
	Key     string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Message)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Config holds the application configuration.
type Config struct {
	Elasticsearch ElasticsearchConfig      `yaml:"elasticsearch"`
	Logging       logger.Config            `yaml:"logging"`
	Output        OutputConfig             `yaml:"output"`
	Aggregator    AggregatorConfig         `yaml:"aggregator"`
	Server        infraconfig.ServerConfig `yaml:"server"`
}

// ElasticsearchConfig holds cluster connection settings.
type ElasticsearchConfig struct {
	Hosts          []string      `env:"FIELDUSAGE_HOSTS"       yaml:"hosts"`
	CloudID        string        `env:"FIELDUSAGE_CLOUD_ID"    yaml:"cloud_id"`
	APIKey         string        `env:"FIELDUSAGE_API_KEY"     yaml:"api_key"`
	Username       string        `env:"FIELDUSAGE_USERNAME"    yaml:"username"`
	Password       string        `env:"FIELDUSAGE_PASSWORD"    yaml:"password"`
	BearerAuth     string        `env:"FIELDUSAGE_BEARER_AUTH" yaml:"bearer_auth"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	VerifyCerts    *bool         `yaml:"verify_certs"`
	CACerts        string        `yaml:"ca_certs"`
	ClientCert     string        `yaml:"client_cert"`
	ClientKey      string        `yaml:"client_key"`
	HTTPCompress   bool          `yaml:"http_compress"`
	MaxRetries     int           `yaml:"max_retries"`
}

// OutputConfig holds where and how results are written.
type OutputConfig struct {
	Prefix    string `env:"FIELDUSAGE_PREFIX"    yaml:"prefix"`
	Suffix    string `env:"FIELDUSAGE_SUFFIX"    yaml:"suffix"`
	Delimiter string `yaml:"delimiter"`
	FilePath  string `env:"FIELDUSAGE_FILEPATH"  yaml:"filepath"`
	IndexName string `env:"FIELDUSAGE_INDEXNAME" yaml:"indexname"`
}

// AggregatorConfig tunes the field usage aggregator.
type AggregatorConfig struct {
	// MappingConcurrency bounds parallel mapping fetches; 1 is sequential.
	MappingConcurrency int `yaml:"mapping_concurrency"`
}

// Load loads configuration from a YAML file. An empty path uses defaults
// and environment variables only.
func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults[Config](path, SetDefaults)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	SetDefaults(&cfg)
	return &cfg
}

// SetDefaults applies default values to the config.
func SetDefaults(cfg *Config) {
	setElasticsearchDefaults(&cfg.Elasticsearch)
	cfg.Logging.SetDefaults()
	setOutputDefaults(&cfg.Output)
	if cfg.Aggregator.MappingConcurrency == 0 {
		cfg.Aggregator.MappingConcurrency = 1
	}
	cfg.Server.SetDefaults()
}

func setElasticsearchDefaults(e *ElasticsearchConfig) {
	if len(e.Hosts) == 0 && e.CloudID == "" {
		e.Hosts = []string{infraes.DefaultHost}
	}
	if e.RequestTimeout == 0 {
		e.RequestTimeout = DefaultRequestTimeout
	}
	if e.VerifyCerts == nil {
		verify := true
		e.VerifyCerts = &verify
	}
}

func setOutputDefaults(o *OutputConfig) {
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.Suffix == "" {
		o.Suffix = DefaultSuffix
	}
	if o.Delimiter == "" {
		o.Delimiter = DefaultDelimiter
	}
	if o.FilePath == "" {
		o.FilePath = environment.DefaultFilePath(environment.Default)
	}
	if o.IndexName == "" {
		o.IndexName = DefaultIndexName
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	checks := []func() error{
		c.Elasticsearch.validate,
		func() error {
			if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
				return &infraconfig.ValidationError{Field: "logging.loglevel", Message: err.Error()}
			}
			return nil
		},
		func() error {
			return infraconfig.ValidateOneOf("logging.logformat", c.Logging.Format, logger.FormatConsole, logger.FormatJSON)
		},
		func() error { return infraconfig.ValidateRequired("output.suffix", c.Output.Suffix) },
		func() error { return infraconfig.ValidateRequired("output.indexname", c.Output.IndexName) },
		func() error {
			if c.Aggregator.MappingConcurrency < 1 {
				return &infraconfig.ValidationError{Field: "aggregator.mapping_concurrency", Message: "must be at least 1"}
			}
			return nil
		},
		c.Server.Validate,
	}

	for _, check := range checks {
		if err := check(); err != nil {
			return asConfigurationError(err)
		}
	}
	return nil
}

func (e *ElasticsearchConfig) validate() error {
	if len(e.Hosts) > 0 && e.CloudID != "" {
		return &infraconfig.ValidationError{Field: "elasticsearch.cloud_id", Message: "cannot be combined with hosts"}
	}
	if (e.ClientCert == "") != (e.ClientKey == "") {
		return &infraconfig.ValidationError{Field: "elasticsearch.client_key", Message: "client_cert and client_key must be set together"}
	}
	if e.RequestTimeout < 0 {
		return &infraconfig.ValidationError{Field: "elasticsearch.request_timeout", Message: "must not be negative"}
	}
	return nil
}

func asConfigurationError(err error) error {
	var validation *infraconfig.ValidationError
	if errors.As(err, &validation) {
		return &ConfigurationError{Key: validation.Field, Message: validation.Message}
	}
	return &ConfigurationError{Message: err.Error()}
}

// ClientConfig converts the connection settings for infrastructure/elasticsearch.
func (e *ElasticsearchConfig) ClientConfig() infraes.Config {
	cfg := infraes.Config{
		Hosts:               e.Hosts,
		CloudID:             e.CloudID,
		APIKey:              e.APIKey,
		Username:            e.Username,
		Password:            e.Password,
		BearerToken:         e.BearerAuth,
		RequestTimeout:      e.RequestTimeout,
		CompressRequestBody: e.HTTPCompress,
		MaxRetries:          e.MaxRetries,
	}

	insecure := e.VerifyCerts != nil && !*e.VerifyCerts
	if insecure || e.CACerts != "" || e.ClientCert != "" {
		cfg.TLS = &infraes.TLSConfig{
			InsecureSkipVerify: insecure,
			CAFile:             e.CACerts,
			CertFile:           e.ClientCert,
			KeyFile:            e.ClientKey,
		}
	}
	return cfg
}
