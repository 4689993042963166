package elasticsearch

import (
	"net/http"
	"time"

	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/retry"
)

// DefaultHost is used when neither hosts nor a cloud id are configured.
const DefaultHost = "http://localhost:9200"

// Config holds Elasticsearch client configuration.
type Config struct {
	// Hosts lists node URLs; a missing scheme defaults to http.
	Hosts []string

	// CloudID selects an Elastic Cloud deployment instead of Hosts.
	CloudID string

	// APIKey is either "id:key" or the already encoded credential.
	APIKey string

	// Username and Password enable basic auth.
	Username string
	Password string

	// BearerToken is sent as a service account token.
	BearerToken string

	// TLS configures certificate handling for https hosts.
	TLS *TLSConfig

	// RequestTimeout bounds the wait for response headers. Zero disables it.
	RequestTimeout time.Duration

	// MaxRetries is the transport-level retry count for a single request.
	// A negative value disables transport retries.
	MaxRetries int

	// CompressRequestBody gzips request bodies.
	CompressRequestBody bool

	// PingTimeout bounds each connection check (default: 5s).
	PingTimeout time.Duration

	// RetryConfig governs connection verification at startup. Defaults to
	// 3 attempts starting at 1s.
	RetryConfig *retry.Config

	// Transport, when set, replaces the transport built from TLS.
	Transport http.RoundTripper
}

// TLSConfig holds TLS configuration for Elasticsearch connections.
type TLSConfig struct {
	// InsecureSkipVerify disables certificate verification.
	InsecureSkipVerify bool

	// CAFile is a PEM bundle of trusted certificate authorities.
	CAFile string

	// CertFile and KeyFile hold the client certificate pair.
	CertFile string
	KeyFile  string
}

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if len(c.Hosts) == 0 && c.CloudID == "" {
		c.Hosts = []string{DefaultHost}
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = 5 * time.Second
	}
	if c.RetryConfig == nil {
		c.RetryConfig = &retry.Config{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
		}
	}
}
