// Package elasticsearch builds a verified go-elasticsearch client from
// connection settings.
package elasticsearch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	infraerrors "github.com/jonesrussell/north-cloud/field-usage/infrastructure/errors"
	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/retry"
)

// ErrConflictingAuth is returned when more than one credential kind is set.
var ErrConflictingAuth = errors.New("only one of api key, bearer token or username/password may be set")

// NewClient creates an Elasticsearch client and verifies the connection,
// retrying the check with exponential backoff.
func NewClient(ctx context.Context, cfg Config, log logger.Logger) (*es.Client, error) {
	if log == nil {
		log = logger.NewNop()
	}

	clientConfig, err := buildClientConfig(&cfg)
	if err != nil {
		return nil, err
	}

	esClient, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	target := strings.Join(clientConfig.Addresses, ",")
	if cfg.CloudID != "" {
		target = "cloud:" + strings.SplitN(cfg.CloudID, ":", 2)[0]
	}
	log.Debug("Verifying Elasticsearch connection", logger.String("target", target))

	retryCfg := *cfg.RetryConfig
	retryCfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		log.Warn("Elasticsearch not reachable, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("delay", delay),
			logger.Error(err),
		)
	}
	if err := retry.Retry(ctx, retryCfg, func(ctx context.Context) error {
		return ping(ctx, esClient, cfg.PingTimeout)
	}); err != nil {
		return nil, fmt.Errorf("connect to elasticsearch at %s: %w", target, err)
	}

	log.Debug("Elasticsearch connection established", logger.String("target", target))
	return esClient, nil
}

func buildClientConfig(cfg *Config) (es.Config, error) {
	cfg.SetDefaults()

	if err := checkAuth(cfg); err != nil {
		return es.Config{}, err
	}

	transport := cfg.Transport
	if transport == nil {
		built, err := createTransport(cfg.TLS, cfg.RequestTimeout)
		if err != nil {
			return es.Config{}, err
		}
		transport = built
	}

	clientConfig := es.Config{
		CloudID:             cfg.CloudID,
		Transport:           transport,
		MaxRetries:          cfg.MaxRetries,
		CompressRequestBody: cfg.CompressRequestBody,
		Username:            cfg.Username,
		Password:            cfg.Password,
		ServiceToken:        cfg.BearerToken,
		APIKey:              encodeAPIKey(cfg.APIKey),
	}
	if cfg.MaxRetries < 0 {
		clientConfig.MaxRetries = 0
		clientConfig.DisableRetry = true
	}
	if cfg.CloudID == "" {
		clientConfig.Addresses = make([]string, len(cfg.Hosts))
		for i, host := range cfg.Hosts {
			clientConfig.Addresses[i] = normalizeURL(host)
		}
	}
	return clientConfig, nil
}

func checkAuth(cfg *Config) error {
	kinds := 0
	if cfg.APIKey != "" {
		kinds++
	}
	if cfg.BearerToken != "" {
		kinds++
	}
	if cfg.Username != "" || cfg.Password != "" {
		if cfg.Username == "" || cfg.Password == "" {
			return errors.New("username and password must be set together")
		}
		kinds++
	}
	if kinds > 1 {
		return ErrConflictingAuth
	}
	return nil
}

// encodeAPIKey turns "id:key" into the base64 credential the client expects.
func encodeAPIKey(key string) string {
	if key == "" || !strings.Contains(key, ":") {
		return key
	}
	return base64.StdEncoding.EncodeToString([]byte(key))
}

func normalizeURL(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if url == "" {
		return DefaultHost
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}

func createTransport(tlsConfig *TLSConfig, requestTimeout time.Duration) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = requestTimeout

	if tlsConfig == nil {
		return transport, nil
	}

	tlsClientConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: tlsConfig.InsecureSkipVerify, //nolint:gosec // opt-in via --verify-certs=false
	}

	if tlsConfig.CAFile != "" {
		pem, err := os.ReadFile(tlsConfig.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", tlsConfig.CAFile)
		}
		tlsClientConfig.RootCAs = pool
	}

	if tlsConfig.CertFile != "" || tlsConfig.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsClientConfig.Certificates = []tls.Certificate{cert}
	}

	transport.TLSClientConfig = tlsClientConfig
	return transport, nil
}

func ping(ctx context.Context, client *es.Client, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := client.Ping(client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return infraerrors.ParseResponse(res.StatusCode, res.Body)
	}
	return nil
}
