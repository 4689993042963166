package elasticsearch

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraerrors "github.com/jonesrussell/north-cloud/field-usage/infrastructure/errors"
	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/retry"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"X-Elastic-Product": []string{"Elasticsearch"}},
	}
}

func fastRetry() *retry.Config {
	return &retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{input: "http://elasticsearch:9200", expected: "http://elasticsearch:9200"},
		{input: "https://elasticsearch:9200/", expected: "https://elasticsearch:9200"},
		{input: "elasticsearch:9200", expected: "http://elasticsearch:9200"},
		{input: " ", expected: DefaultHost},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeURL(tt.input), tt.input)
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.SetDefaults()
	assert.Equal(t, []string{DefaultHost}, cfg.Hosts)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.PingTimeout)
	require.NotNil(t, cfg.RetryConfig)
	assert.Equal(t, 3, cfg.RetryConfig.MaxAttempts)

	cloud := Config{CloudID: "deployment:abc"}
	cloud.SetDefaults()
	assert.Empty(t, cloud.Hosts)
}

func TestBuildClientConfig_Auth(t *testing.T) {
	t.Parallel()

	cfg := Config{Hosts: []string{"es1:9200", "https://es2:9200"}, APIKey: "id:secret"}
	clientConfig, err := buildClientConfig(&cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"http://es1:9200", "https://es2:9200"}, clientConfig.Addresses)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("id:secret")), clientConfig.APIKey)

	encoded := Config{APIKey: "ZW5jb2RlZA=="}
	clientConfig, err = buildClientConfig(&encoded)
	require.NoError(t, err)
	assert.Equal(t, "ZW5jb2RlZA==", clientConfig.APIKey)

	bearer := Config{BearerToken: "token"}
	clientConfig, err = buildClientConfig(&bearer)
	require.NoError(t, err)
	assert.Equal(t, "token", clientConfig.ServiceToken)
}

func TestBuildClientConfig_RejectsConflictingAuth(t *testing.T) {
	t.Parallel()

	cfg := Config{APIKey: "id:key", Username: "elastic", Password: "changeme"}
	_, err := buildClientConfig(&cfg)
	require.ErrorIs(t, err, ErrConflictingAuth)

	half := Config{Username: "elastic"}
	_, err = buildClientConfig(&half)
	require.Error(t, err)
}

func TestCreateTransport_TLS(t *testing.T) {
	t.Parallel()

	transport, err := createTransport(nil, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, transport.ResponseHeaderTimeout)

	transport, err = createTransport(&TLSConfig{InsecureSkipVerify: true}, 0)
	require.NoError(t, err)
	require.NotNil(t, transport.TLSClientConfig)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)

	_, err = createTransport(&TLSConfig{CAFile: filepath.Join(t.TempDir(), "missing.pem")}, 0)
	require.Error(t, err)

	notPEM := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(notPEM, []byte("not a certificate"), 0o600))
	_, err = createTransport(&TLSConfig{CAFile: notPEM}, 0)
	require.Error(t, err)
}

func TestNewClient_RetriesPing(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	transport := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if calls.Add(1) == 1 {
			return nil, io.ErrUnexpectedEOF
		}
		return response(http.StatusOK, `{}`), nil
	})

	client, err := NewClient(context.Background(), Config{
		Transport:   transport,
		MaxRetries:  -1,
		RetryConfig: fastRetry(),
	}, nil)
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNewClient_AuthFailureIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	transport := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return response(http.StatusUnauthorized, ``), nil
	})

	_, err := NewClient(context.Background(), Config{
		Transport:   transport,
		MaxRetries:  -1,
		RetryConfig: fastRetry(),
	}, nil)
	require.Error(t, err)

	code, ok := infraerrors.StatusCode(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, int32(1), calls.Load())
}
