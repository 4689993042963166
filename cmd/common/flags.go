package common

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables that mirror command-line flags,
// e.g. FIELDUSAGE_LOGLEVEL for --loglevel.
const EnvPrefix = "FIELDUSAGE"

// Flag names shared between commands.
const (
	FlagConfig    = "config"
	FlagDebug     = "debug"
	FlagLogFile   = "logfile"
	FlagCloudID   = "cloud-id"
	FlagHosts     = "hosts"
	FlagDelimiter = "delimiter"
	FlagFilePath  = "filepath"
	FlagPrefix    = "prefix"
	FlagSuffix    = "suffix"
	FlagIndexName = "indexname"
)

// flagKeys maps flag names onto the config keys they override.
var flagKeys = map[string]string{
	FlagHosts:         "elasticsearch.hosts",
	FlagCloudID:       "elasticsearch.cloud_id",
	"api-key":         "elasticsearch.api_key",
	"username":        "elasticsearch.username",
	"password":        "elasticsearch.password",
	"bearer-auth":     "elasticsearch.bearer_auth",
	"request-timeout": "elasticsearch.request_timeout",
	"verify-certs":    "elasticsearch.verify_certs",
	"ca-certs":        "elasticsearch.ca_certs",
	"client-cert":     "elasticsearch.client_cert",
	"client-key":      "elasticsearch.client_key",
	"http-compress":   "elasticsearch.http_compress",
	"loglevel":        "logging.loglevel",
	"logformat":       "logging.logformat",
	FlagLogFile:       "logging.logfile",
	FlagDelimiter:     "output.delimiter",
	FlagFilePath:      "output.filepath",
	FlagPrefix:        "output.prefix",
	FlagSuffix:        "output.suffix",
	FlagIndexName:     "output.indexname",
}

// AddGlobalFlags registers the connection and logging flags every command
// shares.
func AddGlobalFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "config file (default is ./fieldusage.yml or ./config.yml)")
	fs.StringSlice(FlagHosts, nil, "Elasticsearch host URL, repeatable or comma separated (default http://127.0.0.1:9200)")
	fs.String(FlagCloudID, "", "Elastic Cloud instance id")
	fs.String("api-key", "", "API key, either id:api_key or the base64 encoded form")
	fs.String("username", "", "username for basic auth")
	fs.String("password", "", "password for basic auth")
	fs.String("bearer-auth", "", "bearer token")
	fs.String("request-timeout", "", "request timeout, in seconds or as a duration (default 10s)")
	fs.Bool("verify-certs", true, "verify TLS certificates")
	fs.String("ca-certs", "", "path to a CA certificate bundle")
	fs.String("client-cert", "", "path to a client certificate")
	fs.String("client-key", "", "path to the client certificate key")
	fs.Bool("http-compress", false, "gzip request bodies")
	fs.String("loglevel", "", "log level: debug, info, warn, error, fatal (default info)")
	fs.String("logformat", "", "log format: console or json (default console)")
	fs.String(FlagLogFile, "", "write logs to this file instead of stderr")
	fs.Bool(FlagDebug, false, "enable debug logging")
}

// NewViper returns a viper instance bound to fs that also reads
// FIELDUSAGE_* environment variables.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	return v, nil
}

// Overrides collects the config overrides for every flag that was set on
// the command line or through its environment variable.
func Overrides(fs *pflag.FlagSet, v *viper.Viper) map[string]any {
	values := make(map[string]any)
	for name, key := range flagKeys {
		if fs.Lookup(name) == nil || !v.IsSet(name) {
			continue
		}
		values[key] = v.Get(name)
	}

	if _, ok := values["elasticsearch.cloud_id"]; ok {
		if _, hosts := values["elasticsearch.hosts"]; !hosts {
			values["elasticsearch.hosts"] = []string{}
		}
	}
	if file, ok := values["logging.logfile"]; ok {
		values["logging.output_paths"] = []any{file}
	}
	if v.GetBool(FlagDebug) {
		values["logging.loglevel"] = "debug"
		values["logging.development"] = true
	}
	return values
}
