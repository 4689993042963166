package logger

// Level represents the logging level.
type Level string

const (
	// DebugLevel logs debug messages.
	DebugLevel Level = "debug"
	// InfoLevel logs info messages.
	InfoLevel Level = "info"
	// WarnLevel logs warning messages.
	WarnLevel Level = "warn"
	// ErrorLevel logs error messages.
	ErrorLevel Level = "error"
	// FatalLevel logs fatal messages and exits.
	FatalLevel Level = "fatal"
)

// Supported encodings.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config represents the logger configuration.
type Config struct {
	// Level is the minimum logging level (debug, info, warn, error, fatal).
	Level string `env:"FIELDUSAGE_LOGLEVEL" yaml:"loglevel"`
	// Format is "console" or "json".
	Format string `env:"FIELDUSAGE_LOGFORMAT" yaml:"logformat"`
	// File, when set, replaces the default output path.
	File string `env:"FIELDUSAGE_LOGFILE" yaml:"logfile"`
	// Development enables caller annotation and disables sampling.
	Development bool `yaml:"development"`
	// OutputPaths is a list of URLs or file paths to write logging output to.
	OutputPaths []string `yaml:"output_paths"`
}

// Default configuration values.
const (
	DefaultLevel  = "info"
	DefaultFormat = FormatConsole
)

// DefaultOutputPaths keeps log lines off stdout.
var DefaultOutputPaths = []string{"stderr"}

// SetDefaults applies default values to the config if not set.
func (c *Config) SetDefaults() {
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if len(c.OutputPaths) == 0 {
		if c.File != "" {
			c.OutputPaths = []string{c.File}
		} else {
			c.OutputPaths = DefaultOutputPaths
		}
	}
}
