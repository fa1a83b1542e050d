package ledger

import (
	"io"
	"os"

	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/rent"
	"github.com/tendermint/tendermint/libs/log"
	yaml "gopkg.in/yaml.v3"
)

// DefaultMaxInvokeDepth limits how deep cross-program invocations nest,
// counting the top level instruction.
const DefaultMaxInvokeDepth = 4

// Config holds the ledger runtime settings.
type Config struct {
	// LogLevel is one of debug, info, error or none.
	LogLevel string `yaml:"log_level"`
	// Debug exposes internal error messages in transaction results.
	Debug          bool      `yaml:"debug"`
	MaxInvokeDepth int       `yaml:"max_invoke_depth"`
	Rent           rent.Rent `yaml:"rent"`
}

// DefaultConfig returns the configuration used when nothing else is set.
func DefaultConfig() Config {
	return Config{
		LogLevel:       "info",
		MaxInvokeDepth: DefaultMaxInvokeDepth,
		Rent:           rent.Default(),
	}
}

// LoadConfig reads a YAML configuration file. Values missing from the file
// keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(errors.ErrInvalidInput, "read config %q: %s", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(errors.ErrInvalidInput, "parse config %q: %s", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %q", path)
	}
	return cfg, nil
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	if c.MaxInvokeDepth < 1 {
		return errors.Wrapf(errors.ErrInvalidInput, "max invoke depth %d", c.MaxInvokeDepth)
	}
	if _, err := log.AllowLevel(c.LogLevel); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "log level %q", c.LogLevel)
	}
	return errors.Wrap(c.Rent.Validate(), "rent")
}

// NewLogger returns a logger writing to w, filtered to the configured level.
func (c Config) NewLogger(w io.Writer) (log.Logger, error) {
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "log level %q", c.LogLevel)
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(w)), opt), nil
}
