package main

import (
	"errors"
	"io"
	"os"

	"github.com/inconshreveable/log15"
	"github.com/polydawn/go-errcat"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"gopkg.in/yaml.v3"

	"github.com/vogtb/go-cellsheet"
)

const (
	tokenizerNative = "native"
	tokenizerExcel  = "excel"

	formatTSV   = "tsv"
	formatTable = "table"
	formatJSON  = "json"

	showValues = "values"
	showTexts  = "texts"
	showBoth   = "both"
)

// Config is the CLI configuration. Values are layered: defaults, then
// the YAML file named by --config, then CELLSHEET_* environment
// variables, then command-line flags. Empty strings never override.
type Config struct {
	Tokenizer string `yaml:"tokenizer"`
	Format    string `yaml:"format"`
	Show      string `yaml:"show"`
	LogLevel  string `yaml:"log_level"`
	Encoding  string `yaml:"encoding"`
}

func DefaultConfig() Config {
	return Config{
		Tokenizer: tokenizerNative,
		Format:    formatTSV,
		Show:      showValues,
		LogLevel:  "warn",
	}
}

var configEnv = map[string]func(*Config) *string{
	"CELLSHEET_TOKENIZER": func(c *Config) *string { return &c.Tokenizer },
	"CELLSHEET_FORMAT":    func(c *Config) *string { return &c.Format },
	"CELLSHEET_SHOW":      func(c *Config) *string { return &c.Show },
	"CELLSHEET_LOG_LEVEL": func(c *Config) *string { return &c.LogLevel },
	"CELLSHEET_ENCODING":  func(c *Config) *string { return &c.Encoding },
}

func LoadConfig(path string, getenv func(string) string, overrides Config) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, errcat.Errorf(ErrIO, "cannot open config: %s", err)
		}
		defer f.Close()
		file, err := decodeConfig(f)
		if err != nil {
			return cfg, err
		}
		cfg.merge(file)
	}
	for name, field := range configEnv {
		if value := getenv(name); value != "" {
			*field(&cfg) = value
		}
	}
	cfg.merge(overrides)
	return cfg, cfg.validate()
}

func decodeConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, errcat.Errorf(ErrConfig, "invalid config: %s", err)
	}
	return cfg, nil
}

func (c *Config) merge(other Config) {
	for _, field := range configEnv {
		if value := *field(&other); value != "" {
			*field(c) = value
		}
	}
}

func (c Config) validate() error {
	switch c.Tokenizer {
	case tokenizerNative, tokenizerExcel:
	default:
		return errcat.Errorf(ErrConfig, "unknown tokenizer %q", c.Tokenizer)
	}
	switch c.Format {
	case formatTSV, formatTable, formatJSON:
	default:
		return errcat.Errorf(ErrConfig, "unknown format %q", c.Format)
	}
	switch c.Show {
	case showValues, showTexts, showBoth:
	default:
		return errcat.Errorf(ErrConfig, "unknown show mode %q", c.Show)
	}
	if _, err := c.logLevel(); err != nil {
		return err
	}
	if c.Encoding != "" {
		if _, err := lookupEncoding(c.Encoding); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) tokenizer() cellsheet.Tokenizer {
	if c.Tokenizer == tokenizerExcel {
		return cellsheet.ExcelTokenizer{}
	}
	return cellsheet.NativeTokenizer{}
}

func (c Config) logLevel() (log15.Lvl, error) {
	lvl, err := log15.LvlFromString(c.LogLevel)
	if err != nil {
		return lvl, errcat.Errorf(ErrConfig, "unknown log level %q", c.LogLevel)
	}
	return lvl, nil
}

func lookupEncoding(charset string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, errcat.Errorf(ErrConfig, "unknown encoding %q", charset)
	}
	if enc == nil {
		return nil, errcat.Errorf(ErrConfig, "unsupported encoding %q", charset)
	}
	return enc, nil
}
