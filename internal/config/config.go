package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/navbridge/internal/errors"
	"github.com/vango-dev/navbridge/internal/logging"
	"github.com/vango-dev/navbridge/pkg/routes"
)

const (
	// ConfigFileName is the default configuration file name.
	ConfigFileName = "navbridge.json"

	// DefaultAddr is the default server listen address.
	DefaultAddr = ":8080"

	// DefaultMetricsPath is the default Prometheus endpoint.
	DefaultMetricsPath = "/metrics"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log format.
	DefaultLogFormat = "text"
)

// Format is a configuration file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Config is the complete navbridge configuration.
type Config struct {
	// Name is the application name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Routes is the route table.
	Routes []routes.RouteDefinition `json:"routes" yaml:"routes"`

	// Server contains bridge server settings.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Log contains logger settings.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	// source records where the config was loaded from.
	source string
}

// ServerConfig contains bridge server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// MetricsPath is where Prometheus metrics are served.
	MetricsPath string `json:"metricsPath,omitempty" yaml:"metricsPath,omitempty"`

	// DropStale makes each connection deliver only its latest navigation.
	DropStale bool `json:"dropStale,omitempty" yaml:"dropStale,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn (or warning), error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a Config with default values and no routes.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        DefaultAddr,
			MetricsPath: DefaultMetricsPath,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New("E102").WithWhere(path)
	}
}

// Load reads configuration from a file. The format follows the extension.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").
				WithWhere(path).
				WithSuggestion("Pass the path of an existing " + ConfigFileName + " or YAML route table")
		}
		return nil, errors.New("E101").WithWhere(path).Wrap(err)
	}

	cfg, err := LoadBytes(data, format)
	if err != nil {
		if ne, ok := err.(*errors.NavError); ok && ne.Where == "" {
			ne.Where = path
		}
		return nil, err
	}
	cfg.source = path
	return cfg, nil
}

// LoadBytes parses configuration data in the given format, applies
// defaults and validates the result.
func LoadBytes(data []byte, format Format) (*Config, error) {
	cfg := New()

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.New("E100").
				WithSuggestion("Check that the file is valid JSON").
				Wrap(err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, errors.New("E100").
				WithSuggestion("Check that the file is valid YAML").
				Wrap(err)
		}
	default:
		return nil, errors.New("E102").WithWhere(string(format))
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ObjectGetter is the subset of the S3 client used to fetch route tables.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadFromS3 reads configuration from an S3 object. The format follows the
// key's extension.
func LoadFromS3(ctx context.Context, client ObjectGetter, bucket, key string) (*Config, error) {
	where := "s3://" + bucket + "/" + key

	format, err := FormatFromPath(key)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New("E104").WithWhere(where).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("E104").WithWhere(where).Wrap(err)
	}

	cfg, err := LoadBytes(data, format)
	if err != nil {
		if ne, ok := err.(*errors.NavError); ok && ne.Where == "" {
			ne.Where = where
		}
		return nil, err
	}
	cfg.source = where
	return cfg, nil
}

// Source returns where the config was loaded from, or "".
func (c *Config) Source() string {
	return c.source
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MetricsPath == "" {
		c.Server.MetricsPath = DefaultMetricsPath
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate checks the route table and the log settings.
func (c *Config) Validate() error {
	if err := routes.Validate(c.Routes); err != nil {
		return errors.New("E103").Wrap(err)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errors.New("E105").WithWhere("log.level=" + c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("E105").WithWhere("log.format=" + c.Log.Format)
	}
	return nil
}
