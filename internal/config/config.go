// Package config assembles the application options. Sources are applied in
// order, later ones winning: built-in defaults, a YAML config file, a .env
// file, the process environment and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/atinyakov/shortify/internal/shortener"
	"github.com/atinyakov/shortify/internal/storage"
	"github.com/atinyakov/shortify/internal/suggest"
)

// Options holds the configuration values for the application.
type Options struct {
	// ServerAddress is the listening address (ip:port) of the HTTP server.
	ServerAddress string `yaml:"server_address" json:"server_address"`

	// BaseURL is the externally visible address of the HTTP server. Local
	// open links on the web page are built from it.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// GRPCAddress is the listening address of the gRPC server; empty
	// disables it.
	GRPCAddress string `yaml:"grpc_address" json:"grpc_address"`

	// StorageBackend selects the medium: memory, file, sqlite, postgres or redis.
	StorageBackend string `yaml:"storage_backend" json:"storage_backend"`

	// FilePath is the document used by the file backend.
	FilePath string `yaml:"file_storage_path" json:"file_storage_path"`

	// DatabaseDSN is the sqlite path or postgres connection string.
	DatabaseDSN string `yaml:"database_dsn" json:"database_dsn"`

	RedisAddr string `yaml:"redis_addr" json:"redis_addr"`

	// StorageKey is the key the link list is stored under.
	StorageKey string `yaml:"storage_key" json:"storage_key"`

	ShortenerEndpoint string `yaml:"shortener_endpoint" json:"shortener_endpoint"`

	// APIKey is the Gemini credential. Without it suggestions fall back to
	// random aliases.
	APIKey string `yaml:"api_key" json:"api_key"`

	Model string `yaml:"gemini_model" json:"gemini_model"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	EnableHTTPS bool     `yaml:"enable_https" json:"enable_https"`
	TLSHosts    []string `yaml:"tls_hosts" json:"tls_hosts"`

	EnablePprof bool `yaml:"enable_pprof" json:"enable_pprof"`

	// RedirectDelay is how long the redirect page waits before navigating.
	RedirectDelay time.Duration `yaml:"redirect_delay" json:"redirect_delay"`

	// HTTPTimeout bounds every call to the shortening and suggestion services.
	HTTPTimeout time.Duration `yaml:"http_timeout" json:"http_timeout"`
}

// Default returns the built-in configuration.
func Default() *Options {
	return &Options{
		ServerAddress:     "localhost:8080",
		BaseURL:           "http://localhost:8080",
		StorageBackend:    storage.BackendFile,
		FilePath:          defaultFilePath(),
		StorageKey:        storage.DefaultKey,
		ShortenerEndpoint: shortener.DefaultEndpoint,
		Model:             suggest.DefaultModel,
		LogLevel:          "info",
		RedirectDelay:     800 * time.Millisecond,
		HTTPTimeout:       10 * time.Second,
	}
}

func defaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".shortify", "links.json")
	}
	return filepath.Join(home, ".shortify", "links.json")
}

// Load returns the defaults overlaid with the config file, the .env file and
// the environment. An empty path falls back to $CONFIG; no path means no file.
// The .env file is read from $DOTENV or ./.env and may be absent.
func Load(path string) (*Options, error) {
	o := Default()

	if path == "" {
		path = os.Getenv("CONFIG")
	}
	if path != "" {
		if err := o.loadFile(path); err != nil {
			return nil, err
		}
	}

	dotenvPath := os.Getenv("DOTENV")
	if dotenvPath == "" {
		dotenvPath = ".env"
	}
	dotenv, err := godotenv.Read(dotenvPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := o.applyEnv(lookup); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Options) loadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(content, o); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (o *Options) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("SERVER_ADDRESS", &o.ServerAddress)
	str("BASE_URL", &o.BaseURL)
	str("GRPC_ADDRESS", &o.GRPCAddress)
	str("STORAGE_BACKEND", &o.StorageBackend)
	str("FILE_STORAGE_PATH", &o.FilePath)
	str("DATABASE_DSN", &o.DatabaseDSN)
	str("REDIS_ADDR", &o.RedisAddr)
	str("STORAGE_KEY", &o.StorageKey)
	str("SHORTENER_ENDPOINT", &o.ShortenerEndpoint)
	str("API_KEY", &o.APIKey)
	str("GEMINI_API_KEY", &o.APIKey)
	str("GEMINI_MODEL", &o.Model)
	str("LOG_LEVEL", &o.LogLevel)

	if v, ok := lookup("TLS_HOSTS"); ok && v != "" {
		o.TLSHosts = splitList(v)
	}

	for key, dst := range map[string]*bool{
		"ENABLE_HTTPS": &o.EnableHTTPS,
		"ENABLE_PPROF": &o.EnablePprof,
	} {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}

	for key, dst := range map[string]*time.Duration{
		"REDIRECT_DELAY": &o.RedirectDelay,
		"HTTP_TIMEOUT":   &o.HTTPTimeout,
	} {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = d
		}
	}

	return nil
}

// RegisterFlags adds a flag for every option to fs, defaulting to the
// current values.
func (o *Options) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ServerAddress, "address", "a", o.ServerAddress, "run on ip:port server")
	fs.StringVarP(&o.BaseURL, "base-url", "b", o.BaseURL, "externally visible base url")
	fs.StringVar(&o.GRPCAddress, "grpc-address", o.GRPCAddress, "run the gRPC server on ip:port, empty to disable")
	fs.StringVar(&o.StorageBackend, "storage", o.StorageBackend, "storage backend: memory, file, sqlite, postgres, redis")
	fs.StringVarP(&o.FilePath, "file", "f", o.FilePath, "path to storage file")
	fs.StringVarP(&o.DatabaseDSN, "dsn", "d", o.DatabaseDSN, "sqlite path or postgres dsn")
	fs.StringVar(&o.RedisAddr, "redis", o.RedisAddr, "redis address or redis:// url")
	fs.StringVar(&o.StorageKey, "storage-key", o.StorageKey, "key the link list is stored under")
	fs.StringVar(&o.ShortenerEndpoint, "endpoint", o.ShortenerEndpoint, "shortening service endpoint")
	fs.StringVar(&o.Model, "model", o.Model, "model used for alias suggestions")
	fs.StringVar(&o.LogLevel, "log-level", o.LogLevel, "log level")
	fs.BoolVarP(&o.EnableHTTPS, "https", "s", o.EnableHTTPS, "enable https")
	fs.StringSliceVar(&o.TLSHosts, "tls-hosts", o.TLSHosts, "hosts allowed to request certificates")
	fs.BoolVarP(&o.EnablePprof, "pprof", "p", o.EnablePprof, "enable pprof")
	fs.DurationVar(&o.RedirectDelay, "redirect-delay", o.RedirectDelay, "delay before the redirect page navigates")
	fs.DurationVar(&o.HTTPTimeout, "timeout", o.HTTPTimeout, "timeout for outbound calls")
}

// ApplyFlags copies every flag explicitly set on changed onto o. Flag names
// are those of RegisterFlags.
func (o *Options) ApplyFlags(changed *pflag.FlagSet) error {
	target := pflag.NewFlagSet("options", pflag.ContinueOnError)
	o.RegisterFlags(target)

	var err error
	changed.Visit(func(f *pflag.Flag) {
		dst := target.Lookup(f.Name)
		if dst == nil || err != nil {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			if dsv, ok := dst.Value.(pflag.SliceValue); ok {
				err = dsv.Replace(sv.GetSlice())
				return
			}
		}
		if setErr := target.Set(f.Name, f.Value.String()); setErr != nil {
			err = fmt.Errorf("flag --%s: %w", f.Name, setErr)
		}
	})
	return err
}

// StorageOptions returns the medium selection derived from o.
func (o *Options) StorageOptions() storage.Options {
	return storage.Options{
		Backend:     o.StorageBackend,
		FilePath:    o.FilePath,
		DSN:         o.DatabaseDSN,
		RedisAddr:   o.RedisAddr,
		RedisPrefix: "shortify:",
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
