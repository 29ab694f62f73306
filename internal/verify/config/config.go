package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/haukened/ddverify/internal/verify/domain"
)

// Suffix dataset sources.
const (
	SuffixSourceRemote  = "remote"
	SuffixSourceFile    = "file"
	SuffixSourceBuiltin = "builtin"
)

// AppConfig holds configuration values from defaults, environment variables and flags.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// DenyList and AllowList are the paths of the two curated lists.
	DenyList  string `koanf:"deny_list" validate:"required"`
	AllowList string `koanf:"allow_list" validate:"required"`

	// SuffixSource selects where the public suffix dataset comes from.
	SuffixSource string `koanf:"suffix_source" validate:"required,oneof=remote file builtin"`

	SuffixURL  string `koanf:"suffix_url" validate:"omitempty,url"`
	SuffixFile string `koanf:"suffix_file"`

	// SuffixOverrides is an optional file of locally curated suffixes.
	SuffixOverrides string `koanf:"suffix_overrides"`

	// SuffixICANNOnly skips the private-domain section of the dataset.
	SuffixICANNOnly bool `koanf:"suffix_icann_only"`

	SuffixTimeout time.Duration `koanf:"suffix_timeout" validate:"gte=0"`

	// SuffixCache is a bbolt file recording every fetched dataset. Empty disables it.
	SuffixCache string `koanf:"suffix_cache"`

	// SuffixOfflineFallback allows the latest cached dataset to stand in for a failed fetch.
	SuffixOfflineFallback bool `koanf:"suffix_offline_fallback"`

	// MemoSize bounds the classifier's decomposition cache; 0 disables it.
	MemoSize int `koanf:"memo_size" validate:"gte=0"`

	// DNSServers is a list of resolvers in ip:port format used by the MX check.
	DNSServers []string `koanf:"dns_servers" validate:"required,dive,ip_port"`
	DNSTimeout time.Duration `koanf:"dns_timeout" validate:"gt=0"`
	DNSWorkers int           `koanf:"dns_workers" validate:"gte=1"`

	// DNSLists names the lists the MX check probes, in order.
	DNSLists []string `koanf:"dns_lists" validate:"required,dive,list_kind"`

	HarvestURL     string        `koanf:"harvest_url" validate:"required,url"`
	HarvestTimeout time.Duration `koanf:"harvest_timeout" validate:"gt=0"`
}

// DEFAULT_APP_CONFIG mirrors the file names and endpoints the list repository has always used.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:            "prod",
	LogLevel:       "info",
	DenyList:       "disposable_email_blocklist.conf",
	AllowList:      "allowlist.conf",
	SuffixSource:   SuffixSourceRemote,
	SuffixURL:      "https://publicsuffix.org/list/public_suffix_list.dat",
	SuffixTimeout:  30 * time.Second,
	MemoSize:       4096,
	DNSServers:     []string{"1.1.1.1:53", "1.0.0.1:53"},
	DNSTimeout:     time.Second,
	DNSWorkers:     8,
	DNSLists:       []string{"allow", "deny"},
	HarvestURL:     "https://yopmail.com/en/domain?d=list",
	HarvestTimeout: 30 * time.Second,
}

// validIPPort reports whether the field is an "IP:Port" pair with a port in 1-65535.
func validIPPort(fl validator.FieldLevel) bool {
	ip, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil || ip == "" || port == "" {
		return false
	}
	if net.ParseIP(ip) == nil {
		return false
	}
	n, err := strconv.ParseUint(port, 10, 16)
	return err == nil && n > 0
}

// validListKind reports whether the field names a list ("deny" or "allow").
func validListKind(fl validator.FieldLevel) bool {
	_, err := domain.ParseListKind(fl.Field().String())
	return err == nil
}

// crossFieldRules validates combinations the struct tags cannot express.
func crossFieldRules(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(AppConfig)
	if cfg.SuffixSource == SuffixSourceRemote && cfg.SuffixURL == "" {
		sl.ReportError(cfg.SuffixURL, "SuffixURL", "suffix_url", "required_for_remote", "")
	}
	if cfg.SuffixSource == SuffixSourceFile && cfg.SuffixFile == "" {
		sl.ReportError(cfg.SuffixFile, "SuffixFile", "suffix_file", "required_for_file", "")
	}
	if cfg.SuffixOfflineFallback && cfg.SuffixCache == "" {
		sl.ReportError(cfg.SuffixOfflineFallback, "SuffixOfflineFallback", "suffix_offline_fallback", "requires_cache", "")
	}
}

// listKeys are the keys whose values are split on spaces and commas.
// Every other value, paths included, is taken verbatim.
var listKeys = map[string]bool{
	"dns_servers": true,
	"dns_lists":   true,
}

// envLoader loads variables with the prefix "DDV_". Values of listKeys
// become lists. It is a variable so tests can replace it.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DDV_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "DDV_"))
			value = strings.TrimSpace(value)
			if value == "" {
				return key, value
			}
			if listKeys[key] {
				return key, strings.FieldsFunc(value, func(r rune) bool {
					return r == ' ' || r == ','
				})
			}
			return key, value
		},
	}), nil)
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

var registerValidation = func(v *validator.Validate) error {
	if err := v.RegisterValidation("ip_port", validIPPort); err != nil {
		return err
	}
	if err := v.RegisterValidation("list_kind", validListKind); err != nil {
		return err
	}
	v.RegisterStructValidation(crossFieldRules, AppConfig{})
	return nil
}

// Load returns the configuration from defaults and environment variables.
func Load() (*AppConfig, error) {
	return LoadWithOverrides(nil)
}

// LoadWithOverrides layers overrides (typically changed command-line flags,
// keyed by koanf key) on top of defaults and environment, then validates.
func LoadWithOverrides(overrides map[string]any) (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}
	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("error loading overrides: %w", err)
		}
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerValidation(validate); err != nil {
		return nil, fmt.Errorf("error registering validation: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
