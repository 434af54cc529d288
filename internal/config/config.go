// Package config provides centralized configuration loading for the service validator using spf13/viper.
// All config access must go through this package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Exported configuration keys
const (
	LogLevelKey = "log_level"
	VerboseKey  = "verbose"

	RestartRetryPauseKey = "restart.retry_pause"
	ACLSettleWaitKey     = "acl.settle_wait"

	SystemctlPathKey = "system.systemctl_path"
	IPPathKey        = "system.ip_path"

	RsyslogConfigUnitKey = "units.rsyslog_config"
	RsyslogUnitKey       = "units.rsyslog"
	DHCPRelayUnitKey     = "units.dhcp_relay"
	NTPUnitKey           = "units.ntp"
)

// Config holds the configuration state and provides thread-safe access
type Config struct {
	viper       *viper.Viper
	initialized bool
	initOnce    sync.Once
	mu          sync.RWMutex
	configPath  string
	searchPaths []string
}

var (
	instance          *Config
	instanceOnce      sync.Once
	requiredKeys      []string
	requiredKeysMutex sync.Mutex
	// MissingKeys holds the keys found missing by the last CheckRequiredKeys call
	MissingKeys []string
)

// getInstance returns the singleton config instance
func getInstance() *Config {
	instanceOnce.Do(func() {
		instance = &Config{
			searchPaths: []string{"/etc/servicevalidator", "./configs"},
		}
	})
	return instance
}

// InitConfig explicitly initializes the configuration with optional parameters
func InitConfig(opts ...ConfigOption) error {
	cfg := getInstance()
	return cfg.init(opts...)
}

// FirstTimeInit initializes configuration from an optional command line path
// and validates required keys.
func FirstTimeInit(configFile *string) error {
	var opts []ConfigOption
	if configFile != nil && *configFile != "" {
		opts = append(opts, WithConfigPath(*configFile))
	}
	if err := InitConfig(opts...); err != nil {
		return err
	}
	return CheckRequiredKeys()
}

// ConfigOption allows for functional options pattern
type ConfigOption func(*Config)

// WithConfigPath sets a specific config file path
// This will override any search paths - use either this OR search paths, not both
func WithConfigPath(path string) ConfigOption {
	return func(c *Config) {
		c.configPath = path
		c.searchPaths = nil
	}
}

// WithSearchPaths sets additional search paths for config files
// Only used if no explicit config path is set
func WithSearchPaths(paths ...string) ConfigOption {
	return func(c *Config) {
		if c.configPath == "" {
			c.searchPaths = append(c.searchPaths, paths...)
		}
	}
}

// init initializes the config instance with the provided options
func (c *Config) init(opts ...ConfigOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	c.initOnce.Do(func() {
		for _, opt := range opts {
			opt(c)
		}

		c.viper, err = c.loadConfig()
		if err == nil {
			c.initialized = true
		}
	})
	return err
}

// loadConfig initializes viper and loads config from file and env.
func (c *Config) loadConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("config")

	if c.configPath != "" {
		v.SetConfigFile(c.configPath)
	} else {
		for _, path := range c.searchPaths {
			v.AddConfigPath(path)
		}
	}

	v.SetEnvPrefix("SERVICEVALIDATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(LogLevelKey, "NOTICE")
	v.SetDefault(VerboseKey, false)
	v.SetDefault(RestartRetryPauseKey, 10*time.Second)
	v.SetDefault(ACLSettleWaitKey, time.Second)
	v.SetDefault(SystemctlPathKey, "systemctl")
	v.SetDefault(IPPathKey, "ip")
	v.SetDefault(RsyslogConfigUnitKey, "rsyslog-config")
	v.SetDefault(RsyslogUnitKey, "rsyslog")
	v.SetDefault(DHCPRelayUnitKey, "dhcp_relay")
	v.SetDefault(NTPUnitKey, "chrony")
}

// ensureInitialized ensures config is initialized (lazy loading fallback)
func (c *Config) ensureInitialized() error {
	c.mu.RLock()
	if c.initialized {
		c.mu.RUnlock()
		return nil
	}
	c.mu.RUnlock()

	return c.init()
}

// GetString returns a string config value.
func GetString(key string) string {
	cfg := getInstance()
	_ = cfg.ensureInitialized()
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	if cfg.viper == nil {
		return ""
	}
	return cfg.viper.GetString(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	cfg := getInstance()
	_ = cfg.ensureInitialized()
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	if cfg.viper == nil {
		return false
	}
	return cfg.viper.GetBool(key)
}

// GetDuration returns a time.Duration config value.
func GetDuration(key string) time.Duration {
	cfg := getInstance()
	_ = cfg.ensureInitialized()
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	if cfg.viper == nil {
		return 0
	}
	return cfg.viper.GetDuration(key)
}

// RegisterRequiredKey adds a key to the list of required configuration items.
// This should be called during the init() phase of packages that require specific configurations.
func RegisterRequiredKey(key string) {
	requiredKeysMutex.Lock()
	defer requiredKeysMutex.Unlock()
	for _, k := range requiredKeys {
		if k == key {
			return
		}
	}
	requiredKeys = append(requiredKeys, key)
}

// CheckRequiredKeys validates that all registered required keys are present in the configuration.
func CheckRequiredKeys() error {
	requiredKeysMutex.Lock()
	defer requiredKeysMutex.Unlock()

	MissingKeys = nil
	for _, key := range requiredKeys {
		if !HasKey(key) {
			MissingKeys = append(MissingKeys, key)
		}
	}

	if len(MissingKeys) > 0 {
		return fmt.Errorf("missing required configuration keys: %s", strings.Join(MissingKeys, ", "))
	}
	return nil
}

// HasKey returns true if the config has the key.
func HasKey(key string) bool {
	cfg := getInstance()
	_ = cfg.ensureInitialized()
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	if cfg.viper == nil {
		return false
	}
	return cfg.viper.IsSet(key)
}

// SetForTest sets a configuration value for testing purposes only.
func SetForTest(key string, value interface{}) {
	cfg := getInstance()
	_ = cfg.ensureInitialized()
	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	if cfg.viper != nil {
		cfg.viper.Set(key, value)
	}
}

// ResetForTest resets the config singleton for test use only.
func ResetForTest() {
	instanceOnce = sync.Once{}
	instance = nil
	requiredKeysMutex.Lock()
	requiredKeys = nil
	MissingKeys = nil
	requiredKeysMutex.Unlock()
}
