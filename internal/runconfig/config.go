package runconfig

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/giantswarm/personapool/internal/core"
	"github.com/giantswarm/personapool/internal/policy/android"
	"github.com/giantswarm/personapool/internal/policy/web"
)

// Keys understood by Load.
const (
	KeyPlatform           = "PLATFORM"
	KeyRunInCI            = "RUN_IN_CI"
	KeyAppPackageName     = "APP_PACKAGE_NAME"
	KeyBaseURL            = "BASE_URL"
	KeyBaseURLForWeb      = "BASE_URL_FOR_WEB"
	KeyEnvironmentFile    = "ENVIRONMENT_CONFIG_FILE"
	KeyTargetEnvironment  = "TARGET_ENVIRONMENT"
	KeyLogDir             = "LOG_DIR"
	KeyDeviceSerial       = "DEVICE_SERIAL"
	KeyDeviceLockDir      = "DEVICE_LOCK_DIR"
	KeyRemoteWebDriverURL = "REMOTE_WEBDRIVER_URL"
	KeyAppiumURL          = "APPIUM_URL"
	KeyLedgerPath         = "LEDGER_PATH"
)

var knownKeys = []string{
	KeyPlatform, KeyRunInCI, KeyAppPackageName, KeyBaseURL, KeyBaseURLForWeb,
	KeyEnvironmentFile, KeyTargetEnvironment, KeyLogDir, KeyDeviceSerial,
	KeyDeviceLockDir, KeyRemoteWebDriverURL, KeyAppiumURL, KeyLedgerPath,
}

// Config is a loaded run configuration.
type Config struct {
	Platform           core.Platform
	RunInCI            bool
	AppPackageName     string
	BaseURL            string
	TargetEnvironment  string
	LogDir             string
	DeviceSerial       string
	DeviceLockDir      string
	RemoteWebDriverURL string
	AppiumURL          string
	LedgerPath         string

	v *viper.Viper
}

// Load reads propertiesFile (skipped when empty) and the environment.
func Load(propertiesFile string) (*Config, error) {
	return LoadWith(viper.New(), propertiesFile)
}

// LoadWith is Load on a caller-supplied viper instance, letting tests and
// embedding tools preset values.
func LoadWith(v *viper.Viper, propertiesFile string) (*Config, error) {
	v.SetDefault(KeyPlatform, string(core.PlatformWeb))
	v.SetDefault(KeyRunInCI, false)
	v.SetDefault(KeyBaseURLForWeb, KeyBaseURL)
	v.SetDefault(KeyLogDir, "logs")
	v.AutomaticEnv()
	for _, k := range knownKeys {
		// AutomaticEnv only covers keys viper already knows about.
		_ = v.BindEnv(k)
	}

	if propertiesFile != "" {
		// KEY=value run properties are valid dotenv.
		v.SetConfigFile(propertiesFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read run properties %s: %w", propertiesFile, err)
		}
	}

	platform, err := core.ParsePlatform(v.GetString(KeyPlatform))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyPlatform, err)
	}
	// A run only ever targets a platform with a built-in policy.
	if platform != core.PlatformAndroid && platform != core.PlatformWeb {
		return nil, fmt.Errorf("%s: %w: %q", KeyPlatform, core.ErrUnsupportedPlatform, platform)
	}

	c := &Config{
		Platform:           platform,
		RunInCI:            v.GetBool(KeyRunInCI),
		AppPackageName:     v.GetString(KeyAppPackageName),
		TargetEnvironment:  v.GetString(KeyTargetEnvironment),
		LogDir:             v.GetString(KeyLogDir),
		DeviceSerial:       v.GetString(KeyDeviceSerial),
		DeviceLockDir:      v.GetString(KeyDeviceLockDir),
		RemoteWebDriverURL: v.GetString(KeyRemoteWebDriverURL),
		AppiumURL:          v.GetString(KeyAppiumURL),
		LedgerPath:         v.GetString(KeyLedgerPath),
		v:                  v,
	}

	c.BaseURL, err = resolveBaseURL(v)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// resolveBaseURL prefers an explicit BASE_URL and otherwise looks the URL
// up in the target environment's section of the environment file.
func resolveBaseURL(v *viper.Viper) (string, error) {
	if u := v.GetString(KeyBaseURL); u != "" {
		return u, nil
	}
	file := v.GetString(KeyEnvironmentFile)
	if file == "" {
		return "", nil
	}
	target := v.GetString(KeyTargetEnvironment)
	if target == "" {
		return "", &core.MissingConfigurationError{Key: KeyTargetEnvironment}
	}

	env := viper.New()
	env.SetConfigFile(file)
	env.SetConfigType("json")
	if err := env.ReadInConfig(); err != nil {
		return "", fmt.Errorf("read environment config %s: %w", file, err)
	}
	section := env.Sub(target)
	if section == nil {
		return "", &core.MissingConfigurationError{Key: fmt.Sprintf("environment %q in %s", target, file)}
	}
	key := v.GetString(KeyBaseURLForWeb)
	u := section.GetString(key)
	if u == "" {
		return "", &core.MissingConfigurationError{Key: fmt.Sprintf("%s for environment %q", key, target)}
	}
	return u, nil
}

// Mode returns ModeUnattended for CI runs.
func (c *Config) Mode() core.ExecutionMode {
	if c.RunInCI {
		return core.ModeUnattended
	}
	return core.ModeAttended
}

// Lookup returns the raw value of key, whether or not Config has a field
// for it.
func (c *Config) Lookup(key string) (string, bool) {
	if !c.v.IsSet(key) {
		return "", false
	}
	return c.v.GetString(key), true
}

// Values returns every known key with its effective value, sorted by key.
// BASE_URL carries the resolved URL.
func (c *Config) Values() [][2]string {
	out := make([][2]string, 0, len(knownKeys))
	for _, k := range knownKeys {
		val := c.v.GetString(k)
		if k == KeyBaseURL {
			val = c.BaseURL
		}
		out = append(out, [2]string{k, val})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

var unsafeDirChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ScenarioLogDir returns the log directory of one scenario below LogDir.
func (c *Config) ScenarioLogDir(testName string) string {
	name := strings.Trim(unsafeDirChars.ReplaceAllString(testName, "_"), "_")
	if name == "" {
		name = "run"
	}
	return filepath.Join(c.LogDir, name)
}

// RunContext builds the core.RunContext for one scenario.
func (c *Config) RunContext(testName string, sink core.Sink, driver core.MobileDriver) *core.RunContext {
	return &core.RunContext{
		TestName:       testName,
		ScenarioLogDir: c.ScenarioLogDir(testName),
		Mode:           c.Mode(),
		MobileDriver:   driver,
		DeviceSerial:   c.DeviceSerial,
		AppPackageName: c.AppPackageName,
		BaseURL:        c.BaseURL,
		Sink:           sink,
	}
}

// AndroidPolicyConfig returns the Android policy settings of the run.
// DEVICE_LOCK_DIR turns on device leases.
func (c *Config) AndroidPolicyConfig() android.Config {
	return android.Config{LockDir: c.DeviceLockDir}
}

// WebPolicyConfig returns the web policy settings of the run.
// REMOTE_WEBDRIVER_URL overrides the default hub.
func (c *Config) WebPolicyConfig() web.Config {
	return web.Config{RemoteURL: c.RemoteWebDriverURL}
}
