// Package config loads and validates the CLI configuration from defaults,
// config file, profile, environment and flags, in that precedence order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Sujal-Gaha/file-forge/pkg/converter"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/kind"
	"github.com/Sujal-Gaha/file-forge/pkg/converter/textenc"
)

const (
	EnvPrefix         = "FILEFORGE"
	DefaultConfigName = "file-forge"
)

// fileConfig mirrors the configuration file schema. Viper unmarshals into
// this intermediate struct; LoadAndValidate then translates it into
// converter.Options.
type fileConfig struct {
	Verbose         bool              `mapstructure:"verbose"`
	Quiet           bool              `mapstructure:"quiet"`
	TuiEnabled      bool              `mapstructure:"tui"`
	OnError         string            `mapstructure:"onError"`
	Concurrency     int               `mapstructure:"concurrency"`
	Timeout         string            `mapstructure:"timeout"`
	OutputFormat    string            `mapstructure:"outputFormat"`
	DefaultEncoding string            `mapstructure:"defaultEncoding"`
	KindMappings    map[string]string `mapstructure:"kindMappings"`
}

// LoadAndValidate loads configuration from all sources (defaults, file,
// profile, env, flags), validates the merged configuration and sets up the
// final logger. The returned Options carry the logger handler and default
// detector and decoder implementations; the converter registry is injected
// by the caller.
func LoadAndValidate(cfgFile, profileName, appVersion string, flags *pflag.FlagSet) (converter.Options, *slog.Logger, error) {
	var opts converter.Options
	v := viper.New()

	// Temporary basic logger for early loading errors.
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
			v.AddConfigPath(filepath.Join(home, "."+DefaultConfigName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			used := cfgFile
			if used == "" {
				used = fmt.Sprintf("searched locations for %s.yaml", DefaultConfigName)
			}
			return opts, tempLogger, fmt.Errorf("error reading config file '%s': %w", used, err)
		}
	} else {
		opts.ConfigFilePath = v.ConfigFileUsed()
		tempLogger.Debug("Using configuration file", slog.String("path", opts.ConfigFilePath))
	}

	opts.ProfileName = profileName
	if profileName != "" {
		profileKey := "profiles." + profileName
		if !v.IsSet(profileKey) {
			configPath := v.ConfigFileUsed()
			if configPath == "" {
				configPath = "(no config file found)"
			}
			return opts, tempLogger, fmt.Errorf("%w: profile '%s' not found in config file '%s'",
				converter.ErrConfigValidation, profileName, configPath)
		}
		profileSettings := v.Sub(profileKey)
		if profileSettings == nil {
			return opts, tempLogger, fmt.Errorf("%w: failed to load profile '%s' from config file '%s'",
				converter.ErrConfigValidation, profileName, v.ConfigFileUsed())
		}
		if err := v.MergeConfigMap(profileSettings.AllSettings()); err != nil {
			return opts, tempLogger, fmt.Errorf("error merging profile '%s': %w", profileName, err)
		}
		tempLogger.Debug("Applied configuration profile", slog.String("profile", profileName))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Flags are the highest priority source. Bind each one individually so a
	// missing flag in a subcommand's flag set is not an error.
	flagBindings := map[string]string{
		"verbose":       "verbose",
		"quiet":         "quiet",
		"on-error":      "onError",
		"concurrency":   "concurrency",
		"timeout":       "timeout",
		"output-format": "outputFormat",
	}
	for flagName, key := range flagBindings {
		if flag := flags.Lookup(flagName); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return opts, tempLogger, fmt.Errorf("error binding flag '--%s': %w", flagName, err)
			}
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return opts, tempLogger, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Boolean flags with Changed checks always win over file/env values.
	if flags.Changed("verbose") {
		fc.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("quiet") {
		fc.Quiet, _ = flags.GetBool("quiet")
	}
	if flags.Changed("no-tui") {
		if noTui, _ := flags.GetBool("no-tui"); noTui {
			fc.TuiEnabled = false
		}
	}

	opts.AppVersion = appVersion
	opts.Verbose = fc.Verbose
	opts.Quiet = fc.Quiet
	opts.TuiEnabled = fc.TuiEnabled
	opts.OnErrorMode = converter.OnErrorMode(fc.OnError)
	opts.Concurrency = fc.Concurrency
	opts.OutputFormat = converter.OutputFormat(fc.OutputFormat)
	opts.DefaultEncoding = fc.DefaultEncoding

	// Final logger. Verbose wins over quiet for the log level; quiet only
	// silences progress output, not explicit errors.
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	} else if opts.Quiet {
		logLevel = slog.LevelWarn
	}
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logHandler)
	opts.Logger = logHandler

	// Timeout arrives as a string so config files can say "30s" or "2m".
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return opts, logger, fmt.Errorf("%w: invalid timeout duration '%s': %w",
				converter.ErrConfigValidation, fc.Timeout, err)
		}
		if d < 0 {
			return opts, logger, fmt.Errorf("%w: timeout must not be negative, got '%s'",
				converter.ErrConfigValidation, fc.Timeout)
		}
		opts.Timeout = d
	}

	mappings, err := parseKindMappings(fc.KindMappings)
	if err != nil {
		return opts, logger, err
	}
	opts.KindMappings = mappings

	if err := validateAndDeriveOptions(&opts, logger, flags); err != nil {
		return opts, logger, err
	}

	logger.Debug("Configuration loading and validation complete",
		slog.String("configFile", opts.ConfigFilePath),
		slog.String("profile", opts.ProfileName),
		slog.Bool("verbose", opts.Verbose),
		slog.String("logLevel", logLevel.String()),
	)

	return opts, logger, nil
}

// setDefaults establishes the default values for configuration options in
// Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("verbose", converter.DefaultVerbose)
	v.SetDefault("quiet", converter.DefaultQuiet)
	v.SetDefault("tui", converter.DefaultTuiEnabled)
	v.SetDefault("onError", string(converter.DefaultOnErrorMode))
	v.SetDefault("concurrency", converter.DefaultConcurrency)
	v.SetDefault("timeout", "")
	v.SetDefault("outputFormat", string(converter.DefaultOutputFormat))
	v.SetDefault("defaultEncoding", "")
	v.SetDefault("kindMappings", map[string]string{})
	v.SetDefault("profiles", map[string]interface{}{})
}

// parseKindMappings converts the extension -> kind name map from the config
// file into typed overrides for the detector.
func parseKindMappings(raw map[string]string) (map[string]kind.FileKind, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]kind.FileKind, len(raw))
	for ext, name := range raw {
		k, err := kind.KindForName(name)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown file kind '%s' for extension '%s' in kindMappings",
				converter.ErrConfigValidation, name, ext)
		}
		out[strings.TrimPrefix(strings.ToLower(ext), ".")] = k
	}
	return out, nil
}

// isValidEnumValue checks if a given string value is present in a slice of
// allowed enum values. Case-sensitive comparison.
func isValidEnumValue[T ~string](value T, allowedValues []T) bool {
	return slices.Contains(allowedValues, value)
}

// validateAndDeriveOptions performs semantic validation on the populated
// Options struct and injects default detector and decoder implementations if
// nil. It wraps errors with converter.ErrConfigValidation.
func validateAndDeriveOptions(opts *converter.Options, logger *slog.Logger, flags *pflag.FlagSet) error {
	allowedOnError := []converter.OnErrorMode{converter.OnErrorContinue, converter.OnErrorStop}
	if !isValidEnumValue(opts.OnErrorMode, allowedOnError) {
		err := fmt.Errorf("%w: invalid value '%s' for key 'onError' (flag --on-error). Allowed: %v",
			converter.ErrConfigValidation, opts.OnErrorMode, allowedOnError)
		logger.Error(err.Error(), slog.String("key", "onError"))
		return err
	}

	allowedOutputFormat := []converter.OutputFormat{converter.OutputFormatText, converter.OutputFormatJSON, converter.OutputFormatYAML}
	if !isValidEnumValue(opts.OutputFormat, allowedOutputFormat) {
		err := fmt.Errorf("%w: invalid value '%s' for key 'outputFormat' (flag --output-format). Allowed: %v",
			converter.ErrConfigValidation, opts.OutputFormat, allowedOutputFormat)
		logger.Error(err.Error(), slog.String("key", "outputFormat"))
		return err
	}

	if opts.Concurrency < 0 {
		err := fmt.Errorf("%w: invalid value '%d' for key 'concurrency' (flag --concurrency). Must be >= 0",
			converter.ErrConfigValidation, opts.Concurrency)
		logger.Error(err.Error(), slog.String("key", "concurrency"))
		return err
	}

	if opts.Detector == nil {
		opts.Detector = kind.NewSniffingDetector(opts.KindMappings)
		logger.Debug("Detector not provided, using default (SniffingDetector).")
	}
	if opts.Decoder == nil {
		opts.Decoder = textenc.NewCharsetDecoder(opts.DefaultEncoding)
		logger.Debug("Decoder not provided, using default (CharsetDecoder).")
	}
	if opts.EventHooks == nil {
		opts.EventHooks = &converter.NoOpHooks{}
	}

	// Verbose output and the TUI fight over the terminal; verbose wins.
	if opts.Verbose {
		opts.TuiEnabled = false
	}
	if opts.Quiet {
		opts.TuiEnabled = false
	}

	return nil
}
