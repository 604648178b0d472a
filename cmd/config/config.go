package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/grove-folio/pkg/service"
	"github.com/mattsolo1/grove-folio/pkg/workspace"
)

var cfgFile string

// Settings is the decoded configuration.
type Settings struct {
	DataDir          string        `mapstructure:"data_dir"`
	LogLevel         string        `mapstructure:"log_level"`
	DefaultExtension string        `mapstructure:"default_extension"`
	Locale           string        `mapstructure:"locale"`
	Watch            WatchSettings `mapstructure:"watch"`
}

// WatchSettings configures `folio watch`.
type WatchSettings struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// InitConfig reads the config file and environment. A missing default
// config file is not an error; an explicit --config that cannot be read is.
func InitConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "folio")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("FOLIO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("data_dir", filepath.Join(os.Getenv("HOME"), ".local", "share", "folio"))
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("default_extension", workspace.DefaultExtension)
	viper.SetDefault("locale", "")
	viper.SetDefault("watch.debounce", "300ms")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load decodes the current configuration into Settings.
func Load() (*Settings, error) {
	var s Settings
	err := viper.Unmarshal(&s, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	s.DataDir = workspace.ExpandHome(s.DataDir)
	if s.Watch.Debounce <= 0 {
		s.Watch.Debounce = 300 * time.Millisecond
	}
	return &s, nil
}

// NewLogger returns a stderr logger at the configured level.
func NewLogger(level string) (*logrus.Entry, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(lvl)
	return logrus.NewEntry(logger), nil
}

// InitService builds the workspace service from settings.
func InitService(settings *Settings, logger *logrus.Entry) (*service.Service, error) {
	config := &service.Config{
		DataDir:          settings.DataDir,
		DefaultExtension: settings.DefaultExtension,
		Locale:           settings.Locale,
	}

	svc, err := service.New(config, logger)
	if err != nil {
		return nil, err
	}

	return svc, nil
}

// AddGlobalFlags registers --config, --data-dir and --log-level on cmd and
// binds the latter two to their config keys.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/folio/config.yaml)")
	cmd.PersistentFlags().String("data-dir", "", "application data directory (default is $HOME/.local/share/folio)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("data_dir", cmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
}
