package config

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mPokornyETM/oaprojects/pkg/install"
	"github.com/mPokornyETM/oaprojects/pkg/registry"
	"github.com/mPokornyETM/oaprojects/pkg/service"
)

var cfgFile string

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "oaprojects")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("OAPROJECTS")

	// Set defaults
	viper.SetDefault("registry_path", registry.DefaultPath())
	viper.SetDefault("search_roots", []string{})
	viper.SetDefault("install_dir", "")
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("pmon_timeout", "5s")

	// A missing config file is normal; every key has a default.
	_ = viper.ReadInConfig()
}

// InitService turns the viper state into a running inventory service.
func InitService() *service.Service {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)

	var locator install.Locator
	if base := viper.GetString("install_dir"); base != "" {
		locator = install.DirLocator{Base: base}
	} else {
		locator = install.NewLocator()
	}

	return service.New(&service.Config{
		RegistryPath: viper.GetString("registry_path"),
		SearchRoots:  viper.GetStringSlice("search_roots"),
		Locator:      locator,
		Logger:       logger,
	})
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/oaprojects/config.yaml)")
	cmd.PersistentFlags().String("registry", "", "registry file (default is the platform's pvssInst.conf)")
	cmd.PersistentFlags().StringSlice("root", nil, "search root for unregistered projects (repeatable)")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("registry_path", cmd.PersistentFlags().Lookup("registry"))
	_ = viper.BindPFlag("search_roots", cmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
}
