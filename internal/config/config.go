package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config controls where the generator reads from and writes to.
type Config struct {
	SiteURL        string `mapstructure:"siteURL"`
	SiteFile       string `mapstructure:"siteFile"`
	ContentDir     string `mapstructure:"contentDir"`
	LayoutsDir     string `mapstructure:"layoutsDir"`
	StaticDir      string `mapstructure:"staticDir"`
	OutputDir      string `mapstructure:"outputDir"`
	HighlightStyle string `mapstructure:"highlightStyle"`
	HardWraps      bool   `mapstructure:"hardWraps"`
	Drafts         bool   `mapstructure:"drafts"`
	LogLevel       string `mapstructure:"logLevel"`
}

// New returns a viper instance carrying the defaults and PSIACE_ env binding.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("siteURL", "https://psiace.me/")
	v.SetDefault("siteFile", "site.yaml")
	v.SetDefault("contentDir", "content")
	v.SetDefault("layoutsDir", "layouts")
	v.SetDefault("staticDir", "static")
	v.SetDefault("outputDir", "public")
	v.SetDefault("highlightStyle", "github")
	v.SetDefault("hardWraps", true)
	v.SetDefault("drafts", false)
	v.SetDefault("logLevel", "info")

	v.SetEnvPrefix("PSIACE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads cfgFile, or config.yaml from the working directory when cfgFile
// is empty, and decodes the result. A missing default config file is not an
// error. The returned string is the config file used, if any.
func Load(v *viper.Viper, cfgFile string) (Config, string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return Config{}, "", fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if cfg.OutputDir == "" {
		return Config{}, "", errors.New("outputDir must not be empty")
	}
	return cfg, used, nil
}
