package cmd

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NoBugNinja/Skill-Sync/internal/keywords"
	"github.com/NoBugNinja/Skill-Sync/internal/scoring"
	"github.com/NoBugNinja/Skill-Sync/internal/screening"
	"github.com/NoBugNinja/Skill-Sync/internal/server"
	"github.com/NoBugNinja/Skill-Sync/internal/shortlist"
)

const (
	app       = "skill-sync"
	envPrefix = "SKILL_SYNC"
)

type Config struct {
	Keywords  keywords.Spec     `mapstructure:"keywords"`
	Weights   scoring.Weights   `mapstructure:"weights"`
	Screening *ScreeningConfig  `mapstructure:"screening"`
	Analyzer  *AnalyzerConfig   `mapstructure:"analyzer"`
	Shortlist *shortlist.Config `mapstructure:"shortlist"`
	Server    *server.Config    `mapstructure:"server"`
	Export    *ExportConfig     `mapstructure:"export"`
}

type ScreeningConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	TopSkills   int `mapstructure:"top-skills"`
}

// AnalyzerConfig selects a remote analyze endpoint. Scoring runs in process when URL is empty.
type AnalyzerConfig struct {
	URL        string        `mapstructure:"url"`
	TokenFile  string        `mapstructure:"token-file"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max-retries"`
}

type ExportConfig struct {
	CSV string `mapstructure:"csv"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skill-sync screens résumés against must-have and nice-to-have skills and ranks the candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("analyzer.token-file", "ANALYZER_TOKEN_FILE"); err != nil {
		log.Fatalf("binding ANALYZER_TOKEN_FILE environment variable: %v", err)
	}

	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skill-sync.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// setDefaults registers every key so that environment variables are seen by Unmarshal.
func setDefaults() {
	viper.SetDefault("keywords.must-have", []string{})
	viper.SetDefault("keywords.nice-to-have", []string{})
	viper.SetDefault("weights.must-have", scoring.DefaultMustHaveWeight)
	viper.SetDefault("weights.nice-to-have", scoring.DefaultNiceToHaveWeight)
	viper.SetDefault("screening.concurrency", 4)
	viper.SetDefault("screening.top-skills", screening.DefaultTopSkills)
	viper.SetDefault("analyzer.url", "")
	viper.SetDefault("analyzer.timeout", 10*time.Second)
	viper.SetDefault("analyzer.max-retries", 2)
	viper.SetDefault("shortlist.minimum-percentage", 0)
	viper.SetDefault("shortlist.require-all-must-have", false)
	viper.SetDefault("shortlist.exclude-file", "")
	viper.SetDefault("server.addr", ":3000")
	viper.SetDefault("server.read-timeout", 30*time.Second)
	viper.SetDefault("server.write-timeout", 2*time.Minute)
	viper.SetDefault("server.shutdown-timeout", 10*time.Second)
	viper.SetDefault("server.api-key-file", "")
	viper.SetDefault("server.max-upload-bytes", 32<<20)
	viper.SetDefault("export.csv", "")
}

func initConfig() {
	// version needs no config
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Flags and environment are enough when there is no default config file.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Screening == nil {
		c.Screening = &ScreeningConfig{}
	}
	if c.Analyzer == nil {
		c.Analyzer = &AnalyzerConfig{}
	}
	if c.Shortlist == nil {
		c.Shortlist = &shortlist.Config{}
	}
	if c.Server == nil {
		c.Server = &server.Config{}
	}
	if c.Export == nil {
		c.Export = &ExportConfig{}
	}

	c.Keywords = c.Keywords.Clean()
	c.Weights = c.Weights.OrDefault()
	c.Server.ApplyDefaults()
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Screening.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("screening.concurrency must not be negative, got %d", c.Screening.Concurrency))
	}
	if c.Screening.TopSkills < 0 {
		errs = append(errs, fmt.Errorf("screening.top-skills must not be negative, got %d", c.Screening.TopSkills))
	}
	if c.Analyzer.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("analyzer.max-retries must not be negative, got %d", c.Analyzer.MaxRetries))
	}
	if c.Analyzer.URL != "" {
		u, err := url.Parse(c.Analyzer.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("analyzer.url must be an absolute URL, got %q", c.Analyzer.URL))
		}
	}
	if p := c.Shortlist.MinimumPercentage; p < 0 || p > 100 {
		errs = append(errs, fmt.Errorf("shortlist.minimum-percentage must be within 0..100, got %d", p))
	}

	return errors.Join(errs...)
}
