package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "candidate-sourcer"
	envPrefix = "CANDIDATE_SOURCER"
)

type Config struct {
	LLM          *LLMConfig          `mapstructure:"llm"`
	PeopleSearch *PeopleSearchConfig `mapstructure:"people-search"`
	Workflow     *WorkflowConfig     `mapstructure:"workflow"`
	Server       *ServerConfig       `mapstructure:"server"`
}

type LLMConfig struct {
	Provider     string `mapstructure:"provider"`
	Model        string `mapstructure:"model"`
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxTokens    int    `mapstructure:"max-tokens"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type PeopleSearchConfig struct {
	Provider          string        `mapstructure:"provider"`
	APIKey            string        `mapstructure:"api-key"`
	APIKeyFile        string        `mapstructure:"api-key-file"`
	BaseURL           string        `mapstructure:"base-url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	ResultsPerQuery   int           `mapstructure:"results-per-query"`
	RequestsPerSecond float64       `mapstructure:"requests-per-second"`
	MaxRetries        int           `mapstructure:"max-retries"`
}

type WorkflowConfig struct {
	MaxCandidates       int      `mapstructure:"max-candidates"`
	SummaryConcurrency  int      `mapstructure:"summary-concurrency"`
	ContentPreviewRunes int      `mapstructure:"content-preview-runes"`
	RetryVariants       bool     `mapstructure:"retry-variants"`
	MinScore            int      `mapstructure:"min-score"`
	DisabledFilters     []string `mapstructure:"disabled-filters"`
	HiringCompany       string   `mapstructure:"hiring-company"`
}

type ServerConfig struct {
	Listen                 string        `mapstructure:"listen"`
	RequestTimeout         time.Duration `mapstructure:"request-timeout"`
	RecruiterMaxCandidates int           `mapstructure:"recruiter-max-candidates"`
	AgentMaxCandidates     int           `mapstructure:"agent-max-candidates"`
}

var (
	// Used for flags.
	cfgFile string
	envFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "candidate-sourcer turns a hiring request into a ranked shortlist of candidate profiles",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is candidate-sourcer.yaml in current directory)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "a dotenv file with API keys (default is .env in current directory, if present)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api-key", "")
	v.SetDefault("llm.api-key-file", "")
	v.SetDefault("llm.max-retries", 3)
	v.SetDefault("llm.max-tokens", 2048)
	v.SetDefault("llm.max-log-length", 200)

	v.SetDefault("people-search.provider", "exa")
	v.SetDefault("people-search.api-key", "")
	v.SetDefault("people-search.api-key-file", "")
	v.SetDefault("people-search.base-url", "")
	v.SetDefault("people-search.timeout", 30*time.Second)
	v.SetDefault("people-search.results-per-query", 25)
	v.SetDefault("people-search.requests-per-second", 5)
	v.SetDefault("people-search.max-retries", 3)

	v.SetDefault("workflow.max-candidates", 5)
	v.SetDefault("workflow.summary-concurrency", 4)
	v.SetDefault("workflow.content-preview-runes", 3000)
	v.SetDefault("workflow.retry-variants", true)
	v.SetDefault("workflow.min-score", 1)
	v.SetDefault("workflow.disabled-filters", []string{})
	v.SetDefault("workflow.hiring-company", "")

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("server.request-timeout", 2*time.Minute)
	v.SetDefault("server.recruiter-max-candidates", 8)
	v.SetDefault("server.agent-max-candidates", 5)
}

func initConfig() {
	if err := loadEnvFile(envFile); err != nil {
		log.Fatal(err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// An explicit config must parse; the default one is optional.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file %q: %w", path, err)
		}
		return nil
	}

	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load()
	}
	return nil
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}
	if config.LLM == nil {
		config.LLM = &LLMConfig{}
	}
	if config.PeopleSearch == nil {
		config.PeopleSearch = &PeopleSearchConfig{}
	}
	if config.Workflow == nil {
		config.Workflow = &WorkflowConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	return config, nil
}
