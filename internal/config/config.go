package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/spam-triage/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Reputation ReputationConfig `yaml:"reputation" mapstructure:"reputation"`
	CRM        CRMConfig        `yaml:"crm" mapstructure:"crm"`
	Spam       SpamConfig       `yaml:"spam" mapstructure:"spam"`
	Dispatch   DispatchConfig   `yaml:"dispatch" mapstructure:"dispatch"`
	Circuit    CircuitConfig    `yaml:"circuit" mapstructure:"circuit"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// ReputationConfig holds SpravPortal API settings.
type ReputationConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	Key         string `yaml:"key" mapstructure:"key"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the per-call timeout.
func (c ReputationConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// CRMConfig holds amoCRM settings and the spam mutation targets.
type CRMConfig struct {
	Domain         string `yaml:"domain" mapstructure:"domain"`
	Token          string `yaml:"token" mapstructure:"token"`
	TimeoutSecs    int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	SpamStatusID   int64  `yaml:"spam_status_id" mapstructure:"spam_status_id"`
	SpamPipelineID int64  `yaml:"spam_pipeline_id" mapstructure:"spam_pipeline_id"`
	SpamTag        string `yaml:"spam_tag" mapstructure:"spam_tag"`
	SpamAction     string `yaml:"spam_action" mapstructure:"spam_action"`
}

// Timeout returns the per-call timeout.
func (c CRMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// StatusConfigured reports whether both spam status and pipeline are set.
func (c CRMConfig) StatusConfigured() bool {
	return c.SpamStatusID != 0 && c.SpamPipelineID != 0
}

// Action returns the parsed mutation action. Validate rejects bad values,
// so after validation this never fails.
func (c CRMConfig) Action() model.MutationAction {
	a, err := model.ParseMutationAction(c.SpamAction)
	if err != nil {
		return model.ActionTag
	}
	return a
}

// SpamConfig configures classification.
type SpamConfig struct {
	Threshold int `yaml:"threshold" mapstructure:"threshold"`
}

// DispatchConfig bounds asynchronous webhook processing.
type DispatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// CircuitConfig configures the per-service circuit breakers.
type CircuitConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// legacyEnv maps config keys to the environment variable names used by
// existing deployments.
var legacyEnv = map[string]string{
	"reputation.key":       "SPRAVPORTAL_API_KEY",
	"crm.domain":           "AMOCRM_DOMAIN",
	"crm.token":            "AMOCRM_ACCESS_TOKEN",
	"crm.spam_status_id":   "AMOCRM_SPAM_STATUS_ID",
	"crm.spam_pipeline_id": "AMOCRM_SPAM_PIPELINE_ID",
	"crm.spam_tag":         "AMOCRM_SPAM_TAG_NAME",
	"crm.spam_action":      "AMOCRM_SPAM_ACTION",
	"spam.threshold":       "SPAM_THRESHOLD",
	"server.port":          "PORT",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SPAMTRIAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "SPAMTRIAGE_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, eris.Wrapf(err, "config: bind env %s", env)
		}
	}

	// Defaults
	v.SetDefault("reputation.url", "https://b2b-api-stage-05.spravportal.ru/whocalls/check")
	v.SetDefault("reputation.timeout_secs", 10)
	v.SetDefault("crm.domain", "https://stavgeo26.amocrm.ru")
	v.SetDefault("crm.timeout_secs", 10)
	v.SetDefault("crm.spam_tag", "спам")
	v.SetDefault("crm.spam_action", "tag")
	v.SetDefault("spam.threshold", 50)
	v.SetDefault("dispatch.max_concurrent", 10)
	v.SetDefault("circuit.failure_threshold", 5)
	v.SetDefault("circuit.reset_timeout_secs", 30)
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. Scope is one of "serve",
// "triage", "check" or "pipelines".
func (c *Config) Validate(scope string) error {
	var missing []string

	needCRM := scope == "serve" || scope == "triage" || scope == "pipelines"
	needReputation := scope == "serve" || scope == "triage" || scope == "check"

	if needReputation {
		if c.Reputation.URL == "" {
			missing = append(missing, "reputation.url")
		}
		if c.Reputation.Key == "" {
			missing = append(missing, "reputation.key (SPRAVPORTAL_API_KEY)")
		}
	}
	if needCRM {
		if c.CRM.Domain == "" {
			missing = append(missing, "crm.domain (AMOCRM_DOMAIN)")
		}
		if c.CRM.Token == "" {
			missing = append(missing, "crm.token (AMOCRM_ACCESS_TOKEN)")
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("config: missing required settings for %s: %s", scope, strings.Join(missing, ", "))
	}

	if c.Spam.Threshold < 0 || c.Spam.Threshold > 100 {
		return eris.Errorf("config: spam.threshold must be within 0..100, got %d", c.Spam.Threshold)
	}
	if _, err := model.ParseMutationAction(c.CRM.SpamAction); err != nil {
		return eris.Wrap(err, "config: crm.spam_action")
	}
	if c.Dispatch.MaxConcurrent <= 0 {
		return eris.Errorf("config: dispatch.max_concurrent must be positive, got %d", c.Dispatch.MaxConcurrent)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
