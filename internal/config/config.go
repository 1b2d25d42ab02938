package config

import "time"

// Default configuration values.
const (
	defaultServiceName    = "email-classifier"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8070
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultShutdownSec    = 10
	defaultMaxBodyBytes   = 1 << 20
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
	defaultFeedbackPath   = "logs/training.jsonl"
	defaultHistoryDBPath  = "data/history.db"
	defaultModelPath      = "model/bayes.gob"
	defaultSLAHours       = 24
	defaultEvalRatio      = 0.2
	defaultEvalSeed       = 42
	defaultTrainPerMinute = 6
	defaultTrainBurst     = 2
	defaultLang           = "pt"
)

// Config holds all configuration for the triage service.
type Config struct {
	Service        ServiceConfig        `yaml:"service"`
	Server         ServerConfig         `yaml:"server"`
	Logging        LoggingConfig        `yaml:"logging"`
	Store          StoreConfig          `yaml:"store"`
	ML             MLConfig             `yaml:"ml"`
	Classification ClassificationConfig `yaml:"classification"`
}

// ServiceConfig holds service identity settings.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Debug   bool   `env:"APP_DEBUG" yaml:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `env:"CLASSIFIER_PORT" yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
	Output string `yaml:"output"`
}

// StoreConfig holds persistence paths.
type StoreConfig struct {
	FeedbackPath  string `env:"FEEDBACK_PATH"   yaml:"feedback_path"`
	HistoryDBPath string `env:"HISTORY_DB_PATH" yaml:"history_db_path"`
	ModelPath     string `env:"MODEL_PATH"      yaml:"model_path"`
}

// MLConfig holds statistical classifier settings.
type MLConfig struct {
	EvalRatio       float64 `yaml:"eval_ratio"`
	EvalSeed        int64   `yaml:"eval_seed"`
	TrainPerMinute  float64 `yaml:"train_per_minute"`
	TrainBurst      int     `yaml:"train_burst"`
	TrainOnFeedback bool    `env:"TRAIN_ON_FEEDBACK" yaml:"train_on_feedback"`
}

// ClassificationConfig holds triage settings.
type ClassificationConfig struct {
	SLAHours    int    `env:"SLA_HOURS" yaml:"sla_hours"`
	DefaultLang string `yaml:"default_lang"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	return loadWithDefaults[Config](path, setDefaults)
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setServerDefaults(&cfg.Server)
	setLoggingDefaults(&cfg.Logging)
	setStoreDefaults(&cfg.Store)
	setMLDefaults(&cfg.ML)
	setClassificationDefaults(&cfg.Classification)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
}

func setServerDefaults(s *ServerConfig) {
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = defaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = defaultWriteTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = defaultShutdownSec * time.Second
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = defaultMaxBodyBytes
	}
	if len(s.CORSOrigins) == 0 {
		s.CORSOrigins = []string{"*"}
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

func setStoreDefaults(s *StoreConfig) {
	if s.FeedbackPath == "" {
		s.FeedbackPath = defaultFeedbackPath
	}
	if s.HistoryDBPath == "" {
		s.HistoryDBPath = defaultHistoryDBPath
	}
	if s.ModelPath == "" {
		s.ModelPath = defaultModelPath
	}
}

func setMLDefaults(m *MLConfig) {
	if m.EvalRatio == 0 {
		m.EvalRatio = defaultEvalRatio
	}
	if m.EvalSeed == 0 {
		m.EvalSeed = defaultEvalSeed
	}
	if m.TrainPerMinute == 0 {
		m.TrainPerMinute = defaultTrainPerMinute
	}
	if m.TrainBurst == 0 {
		m.TrainBurst = defaultTrainBurst
	}
}

func setClassificationDefaults(c *ClassificationConfig) {
	if c.SLAHours == 0 {
		c.SLAHours = defaultSLAHours
	}
	if c.DefaultLang == "" {
		c.DefaultLang = defaultLang
	}
}
