package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgRetry "github.com/thinktars/playground/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration (lead records)
	// DatabaseURL is optional: without it leads are kept in process memory.
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External demos backend (assistants, conversations, LLM processing)
	DemosConnectorCfg DemosConnectorConfig `envPrefix:"DEMOS_"`

	// Handoff channel configuration
	HandoffCfg HandoffConfig `envPrefix:"HANDOFF_"`

	// Telegram lead notification (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Visitor state lifecycle
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SessionSweep    time.Duration `env:"SESSION_SWEEP" envDefault:"5m"`
	CatalogTTL      time.Duration `env:"CATALOG_TTL" envDefault:"1h"`
	NoticeTTL       time.Duration `env:"NOTICE_TTL" envDefault:"6s"`
	ContactResetTTL time.Duration `env:"CONTACT_RESET_DELAY" envDefault:"4s"`

	// Quiz questions configuration (loaded from JSON file)
	QuizQuestions []QuizQuestionConfig

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

// DemosConnectorConfig holds the connection settings of the demos backend.
type DemosConnectorConfig struct {
	HTTPClientConfig
	Retry pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// HandoffConfig holds the external messaging channel settings.
type HandoffConfig struct {
	WhatsAppNumber string `env:"WHATSAPP_NUMBER,notEmpty"`
	BaseURL        string `env:"BASE_URL" envDefault:"https://wa.me"`
}

// TelegramConfig holds the sales-channel lead notification settings.
type TelegramConfig struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
	BotToken string `env:"BOT_TOKEN"`
	ChatID   int64  `env:"CHAT_ID"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT,notEmpty"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT,notEmpty"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE,notEmpty"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT,notEmpty"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT,notEmpty"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// FileUploadConfig holds attachment limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"` // 10 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"`
}

// QuizQuestionConfig is one ordered quiz step as configured.
type QuizQuestionConfig struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// quizQuestions represents the structure of quiz_questions.json
type quizQuestions struct {
	Questions []QuizQuestionConfig `json:"questions"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := loadQuizQuestions(cfg); err != nil {
		return nil, fmt.Errorf("load quiz questions: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns)
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns)
	}

	if cfg.TelegramCfg.Enabled {
		if cfg.TelegramCfg.BotToken == "" {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN must be set when TELEGRAM_ENABLED is true")
		}
		if cfg.TelegramCfg.ChatID == 0 {
			return fmt.Errorf("TELEGRAM_CHAT_ID must be set when TELEGRAM_ENABLED is true")
		}
	}

	if cfg.NoticeTTL <= 0 || cfg.ContactResetTTL <= 0 {
		return fmt.Errorf("NOTICE_TTL and CONTACT_RESET_DELAY must be positive")
	}

	return nil
}

// defaultQuizQuestions mirrors the contact quiz of the marketing site. The
// question order is fixed; ids are the ProjectScope field names.
var defaultQuizQuestions = []QuizQuestionConfig{
	{
		ID:   "business_type",
		Text: "Qual é o tipo do seu negócio?",
		Options: []string{
			"E-commerce",
			"Serviços",
			"Indústria",
			"Saúde",
			"Educação",
			"Outro",
		},
	},
	{
		ID:   "main_challenge",
		Text: "Qual é o principal desafio hoje?",
		Options: []string{
			"Atendimento ao cliente demorado",
			"Processos manuais repetitivos",
			"Análise de dados e relatórios",
			"Vendas e qualificação de leads",
			"Documentos e contratos em excesso",
			"Outro desafio",
		},
	},
	{
		ID:   "automation_goal",
		Text: "O que você gostaria de automatizar primeiro?",
		Options: []string{
			"Responder clientes automaticamente",
			"Eliminar tarefas manuais",
			"Gerar relatórios e análises",
			"Qualificar e priorizar leads",
			"Ler e resumir documentos",
		},
	},
	{
		ID:   "time_saved",
		Text: "Quanto tempo você quer recuperar por semana?",
		Options: []string{
			"Até 5 horas",
			"5 a 10 horas",
			"10 a 20 horas",
			"Mais de 20 horas",
		},
	},
	{
		ID:   "budget_range",
		Text: "Qual faixa de investimento faz sentido?",
		Options: []string{
			"Até R$ 1.000/mês",
			"R$ 1.000 a R$ 3.000/mês",
			"R$ 3.000 a R$ 10.000/mês",
			"Acima de R$ 10.000/mês",
			"Ainda não sei",
		},
	},
}

func loadQuizQuestions(cfg *Config) error {
	configDir := filepath.Join("internal", "config", "quiz_questions.json")

	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		fmt.Printf("Warning: quiz questions file not found at %s, using default questions\n", configDir)
		cfg.QuizQuestions = defaultQuizQuestions
		return nil
	}

	data, err := os.ReadFile(configDir)
	if err != nil {
		return fmt.Errorf("read quiz questions file: %w", err)
	}

	if len(data) == 0 {
		return fmt.Errorf("quiz questions file is empty: %s", configDir)
	}

	var questionsData quizQuestions
	if err := json.Unmarshal(data, &questionsData); err != nil {
		return fmt.Errorf("parse quiz questions JSON: %w", err)
	}

	if len(questionsData.Questions) == 0 {
		return fmt.Errorf("quiz questions file contains no questions: %s", configDir)
	}

	if err := validateQuizQuestions(questionsData.Questions); err != nil {
		return fmt.Errorf("invalid quiz questions in %s: %w", configDir, err)
	}

	cfg.QuizQuestions = questionsData.Questions

	fmt.Printf("Loaded %d quiz questions from %s\n", len(cfg.QuizQuestions), configDir)
	return nil
}

// scopeQuestionIDs are the answer ids the project scope is built from. A
// custom quiz_questions.json may reword questions and options freely, but it
// must keep covering these ids or the generated scope would come out empty.
var scopeQuestionIDs = []string{
	"business_type",
	"main_challenge",
	"automation_goal",
	"time_saved",
	"budget_range",
}

func validateQuizQuestions(questions []QuizQuestionConfig) error {
	seen := make(map[string]bool, len(questions))
	for _, q := range questions {
		if q.ID == "" || q.Text == "" || len(q.Options) == 0 {
			return fmt.Errorf("quiz question %q is missing id, text or options", q.ID)
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate quiz question id %q", q.ID)
		}
		seen[q.ID] = true
	}

	for _, id := range scopeQuestionIDs {
		if !seen[id] {
			return fmt.Errorf("quiz questions must include a question with id %q", id)
		}
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
