package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// RatePolicy is a fixed-window budget: Limit hits per Window.
type RatePolicy struct {
	Limit  int
	Window time.Duration
}

// Rate-limited actions.
const (
	ActionLogin       = "login"
	ActionRegister    = "register"
	ActionPDFDownload = "pdf_download"
	ActionPDFEmail    = "pdf_email"
	ActionScoutSend   = "scout_send"
	ActionGlobal      = "global"
)

type Config struct {
	Port           string
	DBUrl          string
	MigrationsPath string
	RunMigrations  bool
	LogLevel       string
	FrontendURL    string
	AllowedOrigins []string
	// Token service
	JWTSecret    string
	JWTAlgorithm string
	JWTTTL       time.Duration
	JWTIssuer    string
	JWKSURL      string // optional external RS256 issuer
	// SMTP
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	// Redis
	RedisURL      string
	RedisPassword string
	// Object storage (rendered resume PDFs)
	S3Endpoint        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3PresignTTL      time.Duration
	// Text generation
	OpenAIAPIKey   string
	OpenAIModel    string
	OpenAIBaseURL  string
	TextGenTimeout time.Duration
	// Rate limiting
	RatePolicies map[string]RatePolicy
	// Login tracking
	LoginMaxAttempts int
	LoginBlock       time.Duration
	// Domain
	DefaultScoutCredits  int
	ScoutTTL             time.Duration
	SweepInterval        time.Duration
	TicketUnitCost       int64
	NotifyQueueSize      int
	BillingWebhookSecret string
	// Security
	SecurityLogToDB bool
	Environment     string
}

func LoadConfig() (*Config, error) {
	// .env is only present locally
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBUrl:          getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		RunMigrations:  getEnvBool("RUN_MIGRATIONS", true),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTAlgorithm: strings.ToUpper(getEnv("JWT_ALGORITHM", "HS256")),
		JWTTTL:       time.Duration(getEnvInt("JWT_TTL_MINUTES", 60*24)) * time.Minute,
		JWTIssuer:    getEnv("JWT_ISSUER", "scout-backend"),
		JWKSURL:      getEnv("JWT_JWKS_URL", ""),

		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@example.com"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "ap-northeast-1"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3PresignTTL:      time.Duration(getEnvInt("S3_PRESIGN_TTL_SECONDS", 300)) * time.Second,

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		TextGenTimeout: time.Duration(getEnvInt("TEXTGEN_TIMEOUT_SECONDS", 20)) * time.Second,

		RatePolicies: map[string]RatePolicy{
			ActionLogin:       getEnvPolicy("RATE_LIMIT_LOGIN", RatePolicy{Limit: 10, Window: time.Minute}),
			ActionRegister:    getEnvPolicy("RATE_LIMIT_REGISTER", RatePolicy{Limit: 10, Window: time.Hour}),
			ActionPDFDownload: getEnvPolicy("RATE_LIMIT_PDF_DOWNLOAD", RatePolicy{Limit: 10, Window: time.Minute}),
			ActionPDFEmail:    getEnvPolicy("RATE_LIMIT_PDF_EMAIL", RatePolicy{Limit: 5, Window: 10 * time.Minute}),
			ActionScoutSend:   getEnvPolicy("RATE_LIMIT_SCOUT_SEND", RatePolicy{Limit: 30, Window: time.Hour}),
			ActionGlobal:      getEnvPolicy("RATE_LIMIT_GLOBAL", RatePolicy{Limit: 300, Window: time.Minute}),
		},

		LoginMaxAttempts: getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginBlock:       time.Duration(getEnvInt("LOGIN_BLOCK_MINUTES", 15)) * time.Minute,

		DefaultScoutCredits:  getEnvInt("DEFAULT_SCOUT_CREDITS", 0),
		ScoutTTL:             time.Duration(getEnvInt("SCOUT_TTL_DAYS", 30)) * 24 * time.Hour,
		SweepInterval:        time.Duration(getEnvInt("SWEEP_INTERVAL_SECONDS", 300)) * time.Second,
		TicketUnitCost:       int64(getEnvInt("TICKET_UNIT_COST", 0)),
		NotifyQueueSize:      getEnvInt("NOTIFY_QUEUE_SIZE", 1024),
		BillingWebhookSecret: getEnv("BILLING_WEBHOOK_SECRET", ""),

		SecurityLogToDB: getEnvBool("SECURITY_LOG_TO_DB", true),
		Environment:     getEnv("APP_ENV", "development"),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is empty. Tokens cannot be issued.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting and notifications stay in-process.")
	}

	return cfg, nil
}

// Policy returns the configured policy for action, or the global one.
func (c *Config) Policy(action string) RatePolicy {
	if p, ok := c.RatePolicies[action]; ok {
		return p
	}
	return c.RatePolicies[ActionGlobal]
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvPolicy parses "limit/window_seconds", e.g. RATE_LIMIT_PDF_EMAIL=5/600.
func getEnvPolicy(key string, fallback RatePolicy) RatePolicy {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return ParsePolicy(value, fallback)
}

// ParsePolicy parses "limit/window_seconds" and returns fallback on malformed input.
func ParsePolicy(value string, fallback RatePolicy) RatePolicy {
	parts := strings.SplitN(strings.TrimSpace(value), "/", 2)
	if len(parts) != 2 {
		return fallback
	}
	limit, err := strconv.Atoi(parts[0])
	if err != nil || limit <= 0 {
		return fallback
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil || seconds <= 0 {
		return fallback
	}
	return RatePolicy{Limit: limit, Window: time.Duration(seconds) * time.Second}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.TrimRight(part, "/"))
		}
	}
	return out
}
