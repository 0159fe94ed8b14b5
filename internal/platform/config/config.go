package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr       string
	LogLevel   slog.Level
	SessionTTL time.Duration

	Redis       RedisConfig
	RecordStore RecordStoreConfig
	Observation ObservationConfig
	FHIRAuth    FHIRAuthConfig
	Recognizer  RecognizerConfig
}

// RedisConfig configures the optional redis-backed session store.
// An empty URL selects the in-memory store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RecordStoreConfig points at the patient record store.
type RecordStoreConfig struct {
	URL         string
	Timeout     time.Duration
	InsecureTLS bool
}

// ObservationConfig points at the observation fetch tool.
type ObservationConfig struct {
	URL         string
	FHIRBaseURL string
	Timeout     time.Duration
}

// FHIRAuthConfig holds credentials for the FHIR server the fetch tool reads from.
// When the client-credentials fields are set a token is requested from TokenURL,
// otherwise StaticToken is forwarded as-is.
type FHIRAuthConfig struct {
	StaticToken  string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	// Timeout bounds each token request.
	Timeout time.Duration
}

// RecognizerConfig configures the hosted intent recognizer. An empty AppID
// selects the keyword recognizer.
type RecognizerConfig struct {
	AppID    string
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

// Default upstream timeouts.
const (
	DefaultRecordStoreTimeout = 10 * time.Second
	DefaultObservationTimeout = 5 * time.Second
	DefaultRecognizerTimeout  = 5 * time.Second
	DefaultTokenTimeout       = 5 * time.Second
	DefaultSessionTTL         = 24 * time.Hour
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:       envOr("PATIENTBOT_ADDR", ":3978"),
		LogLevel:   parseLevel(os.Getenv("LOG_LEVEL")),
		SessionTTL: envDuration("SESSION_TTL", DefaultSessionTTL),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		RecordStore: RecordStoreConfig{
			URL:         envOr("RECORD_STORE_URL", "https://localhost:5001/api/Patient"),
			Timeout:     envDuration("RECORD_STORE_TIMEOUT", DefaultRecordStoreTimeout),
			InsecureTLS: os.Getenv("RECORD_STORE_INSECURE_TLS") == "true",
		},
		Observation: ObservationConfig{
			URL:         envOr("OBSERVATION_URL", "https://fhir-json-tool.azurewebsites.net/api/fhir-json-tool"),
			FHIRBaseURL: envOr("FHIR_BASE_URL", "https://gosh-fhir-synth.azurehealthcareapis.com"),
			Timeout:     envDuration("OBSERVATION_TIMEOUT", DefaultObservationTimeout),
		},
		FHIRAuth: FHIRAuthConfig{
			StaticToken:  os.Getenv("FHIR_AUTH_TOKEN"),
			TokenURL:     os.Getenv("FHIR_TOKEN_URL"),
			ClientID:     os.Getenv("FHIR_CLIENT_ID"),
			ClientSecret: os.Getenv("FHIR_CLIENT_SECRET"),
			Scopes:       splitList(os.Getenv("FHIR_SCOPE")),
			Timeout:      envDuration("FHIR_TOKEN_TIMEOUT", DefaultTokenTimeout),
		},
		Recognizer: RecognizerConfig{
			AppID:    os.Getenv("LUIS_APP_ID"),
			APIKey:   os.Getenv("LUIS_API_KEY"),
			Endpoint: os.Getenv("LUIS_API_HOSTNAME"),
			Timeout:  envDuration("LUIS_TIMEOUT", DefaultRecognizerTimeout),
		},
	}
}

// UsesClientCredentials reports whether a token should be requested rather
// than forwarded from StaticToken.
func (c FHIRAuthConfig) UsesClientCredentials() bool {
	return c.TokenURL != "" && c.ClientID != "" && c.ClientSecret != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
