package config

import (
	"os"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	RPCURL               string
	ChainID              int64
	DropContractAddress  string
	JarContractAddress   string
	USDCContractAddress  string
	SettlementPrivateKey string

	PublicBaseURL string
	LogFormat     string

	WorkerPollInterval time.Duration
	JarRefreshInterval time.Duration

	EnableClaimProjection bool
	EnableOutboxRelay     bool
	EnableJarRefresher    bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "tipdrop"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	baseURL := strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		RPCURL:               os.Getenv("RPC_URL"),
		ChainID:              envInt64("CHAIN_ID", 43113),
		DropContractAddress:  os.Getenv("DROP_CONTRACT_ADDRESS"),
		JarContractAddress:   os.Getenv("JAR_CONTRACT_ADDRESS"),
		USDCContractAddress:  os.Getenv("USDC_CONTRACT_ADDRESS"),
		SettlementPrivateKey: os.Getenv("SETTLEMENT_PRIVATE_KEY"),

		PublicBaseURL: baseURL,
		LogFormat:     strings.ToLower(os.Getenv("LOG_FORMAT")),

		WorkerPollInterval: envDuration("WORKER_POLL_INTERVAL", 5*time.Second),
		JarRefreshInterval: envDuration("JAR_REFRESH_INTERVAL", 30*time.Second),

		EnableClaimProjection: envBool("ENABLE_CLAIM_PROJECTION", true),
		EnableOutboxRelay:     envBool("ENABLE_OUTBOX_RELAY", true),
		EnableJarRefresher:    envBool("ENABLE_JAR_REFRESHER", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envInt64(name string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	var value int64
	for _, ch := range raw {
		if ch < '0' || ch > '9' {
			return fallback
		}
		value = value*10 + int64(ch-'0')
	}
	return value
}
