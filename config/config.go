package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config armazena todas as configurações do serviço da biblioteca.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string
	Timezone    *time.Location

	// Armazenamento: "postgres" (padrão) ou "memory" (desenvolvimento local)
	StoreDriver string

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis)
	RedisAddr    string
	CacheEnabled bool
	CacheTTL     time.Duration

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Regras de cadastro de leitores
	RegistrationWindow time.Duration
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// O .env (se existir) já deve ter sido carregado pelo main via godotenv.
func LoadConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Padrões
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("STORE_DRIVER", "postgres")
	v.SetDefault("DB_TIMEOUT_SEC", 5)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("CACHE_TTL_SEC", 300)
	v.SetDefault("JWT_EXPIRY_MIN", 60)
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_PERIOD_MIN", 1)
	v.SetDefault("REGISTRATION_WINDOW_DAYS", 30)

	cfg := &Config{
		// 1. Geral
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Timezone:    loadLocation(v.GetString("TIMEZONE")),

		// 2. Armazenamento
		StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),
		DBTimeout:   time.Duration(v.GetInt("DB_TIMEOUT_SEC")) * time.Second,

		// 3. Cache (Redis)
		RedisAddr:    v.GetString("REDIS_ADDR"),
		CacheEnabled: v.GetBool("CACHE_ENABLED"),
		CacheTTL:     time.Duration(v.GetInt("CACHE_TTL_SEC")) * time.Second,

		// 4. Segurança (JWT)
		JWTSecretKey: mustGet(v, "JWT_SECRET_KEY"),
		TokenExpiry:  time.Duration(v.GetInt("JWT_EXPIRY_MIN")) * time.Minute,

		// 5. Rate Limiting
		RateLimitMaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		RateLimitPeriod:      time.Duration(v.GetInt("RATE_LIMIT_PERIOD_MIN")) * time.Minute,

		// 6. Cadastro de leitores
		RegistrationWindow: time.Duration(v.GetInt("REGISTRATION_WINDOW_DAYS")) * 24 * time.Hour,
	}

	// mustGet garante que a aplicação não inicie sem credenciais de DB quando o driver é postgres
	if cfg.StoreDriver == "postgres" {
		cfg.DatabaseURL = mustGet(v, "DATABASE_URL")
	} else {
		cfg.DatabaseURL = v.GetString("DATABASE_URL")
	}

	return cfg
}

// mustGet lê a chave obrigatória, fatal se não estiver presente.
func mustGet(v *viper.Viper, key string) string {
	value := v.GetString(key)
	if value == "" {
		log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	}
	return value
}

// loadLocation carrega o fuso usado para calcular "hoje"; em caso de erro usa UTC.
func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("⚠️ Aviso: fuso horário '%s' inválido. Usando UTC.", name)
		return time.UTC
	}
	return loc
}
