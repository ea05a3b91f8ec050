package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 数据库迁移模式
const (
	MigrationAuto = "auto" // 自动迁移表结构
	MigrationDrop = "drop" // 删除后重建
	MigrationNone = "none" // 不做迁移
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Server
	ServerPort string

	// Database
	DBEnabled       bool
	DBDriver        string // postgres | mysql
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	DBMigrationMode string // 数据库迁移模式: "auto"(默认), "drop"(删除重建), "none"
	DBSeed          bool   // 迁移后写入参考数据
	DBMaxIdleConns  int
	DBMaxOpenConns  int
	DBLogLevel      string // silent | error | warn | info

	// Redis
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Authentication
	APIKey       string
	JWTSecretKey string
	JWTTTL       time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// 分类树最大展开深度
	ActivityMaxDepth int

	// Rate limiting
	RateLimitRate  float64 // 每秒补充的令牌数
	RateLimitBurst int

	CORSAllowedOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV_TYPE", "LOCAL")
	v.SetDefault("SERVER_PORT", "8080")

	v.SetDefault("DB_ENABLED", true)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "directory")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MIGRATION_MODE", MigrationAuto)
	v.SetDefault("DB_SEED", false)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_LOG_LEVEL", "warn")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("API_KEY", "")
	v.SetDefault("JWT_SECRET_KEY", "directory-secret-key-change-in-production")
	v.SetDefault("JWT_TTL", "24h")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ACTIVITY_MAX_DEPTH", 32)

	v.SetDefault("RATE_LIMIT_RATE", 20.0)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

// LoadConfig 读取 .env 文件和环境变量，环境变量优先
func LoadConfig(envFiles ...string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper 从已设置好的 viper 实例构建配置
func FromViper(v *viper.Viper) (*Config, error) {
	envType := strings.ToUpper(v.GetString("ENV_TYPE"))
	if envType != "LOCAL" && envType != "SERVER" {
		return nil, fmt.Errorf("unknown ENV_TYPE %q", envType)
	}

	jwtTTL, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	cfg := &Config{
		EnvType:    envType,
		ServerPort: v.GetString("SERVER_PORT"),

		DBEnabled:       v.GetBool("DB_ENABLED"),
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBUser:          v.GetString("DB_USER"),
		DBPassword:      v.GetString("DB_PASSWORD"),
		DBName:          v.GetString("DB_NAME"),
		DBSSLMode:       v.GetString("DB_SSLMODE"),
		DBMigrationMode: strings.ToLower(v.GetString("DB_MIGRATION_MODE")),
		DBSeed:          v.GetBool("DB_SEED"),
		DBMaxIdleConns:  v.GetInt("DB_MAX_IDLE_CONNS"),
		DBMaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
		DBLogLevel:      strings.ToLower(v.GetString("DB_LOG_LEVEL")),

		RedisEnabled:  v.GetBool("REDIS_ENABLED"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		APIKey:       v.GetString("API_KEY"),
		JWTSecretKey: v.GetString("JWT_SECRET_KEY"),
		JWTTTL:       jwtTTL,

		LogLevel:  strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat: strings.ToLower(v.GetString("LOG_FORMAT")),

		ActivityMaxDepth: v.GetInt("ACTIVITY_MAX_DEPTH"),

		RateLimitRate:  v.GetFloat64("RATE_LIMIT_RATE"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.DBMigrationMode {
	case MigrationAuto, MigrationDrop, MigrationNone:
	default:
		return fmt.Errorf("unsupported DB_MIGRATION_MODE %q", c.DBMigrationMode)
	}
	if c.ActivityMaxDepth <= 0 {
		return fmt.Errorf("ACTIVITY_MAX_DEPTH must be positive, got %d", c.ActivityMaxDepth)
	}
	if c.RateLimitRate <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RATE and RATE_LIMIT_BURST must be positive")
	}
	return nil
}

// IsProduction 是否为服务器环境
func (c *Config) IsProduction() bool {
	return c.EnvType == "SERVER"
}

// GetDSN returns the database connection string for the configured driver
func (c *Config) GetDSN() string {
	if c.DBDriver == "mysql" {
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
