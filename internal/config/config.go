package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AI       AIConfig
	Auth     AuthConfig
	Stripe   StripeConfig
	Log      LogConfig
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string
	Environment string
	Version     string
	Debug       bool
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string
	Port         int
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AIConfig 上游大模型配置
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout int // 秒，仅作用于非流式请求
}

// AuthConfig 认证配置
// 认证本身由外部身份服务完成，这里只持有校验 access token 所需的共享密钥
type AuthConfig struct {
	JWTSecret      string
	GoogleClientID string
}

// StripeConfig Stripe 配置
type StripeConfig struct {
	SecretKey        string
	PriceID          string
	WebhookSecret    string
	BillingReturnURL string
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string
	Format string
}

var globalConfig *Config

// Load 加载配置
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// 环境变量
	v.SetEnvPrefix("BREEZIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	globalConfig = &cfg
	return &cfg, nil
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("config not loaded")
	}
	return globalConfig
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GetAddr 获取服务器地址
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetAddr 获取 Redis 地址
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "breezie")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", true)

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.readTimeout", 30)
	// 0 表示不限制：流式响应会长时间写出
	v.SetDefault("server.writeTimeout", 0)

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "breezie")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.maxLifetime", 300)

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// AI
	v.SetDefault("ai.baseUrl", "https://api.deepseek.com")
	v.SetDefault("ai.model", "deepseek-chat")
	v.SetDefault("ai.timeout", 60)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
