package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/constants"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

/*
把 init 跟 read 分開
init : 需要設置 viper watch 與 onConfigChange
read : 一般讀取，需要使用讀寫鎖
*/
var (
	singleton *ConfigSingleTon
	once      sync.Once
)

const (
	ConfigFileEnvKey  = "SHOP_CONFIG_FILE"
	defaultConfigFile = "./.env"
)

type ConfigSingleTon struct {
	v      *viper.Viper
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	ModuleName  string `mapstructure:"MODULE_NAME"`
	Env         string `mapstructure:"APP_ENV"`
	ServerPort  string `mapstructure:"SERVER_PORT"`
	StoreDriver string `mapstructure:"STORE_DRIVER"`

	DbName       string `mapstructure:"POSTGRES_DB"`
	DbHost       string `mapstructure:"POSTGRES_HOST"`
	DbPort       string `mapstructure:"POSTGRES_PORT"`
	DbUser       string `mapstructure:"POSTGRES_USER"`
	DbPas        string `mapstructure:"POSTGRES_PASSWORD"`
	MigrationURL string `mapstructure:"MIGRATION_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	KafkaBrokers           []string `mapstructure:"KAFKA_BROKERS"`
	KafkaNotificationTopic string   `mapstructure:"KAFKA_NOTIFICATION_TOPIC"`
	KafkaGroupID           string   `mapstructure:"KAFKA_GROUP_ID"`

	PayPalClientID string        `mapstructure:"PAYPAL_CLIENT_ID"`
	PayPalSecret   string        `mapstructure:"PAYPAL_SECRET"`
	PayPalBaseURL  string        `mapstructure:"PAYPAL_BASE_URL"`
	PayPalTimeout  time.Duration `mapstructure:"PAYPAL_TIMEOUT"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	RateLimitCapacity     int     `mapstructure:"RATE_LIMIT_CAPACITY"`
	RateLimitRefillPerSec float64 `mapstructure:"RATE_LIMIT_REFILL_PER_SEC"`

	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// 每個 key 都要有預設值，AutomaticEnv 才讀得到環境變數
var defaults = map[string]any{
	"MODULE_NAME":               "online-shop",
	"APP_ENV":                   string(constants.Dev),
	"SERVER_PORT":               "8080",
	"STORE_DRIVER":              string(constants.StoreDriverMemory),
	"POSTGRES_DB":               "shop",
	"POSTGRES_HOST":             "localhost",
	"POSTGRES_PORT":             "5432",
	"POSTGRES_USER":             "postgres",
	"POSTGRES_PASSWORD":         "",
	"MIGRATION_URL":             "",
	"REDIS_ADDR":                "",
	"REDIS_PASSWORD":            "",
	"REDIS_DB":                  0,
	"KAFKA_BROKERS":             []string{},
	"KAFKA_NOTIFICATION_TOPIC":  "shop.payment.succeeded",
	"KAFKA_GROUP_ID":            "shop-notification",
	"PAYPAL_CLIENT_ID":          "",
	"PAYPAL_SECRET":             "",
	"PAYPAL_BASE_URL":           "https://api-m.sandbox.paypal.com",
	"PAYPAL_TIMEOUT":            constants.DefaultGatewayTimeout,
	"LOG_LEVEL":                 "info",
	"LOG_FORMAT":                "json",
	"RATE_LIMIT_CAPACITY":       20,
	"RATE_LIMIT_REFILL_PER_SEC": 1.0,
	"SHUTDOWN_TIMEOUT":          constants.DefaultShutdownTimeout,
}

func GetConfig() *Config {
	initConfig()
	singleton.mu.RLock()
	defer singleton.mu.RUnlock()
	return singleton.Config
}

func initConfig() {
	once.Do(func() {
		path := os.Getenv(ConfigFileEnvKey)
		if path == "" {
			path = defaultConfigFile
		}

		v := newViper(path)
		cf, err := load(v)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("error read config")
		}
		singleton = &ConfigSingleTon{v: v, Config: cf}

		if v.ConfigFileUsed() != "" {
			v.OnConfigChange(func(e fsnotify.Event) {
				cf, err := load(v)
				if err != nil {
					// 保留舊設定
					log.Error().Err(err).Str("file", e.Name).Msg("failed to reload config file")
					return
				}
				singleton.mu.Lock()
				singleton.Config = cf
				singleton.mu.Unlock()
				log.Info().Str("file", e.Name).Msg("config reloaded")
			})
			v.WatchConfig()
		}
	})
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("env")
	}
	return v
}

/*
單純回傳錯誤，由外部決定要不要 Fatal
*/
func load(v *viper.Viper) (*Config, error) {
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, err
	}
	cf.KafkaBrokers = splitList(cf.KafkaBrokers)
	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

// LoadConfig 讀取指定檔案，檔案不存在時只使用預設值與環境變數
func LoadConfig(path string) (*Config, error) {
	return load(newViper(path))
}

// splitList 環境變數 "a:9092, b:9092" 會被當成單一元素
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c *Config) Validate() error {
	var errs []error
	switch constants.StoreDriver(c.StoreDriver) {
	case constants.StoreDriverMemory, constants.StoreDriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", constants.StoreDriverPostgres, constants.StoreDriverMemory, c.StoreDriver))
	}
	if c.ServerPort == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.KafkaEnabled() && c.KafkaNotificationTopic == "" {
		errs = append(errs, errors.New("KAFKA_NOTIFICATION_TOPIC is required when KAFKA_BROKERS is set"))
	}
	if c.RateLimitCapacity < 0 || c.RateLimitRefillPerSec < 0 {
		errs = append(errs, errors.New("rate limit settings cannot be negative"))
	}
	return errors.Join(errs...)
}

func (c *Config) UsePostgres() bool {
	return constants.StoreDriver(c.StoreDriver) == constants.StoreDriverPostgres
}

func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) IsProd() bool {
	return constants.ENV(c.Env) == constants.Prod
}

// DbSource golang-migrate 使用的 URL 格式
func (c *Config) DbSource() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DbUser, c.DbPas, c.DbHost, c.DbPort, c.DbName)
}
