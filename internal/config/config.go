package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type Config struct {
	Env          string             `yaml:"env" env:"ENV" env-default:"local"` // environment
	HTTPServer   HTTPServerConfig   `yaml:"http_server"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	Storage      StorageConfig      `yaml:"storage"`
	Redis        RedisConfig        `yaml:"redis"`
	Database     DatabaseConfig     `yaml:"database"`
	Pricing      PricingConfig      `yaml:"pricing"`
	PostalLookup PostalLookupConfig `yaml:"postal_lookup"`
	Kafka        KafkaConfig        `yaml:"kafka"`
	Migrations   MigrationsConfig   `yaml:"migrations"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// CatalogConfig — откуда читать products.json: путь к файлу или http(s) URL
type CatalogConfig struct {
	Source  string        `yaml:"source" env:"CATALOG_SOURCE" env-default:"./data/products.json"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

// StorageConfig — где хранятся корзина и заказы
type StorageConfig struct {
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"file"`
	Dir     string `yaml:"dir" env-default:"./var/state"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
	Prefix   string `yaml:"prefix" env-default:"wegx:"`
}

// DatabaseConfig структура по работе с БД, нужна только для backend postgres и мигратора
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-default:"postgres"`
	Password string `yaml:"-" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env-default:"wegx"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

// DSN собирает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL — тот же адрес в виде postgres:// для golang-migrate
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// PricingConfig — суммы строками, чтобы не терять точность
type PricingConfig struct {
	FreeShippingThreshold string        `yaml:"free_shipping_threshold" env-default:"299.00"`
	FlatShippingFee       string        `yaml:"flat_shipping_fee" env-default:"19.90"`
	ExpressWindow         time.Duration `yaml:"express_window" env-default:"1h"`
	StandardWindow        time.Duration `yaml:"standard_window" env-default:"72h"`
}

// Amounts разбирает суммы порога и тарифа
func (p PricingConfig) Amounts() (threshold, fee decimal.Decimal, err error) {
	threshold, err = decimal.NewFromString(p.FreeShippingThreshold)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("free_shipping_threshold: %w", err)
	}
	fee, err = decimal.NewFromString(p.FlatShippingFee)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("flat_shipping_fee: %w", err)
	}
	return threshold, fee, nil
}

// PostalLookupConfig — автозаполнение адреса по CEP. У bool нет env-default:
// cleanenv подставил бы его поверх явного false из файла.
type PostalLookupConfig struct {
	Enabled bool          `yaml:"enabled" env:"POSTAL_LOOKUP_ENABLED"`
	BaseURL string        `yaml:"base_url" env-default:"https://viacep.com.br/ws"`
	Timeout time.Duration `yaml:"timeout" env-default:"3s"`
}

// KafkaConfig — без брокеров события не публикуются
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env-default:"wegx.orders"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s: %v", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config %s: %v", configPath, err)
	}

	return &cfg
}

// Validate проверяет значения, которые cleanenv не может проверить сам
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageMemory, StorageFile, StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Catalog.Source == "" {
		return fmt.Errorf("catalog source is empty")
	}
	// первый запрос загружает каталог, он должен уложиться в таймаут ответа
	if c.HTTPServer.Timeout <= c.Catalog.Timeout {
		return fmt.Errorf("http_server.timeout %s must exceed catalog.timeout %s", c.HTTPServer.Timeout, c.Catalog.Timeout)
	}
	if _, _, err := c.Pricing.Amounts(); err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	return nil
}
