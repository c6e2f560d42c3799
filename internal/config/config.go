package config

import (
	"bytes"
	_ "embed"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP       HTTPConfig      `mapstructure:"http"`
	Log        LogConfig       `mapstructure:"log"`
	Webhook    WebhookConfig   `mapstructure:"webhook"`
	API        APIConfig       `mapstructure:"api"`
	MySQL      DatabaseConfig  `mapstructure:"mysql"`
	ClickHouse DatabaseConfig  `mapstructure:"clickhouse"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Kafka      KafkaConfig     `mapstructure:"kafka"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	RBM        RBMConfig       `mapstructure:"rbm"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// WebhookConfig holds everything the inbound path needs. An empty Secret
// puts the verifier in permissive mode (all requests accepted), which is
// only meant for the initial endpoint-registration phase.
type WebhookConfig struct {
	Secret          string `mapstructure:"secret"`
	SignatureScheme string `mapstructure:"signature_scheme"` // sha512-base64 | sha256-hex | auto
	SignatureHeader string `mapstructure:"signature_header"`
	Handshake       string `mapstructure:"handshake"` // echo | strict
	ClientToken     string `mapstructure:"client_token"`
	Debug           bool   `mapstructure:"debug"`
}

type APIConfig struct {
	Key string `mapstructure:"key"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	DedupeTTL   time.Duration `mapstructure:"dedupe_ttl"`
}

type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type RateLimitConfig struct {
	RPS   int `mapstructure:"rps"`
	Burst int `mapstructure:"burst"`
}

type RBMConfig struct {
	AgentID         string        `mapstructure:"agent_id"`
	Endpoint        string        `mapstructure:"endpoint"`
	CredentialsFile string        `mapstructure:"credentials_file"`
	TimeoutMs       int           `mapstructure:"timeout_ms"`
	Breaker         BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	FailThreshold int `mapstructure:"fail_threshold" yaml:"fail_threshold"`
	OpenForMs     int `mapstructure:"open_for_ms"    yaml:"open_for_ms"`
}

// PermissiveMode reports whether signature verification is disabled.
func (c Config) PermissiveMode() bool {
	return c.Webhook.Secret == ""
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (RBMGW_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override: nested keys map to underscores, e.g.
	// webhook.secret -> RBMGW_WEBHOOK_SECRET
	v.SetEnvPrefix("RBMGW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
