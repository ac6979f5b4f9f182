package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env     string `env:"ENV" env-required:"true"`
	LogFile string `env:"LOG_FILE"`
	HTTP    HTTPConfig
	Store   StoreConfig
	JWT     JWTConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            int           `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type StoreConfig struct {
	PlannerFile   string `env:"PLANNER_DB_FILE" env-default:"planner.json"`
	TestbenchFile string `env:"TESTBENCH_DB_FILE" env-default:"testbench.json"`
}

type JWTConfig struct {
	Issuer         string        `env:"JWT_ISSUER" env-default:"planboard"`
	SigningKey     string        `env:"JWT_SIGNING_KEY" env-required:"true"`
	AccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15m"`
}
