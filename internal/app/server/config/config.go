package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env    string
	DB     db
	Server server
	Logger logger
	Push   push
}

type defaultConfig struct {
	RunAddress      string
	DatabaseURI     string
	LogLevel        string
	Env             string
	Migrations      string
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string
	PushWorkers     int
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type push struct {
	VAPIDPublicKey  string `env:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `env:"VAPID_PRIVATE_KEY"`
	VAPIDSubscriber string `env:"VAPID_SUBSCRIBER"`
	Workers         int    `env:"PUSH_WORKERS" envDefault:"4"`
}

func MustLoad() *Config {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.AutomaticEnv()
	d := defaultConfig{
		RunAddress:      viper.GetString("run_address"),
		DatabaseURI:     viper.GetString("database_uri"),
		LogLevel:        viper.GetString("log_level"),
		Env:             viper.GetString("app_env"),
		Migrations:      viper.GetString("migrations_path"),
		VAPIDPublicKey:  viper.GetString("vapid_public_key"),
		VAPIDPrivateKey: viper.GetString("vapid_private_key"),
		VAPIDSubscriber: viper.GetString("vapid_subscriber"),
		PushWorkers:     viper.GetInt("push_workers"),
	}
	if d.RunAddress == "" {
		d.RunAddress = ":8080"
	}
	if d.Migrations == "" {
		d.Migrations = "migrations"
	}
	if d.PushWorkers <= 0 {
		d.PushWorkers = 4
	}

	config := Config{
		Env: d.Env,
		DB: db{
			DatabaseURI: d.DatabaseURI,
			Migrations:  d.Migrations,
		},
		Server: server{RunAddress: d.RunAddress},
		Logger: logger{LogLevel: d.LogLevel},
		Push: push{
			VAPIDPublicKey:  d.VAPIDPublicKey,
			VAPIDPrivateKey: d.VAPIDPrivateKey,
			VAPIDSubscriber: d.VAPIDSubscriber,
			Workers:         d.PushWorkers,
		},
	}

	return &config
}
