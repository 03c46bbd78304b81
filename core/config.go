package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string
		AppName  string
		Build    string

		// SecretKey signs session tokens; GatewayKey is the shared
		// deployment secret checked before any authentication.
		SecretKey  string
		GatewayKey string

		TokenExpirationDelta time.Duration

		DefaultFromEmail mail.Address
		SendgridApiKey   string
		RollbarToken     string

		Server   ServerConfig
		Database DatabaseConfig
	}

	ServerConfig struct {
		Host            string
		Addr            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}
)

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Shule")
	conf.SetDefault("build", "dev")
	conf.SetDefault("secretKey", "+w&08+-(^bkutxkuo09kc#5&_p$eu2m$b-7u(s#but6e8yya37")
	conf.SetDefault("gatewayKey", "")
	conf.SetDefault("tokenExpirationDelta", time.Hour)
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddr", ":8000")
	conf.SetDefault("serverDebugHost", "localhost:4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("dbHost", "localhost")
	conf.SetDefault("dbPort", "5432")
	conf.SetDefault("dbUser", "postgres")
	conf.SetDefault("dbPassword", "")
	conf.SetDefault("dbName", "shule")
	conf.SetDefault("dbSSLMode", "disable")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	var testMode bool
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:                conf.GetBool("debug"),
		TestMode:             testMode,
		Env:                  env,
		AppName:              conf.GetString("appName"),
		Build:                conf.GetString("build"),
		SecretKey:            conf.GetString("secretKey"),
		GatewayKey:           conf.GetString("gatewayKey"),
		TokenExpirationDelta: conf.GetDuration("tokenExpirationDelta"),
		DefaultFromEmail:     mail.Address{Address: conf.GetString("defaultFromEmail")},
		SendgridApiKey:       conf.GetString("sendgridApiKey"),
		RollbarToken:         conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            conf.GetString("serverHost"),
			Addr:            conf.GetString("serverAddr"),
			DebugHost:       conf.GetString("serverDebugHost"),
			ShutdownTimeout: conf.GetDuration("serverShutdownTimeout"),
		},
		Database: DatabaseConfig{
			Host:     conf.GetString("dbHost"),
			Port:     conf.GetString("dbPort"),
			User:     conf.GetString("dbUser"),
			Password: conf.GetString("dbPassword"),
			Name:     conf.GetString("dbName"),
			SSLMode:  conf.GetString("dbSSLMode"),
		},
	}
}
