package core

import (
	"fmt"
	"log"
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

		SecretKey          string
		JWTExpirationDelta time.Duration

		Server   ServerConfig
		Database DatabaseConfig
		Sheets   SheetsConfig

		RollbarToken string
	}

	ServerConfig struct {
		Host string
		Port int
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          int
		DisableTLS    bool
	}

	// SheetsConfig mirrors the app settings document: a webhook endpoint for
	// spreadsheet automation, a master switch and per-feed switches.
	SheetsConfig struct {
		Enabled        bool
		WebhookURL     string
		Format         string
		Design         string
		SyncAttendance bool
		SyncFinance    bool
		SyncLeads      bool
	}
)

func (c ServerConfig) Address() string   { return fmt.Sprintf("%s:%d", c.Host, c.Port) }
func (c DatabaseConfig) Address() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// NewConfig loads the application configuration: defaults first, then an
// optional .env.<env> file, then environment variables (prefixed with ENV).
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Pro Teach")
	conf.SetDefault("secretKey", "x#2s(14y&8ml-n@f9v+q0z_ertb$g5o7c=hdk3u*wpaji6")
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)

	conf.SetDefault("server.host", "")
	conf.SetDefault("server.port", 8000)

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.name", "proteach")
	conf.SetDefault("database.user", "proteach")
	conf.SetDefault("database.password", "proteach")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", 5432)
	conf.SetDefault("database.disableTLS", true)

	conf.SetDefault("sheets.enabled", false)
	conf.SetDefault("sheets.webhookURL", "")
	conf.SetDefault("sheets.format", "v2")
	conf.SetDefault("sheets.design", "standard")
	conf.SetDefault("sheets.syncAttendance", true)
	conf.SetDefault("sheets.syncFinance", true)
	conf.SetDefault("sheets.syncLeads", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	conf.AutomaticEnv()

	return &Config{
		Debug:              conf.GetBool("debug"),
		TestMode:           env == "TEST",
		Env:                env,
		AppName:            conf.GetString("appName"),
		SecretKey:          conf.GetString("secretKey"),
		JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
		Server: ServerConfig{
			Host: conf.GetString("server.host"),
			Port: conf.GetInt("server.port"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetInt("database.port"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
		},
		Sheets: SheetsConfig{
			Enabled:        conf.GetBool("sheets.enabled"),
			WebhookURL:     conf.GetString("sheets.webhookURL"),
			Format:         conf.GetString("sheets.format"),
			Design:         conf.GetString("sheets.design"),
			SyncAttendance: conf.GetBool("sheets.syncAttendance"),
			SyncFinance:    conf.GetBool("sheets.syncFinance"),
			SyncLeads:      conf.GetBool("sheets.syncLeads"),
		},
		RollbarToken: conf.GetString("rollbarToken"),
	}
}
