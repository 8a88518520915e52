package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime settings. Values come from the environment
// (a local .env file is loaded by main before this runs).
type Config struct {
	Addr            string
	DBDSN           string
	GinMode         string
	JWTSecret       string
	JWTTTL          time.Duration
	PageSizeDefault int
	PageSizeMax     int
	AdminInviteCode string
}

// Load reads the environment into a Config, applying defaults for
// everything except the secrets.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("ADDR", ":8080")
	v.SetDefault("DB_DSN", "root:secret@tcp(127.0.0.1:3306)/mystore?parseTime=true")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "72h")
	v.SetDefault("PAGE_SIZE_DEFAULT", 10)
	v.SetDefault("PAGE_SIZE_MAX", 100)
	v.SetDefault("ADMIN_INVITE_CODE", "")

	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Addr:            v.GetString("ADDR"),
		DBDSN:           v.GetString("DB_DSN"),
		GinMode:         v.GetString("GIN_MODE"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTTTL:          ttl,
		PageSizeDefault: v.GetInt("PAGE_SIZE_DEFAULT"),
		PageSizeMax:     v.GetInt("PAGE_SIZE_MAX"),
		AdminInviteCode: v.GetString("ADMIN_INVITE_CODE"),
	}, nil
}
