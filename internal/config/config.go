package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults match the box this tool was written for.
const (
	DefaultBoxID          = 28
	DefaultLocationID     = 7
	DefaultMembershipType = 1
	DefaultStartTime      = "06:00"
	DefaultRunTime        = "15:00"
	DefaultTimezone       = "Asia/Jerusalem"
)

// DefaultBookingDays is the fallback weekday list when
// ARBOX_REGISTRATION_DAYS is unset.
var DefaultBookingDays = []string{"sun", "tue", "thu"}

// Config is built once at process start and passed by value into the
// orchestration flow and its collaborators.
type Config struct {
	Email    string
	Password string

	AlertzyKey string
	Timezone   string

	BoxID          int
	LocationID     int
	MembershipType int

	StartTime   string // class start, "HH:MM"
	RunTime     string // registration-open instant the gate waits for, "HH:MM"
	BookingDays []string

	RunWindow time.Duration // trigger-adapter tolerance around RunTime

	APIBaseURL string // empty means the production Arbox API
}

// Load reads configuration from the environment, with an optional local
// .env file for development. Missing credentials are not an error here;
// the orchestrator rejects them before any network call.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("ARBOX_BOX_ID", DefaultBoxID)
	v.SetDefault("ARBOX_LOCATION_ID", DefaultLocationID)
	v.SetDefault("ARBOX_MEMBERSHIP_TYPE", DefaultMembershipType)
	v.SetDefault("ARBOX_REGISTRATION_START_TIME", DefaultStartTime)
	v.SetDefault("ARBOX_RUN_TIME", DefaultRunTime)
	v.SetDefault("ARBOX_RUN_WINDOW_MINUTES", 5)
	v.SetDefault("TZ", DefaultTimezone)

	if _, err := os.Stat(".env"); err == nil {
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read .env: %w", err)
		}
	}
	v.AutomaticEnv()

	cfg := Config{
		Email:          v.GetString("ARBOX_USER_EMAIL"),
		Password:       v.GetString("ARBOX_USER_PASSWORD"),
		AlertzyKey:     v.GetString("ALERTZY_ACCOUNT_KEY"),
		Timezone:       v.GetString("TZ"),
		BoxID:          v.GetInt("ARBOX_BOX_ID"),
		LocationID:     v.GetInt("ARBOX_LOCATION_ID"),
		MembershipType: v.GetInt("ARBOX_MEMBERSHIP_TYPE"),
		StartTime:      v.GetString("ARBOX_REGISTRATION_START_TIME"),
		RunTime:        v.GetString("ARBOX_RUN_TIME"),
		BookingDays:    splitDays(v.GetString("ARBOX_REGISTRATION_DAYS")),
		RunWindow:      time.Duration(v.GetInt("ARBOX_RUN_WINDOW_MINUTES")) * time.Minute,
		APIBaseURL:     v.GetString("ARBOX_API_BASE_URL"),
	}
	if len(cfg.BookingDays) == 0 {
		cfg.BookingDays = DefaultBookingDays
	}
	if cfg.RunWindow < time.Minute {
		return Config{}, fmt.Errorf("ARBOX_RUN_WINDOW_MINUTES must be >= 1")
	}
	return cfg, nil
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TZ %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func splitDays(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
