// Package config loads server and schedule configuration from the
// environment, with sensible defaults for local development.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/campus/attendance-engine/attendance"
)

type Config struct {
	ServerPort int    `mapstructure:"SERVER_PORT"`
	DBPath     string `mapstructure:"DB_PATH"`
	DevLogging bool   `mapstructure:"DEV_LOGGING"`

	// Schedule policy. Times are "15:04" on the site clock.
	ScheduledClockIn        string `mapstructure:"SCHEDULED_CLOCK_IN"`
	ScheduledLunchReturn    string `mapstructure:"SCHEDULED_LUNCH_RETURN"`
	GraceClockInMinutes     int    `mapstructure:"GRACE_CLOCK_IN_MINUTES"`
	GraceLunchReturnMinutes int    `mapstructure:"GRACE_LUNCH_RETURN_MINUTES"`
	MaxEntryTardiness       int    `mapstructure:"MAX_ENTRY_TARDINESS"`
	MaxLunchTardiness       int    `mapstructure:"MAX_LUNCH_TARDINESS"`
	MaxAbsences             int    `mapstructure:"MAX_ABSENCES"`
	MaxWarnings             int    `mapstructure:"MAX_WARNINGS"`
}

// Load reads configuration from environment variables.
func Load() (config Config, err error) {
	defaults := attendance.DefaultClockConfiguration()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_PATH", "attendance.db")
	viper.SetDefault("DEV_LOGGING", false)
	viper.SetDefault("SCHEDULED_CLOCK_IN", defaults.ScheduledClockIn.String())
	viper.SetDefault("SCHEDULED_LUNCH_RETURN", defaults.ScheduledLunchReturn.String())
	viper.SetDefault("GRACE_CLOCK_IN_MINUTES", defaults.GraceClockInMinutes)
	viper.SetDefault("GRACE_LUNCH_RETURN_MINUTES", defaults.GraceLunchReturnMinutes)
	viper.SetDefault("MAX_ENTRY_TARDINESS", defaults.MaxEntryTardiness)
	viper.SetDefault("MAX_LUNCH_TARDINESS", defaults.MaxLunchTardiness)
	viper.SetDefault("MAX_ABSENCES", defaults.MaxAbsences)
	viper.SetDefault("MAX_WARNINGS", defaults.MaxWarnings)

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}

// ClockConfiguration converts the loaded schedule policy into the
// engine's configuration type.
func (c Config) ClockConfiguration() (attendance.ClockConfiguration, error) {
	clockIn, err := attendance.ParseClockTime(c.ScheduledClockIn)
	if err != nil {
		return attendance.ClockConfiguration{}, fmt.Errorf("SCHEDULED_CLOCK_IN: %w", err)
	}
	lunchReturn, err := attendance.ParseClockTime(c.ScheduledLunchReturn)
	if err != nil {
		return attendance.ClockConfiguration{}, fmt.Errorf("SCHEDULED_LUNCH_RETURN: %w", err)
	}

	cfg := attendance.ClockConfiguration{
		ScheduledClockIn:        clockIn,
		ScheduledLunchReturn:    lunchReturn,
		GraceClockInMinutes:     c.GraceClockInMinutes,
		GraceLunchReturnMinutes: c.GraceLunchReturnMinutes,
		MaxEntryTardiness:       c.MaxEntryTardiness,
		MaxLunchTardiness:       c.MaxLunchTardiness,
		MaxAbsences:             c.MaxAbsences,
		MaxWarnings:             c.MaxWarnings,
	}
	return cfg, cfg.Validate()
}
