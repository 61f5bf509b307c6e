// Package config loads the bot's process configuration from the environment
// and its rules from configuration.json.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrMissingToken is returned when no bot credential is configured.
var ErrMissingToken = errors.New("no bot token: set DUTYBOT_BOT_TOKEN or DUTYBOT_BOT_TOKEN_FILE")

// Env is the process configuration read from DUTYBOT_* variables.
type Env struct {
	BotToken     string `env:"DUTYBOT_BOT_TOKEN"`
	BotTokenFile string `env:"DUTYBOT_BOT_TOKEN_FILE"`

	DataPath   string `env:"DUTYBOT_DATA_PATH" envDefault:"data.json"`
	ConfigPath string `env:"DUTYBOT_CONFIG_PATH" envDefault:"configuration.json"`
	LedgerPath string `env:"DUTYBOT_LEDGER_PATH" envDefault:"ledger.db"`

	LogLevel  string `env:"DUTYBOT_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"DUTYBOT_LOG_FORMAT" envDefault:"text"`

	DutyCheckInterval  time.Duration `env:"DUTYBOT_DUTY_CHECK_INTERVAL" envDefault:"30m"`
	DutyConfirmWindow  time.Duration `env:"DUTYBOT_DUTY_CONFIRM_WINDOW" envDefault:"5m"`
	EndConfirmWindow   time.Duration `env:"DUTYBOT_END_CONFIRM_WINDOW" envDefault:"300s"`
	AbortConfirmWindow time.Duration `env:"DUTYBOT_ABORT_CONFIRM_WINDOW" envDefault:"60s"`
	SweepInterval      time.Duration `env:"DUTYBOT_SWEEP_INTERVAL" envDefault:"5s"`

	// SendRate caps outbound platform messages per second.
	SendRate float64 `env:"DUTYBOT_SEND_RATE" envDefault:"25"`
}

// LoadEnv parses the environment into an Env.
func LoadEnv() (*Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// Validate rejects non-positive intervals and rates.
func (e *Env) Validate() error {
	for name, d := range map[string]time.Duration{
		"DUTYBOT_DUTY_CHECK_INTERVAL":  e.DutyCheckInterval,
		"DUTYBOT_DUTY_CONFIRM_WINDOW":  e.DutyConfirmWindow,
		"DUTYBOT_END_CONFIRM_WINDOW":   e.EndConfirmWindow,
		"DUTYBOT_ABORT_CONFIRM_WINDOW": e.AbortConfirmWindow,
		"DUTYBOT_SWEEP_INTERVAL":       e.SweepInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if e.SendRate <= 0 {
		return fmt.Errorf("DUTYBOT_SEND_RATE must be positive, got %v", e.SendRate)
	}
	return nil
}

// ResolveToken returns the bot credential: DUTYBOT_BOT_TOKEN when set, else
// the trimmed contents of DUTYBOT_BOT_TOKEN_FILE.
func (e *Env) ResolveToken() (string, error) {
	if t := strings.TrimSpace(e.BotToken); t != "" {
		return t, nil
	}
	if e.BotTokenFile == "" {
		return "", ErrMissingToken
	}
	data, err := os.ReadFile(e.BotTokenFile)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	t := strings.TrimSpace(string(data))
	if t == "" {
		return "", fmt.Errorf("%w (token file %s is empty)", ErrMissingToken, e.BotTokenFile)
	}
	return t, nil
}

// SlogLevel maps LogLevel onto a slog level. Unknown values mean info.
func (e *Env) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
