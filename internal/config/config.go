package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Telegram Telegram
	Bot      Bot
	Gifts    Gifts
	Snapshot Snapshot
	Postgres Postgres
	Redis    Redis
	HTTP     HTTP
}

type Bot struct {
	Token  string `env:"BOT_TOKEN,required"`
	ChatID int64  `env:"BOT_CHAT_ID,required"`
}

type HTTP struct {
	StatusAddress  string `env:"STATUS_ADDRESS" envDefault:":8080"`
	ProbeAddress   string `env:"PROBE_ADDRESS" envDefault:":8091"`
	MetricsAddress string `env:"METRICS_ADDRESS" envDefault:":8092"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.Gifts.parseRanges(); err != nil {
		return Config{}, fmt.Errorf("parse gift ranges: %w", err)
	}

	validate := validator.New()

	if err := validate.Struct(config); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	// Unexported поле со распарсенными диапазонами валидатор через Struct
	// не видит, прогоняем отдельно.
	for i, r := range config.Gifts.AcquisitionRanges() {
		if err := validate.Struct(r); err != nil {
			return Config{}, fmt.Errorf("validate gift range #%d: %w", i+1, err)
		}
	}

	return config, nil
}
