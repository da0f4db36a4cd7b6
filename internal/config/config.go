// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/trim21/errgo"
)

const (
	ExecutorDirect = "direct"
	ExecutorPool   = "pool"
)

type Transfer struct {
	Executor string `toml:"executor" validate:"oneof=direct pool"`
	// number of workers running blocking IO when Executor is pool
	PoolSize int `toml:"pool-size" validate:"min=1,max=1024"`
	// 0 means no timeout
	Timeout          Duration `toml:"timeout"`
	ProgressInterval Duration `toml:"progress-interval"`
}

type Config struct {
	Transfer Transfer `toml:"transfer"`
}

// Duration is a time.Duration written as "1m30s" in config file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errgo.Wrap(err, "invalid duration")
	}

	if v < 0 {
		return errgo.Wrap(errNegativeDuration, string(text))
	}

	d.Duration = v

	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Config {
	return Config{
		Transfer: Transfer{
			Executor:         ExecutorDirect,
			PoolSize:         4,
			ProgressInterval: Duration{time.Second},
		},
	}
}

// LoadFromFile reads config from path, missing file is not an error.
func LoadFromFile(path string) (Config, error) {
	var cfg = Default()

	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return Config{}, errgo.Wrap(err, "failed to read config file")
	}

	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errgo.Wrap(err, "failed to parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errgo.Wrap(err, "invalid config")
	}

	if c.Transfer.ProgressInterval.Duration <= 0 {
		return errgo.Wrap(errNonPositiveInterval, "invalid config")
	}

	return nil
}
