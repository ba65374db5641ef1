// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package config

import (
	"os"

	"github.com/pkg/errors"
	uconfig "go.uber.org/config"

	"github.com/iotexproject/iotex-interop/blockchain/genesis"
	"github.com/iotexproject/iotex-interop/db"
	"github.com/iotexproject/iotex-interop/pkg/log"
	"github.com/iotexproject/iotex-interop/state/factory"
)

// IMPORTANT: to define a config, add a field or a new config type to the existing config types. In addition, provide
// the default value in Default var.

var (
	// Default is the default config
	Default = Config{
		Chain: Chain{
			StateDBPath: "/var/data/interop.db",
		},
		DB:      db.DefaultConfig,
		Factory: factory.DefaultConfig,
		Genesis: genesis.Default,
	}

	// ErrInvalidCfg indicates the invalid config value
	ErrInvalidCfg = errors.New("invalid config value")

	// Validates is the collection config validation functions
	Validates = []Validate{
		ValidateDB,
		ValidateGenesis,
	}
)

type (
	// Chain is the config struct for the state of the chain
	Chain struct {
		// StateDBPath is the path of the state database
		StateDBPath string `yaml:"stateDBPath"`
	}

	// Config is the root config struct, each package's config should be put as its sub struct
	Config struct {
		Chain   Chain            `yaml:"chain"`
		DB      db.Config        `yaml:"db"`
		Factory factory.Config   `yaml:"factory"`
		Genesis genesis.Genesis  `yaml:"genesis"`
		Log     log.GlobalConfig `yaml:"log"`
	}

	// Validate is the interface of validating the config
	Validate func(Config) error
)

// New creates a config instance. It first loads the default configs. If the config path is not empty, it will read from
// the file and override the default configs. By default, it will apply all validation functions. To bypass validation,
// use DoNotValidate instead.
func New(configPaths []string, validates ...Validate) (Config, error) {
	opts := make([]uconfig.YAMLOption, 0)
	opts = append(opts, uconfig.Static(Default))
	opts = append(opts, uconfig.Expand(os.LookupEnv))
	for _, path := range configPaths {
		if path != "" {
			opts = append(opts, uconfig.File(path))
		}
	}
	yaml, err := uconfig.NewYAML(opts...)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to init config")
	}

	var cfg Config
	if err := yaml.Get(uconfig.Root).Populate(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal YAML config to struct")
	}

	// By default, the config needs to pass all the validation
	if len(validates) == 0 {
		validates = Validates
	}
	for _, validate := range validates {
		if err := validate(cfg); err != nil {
			return Config{}, errors.Wrap(err, "failed to validate config")
		}
	}
	return cfg, nil
}

// ValidateDB validates the state db configs
func ValidateDB(cfg Config) error {
	switch cfg.DB.DBType {
	case db.DBMemory:
		return nil
	case db.DBBolt, db.DBPebble, db.DBLevel:
	default:
		return errors.Wrapf(ErrInvalidCfg, "unsupported db type %s", cfg.DB.DBType)
	}
	if cfg.Chain.StateDBPath == "" {
		return errors.Wrap(ErrInvalidCfg, "state db path is empty")
	}
	return nil
}

// ValidateGenesis validates the interop section of the genesis
func ValidateGenesis(cfg Config) error {
	if err := cfg.Genesis.Validate(); err != nil {
		return errors.Wrap(ErrInvalidCfg, err.Error())
	}
	return nil
}

// DoNotValidate validates the given config
func DoNotValidate(cfg Config) error { return nil }
