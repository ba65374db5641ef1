// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/iotexproject/iotex-interop/blockchain/genesis"
	"github.com/iotexproject/iotex-interop/config"
	"github.com/iotexproject/iotex-interop/pkg/log"
)

type options struct {
	configPaths []string
}

// NewRootCmd returns the interopctl command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "interopctl [command] [flags]",
		Short:         "Command-line interface for IoTeX interoperability",
		Long:          "interopctl decodes cross-chain payloads and inspects the interoperability state of a chain.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringSliceVar(&opts.configPaths, "config", nil, "config files, later files override earlier ones")
	rootCmd.AddCommand(
		newDecodeCmd(),
		newCCMIDCmd(),
		newValidateConfigCmd(opts),
		newInitStateCmd(opts),
		newChainAccountCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		log.L().Fatal("Failed to execute command.", zap.Error(err))
	}
}

func (o *options) loadConfig() (config.Config, error) {
	cfg, err := config.New(o.configPaths)
	if err != nil {
		return config.Config{}, err
	}
	if err := log.InitLoggers(cfg.Log); err != nil {
		return config.Config{}, errors.Wrap(err, "failed to init loggers")
	}
	genesis.SetGenesisTimestamp(cfg.Genesis.Timestamp)
	return cfg, nil
}

func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex string %s", s)
	}
	return b, nil
}

func hexes(bs [][]byte) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = hex.EncodeToString(b)
	}
	return out
}

func printYAML(w io.Writer, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal output")
	}
	_, err = fmt.Fprint(w, string(out))
	return err
}
