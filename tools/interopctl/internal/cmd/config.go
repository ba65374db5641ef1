// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Load and validate the config files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			role := "sidechain"
			if cfg.Genesis.IsMainchain() {
				role = "mainchain"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "config is valid: %s %s (%s) with %d registered chains\n",
				role, cfg.Genesis.ChainName, cfg.Genesis.ChainID, len(cfg.Genesis.Chains))
			return err
		},
	}
}
