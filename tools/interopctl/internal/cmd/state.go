// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-interop/action/protocol"
	"github.com/iotexproject/iotex-interop/action/protocol/interop"
	"github.com/iotexproject/iotex-interop/config"
	"github.com/iotexproject/iotex-interop/db"
	"github.com/iotexproject/iotex-interop/pkg/log"
	"github.com/iotexproject/iotex-interop/state/factory"
)

type (
	// noToken is the token method of an offline tool, no fee is ever paid
	noToken struct{}

	chainAccountView struct {
		ChainID             string `yaml:"chainID"`
		Name                string `yaml:"name"`
		Status              string `yaml:"status"`
		Live                bool   `yaml:"live"`
		CertificateHeight   uint32 `yaml:"certificateHeight"`
		CertificateTime     uint32 `yaml:"certificateTimestamp"`
		StateRoot           string `yaml:"stateRoot"`
		ValidatorsHash      string `yaml:"validatorsHash"`
		InboxSize           uint32 `yaml:"inboxSize"`
		InboxRoot           string `yaml:"inboxRoot"`
		OutboxSize          uint32 `yaml:"outboxSize"`
		OutboxRoot          string `yaml:"outboxRoot"`
		PartnerOutboxRoot   string `yaml:"partnerChainOutboxRoot"`
		MessageFeeTokenID   string `yaml:"messageFeeTokenID"`
		MinReturnFeePerByte uint64 `yaml:"minReturnFeePerByte"`
	}
)

func (noToken) PayMessageFee(context.Context, protocol.StateManager, address.Address, uint64, []byte) error {
	return protocol.ErrUnimplemented
}

func (noToken) InitializeUserAccount(context.Context, protocol.StateManager, address.Address, []byte) error {
	return protocol.ErrUnimplemented
}

// openState opens the state factory configured by cfg, the caller stops it
func openState(ctx context.Context, cfg config.Config) (factory.Factory, *interop.Protocol, error) {
	store, err := db.CreateKVStore(cfg.DB, cfg.Chain.StateDBPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create state store")
	}
	p, err := interop.NewProtocol(cfg.Genesis.Interop, noToken{})
	if err != nil {
		return nil, nil, err
	}
	registry := protocol.NewRegistry()
	if err := registry.Register(protocol.InteroperabilityProtocolID, p); err != nil {
		return nil, nil, err
	}
	sf, err := factory.NewFactory(cfg.Factory, store, factory.RegistryOption(registry))
	if err != nil {
		return nil, nil, err
	}
	if err := sf.Start(ctx); err != nil {
		return nil, nil, err
	}
	return sf, p, nil
}

func stopState(ctx context.Context, sf factory.Factory) {
	if err := sf.Stop(ctx); err != nil {
		log.L().Error("Failed to stop state factory.", zap.Error(err))
	}
}

func newInitStateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init-state",
		Short: "Write the genesis interop states into an empty state db",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			sf, p, err := openState(ctx, cfg)
			if err != nil {
				return err
			}
			defer stopState(ctx, sf)

			height, err := sf.Height()
			if err != nil {
				return err
			}
			if height > 0 {
				return errors.Errorf("state db is already initialized at height %d", height)
			}
			ws, err := sf.NewWorkingSet(ctx)
			if err != nil {
				return err
			}
			genesisCtx := protocol.WithBlockCtx(ctx, protocol.BlockCtx{
				BlockHeight:    0,
				BlockTimeStamp: time.Unix(cfg.Genesis.Timestamp, 0),
			})
			if err := p.CreateGenesisStates(genesisCtx, ws); err != nil {
				return errors.Wrap(err, "failed to create genesis states")
			}
			if err := sf.Commit(ctx, ws); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "initialized %s with %d registered chains\n",
				cfg.Chain.StateDBPath, len(cfg.Genesis.Chains))
			return err
		},
	}
}

func newChainAccountCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "chain-account CHAIN_ID",
		Short: "Print the account and the channel of a partner chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, err := decodeHex(args[0])
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			sf, p, err := openState(ctx, cfg)
			if err != nil {
				return err
			}
			defer stopState(ctx, sf)

			acc, err := p.ChainAccount(sf, chainID)
			if err != nil {
				return err
			}
			channel, err := p.ChannelData(sf, chainID)
			if err != nil {
				return err
			}
			live, err := p.IsLive(protocol.WithBlockCtx(ctx, protocol.BlockCtx{
				BlockTimeStamp: time.Now(),
			}), sf, chainID)
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), &chainAccountView{
				ChainID:             hex.EncodeToString(chainID),
				Name:                acc.Name,
				Status:              acc.Status.String(),
				Live:                live,
				CertificateHeight:   acc.LastCertificate.Height,
				CertificateTime:     acc.LastCertificate.Timestamp,
				StateRoot:           hex.EncodeToString(acc.LastCertificate.StateRoot),
				ValidatorsHash:      hex.EncodeToString(acc.LastCertificate.ValidatorsHash),
				InboxSize:           channel.Inbox.Size,
				InboxRoot:           hex.EncodeToString(channel.Inbox.Root),
				OutboxSize:          channel.Outbox.Size,
				OutboxRoot:          hex.EncodeToString(channel.Outbox.Root),
				PartnerOutboxRoot:   hex.EncodeToString(channel.PartnerChainOutboxRoot),
				MessageFeeTokenID:   hex.EncodeToString(channel.MessageFeeTokenID),
				MinReturnFeePerByte: channel.MinReturnFeePerByte,
			})
		},
	}
}
