// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iotexproject/iotex-interop/action"
	"github.com/iotexproject/iotex-interop/pkg/hash"
)

type (
	ccmView struct {
		ID               string `yaml:"id"`
		Module           string `yaml:"module,omitempty"`
		Command          string `yaml:"command,omitempty"`
		Nonce            uint64 `yaml:"nonce"`
		Fee              uint64 `yaml:"fee"`
		SendingChainID   string `yaml:"sendingChainID,omitempty"`
		ReceivingChainID string `yaml:"receivingChainID,omitempty"`
		Params           string `yaml:"params,omitempty"`
		Status           string `yaml:"status,omitempty"`
		Invalid          string `yaml:"invalid,omitempty"`
	}

	certificateView struct {
		BlockID         string `yaml:"blockID"`
		Height          uint32 `yaml:"height"`
		Timestamp       uint32 `yaml:"timestamp"`
		StateRoot       string `yaml:"stateRoot"`
		ValidatorsHash  string `yaml:"validatorsHash"`
		AggregationBits string `yaml:"aggregationBits"`
		Signature       string `yaml:"signature"`
	}

	ccuView struct {
		SendingChainID         string           `yaml:"sendingChainID"`
		Certificate            *certificateView `yaml:"certificate,omitempty"`
		BLSKeysUpdate          []string         `yaml:"blsKeysUpdate,omitempty"`
		BFTWeightsUpdate       []uint64         `yaml:"bftWeightsUpdate,omitempty"`
		BFTWeightsUpdateBitmap string           `yaml:"bftWeightsUpdateBitmap,omitempty"`
		CertificateThreshold   uint64           `yaml:"certificateThreshold"`
		CrossChainMessages     []*ccmView       `yaml:"crossChainMessages,omitempty"`
		MessageWitnessHashes   []string         `yaml:"messageWitnessHashes,omitempty"`
		OutboxRootBitmap       string           `yaml:"outboxRootBitmap,omitempty"`
		OutboxRootSiblings     []string         `yaml:"outboxRootSiblings,omitempty"`
	}
)

func newCCMView(raw []byte) *ccmView {
	ccm := &action.CrossChainMessage{}
	if err := ccm.Deserialize(raw); err != nil {
		return &ccmView{
			ID:      hex.EncodeToString(hash.Hash256b(raw)),
			Params:  hex.EncodeToString(raw),
			Invalid: err.Error(),
		}
	}
	v := &ccmView{
		ID:               hex.EncodeToString(ccm.ID()),
		Module:           ccm.Module,
		Command:          ccm.CrossChainCommand,
		Nonce:            ccm.Nonce,
		Fee:              ccm.Fee,
		SendingChainID:   hex.EncodeToString(ccm.SendingChainID),
		ReceivingChainID: hex.EncodeToString(ccm.ReceivingChainID),
		Params:           hex.EncodeToString(ccm.Params),
		Status:           ccm.Status.String(),
	}
	if err := ccm.ValidateFormat(); err != nil {
		v.Invalid = err.Error()
	}
	return v
}

func newCertificateView(raw []byte) (*certificateView, error) {
	cert := &action.Certificate{}
	if err := cert.Deserialize(raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode certificate")
	}
	return &certificateView{
		BlockID:         hex.EncodeToString(cert.BlockID),
		Height:          cert.Height,
		Timestamp:       cert.Timestamp,
		StateRoot:       hex.EncodeToString(cert.StateRoot),
		ValidatorsHash:  hex.EncodeToString(cert.ValidatorsHash),
		AggregationBits: hex.EncodeToString(cert.AggregationBits),
		Signature:       hex.EncodeToString(cert.Signature),
	}, nil
}

func newCCUView(raw []byte) (*ccuView, error) {
	ccu := &action.CrossChainUpdate{}
	if err := ccu.Deserialize(raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode cross-chain update")
	}
	v := &ccuView{
		SendingChainID:         hex.EncodeToString(ccu.SendingChainID),
		BLSKeysUpdate:          hexes(ccu.ActiveValidatorsUpdate.BLSKeysUpdate),
		BFTWeightsUpdate:       ccu.ActiveValidatorsUpdate.BFTWeightsUpdate,
		BFTWeightsUpdateBitmap: hex.EncodeToString(ccu.ActiveValidatorsUpdate.BFTWeightsUpdateBitmap),
		CertificateThreshold:   ccu.CertificateThreshold,
		MessageWitnessHashes:   hexes(ccu.InboxUpdate.MessageWitnessHashes),
		OutboxRootBitmap:       hex.EncodeToString(ccu.InboxUpdate.OutboxRootWitness.Bitmap),
		OutboxRootSiblings:     hexes(ccu.InboxUpdate.OutboxRootWitness.SiblingHashes),
	}
	if len(ccu.Certificate) > 0 {
		cert, err := newCertificateView(ccu.Certificate)
		if err != nil {
			return nil, err
		}
		v.Certificate = cert
	}
	for _, msg := range ccu.InboxUpdate.CrossChainMessages {
		v.CrossChainMessages = append(v.CrossChainMessages, newCCMView(msg))
	}
	return v, nil
}

func newDecodeCmd() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a hex encoded cross-chain payload",
	}
	decodeCmd.AddCommand(
		&cobra.Command{
			Use:   "ccm HEX",
			Short: "Decode a cross-chain message",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := decodeHex(args[0])
				if err != nil {
					return err
				}
				return printYAML(cmd.OutOrStdout(), newCCMView(raw))
			},
		},
		&cobra.Command{
			Use:   "ccu HEX",
			Short: "Decode a cross-chain update",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := decodeHex(args[0])
				if err != nil {
					return err
				}
				v, err := newCCUView(raw)
				if err != nil {
					return err
				}
				return printYAML(cmd.OutOrStdout(), v)
			},
		},
		&cobra.Command{
			Use:   "certificate HEX",
			Short: "Decode a certificate",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw, err := decodeHex(args[0])
				if err != nil {
					return err
				}
				v, err := newCertificateView(raw)
				if err != nil {
					return err
				}
				return printYAML(cmd.OutOrStdout(), v)
			},
		},
	)
	return decodeCmd
}

func newCCMIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ccmid HEX",
		Short: "Print the ID of an encoded cross-chain message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := decodeHex(args[0])
			if err != nil {
				return err
			}
			ccm := &action.CrossChainMessage{}
			if err := ccm.Deserialize(raw); err != nil {
				return errors.Wrap(err, "failed to decode cross-chain message")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(ccm.ID()))
			return err
		},
	}
}
