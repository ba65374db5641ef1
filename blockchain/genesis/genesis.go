// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package genesis

import (
	"bytes"
	"encoding/hex"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/config"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/iotexproject/iotex-interop/action"
	"github.com/iotexproject/iotex-interop/pkg/hash"
	"github.com/iotexproject/iotex-interop/pkg/log"
)

// Default contains the default genesis config
var Default = defaultConfig()

var (
	genesisTs     int64
	loadGenesisTs sync.Once
)

func defaultConfig() Genesis {
	return Genesis{
		Blockchain: Blockchain{
			Timestamp: 1546329600,
		},
		Interop: Interop{
			ChainID:       "04000000",
			ChainName:     "mainchain",
			LivenessLimit: 2592000,
		},
	}
}

type (
	// Genesis is the root level of genesis config. Genesis config is the network-wide blockchain config. All the nodes
	// participating into the same network should use EXACTLY SAME genesis config.
	Genesis struct {
		Blockchain `yaml:"blockchain"`
		Interop    `yaml:"interop"`
	}
	// Blockchain contains blockchain level configs
	Blockchain struct {
		// Timestamp is the timestamp of the genesis block
		Timestamp int64 `yaml:"timestamp"`
	}
	// Interop contains the configs of the interoperability protocol
	Interop struct {
		// ChainID is the hex encoded ID of this chain
		ChainID string `yaml:"chainID"`
		// ChainName is the name of this chain
		ChainName string `yaml:"chainName"`
		// LivenessLimit is the number of seconds a chain may go without a new certificate
		LivenessLimit uint32 `yaml:"livenessLimit"`
		// Chains are the partner chains registered at genesis
		Chains []Chain `yaml:"chains"`
	}
	// Chain is a partner chain registered at genesis
	Chain struct {
		ChainID              string      `yaml:"chainID"`
		Name                 string      `yaml:"name"`
		Validators           []Validator `yaml:"validators"`
		CertificateThreshold uint64      `yaml:"certificateThreshold"`
		MessageFeeTokenID    string      `yaml:"messageFeeTokenID"`
		MinReturnFeePerByte  uint64      `yaml:"minReturnFeePerByte"`
		// Certificate is the last certificate known at genesis. If left empty the chain is registered with
		// the registration block timestamp.
		Certificate GenesisCertificate `yaml:"certificate"`
	}
	// Validator is a BFT validator of a partner chain
	Validator struct {
		BLSKey    string `yaml:"blsKey"`
		BFTWeight uint64 `yaml:"bftWeight"`
	}
	// GenesisCertificate is the certificate a partner chain is registered with
	GenesisCertificate struct {
		Height    uint32 `yaml:"height"`
		Timestamp uint32 `yaml:"timestamp"`
		StateRoot string `yaml:"stateRoot"`
	}
)

// New constructs a genesis config. It loads the default values, and could be overwritten by values defined in the yaml
// config files
func New(genesisPath string) (Genesis, error) {
	def := defaultConfig()

	opts := make([]config.YAMLOption, 0)
	opts = append(opts, config.Static(def))
	if genesisPath != "" {
		opts = append(opts, config.File(genesisPath))
	}
	yaml, err := config.NewYAML(opts...)
	if err != nil {
		return Genesis{}, errors.Wrap(err, "error when constructing a genesis in yaml")
	}

	var genesis Genesis
	if err := yaml.Get(config.Root).Populate(&genesis); err != nil {
		return Genesis{}, errors.Wrap(err, "failed to unmarshal yaml genesis to struct")
	}
	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}
	log.L().Info("Genesis loaded.",
		zap.String("chainID", genesis.ChainID),
		zap.Int("chains", len(genesis.Chains)))
	return genesis, nil
}

// SetGenesisTimestamp sets the genesis timestamp
func SetGenesisTimestamp(ts int64) {
	loadGenesisTs.Do(func() {
		atomic.StoreInt64(&genesisTs, ts)
	})
}

// Timestamp returns the genesis timestamp
func Timestamp() int64 {
	return atomic.LoadInt64(&genesisTs)
}

// Hash is the hash of genesis config
func (g *Genesis) Hash() []byte {
	data, err := yaml.Marshal(g)
	if err != nil {
		log.L().Panic("Error when marshaling genesis.", zap.Error(err))
	}
	return hash.Hash256b(data)
}

// Validate checks the interop section of the genesis
func (g *Genesis) Validate() error {
	own, err := g.Interop.OwnChainID()
	if err != nil {
		return err
	}
	if !action.IsValidName(g.ChainName, action.MinChainNameLength, action.MaxChainNameLength) {
		return errors.Errorf("invalid chain name %q", g.ChainName)
	}
	if g.LivenessLimit == 0 {
		return errors.New("liveness limit must be positive")
	}
	seen := make(map[string]bool)
	for i := range g.Chains {
		c := &g.Chains[i]
		id, err := c.ID()
		if err != nil {
			return err
		}
		if bytes.Equal(id, own) {
			return errors.Errorf("chain %s cannot register itself", c.ChainID)
		}
		if seen[c.ChainID] {
			return errors.Errorf("chain %s is registered twice", c.ChainID)
		}
		seen[c.ChainID] = true
		if !action.IsValidName(c.Name, action.MinChainNameLength, action.MaxChainNameLength) {
			return errors.Errorf("invalid name %q of chain %s", c.Name, c.ChainID)
		}
		if _, err := c.FeeTokenID(); err != nil {
			return err
		}
		if _, _, err := c.ValidatorKeys(); err != nil {
			return err
		}
		if _, err := c.StateRoot(); err != nil {
			return err
		}
	}
	return nil
}

// OwnChainID returns the decoded ID of this chain
func (i *Interop) OwnChainID() ([]byte, error) {
	return decodeHex("chain ID", i.ChainID, action.ChainIDLength)
}

// IsMainchain returns true if this chain is the mainchain of its network
func (i *Interop) IsMainchain() bool {
	own, err := i.OwnChainID()
	if err != nil {
		return false
	}
	return bytes.Equal(own, action.MainchainID(own))
}

// ID returns the decoded chain ID
func (c *Chain) ID() ([]byte, error) {
	return decodeHex("chain ID", c.ChainID, action.ChainIDLength)
}

// FeeTokenID returns the decoded message fee token ID
func (c *Chain) FeeTokenID() ([]byte, error) {
	return decodeHex("message fee token ID", c.MessageFeeTokenID, action.TokenIDLength)
}

// StateRoot returns the decoded state root of the genesis certificate, empty hash if absent
func (c *Chain) StateRoot() ([]byte, error) {
	if c.Certificate.StateRoot == "" {
		return hash.EmptyHash, nil
	}
	return decodeHex("state root", c.Certificate.StateRoot, action.HashLength)
}

// ValidatorKeys returns the decoded BLS keys and weights of the validators
func (c *Chain) ValidatorKeys() ([][]byte, []uint64, error) {
	keys := make([][]byte, 0, len(c.Validators))
	weights := make([]uint64, 0, len(c.Validators))
	for _, v := range c.Validators {
		key, err := decodeHex("BLS key", v.BLSKey, action.BLSPublicKeyLength)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "chain %s", c.ChainID)
		}
		keys = append(keys, key)
		weights = append(weights, v.BFTWeight)
	}
	return keys, weights, nil
}

func decodeHex(field, s string, length int) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s %s", field, s)
	}
	if len(b) != length {
		return nil, errors.Errorf("%s %s has length %d, expecting %d", field, s, len(b), length)
	}
	return b, nil
}
