// Copyright (c) 2026 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package log

import (
	"log"
	"sync"

	"go.elastic.co/ecszap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GlobalConfig defines the global logger configurations.
type GlobalConfig struct {
	Zap            *zap.Config           `json:"zap" yaml:"zap"`
	SubLogs        map[string]zap.Config `json:"subLogs" yaml:"subLogs"`
	RedirectStdLog bool                  `json:"stdLogRedirect" yaml:"stdLogRedirect"`
	EcsIntegration bool                  `json:"ecsIntegration" yaml:"ecsIntegration"`
}

var (
	_logMu      sync.RWMutex
	_subLoggers = map[string]*zap.Logger{}
)

func init() {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapCfg.Level.SetLevel(zap.InfoLevel)
	l, err := zapCfg.Build()
	if err != nil {
		log.Println("Failed to init zap global logger, no zap log will be shown till zap is properly initialized: ", err)
		return
	}
	zap.ReplaceGlobals(l)
}

// L wraps zap.L().
func L() *zap.Logger { return zap.L() }

// S wraps zap.S().
func S() *zap.SugaredLogger { return zap.S() }

// Logger returns logger of the given name, falling back to the global one
func Logger(name string) *zap.Logger {
	_logMu.RLock()
	logger, ok := _subLoggers[name]
	_logMu.RUnlock()
	if !ok {
		return L().Named(name)
	}
	return logger
}

// InitLoggers initializes the global logger and other sub loggers.
func InitLoggers(globalCfg GlobalConfig) error {
	if globalCfg.Zap == nil {
		zapCfg := zap.NewProductionConfig()
		globalCfg.Zap = &zapCfg
	}
	logger, err := build(*globalCfg.Zap, globalCfg.EcsIntegration)
	if err != nil {
		return err
	}
	subLoggers := make(map[string]*zap.Logger, len(globalCfg.SubLogs))
	for name, cfg := range globalCfg.SubLogs {
		sub, err := build(cfg, globalCfg.EcsIntegration)
		if err != nil {
			return err
		}
		subLoggers[name] = sub.Named(name)
	}
	if globalCfg.RedirectStdLog {
		zap.RedirectStdLog(logger)
	}
	zap.ReplaceGlobals(logger)

	_logMu.Lock()
	_subLoggers = subLoggers
	_logMu.Unlock()
	return nil
}

// build builds a logger, in the Elastic Common Schema layout if ecs is set
func build(cfg zap.Config, ecs bool) (*zap.Logger, error) {
	if !ecs {
		return cfg.Build()
	}
	cfg.EncoderConfig = ecszap.ECSCompatibleEncoderConfig(cfg.EncoderConfig)
	return cfg.Build(ecszap.WrapCoreOption(), zap.AddCaller())
}
