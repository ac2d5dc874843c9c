// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"strings"

	"github.com/Fantom-foundation/codec/go/codec"
	"github.com/Fantom-foundation/codec/go/codec/decode"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const envPrefix = "CODEC"

type configFileFlagType struct {
	cli.StringFlag
}

var ConfigFileFlag = &configFileFlagType{
	cli.StringFlag{
		Name:      "config",
		Aliases:   []string{"c"},
		Usage:     "YAML file with default settings",
		TakesFile: true,
	},
}

func (f *configFileFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type modeFlagType struct {
	cli.StringFlag
}

var ModeFlag = &modeFlagType{
	cli.StringFlag{
		Name:  "mode",
		Usage: "decoding mode, full or abi",
		Value: format.ModeFull.String(),
	},
}

type paddingFlagType struct {
	cli.StringFlag
}

var PaddingFlag = &paddingFlagType{
	cli.StringFlag{
		Name:  "padding",
		Usage: "padding check, one of default, permissive, zero, right",
		Value: decode.DefaultPadding.String(),
	},
}

type strictFlagType struct {
	cli.BoolFlag
}

var StrictFlag = &strictFlagType{
	cli.BoolFlag{
		Name:  "strict",
		Usage: "abort on the first value that can not be decoded",
	},
}

type cacheSizeFlagType struct {
	cli.IntFlag
}

var CacheSizeFlag = &cacheSizeFlagType{
	cli.IntFlag{
		Name:  "code-cache-size",
		Usage: "number of contract codes kept in memory, negative to disable",
		Value: codec.DefaultConfig().CodeCacheSize,
	},
}

type debugFlagType struct {
	cli.BoolFlag
}

var DebugFlag = &debugFlagType{
	cli.BoolFlag{
		Name:  "debug",
		Usage: "enable debug logging",
	},
}

// settings loads the options of a command. Explicitly set flags take
// precedence over CODEC_* environment variables, which take precedence over
// the config file and flag defaults.
func settings(context *cli.Context) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if file := ConfigFileFlag.Fetch(context); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetDefault(ModeFlag.Name, ModeFlag.Value)
	v.SetDefault(PaddingFlag.Name, PaddingFlag.Value)
	v.SetDefault(StrictFlag.Name, false)
	v.SetDefault(CacheSizeFlag.Name, CacheSizeFlag.Value)
	v.SetDefault(DebugFlag.Name, false)

	for _, name := range []string{ModeFlag.Name, PaddingFlag.Name, StrictFlag.Name, CacheSizeFlag.Name, DebugFlag.Name} {
		if context.IsSet(name) {
			v.Set(name, context.Value(name))
		}
	}
	return v, nil
}

func decoderConfig(v *viper.Viper) (codec.Config, error) {
	config := codec.DefaultConfig()
	switch mode := v.GetString(ModeFlag.Name); mode {
	case format.ModeFull.String():
		config.Mode = format.ModeFull
	case format.ModeAbi.String():
		config.Mode = format.ModeAbi
	default:
		return codec.Config{}, fmt.Errorf("unknown mode %q", mode)
	}
	padding, err := parsePadding(v.GetString(PaddingFlag.Name))
	if err != nil {
		return codec.Config{}, err
	}
	config.Padding = padding
	config.Strict = v.GetBool(StrictFlag.Name)
	config.CodeCacheSize = v.GetInt(CacheSizeFlag.Name)
	return config, nil
}

func parsePadding(name string) (decode.PaddingMode, error) {
	for _, mode := range []decode.PaddingMode{decode.DefaultPadding, decode.PermissivePadding, decode.ZeroPadding, decode.RightPadding} {
		if mode.String() == name {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("unknown padding mode %q", name)
}

func newLogger(v *viper.Viper) (*zap.Logger, error) {
	if v.GetBool(DebugFlag.Name) {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
