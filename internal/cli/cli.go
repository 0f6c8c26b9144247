/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cli holds the settings and error conventions shared by dtref commands.
package cli

import (
	"errors"
	iofs "io/fs"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/dtref/config"
	"bennypowers.dev/dtref/fs"
	"bennypowers.dev/dtref/internal/logger"
	"bennypowers.dev/dtref/load"
	"bennypowers.dev/dtref/reference"
)

// EnvPrefix prefixes environment variables, e.g. DTREF_SEPARATOR.
const EnvPrefix = "DTREF"

// Viper keys of the global flags.
const (
	KeyConfig      = "config"
	KeyLogLevel    = "log_level"
	KeyOpen        = "open"
	KeyClose       = "close"
	KeySeparator   = "separator"
	KeyValueMarker = "value_marker"
	KeyAllErrors   = "all_errors"
)

// Env is what commands run against.
type Env struct {
	Viper *viper.Viper
	FS    fs.FileSystem
	Root  string
}

// NewEnv returns an Env for the working directory, reading DTREF_* variables.
func NewEnv() *Env {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &Env{Viper: v, FS: fs.NewOSFileSystem(), Root: "."}
}

// BindGlobalFlags defines the persistent flags of the root command.
func (e *Env) BindGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "Config file (default: .config/dtref.{yaml,yml,json})")
	flags.String("log-level", "info", "Log level: debug, info, warn, error, disabled")
	flags.String("open", "", "Opening characters of a reference (default \"{\")")
	flags.String("close", "", "Closing characters of a reference (default \"}\")")
	flags.String("separator", "", "Separator between path segments in references (default \".\")")
	flags.String("value-marker", "", "Key that marks a token (default: auto-detect $value or value)")

	_ = e.Viper.BindPFlag(KeyConfig, flags.Lookup("config"))
	_ = e.Viper.BindPFlag(KeyLogLevel, flags.Lookup("log-level"))
	_ = e.Viper.BindPFlag(KeyOpen, flags.Lookup("open"))
	_ = e.Viper.BindPFlag(KeyClose, flags.Lookup("close"))
	_ = e.Viper.BindPFlag(KeySeparator, flags.Lookup("separator"))
	_ = e.Viper.BindPFlag(KeyValueMarker, flags.Lookup("value-marker"))
}

// SetupLogging applies the configured log level.
func (e *Env) SetupLogging() error {
	if err := logger.SetLevel(e.Viper.GetString(KeyLogLevel)); err != nil {
		return InvalidArgument("invalid --log-level", err)
	}
	return nil
}

// Config loads the config named by --config, or searches the root for one.
// A missing default config yields config.Default().
func (e *Env) Config() (*config.Config, error) {
	if path := e.Viper.GetString(KeyConfig); path != "" {
		if !e.FS.Exists(path) {
			return nil, NotFound("config file "+path+" does not exist", nil)
		}
		cfg, err := config.LoadFile(e.FS, path)
		if err != nil {
			return nil, InvalidArgument("failed to read config file", err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(e.FS, e.Root)
	if err != nil {
		return nil, InvalidArgument("failed to read config file", err)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, nil
}

// LoadOptions returns load options for cfg with flag and environment
// overrides applied.
func (e *Env) LoadOptions(cfg *config.Config) load.Options {
	return load.Options{
		Root:   e.Root,
		FS:     e.FS,
		Config: cfg,
		Reference: reference.Options{
			OpeningCharacter: e.Viper.GetString(KeyOpen),
			ClosingCharacter: e.Viper.GetString(KeyClose),
			Separator:        e.Viper.GetString(KeySeparator),
		},
		ValueMarker: e.Viper.GetString(KeyValueMarker),
		AllErrors:   e.Viper.GetBool(KeyAllErrors),
	}
}

// ReferenceOptions returns the effective reference syntax for cfg.
func (e *Env) ReferenceOptions(cfg *config.Config) reference.Options {
	ref := cfg.Reference
	if open := e.Viper.GetString(KeyOpen); open != "" {
		ref.OpeningCharacter = open
	}
	if closing := e.Viper.GetString(KeyClose); closing != "" {
		ref.ClosingCharacter = closing
	}
	if sep := e.Viper.GetString(KeySeparator); sep != "" {
		ref.Separator = sep
	}
	return ref.WithDefaults()
}

// InvalidArgument builds an error for bad flags, arguments or config.
func InvalidArgument(msg string, cause error) error {
	return build(errbuilder.CodeInvalidArgument, msg, cause)
}

// NotFound builds an error for missing files, tokens or variants.
func NotFound(msg string, cause error) error {
	return build(errbuilder.CodeNotFound, msg, cause)
}

// FailedPrecondition builds an error for token sets that fail to resolve or validate.
func FailedPrecondition(msg string, cause error) error {
	return build(errbuilder.CodeFailedPrecondition, msg, cause)
}

func build(code errbuilder.ErrCode, msg string, cause error) error {
	if cause == nil {
		return errbuilder.New().WithCode(code).WithMsg(msg)
	}
	return errbuilder.New().
		WithCode(code).
		WithMsg(msg + ": " + cause.Error()).
		WithCause(cause)
}

// LoadError classifies an error from the load package.
func LoadError(err error) error {
	switch {
	case errors.Is(err, load.ErrNoFiles), errors.Is(err, load.ErrUnknownVariant), errors.Is(err, iofs.ErrNotExist):
		return NotFound("failed to load tokens", err)
	case errors.Is(err, reference.ErrInvalidPath):
		return InvalidArgument("invalid token file", err)
	default:
		return FailedPrecondition("failed to resolve tokens", err)
	}
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 3
	case errbuilder.CodeNotFound:
		return 4
	default:
		return 1
	}
}

// Message returns the message of a built error, or err.Error().
func Message(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
