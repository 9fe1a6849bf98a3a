package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/cargofree/cargo-free/internal/observability"
)

// configErr holds a config file read failure from initConfig. It is
// reported by the command that needs the configuration.
var configErr error

// ConfigError marks failures to read or validate configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "invalid configuration: " + e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// ExitCodeFor maps a command error to a semantic foundry exit code.
func ExitCodeFor(err error) foundry.ExitCode {
	var cfgErr *ConfigError
	switch {
	case err == nil:
		return foundry.ExitCode(0)
	case errors.As(err, &cfgErr) && errors.Is(err, fs.ErrNotExist):
		return foundry.ExitFileNotFound
	case errors.As(err, &cfgErr):
		return foundry.ExitConfigInvalid
	default:
		return foundry.ExitFailure
	}
}

// Exit terminates the process for a failed command. Once serve has built
// its structured logger the failure is logged there with exit metadata.
func Exit(err error) {
	ExitWithCode(observability.ServerLogger, ExitCodeFor(err), "command failed", err)
}

// ExitWithCode logs err with exit code metadata and exits. logger may be nil.
func ExitWithCode(logger *logging.Logger, exitCode foundry.ExitCode, msg string, err error) {
	if logger == nil {
		ExitWithCodeStderr(exitCode, msg, err)
		return
	}
	os.Exit(logExit(logger, exitCode, msg, err))
}

// logExit records the failure on logger and returns the process exit status.
func logExit(logger *logging.Logger, exitCode foundry.ExitCode, msg string, err error) int {
	info, ok := foundry.GetExitCodeInfo(exitCode)
	if !ok {
		logger.Error(msg, zap.Int("exit_code", int(exitCode)), zap.Error(err))
		return int(exitCode)
	}

	logger.Error(msg,
		zap.Int("exit_code", info.Code),
		zap.String("exit_name", info.Name),
		zap.String("exit_category", info.Category),
		zap.Error(err),
	)
	return info.Code
}

// ExitWithCodeStderr writes a single failure line to stderr and exits.
// Use this for failures before or outside the logger.
func ExitWithCodeStderr(exitCode foundry.ExitCode, msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s: %v\n", BinaryName, msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "%s: %s\n", BinaryName, msg)
	}

	if info, ok := foundry.GetExitCodeInfo(exitCode); ok {
		if verbose {
			fmt.Fprintf(os.Stderr, "Exit Code: %d (%s) - %s\n", info.Code, info.Name, info.Description)
		}
		os.Exit(info.Code)
	}
	os.Exit(int(exitCode))
}
