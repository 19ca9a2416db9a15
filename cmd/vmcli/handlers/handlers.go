// Package handlers implements the command logic behind the cobra layer.
//
// Each handler resolves the effective configuration, builds the provider
// adapter, runs the lifecycle operation and renders the result. Collaborators
// are bound through package-level function variables so tests can inject
// fakes.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/vmcli/vmcli/internal/config"
	"github.com/vmcli/vmcli/internal/logging"
	"github.com/vmcli/vmcli/internal/output"
	"github.com/vmcli/vmcli/internal/provider"
	"github.com/vmcli/vmcli/internal/provider/factory"
)

// Factory function variables shared across handlers - replaced in tests.
var (
	resolveConfig = config.Resolve
	resolveGlobal = config.ResolveGlobal
	newProvider   = factory.New
	confirm       = askConfirm
)

// errAborted ends a command whose confirmation was declined.
var errAborted = errors.New("aborted")

// askConfirm runs an interactive yes/no prompt. Without a terminal the
// prompt would block forever, so the caller is told to pass -f instead.
func askConfirm(title string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false, fmt.Errorf("%w: stdin is not a terminal, pass -f to confirm", config.ErrInvalid)
	}
	var ok bool
	if err := huh.NewConfirm().Title(title).Value(&ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// outputMode resolves the -o flag and its --json shorthand. An explicit -o
// wins over --json.
func outputMode(format string, jsonShorthand bool) (output.Mode, error) {
	if format == "" && jsonShorthand {
		return output.ModeJSON, nil
	}
	mode, err := output.ParseMode(format)
	if err != nil {
		return "", fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	return mode, nil
}

// logIdentity names the provider account a mutating command is about to act
// on, where the adapter can report it cheaply. A failed identity read never
// blocks the operation; the operation's own call will fail with a better
// error.
func logIdentity(ctx context.Context, p provider.Provider) {
	reporter, ok := p.(provider.AccountReporter)
	if !ok {
		return
	}
	id, err := reporter.Identity(ctx)
	if err != nil {
		logging.L().WithError(err).Debug("Could not read provider identity")
		return
	}
	logging.L().WithFields(logrus.Fields{"provider": p.Name(), "account": id}).Info("Acting on account")
}
