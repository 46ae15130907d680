package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fair-research/concierge-cli/constants"
	"github.com/fair-research/concierge-cli/lib/apierrors"
	"github.com/fair-research/concierge-cli/lib/console"
	"github.com/urfave/cli/v2"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitError    = 1
	ExitUsage    = 2
	ExitNotLogin = 3
)

type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func onUsageError(_ *cli.Context, err error, _ bool) error {
	return cli.Exit(console.Error("%s", err), ExitUsage)
}

// Wrap a command action so its error carries an exit code.
func run(action cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		return exitError(action(c))
	}
}

func exitError(err error) error {
	if err == nil {
		return nil
	}

	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return err
	}

	var usage *usageError
	var lr *apierrors.LoginRequiredError
	var ce *apierrors.ConciergeError
	var te *apierrors.TransportError
	switch {
	case errors.As(err, &usage):
		return cli.Exit(console.Error("%s", usage.msg), ExitUsage)
	case errors.As(err, &lr):
		console.Verbose("Login required: %s", lr)
		return cli.Exit(console.Error(constants.ErrMsgNotAuthenticated), ExitNotLogin)
	case errors.As(err, &ce):
		return cli.Exit(console.Error("%s", describe(err, ce)), ExitError)
	case errors.As(err, &te):
		return cli.Exit(console.Error("%s", te), ExitError)
	default:
		return cli.Exit(console.Error("%s", err), ExitError)
	}
}

// ExitCode maps an error returned by the app to a process exit code. Errors
// without a code never reached the exit handler, so they are printed here.
func ExitCode(err error, errOut io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	fmt.Fprintln(errOut, err)
	return ExitError
}

func describe(err error, ce *apierrors.ConciergeError) string {
	if errors.Is(ce, apierrors.ErrMalformedResponse) {
		return fmt.Sprintf("The server returned an unreadable response (status %d)", ce.Status)
	}
	msg := err.Error()
	fields := ce.Fields()
	if len(fields) < 2 {
		return msg
	}

	// One line per field instead of the joined message.
	head := *ce
	head.Message = ""
	var b strings.Builder
	b.WriteString(head.Error())
	for _, f := range fields {
		fmt.Fprintf(&b, "\n  %s: %s", f, strings.Join(ce.Errors[f], ", "))
	}
	return b.String()
}
