package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var errAssignmentFailed = errors.New("assignment failed")

// reportedError has already been written to stderr.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func writeCommandError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())

	if isConnectionError(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Hint: check DATABASE_URL and REDIS_URL in .env.cli")
	}

	return reportedError{err}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connecting to database") ||
		strings.Contains(msg, "connecting to redis") ||
		strings.Contains(msg, "connection refused")
}
