package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/Flyrell/punchclock/internal/attendance"
	"github.com/Flyrell/punchclock/internal/ledger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "punchclock",
	Short:         "An attendance kiosk backed by a local SQLite ledger",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.punchclock/config.json)")
	rootCmd.PersistentFlags().String("db", "", "attendance database (overrides the config)")
	rootCmd.PersistentFlags().Bool("debug", false, "also write debug logs to stderr")

	rootCmd.AddCommand(punchInCmd)
	rootCmd.AddCommand(punchOutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(kioskCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// printError reports a failed command. Bad input is a warning; anything else
// is an error.
func printError(w io.Writer, err error) {
	var verr *attendance.ValidationError
	if errors.As(err, &verr) {
		_, _ = fmt.Fprintln(w, Warning(userMessage(err, "")))
		return
	}
	_, _ = fmt.Fprintln(w, Error("error: "+userMessage(err, "")))
}

// userMessage renders err the way the kiosk speaks to an employee.
func userMessage(err error, name string) string {
	switch {
	case errors.Is(err, attendance.ErrEmptyName):
		return "Please enter your Name."
	case errors.Is(err, attendance.ErrAlreadyPunchedIn):
		return name + ", you have already punched in today."
	case errors.Is(err, attendance.ErrAlreadyPunchedOut):
		return name + ", you have already punched out today."
	case errors.Is(err, attendance.ErrNotPunchedInYet):
		return "You have not punched in yet today. Please punch in first."
	case errors.Is(err, ledger.ErrDuplicateRecord):
		return "Another punch in for " + nameOr(name, "this employee") + " was recorded at the same moment. Please try again."
	case errors.Is(err, ledger.ErrRecordNotFound):
		return "Today's record for " + nameOr(name, "this employee") + " changed while punching out. Please try again."
	}
	return err.Error()
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// Root returns the command tree, for documentation tooling.
func Root() *cobra.Command { return rootCmd }
