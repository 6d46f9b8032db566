package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Flyrell/punchclock/internal/attendance"
	"github.com/Flyrell/punchclock/internal/kiosk"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	kioskChoicePunchIn = iota
	kioskChoicePunchOut
	kioskChoiceQuit
)

var kioskChoices = []string{"Punch In", "Punch Out", "Quit"}

var kioskCmd = LeafCommand{
	Use:   "kiosk",
	Short: "Run the interactive punch-in/punch-out terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = sess.Close() }()
		return runKiosk(commandContext(cmd), cmd.OutOrStdout(), sess.service, NewPromptKit(), stdinIsTerminal)
	},
}.Build()

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// runKiosk asks for a name and an action until the user quits. A failed
// action is reported and the loop continues.
func runKiosk(ctx context.Context, w io.Writer, svc *kiosk.Service, kit PromptKit, isTTY func() bool) error {
	if !isTTY() {
		return errors.New("kiosk mode needs an interactive terminal; use 'punchclock in' and 'punchclock out' instead")
	}

	_, _ = fmt.Fprintln(w, Primary("Attendance kiosk")+"  "+Silent(svc.Today().String()))

	for {
		if ctx.Err() != nil {
			return nil
		}

		name, err := kit.Prompt("Employee name")
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		name, err = attendance.NormalizeName(name)
		if err != nil {
			printError(w, err)
			continue
		}

		choice, err := kit.Select("Hello "+name, kioskChoices)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		var action kiosk.Action
		switch choice {
		case kioskChoicePunchIn:
			action = kiosk.ActionPunchIn
		case kioskChoicePunchOut:
			action = kiosk.ActionPunchOut
		case kioskChoiceQuit:
			return nil
		default:
			continue
		}

		if err := runPunch(ctx, w, svc, action, name); err != nil {
			_, _ = fmt.Fprintln(w, Error(userMessage(err, name)))
		}
		_, _ = fmt.Fprintln(w)
	}
}
