package cli

import (
	"context"
	"os"
)

// Root runs the REPL on the app's reader. The banner and prompt are only
// printed when stdin is a terminal, so piped scripts get clean output.
func (a *App) Root(ctx context.Context) {
	interactive := isTerminal(int(os.Stdin.Fd()))
	if interactive {
		printlnFn("Welcome to the travel journal (type 'help' for commands)")
	}
	runREPL(ctx, a, a.getStatus, a.reader, interactive)
}
