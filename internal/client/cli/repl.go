package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Add(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, text string) error
	Filter(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Sync(ctx context.Context) error
	Status(ctx context.Context) error
}

const helpText = "Available commands: add, (l)ist, search <text>, filter, show <id>, edit <id>, delete <id>, clear, sync, status, exit"

// runREPL reads a line from reader, parses the first token as the command and
// dispatches to a. Commands taking an id print their usage when it is
// missing. Handler errors are printed and the loop goes on. The loop exits on
// EOF or when the user types "exit" or "quit".
//
// The prompt shows the current status (from statusFn) when prompt is true.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, prompt bool) {
	for {
		if ctx.Err() != nil {
			return
		}
		if prompt {
			printlnFn(fmt.Sprintf("journal %s > ", statusFn()))
		}

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		withID := func(usage string, fn func(ctx context.Context, id string) error) error {
			if len(args) == 0 {
				printlnFn("Usage:", usage)
				return nil
			}
			return fn(ctx, args[0])
		}

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "add":
			cmdErr = a.Add(ctx)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "search":
			if len(args) == 0 {
				printlnFn("Usage:", "search <text>")
				break
			}
			cmdErr = a.Search(ctx, strings.Join(args, " "))

		case "filter":
			cmdErr = a.Filter(ctx)

		case "show":
			cmdErr = withID("show <id>", a.Show)

		case "edit":
			cmdErr = withID("edit <id>", a.Edit)

		case "delete":
			cmdErr = withID("delete <id>", a.Delete)

		case "clear":
			cmdErr = a.Clear(ctx)

		case "sync":
			cmdErr = a.Sync(ctx)

		case "status":
			cmdErr = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
