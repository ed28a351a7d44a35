package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL needs. App satisfies it; tests
// provide a stub.
type execIface interface {
	SetKey(ctx context.Context) error
	Reset(ctx context.Context) error
	Skip(ctx context.Context) error
	Status(ctx context.Context) error
	Put(ctx context.Context, name string) error
	Get(ctx context.Context, name string) error
}

const helpText = "Available commands: set, reset, skip, status, put <name>, get <name>, exit"

// runREPL reads commands line by line and dispatches them to a until EOF,
// "exit" or "quit". Handler errors are reported by the handlers themselves.
// Handlers that prompt for more input read from the same reader.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("kg %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		switch cmd {
		case "help":
			printlnFn(helpText)
		case "set":
			_ = a.SetKey(ctx)
		case "reset":
			_ = a.Reset(ctx)
		case "skip":
			_ = a.Skip(ctx)
		case "status":
			_ = a.Status(ctx)
		case "put":
			_ = a.Put(ctx, arg)
		case "get":
			_ = a.Get(ctx, arg)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
