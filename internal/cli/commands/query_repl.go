package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/hurley/pkg/adapter"
	"github.com/leapstack-labs/hurley/pkg/db"
)

func runQueryREPL(cmd *cobra.Command, path string, opts db.Options, format string) error {
	conn, err := db.Connect(path, opts)
	if err != nil {
		return err
	}
	defer func() {
		if !conn.Closed() {
			_ = conn.Close()
		}
	}()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "hurley> ",
		HistoryFile:     "/tmp/hurley_history",
		AutoComplete:    newCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Hurley REPL (backend: %s, source: %s)\n", backendName(opts), path)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt("hurley> ")
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if handled := handleDotCommand(cmd, conn, line); handled {
				if line == ".quit" || line == ".exit" {
					break
				}
				continue
			}
		}

		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			multiLineBuffer.WriteString(" ")
			rl.SetPrompt("   ...> ")
			continue
		}
		rl.SetPrompt("hurley> ")

		query := strings.TrimSuffix(multiLineBuffer.String(), ";")
		multiLineBuffer.Reset()

		if err := executeAndRender(cmd, conn, query, format); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return conn.Commit()
}

func executeAndRender(cmd *cobra.Command, conn *db.Connection, query, format string) error {
	cursor, err := conn.Execute(query)
	if err != nil {
		return err
	}
	defer func() { _ = cursor.Close() }()
	return renderCursor(cmd.OutOrStdout(), cursor, format)
}

func handleDotCommand(cmd *cobra.Command, conn *db.Connection, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())
		return true

	case ".adapters":
		for _, reg := range adapter.Registrations() {
			safe := ""
			if reg.Safe {
				safe = " (safe)"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s%s\n", reg.Name, safe)
		}
		return true

	case ".commit":
		if err := conn.Commit(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return true

	case ".rollback":
		if err := conn.Rollback(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return true

	case ".clear":
		fmt.Print("\033[H\033[2J")
		return true

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", command)
		return true
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .adapters       List registered adapters
  .commit         Commit the current transaction
  .rollback       Roll back the current transaction
  .clear          Clear the screen
  .quit / .exit   Exit the REPL (committing on the way out)

Tips:
  - SQL statements must end with a semicolon (;)
  - Adapter-backed tables are quoted URIs: SELECT * FROM "csv:///a.csv"
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

// newCompleter completes dot-commands and adapter URI schemes.
func newCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".adapters"),
		readline.PcItem(".commit"),
		readline.PcItem(".rollback"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
		readline.PcItem("SELECT"),
		readline.PcItem("INSERT"),
		readline.PcItem("DELETE"),
		readline.PcItem("UPDATE"),
	}
	return readline.NewPrefixCompleter(items...)
}

func backendName(opts db.Options) string {
	if opts.Backend != "" {
		return opts.Backend
	}
	return db.DefaultBackend
}
