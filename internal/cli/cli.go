package cli

import (
	"fmt"
	"os"

	"tasknotes/internal/config"
	"tasknotes/internal/notes"
	"tasknotes/internal/taskwarrior"
)

// Run executes a non-interactive subcommand. The first argument selects the
// command; anything unrecognized is treated as a task filter for the default
// edit command, so `tasknotes 12` opens the note for task 12.
func Run(args []string, client *taskwarrior.Client, store *notes.Store, cfg *config.Config) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "edit":
		return runEdit(args[1:], client, store, cfg)
	case "order":
		return runOrder(args[1:], client)
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		return runEdit(args, client, store, cfg)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: tasknotes [flags] <command> [args]

Commands:
  interactive        Browse tasks and their notes in the terminal
  edit <filter>...   Open the notes for matching tasks in your editor (default)
  order [id pos]     Renumber task estimates by current order; optionally
                     move task <id> to position <pos> first
  help               Show this help

Flags:
  -r, -root    notes directory (default ~/.taskn)
  -f, -format  note file extension (default md)
  -e, -editor  editor command (default $VISUAL, $EDITOR, vi)
  -o, -only    interactive: only show tasks carrying the note tag`)
}
