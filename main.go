package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tasknotes/internal/cli"
	"tasknotes/internal/config"
	"tasknotes/internal/logs"
	"tasknotes/internal/notes"
	"tasknotes/internal/taskwarrior"
	"tasknotes/internal/tui"
)

func main() {
	// Parse CLI flags
	rootFlag := flag.String("root", "", "Directory holding note files")
	flag.StringVar(rootFlag, "r", "", "Directory holding note files (shorthand)")
	formatFlag := flag.String("format", "", "Note file extension")
	flag.StringVar(formatFlag, "f", "", "Note file extension (shorthand)")
	editorFlag := flag.String("editor", "", "Editor command for notes")
	flag.StringVar(editorFlag, "e", "", "Editor command for notes (shorthand)")
	onlyFlag := flag.Bool("only", false, "Interactive: only show tasks carrying the note tag")
	flag.BoolVar(onlyFlag, "o", false, "Interactive: only show tagged tasks (shorthand)")
	flag.Parse()

	// Build CLIFlags
	cliFlags := config.CLIFlags{
		RootDir: *rootFlag,
		FileExt: *formatFlag,
		Editor:  *editorFlag,
	}

	// Load configuration
	cfg, err := config.Load(cliFlags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure config file exists
	if err := config.EnsureConfigFile(); err != nil {
		log.Printf("Warning: could not create config file: %v", err)
	}

	store := notes.NewStore(cfg.RootDir, cfg.FileExt)
	if err := store.EnsureDir(); err != nil {
		log.Fatalf("Failed to create notes directory: %v", err)
	}

	// Reinitialize logger
	if err := logs.Initialize(cfg.RootDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize logger: %v\n", err)
	}

	client := taskwarrior.NewClient()
	args := flag.Args()

	var code int
	if len(args) > 0 && args[0] == "interactive" {
		code = runInteractive(args[1:], client, store, cfg, *onlyFlag)
	} else {
		code = cli.Run(args, client, store, cfg)
	}

	logs.Close()
	os.Exit(code)
}

// runInteractive starts the full-screen browser. Extra args are passed
// through as taskwarrior filter terms on top of status:pending.
func runInteractive(extra []string, client *taskwarrior.Client, store *notes.Store, cfg *config.Config, taggedOnly bool) int {
	filter := []string{"status:" + taskwarrior.StatusPending}
	if taggedOnly {
		filter = append(filter, "+"+cfg.Tag)
	}
	filter = append(filter, extra...)

	model, err := tui.New(client, store, client, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if m, ok := final.(tui.Model); ok {
		if err := m.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}
