package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"tasknotes/internal/config"
	"tasknotes/internal/logs"
	"tasknotes/internal/notes"
	"tasknotes/internal/taskwarrior"
)

// runEdit opens the notes for every task matching the filter in the
// configured editor, then syncs the note tag: tasks whose note has content
// gain the tag, tasks whose note is empty lose it.
func runEdit(args []string, client *taskwarrior.Client, store *notes.Store, cfg *config.Config) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: a task filter is required")
		fmt.Fprintln(os.Stderr, "Usage: tasknotes edit <id|filter>...")
		return 1
	}

	tasks, err := client.List(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing tasks: %v\n", err)
		return 1
	}
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks match the given filter.")
		return 1
	}

	if err := store.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating notes directory: %v\n", err)
		return 1
	}

	for _, task := range tasks {
		if err := openEditor(cfg.Editor, store.Path(task.UUID)); err != nil {
			fmt.Fprintf(os.Stderr, "Error editing note for task %d: %v\n", task.ID, err)
			return 1
		}
	}

	for _, task := range tasks {
		if err := syncNoteTag(task, client, store, cfg.Tag); err != nil {
			fmt.Fprintf(os.Stderr, "Error syncing tag for task %d: %v\n", task.ID, err)
			return 1
		}
	}

	return 0
}

// openEditor runs the editor attached to the terminal and blocks until it
// exits. The editor value may carry its own arguments ("code -w").
func openEditor(editor, path string) error {
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		parts = []string{"vi"}
	}

	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q failed: %w", editor, err)
	}
	return nil
}

// tagWriter is the slice of the taskwarrior client tag syncing needs.
type tagWriter interface {
	AddTag(uuid, tag string) error
	RemoveTag(uuid, tag string) error
}

// noteChecker is the slice of the notes store tag syncing needs.
type noteChecker interface {
	HasContent(uuid string) (bool, error)
}

// syncNoteTag keeps the note tag truthful after an edit. Only tasks whose
// tag state actually changed are written back.
func syncNoteTag(task taskwarrior.Task, client tagWriter, store noteChecker, tag string) error {
	hasContent, err := store.HasContent(task.UUID)
	if err != nil {
		return err
	}

	switch {
	case hasContent && !task.HasTag(tag):
		logs.Logger.Printf("tagging task %d with +%s", task.ID, tag)
		return client.AddTag(task.UUID, tag)
	case !hasContent && task.HasTag(tag):
		logs.Logger.Printf("untagging task %d, note is empty", task.ID)
		return client.RemoveTag(task.UUID, tag)
	}
	return nil
}
