package tui

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"tasknotes/internal/taskwarrior"
)

var (
	// errStoreUnavailable marks a failed taskwarrior call. Displayed state
	// may be stale or un-persistable afterwards, so the session treats it
	// as fatal.
	errStoreUnavailable = errors.New("task store unavailable")

	// errInvariant marks a selection pointing at a task with no note entry.
	// Load and flush always fill the note map, so hitting this is a defect
	// and the session aborts loudly instead of guessing.
	errInvariant = errors.New("selection invariant violated")
)

// taskStore is the slice of the taskwarrior client the browser needs.
type taskStore interface {
	List(filter []string) ([]taskwarrior.Task, error)
	Save(t taskwarrior.Task) error
}

// noteReader is the slice of the notes store the browser needs.
type noteReader interface {
	Read(uuid string) (string, error)
}

// snapshot is the in-memory copy of tasks, their note contents and the
// selection cursor. It is valid until the next load or flush replaces it;
// nothing mutates a snapshot's note map after load.
type snapshot struct {
	tasks  []taskwarrior.Task
	notes  map[string]string
	cursor int // index into tasks, or -1 when tasks is empty
}

// loadSnapshot fetches tasks matching the filter, orders them by estimate,
// preloads every task's note and selects the first task.
func loadSnapshot(store taskStore, notes noteReader, filter []string) (*snapshot, error) {
	tasks, err := store.List(filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errStoreUnavailable, err)
	}

	// Stable sort keeps fetch order for equal estimates.
	sort.SliceStable(tasks, func(i, j int) bool {
		return taskwarrior.CompareEstimates(tasks[i].Estimate, tasks[j].Estimate) < 0
	})

	contents := make(map[string]string, len(tasks))
	for _, task := range tasks {
		text, err := notes.Read(task.UUID)
		if err != nil {
			return nil, fmt.Errorf("failed to preload note for %s: %w", task.UUID, err)
		}
		contents[task.UUID] = text
	}

	cursor := -1
	if len(tasks) > 0 {
		cursor = 0
	}

	return &snapshot{tasks: tasks, notes: contents, cursor: cursor}, nil
}

// flush persists every task's position as its new estimate, in sequence
// order, then reloads. The previous cursor is carried over by numeric index,
// clamped into the new range. A failed write aborts the remaining writes and
// reports how far the flush got, since the store is left partially
// renumbered.
func (s *snapshot) flush(store taskStore, notes noteReader, filter []string) (*snapshot, error) {
	for i, task := range s.tasks {
		task.Estimate = strconv.Itoa(i)
		if err := store.Save(task); err != nil {
			return nil, fmt.Errorf("%w: flush aborted, %d of %d tasks persisted: %v",
				errStoreUnavailable, i, len(s.tasks), err)
		}
	}

	next, err := loadSnapshot(store, notes, filter)
	if err != nil {
		return nil, err
	}

	if s.cursor >= 0 && len(next.tasks) > 0 {
		next.cursor = s.cursor
		if next.cursor >= len(next.tasks) {
			next.cursor = len(next.tasks) - 1
		}
	}
	return next, nil
}

// selected returns the cursor index, or false when the snapshot is empty.
func (s *snapshot) selected() (int, bool) {
	if s.cursor < 0 || s.cursor >= len(s.tasks) {
		return 0, false
	}
	return s.cursor, true
}

func (s *snapshot) selectedTask() (taskwarrior.Task, bool) {
	i, ok := s.selected()
	if !ok {
		return taskwarrior.Task{}, false
	}
	return s.tasks[i], true
}

// selectedNote returns the preloaded note text for the selected task. A
// selection whose uuid is missing from the note map violates the snapshot
// invariant.
func (s *snapshot) selectedNote() (string, error) {
	task, ok := s.selectedTask()
	if !ok {
		return "", nil
	}
	text, ok := s.notes[task.UUID]
	if !ok {
		return "", fmt.Errorf("%w: no note entry for uuid %s", errInvariant, task.UUID)
	}
	return text, nil
}

// Cursor movement. All of these are no-ops on an empty snapshot.

func (s *snapshot) moveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *snapshot) moveDown() {
	if s.cursor >= 0 && s.cursor < len(s.tasks)-1 {
		s.cursor++
	}
}

func (s *snapshot) moveFirst() {
	if len(s.tasks) > 0 {
		s.cursor = 0
	}
}

func (s *snapshot) moveLast() {
	if len(s.tasks) > 0 {
		s.cursor = len(s.tasks) - 1
	}
}

// Reordering, used by shift mode. The cursor follows the moved task.

func (s *snapshot) swapUp() {
	if s.cursor > 0 {
		s.tasks[s.cursor], s.tasks[s.cursor-1] = s.tasks[s.cursor-1], s.tasks[s.cursor]
		s.cursor--
	}
}

func (s *snapshot) swapDown() {
	if s.cursor >= 0 && s.cursor < len(s.tasks)-1 {
		s.tasks[s.cursor], s.tasks[s.cursor+1] = s.tasks[s.cursor+1], s.tasks[s.cursor]
		s.cursor++
	}
}

// restoreOrder undoes an in-progress reorder: the moved task goes back to its
// remembered position and the cursor follows it. Inverse of any sequence of
// swapUp/swapDown calls on the same selection.
func (s *snapshot) restoreOrder(originalPos int) {
	i, ok := s.selected()
	if !ok || originalPos < 0 || originalPos >= len(s.tasks) {
		return
	}
	task := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

	rest := make([]taskwarrior.Task, 0, len(s.tasks)+1)
	rest = append(rest, s.tasks[:originalPos]...)
	rest = append(rest, task)
	rest = append(rest, s.tasks[originalPos:]...)
	s.tasks = rest
	s.cursor = originalPos
}

// descriptions lists task descriptions in display order, for fuzzy matching.
func (s *snapshot) descriptions() []string {
	out := make([]string, len(s.tasks))
	for i, task := range s.tasks {
		out[i] = task.Description
	}
	return out
}
