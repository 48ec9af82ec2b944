package tui

import (
	"os/exec"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"tasknotes/internal/logs"
	"tasknotes/internal/taskwarrior"
)

// browseMode is the active interaction state. It decides how keys are
// interpreted and how the task list is styled.
type browseMode int

const (
	// modeNormal is read-only browsing.
	modeNormal browseMode = iota
	// modeShift is an in-progress reorder; shiftOrigin remembers where the
	// task came from so esc can put it back.
	modeShift
	// modeDone is the mark-done confirmation dialog.
	modeDone
	// modeJump is the fuzzy jump-to-task prompt.
	modeJump
)

// taskEditor spawns the task store's own edit UI for a task. The session
// blocks until it exits.
type taskEditor interface {
	EditCommand(uuid string) *exec.Cmd
}

// editFinishedMsg reports the result of an external `task edit` invocation.
type editFinishedMsg struct {
	err error
}

// Model is the interactive task browser: a list of tasks ordered by estimate
// on the left, the selected task's note on the right.
type Model struct {
	store  taskStore
	notes  noteReader
	editor taskEditor
	filter []string

	snap        *snapshot
	mode        browseMode
	shiftOrigin int

	preview   viewport.Model
	jumpInput textinput.Model
	statusMsg string
	fatalErr  error

	width  int
	height int
	ready  bool
}

// New loads the initial snapshot and builds the browser model. A store
// failure here is fatal before the terminal is ever touched.
func New(store taskStore, notes noteReader, editor taskEditor, filter []string) (Model, error) {
	snap, err := loadSnapshot(store, notes, filter)
	if err != nil {
		return Model{}, err
	}

	jump := textinput.New()
	jump.Prompt = "/"
	jump.Placeholder = "jump to task"

	m := Model{
		store:     store,
		notes:     notes,
		editor:    editor,
		filter:    filter,
		snap:      snap,
		mode:      modeNormal,
		preview:   viewport.New(0, 0),
		jumpInput: jump,
	}
	m.refreshPreview()
	return m, nil
}

// Err returns the error that terminated the session, if any. main reports it
// after the terminal has been restored.
func (m Model) Err() error {
	return m.fatalErr
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.sizePreview()
		m.refreshPreview()
		return m, nil

	case editFinishedMsg:
		if msg.err != nil {
			logs.Logger.Printf("task edit failed: %v", msg.err)
			m.statusMsg = "task edit failed: " + msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		// ctrl+c quits unconditionally, whatever the mode.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.statusMsg = ""

		var cmd tea.Cmd
		switch m.mode {
		case modeNormal:
			m, cmd = m.handleNormalKey(msg)
		case modeShift:
			m, cmd = m.handleShiftKey(msg)
		case modeDone:
			m, cmd = m.handleDoneKey(msg)
		case modeJump:
			m, cmd = m.handleJumpKey(msg)
		}
		if m.fatalErr != nil {
			return m, tea.Quit
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k", "K":
		m.snap.moveUp()
		m.refreshPreview()
	case "down", "j", "J":
		m.snap.moveDown()
		m.refreshPreview()
	case "g":
		m.snap.moveFirst()
		m.refreshPreview()
	case "G":
		m.snap.moveLast()
		m.refreshPreview()
	case "ctrl+d":
		m.preview.HalfViewDown()
	case "ctrl+u":
		m.preview.HalfViewUp()
	case "s":
		if i, ok := m.snap.selected(); ok {
			m.shiftOrigin = i
			m.mode = modeShift
		}
	case "d":
		if _, ok := m.snap.selected(); ok {
			m.mode = modeDone
		}
	case "X":
		if task, ok := m.snap.selectedTask(); ok {
			cmd := m.editor.EditCommand(task.UUID)
			return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
				return editFinishedMsg{err: err}
			})
		}
	case "/":
		if _, ok := m.snap.selected(); ok {
			m.mode = modeJump
			m.jumpInput.SetValue("")
			return m, m.jumpInput.Focus()
		}
	}
	return m, nil
}

func (m Model) handleShiftKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "K":
		m.snap.swapUp()
		m.refreshPreview()
	case "down", "j", "J":
		m.snap.swapDown()
		m.refreshPreview()
	case "enter", "s":
		m.mode = modeNormal
		return m.doFlush()
	case "esc", "ctrl+f":
		m.snap.restoreOrder(m.shiftOrigin)
		m.mode = modeNormal
		m.refreshPreview()
	}
	return m, nil
}

func (m Model) handleDoneKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if i, ok := m.snap.selected(); ok {
			m.snap.tasks[i].Status = taskwarrior.StatusDone
		}
		m.mode = modeNormal
		return m.doFlush()
	case "esc", "ctrl+f":
		m.mode = modeNormal
	}
	return m, nil
}

func (m Model) handleJumpKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.jumpInput.Blur()
	case "enter":
		if i, ok := m.bestJumpMatch(); ok {
			m.snap.cursor = i
			m.refreshPreview()
		}
		m.mode = modeNormal
		m.jumpInput.Blur()
	default:
		var cmd tea.Cmd
		m.jumpInput, cmd = m.jumpInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// bestJumpMatch fuzzy-matches the jump query against task descriptions and
// returns the top match's index. The snapshot order is never touched.
func (m Model) bestJumpMatch() (int, bool) {
	query := m.jumpInput.Value()
	if query == "" {
		return 0, false
	}
	matches := fuzzy.Find(query, m.snap.descriptions())
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].Index, true
}

// doFlush persists the current order and reloads. A store failure ends the
// session; the diagnostic is printed once the terminal is back to normal.
func (m Model) doFlush() (Model, tea.Cmd) {
	next, err := m.snap.flush(m.store, m.notes, m.filter)
	if err != nil {
		m.fatalErr = err
		return m, tea.Quit
	}
	m.snap = next
	m.refreshPreview()
	return m, nil
}

func (m *Model) sizePreview() {
	_, previewWidth := splitWidths(m.width)
	m.preview.Width = previewWidth - paneFrameWidth
	m.preview.Height = m.contentHeight() - paneFrameHeight
	if m.preview.Width < 0 {
		m.preview.Width = 0
	}
	if m.preview.Height < 0 {
		m.preview.Height = 0
	}
}

// refreshPreview re-renders the selected note into the preview viewport.
// Called whenever the selection, the snapshot or the window size changes.
func (m *Model) refreshPreview() {
	text, err := m.snap.selectedNote()
	if err != nil {
		// Defect, not user error. Quit loudly rather than render a lie.
		m.fatalErr = err
		logs.Logger.Printf("invariant violation: %v", err)
		m.preview.SetContent("")
		return
	}
	m.preview.SetContent(renderMarkdown(text, m.preview.Width))
	m.preview.GotoTop()
}
