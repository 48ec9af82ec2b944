package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

var errTestEditFailed = errors.New("editor exited non-zero")

func newTestModel(t *testing.T, store *fakeStore, notes fakeNotes) Model {
	t.Helper()
	m, err := New(store, notes, &fakeEditor{}, pendingFilter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m.width = 80
	m.height = 24
	m.ready = true
	return m
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, key := range keys {
		var msg tea.KeyMsg
		switch key {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		case "ctrl+f":
			msg = tea.KeyMsg{Type: tea.KeyCtrlF}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		var model tea.Model
		model, cmd = m.Update(msg)
		m = model.(Model)
	}
	return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNormal_CursorMovementClamps(t *testing.T) {
	m := newTestModel(t, newFakeStore(pendingABC()...), fakeNotes{})

	m, _ = press(t, m, "k") // clamped at top
	if i, _ := m.snap.selected(); i != 0 {
		t.Errorf("expected cursor clamped at 0, got %d", i)
	}

	m, _ = press(t, m, "j", "j", "j", "j") // clamped at bottom
	if i, _ := m.snap.selected(); i != 2 {
		t.Errorf("expected cursor clamped at 2, got %d", i)
	}

	m, _ = press(t, m, "g")
	if i, _ := m.snap.selected(); i != 0 {
		t.Errorf("expected g to jump to 0, got %d", i)
	}

	m, _ = press(t, m, "G")
	if i, _ := m.snap.selected(); i != 2 {
		t.Errorf("expected G to jump to last, got %d", i)
	}
}

func TestNormal_QuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc", "ctrl+c"} {
		m := newTestModel(t, newFakeStore(pendingABC()...), fakeNotes{})
		_, cmd := press(t, m, key)
		if !isQuit(cmd) {
			t.Errorf("expected %q to quit from normal mode", key)
		}
	}
}

func TestCtrlC_QuitsFromEveryMode(t *testing.T) {
	entries := map[string]string{"shift": "s", "done": "d", "jump": "/"}
	for name, enter := range entries {
		m := newTestModel(t, newFakeStore(pendingABC()...), fakeNotes{})
		m, _ = press(t, m, enter)
		_, cmd := press(t, m, "ctrl+c")
		if !isQuit(cmd) {
			t.Errorf("expected ctrl+c to quit from %s mode", name)
		}
	}
}

func TestEsc_DoesNotQuitOutsideNormal(t *testing.T) {
	m := newTestModel(t, newFakeStore(pendingABC()...), fakeNotes{})
	m, _ = press(t, m, "s")
	m, cmd := press(t, m, "esc")
	if isQuit(cmd) {
		t.Error("esc in shift mode should cancel, not quit")
	}
	if m.mode != modeNormal {
		t.Errorf("expected normal mode after esc, got %v", m.mode)
	}
}

func TestShift_CommitFlushesNewOrder(t *testing.T) {
	store := newFakeStore(pendingABC()...)
	m := newTestModel(t, store, fakeNotes{})

	// Browse to the bottom, enter shift and commit without moving: the
	// on-screen order [B, A, C] becomes the persisted estimates 0, 1, 2.
	m, _ = press(t, m, "j", "j", "s", "enter")

	if m.mode != modeNormal {
		t.Errorf("expected normal mode after commit, got %v", m.mode)
	}
	wantEstimates := map[string]string{"uuid-b": "0", "uuid-a": "1", "uuid-c": "2"}
	if len(store.saved) != 3 {
		t.Fatalf("expected 3 saves on commit, got %d", len(store.saved))
	}
	for _, saved := range store.saved {
		if saved.Estimate != wantEstimates[saved.UUID] {
			t.Errorf("task %s: expected estimate %s, got %s",
				saved.UUID, wantEstimates[saved.UUID], saved.Estimate)
		}
	}

	// A reload sees the same order the commit persisted.
	snap, err := loadSnapshot(store, fakeNotes{}, pendingFilter())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	got := uuids(snap.tasks)
	want := []string{"uuid-b", "uuid-a", "uuid-c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected reload order %v, got %v", want, got)
		}
	}
}

func TestShift_MoveTaskThenCommit(t *testing.T) {
	store := newFakeStore(pendingABC()...)
	m := newTestModel(t, store, fakeNotes{})

	// Move B below A: [B, A, C] -> [A, B, C], then commit.
	m, _ = press(t, m, "s", "j", "enter")

	snap, err := loadSnapshot(store, fakeNotes{}, pendingFilter())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	got := uuids(snap.tasks)
	want := []string{"uuid-a", "uuid-b", "uuid-c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected committed order %v, got %v", want, got)
		}
	}
	if i, _ := m.snap.selected(); i != 1 {
		t.Errorf("expected cursor to follow moved task to 1, got %d", i)
	}
}

func TestShift_CancelRestoresOrderAndSelection(t *testing.T) {
	store := newFakeStore(pendingABC()...)
	m := newTestModel(t, store, fakeNotes{})
	before := uuids(m.snap.tasks)

	m, _ = press(t, m, "j", "s", "j", "j", "k", "j", "esc")

	got := uuids(m.snap.tasks)
	for i := range before {
		if got[i] != before[i] {
			t.Fatalf("cancel should restore pre-shift order: %v -> %v", before, got)
		}
	}
	if i, _ := m.snap.selected(); i != 1 {
		t.Errorf("expected selection restored to 1, got %d", i)
	}
	if store.saveCalls != 0 {
		t.Errorf("cancel must not persist anything, got %d saves", store.saveCalls)
	}
	if m.mode != modeNormal {
		t.Errorf("expected normal mode after cancel, got %v", m.mode)
	}
}

func TestDone_ConfirmMarksTaskDoneAndReloads(t *testing.T) {
	store := newFakeStore(pendingABC()...)
	m := newTestModel(t, store, fakeNotes{})

	// B is selected; d + enter marks it done. The pending reload excludes
	// it and the selection stays in range.
	m, _ = press(t, m, "d", "enter")

	if m.mode != modeNormal {
		t.Errorf("expected normal mode after confirm, got %v", m.mode)
	}
	got := uuids(m.snap.tasks)
	want := []string{"uuid-a", "uuid-c"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected remaining tasks %v, got %v", want, got)
	}
	i, ok := m.snap.selected()
	if !ok || i < 0 || i >= len(m.snap.tasks) {
		t.Errorf("selection out of range after reload: %d", i)
	}

	for _, saved := range store.saved {
		if saved.UUID == "uuid-b" && saved.Status != "done" {
			t.Errorf("expected B saved with status done, got %s", saved.Status)
		}
	}
}

func TestDone_CancelKeepsEverything(t *testing.T) {
	store := newFakeStore(pendingABC()...)
	m := newTestModel(t, store, fakeNotes{})

	m, _ = press(t, m, "d", "esc")

	if m.mode != modeNormal {
		t.Errorf("expected normal mode after cancel, got %v", m.mode)
	}
	if store.saveCalls != 0 {
		t.Errorf("cancel must not persist anything, got %d saves", store.saveCalls)
	}
	if m.snap.tasks[0].Status != "pending" {
		t.Errorf("selected task status must be untouched, got %s", m.snap.tasks[0].Status)
	}
}

func TestUnrecognizedKey_IsNoOpInEveryMode(t *testing.T) {
	entries := map[string][]string{
		"normal": nil,
		"shift":  {"s"},
		"done":   {"d"},
	}
	for name, setup := range entries {
		store := newFakeStore(pendingABC()...)
		m := newTestModel(t, store, fakeNotes{})
		m, _ = press(t, m, setup...)

		before := uuids(m.snap.tasks)
		beforeMode := m.mode
		beforeCursor, _ := m.snap.selected()
		listCalls := store.listCalls
		saveCalls := store.saveCalls

		m, cmd := press(t, m, "z")

		if isQuit(cmd) {
			t.Errorf("%s: 'z' must not quit", name)
		}
		if m.mode != beforeMode {
			t.Errorf("%s: 'z' changed mode", name)
		}
		if i, _ := m.snap.selected(); i != beforeCursor {
			t.Errorf("%s: 'z' moved the cursor", name)
		}
		got := uuids(m.snap.tasks)
		for i := range before {
			if got[i] != before[i] {
				t.Errorf("%s: 'z' reordered tasks", name)
			}
		}
		if store.listCalls != listCalls || store.saveCalls != saveCalls {
			t.Errorf("%s: 'z' issued store calls", name)
		}
	}
}

func TestEmptySnapshot_KeysAreNoOpsAndRenderSurvives(t *testing.T) {
	store := newFakeStore() // no tasks
	m := newTestModel(t, store, fakeNotes{})

	if _, ok := m.snap.selected(); ok {
		t.Fatal("expected no selection for empty snapshot")
	}

	m, _ = press(t, m, "j", "k", "g", "G", "s", "d", "X", "/")
	if m.mode != modeNormal {
		t.Errorf("mode-entry keys must be no-ops with no selection, got mode %v", m.mode)
	}

	view := m.View()
	if view == "" {
		t.Error("empty snapshot should still render a frame")
	}
}

func TestExternalEdit_SpawnsEditorForSelectedTask(t *testing.T) {
	store := newFakeStore(pendingABC()...)
	editor := &fakeEditor{}
	m, err := New(store, fakeNotes{}, editor, pendingFilter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, cmd := press(t, m, "X")
	if cmd == nil {
		t.Fatal("expected an exec command for X")
	}
	if len(editor.edited) != 1 || editor.edited[0] != "uuid-b" {
		t.Errorf("expected edit of selected task uuid-b, got %v", editor.edited)
	}
}

func TestExternalEdit_FailureIsRecoverable(t *testing.T) {
	store := newFakeStore(pendingABC()...)
	m := newTestModel(t, store, fakeNotes{})

	model, cmd := m.Update(editFinishedMsg{err: errTestEditFailed})
	m = model.(Model)

	if isQuit(cmd) {
		t.Error("edit failure must not end the session")
	}
	if m.mode != modeNormal {
		t.Errorf("expected normal mode after edit failure, got %v", m.mode)
	}
	if m.statusMsg == "" {
		t.Error("expected a status message reporting the failure")
	}
}

func TestFlushFailure_EndsSession(t *testing.T) {
	store := newFakeStore(pendingABC()...)
	m := newTestModel(t, store, fakeNotes{})

	store.failAfter = 0
	m, cmd := press(t, m, "s", "enter")

	if !isQuit(cmd) {
		t.Error("expected session to quit on flush failure")
	}
	if m.Err() == nil {
		t.Error("expected the fatal error to be exposed for reporting")
	}
}

func TestJump_MovesCursorWithoutReordering(t *testing.T) {
	store := newFakeStore(pendingABC()...)
	m := newTestModel(t, store, fakeNotes{})
	before := uuids(m.snap.tasks)

	m, _ = press(t, m, "/")
	if m.mode != modeJump {
		t.Fatalf("expected jump mode, got %v", m.mode)
	}

	m, _ = press(t, m, "t", "a", "s", "k", " ", "C", "enter")

	if m.mode != modeNormal {
		t.Errorf("expected normal mode after jump, got %v", m.mode)
	}
	if i, _ := m.snap.selected(); i != 2 {
		t.Errorf("expected cursor on task C (index 2), got %d", i)
	}
	got := uuids(m.snap.tasks)
	for i := range before {
		if got[i] != before[i] {
			t.Fatalf("jump must not reorder tasks: %v -> %v", before, got)
		}
	}
	if store.saveCalls != 0 {
		t.Errorf("jump must not persist anything, got %d saves", store.saveCalls)
	}
}

func TestJump_EscCancels(t *testing.T) {
	m := newTestModel(t, newFakeStore(pendingABC()...), fakeNotes{})
	m, _ = press(t, m, "/", "x", "y", "esc")
	if m.mode != modeNormal {
		t.Errorf("expected normal mode after esc, got %v", m.mode)
	}
	if i, _ := m.snap.selected(); i != 0 {
		t.Errorf("cancelled jump must not move the cursor, got %d", i)
	}
}
