package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func sized(t *testing.T, m Model) Model {
	t.Helper()
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(Model)
}

func TestView_NotReadyShowsLoading(t *testing.T) {
	m, err := New(newFakeStore(pendingABC()...), fakeNotes{}, &fakeEditor{}, pendingFilter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if m.View() != "Loading..." {
		t.Errorf("expected loading placeholder before first resize")
	}
}

func TestView_ListsTasksWithCursor(t *testing.T) {
	m, err := New(newFakeStore(pendingABC()...), fakeNotes{}, &fakeEditor{}, pendingFilter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	view := sized(t, m).View()

	for _, desc := range []string{"task A", "task B", "task C"} {
		if !strings.Contains(view, desc) {
			t.Errorf("expected view to contain %q", desc)
		}
	}
	if !strings.Contains(view, "> ") {
		t.Error("expected a cursor marker in the list")
	}
}

func TestView_EmptySnapshot(t *testing.T) {
	m, err := New(newFakeStore(), fakeNotes{}, &fakeEditor{}, pendingFilter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	view := sized(t, m).View()

	if !strings.Contains(view, "No tasks.") {
		t.Error("expected empty-list placeholder")
	}
}

func TestView_DoneModeShowsConfirmBanner(t *testing.T) {
	m, err := New(newFakeStore(pendingABC()...), fakeNotes{"uuid-b": "note body"}, &fakeEditor{}, pendingFilter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m = sized(t, m)
	m, _ = press(t, m, "d")
	view := m.View()

	if !strings.Contains(view, "Mark Done?") {
		t.Error("expected confirmation banner in done mode")
	}
}

func TestView_JumpModeShowsPrompt(t *testing.T) {
	m, err := New(newFakeStore(pendingABC()...), fakeNotes{}, &fakeEditor{}, pendingFilter())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m = sized(t, m)
	m, _ = press(t, m, "/")
	view := m.View()

	if !strings.Contains(view, "/") {
		t.Error("expected jump prompt in status line")
	}
}

func TestListWindow_KeepsSelectionVisible(t *testing.T) {
	cases := []struct {
		selected, total, visible int
	}{
		{0, 3, 10},
		{2, 3, 10},
		{0, 100, 10},
		{50, 100, 10},
		{99, 100, 10},
		{0, 0, 10},
	}
	for _, tc := range cases {
		start, end := listWindow(tc.selected, tc.total, tc.visible)
		if start < 0 || end > tc.total || start > end {
			t.Fatalf("window [%d,%d) invalid for total %d", start, end, tc.total)
		}
		if tc.total > 0 && (tc.selected < start || tc.selected >= end) {
			t.Errorf("selection %d not inside window [%d,%d)", tc.selected, start, end)
		}
	}
}
