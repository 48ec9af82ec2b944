package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasknotes/internal/tui/theme"
)

// Frame overhead of a bordered pane: two border columns / rows plus the
// title line folded into the top border's row budget.
const (
	paneFrameWidth  = 2
	paneFrameHeight = 3
)

var (
	listTitleStyle    = theme.Title
	previewTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary)

	taskLineStyle     = theme.Muted.Faint(true)
	selectedLineStyle = theme.Selected

	shiftSelectedStyle = theme.Selected.Underline(true)
	doneSelectedStyle  = theme.Selected.Strikethrough(true)

	waitHintStyle = lipgloss.NewStyle().Foreground(theme.Secondary).Faint(true)
)

// splitWidths divides the terminal into the task list (30%) and the note
// preview (70%).
func splitWidths(total int) (list int, preview int) {
	list = total * 30 / 100
	if list < 1 {
		list = 1
	}
	preview = total - list
	if preview < 1 {
		preview = 1
	}
	return list, preview
}

// contentHeight is the vertical space left for the two panes after the
// status bar.
func (m Model) contentHeight() int {
	h := m.height - 2
	if h < 0 {
		h = 0
	}
	return h
}

// View renders the current mode against the current snapshot. Pure
// projection: nothing in here mutates model state.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	listWidth, previewWidth := splitWidths(m.width)
	contentHeight := m.contentHeight()

	listPane := m.renderTaskList(listWidth, contentHeight)

	var rightPane string
	if m.mode == modeDone {
		rightPane = m.renderConfirmBanner(previewWidth, contentHeight)
	} else {
		rightPane = m.renderPreviewPane(previewWidth, contentHeight)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, rightPane)
	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

func (m Model) renderTaskList(width, height int) string {
	innerWidth := width - paneFrameWidth
	innerHeight := height - paneFrameHeight
	if innerWidth < 0 {
		innerWidth = 0
	}
	if innerHeight < 0 {
		innerHeight = 0
	}

	var b strings.Builder
	b.WriteString(listTitleStyle.Render("Tasks"))
	b.WriteString("\n")

	if len(m.snap.tasks) == 0 {
		b.WriteString(theme.Muted.Render("No tasks."))
	} else {
		selected, _ := m.snap.selected()
		start, end := listWindow(selected, len(m.snap.tasks), innerHeight-1)
		for i := start; i < end; i++ {
			task := m.snap.tasks[i]
			line := task.Description
			if task.Wait != nil && !task.Wait.IsZero() {
				line += waitHintStyle.Render(" (waiting)")
			}
			if i == selected {
				b.WriteString(m.selectedStyle().Render("> " + line))
			} else {
				b.WriteString(taskLineStyle.Render("  " + line))
			}
			if i < end-1 {
				b.WriteString("\n")
			}
		}
	}

	return theme.Pane.Width(innerWidth).Height(innerHeight + 1).Render(b.String())
}

// selectedStyle picks the highlight for the selected row: underlined while a
// reorder is in progress, struck through while the done dialog is up.
func (m Model) selectedStyle() lipgloss.Style {
	switch m.mode {
	case modeShift:
		return shiftSelectedStyle
	case modeDone:
		return doneSelectedStyle
	default:
		return selectedLineStyle
	}
}

// listWindow scrolls the visible slice of tasks so the selection stays on
// screen.
func listWindow(selected, total, visible int) (start, end int) {
	if visible < 1 {
		visible = 1
	}
	if total <= visible {
		return 0, total
	}
	start = selected - visible/2
	if start < 0 {
		start = 0
	}
	end = start + visible
	if end > total {
		end = total
		start = end - visible
	}
	return start, end
}

func (m Model) renderPreviewPane(width, height int) string {
	innerWidth := width - paneFrameWidth
	innerHeight := height - paneFrameHeight
	if innerWidth < 0 {
		innerWidth = 0
	}
	if innerHeight < 0 {
		innerHeight = 0
	}

	var b strings.Builder
	b.WriteString(previewTitleStyle.Render("Preview"))
	b.WriteString("\n")
	b.WriteString(m.preview.View())

	return theme.Pane.Width(innerWidth).Height(innerHeight + 1).Render(b.String())
}

func (m Model) renderConfirmBanner(width, height int) string {
	banner := theme.ModalBox.Render(
		theme.ModalTitle.Render("Mark Done?") + "\n\n" +
			"CONFIRM " + theme.Ok.Render("(enter)") + "  or  CANCEL " + theme.Error.Render("(esc)"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, banner)
}

func (m Model) renderStatusBar() string {
	var text string
	switch {
	case m.statusMsg != "":
		text = theme.Error.Render(m.statusMsg)
	case m.mode == modeShift:
		text = theme.HelpHint.Render("shift | j/k: move task | enter/s: commit | esc: cancel")
	case m.mode == modeDone:
		text = theme.HelpHint.Render("mark done | enter: confirm | esc: cancel")
	case m.mode == modeJump:
		text = m.jumpInput.View()
	default:
		text = theme.HelpHint.Render("j/k: move | g/G: first/last | s: reorder | d: done | X: task edit | /: jump | q: quit")
	}
	return theme.StatusBar.Width(m.width).Render(text)
}
