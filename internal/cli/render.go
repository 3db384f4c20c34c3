package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dtroode/taskdesk/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	panelStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

func ok(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✔ "+msg))
}

func fail(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("✖ "+msg))
}

func notice(w io.Writer, msg string) {
	fmt.Fprintln(w, mutedStyle.Render(msg))
}

func panel(w io.Writer, title string, lines []string) {
	body := append([]string{titleStyle.Render(title)}, lines...)
	fmt.Fprintln(w, panelStyle.Render(strings.Join(body, "\n")))
}

func taskLines(tasks []model.Task, assignees map[string]string) []string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		status := t.Status
		if status == "" {
			status = "pending"
		}
		statusStyle := pendingStyle
		if strings.EqualFold(status, "completed") || strings.EqualFold(status, "done") {
			statusStyle = successStyle
		}

		line := fmt.Sprintf("%s  %s %s", mutedStyle.Render(t.ID), titleStyle.Render(t.Title), statusStyle.Render("["+status+"]"))
		if t.AssignedTo != "" {
			who := t.AssignedTo
			if name, ok := assignees[t.AssignedTo]; ok && name != "" {
				who = name
			}
			line += mutedStyle.Render(" → " + who)
		}
		lines = append(lines, line)
		if t.Description != "" {
			lines = append(lines, "    "+t.Description)
		}
	}
	return lines
}

func userLines(users []model.User) []string {
	lines := make([]string, 0, len(users))
	for _, u := range users {
		line := fmt.Sprintf("%s  %s <%s>", mutedStyle.Render(u.ID), titleStyle.Render(u.Name), u.Email)
		if u.Role != "" {
			line += mutedStyle.Render(" " + string(u.Role))
		}
		lines = append(lines, line)
	}
	return lines
}

func directory(users []model.User) map[string]string {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names
}
