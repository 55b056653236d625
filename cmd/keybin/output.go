package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"keybin-go/internal/kb"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

const maskedPassword = "********"

// renderTable lays out rows under bold headers with a rounded border.
func renderTable(headers []string, rows [][]string) string {
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = headerStyle.Render(h)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(styled...)
	for _, row := range rows {
		t.Row(row...)
	}
	return t.String()
}

// entryRows renders search results. Scores are shown only for fuzzy searches.
func entryRows(results []kb.SearchResult, showPasswords, withScore bool) ([]string, [][]string) {
	headers := []string{"ID", "Service", "User", "Email", "Password", "Tags", "Created"}
	if withScore {
		headers = append(headers, "Score")
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		e := r.Entry
		password := e.Password
		if password != "" && !showPasswords {
			password = maskedPassword
		}
		created := ""
		if !e.CreatedAt.IsZero() {
			created = e.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		row := []string{
			strconv.FormatInt(e.ID, 10),
			orDash(e.Service),
			orDash(e.User),
			orDash(e.Email),
			orDash(password),
			strings.Join(e.Tags, ", "),
			created,
		}
		if withScore {
			row = append(row, strconv.Itoa(r.Score))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func orDash(s string) string {
	if s == "" {
		return mutedStyle.Render("-")
	}
	return s
}

// splitTags turns a comma separated answer into tags.
func splitTags(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	return strings.Split(line, ",")
}
