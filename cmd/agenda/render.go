package main

import (
	"strings"

	"agendabuilder/internal/agenda"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	headingStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Width(22)

	presenterStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("110"))

	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).MarginTop(1)

	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// renderPage draws an agenda page for a terminal.
func renderPage(p agenda.Page) string {
	var sections []string
	if p.EventName != "" {
		sections = append(sections, titleStyle.Render(p.EventName))
	}
	if len(p.Tabs) > 0 {
		tabs := make([]string, 0, len(p.Tabs))
		for _, t := range p.Tabs {
			label := t.Name
			if t.Date != "" {
				label += " · " + t.Date
			}
			if t.Selected {
				tabs = append(tabs, activeTabStyle.Render(label))
			} else {
				tabs = append(tabs, inactiveTabStyle.Render(label))
			}
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	}
	if p.Day != nil {
		heading := p.Day.Name
		if p.Day.Date != "" {
			heading += "  " + p.Day.Date
		}
		sections = append(sections, headingStyle.Render(heading))
	}
	for _, s := range p.Slots {
		line := timeStyle.Render(s.Time) + s.Title
		if s.Presenter != "" {
			line += "  " + presenterStyle.Render(s.Presenter)
		}
		sections = append(sections, line)
	}
	if p.Notice != "" {
		sections = append(sections, noticeStyle.Render(p.Notice))
	}
	if p.ShareURL != "" {
		sections = append(sections, footerStyle.Render(p.ShareURL))
	}

	align := lipgloss.Left
	if p.RTL {
		align = lipgloss.Right
	}
	return strings.TrimRight(lipgloss.JoinVertical(align, sections...), "\n")
}
