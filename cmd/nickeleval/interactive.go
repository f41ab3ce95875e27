package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/LouLouLibs/NickelEval/export"
	"github.com/LouLouLibs/NickelEval/lang"
	"github.com/LouLouLibs/NickelEval/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	exprStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	formatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// replFormats are the output renderings the REPL cycles through.
var replFormats = []string{"text", "json", "yaml"}

type historyEntry struct {
	src    string
	result string
	isErr  bool
}

type replModel struct {
	interp    *lang.Interp
	input     textinput.Model
	history   []historyEntry
	formatIdx int
}

func newReplModel() *replModel {
	ti := textinput.New()
	ti.Placeholder = `{ greeting = "hello " ++ "world" }`
	ti.Prompt = "> "
	ti.Width = 72
	ti.Focus()

	return &replModel{
		interp: lang.New(),
		input:  ti,
	}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+f":
			m.formatIdx = (m.formatIdx + 1) % len(replFormats)
			return m, nil

		case "ctrl+l":
			m.history = nil
			return m, nil

		case "enter":
			src := strings.TrimSpace(m.input.Value())
			if src == "" {
				return m, nil
			}
			m.history = append(m.history, m.evaluate(src))
			m.input.Reset()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) evaluate(src string) historyEntry {
	v, err := m.interp.Eval(src)
	if err != nil {
		return historyEntry{src: src, result: err.Error(), isErr: true}
	}

	rendered, rerr := renderRepl(v, replFormats[m.formatIdx])
	if rerr != nil {
		return historyEntry{src: src, result: rerr.Error(), isErr: true}
	}
	return historyEntry{src: src, result: rendered}
}

func renderRepl(v value.Value, format string) (string, error) {
	if format == "text" {
		return v.String(), nil
	}
	out, err := export.Export(export.Format(format), v)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}

func (m *replModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("nickeleval"))
	b.WriteString(" format: ")
	b.WriteString(formatStyle.Render(replFormats[m.formatIdx]))
	b.WriteString("\n\n")

	for _, e := range m.history {
		b.WriteString(exprStyle.Render("> " + e.src))
		b.WriteString("\n")
		if e.isErr {
			b.WriteString(errorStyle.Render(e.result))
		} else {
			b.WriteString(resultStyle.Render(e.result))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter eval • ctrl+f format • ctrl+l clear • esc quit"))

	return b.String()
}

func runInteractive() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}
	p := tea.NewProgram(newReplModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
