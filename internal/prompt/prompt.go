/*
PURPOSE:
  Asks the operator yes/no questions.

REQUIREMENTS:
  User-specified:
  - Every confirmation defaults to yes; --yes skips them all.

  Implementation-discovered:
  - Ctrl-C or Esc at the prompt answers no.

ARCHITECTURE INTEGRATION:
  - Used by: internal/release
  - Dependencies: github.com/charmbracelet/bubbletea

USAGE:
  ok, err := prompt.NewTea().Confirm(ctx, "Continue with release?", true)
*/

package prompt

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/daryltucker/monorepo-release/internal/output"
)

// Confirmer answers a yes/no question. def is the answer for a bare Enter.
type Confirmer interface {
	Confirm(ctx context.Context, question string, def bool) (bool, error)
}

// Auto answers yes without asking. It backs --yes.
type Auto struct{}

func (Auto) Confirm(context.Context, string, bool) (bool, error) { return true, nil }

// Tea asks on a terminal using a small bubbletea program.
type Tea struct {
	In  io.Reader
	Out io.Writer
}

// NewTea returns a Tea confirmer bound to stdin/stdout.
func NewTea() *Tea { return &Tea{In: os.Stdin, Out: os.Stdout} }

func (t *Tea) Confirm(ctx context.Context, question string, def bool) (bool, error) {
	p := tea.NewProgram(newConfirmModel(question, def),
		tea.WithContext(ctx),
		tea.WithInput(t.In),
		tea.WithOutput(t.Out),
	)
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("prompt: %w", err)
	}
	m, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("prompt: unexpected model %T", final)
	}
	return m.answer, nil
}

type confirmModel struct {
	question string
	def      bool
	answer   bool
	done     bool
}

func newConfirmModel(question string, def bool) confirmModel {
	return confirmModel{question: question, def: def}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answer, m.done = true, true
	case "n", "N", "esc", "ctrl+c":
		m.answer, m.done = false, true
	case "enter":
		m.answer, m.done = m.def, true
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) View() string {
	hint := "(y/N)"
	if m.def {
		hint = "(Y/n)"
	}
	line := output.Green("?") + " " + m.question + " " + hint + " "
	if m.done {
		if m.answer {
			return line + "Yes\n"
		}
		return line + "No\n"
	}
	return line
}
