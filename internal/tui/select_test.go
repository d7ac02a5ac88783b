package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(v float64) *float64 { return &v }

func sampleChoices() []BookChoice {
	return []BookChoice{
		{Index: 0, Title: "Duna", Authors: []string{"Frank Herbert"}, Year: 2001, Rating: float(4), Series: "Duna"},
		{Index: 1, Title: "Spasitel Duny", Authors: []string{"Frank Herbert"}, Publisher: "Baronet"},
	}
}

func withProgram(t *testing.T, fn func(m tea.Model) (tea.Model, error)) {
	t.Helper()
	orig := runProgram
	runProgram = fn
	t.Cleanup(func() { runProgram = orig })
}

func TestSelect_EmptyChoicesSkips(t *testing.T) {
	withProgram(t, func(m tea.Model) (tea.Model, error) {
		t.Fatal("program should not run")
		return m, nil
	})

	result, err := Select("Duna", nil)
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, result.Action)
}

func TestSelect_EnterSelectsHighlighted(t *testing.T) {
	withProgram(t, func(m tea.Model) (tea.Model, error) {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		return m, nil
	})

	result, err := Select("Duna", sampleChoices())
	require.NoError(t, err)
	require.Equal(t, ActionSelected, result.Action)
	require.NotNil(t, result.Selection)
	assert.Equal(t, 1, result.Selection.Index)
	assert.Equal(t, "Spasitel Duny", result.Selection.Title)
}

func TestSelect_SkipAndQuit(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want SelectionAction
	}{
		{name: "skip", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}, want: ActionSkipped},
		{name: "esc", key: tea.KeyMsg{Type: tea.KeyEsc}, want: ActionSkipped},
		{name: "quit", key: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, want: ActionStopped},
		{name: "ctrl+c", key: tea.KeyMsg{Type: tea.KeyCtrlC}, want: ActionStopped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withProgram(t, func(m tea.Model) (tea.Model, error) {
				m, _ = m.Update(tt.key)
				return m, nil
			})

			result, err := Select("Duna", sampleChoices())
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Action)
			assert.Nil(t, result.Selection)
		})
	}
}

func TestSelect_ProgramError(t *testing.T) {
	withProgram(t, func(m tea.Model) (tea.Model, error) {
		return nil, errors.New("no tty")
	})

	_, err := Select("Duna", sampleChoices())
	assert.EqualError(t, err, "no tty")
}

func TestModel_ViewShowsQuery(t *testing.T) {
	items := []bookItem{{BookChoice: sampleChoices()[0]}}
	m := newModel("Duna Herbert", items)

	view := m.View()
	assert.Contains(t, view, "Books found for: Duna Herbert")
	assert.Contains(t, view, "DUNA (2001)")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "★★★★☆", formatRating(float(4)))
	assert.Equal(t, "unrated", formatRating(nil))
	assert.Equal(t, "Duna | Baronet | ISBN 978", formatMetadata(BookChoice{Series: "Duna", Publisher: "Baronet", ISBN: "978"}, 80))
	assert.Equal(t, "No metadata available", formatMetadata(BookChoice{}, 80))
	assert.Equal(t, "Příli...", truncate("Příliš žluťoučký kůň", 8))
	assert.Equal(t, 40, clamp(72, 30, 40))
	assert.Equal(t, 60, clamp(72, 60, 40))
}
