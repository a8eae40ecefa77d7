package watch

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailstackctl/internal/orchestrator"
)

func testRows() []ServiceRow {
	return []ServiceRow{
		{
			Name:      "postfix",
			Essential: true,
			Active:    true,
			Ports: []orchestrator.PortStatus{
				{PortSpec: orchestrator.PortSpec{Port: 25, Label: "SMTP"}, Bound: true},
				{PortSpec: orchestrator.PortSpec{Port: 587, Label: "Submission"}, Bound: false},
			},
		},
		{Name: "nginx", Active: false},
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "postfix", Truncate("postfix", 12))
	assert.Equal(t, "postfi…", Truncate("postfix-long", 7))
	assert.Equal(t, "", Truncate("", 5))
}

func TestModelShowsSpinnerBeforeFirstFetch(t *testing.T) {
	m := NewModel(func(context.Context) []ServiceRow { return nil }, time.Second, nil)
	assert.Contains(t, m.View(), "gathering service state")
}

func TestModelRendersRowsAfterStatusMsg(t *testing.T) {
	m := NewModel(func(context.Context) []ServiceRow { return testRows() }, time.Second, nil)

	updated, cmd := m.Update(statusMsg(testRows()))
	model := updated.(Model)

	require.NotNil(t, cmd, "a status update must schedule the next tick")
	view := model.View()
	assert.Contains(t, view, "postfix*", "essential services are marked")
	assert.Contains(t, view, "25/SMTP")
	assert.Contains(t, view, "nginx")
	assert.Contains(t, view, "stopped")
}

func TestModelQuitsOnQ(t *testing.T) {
	m := NewModel(func(context.Context) []ServiceRow { return nil }, time.Second, nil)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	model := updated.(Model)

	require.NotNil(t, cmd)
	assert.Equal(t, "", model.View(), "view clears on quit")
}

func TestModelTickTriggersFetch(t *testing.T) {
	fetched := 0
	m := NewModel(func(context.Context) []ServiceRow {
		fetched++
		return testRows()
	}, 10*time.Millisecond, nil)

	_, cmd := m.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)

	msg := cmd()
	rows, ok := msg.(statusMsg)
	require.True(t, ok)
	assert.Equal(t, 1, fetched)
	assert.Len(t, rows, 2)
}
