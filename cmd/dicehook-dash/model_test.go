package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"dicehook/pkg/engine"
	"dicehook/pkg/slot"
)

type fakeEstimator struct {
	ests []engine.Estimate
	err  error
}

func (f fakeEstimator) EstimateAll(context.Context, engine.Session) ([]engine.Estimate, error) {
	return f.ests, f.err
}

func testSource(est estimator) *dataSource {
	return &dataSource{
		est: est,
		resolve: func(context.Context) engine.Session {
			return engine.Session{ID: "s1"}.WithDepth(21)
		},
	}
}

func sampleEstimates() []engine.Estimate {
	acc := slot.Defaults("acc")
	fixed := slot.Defaults("fix")
	fixed.Kind = slot.KindFixed
	return []engine.Estimate{
		{Slot: acc, Count: engine.Count{Dice: 3, CurrentDepth: 21, DepthSinceTrigger: 21}, Probability: 14.26},
		{Slot: fixed, OnCooldown: true},
	}
}

func TestModelSnapshotRendersRows(t *testing.T) {
	ds := testSource(fakeEstimator{ests: sampleEstimates()})
	m := newModel(context.Background(), ds, nil)

	updated, _ := m.Update(snapshotMsg(ds.fetch(context.Background())))
	m = updated.(Model)

	rows := m.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "acc" || rows[0][4] != "21" || rows[0][5] != "3" || rows[0][6] != "14.26%" {
		t.Errorf("accumulator row = %v", rows[0])
	}
	if rows[1][7] != "fired" || rows[1][4] != "-" {
		t.Errorf("cooldown row = %v", rows[1])
	}

	view := m.View()
	for _, want := range []string{"session s1", "depth 21", "acc", "1 fired this session"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModelViewStates(t *testing.T) {
	tests := []struct {
		name string
		est  fakeEstimator
		want string
	}{
		{name: "empty registry", est: fakeEstimator{}, want: "No slots registered"},
		{name: "fetch error", est: fakeEstimator{err: errors.New("disk gone")}, want: "disk gone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := testSource(tt.est)
			m := newModel(context.Background(), ds, nil)
			updated, _ := m.Update(snapshotMsg(ds.fetch(context.Background())))

			if view := updated.(Model).View(); !strings.Contains(view, tt.want) {
				t.Errorf("View() missing %q, got:\n%s", tt.want, view)
			}
		})
	}

	m := newModel(context.Background(), testSource(fakeEstimator{}), nil)
	if !strings.Contains(m.View(), "Loading") {
		t.Error("initial view should show loading")
	}
}

func TestModelKeys(t *testing.T) {
	m := newModel(context.Background(), testSource(fakeEstimator{}), nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("r should return a fetch command")
	}
	if _, ok := cmd().(snapshotMsg); !ok {
		t.Error("r should fetch a snapshot")
	}
}

func TestModelRefreshTriggers(t *testing.T) {
	m := newModel(context.Background(), testSource(fakeEstimator{}), nil)

	if _, cmd := m.Update(tickMsg{}); cmd == nil {
		t.Error("tick should schedule a fetch and the next tick")
	}
	if _, cmd := m.Update(fsChangeMsg{}); cmd == nil {
		t.Error("file change should schedule a fetch")
	}
}

func TestRobotMode(t *testing.T) {
	ds := testSource(fakeEstimator{ests: sampleEstimates()})
	data, err := robotMode(ds.fetch(context.Background()))
	if err != nil {
		t.Fatalf("robotMode: %v", err)
	}
	for _, want := range []string{`"session":"s1"`, `"depth":21`, `"probability":14.26`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("snapshot missing %s: %s", want, data)
		}
	}
}
