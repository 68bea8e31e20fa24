package main

import (
	"strings"
	"testing"
)

func TestProbCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want float64
	}{
		{name: "defaults", args: []string{"prob"}, want: 5},
		{name: "four d20", args: []string{"prob", "--dice", "4"}, want: 18.55},
		{name: "gte", args: []string{"prob", "--dice", "1", "--die", "6", "--target", "4", "--mode", "gte"}, want: 50},
		{name: "zero dice", args: []string{"prob", "--dice", "0"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				Probability float64 `json:"probability"`
			}
			decode(t, mustRun(t, newTestEnv(t, nil), tt.args...), &got)
			if got.Probability != tt.want {
				t.Errorf("probability = %v, want %v", got.Probability, tt.want)
			}
		})
	}

	if _, err := run(t, newTestEnv(t, nil), "prob", "--mode", "over"); err == nil || !strings.Contains(err.Error(), "unknown target mode") {
		t.Errorf("bad mode: want error, got %v", err)
	}
}

func TestVersionCmd(t *testing.T) {
	out := mustRun(t, newTestEnv(t, nil), "version")
	if !strings.HasPrefix(out, "dicehook ") {
		t.Errorf("version output = %q", out)
	}
}
