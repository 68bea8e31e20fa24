package main

import (
	"testing"

	"dicehook/pkg/engine"
)

// registerAlways adds a slot that fires on every roll.
func registerAlways(t *testing.T, env *cliEnv, name string, extra ...string) {
	t.Helper()
	args := append([]string{"register", name, "--kind", "fixed", "--die", "1", "--target", "1"}, extra...)
	mustRun(t, env, args...)
}

func TestCheckCmd(t *testing.T) {
	env := newTestEnv(t, nil)
	registerAlways(t, env, "always")

	var first engine.Outcome
	decode(t, mustRun(t, env, "check", "always", "--session", "s1"), &first)
	if !first.Triggered || first.DiceCount != 1 || first.Best != 1 {
		t.Fatalf("first check should trigger with one die, got %+v", first)
	}

	var second engine.Outcome
	decode(t, mustRun(t, env, "check", "always", "--session", "s1"), &second)
	if second.Triggered || second.DiceCount != 0 {
		t.Errorf("per-session cooldown should block the second check, got %+v", second)
	}

	var other engine.Outcome
	decode(t, mustRun(t, env, "check", "always", "--session", "s2"), &other)
	if !other.Triggered {
		t.Error("cooldown must not leak into another session")
	}
}

func TestCheckCmd_UnknownSlotIsInert(t *testing.T) {
	env := newTestEnv(t, nil)

	var o engine.Outcome
	decode(t, mustRun(t, env, "check", "ghost"), &o)
	if o.Triggered || o.DiceCount != 0 || len(o.Rolls) != 0 {
		t.Errorf("unknown slot should be inert, got %+v", o)
	}
}

func TestRollCmd_SharedPool(t *testing.T) {
	env := newTestEnv(t, nil)
	mustRun(t, env, "register", "a", "--kind", "fixed", "--fixed", "2", "--cooldown", "none")
	mustRun(t, env, "register", "b", "--kind", "fixed", "--fixed", "3", "--cooldown", "none")

	var outs []engine.Outcome
	decode(t, mustRun(t, env, "roll", "--session", "s"), &outs)

	if len(outs) != 2 || outs[0].SlotName != "a" || outs[1].SlotName != "b" {
		t.Fatalf("roll should report slots in name order, got %+v", outs)
	}
	if len(outs[0].Rolls) != 2 || len(outs[1].Rolls) != 3 {
		t.Fatalf("unexpected roll counts: %+v", outs)
	}
	if outs[0].Rolls[0] != outs[1].Rolls[0] {
		t.Errorf("slots with the same die should share the first roll: %v vs %v", outs[0].Rolls, outs[1].Rolls)
	}
}

func TestStatusCmd_AccumulatorFromDepth(t *testing.T) {
	env := newTestEnv(t, nil)
	mustRun(t, env, "register", "acc")

	var got struct {
		Session string            `json:"session"`
		Slots   []engine.Estimate `json:"slots"`
	}
	decode(t, mustRun(t, env, "status", "--session", "s", "--depth", "21"), &got)

	if got.Session != "s" {
		t.Errorf("session = %q, want s", got.Session)
	}
	if len(got.Slots) != 1 {
		t.Fatalf("want one estimate, got %d", len(got.Slots))
	}
	if got.Slots[0].Count.Dice != 3 {
		t.Errorf("21 turns at rate 7 should give 3 dice, got %d", got.Slots[0].Count.Dice)
	}
	if got.Slots[0].Probability != 14.26 {
		t.Errorf("3d20 exact 20 should be 14.26%%, got %v", got.Slots[0].Probability)
	}
}

func TestResetClearAndSessionStartCmd(t *testing.T) {
	env := newTestEnv(t, nil)
	registerAlways(t, env, "always")
	registerAlways(t, env, "sticky", "--clear-on-start=false")

	mustRun(t, env, "roll", "--session", "s")

	var blocked []engine.Outcome
	decode(t, mustRun(t, env, "roll", "--session", "s"), &blocked)
	for _, o := range blocked {
		if o.Triggered {
			t.Fatalf("%s should be on cooldown", o.SlotName)
		}
	}

	var started struct {
		Cleared []string `json:"cleared"`
	}
	decode(t, mustRun(t, env, "session-start", "--session", "s"), &started)
	if len(started.Cleared) != 1 || started.Cleared[0] != "always" {
		t.Fatalf("session-start should clear only flagged slots, got %v", started.Cleared)
	}

	mustRun(t, env, "clear", "sticky", "--session", "s")

	var again []engine.Outcome
	decode(t, mustRun(t, env, "roll", "--session", "s"), &again)
	for _, o := range again {
		if !o.Triggered {
			t.Errorf("%s should fire again after clearing", o.SlotName)
		}
	}

	mustRun(t, env, "reset", "always", "--session", "s", "--depth", "4")
}

func TestSessionFromEnvironment(t *testing.T) {
	env := newTestEnv(t, map[string]string{"CLAUDE_SESSION_ID": "from-env"})
	mustRun(t, env, "register", "acc")

	var got struct {
		Session string `json:"session"`
	}
	decode(t, mustRun(t, env, "status"), &got)
	if got.Session != "from-env" {
		t.Errorf("session = %q, want from-env", got.Session)
	}
}
