package slot

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dicehook/pkg/dice"
)

func ptr[T any](v T) *T { return &v }

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults("nat20")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, KindAccumulator, cfg.Kind)
	assert.True(t, cfg.PerSession())
}

func TestPatch_Apply(t *testing.T) {
	base := Defaults("crit")
	out := Patch{
		DieSize:        ptr(6),
		TargetMode:     ptr(dice.ModeGTE),
		Kind:           ptr(KindFixed),
		ResetOnTrigger: ptr(false),
		Message:        ptr("hit {best}"),
	}.Apply(base)

	assert.Equal(t, 6, out.DieSize)
	assert.Equal(t, dice.ModeGTE, out.TargetMode)
	assert.Equal(t, KindFixed, out.Kind)
	assert.False(t, out.ResetOnTrigger)
	assert.Equal(t, "hit {best}", out.Message)

	// untouched fields keep the base values
	assert.Equal(t, base.Target, out.Target)
	assert.Equal(t, base.AccumulationRate, out.AccumulationRate)
	assert.Equal(t, base.Cooldown, out.Cooldown)
	assert.Equal(t, base.ClearOnSessionStart, out.ClearOnSessionStart)
}

func TestPatch_EmptyIsIdentity(t *testing.T) {
	base := Defaults("x")
	assert.Equal(t, base, Patch{}.Apply(base))
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "nat20", false},
		{"dashes and digits", "coffee-break-3", false},
		{"empty", "", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"hidden", ".secret", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"traversal", "../etc", true},
		{"nul", "a\x00b", true},
		{"too long", strings.Repeat("a", MaxNameLength+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var nameErr *InvalidNameError
			assert.True(t, errors.As(err, &nameErr))
		})
	}
}

func TestValidate_Fields(t *testing.T) {
	cfg := Defaults("broken")
	cfg.DieSize = 0
	cfg.AccumulationRate = 0
	cfg.TargetMode = "sideways"
	cfg.Kind = "weighted"
	cfg.Cooldown = "forever"
	cfg.MaxDice = -1

	err := cfg.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "broken", verr.Name)
	assert.Contains(t, verr.Fields, "die_size")
	assert.Contains(t, verr.Fields, "accumulation_rate")
	assert.Contains(t, verr.Fields, "target_mode")
	assert.Contains(t, verr.Fields, "kind")
	assert.Contains(t, verr.Fields, "cooldown")
	assert.Contains(t, verr.Fields, "max_dice")
	assert.Contains(t, err.Error(), "die_size: must be at least 1")
}

func TestValidate_BadNameBeforeFields(t *testing.T) {
	cfg := Defaults("../up")
	cfg.DieSize = 0
	var nameErr *InvalidNameError
	assert.True(t, errors.As(cfg.Validate(), &nameErr))
}

func TestRender(t *testing.T) {
	got := Render("{slotName} rolled {rolls}, best {best} on {diceCount}d", []int{3, 20, 7}, 20, 3, "nat20")
	assert.Equal(t, "nat20 rolled 3, 20, 7, best 20 on 3d", got)

	assert.Equal(t, "no placeholders", Render("no placeholders", nil, 0, 0, "x"))
	assert.Equal(t, "[] 0", Render("[{rolls}] {best}", nil, 0, 0, "x"))
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "die_size", toSnake("DieSize"))
	assert.Equal(t, "kind", toSnake("Kind"))
}
