package engine

import (
	"context"

	"dicehook/internal/logger"
	"dicehook/pkg/slot"
)

// diceCount dispatches on the slot kind. Unknown kinds and non-positive die
// sizes resolve to zero dice so a bad registry entry never blocks a turn.
func (e *Engine) diceCount(ctx context.Context, cfg slot.Config, sess Session, persist bool) (Count, error) {
	if cfg.DieSize <= 0 {
		return Count{}, nil
	}

	switch cfg.Kind {
	case slot.KindAccumulator:
		return e.accumulate(ctx, cfg, sess, persist)
	case slot.KindFixed:
		return Count{Dice: max(0, cfg.FixedCount)}, nil
	case slot.KindSingle:
		return Count{Dice: 1}, nil
	default:
		logger.FromContext(ctx).Warn("unknown slot kind, rolling no dice", "slot", cfg.Name, "kind", string(cfg.Kind))
		return Count{}, nil
	}
}
