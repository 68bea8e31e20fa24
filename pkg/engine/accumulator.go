package engine

import (
	"context"
	"fmt"

	"dicehook/internal/logger"
	"dicehook/pkg/slot"
)

// Count is a resolved dice count together with the depth figures it was
// derived from. Depth fields are zero for non-accumulator kinds.
type Count struct {
	Dice              int `json:"dice"`
	CurrentDepth      int `json:"current_depth"`
	DepthSinceTrigger int `json:"depth_since_trigger"`
}

// accumulate derives an accumulator slot's dice count from the depth
// elapsed since its last trigger.
//
// An uncalibrated baseline adopts the current depth and yields zero dice.
// With persist set, the adopted baseline is written back; without a real
// depth the baseline stays uncalibrated and the count is zero.
func (e *Engine) accumulate(ctx context.Context, cfg slot.Config, sess Session, persist bool) (Count, error) {
	log := logger.FromContext(ctx)
	k := e.key(cfg.Name, sess)

	depth, hasDepth := e.depthFor(ctx, cfg, sess)

	st, _, err := e.store.LoadState(ctx, k)
	if err != nil {
		return Count{}, fmt.Errorf("accumulate %s: %w", cfg.Name, err)
	}

	if !st.Calibrated() {
		if !hasDepth {
			log.Debug("accumulator awaiting depth for calibration", "slot", cfg.Name, "session", sess.ID)
			return Count{}, nil
		}
		st.DepthAtLastTrigger = depth
		if persist {
			if err := e.store.SaveState(ctx, k, st); err != nil {
				return Count{}, fmt.Errorf("calibrate %s: %w", cfg.Name, err)
			}
			log.Debug("accumulator calibrated", "slot", cfg.Name, "session", sess.ID, "depth", depth)
		}
	}

	since := max(0, depth-st.DepthAtLastTrigger)
	count := Count{CurrentDepth: depth, DepthSinceTrigger: since}
	if cfg.AccumulationRate > 0 && cfg.MaxDice > 0 {
		count.Dice = min(since/cfg.AccumulationRate, cfg.MaxDice)
	}
	return count, nil
}

// depthFor resolves the depth seen by cfg: an engine-attached source, then
// the config's own source, then the session's depth. Without any of them
// the depth is 0 and ok is false.
func (e *Engine) depthFor(ctx context.Context, cfg slot.Config, sess Session) (depth int, ok bool) {
	src := e.depthSources[cfg.Name]
	if src == nil {
		src = cfg.DepthSource
	}
	if src != nil {
		if d, ok := src.Depth(ctx, sess.ID); ok {
			return d, true
		}
	}
	if sess.HasDepth {
		return sess.Depth, true
	}
	return 0, false
}
