// Package hook adapts the engine to the Claude Code hook protocol.
//
// Claude Code pipes a JSON payload on stdin. For SessionStart the handler
// clears flagged slots and stays silent. For every other event it runs
// CheckAll; triggered slots have their messages written to stderr with
// exit code 2, which Claude Code shows to the model and then continues.
// Nothing triggered means exit 0 with no output.
//
// The handler fails open: a malformed payload, an unreadable registry or a
// broken state store all degrade to exit 0 so a faulty hook never blocks
// the session.
package hook

import (
	"context"
	"encoding/json"
	"strings"

	"dicehook/internal/logger"
	"dicehook/pkg/engine"
	"dicehook/pkg/session"
	"dicehook/pkg/slot"
)

// Event names with special handling.
const (
	EventSessionStart = "SessionStart"
)

// Exit codes understood by Claude Code.
const (
	ExitOK       = 0
	ExitFeedback = 2
)

// Payload is the subset of the hook payload dicehook reads.
type Payload struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	HookEventName  string `json:"hook_event_name"`
	Cwd            string `json:"cwd"`
	// Source is set on SessionStart: startup, resume, clear or compact.
	Source string `json:"source,omitempty"`
}

// Response is what the binary writes back.
type Response struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Engine is the part of engine.Engine the handler drives.
type Engine interface {
	CheckAll(ctx context.Context, sess engine.Session) ([]engine.Outcome, error)
	SessionStart(ctx context.Context, sess engine.Session) ([]string, error)
}

// SessionFunc turns payload sources into an engine session.
type SessionFunc func(ctx context.Context, src session.Sources) engine.Session

// Handler holds the dependencies of one hook invocation.
type Handler struct {
	Engine   Engine
	Registry engine.Registry
	Session  SessionFunc
}

// Handle processes one hook payload.
func (h *Handler) Handle(ctx context.Context, input []byte) Response {
	log := logger.FromContext(ctx)

	var p Payload
	if err := json.Unmarshal(input, &p); err != nil {
		log.Warn("malformed hook payload", "error", err)
		return Response{ExitCode: ExitOK}
	}

	sess := h.Session(ctx, session.Sources{
		Payload:        p.SessionID,
		TranscriptPath: p.TranscriptPath,
		Cwd:            p.Cwd,
	})
	log = log.With("event", p.HookEventName, "session", sess.ID)

	if p.HookEventName == EventSessionStart {
		cleared, err := h.Engine.SessionStart(ctx, sess)
		if err != nil {
			log.Warn("session start failed", "error", err)
			return Response{ExitCode: ExitOK}
		}
		log.Debug("session start", "source", p.Source, "cleared", cleared)
		return Response{ExitCode: ExitOK}
	}

	outcomes, err := h.Engine.CheckAll(ctx, sess)
	if err != nil {
		log.Warn("check failed", "error", err)
		return Response{ExitCode: ExitOK}
	}

	msgs := h.messages(ctx, outcomes)
	if len(msgs) == 0 {
		return Response{ExitCode: ExitOK}
	}
	return Response{ExitCode: ExitFeedback, Stderr: strings.Join(msgs, "\n") + "\n"}
}

// messages renders the trigger message of every triggered outcome, in
// outcome order.
func (h *Handler) messages(ctx context.Context, outcomes []engine.Outcome) []string {
	var msgs []string
	for _, o := range outcomes {
		if !o.Triggered {
			continue
		}
		tmpl := slot.DefaultMessage
		if h.Registry != nil {
			cfg, err := h.Registry.Get(ctx, o.SlotName)
			if err != nil {
				logger.FromContext(ctx).Warn("slot vanished after trigger", "slot", o.SlotName, "error", err)
			} else if cfg.Message != "" {
				tmpl = cfg.Message
			}
		}
		msgs = append(msgs, slot.Render(tmpl, o.Rolls, o.Best, o.DiceCount, o.SlotName))
	}
	return msgs
}
