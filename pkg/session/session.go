// Package session resolves the identity that scopes all per-session state.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// EnvSessionID is consulted when neither an explicit id nor a hook payload
// supplies one.
const EnvSessionID = "CLAUDE_SESSION_ID"

// Fallback is used when nothing at all identifies the session.
const Fallback = "default"

const maxKeyLength = 96

// Sources are the candidate inputs for a session identity, highest
// priority first.
type Sources struct {
	Explicit       string // --session flag
	Payload        string // session_id from the hook payload
	TranscriptPath string // hashed when no id is available
	Cwd            string // hashed when there is no transcript either
}

// Resolve picks the session identity: explicit, then payload, then the
// environment, then a content hash of the transcript path or working
// directory. The result is always a storage-safe key.
func Resolve(src Sources, getenv func(string) string) string {
	for _, candidate := range []string{src.Explicit, src.Payload, getenv(EnvSessionID)} {
		if c := strings.TrimSpace(candidate); c != "" {
			return Key(c)
		}
	}
	for _, seed := range []string{src.TranscriptPath, src.Cwd} {
		if seed != "" {
			return "h-" + shortHash(seed)
		}
	}
	return Fallback
}

// Key maps an arbitrary identity to one that is safe as a file name and
// still unique: anything outside [A-Za-z0-9._-] is replaced and a hash of
// the original is appended whenever the text had to change.
func Key(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	key := strings.TrimLeft(b.String(), ".")
	if key == id && len(key) <= maxKeyLength {
		return key
	}
	if len(key) > maxKeyLength {
		key = key[:maxKeyLength]
	}
	return key + "-" + shortHash(id)
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
