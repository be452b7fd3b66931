// Package featureflags evaluates operational flags from a flat config string.
// Mural uses them as kill switches and gradual rollouts for write paths, e.g.
// "freeze_comments=on,new_ranking=25%".
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Manager holds parsed flags. The zero value (nil) reports every flag off.
type Manager struct {
	flags map[string]string
}

// NewManager parses a comma-separated "name=value" list. Malformed pairs are
// skipped rather than rejected so a typo in one flag cannot take out the rest.
func NewManager(raw string) *Manager {
	flags := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		name := normalize(parts[0])
		value := normalize(parts[1])
		if name == "" || value == "" {
			continue
		}
		flags[name] = value
	}
	return &Manager{flags: flags}
}

// Enabled reports whether a flag applies to the given user. Values:
//   - on/true/1 and off/false/0
//   - "N%" rolls out to a deterministic per-user bucket; anonymous requests
//     (userID 0) are never in a partial rollout
//
// Unknown flags are off.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	if strings.HasSuffix(value, "%") {
		pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
		if err != nil || pct <= 0 {
			return false
		}
		if pct >= 100 {
			return true
		}
		if userID == 0 {
			return false
		}
		return bucket(name, userID) < pct
	}

	return false
}

// Snapshot evaluates every configured flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	if m == nil {
		return map[string]bool{}
	}
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// bucket maps (flag, user) to a stable 0..99 slot so rollout membership does
// not change between requests or restarts.
func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
