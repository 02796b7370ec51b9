// ABOUTME: Per-message read-more state and the collapsed/expanded section projection
// ABOUTME: Pure view state - never persisted, never mutates the section list

package answer

import "sync"

// Disclosure tracks which messages are currently expanded. It owns nothing
// but the id set; section data is never read or written here. Expansion is
// independent across message ids.
type Disclosure struct {
	mu       sync.RWMutex
	expanded map[string]struct{}
}

// NewDisclosure returns an empty disclosure state (everything collapsed).
func NewDisclosure() *Disclosure {
	return &Disclosure{expanded: make(map[string]struct{})}
}

// IsExpanded reports whether the message is currently expanded.
func (d *Disclosure) IsExpanded(messageID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.expanded[messageID]
	return ok
}

// Toggle flips the expansion state for a single message. Toggling twice
// restores the original membership.
func (d *Disclosure) Toggle(messageID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.expanded[messageID]; ok {
		delete(d.expanded, messageID)
	} else {
		d.expanded[messageID] = struct{}{}
	}
}

// Visible projects the section list for rendering. Collapsed messages show
// every intro section plus the section at index 1 of the full list, which
// is the first headed section whenever an intro was synthesized. Expanded
// messages show everything.
func Visible(sections []Section, expanded bool) []Section {
	if expanded {
		return sections
	}
	var out []Section
	for _, sec := range sections {
		if sec.Kind == KindIntro {
			out = append(out, sec)
		}
	}
	if len(sections) > 1 && sections[1].Kind != KindIntro {
		out = append(out, sections[1])
	}
	return out
}
