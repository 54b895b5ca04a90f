package goods

import (
	"fmt"
	"strings"
)

// Priority is the abstract rank of a workshop choice within an era.
type Priority string

const (
	PriorityPrimary   Priority = "Primary"
	PrioritySecondary Priority = "Secondary"
	PriorityTertiary  Priority = "Tertiary"
)

// Priorities returns the three priorities in rank order.
func Priorities() []Priority {
	return []Priority{PriorityPrimary, PrioritySecondary, PriorityTertiary}
}

// Slot is an abstract resource key of the form (priority, era). It stands in
// for whichever concrete good the user's workshop choice resolves to.
type Slot struct {
	Priority Priority
	Era      Era
}

// String renders the slot in its wire form, e.g. "Primary_BA".
func (s Slot) String() string {
	return fmt.Sprintf("%s_%s", s.Priority, s.Era)
}

// ParseSlot recognizes keys of the form "Primary_BA". It returns false for
// anything else, including concrete good names.
func ParseSlot(key string) (Slot, bool) {
	prefix, suffix, ok := splitEraSuffix(key)
	if !ok {
		return Slot{}, false
	}
	switch Priority(prefix) {
	case PriorityPrimary, PrioritySecondary, PriorityTertiary:
		return Slot{Priority: Priority(prefix), Era: Era(suffix)}, true
	default:
		return Slot{}, false
	}
}

// Selection is the user's per-era 3-tuple of workshop choices.
type Selection struct {
	Primary   string
	Secondary string
	Tertiary  string
}

// Workshop returns the workshop chosen for a priority.
func (s Selection) Workshop(p Priority) string {
	switch p {
	case PriorityPrimary:
		return s.Primary
	case PrioritySecondary:
		return s.Secondary
	case PriorityTertiary:
		return s.Tertiary
	default:
		return ""
	}
}

// Selections holds the workshop choices for every era the user configured.
type Selections map[Era]Selection

// ToSlot maps a suffixed concrete good name (e.g. "wool_BA") to its abstract
// (priority, era) slot under the given selections. Names without a
// recognizable era suffix, or that none of the era's selected workshops
// produce, return false; such goods keep their raw name and must still be
// counted by callers.
func ToSlot(goodName string, sel Selections) (Slot, bool) {
	base, suffix, ok := splitEraSuffix(goodName)
	if !ok {
		return Slot{}, false
	}
	era := Era(suffix)

	choice, ok := sel[era]
	if !ok {
		return Slot{}, false
	}
	for _, p := range Priorities() {
		good, ok := WorkshopGood(era, choice.Workshop(p))
		if ok && good == base {
			return Slot{Priority: p, Era: era}, true
		}
	}
	return Slot{}, false
}

// FromSlot resolves an abstract slot back to the suffixed concrete good name
// the user's selection points at.
func FromSlot(slot Slot, sel Selections) (string, bool) {
	choice, ok := sel[slot.Era]
	if !ok {
		return "", false
	}
	good, ok := WorkshopGood(slot.Era, choice.Workshop(slot.Priority))
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s_%s", good, slot.Era), true
}

// splitEraSuffix splits "wool_BA" into ("wool", "BA"). The suffix must be a
// known era code.
func splitEraSuffix(name string) (base, suffix string, ok bool) {
	i := strings.LastIndex(name, "_")
	if i <= 0 || i == len(name)-1 {
		return "", "", false
	}
	if _, err := ParseEra(name[i+1:]); err != nil {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}
