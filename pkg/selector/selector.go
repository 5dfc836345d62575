package selector

import (
	"maps"
	"slices"
	"strings"
)

// Universal selects every package.
const Universal Mask = "*"

// Mask is a glob pattern over package names.
type Mask string

// Masks is an ordered set of masks.
type Masks []Mask

// Groups maps shortcut names to the masks they stand for.
type Groups map[string][]Mask

// DefaultGroups returns the built-in shortcut groups.
func DefaultGroups() Groups {
	return Groups{
		"laravel":  {"laravel/*", "illuminate/*", "livewire/*"},
		"symfony":  {"symfony/*"},
		"phpunit":  {"phpunit/*", "sebastian/*", "phar-io/*"},
		"doctrine": {"doctrine/*"},
		"phpstan":  {"phpstan/*", "larastan/*", "phpstan-*/*"},
	}
}

// Merge returns a copy of g with other's groups added; other wins on
// name clashes.
func (g Groups) Merge(other Groups) Groups {
	out := maps.Clone(g)
	if out == nil {
		out = Groups{}
	}
	for name, masks := range other {
		out[name] = slices.Clone(masks)
	}
	return out
}

// Names returns the group names in sorted order.
func (g Groups) Names() []string {
	return slices.Sorted(maps.Keys(g))
}

// Expand converts raw arguments into masks.
func Expand(args []string, groups Groups) Masks {
	var masks Masks
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		if group, ok := groups[arg]; ok {
			masks = masks.add(group...)
			continue
		}
		if !strings.Contains(arg, "/") {
			arg += "/*"
		}
		masks = masks.add(Mask(arg))
	}
	if len(masks) == 0 {
		return Masks{Universal}
	}
	return masks
}

func (m Masks) add(masks ...Mask) Masks {
	for _, mask := range masks {
		if !slices.Contains(m, mask) {
			m = append(m, mask)
		}
	}
	return m
}

// Matches reports whether name matches at least one mask.
func (m Masks) Matches(name string) bool {
	for _, mask := range m {
		if Match(string(mask), name) {
			return true
		}
	}
	return false
}

// Strings returns the masks as plain strings.
func (m Masks) Strings() []string {
	out := make([]string, len(m))
	for i, mask := range m {
		out[i] = string(mask)
	}
	return out
}
