package resolver

import (
	"regexp"
	"strings"

	bumperrors "github.com/matzehuels/bumper/pkg/errors"
)

// Stability is the release stability of a version. Lower values are more
// stable, so "at least as stable as min" is s <= min.
type Stability int

const (
	Stable Stability = iota
	RC
	Beta
	Alpha
	Dev
)

var stabilityNames = [...]string{"stable", "RC", "beta", "alpha", "dev"}

func (s Stability) String() string {
	if s < Stable || s > Dev {
		return "unknown"
	}
	return stabilityNames[s]
}

// Allows reports whether a release of stability v is acceptable when s is
// the minimum stability.
func (s Stability) Allows(v Stability) bool { return v <= s }

// ParseStability parses a minimum-stability value. An empty string is
// Composer's default, stable.
func ParseStability(s string) (Stability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stable":
		return Stable, nil
	case "rc":
		return RC, nil
	case "beta":
		return Beta, nil
	case "alpha":
		return Alpha, nil
	case "dev":
		return Dev, nil
	}
	return Stable, bumperrors.New(bumperrors.ErrCodeInvalidInput, "unknown stability %q", s)
}

var stabilitySuffix = regexp.MustCompile(`(?i)[._-]?(stable|beta|b|rc|alpha|a|patch|pl|p)(?:[.-]?\d+)*$`)

// StabilityOf derives the stability of a published version string.
func StabilityOf(version string) Stability {
	v := strings.ToLower(strings.TrimSpace(version))
	if strings.HasPrefix(v, "dev-") || strings.HasSuffix(v, "-dev") || strings.HasSuffix(v, ".dev") {
		return Dev
	}
	m := stabilitySuffix.FindStringSubmatch(v)
	if m == nil {
		return Stable
	}
	switch m[1] {
	case "beta", "b":
		return Beta
	case "alpha", "a":
		return Alpha
	case "rc":
		return RC
	}
	return Stable
}
