package resolver

import (
	"cmp"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/bumper/pkg/integrations/packagist"
)

// Candidate is the best installable release of a package.
type Candidate struct {
	Name      string
	Version   string // as published, e.g. "v2.3.0"
	Stability Stability
	Require   map[string]string
}

// Policy mirrors the manifest's minimum-stability and prefer-stable.
type Policy struct {
	MinimumStability Stability
	PreferStable     bool
}

type release struct {
	version   packagist.Version
	semver    *semver.Version
	stability Stability
}

// selectBest picks the release a Composer update would install: the highest
// acceptable release, or the highest stable one when prefer-stable is set
// and a stable release exists. installable filters on platform requirements.
func selectBest(name string, versions []packagist.Version, policy Policy, installable func(require map[string]string) bool) *Candidate {
	var best, bestStable *release
	for _, v := range versions {
		stability := StabilityOf(v.Version)
		if stability == Dev || !policy.MinimumStability.Allows(stability) {
			continue
		}
		sv, err := semver.NewVersion(v.Version)
		if err != nil {
			continue
		}
		if !installable(v.Require) {
			continue
		}

		r := &release{version: v, semver: sv, stability: stability}
		if best == nil || compareReleases(r, best) > 0 {
			best = r
		}
		if stability == Stable && (bestStable == nil || compareReleases(r, bestStable) > 0) {
			bestStable = r
		}
	}

	if policy.PreferStable && bestStable != nil {
		best = bestStable
	}
	if best == nil {
		return nil
	}
	return &Candidate{
		Name:      name,
		Version:   best.version.Version,
		Stability: best.stability,
		Require:   best.version.Require,
	}
}

// compareReleases orders by version core, then by stability (stable above
// RC above beta above alpha), then by the pre-release identifiers.
func compareReleases(a, b *release) int {
	if c := cmp.Compare(a.semver.Major(), b.semver.Major()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.semver.Minor(), b.semver.Minor()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.semver.Patch(), b.semver.Patch()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.stability, a.stability); c != 0 {
		return c
	}
	return a.semver.Compare(b.semver)
}

var (
	composerOr     = regexp.MustCompile(`\s*\|\|?\s*`)
	stabilityFlag  = regexp.MustCompile(`@[a-zA-Z]+`)
	versionPattern = regexp.MustCompile(`^v?\d+(\.\d+){0,2}`)
	boundPattern   = regexp.MustCompile(`\d+(\.\d+){0,2}`)
)

// satisfies reports whether version meets a Composer constraint. Constraints
// that cannot be parsed are treated as unmet.
func satisfies(constraint, version string) bool {
	constraint = strings.TrimSpace(constraint)
	if constraint == "" || constraint == "*" {
		return true
	}
	constraint = stabilityFlag.ReplaceAllString(constraint, "")
	constraint = composerOr.ReplaceAllString(constraint, " || ")

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false
	}
	v, err := semver.NewVersion(platformVersion(version))
	if err != nil {
		return false
	}
	return c.Check(v)
}

// Below reports whether c is older than every version named in constraint,
// so that declaring c would lower the requirement. Constraints naming no
// version (such as "*") are never above a candidate.
func (c *Candidate) Below(constraint string) bool {
	if satisfies(constraint, c.Version) {
		return false
	}
	v, err := semver.NewVersion(c.Version)
	if err != nil {
		return false
	}
	bounds := boundPattern.FindAllString(stabilityFlag.ReplaceAllString(constraint, ""), -1)
	if len(bounds) == 0 {
		return false
	}
	for _, b := range bounds {
		bound, err := semver.NewVersion(b)
		if err != nil || !v.LessThan(bound) {
			return false
		}
	}
	return true
}

// platformVersion keeps the numeric part of a platform version so that
// distribution builds like "8.2.12-1ubuntu1" compare as releases.
func platformVersion(version string) string {
	if m := versionPattern.FindString(strings.TrimSpace(version)); m != "" {
		return m
	}
	return version
}

// RecommendedConstraint is the constraint Composer suggests when a package
// is required without one: "^X.Y" for X >= 1, "^0.Y.Z" below 1.0, with a
// "@<stability>" flag for pre-releases.
func RecommendedConstraint(c *Candidate) string {
	v, err := semver.NewVersion(c.Version)
	if err != nil {
		return c.Version
	}

	var rec string
	if v.Major() >= 1 {
		rec = fmt.Sprintf("^%d.%d", v.Major(), v.Minor())
	} else {
		rec = fmt.Sprintf("^0.%d.%d", v.Minor(), v.Patch())
	}
	if c.Stability != Stable {
		rec += "@" + c.Stability.String()
	}
	return rec
}
