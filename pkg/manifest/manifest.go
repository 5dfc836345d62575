package manifest

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	bumperrors "github.com/matzehuels/bumper/pkg/errors"
)

// DefaultFilename is the manifest looked up when $COMPOSER is unset.
const DefaultFilename = "composer.json"

// Section names a dependency section of the manifest.
type Section string

const (
	// Require holds runtime dependencies.
	Require Section = "require"
	// RequireDev holds development dependencies.
	RequireDev Section = "require-dev"
)

// Sections returns the dependency sections in processing order.
func Sections() []Section {
	return []Section{Require, RequireDev}
}

// Dev reports whether s is the development section.
func (s Section) Dev() bool { return s == RequireDev }

// Dependency is one declared package and its constraint.
type Dependency struct {
	Name       string
	Constraint string
}

// Manifest is the parsed view of a composer.json.
type Manifest struct {
	Path             string
	Require          []Dependency
	RequireDev       []Dependency
	MinimumStability string
	PreferStable     bool

	// Platform holds config.platform overrides ("php" => "8.2.0").
	Platform map[string]string
}

// Dependencies returns the dependencies of section s in declaration order.
func (m *Manifest) Dependencies(s Section) []Dependency {
	switch s {
	case Require:
		return m.Require
	case RequireDev:
		return m.RequireDev
	default:
		return nil
	}
}

// Locate returns the manifest path for the project in dir. $COMPOSER, when
// set, names the manifest relative to dir.
func Locate(dir string) (string, error) {
	name := os.Getenv("COMPOSER")
	if name == "" {
		name = DefaultFilename
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, name)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", bumperrors.New(bumperrors.ErrCodeFileNotFound, "%s not found in %s", name, dir)
	}
	if err != nil {
		return "", bumperrors.Wrap(bumperrors.ErrCodeInvalidManifest, err, "stat %s", path)
	}
	if info.IsDir() {
		return "", bumperrors.New(bumperrors.ErrCodeFileNotFound, "%s is a directory", path)
	}
	return path, nil
}

// platformPackageRegex is Composer's reserved platform package pattern.
var platformPackageRegex = regexp.MustCompile(`(?i)^(?:php(?:-64bit|-ipv6|-zts|-debug)?|hhvm|(?:ext|lib)-[a-z0-9](?:[_.-]?[a-z0-9]+)*|composer(?:-(?:plugin|runtime)-api)?)$`)

// IsPlatformPackage reports whether name is a platform pseudo-package
// (php, ext-*, lib-*, composer-plugin-api, ...).
func IsPlatformPackage(name string) bool {
	return platformPackageRegex.MatchString(name)
}

// DevPrefix marks a constraint that references a development branch.
const DevPrefix = "dev-"

// IsDevConstraint reports whether constraint points at a branch rather
// than a release.
func IsDevConstraint(constraint string) bool {
	return strings.HasPrefix(constraint, DevPrefix)
}
