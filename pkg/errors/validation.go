package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const maxPackageNameLen = 256

// packageNamePattern is Composer's vendor/package naming rule.
var packageNamePattern = regexp.MustCompile(`^[a-z0-9]([_.-]?[a-z0-9]+)*/[a-z0-9](([_.]|-{1,2})?[a-z0-9]+)*$`)

// ValidatePackageName checks that name is a Composer package name that is
// safe to interpolate into a repository URL. Case is ignored, as Composer
// ignores it.
func ValidatePackageName(name string) error {
	switch {
	case name == "":
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	case len(name) > maxPackageNameLen:
		return New(ErrCodeInvalidPackage, "package name too long (max %d characters)", maxPackageNameLen)
	case strings.ContainsFunc(name, unicode.IsControl):
		return New(ErrCodeInvalidPackage, "package name contains control characters")
	case strings.Contains(name, ".."), strings.Contains(name, `\`):
		return New(ErrCodeInvalidPackage, "package name contains a path sequence: %q", name)
	case !packageNamePattern.MatchString(strings.ToLower(name)):
		return New(ErrCodeInvalidPackage, "invalid Composer package name: %q", name)
	}
	return nil
}
