package resolver

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Platform describes the PHP runtime packages are installed for.
// The zero value is an unknown platform that satisfies every requirement.
type Platform struct {
	PHP string

	// Extensions maps "ext-<name>" to the extension version. A nil map
	// means the extensions were not inspected and ext-* requirements pass.
	Extensions map[string]string
}

// Known reports whether anything is known about the platform.
func (p Platform) Known() bool { return p.PHP != "" }

// Satisfies reports whether the platform meets every php and ext-*
// requirement in require. Other platform packages (lib-*, composer-*)
// are not modelled and always pass.
func (p Platform) Satisfies(require map[string]string) bool {
	if !p.Known() {
		return true
	}
	for name, constraint := range require {
		switch {
		case name == "php":
			if !satisfies(constraint, p.PHP) {
				return false
			}
		case strings.HasPrefix(name, "ext-") && p.Extensions != nil:
			version, ok := p.Extensions[name]
			if !ok {
				return false
			}
			if version != "" && !satisfies(constraint, version) {
				return false
			}
		}
	}
	return true
}

// DetectPlatform describes the platform to resolve for. Entries of
// config.platform win; without a php override the php binary is asked for
// its version and loaded modules. A missing binary yields an unknown
// platform rather than an error.
func DetectPlatform(ctx context.Context, overrides map[string]string, phpBinary string) (Platform, error) {
	p := Platform{Extensions: make(map[string]string)}
	if php, ok := overrides["php"]; ok {
		p.PHP = php
		copyExtensions(p.Extensions, overrides)
		return p, nil
	}

	if phpBinary == "" {
		phpBinary = "php"
	}
	bin, err := exec.LookPath(phpBinary)
	if err != nil {
		copyExtensions(p.Extensions, overrides)
		return p, nil
	}

	out, err := exec.CommandContext(ctx, bin, "-r", "echo PHP_VERSION;").Output()
	if err != nil {
		return p, err
	}
	p.PHP = strings.TrimSpace(string(out))

	out, err = exec.CommandContext(ctx, bin, "-m").Output()
	if err != nil {
		return p, err
	}
	for _, ext := range parseModules(out) {
		p.Extensions["ext-"+ext] = p.PHP
	}
	copyExtensions(p.Extensions, overrides)
	return p, nil
}

func copyExtensions(dst, overrides map[string]string) {
	for k, v := range overrides {
		if strings.HasPrefix(k, "ext-") {
			dst[k] = v
		}
	}
}

// parseModules reads `php -m` output. Module names are lowercased with
// spaces turned into dashes ("Zend OPcache" becomes "zend-opcache").
func parseModules(out []byte) []string {
	seen := make(map[string]bool)
	var mods []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		name := strings.ToLower(strings.ReplaceAll(line, " ", "-"))
		if !seen[name] {
			seen[name] = true
			mods = append(mods, name)
		}
	}
	return mods
}
