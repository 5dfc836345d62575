package manifest

import (
	"encoding/json"
	"os"

	bumperrors "github.com/matzehuels/bumper/pkg/errors"
)

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, bumperrors.New(bumperrors.ErrCodeFileNotFound, "%s not found", path)
	}
	if err != nil {
		return nil, bumperrors.Wrap(bumperrors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	return Parse(path, data)
}

// Parse parses manifest content; path is only recorded on the result.
func Parse(path string, data []byte) (*Manifest, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, bumperrors.Wrap(bumperrors.ErrCodeInvalidManifest, err, "parse %s", path)
	}

	m := &Manifest{Path: path}
	if m.Require, err = doc.Dependencies(Require); err != nil {
		return nil, bumperrors.Wrap(bumperrors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	if m.RequireDev, err = doc.Dependencies(RequireDev); err != nil {
		return nil, bumperrors.Wrap(bumperrors.ErrCodeInvalidManifest, err, "parse %s", path)
	}

	var extra struct {
		MinimumStability string `json:"minimum-stability"`
		PreferStable     bool   `json:"prefer-stable"`
		Config           struct {
			Platform map[string]any `json:"platform"`
		} `json:"config"`
	}
	if err := json.Unmarshal(data, &extra); err != nil {
		return nil, bumperrors.Wrap(bumperrors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	m.MinimumStability = extra.MinimumStability
	m.PreferStable = extra.PreferStable

	// A platform entry set to false disables the package; only versions count.
	for name, v := range extra.Config.Platform {
		if s, ok := v.(string); ok {
			if m.Platform == nil {
				m.Platform = make(map[string]string)
			}
			m.Platform[name] = s
		}
	}
	return m, nil
}
