package persist

import (
	bumperrors "github.com/matzehuels/bumper/pkg/errors"
	"github.com/matzehuels/bumper/pkg/manifest"
	"github.com/matzehuels/bumper/pkg/update"
)

// Rewrite parses src, applies decisions and serialises the whole manifest
// again. Key order is kept; whitespace is normalised to Composer's layout.
// Missing packages and sections are added.
func Rewrite(src []byte, decisions []update.Decision) ([]byte, error) {
	doc, err := manifest.ParseDocument(src)
	if err != nil {
		return nil, bumperrors.Wrap(bumperrors.ErrCodeInvalidManifest, err, "parse manifest")
	}
	for _, d := range decisions {
		if err := doc.SetConstraint(d.Section, d.Package, d.To); err != nil {
			return nil, bumperrors.Wrap(bumperrors.ErrCodeInvalidManifest, err, "update %s", d.Package)
		}
	}
	out, err := doc.Encode()
	if err != nil {
		return nil, bumperrors.Wrap(bumperrors.ErrCodeInvalidManifest, err, "encode manifest")
	}
	return out, nil
}
