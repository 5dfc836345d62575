package persist

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	bumperrors "github.com/matzehuels/bumper/pkg/errors"
	"github.com/matzehuels/bumper/pkg/update"
)

// Strategy tells how a manifest was written.
type Strategy int

const (
	// Unchanged means there was nothing to write.
	Unchanged Strategy = iota
	// Patched means the constraint strings were replaced in place.
	Patched
	// Rewritten means the manifest was serialised from its parsed form.
	Rewritten
)

func (s Strategy) String() string {
	switch s {
	case Patched:
		return "patched"
	case Rewritten:
		return "rewritten"
	default:
		return "unchanged"
	}
}

// Result describes a completed write.
type Result struct {
	Strategy Strategy
	Path     string
	Applied  int
}

// Persister writes decisions to manifest files.
type Persister struct {
	logger *log.Logger
}

// New returns a Persister. A nil logger discards log output.
func New(logger *log.Logger) *Persister {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Persister{logger: logger}
}

// Persist writes decisions to the manifest at path with a discarding logger.
func Persist(path string, decisions []update.Decision) (Result, error) {
	return New(nil).Persist(path, decisions)
}

// Persist writes decisions to the manifest at path, patching in place when
// possible and rewriting it otherwise. With no decisions the file is not
// touched.
func (p *Persister) Persist(path string, decisions []update.Decision) (Result, error) {
	res := Result{Strategy: Unchanged, Path: path}
	if len(decisions) == 0 {
		return res, nil
	}

	src, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return res, bumperrors.New(bumperrors.ErrCodeFileNotFound, "%s not found", path)
	}
	if err != nil {
		return res, bumperrors.Wrap(bumperrors.ErrCodeInternal, err, "read %s", path)
	}

	out, err := Patch(src, decisions)
	strategy := Patched
	if err != nil {
		p.logger.Debug("structural patch failed, rewriting manifest", "path", path, "err", err)
		if out, err = Rewrite(src, decisions); err != nil {
			return res, err
		}
		strategy = Rewritten
	}

	if err := writeFile(path, out); err != nil {
		return res, bumperrors.Wrap(bumperrors.ErrCodeInternal, err, "write %s", path)
	}
	p.logger.Debug("manifest written", "path", path, "strategy", strategy, "decisions", len(decisions))

	res.Strategy = strategy
	res.Applied = len(decisions)
	return res, nil
}

// writeFile replaces path atomically, keeping its permissions. Symlinks are
// followed so the link itself survives.
func writeFile(path string, data []byte) error {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, mode); err != nil {
		return err
	}
	if err := os.Chmod(tmp, mode); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
