package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	bumperrors "github.com/matzehuels/bumper/pkg/errors"
	"github.com/matzehuels/bumper/pkg/integrations/packagist"
)

//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks

// Resolver finds candidate releases and recommends constraints for them.
type Resolver interface {
	// FindBestCandidate returns the newest installable release of name,
	// or nil without error when there is none (unknown package, nothing
	// acceptable for the platform or stability policy).
	FindBestCandidate(ctx context.Context, name string) (*Candidate, error)

	// RecommendConstraint returns the constraint to declare for c.
	RecommendConstraint(c *Candidate) string

	// Name identifies the resolver in logs.
	Name() string
}

// APIVersion selects a repository metadata API.
type APIVersion int

const (
	APIAuto APIVersion = iota
	APIv1
	APIv2
)

func (v APIVersion) String() string {
	switch v {
	case APIv1:
		return "v1"
	case APIv2:
		return "v2"
	default:
		return "auto"
	}
}

// ParseAPIVersion parses "auto", "v1" or "v2".
func ParseAPIVersion(s string) (APIVersion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return APIAuto, nil
	case "v1", "1":
		return APIv1, nil
	case "v2", "2":
		return APIv2, nil
	}
	return APIAuto, bumperrors.New(bumperrors.ErrCodeInvalidInput, "unknown metadata API %q (want auto, v1 or v2)", s)
}

// Options configures [New].
type Options struct {
	API      APIVersion
	Platform Platform
	Policy   Policy

	// Refresh bypasses cached metadata.
	Refresh bool

	Logger *log.Logger
}

// Probe asks the repository which metadata API it serves. A packages.json
// advertising a metadata-url supports v2; the advertised URL template is
// installed on client.
func Probe(ctx context.Context, client *packagist.Client) (APIVersion, error) {
	info, err := client.FetchRepoInfo(ctx)
	if err != nil {
		return APIAuto, bumperrors.Wrap(bumperrors.ErrCodeNetwork, err, "probe %s", client.BaseURL())
	}
	if info.MetadataURL == "" {
		return APIv1, nil
	}
	client.SetMetadataURL(info.MetadataURL)
	return APIv2, nil
}

// New returns the resolver for the repository behind client. Unless
// opts.API forces a version the repository is probed once.
func New(ctx context.Context, client *packagist.Client, opts Options) (Resolver, error) {
	api := opts.API
	if api == APIAuto {
		var err error
		if api, err = Probe(ctx, client); err != nil {
			return nil, err
		}
	}

	var r Resolver
	switch api {
	case APIv1:
		r = NewLegacyResolver(client, opts.Platform.PHP, opts.Policy, opts.Refresh)
	case APIv2:
		r = NewPlatformResolver(client, opts.Platform, opts.Policy, opts.Refresh)
	default:
		return nil, fmt.Errorf("unsupported metadata API %v", api)
	}

	if opts.Logger != nil {
		fields := []any{"resolver", r.Name(), "api", api, "php", opts.Platform.PHP}
		if pr, ok := r.(*PlatformResolver); ok && pr.Platform().Extensions != nil {
			fields = append(fields, "extensions", len(pr.Platform().Extensions))
		}
		opts.Logger.Debug("resolver selected", fields...)
	}
	return r, nil
}
