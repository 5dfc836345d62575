package resolver

import (
	"context"
	"errors"

	"github.com/matzehuels/bumper/pkg/integrations"
	"github.com/matzehuels/bumper/pkg/integrations/packagist"
)

// PlatformResolver resolves against the v2 metadata API and filters
// releases by every platform requirement the platform models.
type PlatformResolver struct {
	client   *packagist.Client
	platform Platform
	policy   Policy
	refresh  bool
}

// NewPlatformResolver returns a v2 resolver for platform.
func NewPlatformResolver(client *packagist.Client, platform Platform, policy Policy, refresh bool) *PlatformResolver {
	return &PlatformResolver{client: client, platform: platform, policy: policy, refresh: refresh}
}

// Name returns "packagist-v2".
func (r *PlatformResolver) Name() string { return "packagist-v2" }

// Platform returns the platform releases are checked against.
func (r *PlatformResolver) Platform() Platform { return r.platform }

// FindBestCandidate returns the newest release of name installable on the
// resolver's platform.
func (r *PlatformResolver) FindBestCandidate(ctx context.Context, name string) (*Candidate, error) {
	versions, err := r.client.FetchVersions(ctx, name, r.refresh)
	if errors.Is(err, integrations.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return selectBest(name, versions, r.policy, r.platform.Satisfies), nil
}

// RecommendConstraint returns [RecommendedConstraint].
func (r *PlatformResolver) RecommendConstraint(c *Candidate) string {
	return RecommendedConstraint(c)
}

var _ Resolver = (*PlatformResolver)(nil)
