package packagist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/bumper/pkg/cache"
	bumperrors "github.com/matzehuels/bumper/pkg/errors"
	"github.com/matzehuels/bumper/pkg/integrations"
)

// DefaultURL is the public Packagist repository.
const DefaultURL = "https://repo.packagist.org"

const (
	legacyPath       = "/p/%package%.json"
	defaultV2Path    = "/p2/%package%.json"
	minifiedFormat   = "composer/2.0"
	unsetPlaceholder = "__unset"
)

// RepoInfo is the subset of a repository's packages.json that matters for
// picking a metadata API.
type RepoInfo struct {
	// MetadataURL is the v2 per-package URL template ("/p2/%package%.json").
	// Empty for repositories that only serve v1 metadata.
	MetadataURL string `json:"metadata-url"`

	// ProvidersURL is the v1 provider URL template, if any.
	ProvidersURL string `json:"providers-url"`
}

// Version is one published release of a package.
//
// Require holds the release's "require" map, including platform
// requirements such as "php" and "ext-json".
type Version struct {
	Name              string            `json:"name"`
	Version           string            `json:"version"`
	VersionNormalized string            `json:"version_normalized,omitempty"`
	Require           map[string]string `json:"require,omitempty"`
}

// Client provides access to a Composer repository's metadata API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL     string
	metadataURL string
}

// NewClient creates a client for the repository at baseURL (DefaultURL if
// empty). Responses are cached in backend for ttl.
func NewClient(backend cache.Cache, baseURL string, ttl time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		Client:      integrations.NewClient(backend, "packagist:"+baseURL+":", ttl, nil),
		baseURL:     baseURL,
		metadataURL: defaultV2Path,
	}
}

// BaseURL returns the repository root.
func (c *Client) BaseURL() string { return c.baseURL }

// SetMetadataURL overrides the v2 per-package URL template, typically with
// the value advertised in packages.json. The template must contain
// "%package%".
func (c *Client) SetMetadataURL(tpl string) {
	if strings.Contains(tpl, "%package%") {
		c.metadataURL = tpl
	}
}

// FetchRepoInfo reads the repository's packages.json. It is never cached
// so a repository that upgrades its API is picked up on the next run.
func (c *Client) FetchRepoInfo(ctx context.Context) (*RepoInfo, error) {
	var info RepoInfo
	err := cache.RetryWithBackoff(ctx, func() error {
		return c.Get(ctx, c.baseURL+"/packages.json", &info)
	})
	if err != nil {
		return nil, fmt.Errorf("read %s/packages.json: %w", c.baseURL, err)
	}
	return &info, nil
}

// FetchVersions returns the tagged releases of pkg from the v2 metadata API,
// expanding Composer's minified format.
//
// Returns [integrations.ErrNotFound] (wrapped) if the package does not exist.
func (c *Client) FetchVersions(ctx context.Context, pkg string, refresh bool) ([]Version, error) {
	pkg, err := normalize(pkg)
	if err != nil {
		return nil, err
	}

	var versions []Version
	err = c.Cached(ctx, "p2:"+pkg, refresh, &versions, func() error {
		return c.fetchV2(ctx, pkg, &versions)
	})
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// FetchLegacyVersions returns every release of pkg from the v1 metadata API.
// Order is unspecified.
func (c *Client) FetchLegacyVersions(ctx context.Context, pkg string, refresh bool) ([]Version, error) {
	pkg, err := normalize(pkg)
	if err != nil {
		return nil, err
	}

	var versions []Version
	err = c.Cached(ctx, "p:"+pkg, refresh, &versions, func() error {
		return c.fetchV1(ctx, pkg, &versions)
	})
	if err != nil {
		return nil, err
	}
	return versions, nil
}

func (c *Client) fetchV2(ctx context.Context, pkg string, out *[]Version) error {
	var data p2Response
	if err := c.Get(ctx, c.packageURL(c.metadataURL, pkg), &data); err != nil {
		return notFound(err, pkg)
	}

	entries, ok := data.Packages[pkg]
	if !ok {
		return fmt.Errorf("%w: packagist package %s", integrations.ErrNotFound, pkg)
	}
	if data.Minified == minifiedFormat {
		entries = expandMinified(entries)
	}

	versions := make([]Version, 0, len(entries))
	for _, e := range entries {
		v, err := decodeVersion(e)
		if err != nil {
			return fmt.Errorf("decode %s: %w", pkg, err)
		}
		versions = append(versions, v)
	}
	*out = versions
	return nil
}

func (c *Client) fetchV1(ctx context.Context, pkg string, out *[]Version) error {
	var data p1Response
	if err := c.Get(ctx, c.packageURL(legacyPath, pkg), &data); err != nil {
		return notFound(err, pkg)
	}

	byVersion, ok := data.Packages[pkg]
	if !ok {
		return fmt.Errorf("%w: packagist package %s", integrations.ErrNotFound, pkg)
	}

	versions := make([]Version, 0, len(byVersion))
	for _, e := range byVersion {
		v, err := decodeVersion(e)
		if err != nil {
			return fmt.Errorf("decode %s: %w", pkg, err)
		}
		versions = append(versions, v)
	}
	*out = versions
	return nil
}

func (c *Client) packageURL(tpl, pkg string) string {
	path := strings.ReplaceAll(tpl, "%package%", pkg)
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + path
}

func normalize(pkg string) (string, error) {
	pkg = integrations.NormalizePkgName(pkg)
	if err := bumperrors.ValidatePackageName(pkg); err != nil {
		return "", err
	}
	return pkg, nil
}

func notFound(err error, pkg string) error {
	if errors.Is(err, integrations.ErrNotFound) {
		return fmt.Errorf("%w: packagist package %s", err, pkg)
	}
	return err
}

// expandMinified undoes Composer's composer/2.0 minification: every entry
// only lists the keys that differ from the previous one, and "__unset"
// removes a key.
func expandMinified(entries []map[string]json.RawMessage) []map[string]json.RawMessage {
	out := make([]map[string]json.RawMessage, 0, len(entries))
	var prev map[string]json.RawMessage
	for _, e := range entries {
		cur := make(map[string]json.RawMessage, len(prev)+len(e))
		for k, v := range prev {
			cur[k] = v
		}
		for k, v := range e {
			if string(v) == `"`+unsetPlaceholder+`"` {
				delete(cur, k)
				continue
			}
			cur[k] = v
		}
		out = append(out, cur)
		prev = cur
	}
	return out
}

// decodeVersion tolerates the shapes found in real metadata: "require" may
// be an empty array instead of an object, and non-string constraints are
// dropped.
func decodeVersion(e map[string]json.RawMessage) (Version, error) {
	var v Version
	for key, dst := range map[string]*string{
		"name":               &v.Name,
		"version":            &v.Version,
		"version_normalized": &v.VersionNormalized,
	} {
		raw, ok := e[key]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return Version{}, fmt.Errorf("field %s: %w", key, err)
		}
	}
	if v.Version == "" {
		return Version{}, errors.New("missing version")
	}

	if raw, ok := e["require"]; ok && len(raw) > 0 && raw[0] == '{' {
		var anyObj map[string]any
		if err := json.Unmarshal(raw, &anyObj); err != nil {
			return Version{}, fmt.Errorf("field require: %w", err)
		}
		v.Require = make(map[string]string, len(anyObj))
		for k, val := range anyObj {
			if s, ok := val.(string); ok {
				v.Require[strings.ToLower(k)] = s
			}
		}
	}
	return v, nil
}

type p2Response struct {
	Packages map[string][]map[string]json.RawMessage `json:"packages"`
	Minified string                                  `json:"minified"`
}

type p1Response struct {
	Packages map[string]map[string]map[string]json.RawMessage `json:"packages"`
}
