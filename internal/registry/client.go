package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/upt-tools/upt/internal/logging"
)

// PackageVersion is one published version of a registry package.
type PackageVersion struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Unity       string `json:"unity"`
	DisplayName string `json:"displayName"`

	semver *semver.Version
}

func (v PackageVersion) String() string {
	return v.Name + "@" + v.Version
}

// packageDocument is the subset of the registry response we consume.
type packageDocument struct {
	Versions map[string]PackageVersion `json:"versions"`
}

// Client talks to a Unity package registry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithLogger routes request tracing to l.
func WithLogger(l *logging.Logger) Option {
	return func(cl *Client) {
		cl.log = l
	}
}

// New creates a Client for the registry at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Versions fetches the released versions of name, newest first.
// Pre-release versions and versions that are not valid semver are dropped.
func (c *Client) Versions(ctx context.Context, name string) ([]PackageVersion, error) {
	requestURL := c.baseURL + "/" + url.PathEscape(name)
	c.log.Debug("Fetching package versions", "package", name, "url", requestURL)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "upt")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching package %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("package %s not found in registry", name)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d for %s", resp.StatusCode, name)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var doc packageDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parsing registry response for %s: %w", name, err)
	}

	versions := releasedVersions(doc.Versions, c.log)
	c.log.Debug("Retrieved package versions",
		"package", name,
		"count", len(versions),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return versions, nil
}

// releasedVersions drops pre-releases and sorts the rest newest first.
func releasedVersions(all map[string]PackageVersion, log *logging.Logger) []PackageVersion {
	result := make([]PackageVersion, 0, len(all))
	for key, v := range all {
		if v.Version == "" {
			v.Version = key
		}
		if strings.Contains(v.Version, "-") {
			continue
		}
		sv, err := semver.StrictNewVersion(v.Version)
		if err != nil {
			log.Debug("Skipping unparsable version", "package", v.Name, "version", v.Version)
			continue
		}
		v.semver = sv
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].semver.GreaterThan(result[j].semver)
	})
	return result
}
