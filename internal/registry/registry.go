package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lonniev/dpyc-oracle/internal/logger"
)

var log = logger.ForComponent("registry")

// Client reads the dpyc-community registry from GitHub raw URLs.
// Reads go mirror → cache → network, in that order.
type Client struct {
	base   string
	ttl    time.Duration
	http   *http.Client
	cache  *DocumentCache
	mirror *Mirror
}

func NewClient(baseURL string, ttl time.Duration, httpTimeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		ttl:  ttl,
		http: &http.Client{Timeout: httpTimeout},
	}
}

// WithCache attaches a persistent document cache. The client owns it
// from here and closes it on Close.
func (c *Client) WithCache(cache *DocumentCache) *Client {
	c.cache = cache
	return c
}

func (c *Client) WithMirror(mirror *Mirror) *Client {
	c.mirror = mirror
	return c
}

func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	if c.mirror != nil {
		if body, ok := c.mirror.Lookup(path); ok {
			return body, nil
		}
	}

	if c.cache != nil {
		if body, ok := c.cache.Get(path, c.ttl); ok {
			log.Debug("cache hit", "path", path)
			return body, nil
		}
	}

	return c.fetchNetwork(ctx, path)
}

// fetchNetwork always goes upstream, refreshing the cache on the way.
func (c *Client) fetchNetwork(ctx context.Context, path string) ([]byte, error) {
	url := c.base + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if c.cache != nil {
		if err := c.cache.Put(path, body); err != nil {
			log.Warn("failed to cache document", "path", path, "error", err)
		}
	}

	log.Debug("fetched document", "path", path, "bytes", len(body))
	return body, nil
}

// Text returns the raw content of a registry file, typically markdown.
func (c *Client) Text(ctx context.Context, path string) (string, error) {
	body, err := c.fetch(ctx, path)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) Members(ctx context.Context) ([]Member, error) {
	body, err := c.fetch(ctx, MembersFile)
	if err != nil {
		return nil, err
	}
	return parseMembers(body)
}

func parseMembers(body []byte) ([]Member, error) {
	var doc membersDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", MembersFile, err)
	}
	if doc.Members == nil {
		return nil, fmt.Errorf("%s missing 'members' key", MembersFile)
	}

	return doc.Members, nil
}

func findMember(members []Member, npub string) *Member {
	for i := range members {
		if members[i].Npub == npub {
			return &members[i]
		}
	}
	return nil
}

// LookupMember returns nil when no member carries the given npub.
func (c *Client) LookupMember(ctx context.Context, npub string) (*Member, error) {
	members, err := c.Members(ctx)
	if err != nil {
		return nil, err
	}
	return findMember(members, npub), nil
}

// LookupMemberFresh reads members.json straight from upstream, skipping
// mirror and cache. The admission flow uses it so a registration that
// raced a pending challenge is not masked by a stale or mirrored copy.
func (c *Client) LookupMemberFresh(ctx context.Context, npub string) (*Member, error) {
	body, err := c.fetchNetwork(ctx, MembersFile)
	if err != nil {
		return nil, err
	}
	members, err := parseMembers(body)
	if err != nil {
		return nil, err
	}
	return findMember(members, npub), nil
}

// FirstCurator returns the prime authority at the root of the Honor
// Chain, or nil when the registry holds none.
func (c *Client) FirstCurator(ctx context.Context) (*Member, error) {
	members, err := c.Members(ctx)
	if err != nil {
		return nil, err
	}

	for i := range members {
		if members[i].Role == RolePrimeAuthority {
			return &members[i], nil
		}
	}
	return nil, nil
}

func (c *Client) NetworkStatus(ctx context.Context) (*NetworkStatus, error) {
	body, err := c.fetch(ctx, NetworkStatusFile)
	if err != nil {
		return nil, err
	}

	var status NetworkStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", NetworkStatusFile, err)
	}

	return &status, nil
}

func (c *Client) InvalidateCache() {
	if c.cache == nil {
		return
	}
	if err := c.cache.Invalidate(); err != nil {
		log.Warn("failed to invalidate cache", "error", err)
	}
}

func (c *Client) Close() error {
	var firstErr error
	if c.mirror != nil {
		if err := c.mirror.Close(); err != nil {
			firstErr = err
		}
	}
	if c.cache != nil {
		if err := c.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
