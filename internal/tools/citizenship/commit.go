package citizenship

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/lonniev/dpyc-oracle/internal/github"
	"github.com/lonniev/dpyc-oracle/internal/registry"
)

// MemberCommitter records an admitted citizen in the registry and
// returns a URL pointing at the change.
type MemberCommitter interface {
	CommitCitizen(ctx context.Context, npub, displayName string) (string, error)
}

// GitHubCommitter commits new citizens directly to main in
// members.json. The Schnorr signature verification is the trust check,
// so no human review gates the commit.
type GitHubCommitter struct {
	gh       *github.Client
	reg      *registry.Client
	hasToken bool
}

func NewGitHubCommitter(gh *github.Client, reg *registry.Client, token string) *GitHubCommitter {
	return &GitHubCommitter{gh: gh, reg: reg, hasToken: token != ""}
}

func (c *GitHubCommitter) CommitCitizen(ctx context.Context, npub, displayName string) (string, error) {
	if !c.hasToken {
		return "", fmt.Errorf(
			"GitHub token not configured, set GITHUB_TOKEN to enable automated membership commits")
	}

	curator, err := c.reg.FirstCurator(ctx)
	if err != nil {
		return "", err
	}
	upstreamNpub := ""
	if curator != nil {
		upstreamNpub = curator.Npub
	}

	file, err := c.gh.GetFile(ctx, registry.MembersFile, "main")
	if err != nil {
		return "", err
	}

	// Round-trip the document as raw JSON. Top-level keys and member
	// fields this build does not know about must survive the rewrite.
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(file.Content, &doc); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", registry.MembersFile, err)
	}
	rawMembers, ok := doc["members"]
	if !ok {
		return "", fmt.Errorf("%s missing 'members' key", registry.MembersFile)
	}
	var members []json.RawMessage
	if err := json.Unmarshal(rawMembers, &members); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", registry.MembersFile, err)
	}

	displayName = norm.NFC.String(displayName)

	record, err := json.Marshal(registry.Member{
		Npub:                  npub,
		Role:                  registry.RoleCitizen,
		Status:                registry.StatusActive,
		MemberSince:           time.Now().UTC().Format("2006-01-02"),
		DisplayName:           displayName,
		Services:              []string{},
		UpstreamAuthorityNpub: upstreamNpub,
		Notes:                 "Admitted via Nostr signature-based citizenship onboarding",
	})
	if err != nil {
		return "", err
	}
	members = append(members, record)

	if doc["members"], err = json.Marshal(members); err != nil {
		return "", err
	}

	updated, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	updated = append(updated, '\n')

	message := fmt.Sprintf("[Citizenship] Add %s (%s)", displayName, npub[:min(len(npub), 16)])
	return c.gh.PutFile(ctx, registry.MembersFile, message, updated, file.SHA)
}
