package registry

// Well-known files in the dpyc-community repository.
const (
	MembersFile       = "members.json"
	GovernanceFile    = "GOVERNANCE.md"
	ReadmeFile        = "README.md"
	AdvisoryFile      = "ADVISORY.md"
	NetworkStatusFile = "network-status.json"
)

// Membership tiers, lowest to highest.
const (
	RoleCitizen        = "citizen"
	RoleOperator       = "operator"
	RoleAuthority      = "authority"
	RolePrimeAuthority = "prime_authority"
)

const StatusActive = "active"

type Member struct {
	Npub                  string   `json:"npub"`
	Role                  string   `json:"role"`
	Status                string   `json:"status"`
	MemberSince           string   `json:"member_since,omitempty"`
	DisplayName           string   `json:"display_name"`
	Services              []string `json:"services"`
	UpstreamAuthorityNpub string   `json:"upstream_authority_npub,omitempty"`
	Notes                 string   `json:"notes,omitempty"`
}

type membersDocument struct {
	Members []Member `json:"members"`
}

type ComponentVersion struct {
	Current string `json:"current"`
	Minimum string `json:"minimum"`
}

type NetworkStatus struct {
	Components  map[string]ComponentVersion `json:"components"`
	Protocols   []string                    `json:"protocols"`
	LastUpdated string                      `json:"last_updated"`
	Advisory    string                      `json:"advisory"`
}
