// Package community implements the read-only concierge tools answering
// questions about Honor Chain membership, governance, and network state.
package community

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/lonniev/dpyc-oracle/internal/registry"
	"github.com/lonniev/dpyc-oracle/internal/tools"
)

func GetTools(reg *registry.Client, taxRatePercent, taxMinSats int) []tools.Tool {
	return []tools.Tool{
		NewAboutTool(reg),
		NewLookupMemberTool(reg),
		NewTaxRateTool(taxRatePercent, taxMinSats),
		NewRulebookTool(reg),
		NewHowToJoinTool(),
		NewFirstCuratorTool(reg),
		NewNetworkVersionsTool(reg),
		NewNetworkAdvisoryTool(reg),
	}
}

type AboutTool struct {
	reg *registry.Client
}

func NewAboutTool(reg *registry.Client) *AboutTool {
	return &AboutTool{reg: reg}
}

func (t *AboutTool) Name() string {
	return "about"
}

func (t *AboutTool) Description() string {
	return `Extended narration about DPYC, the Honor Chain, and the Oracle.

Fetches README.md and GOVERNANCE.md from the dpyc-community repo and
assembles a comprehensive context answer.`
}

func (t *AboutTool) Title() string {
	return "About the Honor Chain"
}

func (t *AboutTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *AboutTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *AboutTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	readme, err := t.reg.Text(ctx, registry.ReadmeFile)
	if err != nil {
		return nil, err
	}
	governance, err := t.reg.Text(ctx, registry.GovernanceFile)
	if err != nil {
		return nil, err
	}

	return fmt.Sprintf(
		"# About the DPYC Honor Chain\n\n%s\n\n---\n\n# Governance\n\n%s",
		readme, governance,
	), nil
}

type LookupMemberTool struct {
	reg *registry.Client
}

func NewLookupMemberTool(reg *registry.Client) *LookupMemberTool {
	return &LookupMemberTool{reg: reg}
}

func (t *LookupMemberTool) Name() string {
	return "lookup_member"
}

func (t *LookupMemberTool) Description() string {
	return `Look up a member by their Nostr npub.

Returns the full member record if found, or a not-found message.`
}

func (t *LookupMemberTool) Title() string {
	return "Look Up Member"
}

func (t *LookupMemberTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *LookupMemberTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"npub": {
				"type": "string",
				"description": "The member's Nostr public key (npub1...)"
			}
		},
		"required": ["npub"]
	}`)
}

func (t *LookupMemberTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req struct {
		Npub string `json:"npub"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, err
	}

	if req.Npub == "" {
		return nil, fmt.Errorf("npub is required")
	}

	member, err := t.reg.LookupMember(ctx, req.Npub)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return fmt.Sprintf("No member found with npub: %s", req.Npub), nil
	}

	return member, nil
}

type TaxRateTool struct {
	ratePercent int
	minSats     int
}

func NewTaxRateTool(ratePercent, minSats int) *TaxRateTool {
	return &TaxRateTool{ratePercent: ratePercent, minSats: minSats}
}

func (t *TaxRateTool) Name() string {
	return "get_tax_rate"
}

func (t *TaxRateTool) Description() string {
	return `Get the current Tollbooth tax rate.

Returns the tax percentage that Authorities charge on certified
purchase orders.`
}

func (t *TaxRateTool) Title() string {
	return "Get Tax Rate"
}

func (t *TaxRateTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *TaxRateTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

// TaxForAmount applies the configured rate with the configured floor.
func (t *TaxRateTool) TaxForAmount(amountSats int) int {
	tax := int(math.Ceil(float64(amountSats*t.ratePercent) / 100))
	if tax < t.minSats {
		return t.minSats
	}
	return tax
}

func (t *TaxRateTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	return map[string]interface{}{
		"rate_percent": t.ratePercent,
		"min_sats":     t.minSats,
		"note": fmt.Sprintf(
			"Tax per certification = max(%d, ceil(amount_sats * %d / 100)). "+
				"Configurable per-Authority in a future release.",
			t.minSats, t.ratePercent,
		),
	}, nil
}

type RulebookTool struct {
	reg *registry.Client
}

func NewRulebookTool(reg *registry.Client) *RulebookTool {
	return &RulebookTool{reg: reg}
}

func (t *RulebookTool) Name() string {
	return "get_rulebook"
}

func (t *RulebookTool) Description() string {
	return `Fetch the DPYC Honor Chain governance document.

Returns the raw markdown of GOVERNANCE.md from the dpyc-community repo.`
}

func (t *RulebookTool) Title() string {
	return "Get Rulebook"
}

func (t *RulebookTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *RulebookTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *RulebookTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	return t.reg.Text(ctx, registry.GovernanceFile)
}

type HowToJoinTool struct{}

func NewHowToJoinTool() *HowToJoinTool {
	return &HowToJoinTool{}
}

func (t *HowToJoinTool) Name() string {
	return "how_to_join"
}

func (t *HowToJoinTool) Description() string {
	return `Tier-specific onboarding guide for joining the DPYC Honor Chain.

Covers all four tiers: Citizen, Operator, Authority, and First Curator.
Includes Nostr keygen instructions and practical next steps.`
}

func (t *HowToJoinTool) Title() string {
	return "How to Join"
}

func (t *HowToJoinTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *HowToJoinTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *HowToJoinTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	return onboardingGuide, nil
}

type FirstCuratorTool struct {
	reg *registry.Client
}

func NewFirstCuratorTool(reg *registry.Client) *FirstCuratorTool {
	return &FirstCuratorTool{reg: reg}
}

func (t *FirstCuratorTool) Name() string {
	return "who_is_first_curator"
}

func (t *FirstCuratorTool) Description() string {
	return `Identify the First Curator (Prime Authority) of the Honor Chain.

Returns the curator's npub, display name, and member record.`
}

func (t *FirstCuratorTool) Title() string {
	return "Who Is First Curator"
}

func (t *FirstCuratorTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *FirstCuratorTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *FirstCuratorTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	curator, err := t.reg.FirstCurator(ctx)
	if err != nil {
		return nil, err
	}
	if curator == nil {
		return "No Prime Authority found in the registry.", nil
	}

	return curator, nil
}

type NetworkVersionsTool struct {
	reg *registry.Client
}

func NewNetworkVersionsTool(reg *registry.Client) *NetworkVersionsTool {
	return &NetworkVersionsTool{reg: reg}
}

func (t *NetworkVersionsTool) Name() string {
	return "network_versions"
}

func (t *NetworkVersionsTool) Description() string {
	return `Get current recommended versions of all Tollbooth components.

Returns component versions, minimum compatibility, active protocols,
and a short advisory summary. Data is fetched live from
network-status.json in the dpyc-community repo.`
}

func (t *NetworkVersionsTool) Title() string {
	return "Network Versions"
}

func (t *NetworkVersionsTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *NetworkVersionsTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *NetworkVersionsTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	return t.reg.NetworkStatus(ctx)
}

type NetworkAdvisoryTool struct {
	reg *registry.Client
}

func NewNetworkAdvisoryTool(reg *registry.Client) *NetworkAdvisoryTool {
	return &NetworkAdvisoryTool{reg: reg}
}

func (t *NetworkAdvisoryTool) Name() string {
	return "network_advisory"
}

func (t *NetworkAdvisoryTool) Description() string {
	return `Get current network deployment advisory.

Returns human-readable guidance on what changed recently, urgent
upgrades, and actions operators should take. Fetched live from
ADVISORY.md in the dpyc-community repo.`
}

func (t *NetworkAdvisoryTool) Title() string {
	return "Network Advisory"
}

func (t *NetworkAdvisoryTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *NetworkAdvisoryTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *NetworkAdvisoryTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	return t.reg.Text(ctx, registry.AdvisoryFile)
}
