// Package governance registers placeholders for future community
// governance operations. Each tool is listed so clients can discover
// the planned surface, but every call reports not-implemented.
package governance

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lonniev/dpyc-oracle/internal/tools"
)

func GetTools() []tools.Tool {
	return []tools.Tool{
		NewRenounceMembershipTool(),
		NewInitiateBanElectionTool(),
		NewCastBanVoteTool(),
	}
}

type RenounceMembershipTool struct{}

func NewRenounceMembershipTool() *RenounceMembershipTool {
	return &RenounceMembershipTool{}
}

func (t *RenounceMembershipTool) Name() string {
	return "renounce_membership"
}

func (t *RenounceMembershipTool) Description() string {
	return `Citizen self-removal from the Honor Chain via automated PR.

Not yet implemented — will create a GitHub PR to remove the member
from members.json.`
}

func (t *RenounceMembershipTool) Title() string {
	return "Renounce Membership"
}

func (t *RenounceMembershipTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *RenounceMembershipTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"npub": {
				"type": "string",
				"description": "The renouncing member's Nostr public key"
			}
		},
		"required": ["npub"]
	}`)
}

func (t *RenounceMembershipTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	return nil, fmt.Errorf(
		"renounce_membership is %w: automated PR creation for self-removal from members.json is planned",
		tools.ErrNotImplemented)
}

type InitiateBanElectionTool struct{}

func NewInitiateBanElectionTool() *InitiateBanElectionTool {
	return &InitiateBanElectionTool{}
}

func (t *InitiateBanElectionTool) Name() string {
	return "initiate_ban_election"
}

func (t *InitiateBanElectionTool) Description() string {
	return `Initiate a community ban election against a member.

Not yet implemented — will create a GitHub Issue with a 72-hour
discussion period and Lightning-funded economic voting.`
}

func (t *InitiateBanElectionTool) Title() string {
	return "Initiate Ban Election"
}

func (t *InitiateBanElectionTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *InitiateBanElectionTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"target_npub": {
				"type": "string",
				"description": "Nostr public key of the member to ban"
			},
			"reason": {
				"type": "string",
				"description": "Grounds for the election"
			}
		},
		"required": ["target_npub", "reason"]
	}`)
}

func (t *InitiateBanElectionTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	return nil, fmt.Errorf(
		"initiate_ban_election is %w: GitHub Issue creation with economic voting is planned",
		tools.ErrNotImplemented)
}

type CastBanVoteTool struct{}

func NewCastBanVoteTool() *CastBanVoteTool {
	return &CastBanVoteTool{}
}

func (t *CastBanVoteTool) Name() string {
	return "cast_ban_vote"
}

func (t *CastBanVoteTool) Description() string {
	return `Cast a Lightning-funded vote in an active ban election.

Not yet implemented — will verify npub membership, validate the
election is active, and record the vote with a Lightning payment proof.`
}

func (t *CastBanVoteTool) Title() string {
	return "Cast Ban Vote"
}

func (t *CastBanVoteTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *CastBanVoteTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"election_id": {
				"type": "string",
				"description": "Identifier of the active election"
			},
			"vote": {
				"type": "string",
				"enum": ["ban", "keep"],
				"description": "The vote to cast"
			},
			"npub": {
				"type": "string",
				"description": "The voter's Nostr public key"
			}
		},
		"required": ["election_id", "vote", "npub"]
	}`)
}

func (t *CastBanVoteTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	return nil, fmt.Errorf(
		"cast_ban_vote is %w: Lightning-funded ban voting is planned",
		tools.ErrNotImplemented)
}
