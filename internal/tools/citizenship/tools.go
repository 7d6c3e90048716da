package citizenship

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lonniev/dpyc-oracle/internal/identity"
	"github.com/lonniev/dpyc-oracle/internal/logger"
	"github.com/lonniev/dpyc-oracle/internal/registry"
	"github.com/lonniev/dpyc-oracle/internal/tools"
)

var log = logger.ForComponent("citizenship")

func GetTools(reg *registry.Client, committer MemberCommitter) []tools.Tool {
	store := NewChallengeStore()
	return []tools.Tool{
		NewRequestCitizenshipTool(reg, store),
		NewConfirmCitizenshipTool(reg, store, committer),
	}
}

// failure is the structured "this did not work" payload. Verification
// misses are answers for the applicant, not transport errors.
func failure(format string, args ...interface{}) map[string]interface{} {
	return map[string]interface{}{
		"success": false,
		"error":   fmt.Sprintf(format, args...),
	}
}

type RequestCitizenshipTool struct {
	reg   *registry.Client
	store *ChallengeStore
}

func NewRequestCitizenshipTool(reg *registry.Client, store *ChallengeStore) *RequestCitizenshipTool {
	return &RequestCitizenshipTool{reg: reg, store: store}
}

func (t *RequestCitizenshipTool) Name() string {
	return "request_citizenship"
}

func (t *RequestCitizenshipTool) Description() string {
	return `Begin the citizenship application process.

Issues a cryptographic challenge that the applicant must sign with
their Nostr private key (nsec) to prove they own the claimed npub.
The nsec never leaves the applicant's device.

Returns a challenge_id, nonce, and signing instructions. The applicant
signs a Nostr event containing the nonce and submits it via
confirm_citizenship within 10 minutes.`
}

func (t *RequestCitizenshipTool) Title() string {
	return "Request Citizenship"
}

func (t *RequestCitizenshipTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *RequestCitizenshipTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"npub": {
				"type": "string",
				"description": "The applicant's Nostr public key (npub1...)"
			},
			"display_name": {
				"type": "string",
				"description": "Name to record in the member registry"
			}
		},
		"required": ["npub", "display_name"]
	}`)
}

func (t *RequestCitizenshipTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req struct {
		Npub        string `json:"npub"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, err
	}

	if _, err := identity.DecodeNpub(req.Npub); err != nil {
		return failure("Invalid npub: %v", err), nil
	}

	existing, err := t.reg.LookupMember(ctx, req.Npub)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return failure("Already a member with role '%s'.", existing.Role), nil
	}

	ch, err := t.store.Issue(req.Npub, req.DisplayName)
	if err != nil {
		return failure("%v", err), nil
	}

	log.Info("issued citizenship challenge", "npub", req.Npub, "challenge_id", ch.ID)

	return map[string]interface{}{
		"success":            true,
		"challenge_id":       ch.ID,
		"nonce":              ch.Nonce,
		"expires_in_seconds": int(ChallengeTTL.Seconds()),
		"instructions": fmt.Sprintf(
			"Sign a Nostr event with the content shown below, then call "+
				"confirm_citizenship with the signed event JSON.\n\n"+
				"Required event content: %s\n\n"+
				"Example using nak:\n"+
				"```bash\n"+
				"nak event -c '%s' --sec nsec1YOUR_SECRET_KEY\n"+
				"```",
			ch.ExpectedContent(), ch.ExpectedContent(),
		),
	}, nil
}

type ConfirmCitizenshipTool struct {
	reg       *registry.Client
	store     *ChallengeStore
	committer MemberCommitter
}

func NewConfirmCitizenshipTool(reg *registry.Client, store *ChallengeStore, committer MemberCommitter) *ConfirmCitizenshipTool {
	return &ConfirmCitizenshipTool{reg: reg, store: store, committer: committer}
}

func (t *ConfirmCitizenshipTool) Name() string {
	return "confirm_citizenship"
}

func (t *ConfirmCitizenshipTool) Description() string {
	return `Complete the citizenship application by submitting a signed Nostr event.

Verifies:
1. The challenge exists and hasn't expired
2. The Schnorr signature is valid
3. The event's pubkey matches the claimed npub
4. The event content contains the issued nonce
5. The npub is not already registered

On success, commits directly to dpyc-community/members.json to register
the new Citizen immediately.`
}

func (t *ConfirmCitizenshipTool) Title() string {
	return "Confirm Citizenship"
}

func (t *ConfirmCitizenshipTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *ConfirmCitizenshipTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"npub": {
				"type": "string",
				"description": "The applicant's Nostr public key (npub1...)"
			},
			"challenge_id": {
				"type": "string",
				"description": "Challenge ID from request_citizenship"
			},
			"signed_event_json": {
				"type": "string",
				"description": "JSON of the Nostr event signed with the applicant's key"
			}
		},
		"required": ["npub", "challenge_id", "signed_event_json"]
	}`)
}

func (t *ConfirmCitizenshipTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req struct {
		Npub            string `json:"npub"`
		ChallengeID     string `json:"challenge_id"`
		SignedEventJSON string `json:"signed_event_json"`
	}
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, err
	}

	ch := t.store.Get(req.ChallengeID)
	if ch == nil {
		return failure("Challenge not found or expired. Call request_citizenship again."), nil
	}
	if ch.Npub != req.Npub {
		return failure("npub does not match the challenge."), nil
	}

	event, err := identity.ParseEvent(req.SignedEventJSON)
	if err != nil {
		return failure("%v", err), nil
	}

	if err := identity.VerifySignature(event); err != nil {
		return failure("%v", err), nil
	}

	pubkey, err := identity.DecodeNpub(req.Npub)
	if err != nil {
		return failure("Invalid npub: %v", err), nil
	}
	if event.PubKey != pubkey {
		return failure("Event pubkey does not match the claimed npub."), nil
	}

	if !strings.Contains(event.Content, ch.ExpectedContent()) {
		return failure("Event content must contain '%s'. Got: '%s'",
			ch.ExpectedContent(), truncate(event.Content, 100)), nil
	}

	// Final membership check reads straight from upstream so a commit
	// that raced this challenge is visible even through a mirror or a
	// warm cache.
	existing, err := t.reg.LookupMemberFresh(ctx, req.Npub)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		t.store.Delete(req.ChallengeID)
		return failure("This npub was registered while your challenge was pending."), nil
	}

	commitURL, err := t.committer.CommitCitizen(ctx, req.Npub, ch.DisplayName)
	if err != nil {
		log.Error("failed to commit membership", "npub", req.Npub, "error", err)
		return failure("Signature verified but membership commit failed: %v", err), nil
	}

	t.store.Delete(req.ChallengeID)

	// The cached members.json predates the commit; drop it so the new
	// citizen shows up on the next lookup.
	t.reg.InvalidateCache()

	log.Info("admitted new citizen", "npub", req.Npub, "commit_url", commitURL)

	return map[string]interface{}{
		"success":    true,
		"status":     "admitted",
		"commit_url": commitURL,
		"message": fmt.Sprintf(
			"Welcome to the DPYC Honor Chain, %s! Your membership has been registered. You are now a Citizen.",
			ch.DisplayName,
		),
	}, nil
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length] + "..."
}
