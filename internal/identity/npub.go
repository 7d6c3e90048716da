// Package identity handles Nostr public identities. Members are known
// by their npub, the bech32 encoding of a secp256k1 public key.
package identity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
)

// DecodeNpub validates an npub string and returns the hex public key.
func DecodeNpub(npub string) (string, error) {
	if !strings.HasPrefix(npub, "npub1") {
		return "", fmt.Errorf("invalid npub format, must start with 'npub1': %s", npub)
	}

	prefix, value, err := nip19.Decode(npub)
	if err != nil {
		return "", fmt.Errorf("invalid npub %s: %w", npub, err)
	}
	if prefix != "npub" {
		return "", fmt.Errorf("invalid npub %s: decoded as %q", npub, prefix)
	}

	pubkey, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("invalid npub %s: unexpected payload type", npub)
	}

	return pubkey, nil
}

// ParseEvent decodes a signed Nostr event from its JSON form.
func ParseEvent(raw string) (*nostr.Event, error) {
	var event nostr.Event
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return nil, fmt.Errorf("failed to parse signed event JSON: %w", err)
	}
	return &event, nil
}

// VerifySignature checks the event's Schnorr signature against its
// pubkey.
func VerifySignature(event *nostr.Event) error {
	ok, err := event.CheckSignature()
	if err != nil {
		return fmt.Errorf("schnorr signature verification failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("schnorr signature verification failed: signature does not match")
	}
	return nil
}
