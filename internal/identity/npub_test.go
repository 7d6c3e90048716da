package identity

import (
	"strings"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
)

func newTestKeypair(t *testing.T) (sk, pk, npub string) {
	t.Helper()
	sk = nostr.GeneratePrivateKey()
	pk, err := nostr.GetPublicKey(sk)
	if err != nil {
		t.Fatalf("failed to derive public key: %v", err)
	}
	npub, err = nip19.EncodePublicKey(pk)
	if err != nil {
		t.Fatalf("failed to encode npub: %v", err)
	}
	return sk, pk, npub
}

func signedEvent(t *testing.T, sk, content string) *nostr.Event {
	t.Helper()
	event := &nostr.Event{
		Kind:      nostr.KindTextNote,
		CreatedAt: nostr.Now(),
		Tags:      nostr.Tags{},
		Content:   content,
	}
	if err := event.Sign(sk); err != nil {
		t.Fatalf("failed to sign event: %v", err)
	}
	return event
}

func TestDecodeNpubRoundTrip(t *testing.T) {
	_, pk, npub := newTestKeypair(t)

	decoded, err := DecodeNpub(npub)
	if err != nil {
		t.Fatalf("DecodeNpub failed: %v", err)
	}
	if decoded != pk {
		t.Errorf("expected %s, got %s", pk, decoded)
	}
}

func TestDecodeNpubRejectsWrongPrefix(t *testing.T) {
	_, err := DecodeNpub("nsec1notanpub")
	if err == nil {
		t.Fatal("expected error for nsec prefix")
	}
	if !strings.Contains(err.Error(), "must start with 'npub1'") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecodeNpubRejectsGarbage(t *testing.T) {
	if _, err := DecodeNpub("npub1zzzzzzzzzzzzz"); err == nil {
		t.Fatal("expected error for undecodable npub")
	}
}

func TestParseEvent(t *testing.T) {
	sk, pk, _ := newTestKeypair(t)
	event := signedEvent(t, sk, "hello")

	parsed, err := ParseEvent(event.String())
	if err != nil {
		t.Fatalf("ParseEvent failed: %v", err)
	}
	if parsed.PubKey != pk {
		t.Errorf("expected pubkey %s, got %s", pk, parsed.PubKey)
	}
	if parsed.Content != "hello" {
		t.Errorf("expected content 'hello', got %q", parsed.Content)
	}
}

func TestParseEventRejectsBadJSON(t *testing.T) {
	if _, err := ParseEvent("{not json"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestVerifySignature(t *testing.T) {
	sk, _, _ := newTestKeypair(t)
	event := signedEvent(t, sk, "prove ownership")

	if err := VerifySignature(event); err != nil {
		t.Errorf("expected valid signature, got %v", err)
	}
}

func TestVerifySignatureRejectsTamperedContent(t *testing.T) {
	sk, _, _ := newTestKeypair(t)
	event := signedEvent(t, sk, "original")
	event.Content = "tampered"
	event.ID = event.GetID()

	if err := VerifySignature(event); err == nil {
		t.Error("expected tampered event to fail verification")
	}
}
