package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestMirror(t *testing.T, patterns []string) (*Mirror, string) {
	t.Helper()
	dir := t.TempDir()
	mirror, err := NewMirror(dir, patterns)
	if err != nil {
		t.Fatalf("failed to create mirror: %v", err)
	}
	t.Cleanup(func() { mirror.Close() })
	return mirror, dir
}

func TestMirrorLookup(t *testing.T) {
	mirror, dir := newTestMirror(t, []string{"*.md"})

	content := []byte("# Local Governance Draft")
	if err := os.WriteFile(filepath.Join(dir, "GOVERNANCE.md"), content, 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	body, ok := mirror.Lookup("GOVERNANCE.md")
	if !ok {
		t.Fatal("expected mirror hit")
	}
	if string(body) != string(content) {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestMirrorPatternFilter(t *testing.T) {
	mirror, dir := newTestMirror(t, []string{"*.json"})

	os.WriteFile(filepath.Join(dir, "GOVERNANCE.md"), []byte("# Draft"), 0644)

	if _, ok := mirror.Lookup("GOVERNANCE.md"); ok {
		t.Error("expected miss for path outside mirror patterns")
	}
}

func TestMirrorMissingFile(t *testing.T) {
	mirror, _ := newTestMirror(t, []string{"*.md"})

	if _, ok := mirror.Lookup("ADVISORY.md"); ok {
		t.Error("expected miss for absent file")
	}
}

func TestMirrorInvalidatesOnChange(t *testing.T) {
	mirror, dir := newTestMirror(t, []string{"*.md"})

	path := filepath.Join(dir, "ADVISORY.md")
	if err := os.WriteFile(path, []byte("old advisory"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if body, ok := mirror.Lookup("ADVISORY.md"); !ok || string(body) != "old advisory" {
		t.Fatalf("expected initial content, got ok=%v body=%s", ok, body)
	}

	if err := os.WriteFile(path, []byte("new advisory"), 0644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if body, ok := mirror.Lookup("ADVISORY.md"); ok && string(body) == "new advisory" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("mirror did not pick up changed file before deadline")
}

func TestLookupMemberFreshBypassesMirror(t *testing.T) {
	srv := newTestServer(t, nil)
	defer srv.Close()

	mirror, dir := newTestMirror(t, []string{"*.json"})
	os.WriteFile(filepath.Join(dir, "members.json"), []byte(`{"members": []}`), 0644)

	client := newTestClient(t, srv.URL).WithMirror(mirror)
	ctx := context.Background()

	member, err := client.LookupMember(ctx, "npub1alice")
	if err != nil {
		t.Fatalf("LookupMember failed: %v", err)
	}
	if member != nil {
		t.Fatal("expected the mirrored empty registry to hide the member")
	}

	member, err = client.LookupMemberFresh(ctx, "npub1alice")
	if err != nil {
		t.Fatalf("LookupMemberFresh failed: %v", err)
	}
	if member == nil {
		t.Fatal("expected fresh lookup to bypass the mirror")
	}
	if member.DisplayName != "Alice" {
		t.Errorf("expected Alice, got %s", member.DisplayName)
	}
}

func TestMirrorOverridesRemote(t *testing.T) {
	srv := newTestServer(t, nil)
	defer srv.Close()

	mirror, dir := newTestMirror(t, []string{"*.md"})
	os.WriteFile(filepath.Join(dir, "GOVERNANCE.md"), []byte("# Mirrored Rules"), 0644)

	client := newTestClient(t, srv.URL).WithMirror(mirror)

	text, err := client.Text(context.Background(), GovernanceFile)
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if text != "# Mirrored Rules" {
		t.Errorf("expected mirror content, got %q", text)
	}
}
