package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorePutAndDelete(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "staged")
	if err := os.WriteFile(src, []byte("ID3audio"), 0o600); err != nil {
		t.Fatalf("write src: %v", err)
	}

	store := NewLocalStore(filepath.Join(root, "media"), "/media/")
	key := NewKey("songs", "Track.MP3")
	if !strings.HasPrefix(key, "songs/") || !strings.HasSuffix(key, ".mp3") {
		t.Fatalf("unexpected key %q", key)
	}

	url, err := store.Put(context.Background(), key, src, "audio/mpeg")
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if url != "/media/"+key {
		t.Fatalf("unexpected url %q", url)
	}
	got, err := os.ReadFile(filepath.Join(root, "media", filepath.FromSlash(key)))
	if err != nil || string(got) != "ID3audio" {
		t.Fatalf("stored content = %q, %v", got, err)
	}

	back, ok := KeyFromURL("/media", url)
	if !ok || back != key {
		t.Fatalf("KeyFromURL = %q, %v", back, ok)
	}
	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("second Delete should ignore missing file, got %v", err)
	}
}

func TestKeyFromURLForeign(t *testing.T) {
	if _, ok := KeyFromURL("/media", "https://cdn.example.com/x.png"); ok {
		t.Fatalf("expected foreign url to be rejected")
	}
}
