package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCacheNoCache(t *testing.T) {
	c, err := newCache(t.Context(), true, "redis://ignored:6379")
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	defer c.Close()
	if _, hit, _ := c.Get(t.Context(), "envelope:x"); hit {
		t.Error("disabled cache reported a hit")
	}
}

func TestNewCacheFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, err := newCache(t.Context(), false, "")
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	defer c.Close()
	if err := c.Set(t.Context(), "envelope:x", []byte("{}"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(t.Context(), "envelope:x"); !hit {
		t.Error("file cache missed a stored key")
	}
}
