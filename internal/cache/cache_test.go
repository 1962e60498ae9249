package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/ynishioka/shindan/internal/model"
)

func TestKey_Stable(t *testing.T) {
	a := Key("月額料金 7,700円", model.DefaultConfig())
	b := Key("月額料金 7,700円", model.DefaultConfig())
	if a != b {
		t.Errorf("same input must produce the same key: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "shindan:") {
		t.Errorf("key missing namespace prefix: %s", a)
	}
}

func TestKey_SensitiveToTextAndOptions(t *testing.T) {
	base := Key("月額料金 7,700円", model.DefaultConfig())

	if Key("月額料金 4,500円", model.DefaultConfig()) == base {
		t.Error("different text must produce a different key")
	}

	cfg := model.DefaultConfig()
	cfg.Engine.TierPriceThreshold = 8000
	if Key("月額料金 7,700円", cfg) == base {
		t.Error("different engine options must produce a different key")
	}

	// The denylist changes which lines survive normalization, so it is
	// part of the fingerprint.
	cfg = model.DefaultConfig()
	cfg.Engine.BoilerplateDenylist = append(cfg.Engine.BoilerplateDenylist, "ご契約内容")
	if Key("月額料金 7,700円", cfg) == base {
		t.Error("different denylist must produce a different key")
	}

	// Enabling the collaborator can change the extracted amount; a
	// persistent backend must not serve the rule-only report.
	cfg = model.DefaultConfig()
	cfg.LLM.Provider = "openai"
	cfg.LLM.Model = "gpt-4o-mini"
	if Key("月額料金 7,700円", cfg) == base {
		t.Error("different collaborator selection must produce a different key")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit for missing key")
	}

	if err := c.Set("k", []byte("report"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "report" {
		t.Errorf("expected hit with 'report', got %q found=%v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("deleted key still present")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expired entry still served")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("a", []byte("1"), 0)
	_ = c.Set("b", []byte("2"), 0)
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("clear left entries behind")
	}
}

func TestDiskCache(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("unexpected hit for missing key")
	}

	if err := c.Set("k", []byte("report"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "report" {
		t.Errorf("expected hit with 'report', got %q found=%v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("deleted key still present")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expired entry still served")
	}
}

func TestDiskCache_Clear(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	_ = c.Set("a", []byte("1"), 0)
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("clear left entries behind")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	// Seed only the disk layer, as if from a previous process.
	if err := c.disk.Set("k", []byte("report"), 0); err != nil {
		t.Fatalf("seed disk: %v", err)
	}

	val, found := c.Get("k")
	if !found || string(val) != "report" {
		t.Fatalf("expected disk hit, got %q found=%v", val, found)
	}

	// Now present in memory too.
	if _, found := c.memory.Get("k"); !found {
		t.Error("disk hit was not promoted to memory")
	}
}

func TestLayeredCache_SetWritesBothLayers(t *testing.T) {
	c := NewLayeredCache(time.Minute, t.TempDir(), time.Minute)
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found := c.memory.Get("k"); !found {
		t.Error("memory layer missing entry")
	}
	if _, found := c.disk.Get("k"); !found {
		t.Error("disk layer missing entry")
	}
}

func TestNew_Backends(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"memory", false},
		{"disk", false},
		{"layered", false},
		{"redis", false},
		{"memcached", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			c, err := New(model.CacheConfig{
				Backend: tt.backend,
				Dir:     t.TempDir(),
				TTL:     time.Minute,
			})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c == nil {
				t.Fatal("expected a cache instance")
			}
		})
	}
}
