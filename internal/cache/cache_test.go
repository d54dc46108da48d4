package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	a := Key("model-a", "prompt")
	b := Key("model-b", "prompt")
	c := Key("model-a", "other prompt")
	if a == b || a == c {
		t.Error("distinct inputs produced colliding keys")
	}
	if a != Key("model-a", "prompt") {
		t.Error("key is not deterministic")
	}
}

func TestPutGet(t *testing.T) {
	c, err := New(true, t.TempDir(), 3600)
	if err != nil {
		t.Fatal(err)
	}

	key := Key("m", "p")
	if _, ok := c.Get(key); ok {
		t.Error("hit on empty cache")
	}

	if err := c.Put(key, "the completion"); err != nil {
		t.Fatal(err)
	}
	got, ok := c.Get(key)
	if !ok {
		t.Fatal("miss after Put")
	}
	if got != "the completion" {
		t.Errorf("response = %q", got)
	}
}

func TestGet_Expired(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 60)
	if err != nil {
		t.Fatal(err)
	}

	key := Key("m", "p")
	entry := Entry{
		Key:       key,
		Response:  "stale",
		CreatedAt: time.Now().Add(-2 * time.Minute),
		TTL:       60,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, key+".json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get(key); ok {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(filepath.Join(dir, key+".json")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestDisabled(t *testing.T) {
	c, err := New(false, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put("k", "v"); err != nil {
		t.Errorf("disabled Put error: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("disabled cache returned a hit")
	}
	if err := c.Clear(); err != nil {
		t.Errorf("disabled Clear error: %v", err)
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 3600)
	if err != nil {
		t.Fatal(err)
	}
	c.Put(Key("m", "a"), "x")
	c.Put(Key("m", "b"), "y")

	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(Key("m", "a")); ok {
		t.Error("entry survived Clear")
	}
}
