package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func init() { firstBackoff = time.Millisecond }

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = (%q, %v, %v), want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if n, err := c.Clear(ctx); n != 0 || err != nil {
		t.Errorf("Clear = (%d, %v), want (0, nil)", n, err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get(missing) should miss")
	}

	if err := c.Set(ctx, "k", []byte("svg"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "svg" {
		t.Fatalf("Get = (%q, %v, %v), want (svg, true, nil)", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	_ = c.Set(ctx, "short", []byte("x"), time.Nanosecond)
	_ = c.Set(ctx, "forever", []byte("y"), 0)
	time.Sleep(5 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}

	n, err := c.Clear(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Clear = (%d, %v), want (3, nil)", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear should miss")
	}
	if n, _ := c.Clear(ctx); n != 0 {
		t.Errorf("second Clear removed %d entries", n)
	}
}

func TestRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCache(client, "test:")
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Errorf("Get(missing) = (%v, %v), want a clean miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("svg"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("test:k") {
		t.Error("key should be stored under the prefix")
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "svg" {
		t.Fatalf("Get = (%q, %v, %v), want (svg, true, nil)", data, hit, err)
	}

	mr.FastForward(2 * time.Hour)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should expire after its ttl")
	}

	_ = c.Set(ctx, "d", []byte("x"), 0)
	if err := c.Delete(ctx, "d"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "d"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestRedisCacheClear(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCache(client, "test:")
	defer c.Close()

	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	_ = mr.Set("other", "kept")

	n, err := c.Clear(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Clear = (%d, %v), want (3, nil)", n, err)
	}
	if !mr.Exists("other") {
		t.Error("Clear removed a key outside its prefix")
	}
}

func TestDialRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := DialRedis(ctx, addr, DefaultRedisPrefix); !errors.Is(err, ErrNetwork) {
		t.Errorf("DialRedis() = %v, want ErrNetwork", err)
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if h != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(h))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	lk1 := k.LayoutKey("g1", LayoutKeyOpts{NodeWidth: 250, Sweeps: 8})
	lk2 := k.LayoutKey("g1", LayoutKeyOpts{NodeWidth: 300, Sweeps: 8})
	if lk1 == lk2 {
		t.Error("different LayoutKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(lk1, "layout:g1:") {
		t.Errorf("LayoutKey = %s, want layout:g1:...", lk1)
	}

	ak1 := k.ArtifactKey("l1", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("l1", ArtifactKeyOpts{Format: "svg", Detailed: true})
	if ak1 == ak2 {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(ak1, "artifact:l1:svg:") {
		t.Errorf("ArtifactKey = %s, want artifact:l1:svg:...", ak1)
	}
}

func TestWithPrefix(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := WithPrefix(nil, "v1:")

	opts := LayoutKeyOpts{NodeWidth: 250}
	if got, want := scoped.LayoutKey("h", opts), "v1:"+inner.LayoutKey("h", opts); got != want {
		t.Errorf("LayoutKey = %s, want %s", got, want)
	}
	aopts := ArtifactKeyOpts{Format: "svg"}
	if got, want := scoped.ArtifactKey("h", aopts), "v1:"+inner.ArtifactKey("h", aopts); got != want {
		t.Errorf("ArtifactKey = %s, want %s", got, want)
	}
	if got := WithPrefix(inner, ""); got != inner {
		t.Errorf("empty prefix should return inner, got %T", got)
	}
}

func TestFileCacheFormat(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	c.now = func() time.Time { return time.Unix(100, 0) }

	if err := c.Set(ctx, "k", []byte("svg"), time.Second); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(c.path("k"))
	if err != nil {
		t.Fatal(err)
	}
	if got := binary.BigEndian.Uint64(raw); got != uint64(time.Unix(101, 0).UnixNano()) {
		t.Errorf("expiry stamp = %d", got)
	}
	if string(raw[headerLen:]) != "svg" {
		t.Errorf("payload = %q", raw[headerLen:])
	}

	c.now = func() time.Time { return time.Unix(102, 0) }
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry past its stamp should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	// Truncated entries are dropped, foreign files survive Clear.
	_ = os.MkdirAll(filepath.Dir(c.path("short")), 0o755)
	_ = os.WriteFile(c.path("short"), []byte{1, 2}, 0o644)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("truncated entry should miss")
	}
	_ = os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0o644)
	if _, err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "README")); err != nil {
		t.Error("Clear removed a file that is not an entry")
	}
}

func TestFileCacheClearMissingDir(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	c.dir = filepath.Join(c.dir, "gone")
	if n, err := c.Clear(context.Background()); n != 0 || err != nil {
		t.Errorf("Clear = (%d, %v), want (0, nil)", n, err)
	}
}

func TestTransient(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{opErr, true},
		{ErrNetwork, true},
		{errors.New("WRONGTYPE"), false},
		{redis.Nil, false},
		{context.Canceled, false},
	}
	for _, tt := range tests {
		if got := transient(tt.err); got != tt.want {
			t.Errorf("transient(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	calls := 0
	if err := retry(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	calls = 0
	plain := errors.New("plain")
	if err := retry(ctx, func() error { calls++; return plain }); err != plain || calls != 1 {
		t.Errorf("permanent: err=%v calls=%d", err, calls)
	}

	calls = 0
	err := retry(ctx, func() error {
		calls++
		if calls < 2 {
			return opErr
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = retry(ctx, func() error { calls++; return opErr })
	if !errors.Is(err, ErrNetwork) || calls != attempts {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry(ctx, func() error { return ErrNetwork })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("retry() = %v, want context.Canceled", err)
	}
}
