package slug

import (
	"context"
	"strconv"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Hello   World  ", "hello-world"},
		{"Crème Brûlée", "creme-brulee"},
		{"Åland Islands", "aland-islands"},
		{"C++ & Go!", "c-go"},
		{"already-a-slug", "already-a-slug"},
		{"snake_case_title", "snake-case-title"},
		{"--weird---input--", "weird-input"},
		{"UPPER123", "upper123"},
		{"日本語のみ", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"Hello World", "Crème Brûlée", "a--b__c", "x", ""}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

// memStore records taken slugs in memory.
type memStore struct {
	taken  map[string]bool
	probes int
}

func (m *memStore) Exists(_ context.Context, slug string, _ Scope) (bool, error) {
	m.probes++
	return m.taken[slug], nil
}

func TestResolveFreeCandidate(t *testing.T) {
	t.Parallel()

	r := NewResolver(&memStore{taken: map[string]bool{}}, nil)
	got, err := r.Resolve(context.Background(), "hello-world", Scope{Table: "content_items"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "hello-world" {
		t.Fatalf("free candidate must be returned unchanged, got %q", got)
	}
}

func TestResolveCollisionGetsSuffix(t *testing.T) {
	t.Parallel()

	store := &memStore{taken: map[string]bool{"hello-world": true}}
	r := NewResolver(store, nil)
	got, err := r.Resolve(context.Background(), "hello-world", Scope{Table: "content_items"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == "hello-world" {
		t.Fatal("colliding candidate must not be returned unchanged")
	}
	suffix, ok := strings.CutPrefix(got, "hello-world-")
	if !ok {
		t.Fatalf("result %q must keep the original candidate as prefix", got)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 1 || n > 999 {
		t.Fatalf("suffix %q must be a number in 1..999", suffix)
	}
}

// collideAll simulates a fully saturated namespace.
type collideAll struct{ probes int }

func (c *collideAll) Exists(context.Context, string, Scope) (bool, error) {
	c.probes++
	return true, nil
}

func TestResolveFallbackAfterTenCollisions(t *testing.T) {
	t.Parallel()

	store := &collideAll{}
	r := NewResolver(store, nil)
	got, err := r.Resolve(context.Background(), "hello-world", Scope{Table: "content_items"})
	if err != nil {
		t.Fatalf("exhausted probes must not be an error, got %v", err)
	}
	// initial check + 10 suffix probes, then unconditional fallback
	if store.probes != 11 {
		t.Fatalf("expected 11 existence checks, got %d", store.probes)
	}
	suffix, ok := strings.CutPrefix(got, "hello-world-")
	if !ok {
		t.Fatalf("fallback %q must contain the original candidate", got)
	}
	if _, err := strconv.ParseInt(suffix, 10, 64); err != nil {
		t.Fatalf("fallback suffix %q must be numeric", suffix)
	}
}

func TestResolveExcludesOwnRow(t *testing.T) {
	t.Parallel()

	// Store that honors ExcludeID like the real gorm store does.
	store := existsFunc(func(slug string, scope Scope) bool {
		return slug == "hello-world" && scope.ExcludeID != "item-1"
	})
	r := NewResolver(store, nil)
	got, err := r.Resolve(context.Background(), "hello-world", Scope{Table: "content_items", ExcludeID: "item-1"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "hello-world" {
		t.Fatalf("update must not collide with its own row, got %q", got)
	}
}

type existsFunc func(slug string, scope Scope) bool

func (f existsFunc) Exists(_ context.Context, slug string, scope Scope) (bool, error) {
	return f(slug, scope), nil
}
