package slug

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const maxProbes = 10

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize converts a human title into a URL-safe slug: lowercase, strip
// diacritics, whitespace to hyphens, drop everything outside [a-z0-9-],
// collapse repeated hyphens. Returns "" for input with no usable
// characters; the caller must supply a fallback.
func Normalize(s string) string {
	if out, _, err := transform.String(deaccent, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := true // swallow leading hyphens
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Scope declares where a slug must be unique: a table plus optional equality
// filters (column name to value). Callers state the scope explicitly per
// call site; the resolver never infers it from the table.
type Scope struct {
	Table   string
	Filters map[string]interface{}
	// ExcludeID removes the entity's own row from the collision check so
	// updates do not collide with themselves.
	ExcludeID string
}

// Store answers slug-existence probes. Split out from gorm so the probe
// loop is testable without a database.
type Store interface {
	Exists(ctx context.Context, slug string, scope Scope) (bool, error)
}

// GormStore probes slug existence against the relational store.
type GormStore struct{ db *gorm.DB }

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{db: db} }

func (g *GormStore) Exists(ctx context.Context, slug string, scope Scope) (bool, error) {
	tx := g.db.WithContext(ctx).Table(scope.Table).
		Where("slug = ?", slug).
		Where("deleted_at IS NULL")
	for col, val := range scope.Filters {
		tx = tx.Where(col+" = ?", val)
	}
	if scope.ExcludeID != "" {
		tx = tx.Where("id <> ?", scope.ExcludeID)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Resolver produces unique slugs by probing the store. The probe loop is a
// best-effort courtesy: two concurrent writers can both see "free" and both
// insert, so every slug column also carries a unique index as the real
// correctness guarantee.
type Resolver struct {
	store Store
	log   *zap.Logger
}

func NewResolver(store Store, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{store: store, log: log}
}

// Resolve returns candidate if it is free within scope. On collision it
// retries with `candidate-<random 1..999>` (always suffixed on the original
// candidate) up to 10 times, then falls back to a timestamp suffix that is
// returned without a further check.
func (r *Resolver) Resolve(ctx context.Context, candidate string, scope Scope) (string, error) {
	taken, err := r.store.Exists(ctx, candidate, scope)
	if err != nil {
		return "", err
	}
	if !taken {
		return candidate, nil
	}

	for i := 0; i < maxProbes; i++ {
		probe := fmt.Sprintf("%s-%d", candidate, rand.Intn(999)+1)
		taken, err := r.store.Exists(ctx, probe, scope)
		if err != nil {
			return "", err
		}
		if !taken {
			return probe, nil
		}
	}

	// Ten random probes all colliding means the namespace around this
	// candidate is hammered; a millisecond timestamp will not be.
	fallback := fmt.Sprintf("%s-%d", candidate, time.Now().UnixMilli())
	r.log.Warn("slug probe budget exhausted, using timestamp fallback",
		zap.String("candidate", candidate),
		zap.String("table", scope.Table),
		zap.String("fallback", fallback),
	)
	return fallback, nil
}
