package site

import (
	"context"
	"errors"
	"testing"

	"github.com/contentpilot/core/internal/database"
	"github.com/contentpilot/core/internal/models"
	"github.com/contentpilot/core/internal/pkg/slug"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewService(db, slug.NewResolver(slug.NewGormStore(db), nil)), db
}

func TestCreateDerivesSlugFromName(t *testing.T) {
	svc, _ := newTestService(t)

	site, err := svc.Create(context.Background(), &CreateSiteDTO{Name: "Tech Channel"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if site.Slug != "tech-channel" {
		t.Fatalf("slug = %q, want tech-channel", site.Slug)
	}
	if site.Language != "en" {
		t.Fatalf("language default = %q, want en", site.Language)
	}
}

func TestCreateRejectsUnusableName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &CreateSiteDTO{Name: "、、、"})
	if !errors.Is(err, ErrEmptySlug) {
		t.Fatalf("expected ErrEmptySlug, got %v", err)
	}
}

func TestDeleteBlockedWhileReferenced(t *testing.T) {
	svc, db := newTestService(t)

	site, err := svc.Create(context.Background(), &CreateSiteDTO{Name: "Busy Site"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	item := &models.ContentItemModel{SiteID: site.ID, Title: "Item", Slug: "item"}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := svc.Delete(site.ID); !errors.Is(err, ErrReferenced) {
		t.Fatalf("expected ErrReferenced, got %v", err)
	}

	if err := db.Delete(item).Error; err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if err := svc.Delete(site.ID); err != nil {
		t.Fatalf("delete after unreference: %v", err)
	}
}
