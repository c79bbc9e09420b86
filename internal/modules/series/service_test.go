package series

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

func mustCreateSite(t *testing.T, db *gorm.DB, name string) *models.SiteModel {
	t.Helper()
	site := &models.SiteModel{Name: name, Slug: slug.Normalize(name)}
	if err := db.Create(site).Error; err != nil {
		t.Fatalf("create site: %v", err)
	}
	return site
}

func TestReassignSiteBlockedWhileOwningItems(t *testing.T) {
	svc, db := newTestService(t)
	siteA := mustCreateSite(t, db, "Site A")
	siteB := mustCreateSite(t, db, "Site B")

	sr, err := svc.Create(context.Background(), &CreateSeriesDTO{Title: "Show", SiteID: siteA.ID})
	if err != nil {
		t.Fatalf("create series: %v", err)
	}
	item := &models.ContentItemModel{SiteID: siteA.ID, SeriesID: &sr.ID, Title: "Ep 1", Slug: "ep-1"}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}

	_, err = svc.Update(context.Background(), sr.ID, &UpdateSeriesDTO{SiteID: &siteB.ID})
	if !errors.Is(err, ErrOwnsItems) {
		t.Fatalf("expected ErrOwnsItems, got %v", err)
	}
	got, _ := svc.GetByID(sr.ID)
	if got.SiteID != siteA.ID {
		t.Fatal("refused reassignment must leave site_id untouched")
	}

	// Detach the item; the same reassignment must now succeed.
	if err := db.Model(item).Update("series_id", nil).Error; err != nil {
		t.Fatalf("detach item: %v", err)
	}
	if _, err := svc.Update(context.Background(), sr.ID, &UpdateSeriesDTO{SiteID: &siteB.ID}); err != nil {
		t.Fatalf("reassign after detach: %v", err)
	}
	got, _ = svc.GetByID(sr.ID)
	if got.SiteID != siteB.ID {
		t.Fatalf("site_id = %q, want %q", got.SiteID, siteB.ID)
	}
}

func TestDeleteBlockedWhileOwningItems(t *testing.T) {
	svc, db := newTestService(t)
	site := mustCreateSite(t, db, "Site")

	sr, err := svc.Create(context.Background(), &CreateSeriesDTO{Title: "Show", SiteID: site.ID})
	if err != nil {
		t.Fatalf("create series: %v", err)
	}
	item := &models.ContentItemModel{SiteID: site.ID, SeriesID: &sr.ID, Title: "Ep 1", Slug: "ep-1"}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := svc.Delete(sr.ID); !errors.Is(err, ErrOwnsItems) {
		t.Fatalf("expected ErrOwnsItems, got %v", err)
	}

	if err := db.Model(item).Update("series_id", nil).Error; err != nil {
		t.Fatalf("detach item: %v", err)
	}
	if err := svc.Delete(sr.ID); err != nil {
		t.Fatalf("delete after detach: %v", err)
	}
	got, _ := svc.GetByID(sr.ID)
	if got != nil {
		t.Fatal("series must be gone after delete")
	}
}

func TestCreateRequiresExistingSite(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), &CreateSeriesDTO{Title: "Orphan", SiteID: "missing"})
	if !errors.Is(err, ErrSiteNotFound) {
		t.Fatalf("expected ErrSiteNotFound, got %v", err)
	}
}
