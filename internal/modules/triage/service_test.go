package triage

import (
	"fmt"
	"testing"
	"time"

	"github.com/contentpilot/core/internal/database"
	"github.com/contentpilot/core/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, v interface{}) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

// newItem builds a content item with sane channel defaults.
func newItem(id, siteID, title string, status models.ContentStatus) *models.ContentItemModel {
	return &models.ContentItemModel{
		Base:         models.Base{ID: id},
		SiteID:       siteID,
		Title:        title,
		Slug:         id,
		Status:       status,
		VideoStatus:  models.PublishNone,
		SiteStatus:   models.PublishNone,
		SocialStatus: models.PublishNone,
	}
}

func TestEmptyReport(t *testing.T) {
	svc := NewService(newTestDB(t), nil)

	report, err := svc.Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(report.ToGenerateMaterial) != 0 || len(report.ToPublishPrimary) != 0 ||
		len(report.ToPublishSecondary) != 0 || len(report.ToResearch) != 0 {
		t.Fatal("empty table must yield empty sections")
	}
	if report.WaitingAndGenerating != (WaitingCounts{}) {
		t.Fatalf("empty table must yield zero counts, got %+v", report.WaitingAndGenerating)
	}
}

func TestPublishGating(t *testing.T) {
	db := newTestDB(t)
	site := &models.SiteModel{Name: "Site", Slug: "site"}
	mustCreate(t, db, site)

	item := newItem("item-1", site.ID, "Ready", models.StatusVideoGenerated)
	mustCreate(t, db, item)

	svc := NewService(db, nil)

	// Primary channel unpublished: section 3 yes, section 4 no.
	report, err := svc.Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(report.ToPublishPrimary) != 1 || report.ToPublishPrimary[0].ID != "item-1" {
		t.Fatalf("item must appear in toPublishPrimary, got %+v", report.ToPublishPrimary)
	}
	if len(report.ToPublishSecondary) != 0 {
		t.Fatal("secondary publication must stay gated until primary is public")
	}

	// Primary goes public: the gate opens.
	if err := db.Model(item).Update("video_status", models.PublishPublic).Error; err != nil {
		t.Fatalf("publish primary: %v", err)
	}
	report, err = svc.Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(report.ToPublishPrimary) != 0 {
		t.Fatal("published item must leave toPublishPrimary")
	}
	if len(report.ToPublishSecondary) != 1 || report.ToPublishSecondary[0].ID != "item-1" {
		t.Fatalf("item must appear in toPublishSecondary, got %+v", report.ToPublishSecondary)
	}
}

func TestWaitingCountsOnlyUnpublishedVideoGenerated(t *testing.T) {
	db := newTestDB(t)
	site := &models.SiteModel{Name: "Site", Slug: "site"}
	mustCreate(t, db, site)

	mustCreate(t, db, newItem("mg-1", site.ID, "A", models.StatusMaterialGenerated))
	mustCreate(t, db, newItem("mg-2", site.ID, "B", models.StatusMaterialGenerated))
	mustCreate(t, db, newItem("gv-1", site.ID, "C", models.StatusGeneratingVideo))
	mustCreate(t, db, newItem("vg-1", site.ID, "D", models.StatusVideoGenerated))

	// Published on one channel: not "waiting" anymore.
	published := newItem("vg-2", site.ID, "E", models.StatusVideoGenerated)
	published.VideoStatus = models.PublishPublic
	mustCreate(t, db, published)

	report, err := NewService(db, nil).Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	want := WaitingCounts{MaterialGenerated: 2, GeneratingVideo: 1, VideoGenerated: 1}
	if report.WaitingAndGenerating != want {
		t.Fatalf("counts = %+v, want %+v", report.WaitingAndGenerating, want)
	}
}

func TestResearchCappingKeepsThreeMostRecent(t *testing.T) {
	db := newTestDB(t)
	site := &models.SiteModel{Name: "Site", Slug: "site"}
	mustCreate(t, db, site)
	sr := &models.SeriesModel{Title: "Show", Slug: "show", SiteID: site.ID}
	mustCreate(t, db, sr)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		item := newItem(fmt.Sprintf("draft-%d", i), site.ID, "Draft", models.StatusDraft)
		item.SeriesID = &sr.ID
		item.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		mustCreate(t, db, item)
	}
	// A draft without a series never joins a research group.
	mustCreate(t, db, newItem("loose-draft", site.ID, "Loose", models.StatusDraft))

	report, err := NewService(db, nil).Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(report.ToResearch) != 1 {
		t.Fatalf("expected one research group, got %d", len(report.ToResearch))
	}
	group := report.ToResearch[0]
	if group.Series.ID != sr.ID || group.Series.Title != "Show" {
		t.Fatalf("group series = %+v, want %s", group.Series, sr.ID)
	}
	if len(group.Items) != 3 {
		t.Fatalf("group must cap at 3 items, got %d", len(group.Items))
	}
	wantOrder := []string{"draft-5", "draft-4", "draft-3"}
	for i, want := range wantOrder {
		if group.Items[i].ID != want {
			t.Fatalf("items[%d] = %s, want %s (most recent first)", i, group.Items[i].ID, want)
		}
	}
	for _, it := range group.Items {
		if it.Created.IsZero() {
			t.Fatalf("item %s created date must survive the raw scan", it.ID)
		}
	}
}

func TestResearchOmitsSeriesWithoutDrafts(t *testing.T) {
	db := newTestDB(t)
	site := &models.SiteModel{Name: "Site", Slug: "site"}
	mustCreate(t, db, site)
	active := &models.SeriesModel{Title: "Active", Slug: "active", SiteID: site.ID}
	idle := &models.SeriesModel{Title: "Idle", Slug: "idle", SiteID: site.ID}
	mustCreate(t, db, active)
	mustCreate(t, db, idle)

	item := newItem("draft-1", site.ID, "Draft", models.StatusDraft)
	item.SeriesID = &active.ID
	mustCreate(t, db, item)

	report, err := NewService(db, nil).Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(report.ToResearch) != 1 {
		t.Fatalf("expected one group, got %d", len(report.ToResearch))
	}
	if report.ToResearch[0].Series.ID != active.ID {
		t.Fatal("only series with qualifying drafts may appear")
	}
}

// The four-item end-to-end walk: one item per actionable section.
func TestReportEndToEnd(t *testing.T) {
	db := newTestDB(t)
	site := &models.SiteModel{Name: "Site", Slug: "site"}
	mustCreate(t, db, site)

	mustCreate(t, db, newItem("item-1", site.ID, "Researched", models.StatusResearched))
	mustCreate(t, db, newItem("item-2", site.ID, "Generated", models.StatusMaterialGenerated))
	mustCreate(t, db, newItem("item-3", site.ID, "Renderable", models.StatusVideoGenerated))

	crossposted := newItem("item-4", site.ID, "Crosspost", models.StatusVideoGenerated)
	crossposted.VideoStatus = models.PublishPublic
	mustCreate(t, db, crossposted)

	report, err := NewService(db, nil).Report()
	if err != nil {
		t.Fatalf("Report: %v", err)
	}

	if len(report.ToGenerateMaterial) != 1 || report.ToGenerateMaterial[0].ID != "item-1" {
		t.Fatalf("toGenerateMaterial = %+v, want [item-1]", report.ToGenerateMaterial)
	}
	if report.WaitingAndGenerating.MaterialGenerated != 1 {
		t.Fatalf("materialGenerated count = %d, want 1", report.WaitingAndGenerating.MaterialGenerated)
	}
	if len(report.ToPublishPrimary) != 1 || report.ToPublishPrimary[0].ID != "item-3" {
		t.Fatalf("toPublishPrimary = %+v, want [item-3]", report.ToPublishPrimary)
	}
	if len(report.ToPublishSecondary) != 1 || report.ToPublishSecondary[0].ID != "item-4" {
		t.Fatalf("toPublishSecondary = %+v, want [item-4]", report.ToPublishSecondary)
	}
}
