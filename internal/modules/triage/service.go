package triage

import (
	"fmt"
	"time"

	"github.com/contentpilot/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// draftsPerSeries caps each "to research" group at the most recent drafts.
const draftsPerSeries = 3

// Service computes the triage report. Read-only: it never mutates the
// content table.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log}
}

// Report runs the five queries and assembles one response. Any query error
// fails the whole report; there is no partial-result mode, the consumer
// only ever uses it as a whole.
func (s *Service) Report() (*Report, error) {
	report := &Report{}

	toGenerate, err := s.itemsWhere("status = ?", models.StatusResearched)
	if err != nil {
		return nil, fmt.Errorf("to-generate query: %w", err)
	}
	report.ToGenerateMaterial = toGenerate

	counts, err := s.waitingCounts()
	if err != nil {
		return nil, fmt.Errorf("waiting counts query: %w", err)
	}
	report.WaitingAndGenerating = counts

	primary, err := s.itemsWhere("status = ? AND video_status = ?",
		models.StatusVideoGenerated, models.PublishNone)
	if err != nil {
		return nil, fmt.Errorf("publish-primary query: %w", err)
	}
	report.ToPublishPrimary = primary

	// Secondary publication is gated on the primary channel already being
	// public; an item never appears here before it leaves ToPublishPrimary.
	secondary, err := s.itemsWhere("status = ? AND social_status = ? AND video_status = ?",
		models.StatusVideoGenerated, models.PublishNone, models.PublishPublic)
	if err != nil {
		return nil, fmt.Errorf("publish-secondary query: %w", err)
	}
	report.ToPublishSecondary = secondary

	research, err := s.draftsBySeries()
	if err != nil {
		return nil, fmt.Errorf("to-research query: %w", err)
	}
	report.ToResearch = research

	return report, nil
}

// itemsWhere fetches a list section, most recently updated first.
func (s *Service) itemsWhere(cond string, args ...interface{}) ([]ReportItem, error) {
	var rows []models.ContentItemModel
	err := s.db.Model(&models.ContentItemModel{}).
		Where(cond, args...).
		Order("updated_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]ReportItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ReportItem{
			ID:           row.ID,
			Title:        row.Title,
			Slug:         row.Slug,
			SiteID:       row.SiteID,
			SeriesID:     row.SeriesID,
			Status:       row.Status,
			VideoStatus:  row.VideoStatus,
			SocialStatus: row.SocialStatus,
			Created:      row.CreatedAt,
			Modified:     row.UpdatedAt,
		})
	}
	return items, nil
}

// waitingCounts computes the three pipeline counters in one conditional-sum
// query instead of three table scans.
func (s *Service) waitingCounts() (WaitingCounts, error) {
	var row struct {
		MaterialGenerated int64
		GeneratingVideo   int64
		VideoGenerated    int64
	}
	err := s.db.Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN status = 'materialGenerated' THEN 1 ELSE 0 END), 0) AS material_generated,
			COALESCE(SUM(CASE WHEN status = 'generatingVideo' THEN 1 ELSE 0 END), 0) AS generating_video,
			COALESCE(SUM(CASE WHEN status = 'videoGenerated'
				AND video_status = 'none' AND site_status = 'none' AND social_status = 'none'
				THEN 1 ELSE 0 END), 0) AS video_generated
		FROM content_items
		WHERE deleted_at IS NULL`).Scan(&row).Error
	if err != nil {
		return WaitingCounts{}, err
	}
	return WaitingCounts{
		MaterialGenerated: row.MaterialGenerated,
		GeneratingVideo:   row.GeneratingVideo,
		VideoGenerated:    row.VideoGenerated,
	}, nil
}

// draftRow is the raw windowed-query projection. Dates come back as strings
// so one malformed row degrades to a defaulted timestamp instead of failing
// the whole monitoring view.
type draftRow struct {
	ID        string
	Title     string
	Slug      string
	SiteID    string
	SeriesID  string
	CreatedAt string
	UpdatedAt string
	Rn        int
}

// draftsBySeries returns draft items grouped per series, each group capped
// at the three most recently created. Series without qualifying drafts are
// omitted.
func (s *Service) draftsBySeries() ([]SeriesDrafts, error) {
	var rows []draftRow
	err := s.db.Raw(`
		SELECT id, title, slug, site_id, series_id, created_at, updated_at, rn
		FROM (
			SELECT id, title, slug, site_id, series_id, created_at, updated_at,
				ROW_NUMBER() OVER (PARTITION BY series_id ORDER BY created_at DESC) AS rn
			FROM content_items
			WHERE status = 'draft' AND series_id IS NOT NULL AND deleted_at IS NULL
		) ranked
		WHERE rn <= ?
		ORDER BY series_id, rn`, draftsPerSeries).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []SeriesDrafts{}, nil
	}

	seriesIDs := make([]string, 0, len(rows))
	seen := map[string]bool{}
	for _, r := range rows {
		if !seen[r.SeriesID] {
			seen[r.SeriesID] = true
			seriesIDs = append(seriesIDs, r.SeriesID)
		}
	}

	var seriesRows []models.SeriesModel
	if err := s.db.Where("id IN ?", seriesIDs).Find(&seriesRows).Error; err != nil {
		return nil, err
	}
	refs := make(map[string]SeriesRef, len(seriesRows))
	for _, sr := range seriesRows {
		refs[sr.ID] = SeriesRef{ID: sr.ID, Title: sr.Title, Slug: sr.Slug, SiteID: sr.SiteID}
	}

	groups := make([]SeriesDrafts, 0, len(seriesIDs))
	byID := map[string]int{}
	for _, r := range rows {
		idx, ok := byID[r.SeriesID]
		if !ok {
			idx = len(groups)
			byID[r.SeriesID] = idx
			groups = append(groups, SeriesDrafts{Series: refs[r.SeriesID], Items: []ReportItem{}})
		}
		seriesID := r.SeriesID
		groups[idx].Items = append(groups[idx].Items, ReportItem{
			ID:           r.ID,
			Title:        r.Title,
			Slug:         r.Slug,
			SiteID:       r.SiteID,
			SeriesID:     &seriesID,
			Status:       models.StatusDraft,
			VideoStatus:  models.PublishNone,
			SocialStatus: models.PublishNone,
			Created:      s.parseStoredTime(r.ID, "created_at", r.CreatedAt),
			Modified:     s.parseStoredTime(r.ID, "updated_at", r.UpdatedAt),
		})
	}
	return groups, nil
}

// storedTimeLayouts covers the formats the drivers hand back: RFC3339 from
// database/sql's time conversion, plus the plain and offset DATETIME forms.
var storedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// parseStoredTime normalizes a raw date column to a time.Time. A value that
// parses under no known layout is a data-quality problem: it gets logged and
// defaulted to the zero instant, never failing the report.
func (s *Service) parseStoredTime(rowID, column, raw string) time.Time {
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	s.log.Warn("unparseable stored date, defaulting",
		zap.String("row", rowID),
		zap.String("column", column),
		zap.String("value", raw),
	)
	return time.Time{}
}
