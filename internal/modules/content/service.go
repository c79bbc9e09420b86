package content

import (
	"context"
	"errors"
	"time"

	"github.com/contentpilot/core/internal/models"
	"github.com/contentpilot/core/internal/pkg/pagination"
	"github.com/contentpilot/core/internal/pkg/response"
	"github.com/contentpilot/core/internal/pkg/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrSiteNotFound means the referenced site does not exist.
	ErrSiteNotFound = errors.New("site not found")
	// ErrSeriesNotFound means the referenced series does not exist.
	ErrSeriesNotFound = errors.New("series not found")
	// ErrSeriesSiteMismatch means the referenced series belongs to a
	// different site than the item.
	ErrSeriesSiteMismatch = errors.New("series belongs to a different site")
	// ErrFrozen refuses automated status advancement of a held item.
	ErrFrozen = errors.New("item is frozen, manual action required")
	// ErrBadStatus means the caller supplied an unknown status value.
	ErrBadStatus = errors.New("unknown status value")
	// ErrBadPublishStatus means an unknown per-channel publish status.
	ErrBadPublishStatus = errors.New("unknown publish status value")
	// ErrEmptySlug means neither the title nor the slug yields a usable slug.
	ErrEmptySlug = errors.New("title does not yield a usable slug")
)

type Service struct {
	db    *gorm.DB
	slugs *slug.Resolver
	log   *zap.Logger
}

func NewService(db *gorm.DB, slugs *slug.Resolver, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, slugs: slugs, log: log}
}

func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.ContentItemModel, response.Pagination, error) {
	tx := s.db.Model(&models.ContentItemModel{}).Order("created_at DESC")
	if lq.SiteID != "" {
		tx = tx.Where("site_id = ?", lq.SiteID)
	}
	if lq.SeriesID != "" {
		tx = tx.Where("series_id = ?", lq.SeriesID)
	}
	if lq.Status != "" {
		tx = tx.Where("status = ?", lq.Status)
	}
	if lq.Type != "" {
		tx = tx.Where("type = ?", lq.Type)
	}
	if lq.Search != "" {
		tx = tx.Where("title LIKE ?", "%"+lq.Search+"%")
	}

	var items []models.ContentItemModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByID(id string) (*models.ContentItemModel, error) {
	var item models.ContentItemModel
	if err := s.db.Preload("Series").First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create inserts a new content item. If a series is referenced it must
// belong to the item's site; a mismatch rejects the write.
func (s *Service) Create(ctx context.Context, dto *CreateContentItemDTO) (*models.ContentItemModel, error) {
	if err := s.requireSite(dto.SiteID); err != nil {
		return nil, err
	}
	seriesID := normalizeSeriesRef(dto.SeriesID)
	if seriesID != nil {
		if err := s.requireSeriesInSite(*seriesID, dto.SiteID); err != nil {
			return nil, err
		}
	}

	candidate := slug.Normalize(dto.Slug)
	if candidate == "" {
		candidate = slug.Normalize(dto.Title)
	}
	if candidate == "" {
		return nil, ErrEmptySlug
	}
	// Item slugs are globally unique; the scope stays explicit so a future
	// per-(site,series) policy is a call-site change, not a resolver change.
	resolved, err := s.slugs.Resolve(ctx, candidate, slug.Scope{Table: "content_items"})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := models.ContentItemModel{
		SiteID:             dto.SiteID,
		SeriesID:           seriesID,
		Title:              dto.Title,
		Slug:               resolved,
		Type:               models.ContentTypeEvergreen,
		Status:             models.StatusDraft,
		Frozen:             true,
		VideoStatus:        models.PublishNone,
		SiteStatus:         models.PublishNone,
		SocialStatus:       models.PublishNone,
		ScheduledAt:        dto.ScheduledAt,
		LastStatusChangeAt: &now,
	}
	if dto.Type != "" {
		item.Type = dto.Type
	}
	if dto.Status != nil {
		if !dto.Status.Valid() {
			return nil, ErrBadStatus
		}
		item.Status = *dto.Status
	}
	if dto.Frozen != nil {
		item.Frozen = *dto.Frozen
	}
	for _, ch := range []struct {
		in  *models.PublishStatus
		out *models.PublishStatus
	}{
		{dto.VideoStatus, &item.VideoStatus},
		{dto.SiteStatus, &item.SiteStatus},
		{dto.SocialStatus, &item.SocialStatus},
	} {
		if ch.in != nil {
			if !ch.in.Valid() {
				return nil, ErrBadPublishStatus
			}
			*ch.out = *ch.in
		}
	}

	return &item, s.db.Create(&item).Error
}

// Update patches an item. last_status_change_at is stamped exactly when the
// status actually changes in this write, and never otherwise.
func (s *Service) Update(ctx context.Context, id string, dto *UpdateContentItemDTO) (*models.ContentItemModel, error) {
	item, err := s.GetByID(id)
	if err != nil || item == nil {
		return item, err
	}

	updates := map[string]interface{}{}

	if dto.SeriesID != nil {
		seriesID := normalizeSeriesRef(dto.SeriesID)
		if seriesID == nil {
			updates["series_id"] = nil
		} else {
			if err := s.requireSeriesInSite(*seriesID, item.SiteID); err != nil {
				return nil, err
			}
			updates["series_id"] = *seriesID
		}
	}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Slug != nil {
		candidate := slug.Normalize(*dto.Slug)
		if candidate == "" {
			return nil, ErrEmptySlug
		}
		if candidate != item.Slug {
			resolved, err := s.slugs.Resolve(ctx, candidate, slug.Scope{Table: "content_items", ExcludeID: item.ID})
			if err != nil {
				return nil, err
			}
			updates["slug"] = resolved
		}
	}
	if dto.Type != nil {
		updates["type"] = *dto.Type
	}
	if dto.Status != nil && *dto.Status != item.Status {
		if !dto.Status.Valid() {
			return nil, ErrBadStatus
		}
		s.logStatusRegression(item, *dto.Status)
		updates["status"] = *dto.Status
		updates["last_status_change_at"] = time.Now()
	}
	if dto.Frozen != nil {
		updates["frozen"] = *dto.Frozen
	}
	for col, in := range map[string]*models.PublishStatus{
		"video_status":  dto.VideoStatus,
		"site_status":   dto.SiteStatus,
		"social_status": dto.SocialStatus,
	} {
		if in != nil {
			if !in.Valid() {
				return nil, ErrBadPublishStatus
			}
			updates[col] = *in
		}
	}
	if dto.ScheduledAt != nil {
		updates["scheduled_at"] = *dto.ScheduledAt
	}

	return item, s.db.Model(item).Updates(updates).Error
}

// AdvanceStatus writes a single status transition. Automated callers set
// manual=false and are refused while the item is frozen; a frozen item only
// ever changes by explicit operator action. Writing the current status again
// is a no-op, so retrying workers stay idempotent.
func (s *Service) AdvanceStatus(id string, target models.ContentStatus, manual bool) (*models.ContentItemModel, error) {
	if !target.Valid() {
		return nil, ErrBadStatus
	}
	item, err := s.GetByID(id)
	if err != nil || item == nil {
		return item, err
	}
	if item.Frozen && !manual {
		return nil, ErrFrozen
	}
	if target == item.Status {
		return item, nil
	}

	s.logStatusRegression(item, target)
	now := time.Now()
	err = s.db.Model(item).Updates(map[string]interface{}{
		"status":                target,
		"last_status_change_at": now,
	}).Error
	return item, err
}

// Delete soft-deletes a content item.
func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.ContentItemModel{}, "id = ?", id).Error
}

// logStatusRegression surfaces out-of-order transitions. They are allowed
// (manual correction is a legitimate use) but the triage queries assume the
// pipeline ordering holds, so regressions are worth seeing in the logs.
func (s *Service) logStatusRegression(item *models.ContentItemModel, target models.ContentStatus) {
	if target.Rank() < item.Status.Rank() {
		s.log.Warn("content status moved backwards",
			zap.String("id", item.ID),
			zap.String("from", string(item.Status)),
			zap.String("to", string(target)),
		)
	}
}

func (s *Service) requireSite(siteID string) error {
	var count int64
	if err := s.db.Model(&models.SiteModel{}).Where("id = ?", siteID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrSiteNotFound
	}
	return nil
}

func (s *Service) requireSeriesInSite(seriesID, siteID string) error {
	var sr models.SeriesModel
	if err := s.db.First(&sr, "id = ?", seriesID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSeriesNotFound
		}
		return err
	}
	if sr.SiteID != siteID {
		return ErrSeriesSiteMismatch
	}
	return nil
}

func normalizeSeriesRef(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}
