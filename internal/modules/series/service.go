package series

import (
	"context"
	"errors"

	"github.com/contentpilot/core/internal/models"
	"github.com/contentpilot/core/internal/pkg/pagination"
	"github.com/contentpilot/core/internal/pkg/response"
	"github.com/contentpilot/core/internal/pkg/slug"
	"gorm.io/gorm"
)

var (
	// ErrSiteNotFound means the referenced site does not exist.
	ErrSiteNotFound = errors.New("site not found")
	// ErrOwnsItems blocks site reassignment and deletion while the series
	// still owns content items.
	ErrOwnsItems = errors.New("series owns content items")
	// ErrEmptySlug means neither the title nor the slug yields a usable slug.
	ErrEmptySlug = errors.New("series title does not yield a usable slug")
)

type CreateSeriesDTO struct {
	Title       string `json:"title"   binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	SiteID      string `json:"site_id" binding:"required"`
}

type UpdateSeriesDTO struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	SiteID      *string `json:"site_id"`
}

type Service struct {
	db    *gorm.DB
	slugs *slug.Resolver
}

func NewService(db *gorm.DB, slugs *slug.Resolver) *Service {
	return &Service{db: db, slugs: slugs}
}

// ListQuery filters the series listing.
type ListQuery struct {
	SiteID string `form:"site_id"`
}

func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.SeriesModel, response.Pagination, error) {
	tx := s.db.Model(&models.SeriesModel{}).Order("created_at DESC")
	if lq.SiteID != "" {
		tx = tx.Where("site_id = ?", lq.SiteID)
	}
	var list []models.SeriesModel
	pag, err := pagination.Paginate(tx, q, &list)
	return list, pag, err
}

func (s *Service) GetByID(id string) (*models.SeriesModel, error) {
	var sr models.SeriesModel
	if err := s.db.Preload("Site").First(&sr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sr, nil
}

func (s *Service) Create(ctx context.Context, dto *CreateSeriesDTO) (*models.SeriesModel, error) {
	if err := s.requireSite(dto.SiteID); err != nil {
		return nil, err
	}

	candidate := slug.Normalize(dto.Slug)
	if candidate == "" {
		candidate = slug.Normalize(dto.Title)
	}
	if candidate == "" {
		return nil, ErrEmptySlug
	}
	// Series slugs are globally unique regardless of the owning site.
	resolved, err := s.slugs.Resolve(ctx, candidate, slug.Scope{Table: "series"})
	if err != nil {
		return nil, err
	}

	sr := models.SeriesModel{
		Title:       dto.Title,
		Slug:        resolved,
		Description: dto.Description,
		SiteID:      dto.SiteID,
	}
	return &sr, s.db.Create(&sr).Error
}

// Update patches a series. Reassigning the site is refused while the series
// owns content items: items must be detached or moved first.
func (s *Service) Update(ctx context.Context, id string, dto *UpdateSeriesDTO) (*models.SeriesModel, error) {
	sr, err := s.GetByID(id)
	if err != nil || sr == nil {
		return sr, err
	}

	updates := map[string]interface{}{}
	if dto.SiteID != nil && *dto.SiteID != sr.SiteID {
		owned, err := s.ownedItemCount(sr.ID)
		if err != nil {
			return nil, err
		}
		if owned > 0 {
			return nil, ErrOwnsItems
		}
		if err := s.requireSite(*dto.SiteID); err != nil {
			return nil, err
		}
		updates["site_id"] = *dto.SiteID
	}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Slug != nil {
		candidate := slug.Normalize(*dto.Slug)
		if candidate == "" {
			return nil, ErrEmptySlug
		}
		if candidate != sr.Slug {
			resolved, err := s.slugs.Resolve(ctx, candidate, slug.Scope{Table: "series", ExcludeID: sr.ID})
			if err != nil {
				return nil, err
			}
			updates["slug"] = resolved
		}
	}

	return sr, s.db.Model(sr).Updates(updates).Error
}

// Delete removes a series unless it still owns content items.
func (s *Service) Delete(id string) error {
	owned, err := s.ownedItemCount(id)
	if err != nil {
		return err
	}
	if owned > 0 {
		return ErrOwnsItems
	}
	return s.db.Delete(&models.SeriesModel{}, "id = ?", id).Error
}

func (s *Service) ownedItemCount(seriesID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.ContentItemModel{}).Where("series_id = ?", seriesID).Count(&count).Error
	return count, err
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
