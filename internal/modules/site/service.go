package site

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
	// ErrReferenced means the site still owns series or content items.
	ErrReferenced = errors.New("site is referenced by series or content items")
	// ErrEmptySlug means neither the name nor the slug yields a usable slug.
	ErrEmptySlug = errors.New("site name does not yield a usable slug")
)

type CreateSiteDTO struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug"`
	Language string `json:"language"`
	Config   string `json:"config"`
	Prompts  string `json:"prompts"`
}

type UpdateSiteDTO struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	Language *string `json:"language"`
	Config   *string `json:"config"`
	Prompts  *string `json:"prompts"`
}

type Service struct {
	db    *gorm.DB
	slugs *slug.Resolver
}

func NewService(db *gorm.DB, slugs *slug.Resolver) *Service {
	return &Service{db: db, slugs: slugs}
}

func (s *Service) List(q pagination.Query) ([]models.SiteModel, response.Pagination, error) {
	tx := s.db.Model(&models.SiteModel{}).Order("created_at ASC")
	var sites []models.SiteModel
	pag, err := pagination.Paginate(tx, q, &sites)
	return sites, pag, err
}

func (s *Service) GetByID(id string) (*models.SiteModel, error) {
	var site models.SiteModel
	if err := s.db.First(&site, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &site, nil
}

func (s *Service) Create(ctx context.Context, dto *CreateSiteDTO) (*models.SiteModel, error) {
	candidate := slug.Normalize(dto.Slug)
	if candidate == "" {
		candidate = slug.Normalize(dto.Name)
	}
	if candidate == "" {
		return nil, ErrEmptySlug
	}
	// Site slugs are globally unique across the deployment.
	resolved, err := s.slugs.Resolve(ctx, candidate, slug.Scope{Table: "sites"})
	if err != nil {
		return nil, err
	}

	site := models.SiteModel{
		Name:    dto.Name,
		Slug:    resolved,
		Config:  dto.Config,
		Prompts: dto.Prompts,
	}
	if dto.Language != "" {
		site.Language = dto.Language
	}
	return &site, s.db.Create(&site).Error
}

func (s *Service) Update(ctx context.Context, id string, dto *UpdateSiteDTO) (*models.SiteModel, error) {
	site, err := s.GetByID(id)
	if err != nil || site == nil {
		return site, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Slug != nil {
		candidate := slug.Normalize(*dto.Slug)
		if candidate == "" {
			return nil, ErrEmptySlug
		}
		if candidate != site.Slug {
			resolved, err := s.slugs.Resolve(ctx, candidate, slug.Scope{Table: "sites", ExcludeID: site.ID})
			if err != nil {
				return nil, err
			}
			updates["slug"] = resolved
		}
	}
	if dto.Language != nil {
		updates["language"] = *dto.Language
	}
	if dto.Config != nil {
		updates["config"] = *dto.Config
	}
	if dto.Prompts != nil {
		updates["prompts"] = *dto.Prompts
	}

	return site, s.db.Model(site).Updates(updates).Error
}

// Delete removes a site unless any series or content item still references
// it.
func (s *Service) Delete(id string) error {
	var count int64
	if err := s.db.Model(&models.SeriesModel{}).Where("site_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrReferenced
	}
	if err := s.db.Model(&models.ContentItemModel{}).Where("site_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrReferenced
	}
	return s.db.Delete(&models.SiteModel{}, "id = ?", id).Error
}
