package content

import (
	"time"

	"github.com/contentpilot/core/internal/models"
)

type CreateContentItemDTO struct {
	SiteID   string  `json:"site_id" binding:"required"`
	SeriesID *string `json:"series_id"`
	Title    string  `json:"title"   binding:"required"`
	Slug     string  `json:"slug"`
	Type     string  `json:"type"`

	Status *models.ContentStatus `json:"status"`
	Frozen *bool                 `json:"frozen"`

	VideoStatus  *models.PublishStatus `json:"video_status"`
	SiteStatus   *models.PublishStatus `json:"site_status"`
	SocialStatus *models.PublishStatus `json:"social_status"`

	ScheduledAt *time.Time `json:"scheduled_at"`
}

// UpdateContentItemDTO patches an item. Absent fields are untouched; an
// empty series_id string detaches the item from its series.
type UpdateContentItemDTO struct {
	SeriesID *string `json:"series_id"`
	Title    *string `json:"title"`
	Slug     *string `json:"slug"`
	Type     *string `json:"type"`

	Status *models.ContentStatus `json:"status"`
	Frozen *bool                 `json:"frozen"`

	VideoStatus  *models.PublishStatus `json:"video_status"`
	SiteStatus   *models.PublishStatus `json:"site_status"`
	SocialStatus *models.PublishStatus `json:"social_status"`

	ScheduledAt *time.Time `json:"scheduled_at"`
}

// ListQuery filters the content listing.
type ListQuery struct {
	SiteID   string `form:"site_id"`
	SeriesID string `form:"series_id"`
	Status   string `form:"status"`
	Type     string `form:"type"`
	Search   string `form:"q"`
}

// AdvanceStatusDTO carries a single status transition. Manual marks
// operator action; automated callers leave it false and are refused on
// frozen items.
type AdvanceStatusDTO struct {
	Status models.ContentStatus `json:"status" binding:"required"`
	Manual bool                 `json:"manual"`
}
