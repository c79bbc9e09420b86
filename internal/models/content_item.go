package models

import "time"

// ContentStatus is the creation-pipeline status of a content item. The
// values form an ordered pipeline; ordering is advisory (callers may write
// any status) but the triage queries assume it holds.
type ContentStatus string

const (
	StatusDraft              ContentStatus = "draft"
	StatusResearching        ContentStatus = "researching"
	StatusResearched         ContentStatus = "researched"
	StatusGeneratingMaterial ContentStatus = "generatingMaterial"
	StatusMaterialGenerated  ContentStatus = "materialGenerated"
	StatusGeneratingVideo    ContentStatus = "generatingVideo"
	StatusVideoGenerated     ContentStatus = "videoGenerated"
)

var statusOrder = map[ContentStatus]int{
	StatusDraft:              0,
	StatusResearching:        1,
	StatusResearched:         2,
	StatusGeneratingMaterial: 3,
	StatusMaterialGenerated:  4,
	StatusGeneratingVideo:    5,
	StatusVideoGenerated:     6,
}

// Rank returns the pipeline position of s, or -1 for unknown values.
func (s ContentStatus) Rank() int {
	if r, ok := statusOrder[s]; ok {
		return r
	}
	return -1
}

// Valid reports whether s is one of the known pipeline statuses.
func (s ContentStatus) Valid() bool { return s.Rank() >= 0 }

// PublishStatus is the per-channel publication state of a content item,
// tracked independently for each distribution channel.
type PublishStatus string

const (
	PublishNone      PublishStatus = "none"
	PublishScheduled PublishStatus = "scheduled"
	PublishPublic    PublishStatus = "public"
	PublishPrivate   PublishStatus = "private"
	PublishDeleted   PublishStatus = "deleted"
)

// Valid reports whether p is a known publish status.
func (p PublishStatus) Valid() bool {
	switch p {
	case PublishNone, PublishScheduled, PublishPublic, PublishPrivate, PublishDeleted:
		return true
	}
	return false
}

// Content publication types.
const (
	ContentTypeEvergreen = "evergreen"
	ContentTypeNews      = "news"
)

// ContentItemModel is the unit being produced and published: a post or an
// episode. It is owned by one site and optionally grouped into one series
// of that same site.
type ContentItemModel struct {
	Base
	SiteID   string       `json:"site_id"   gorm:"index;not null"`
	Site     *SiteModel   `json:"site,omitempty"   gorm:"foreignKey:SiteID"`
	SeriesID *string      `json:"series_id" gorm:"index"`
	Series   *SeriesModel `json:"series,omitempty" gorm:"foreignKey:SeriesID"`

	Title string `json:"title" gorm:"not null"`
	Slug  string `json:"slug"  gorm:"uniqueIndex;not null"`
	Type  string `json:"type"  gorm:"size:16;default:'evergreen'"`

	Status ContentStatus `json:"status" gorm:"size:32;index;default:'draft'"`
	// Frozen is a manual hold: automated pipeline workers must not advance
	// the status of a frozen item. Items start frozen until an operator
	// releases them.
	Frozen bool `json:"frozen" gorm:"default:true"`

	// Per-channel publication status. Independent columns so the triage
	// queries can filter and conditional-count on them in SQL.
	VideoStatus  PublishStatus `json:"video_status"  gorm:"size:16;index;default:'none'"`
	SiteStatus   PublishStatus `json:"site_status"   gorm:"size:16;default:'none'"`
	SocialStatus PublishStatus `json:"social_status" gorm:"size:16;default:'none'"`

	ScheduledAt        *time.Time `json:"scheduled_at"`
	LastStatusChangeAt *time.Time `json:"last_status_change_at"`
}

func (ContentItemModel) TableName() string { return "content_items" }
