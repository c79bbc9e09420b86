package models

// SeriesModel is an ordered grouping of content items within one site.
// SiteID must not change once the series owns items; the series service
// enforces that.
type SeriesModel struct {
	Base
	Title       string     `json:"title"       gorm:"not null"`
	Slug        string     `json:"slug"        gorm:"uniqueIndex;not null"`
	Description string     `json:"description" gorm:"type:text"`
	SiteID      string     `json:"site_id"     gorm:"index;not null"`
	Site        *SiteModel `json:"site,omitempty" gorm:"foreignKey:SiteID"`
}

func (SeriesModel) TableName() string { return "series" }
