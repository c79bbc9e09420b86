package models

// SiteModel is a top-level tenant: one managed website or show. Series and
// content items always belong to exactly one site.
type SiteModel struct {
	Base
	Name     string `json:"name"     gorm:"not null"`
	Slug     string `json:"slug"     gorm:"uniqueIndex;not null"`
	Language string `json:"language" gorm:"size:16;default:'en'"`
	// Config is a free-text configuration blob, opaque to the backend.
	Config string `json:"config" gorm:"type:longtext"`
	// Prompts holds templated prompt strings consumed by the generation
	// workers. The backend stores them verbatim and never interprets them.
	Prompts string `json:"prompts" gorm:"type:longtext"`
}

func (SiteModel) TableName() string { return "sites" }
