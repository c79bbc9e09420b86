package triage

import (
	"time"

	"github.com/contentpilot/core/internal/models"
)

// Report is the five-section triage view an operator (or a scheduler) polls
// to decide what needs attention next. Field names and nesting are the
// consumer contract.
type Report struct {
	ToGenerateMaterial   []ReportItem   `json:"toGenerateMaterial"`
	WaitingAndGenerating WaitingCounts  `json:"waitingAndGenerating"`
	ToPublishPrimary     []ReportItem   `json:"toPublishPrimary"`
	ToPublishSecondary   []ReportItem   `json:"toPublishSecondary"`
	ToResearch           []SeriesDrafts `json:"toResearch"`
}

// WaitingCounts are the three pipeline counters of the middle section.
// VideoGenerated only counts items not yet published on any channel.
type WaitingCounts struct {
	MaterialGenerated int64 `json:"materialGenerated"`
	GeneratingVideo   int64 `json:"generatingVideo"`
	VideoGenerated    int64 `json:"videoGenerated"`
}

// ReportItem is the per-item projection used by the list sections.
type ReportItem struct {
	ID           string               `json:"id"`
	Title        string               `json:"title"`
	Slug         string               `json:"slug"`
	SiteID       string               `json:"siteId"`
	SeriesID     *string              `json:"seriesId,omitempty"`
	Status       models.ContentStatus `json:"status"`
	VideoStatus  models.PublishStatus `json:"videoStatus"`
	SocialStatus models.PublishStatus `json:"socialStatus"`
	Created      time.Time            `json:"created"`
	Modified     time.Time            `json:"modified"`
}

// SeriesDrafts is one "to research" group: a series plus its most recent
// draft items, capped at three.
type SeriesDrafts struct {
	Series SeriesRef    `json:"series"`
	Items  []ReportItem `json:"items"`
}

// SeriesRef is the series summary embedded in a draft group.
type SeriesRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	SiteID string `json:"siteId"`
}
