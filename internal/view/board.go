package view

import (
	"sync"

	"github.com/JonMunkholm/cleanmind/internal/core"
)

// Dashboard is everything a renderer shows for one session.
type Dashboard struct {
	Profile         *ProfileView  `json:"profile,omitempty"`
	Quality         *QualityView  `json:"quality,omitempty"`
	Cleaning        *CleaningView `json:"cleaning,omitempty"`
	DownloadEnabled bool          `json:"download_enabled"`
}

// Board holds the latest projections of a session. It is safe for
// concurrent use: a run writes while HTTP handlers read.
type Board struct {
	mu      sync.RWMutex
	current Dashboard
	columns []string
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Reset clears every panel and disables the download.
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = Dashboard{}
	b.columns = nil
}

// RenderProfile replaces the profile panel.
func (b *Board) RenderProfile(datasetID string, p *core.DatasetProfile) {
	v := ProfileOf(datasetID, p)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.current.Profile = &v
	b.columns = p.Columns.Names()
}

// RenderQuality replaces the quality panel.
func (b *Board) RenderQuality(q *core.QualityReport) {
	v := QualityOf(q)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.current.Quality = &v
}

// RenderCleaning replaces the cleaning panel. Preview columns follow the
// order of the last rendered profile.
func (b *Board) RenderCleaning(c *core.CleaningResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := CleaningOf(c, b.columns)
	b.current.Cleaning = &v
}

// SetDownloadEnabled toggles the download affordance.
func (b *Board) SetDownloadEnabled(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current.DownloadEnabled = enabled
}

// Snapshot returns a copy of the dashboard.
func (b *Board) Snapshot() Dashboard {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}
