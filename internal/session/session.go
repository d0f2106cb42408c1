// Package session holds the identifiers of the active dataset workflow.
package session

import (
	"errors"
	"sync"
)

// ErrStaleCleaned is returned when a cleaned dataset does not derive from
// the current source dataset.
var ErrStaleCleaned = errors.New("cleaned dataset does not belong to the active dataset")

// State holds at most one active source dataset id and at most one active
// cleaned dataset id. The cleaned id is always empty or derived from the
// current source id.
//
// The orchestrator owns a State and passes it to each transition; readers
// such as HTTP handlers may take Snapshots concurrently.
type State struct {
	mu          sync.RWMutex
	datasetID   string
	cleanedID   string
	cleanedFrom string
}

// Snapshot is a point-in-time copy of a State.
type Snapshot struct {
	DatasetID string `json:"dataset_id,omitempty"`
	CleanedID string `json:"cleaned_dataset_id,omitempty"`
}

// New returns an empty State.
func New() *State {
	return &State{}
}

// DatasetID returns the active source dataset id.
func (s *State) DatasetID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.datasetID
}

// CleanedID returns the active cleaned dataset id.
func (s *State) CleanedID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cleanedID
}

// HasCleaned reports whether a cleaned dataset is available for download.
func (s *State) HasCleaned() bool {
	return s.CleanedID() != ""
}

// Snapshot copies the current identifiers.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{DatasetID: s.datasetID, CleanedID: s.cleanedID}
}

// BeginUpload clears the cleaned id so no stale download target survives
// into a new run. The source id is kept until a new upload succeeds.
func (s *State) BeginUpload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanedID = ""
	s.cleanedFrom = ""
}

// AdoptDataset makes id the active source dataset. Any cleaned id derived
// from a previous source is dropped.
func (s *State) AdoptDataset(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.datasetID || s.cleanedFrom != id {
		s.cleanedID = ""
		s.cleanedFrom = ""
	}
	s.datasetID = id
}

// AdoptCleaned makes cleanedID the active cleaned dataset. sourceID is the
// source the backend reports; an empty sourceID is taken as the current one.
func (s *State) AdoptCleaned(sourceID, cleanedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.datasetID == "" {
		return ErrStaleCleaned
	}
	if sourceID == "" {
		sourceID = s.datasetID
	}
	if sourceID != s.datasetID {
		return ErrStaleCleaned
	}

	s.cleanedID = cleanedID
	s.cleanedFrom = sourceID
	return nil
}
