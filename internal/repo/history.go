package repo

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/ekgstack/ekg-engine/internal/models"
)

const defaultCapacity = 1000

// MemoryHistory is a bounded in-memory analysis history. Newest records come
// first; the oldest record is dropped once capacity is reached. All methods
// are safe for concurrent use.
type MemoryHistory struct {
	mu       sync.RWMutex
	analyses []models.MedicalAnalysis
	byID     map[string]int
	capacity int
}

// NewMemoryHistory creates a history retaining up to capacity records.
func NewMemoryHistory(capacity int) *MemoryHistory {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &MemoryHistory{
		byID:     make(map[string]int),
		capacity: capacity,
	}
}

// Store prepends an analysis record.
func (h *MemoryHistory) Store(analysis models.MedicalAnalysis) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.analyses = append([]models.MedicalAnalysis{analysis}, h.analyses...)
	if len(h.analyses) > h.capacity {
		h.analyses = h.analyses[:h.capacity]
	}

	h.byID = make(map[string]int, len(h.analyses))
	for i, a := range h.analyses {
		h.byID[a.AnalysisID] = i
	}
}

// Get returns the analysis with the given ID.
func (h *MemoryHistory) Get(id string) (models.MedicalAnalysis, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	idx, ok := h.byID[id]
	if !ok {
		return models.MedicalAnalysis{}, false
	}
	return h.analyses[idx], true
}

// List returns a page of historical analyses, optionally filtered by rhythm.
// The page token is the numeric offset of the next page.
func (h *MemoryHistory) List(req models.ListAnalysesRequest) (models.ListAnalysesResponse, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	filtered := make([]models.MedicalAnalysis, 0, len(h.analyses))
	for _, a := range h.analyses {
		if req.Rhythm != "" && a.RhythmClassification != req.Rhythm {
			continue
		}
		filtered = append(filtered, a)
	}

	offset := 0
	if req.PageToken != "" {
		parsed, err := strconv.Atoi(req.PageToken)
		if err != nil || parsed < 0 {
			return models.ListAnalysesResponse{}, fmt.Errorf("invalid page token %q", req.PageToken)
		}
		offset = parsed
	}
	if offset > len(filtered) {
		offset = len(filtered)
	}

	pageSize := req.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	end := offset + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	resp := models.ListAnalysesResponse{
		Analyses: append([]models.MedicalAnalysis(nil), filtered[offset:end]...),
	}
	if end < len(filtered) {
		resp.NextPageToken = strconv.Itoa(end)
	}
	return resp, nil
}

// All returns a snapshot of every retained analysis, newest first.
func (h *MemoryHistory) All() []models.MedicalAnalysis {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]models.MedicalAnalysis(nil), h.analyses...)
}
