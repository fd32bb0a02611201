package repo

import (
	"strconv"
	"testing"

	"github.com/ekgstack/ekg-engine/internal/models"
)

func record(id string, rhythm models.Rhythm) models.MedicalAnalysis {
	return models.MedicalAnalysis{AnalysisID: id, RhythmClassification: rhythm}
}

func TestHistoryStoreAndGet(t *testing.T) {
	h := NewMemoryHistory(10)
	h.Store(record("a", models.RhythmNormalSinus))
	h.Store(record("b", models.RhythmAtrialFibrillation))

	got, ok := h.Get("a")
	if !ok || got.AnalysisID != "a" {
		t.Fatalf("Get(a) = %+v, %v", got, ok)
	}
	if _, ok := h.Get("missing"); ok {
		t.Error("Get(missing) should report absence")
	}

	all := h.All()
	if len(all) != 2 || all[0].AnalysisID != "b" {
		t.Errorf("All() = %v, want newest first", all)
	}
}

func TestHistoryEvictsOldest(t *testing.T) {
	h := NewMemoryHistory(3)
	for i := 0; i < 5; i++ {
		h.Store(record(strconv.Itoa(i), models.RhythmNormalSinus))
	}

	if got := len(h.All()); got != 3 {
		t.Fatalf("retained = %d, want 3", got)
	}
	if _, ok := h.Get("0"); ok {
		t.Error("oldest record should have been evicted")
	}
	if _, ok := h.Get("4"); !ok {
		t.Error("newest record must survive eviction")
	}
}

func TestHistoryListPagination(t *testing.T) {
	h := NewMemoryHistory(50)
	for i := 0; i < 25; i++ {
		h.Store(record(strconv.Itoa(i), models.RhythmNormalSinus))
	}

	page1, err := h.List(models.ListAnalysesRequest{PageSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(page1.Analyses) != 10 || page1.NextPageToken != "10" {
		t.Fatalf("page1: %d records, token %q", len(page1.Analyses), page1.NextPageToken)
	}
	if page1.Analyses[0].AnalysisID != "24" {
		t.Errorf("page1[0] = %q, want newest record 24", page1.Analyses[0].AnalysisID)
	}

	page3, err := h.List(models.ListAnalysesRequest{PageSize: 10, PageToken: "20"})
	if err != nil {
		t.Fatal(err)
	}
	if len(page3.Analyses) != 5 || page3.NextPageToken != "" {
		t.Fatalf("page3: %d records, token %q, want final short page", len(page3.Analyses), page3.NextPageToken)
	}
}

func TestHistoryListRhythmFilter(t *testing.T) {
	h := NewMemoryHistory(10)
	h.Store(record("a", models.RhythmNormalSinus))
	h.Store(record("b", models.RhythmAtrialFibrillation))
	h.Store(record("c", models.RhythmAtrialFibrillation))

	resp, err := h.List(models.ListAnalysesRequest{Rhythm: models.RhythmAtrialFibrillation})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Analyses) != 2 {
		t.Fatalf("filtered = %d records, want 2", len(resp.Analyses))
	}
	for _, a := range resp.Analyses {
		if a.RhythmClassification != models.RhythmAtrialFibrillation {
			t.Errorf("unexpected rhythm %q in filtered page", a.RhythmClassification)
		}
	}
}

func TestHistoryListBadToken(t *testing.T) {
	h := NewMemoryHistory(10)
	h.Store(record("a", models.RhythmNormalSinus))

	if _, err := h.List(models.ListAnalysesRequest{PageToken: "not-a-number"}); err == nil {
		t.Fatal("malformed page token should be an error")
	}
	if _, err := h.List(models.ListAnalysesRequest{PageToken: "-3"}); err == nil {
		t.Fatal("negative page token should be an error")
	}
}
