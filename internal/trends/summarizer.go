package trends

import (
	"log/slog"
	"sort"
	"time"

	"github.com/ekgstack/ekg-engine/internal/models"
)

// RhythmTrend aggregates the analysis history for one rhythm.
type RhythmTrend struct {
	Rhythm        models.Rhythm `json:"rhythm"`
	Count         int           `json:"count"`
	Prevalence    float64       `json:"prevalence"`
	MeanHeartRate int           `json:"mean_heart_rate"`
	LastSeen      time.Time     `json:"last_seen"`
}

// Summarizer mines simple frequency statistics from analysis history.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer constructs a Summarizer.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// Summarize aggregates per-rhythm counts, prevalence, and mean rate, sorted by
// prevalence descending.
func (s *Summarizer) Summarize(analyses []models.MedicalAnalysis) []RhythmTrend {
	if len(analyses) == 0 {
		return nil
	}

	type aggregate struct {
		count    int
		rateSum  int
		lastSeen time.Time
	}
	stats := make(map[models.Rhythm]*aggregate)
	for _, a := range analyses {
		agg, ok := stats[a.RhythmClassification]
		if !ok {
			agg = &aggregate{}
			stats[a.RhythmClassification] = agg
		}
		agg.count++
		agg.rateSum += a.HeartRate
		if a.CreatedAt.After(agg.lastSeen) {
			agg.lastSeen = a.CreatedAt
		}
	}

	trendList := make([]RhythmTrend, 0, len(stats))
	for rhythm, agg := range stats {
		trendList = append(trendList, RhythmTrend{
			Rhythm:        rhythm,
			Count:         agg.count,
			Prevalence:    float64(agg.count) / float64(len(analyses)),
			MeanHeartRate: agg.rateSum / agg.count,
			LastSeen:      agg.lastSeen,
		})
	}

	sort.Slice(trendList, func(i, j int) bool {
		if trendList[i].Prevalence != trendList[j].Prevalence {
			return trendList[i].Prevalence > trendList[j].Prevalence
		}
		return trendList[i].Rhythm < trendList[j].Rhythm
	})
	return trendList
}
