// services/ingest_service.go
package services

import (
	"context"
	"log"
	"time"

	"image-quiz-system/store"
)

// PairGenerator is what the orchestrator drives once per URL.
type PairGenerator interface {
	ProcessImagePair(ctx context.Context, sourceURL string) (*PairResult, error)
}

// BatchSummary reports one batch run. Failed URLs are excluded from
// Pairs; only the counters record them.
type BatchSummary struct {
	GameID    string       `json:"game_id,omitempty"`
	Pairs     []PairResult `json:"pairs"`
	Attempted int          `json:"attempted"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// IngestService drives the pair generator over a list of URLs, strictly
// sequentially, with a fixed pause between URLs to stay under the
// generation API's rate limits. One bad URL never sinks the batch;
// a failed Game creation does.
type IngestService struct {
	Store     *store.Store
	Generator PairGenerator
	Delay     time.Duration

	sleep func(time.Duration)
}

func NewIngestService(st *store.Store, gen PairGenerator) *IngestService {
	return &IngestService{
		Store:     st,
		Generator: gen,
		Delay:     2 * time.Second,
		sleep:     time.Sleep,
	}
}

// IngestBatch processes urls in order. When date is non-empty a Game is
// created for it first and every successful pair is linked to it.
func (s *IngestService) IngestBatch(ctx context.Context, urls []string, date string) (*BatchSummary, error) {
	summary := &BatchSummary{Attempted: len(urls)}

	if date != "" {
		game, err := s.Store.CreateGame(date)
		if err != nil {
			return nil, err
		}
		summary.GameID = game.ID
		log.Printf("[Ingest] Created game %s for %s", game.ID, date)
	}

	for i, url := range urls {
		log.Printf("[Ingest] (%d/%d) %s", i+1, len(urls), url)

		if err := s.ingestOne(ctx, url, summary); err != nil {
			summary.Failed++
			log.Printf("[Ingest] ❌ %s: %v", url, err)
		} else {
			summary.Succeeded++
		}

		if i < len(urls)-1 {
			s.sleep(s.Delay)
		}
	}

	log.Printf("[Ingest] Done: %d/%d succeeded, %d failed", summary.Succeeded, summary.Attempted, summary.Failed)
	return summary, nil
}

func (s *IngestService) ingestOne(ctx context.Context, url string, summary *BatchSummary) error {
	result, err := s.Generator.ProcessImagePair(ctx, url)
	if err != nil {
		return err
	}

	if summary.GameID != "" {
		if _, err := s.Store.CreateFilePair(result.RealFileID, result.GeneratedFileID, summary.GameID); err != nil {
			return err
		}
	}

	summary.Pairs = append(summary.Pairs, *result)
	return nil
}
