package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"image-quiz-system/models"
	"image-quiz-system/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator creates real File rows so pair links resolve, and fails
// on demand for specific URLs.
type fakeGenerator struct {
	store   *store.Store
	failOn  map[string]bool
	invoked []string
}

func (f *fakeGenerator) ProcessImagePair(ctx context.Context, sourceURL string) (*PairResult, error) {
	f.invoked = append(f.invoked, sourceURL)
	if f.failOn[sourceURL] {
		return nil, errors.New("generation blew up")
	}

	realFile, err := f.store.CreateFile(sourceURL, models.SourceTypeReal, nil, nil)
	if err != nil {
		return nil, err
	}
	genFile, err := f.store.CreateFile(sourceURL+"-generated", models.SourceTypeGenerated, nil, nil)
	if err != nil {
		return nil, err
	}
	return &PairResult{
		RealFileID:      realFile.ID,
		GeneratedFileID: genFile.ID,
		Prompt:          "a scene",
	}, nil
}

func newTestIngest(t *testing.T, failOn ...string) (*IngestService, *fakeGenerator, *[]time.Duration) {
	t.Helper()

	st := newTestStore(t)
	fails := make(map[string]bool)
	for _, u := range failOn {
		fails[u] = true
	}
	gen := &fakeGenerator{store: st, failOn: fails}

	svc := NewIngestService(st, gen)
	var slept []time.Duration
	svc.sleep = func(d time.Duration) { slept = append(slept, d) }
	return svc, gen, &slept
}

func TestIngestBatchPartialFailure(t *testing.T) {
	urls := []string{"https://img.test/1.jpg", "https://img.test/2.jpg", "https://img.test/3.jpg"}
	svc, gen, slept := newTestIngest(t, urls[1])

	summary, err := svc.IngestBatch(context.Background(), urls, "2026-01-01")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Pairs, 2)
	assert.NotEmpty(t, summary.GameID)

	// every URL was still attempted, in order
	assert.Equal(t, urls, gen.invoked)

	// successful pairs got linked to the created game
	var pairs []models.FilePair
	require.NoError(t, svc.Store.DB.Where("game_id = ?", summary.GameID).Find(&pairs).Error)
	assert.Len(t, pairs, 2)

	// one pause between 1→2 and one between 2→3, none after the last
	assert.Equal(t, []time.Duration{svc.Delay, svc.Delay}, *slept)
}

func TestIngestBatchDefaultDelay(t *testing.T) {
	svc, _, _ := newTestIngest(t)
	assert.Equal(t, 2*time.Second, svc.Delay)
}

func TestIngestBatchWithoutDate(t *testing.T) {
	urls := []string{"https://img.test/1.jpg"}
	svc, _, slept := newTestIngest(t)

	summary, err := svc.IngestBatch(context.Background(), urls, "")
	require.NoError(t, err)

	assert.Empty(t, summary.GameID)
	assert.Len(t, summary.Pairs, 1)
	assert.Empty(t, *slept)

	// no game, no pair links
	var count int64
	require.NoError(t, svc.Store.DB.Model(&models.FilePair{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIngestBatchGameCreationIsFatal(t *testing.T) {
	svc, gen, _ := newTestIngest(t)

	_, err := svc.Store.CreateGame("2026-01-01")
	require.NoError(t, err)

	_, err = svc.IngestBatch(context.Background(), []string{"https://img.test/1.jpg"}, "2026-01-01")
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.Empty(t, gen.invoked)
}
