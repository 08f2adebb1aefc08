// store/store.go
package store

import (
	"errors"
	"fmt"
	"strings"

	"image-quiz-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means no record matched the given id or date.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate means an insert hit a uniqueness constraint
	// (e.g. a second Game for the same date).
	ErrDuplicate = errors.New("duplicate record")
)

// Store is the persistence gateway for the five quiz record types.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Migrate creates/updates the schema for all quiz tables.
func (s *Store) Migrate() error {
	return s.DB.AutoMigrate(
		&models.Model{},
		&models.File{},
		&models.Game{},
		&models.FilePair{},
		&models.GameResult{},
	)
}

func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite and postgres report constraint violations with different
	// error types; match on message as a fallback
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// CreateGame inserts the single Game row for a date.
func (s *Store) CreateGame(date string) (*models.Game, error) {
	game := &models.Game{ID: uuid.NewString(), Date: date}
	if err := s.DB.Create(game).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, fmt.Errorf("game for %s: %w", date, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create game for %s: %w", date, err)
	}
	return game, nil
}

// GameByDate is the denormalized dashboard read: the Game with all of
// its FilePairs (both Files preloaded) and GameResults.
func (s *Store) GameByDate(date string) (*models.Game, error) {
	var game models.Game
	err := s.DB.
		Preload("FilePairs.RealFile").
		Preload("FilePairs.GeneratedFile").
		Preload("GameResults").
		First(&game, "date = ?", date).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("game for %s: %w", date, ErrNotFound)
		}
		return nil, err
	}
	return &game, nil
}

// GetOrCreateModel resolves a generative engine by name, inserting it on
// first use. The unique index on name backs this up: a lost race fails
// the later insert instead of leaving a duplicate row.
func (s *Store) GetOrCreateModel(name string) (*models.Model, error) {
	var m models.Model
	err := s.DB.First(&m, "name = ?", name).Error
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m = models.Model{ID: uuid.NewString(), Name: name}
	if err := s.DB.Create(&m).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, fmt.Errorf("model %q: %w", name, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create model %q: %w", name, err)
	}
	return &m, nil
}

// CreateFile inserts one File record. sourceID and prompt are nil for
// real files.
func (s *Store) CreateFile(url, sourceType string, sourceID, prompt *string) (*models.File, error) {
	f := &models.File{
		ID:         uuid.NewString(),
		URL:        url,
		SourceType: sourceType,
		SourceID:   sourceID,
		Prompt:     prompt,
	}
	if err := s.DB.Create(f).Error; err != nil {
		return nil, fmt.Errorf("failed to create %s file record: %w", sourceType, err)
	}
	return f, nil
}

// CreatePairFiles inserts the real and generated File records of one
// pair in a single transaction, so a failed second insert never leaves
// an orphaned first one.
func (s *Store) CreatePairFiles(realURL, generatedURL, modelID, prompt string) (*models.File, *models.File, error) {
	realFile := &models.File{
		ID:         uuid.NewString(),
		URL:        realURL,
		SourceType: models.SourceTypeReal,
	}
	generatedFile := &models.File{
		ID:         uuid.NewString(),
		URL:        generatedURL,
		SourceType: models.SourceTypeGenerated,
		SourceID:   &modelID,
		Prompt:     &prompt,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(realFile).Error; err != nil {
			return fmt.Errorf("failed to create real file record: %w", err)
		}
		if err := tx.Create(generatedFile).Error; err != nil {
			return fmt.Errorf("failed to create generated file record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return realFile, generatedFile, nil
}

// CreateFilePair links a real and a generated File under a Game, with
// both vote counts starting at zero.
func (s *Store) CreateFilePair(realFileID, generatedFileID, gameID string) (*models.FilePair, error) {
	pair := &models.FilePair{
		ID:              uuid.NewString(),
		RealFileID:      realFileID,
		GeneratedFileID: generatedFileID,
		GameID:          gameID,
	}
	if err := s.DB.Create(pair).Error; err != nil {
		return nil, fmt.Errorf("failed to create file pair: %w", err)
	}
	return pair, nil
}

// FilePairByID returns a single pair without preloads.
func (s *Store) FilePairByID(id string) (*models.FilePair, error) {
	var pair models.FilePair
	if err := s.DB.First(&pair, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("file pair %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &pair, nil
}

// IncrementVote bumps one of the two vote counters on a pair. The
// increment runs as a single SQL UPDATE so concurrent voters cannot
// lose each other's updates.
func (s *Store) IncrementVote(pairID string, votedForReal bool) (*models.FilePair, error) {
	column := "generated_vote_count"
	if votedForReal {
		column = "real_vote_count"
	}

	res := s.DB.Model(&models.FilePair{}).
		Where("id = ?", pairID).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("failed to increment vote on pair %s: %w", pairID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("file pair %s: %w", pairID, ErrNotFound)
	}

	return s.FilePairByID(pairID)
}

// CreateGameResult appends one completed play-through.
func (s *Store) CreateGameResult(pointsScored, accuracy int, gameID string) (*models.GameResult, error) {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("game %s: %w", gameID, ErrNotFound)
		}
		return nil, err
	}

	result := &models.GameResult{
		ID:           uuid.NewString(),
		PointsScored: pointsScored,
		Accuracy:     accuracy,
		GameID:       gameID,
	}
	if err := s.DB.Create(result).Error; err != nil {
		return nil, fmt.Errorf("failed to create game result: %w", err)
	}
	return result, nil
}

// GameResultPoints returns every historical points_scored value for a
// game, for percentile and histogram computation.
func (s *Store) GameResultPoints(gameID string) ([]int, error) {
	var points []int
	err := s.DB.Model(&models.GameResult{}).
		Where("game_id = ?", gameID).
		Order("created_at").
		Pluck("points_scored", &points).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load results for game %s: %w", gameID, err)
	}
	return points, nil
}

// RealFileURLs returns the source URLs of every real File already
// ingested, used by the scraper to skip duplicates.
func (s *Store) RealFileURLs() (map[string]bool, error) {
	var urls []string
	err := s.DB.Model(&models.File{}).
		Where("source_type = ?", models.SourceTypeReal).
		Pluck("url", &urls).Error
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(urls))
	for _, u := range urls {
		existing[u] = true
	}
	return existing, nil
}

// PairCountByDate reports how many pairs exist for a date's game.
// Returns ErrNotFound when no game exists for the date.
func (s *Store) PairCountByDate(date string) (int64, error) {
	var game models.Game
	if err := s.DB.First(&game, "date = ?", date).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("game for %s: %w", date, ErrNotFound)
		}
		return 0, err
	}
	var count int64
	if err := s.DB.Model(&models.FilePair{}).Where("game_id = ?", game.ID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
