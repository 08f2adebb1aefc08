// services/quiz_service.go
package services

import (
	"errors"
	"time"

	"image-quiz-system/scoring"
	"image-quiz-system/store"

	"github.com/gofiber/fiber/v2"
)

// QuizService serves the three player-facing endpoints: the daily game
// read, the per-round vote, and the end-of-game result submission.
type QuizService struct {
	Store *store.Store
}

func NewQuizService(st *store.Store) *QuizService {
	return &QuizService{Store: st}
}

// GetGame returns the Game for ?date= (default: today, UTC) with its
// FilePairs, both Files per pair, and all GameResults in one read.
func (s *QuizService) GetGame(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	game, err := s.Store.GameByDate(date)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no game for " + date})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch game"})
	}
	return c.JSON(game)
}

// VoteFilePair bumps the vote counter matching the player's choice and
// returns the updated pair.
func (s *QuizService) VoteFilePair(c *fiber.Ctx) error {
	var body struct {
		FilePairID   string `json:"file_pair_id"`
		VotedForReal *bool  `json:"voted_for_real"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if body.FilePairID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file_pair_id is required"})
	}
	if body.VotedForReal == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "voted_for_real is required"})
	}

	pair, err := s.Store.IncrementVote(body.FilePairID, *body.VotedForReal)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "file pair not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record vote"})
	}
	return c.JSON(pair)
}

// CreateGameResult appends a finished play-through and responds with
// the stored row plus where the score lands against everyone who played
// before: percentile rank and the 10-bin score histogram. History is
// read before the insert, so the player's own score never counts
// against itself.
func (s *QuizService) CreateGameResult(c *fiber.Ctx) error {
	var body struct {
		PointsScored *int   `json:"points_scored"`
		Accuracy     *int   `json:"accuracy"`
		GameID       string `json:"game_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if body.GameID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "game_id is required"})
	}
	if body.PointsScored == nil || body.Accuracy == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "points_scored and accuracy are required"})
	}

	history, err := s.Store.GameResultPoints(body.GameID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load game results"})
	}

	result, err := s.Store.CreateGameResult(*body.PointsScored, *body.Accuracy, body.GameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save game result"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"result":     result,
		"percentile": scoring.Percentile(history, *body.PointsScored),
		"histogram":  scoring.BuildHistogram(history, *body.PointsScored),
	})
}
