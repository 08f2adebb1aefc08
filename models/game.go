// models/game.go
package models

import "time"

// Game is one daily quiz. Exactly one per calendar date.
type Game struct {
	ID   string `json:"id" gorm:"primaryKey"`
	Date string `json:"date" gorm:"uniqueIndex;not null"` // YYYY-MM-DD

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 🔗 Rounds and completed play-throughs
	FilePairs   []FilePair   `json:"file_pairs" gorm:"foreignKey:GameID"`
	GameResults []GameResult `json:"game_results" gorm:"foreignKey:GameID"`
}

// FilePair links one real and one generated File as a single round.
// Vote counts only ever go up.
type FilePair struct {
	ID              string `json:"id" gorm:"primaryKey"`
	RealFileID      string `json:"real_file_id" gorm:"not null"`
	GeneratedFileID string `json:"generated_file_id" gorm:"not null"`
	GameID          string `json:"game_id" gorm:"index;not null"`

	RealVoteCount      int `json:"real_vote_count" gorm:"default:0"`
	GeneratedVoteCount int `json:"generated_vote_count" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RealFile      File `json:"real_file" gorm:"foreignKey:RealFileID"`
	GeneratedFile File `json:"generated_file" gorm:"foreignKey:GeneratedFileID"`
}

// GameResult is one completed play-through. Append-only. Accuracy is the
// count of correct rounds, not a percentage.
type GameResult struct {
	ID           string `json:"id" gorm:"primaryKey"`
	PointsScored int    `json:"points_scored"`
	Accuracy     int    `json:"accuracy"`
	GameID       string `json:"game_id" gorm:"index;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
