// models/file.go
package models

import "time"

const (
	SourceTypeReal      = "real"
	SourceTypeGenerated = "generated"
)

// Model represents a generative engine (e.g. "Gemini 2.5 Flash Image").
// Rows are created lazily on first use and never deleted.
type Model struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// File is one ingested image. Real files carry only a URL; generated
// files also record which Model produced them and the prompt used.
type File struct {
	ID         string  `json:"id" gorm:"primaryKey"`
	URL        string  `json:"url" gorm:"not null"`
	SourceType string  `json:"source_type" gorm:"not null"` // real | generated
	SourceID   *string `json:"source_id"`                   // Model ID, generated files only
	Prompt     *string `json:"prompt"`                      // generated files only

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
