// services/pair_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"image-quiz-system/store"
	"image-quiz-system/utils"
)

// GenerativeModel covers the two external model calls of the pipeline.
type GenerativeModel interface {
	Describe(ctx context.Context, image []byte) (string, error)
	GenerateImage(ctx context.Context, description string) ([]byte, error)
}

// BlobUploader puts bytes under a key and returns a public URL.
type BlobUploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// PairResult is what a successful ingestion of one source URL yields.
type PairResult struct {
	RealFileID      string `json:"real_file_id"`
	GeneratedFileID string `json:"generated_file_id"`
	Prompt          string `json:"prompt"`
}

// PairService turns one real source image into a (real, generated) File
// pair: download, describe, generate a counterfeit, upload both, record
// both. Any step failing aborts the whole pair; the database never sees
// just one File of a pair.
type PairService struct {
	Store *store.Store
	Model GenerativeModel
	Blob  BlobUploader
	HTTP  *http.Client
}

func NewPairService(st *store.Store, model GenerativeModel, blob BlobUploader) *PairService {
	return &PairService{Store: st, Model: model, Blob: blob, HTTP: utils.HTTPClient}
}

// ProcessImagePair runs the full pipeline for one source URL.
func (p *PairService) ProcessImagePair(ctx context.Context, sourceURL string) (*PairResult, error) {
	realBytes, err := p.download(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	// An empty description is tolerated: the generation model still
	// gets called, mirroring how a contentless vision response behaves.
	description, err := p.Model.Describe(ctx, realBytes)
	if err != nil {
		return nil, fmt.Errorf("describing %s: %w", sourceURL, err)
	}

	generatedBytes, err := p.Model.GenerateImage(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("generating counterfeit for %s: %w", sourceURL, err)
	}

	realURL, err := p.Blob.Upload(ctx, utils.ImageKey("real", sourceURL), "image/jpeg", realBytes)
	if err != nil {
		return nil, fmt.Errorf("uploading real image: %w", err)
	}
	generatedURL, err := p.Blob.Upload(ctx, utils.ImageKey("generated", sourceURL), "image/jpeg", generatedBytes)
	if err != nil {
		return nil, fmt.Errorf("uploading generated image: %w", err)
	}

	model, err := p.Store.GetOrCreateModel(GenerationModelName)
	if err != nil {
		return nil, fmt.Errorf("resolving model record: %w", err)
	}

	realFile, generatedFile, err := p.Store.CreatePairFiles(realURL, generatedURL, model.ID, description)
	if err != nil {
		return nil, err
	}

	return &PairResult{
		RealFileID:      realFile.ID,
		GeneratedFileID: generatedFile.ID,
		Prompt:          description,
	}, nil
}

func (p *PairService) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := p.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to download %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body from %s: %w", url, err)
	}
	return data, nil
}
