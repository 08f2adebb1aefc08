// services/gemini.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrNoImage means the generation model returned a response without a
// single usable image in it.
var ErrNoImage = errors.New("model returned no images")

const (
	descriptionModel = "gemini-2.5-flash"
	imageModel       = "gemini-2.5-flash-image"

	// GenerationModelName is the Model record name stamped on every
	// generated File.
	GenerationModelName = "Gemini 2.5 Flash Image"
)

// The description deliberately never says the subject is a real
// photograph, so it can drive generation of a plausible counterfeit.
const descriptionPrompt = `Describe this image in a few sentences.

Capture the general lighting style and emotional atmosphere.
Generalize the setting (e.g., use 'a coastal scene' instead of describing this specific beach).
Use some creativity to describe a scene that's similar to the original image but not the same. Keep it realistic. For example, change the main subject or main object of the image.
Mention the editing style of the image as well as other photographic elements that are present in the image, such as lighting, composition, camera angle, lens type, etc.

However, make the prompt cohesive and consistent. Do not contradict yourself. This prompt will be used to generate a new image with the goal of tricking the user into thinking it's a real image.`

// GeminiClient wraps the two Gemini calls the pair generator makes:
// describing a real image and generating a counterfeit from the
// description. Constructed once at startup and injected.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Describe asks the vision model for a generation-ready description of
// the image. An empty response is returned as-is, not an error.
func (g *GeminiClient) Describe(ctx context.Context, image []byte) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(descriptionPrompt),
			genai.NewPartFromBytes(image, "image/jpeg"),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, descriptionModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("description request failed: %w", err)
	}

	return strings.TrimSpace(resp.Text()), nil
}

// GenerateImage produces counterfeit image bytes from a description.
func (g *GeminiClient) GenerateImage(ctx context.Context, description string) ([]byte, error) {
	prompt := fmt.Sprintf("Generate an image that matches the following description: %s", description)
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, imageModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: "4:3",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, ErrNoImage
}
