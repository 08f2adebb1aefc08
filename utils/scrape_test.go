package utils

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const categoryPage = `<html><body>
<img srcset="https://images.unsplash.com/photo-1?w=400 400w, https://images.unsplash.com/photo-1?w=800 800w">
<img srcset="https://plus.unsplash.com/premium-2?w=400 400w">
<img srcset="https://images.unsplash.com/premium_photo-3?w=400 400w">
<img srcset="https://images.unsplash.com/photo-4?w=400 400w">
<img srcset="https://images.unsplash.com/photo-1?w=400 400w">
<img srcset="https://cdn.elsewhere.com/photo-5?w=400 400w">
<img src="https://images.unsplash.com/photo-6">
<img srcset="https://images.unsplash.com/photo-7?w=400 400w">
</body></html>`

func parsePage(t *testing.T) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(categoryPage))
	require.NoError(t, err)
	return doc
}

func TestExtractImageURLs(t *testing.T) {
	urls := extractImageURLs(parsePage(t), 10, nil)

	// paid, off-site, srcset-less and duplicate entries are dropped,
	// and size parameters are stripped
	assert.Equal(t, []string{
		"https://images.unsplash.com/photo-1",
		"https://images.unsplash.com/photo-4",
		"https://images.unsplash.com/photo-7",
	}, urls)
}

func TestExtractImageURLsSkipsExisting(t *testing.T) {
	existing := map[string]bool{"https://images.unsplash.com/photo-1": true}
	urls := extractImageURLs(parsePage(t), 10, existing)

	assert.Equal(t, []string{
		"https://images.unsplash.com/photo-4",
		"https://images.unsplash.com/photo-7",
	}, urls)
}

func TestExtractImageURLsRespectsMax(t *testing.T) {
	urls := extractImageURLs(parsePage(t), 2, nil)
	assert.Len(t, urls, 2)
}

func TestImageKey(t *testing.T) {
	// slug lowercases and hyphenates spaces but keeps underscores
	key := ImageKey("real", "https://images.unsplash.com/My Photo_01.jpg")
	assert.True(t, strings.HasPrefix(key, "real/"))
	assert.True(t, strings.HasSuffix(key, "-my-photo_01.jpg"))

	key = ImageKey("generated", "not a url at all ://")
	assert.True(t, strings.HasPrefix(key, "generated/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
}
