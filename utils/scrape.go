// utils/scrape.go
package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Unsplash category slugs the ingestion CLI draws from.
var UnsplashCategories = []string{
	"people",
	"animals",
	"nature",
	"architecture",
	"travel",
	"street-photography",
}

var srcsetURLPattern = regexp.MustCompile(`(https://[^\s]+)\s+\d+w`)

// ScrapeUnsplashCategory pulls free image URLs off an Unsplash category
// page. Paid (Unsplash+) images and URLs already ingested are skipped;
// at most max URLs are returned. existing may be nil.
func ScrapeUnsplashCategory(category string, max int, existing map[string]bool) ([]string, error) {
	pageURL := fmt.Sprintf("https://unsplash.com/t/%s", category)

	resp, err := HTTPClient.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unsplash returned status %d for %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	return extractImageURLs(doc, max, existing), nil
}

func extractImageURLs(doc *goquery.Document, max int, existing map[string]bool) []string {
	seen := make(map[string]bool)
	var urls []string

	doc.Find("img[srcset]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		srcset, _ := sel.Attr("srcset")
		matches := srcsetURLPattern.FindAllStringSubmatch(srcset, 1)
		if len(matches) == 0 {
			return true
		}
		u := matches[0][1]

		// Unsplash+ images are paid and watermarked
		if strings.Contains(u, "plus.unsplash.com") || strings.Contains(u, "premium_photo") {
			return true
		}
		if !strings.Contains(u, "images.unsplash.com") {
			return true
		}

		// drop size parameters, keep the raw asset URL
		u = strings.SplitN(u, "?", 2)[0]

		if seen[u] || existing[u] {
			return true
		}
		seen[u] = true
		urls = append(urls, u)

		return len(urls) < max
	})

	return urls
}
