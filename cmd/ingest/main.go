// cmd/ingest/main.go — batch image-pair ingestion CLI.
//
// Modes:
//
//	ingest <url>...                          one pair per URL, no game
//	ingest -date 2025-12-25 <url>...         pairs linked to a new game
//	ingest -scrape [-categories a,b] [-count N]
//	ingest -scrape-and-process [-categories a,b] [-count N]
//	ingest -create-day 2025-12-25 [-count N]
//	ingest -create-week [-per-day N] [-start-offset N] [-num-days N]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"image-quiz-system/services"
	"image-quiz-system/store"
	"image-quiz-system/utils"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	date := flag.String("date", "", "link pairs to a new game for this date (YYYY-MM-DD)")
	scrapeOnly := flag.Bool("scrape", false, "scrape Unsplash categories and print URLs")
	scrapeProcess := flag.Bool("scrape-and-process", false, "scrape Unsplash categories and ingest the results")
	categoriesFlag := flag.String("categories", "", "comma-separated Unsplash categories (default: all)")
	count := flag.Int("count", 10, "images per category (scrape modes) or per day (create-day)")
	createDay := flag.String("create-day", "", "scrape and build one game for this date (YYYY-MM-DD)")
	createWeek := flag.Bool("create-week", false, "scrape and build a week of games")
	perDay := flag.Int("per-day", 10, "pairs per game in week mode")
	startOffset := flag.Int("start-offset", 2, "days ahead the week starts in week mode")
	numDays := flag.Int("num-days", 7, "number of games to build in week mode")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	st := store.NewStore(db)
	if err := st.Migrate(); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ctx := context.Background()

	blob, err := utils.NewBlobStore(ctx)
	if err != nil {
		log.Fatal("failed to initialize blob store:", err)
	}
	gemini, err := services.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Fatal("failed to initialize gemini client:", err)
	}

	pairService := services.NewPairService(st, gemini, blob)
	ingestService := services.NewIngestService(st, pairService)

	categories := utils.UnsplashCategories
	if *categoriesFlag != "" {
		categories = strings.Split(*categoriesFlag, ",")
		for i := range categories {
			categories[i] = strings.TrimSpace(categories[i])
		}
	}

	switch {
	case *scrapeOnly:
		urls, err := scrapeURLs(st, categories, *count*len(categories))
		if err != nil {
			log.Fatal(err)
		}
		for _, u := range urls {
			fmt.Println(u)
		}

	case *scrapeProcess:
		urls, err := scrapeURLs(st, categories, *count*len(categories))
		if err != nil {
			log.Fatal(err)
		}
		runBatch(ctx, ingestService, urls, "")

	case *createDay != "":
		urls, err := scrapeURLs(st, categories, *count)
		if err != nil {
			log.Fatal(err)
		}
		runBatch(ctx, ingestService, urls, *createDay)

	case *createWeek:
		start := time.Now().UTC().AddDate(0, 0, *startOffset)
		for i := 0; i < *numDays; i++ {
			gameDate := start.AddDate(0, 0, i).Format("2006-01-02")
			log.Printf("=== Building game for %s ===", gameDate)

			urls, err := scrapeURLs(st, categories, *perDay)
			if err != nil {
				log.Printf("❌ Skipping %s: %v", gameDate, err)
				continue
			}
			if _, err := ingestService.IngestBatch(ctx, urls, gameDate); err != nil {
				// usually a game already existing for the date
				log.Printf("❌ Batch for %s failed: %v", gameDate, err)
			}
		}

	default:
		urls := flag.Args()
		if len(urls) == 0 {
			flag.Usage()
			os.Exit(1)
		}
		runBatch(ctx, ingestService, urls, *date)
	}
}

func runBatch(ctx context.Context, svc *services.IngestService, urls []string, date string) {
	summary, err := svc.IngestBatch(ctx, urls, date)
	if err != nil {
		log.Fatal(err)
	}
	for _, pair := range summary.Pairs {
		log.Printf("  pair: real=%s generated=%s", pair.RealFileID, pair.GeneratedFileID)
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// scrapeURLs walks shuffled categories until it has collected total new
// URLs, skipping anything already ingested as a real File.
func scrapeURLs(st *store.Store, categories []string, total int) ([]string, error) {
	existing, err := st.RealFileURLs()
	if err != nil {
		return nil, fmt.Errorf("failed to load existing URLs: %w", err)
	}

	shuffled := append([]string(nil), categories...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	var urls []string
	for _, category := range shuffled {
		if len(urls) >= total {
			break
		}
		found, err := utils.ScrapeUnsplashCategory(category, total-len(urls), existing)
		if err != nil {
			log.Printf("⚠️  Failed to scrape %q: %v", category, err)
			continue
		}
		log.Printf("Scraped %d new URL(s) from %q", len(found), category)
		for _, u := range found {
			existing[u] = true
		}
		urls = append(urls, found...)
	}

	if len(urls) < total {
		return nil, fmt.Errorf("not enough images: needed %d, found %d", total, len(urls))
	}
	return urls, nil
}
