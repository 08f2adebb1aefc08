// workers/coverage_worker.go
package workers

import (
	"errors"
	"log"
	"time"

	"image-quiz-system/store"

	"github.com/go-co-op/gocron/v2"
)

// StartCoverageWorker schedules an hourly check that today and the next
// daysAhead dates each have a game with at least one pair, so a missed
// ingestion run shows up in the logs before players hit an empty day.
func StartCoverageWorker(st *store.Store, daysAhead int) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() { CheckCoverage(st, daysAhead) }),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}

// CheckCoverage logs a warning for every date in the window that has no
// game or an empty one.
func CheckCoverage(st *store.Store, daysAhead int) {
	now := time.Now().UTC()
	for i := 0; i <= daysAhead; i++ {
		date := now.AddDate(0, 0, i).Format("2006-01-02")

		count, err := st.PairCountByDate(date)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Printf("[Coverage] ⚠️  No game exists for %s", date)
			} else {
				log.Printf("[Coverage] DB error for %s: %v", date, err)
			}
			continue
		}
		if count == 0 {
			log.Printf("[Coverage] ⚠️  Game for %s has no pairs", date)
		}
	}
}
