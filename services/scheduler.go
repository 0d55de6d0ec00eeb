// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRankingScheduler rebuilds the leaderboard snapshot on an interval.
// Positions are eventually consistent; a missed tick just delays the refresh.
func (s *LeaderboardService) StartRankingScheduler(every time.Duration) {
	if every <= 0 {
		every = 5 * time.Minute
	}

	// The first tick only comes after a full interval; build the snapshot now
	// so a fresh deploy never serves an empty board.
	if err := s.Rebuild(); err != nil {
		log.Printf("[Scheduler] Initial ranking rebuild failed: %v", err)
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[Scheduler] Failed to create scheduler: %v", err)
		return
	}

	_, err = sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if err := s.Rebuild(); err != nil {
				log.Printf("[Scheduler] Ranking rebuild failed: %v", err)
			}
		}),
	)
	if err != nil {
		log.Printf("[Scheduler] Failed to register ranking job: %v", err)
		return
	}

	sched.Start()
	log.Printf("⏰ [Scheduler] Ranking rebuild scheduled every %s", every)
}
