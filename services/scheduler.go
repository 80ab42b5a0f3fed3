// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"quiz-duel-server/game"
)

// StartEngineScheduler drives the two periodic engine jobs: the
// matchmaking tick and the session registry sweep. Returns the
// scheduler so main can shut it down.
func StartEngineScheduler(tuning game.Tuning, queue *MatchmakingQueue, registry *SessionRegistry) gocron.Scheduler {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Matching pass at the engine tick rate
	_, err := sched.NewJob(
		gocron.DurationJob(tuning.MatcherTick),
		gocron.NewTask(queue.Tick),
	)
	if err != nil {
		log.Printf("[Scheduler] failed to schedule matcher tick: %v", err)
	}

	// Every 30s: drop finished sessions past the linger window and
	// abandon matches that never got off the ground
	_, err = sched.NewJob(
		gocron.DurationJob(30*time.Second),
		gocron.NewTask(func() {
			registry.Sweep(tuning.SessionLinger, tuning.AbandonedWaiting)
		}),
	)
	if err != nil {
		log.Printf("[Scheduler] failed to schedule session sweep: %v", err)
	}

	return sched
}
