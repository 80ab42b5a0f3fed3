package workers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quiz-duel-server/models"
	"quiz-duel-server/services"
)

// MatchAuditWorker persists finished match results off the hot path.
// Sessions enqueue results the moment they end; this worker batches
// them into match_records so a slow database never stalls game loops.
type MatchAuditWorker struct {
	DB      *gorm.DB
	results chan services.MatchResult
}

func NewMatchAuditWorker(db *gorm.DB) *MatchAuditWorker {
	return &MatchAuditWorker{
		DB:      db,
		results: make(chan services.MatchResult, 256),
	}
}

// Enqueue hands a result to the worker. Drops with a log line if the
// buffer is full rather than blocking the session loop.
func (w *MatchAuditWorker) Enqueue(result services.MatchResult) {
	select {
	case w.results <- result:
	default:
		log.Printf("❌ Audit buffer full, dropping record for match %s", result.MatchID)
	}
}

// Run drains results until the context ends, flushing whatever is
// buffered in batches. On shutdown it drains what is left.
func (w *MatchAuditWorker) Run(ctx context.Context) {
	log.Println("Starting match audit worker...")
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.flush()
			log.Println("Match audit worker stopped.")
			return
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *MatchAuditWorker) flush() {
	batch := make([]models.MatchRecord, 0, 32)
	for {
		select {
		case result := <-w.results:
			batch = append(batch, toRecord(result))
		default:
			if len(batch) == 0 {
				return
			}
			if err := w.DB.Create(&batch).Error; err != nil {
				log.Printf("❌ Failed to persist %d match record(s): %v", len(batch), err)
				return
			}
			log.Printf("📝 Persisted %d match record(s).", len(batch))
			return
		}
	}
}

func toRecord(result services.MatchResult) models.MatchRecord {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		log.Printf("❌ Failed to encode answers for match %s: %v", result.MatchID, err)
		answers = []byte("{}")
	}

	record := models.MatchRecord{
		ID:          result.MatchID,
		Player1ID:   result.Player1.ID,
		Player2ID:   result.Player2.ID,
		IsDraw:      result.IsDraw,
		Status:      result.Status,
		Goals1:      result.Goals1,
		Goals2:      result.Goals2,
		Score1:      result.Score1,
		Score2:      result.Score2,
		Correct1:    result.Correct1,
		Correct2:    result.Correct2,
		DurationSec: result.DurationSec,
		AnswersJSON: string(answers),
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if result.WinnerID != "" {
		winner := result.WinnerID
		record.WinnerID = &winner
	}
	for _, d := range result.Deltas {
		switch d.PlayerID {
		case result.Player1.ID:
			record.TrophyDelta1 = d.Delta
		case result.Player2.ID:
			record.TrophyDelta2 = d.Delta
		}
	}
	return record
}
