package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quiz-duel-server/game"
	"quiz-duel-server/models"
	"quiz-duel-server/utils"
)

type QuestionService struct {
	DB     *gorm.DB
	Tuning game.Tuning
}

func NewQuestionService(db *gorm.DB, tuning game.Tuning) *QuestionService {
	return &QuestionService{DB: db, Tuning: tuning}
}

// NormalizeLanguage reduces whatever tag the client sent ("de-AT",
// "EN_us", "deu") to a stable base code so queue matching and question
// lookup agree. Unparseable tags fall back to English.
func NormalizeLanguage(tag string) string {
	if tag == "" {
		return "en"
	}
	t, err := language.Parse(tag)
	if err != nil {
		return "en"
	}
	base, _ := t.Base()
	return base.String()
}

// SelectForMatch draws a random set of questions for the given grade
// and language; an empty subject means any subject. When the bank
// comes up short it pads with generated arithmetic so a match can
// always run.
func (s *QuestionService) SelectForMatch(subject, lang string, grade, count int) ([]Question, error) {
	if count <= 0 {
		count = s.Tuning.QuestionsPerMatch
	}
	lang = NormalizeLanguage(lang)

	query := s.DB.Where("language = ? AND grade = ?", lang, grade)
	if subject != "" {
		query = query.Where("subject = ?", subject)
	}
	var rows []models.QuestionRow
	err := query.
		Order("RANDOM()").
		Limit(count).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("select questions (%s, grade %d): %w", lang, grade, err)
	}

	questions := make([]Question, 0, count)
	for _, row := range rows {
		q, err := s.toQuestion(row)
		if err != nil {
			log.Printf("[Questions] skipping malformed row %s: %v", row.ID, err)
			continue
		}
		questions = append(questions, q)
	}

	if missing := count - len(questions); missing > 0 {
		log.Printf("[Questions] bank short for (%s, grade %d), generating %d arithmetic fillers", lang, grade, missing)
		questions = append(questions, generateArithmetic(grade, missing)...)
	}
	return questions, nil
}

func (s *QuestionService) toQuestion(row models.QuestionRow) (Question, error) {
	var options []string
	if err := json.Unmarshal([]byte(row.AnswersJSON), &options); err != nil {
		return Question{}, fmt.Errorf("bad answers payload: %w", err)
	}
	if row.CorrectIndex < 0 || row.CorrectIndex >= len(options) {
		return Question{}, fmt.Errorf("correct index %d out of range", row.CorrectIndex)
	}
	return Question{
		ID:           row.ID,
		Text:         row.Text,
		Options:      options,
		CorrectIndex: row.CorrectIndex,
		Difficulty:   row.Difficulty,
		TimeLimitMs:  row.TimeLimitMs,
	}, nil
}

// generateArithmetic produces simple math questions scaled to the
// grade. The operands grow with grade so a sixth grader is not asked
// what 2+3 is.
func generateArithmetic(grade, count int) []Question {
	if grade < 1 {
		grade = 1
	}
	limit := 10 * grade
	questions := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		a := rand.Intn(limit) + 1
		b := rand.Intn(limit) + 1
		answer := a + b
		text := fmt.Sprintf("%d + %d = ?", a, b)
		if grade >= 3 && i%2 == 1 {
			if a < b {
				a, b = b, a
			}
			answer = a - b
			text = fmt.Sprintf("%d - %d = ?", a, b)
		}

		correct := rand.Intn(4)
		options := make([]string, 4)
		used := map[int]bool{answer: true}
		for j := range options {
			if j == correct {
				options[j] = fmt.Sprintf("%d", answer)
				continue
			}
			wrong := answer + rand.Intn(10) - 5
			for used[wrong] || wrong < 0 {
				wrong = answer + rand.Intn(20) - 10
			}
			used[wrong] = true
			options[j] = fmt.Sprintf("%d", wrong)
		}

		questions = append(questions, Question{
			ID:           uuid.New().String(),
			Text:         text,
			Options:      options,
			CorrectIndex: correct,
			Difficulty:   1,
		})
	}
	return questions
}

// packQuestion is the shape of one entry in an imported question pack.
type packQuestion struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Difficulty   int      `json:"difficulty"`
	TimeLimitMs  int      `json:"timeLimitMs"`
}

// PackKey derives the R2 object key for a pack, e.g. packs/math-de-3.json.
func PackKey(subject, lang string, grade int) string {
	return fmt.Sprintf("packs/%s.json", slug.Make(fmt.Sprintf("%s %s %d", subject, NormalizeLanguage(lang), grade)))
}

// ImportPack pulls a question pack from object storage and upserts it
// into the bank. Question IDs are derived from content, so re-importing
// the same pack updates rows instead of duplicating them.
func (s *QuestionService) ImportPack(ctx context.Context, subject, lang string, grade int) (int, error) {
	lang = NormalizeLanguage(lang)
	key := PackKey(subject, lang, grade)

	data, err := utils.FetchObjectFromR2(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("fetch pack %s: %w", key, err)
	}

	var pack []packQuestion
	if err := json.Unmarshal(data, &pack); err != nil {
		return 0, fmt.Errorf("parse pack %s: %w", key, err)
	}

	rows := make([]models.QuestionRow, 0, len(pack))
	for i, q := range pack {
		if q.Text == "" || len(q.Options) < 2 || q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			log.Printf("[Questions] pack %s entry %d malformed, skipped", key, i)
			continue
		}
		answers, _ := json.Marshal(q.Options)
		seed := fmt.Sprintf("%s|%s|%d|%s", subject, lang, grade, q.Text)
		difficulty := q.Difficulty
		if difficulty == 0 {
			difficulty = 2
		}
		rows = append(rows, models.QuestionRow{
			ID:           uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String(),
			Subject:      subject,
			Language:     lang,
			Grade:        grade,
			Text:         q.Text,
			AnswersJSON:  string(answers),
			CorrectIndex: q.CorrectIndex,
			Difficulty:   difficulty,
			TimeLimitMs:  q.TimeLimitMs,
		})
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("pack %s contained no usable questions", key)
	}

	err = s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"text", "answers_json", "correct_index", "difficulty", "time_limit_ms",
		}),
	}).Create(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("upsert pack %s: %w", key, err)
	}

	log.Printf("[Questions] imported %d questions from %s", len(rows), key)
	return len(rows), nil
}

// Count reports bank size for a selector, for the admin surface.
func (s *QuestionService) Count(lang string, grade int) (int64, error) {
	var n int64
	err := s.DB.Model(&models.QuestionRow{}).
		Where("language = ? AND grade = ?", NormalizeLanguage(lang), grade).
		Count(&n).Error
	return n, err
}
