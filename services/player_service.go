package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quiz-duel-server/game"
	"quiz-duel-server/models"
	"quiz-duel-server/protocol"
)

type PlayerService struct {
	DB     *gorm.DB
	Tuning game.Tuning
}

func NewPlayerService(db *gorm.DB, tuning game.Tuning) *PlayerService {
	return &PlayerService{DB: db, Tuning: tuning}
}

// GetOrCreate loads a player by ID, creating a fresh profile at the
// starting trophy count when none exists. An empty ID mints a new one.
func (s *PlayerService) GetOrCreate(playerID, displayName string, grade int, language string) (*models.Player, error) {
	if playerID == "" {
		playerID = uuid.New().String()
	}
	var player models.Player
	err := s.DB.First(&player, "id = ?", playerID).Error
	if err == nil {
		return &player, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load player %s: %w", playerID, err)
	}

	if displayName == "" {
		displayName = "Player " + playerID[:8]
	}
	player = models.Player{
		ID:          playerID,
		DisplayName: displayName,
		Trophies:    s.Tuning.StartingTrophies,
		League:      game.LeagueFor(s.Tuning.StartingTrophies),
		Grade:       grade,
		Language:    language,
	}
	if err := s.DB.Create(&player).Error; err != nil {
		return nil, fmt.Errorf("create player %s: %w", playerID, err)
	}
	log.Printf("[Players] created %s (%s)", player.ID, player.DisplayName)
	return &player, nil
}

func (s *PlayerService) Get(playerID string) (*models.Player, error) {
	var player models.Player
	if err := s.DB.First(&player, "id = ?", playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}

// Ref builds the immutable pairing snapshot used by matchmaking and
// sessions.
func (s *PlayerService) Ref(p *models.Player) protocol.PlayerRef {
	return protocol.PlayerRef{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Trophies:    p.Trophies,
		League:      p.League,
		Grade:       p.Grade,
	}
}

// ApplyResult persists a finished match's trophy movement and record
// stats for both players in one transaction. Abandoned matches without
// deltas leave ratings untouched.
func (s *PlayerService) ApplyResult(result MatchResult) error {
	if len(result.Deltas) == 0 {
		return nil
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for _, d := range result.Deltas {
			var player models.Player
			if err := tx.First(&player, "id = ?", d.PlayerID).Error; err != nil {
				return fmt.Errorf("load player %s: %w", d.PlayerID, err)
			}

			player.Trophies = d.NewTotal
			player.League = d.NewLeague
			switch {
			case result.IsDraw:
				player.Draws++
				player.WinStreak = 0
			case result.WinnerID == d.PlayerID:
				player.Wins++
				player.WinStreak++
			default:
				player.Losses++
				player.WinStreak = 0
			}

			if err := tx.Save(&player).Error; err != nil {
				return fmt.Errorf("save player %s: %w", d.PlayerID, err)
			}
			if d.Promoted || d.Demoted {
				log.Printf("[Players] %s moved %s -> %s (%d trophies)", d.PlayerID, d.OldLeague, d.NewLeague, d.NewTotal)
			}
		}
		return nil
	})
}

// Leaderboard returns the top players by trophies.
func (s *PlayerService) Leaderboard(limit int) ([]models.Player, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var players []models.Player
	err := s.DB.Order("trophies DESC").Limit(limit).Find(&players).Error
	return players, err
}
