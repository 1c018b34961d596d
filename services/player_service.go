package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"badminton-community-system/logging"
	"badminton-community-system/models"
)

// PlayerService manages rating-bearing player profiles. Reads and writes go
// straight through gorm; the rating columns themselves are only ever written
// by match confirmation, which lives in MatchService.
type PlayerService struct {
	DB            *gorm.DB
	DefaultRating int
}

func NewPlayerService(db *gorm.DB, defaultRating int) *PlayerService {
	return &PlayerService{DB: db, DefaultRating: defaultRating}
}

// CreateProfile registers the rating record for an authenticated identity.
// A second create for the same identity fails with ErrInvalidState.
func (s *PlayerService) CreateProfile(ctx context.Context, userID, displayName, city string) (*models.PlayerProfile, error) {
	if userID == "" {
		return nil, validationf("user id must not be empty")
	}
	if displayName == "" {
		return nil, validationf("display name is required")
	}
	if len(displayName) > 64 {
		return nil, validationf("display name must be at most 64 characters")
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.PlayerProfile{}).
		Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("profile already exists: %w", ErrInvalidState)
	}

	p := &models.PlayerProfile{
		ID:            userID,
		DisplayName:   displayName,
		City:          city,
		SinglesRating: s.DefaultRating,
		DoublesRating: s.DefaultRating,
		MixedRating:   s.DefaultRating,
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}

	logging.L().Info("player profile created", zap.String("user_id", userID))
	return p, nil
}

func (s *PlayerService) ProfileByID(ctx context.Context, userID string) (*models.PlayerProfile, error) {
	var p models.PlayerProfile
	err := s.DB.WithContext(ctx).First(&p, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile edits the descriptive fields. Ratings and counters are not
// reachable from here.
func (s *PlayerService) UpdateProfile(ctx context.Context, userID string, displayName, city *string) (*models.PlayerProfile, error) {
	p, err := s.ProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if displayName != nil {
		if *displayName == "" {
			return nil, validationf("display name is required")
		}
		if len(*displayName) > 64 {
			return nil, validationf("display name must be at most 64 characters")
		}
		updates["display_name"] = *displayName
	}
	if city != nil {
		updates["city"] = *city
	}
	if len(updates) == 0 {
		return p, nil
	}

	if err := s.DB.WithContext(ctx).Model(p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// SearchPlayers finds profiles by partial display name.
func (s *PlayerService) SearchPlayers(ctx context.Context, query string, limit int) ([]models.PlayerProfile, error) {
	if query == "" {
		return nil, validationf("search query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	var players []models.PlayerProfile
	err := s.DB.WithContext(ctx).
		Where("display_name ILIKE ?", "%"+query+"%").
		Order("display_name ASC").
		Limit(limit).
		Find(&players).Error
	return players, err
}

// Leaderboard returns profiles ordered by the discipline's rating.
func (s *PlayerService) Leaderboard(ctx context.Context, discipline string, page, limit int) ([]models.PlayerProfile, error) {
	if discipline == "" {
		discipline = models.DisciplineSingles
	}
	col, err := ratingColumn(discipline)
	if err != nil {
		return nil, err
	}

	var players []models.PlayerProfile
	dbErr := s.DB.WithContext(ctx).
		Order(col + " DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&players).Error
	return players, dbErr
}

// RatingHistory returns the audit trail of rating changes, newest first.
func (s *PlayerService) RatingHistory(ctx context.Context, userID string, page, limit int) ([]models.RatingChange, error) {
	if _, err := s.ProfileByID(ctx, userID); err != nil {
		return nil, err
	}

	var changes []models.RatingChange
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&changes).Error
	return changes, err
}

// ratingColumn whitelists the sortable rating columns; discipline never
// reaches the SQL string unchecked.
func ratingColumn(discipline string) (string, error) {
	switch discipline {
	case models.DisciplineSingles:
		return "singles_rating", nil
	case models.DisciplineDoubles:
		return "doubles_rating", nil
	case models.DisciplineMixed:
		return "mixed_rating", nil
	default:
		return "", validationf("unknown discipline %q", discipline)
	}
}
