package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"badminton-community-system/logging"
	"badminton-community-system/models"
)

// CourtService is the venue directory: courts players search, favorite and
// attach matches to.
type CourtService struct {
	DB *gorm.DB
}

func NewCourtService(db *gorm.DB) *CourtService {
	return &CourtService{DB: db}
}

type CreateCourtInput struct {
	Name       string `json:"name"`
	City       string `json:"city"`
	Address    string `json:"address"`
	Indoor     *bool  `json:"indoor"`
	CourtCount int    `json:"court_count"`
}

func (s *CourtService) Create(ctx context.Context, in CreateCourtInput) (*models.Court, error) {
	if in.Name == "" {
		return nil, validationf("court name is required")
	}
	if in.City == "" {
		return nil, validationf("city is required")
	}
	if in.CourtCount <= 0 {
		in.CourtCount = 1
	}
	indoor := true
	if in.Indoor != nil {
		indoor = *in.Indoor
	}

	handle, err := s.uniqueSlug(ctx, in.Name)
	if err != nil {
		return nil, err
	}

	court := &models.Court{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Slug:       handle,
		City:       in.City,
		Address:    in.Address,
		Indoor:     indoor,
		CourtCount: in.CourtCount,
	}
	if err := s.DB.WithContext(ctx).Create(court).Error; err != nil {
		return nil, err
	}

	logging.L().Info("court created",
		zap.String("court_id", court.ID),
		zap.String("slug", court.Slug))
	return court, nil
}

// uniqueSlug derives the URL handle from the name, numbering on collision
// ("smash-arena", "smash-arena-2", ...).
func (s *CourtService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		return "", validationf("court name must contain letters or digits")
	}

	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&models.Court{}).
			Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// Search filters the directory by partial name and optional city.
func (s *CourtService) Search(ctx context.Context, query, city string, page, limit int) ([]models.Court, error) {
	q := s.DB.WithContext(ctx).Model(&models.Court{})
	if query != "" {
		q = q.Where("name ILIKE ?", "%"+query+"%")
	}
	if city != "" {
		q = q.Where("city ILIKE ?", city)
	}

	var courts []models.Court
	err := q.Order("name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courts).Error
	return courts, err
}

func (s *CourtService) BySlug(ctx context.Context, handle string) (*models.Court, error) {
	var court models.Court
	err := s.DB.WithContext(ctx).First(&court, "slug = ?", handle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &court, nil
}

// Favorite saves a court for the player. Idempotent: favoriting twice keeps
// one row.
func (s *CourtService) Favorite(ctx context.Context, userID, courtID string) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Court{}).
		Where("id = ?", courtID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}

	var fav models.CourtFavorite
	return s.DB.WithContext(ctx).
		Where("user_id = ? AND court_id = ?", userID, courtID).
		Attrs(models.CourtFavorite{ID: uuid.NewString(), UserID: userID, CourtID: courtID}).
		FirstOrCreate(&fav).Error
}

// Unfavorite removes the saved court. Removing a court that was never
// favorited is a no-op.
func (s *CourtService) Unfavorite(ctx context.Context, userID, courtID string) error {
	return s.DB.WithContext(ctx).
		Where("user_id = ? AND court_id = ?", userID, courtID).
		Delete(&models.CourtFavorite{}).Error
}

func (s *CourtService) FavoritesOf(ctx context.Context, userID string) ([]models.Court, error) {
	var courts []models.Court
	err := s.DB.WithContext(ctx).
		Joins("JOIN court_favorites cf ON cf.court_id = courts.id").
		Where("cf.user_id = ?", userID).
		Order("courts.name ASC").
		Find(&courts).Error
	return courts, err
}
