package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"badminton-community-system/models"
	"badminton-community-system/services"
)

// GormStore backs the domain services with Postgres. One instance wraps
// either the root *gorm.DB or, inside InTx, a transaction handle; the
// methods do not care which.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// InTx runs fn against a transaction-bound store. Rollback on error, commit
// on nil, exactly gorm's contract.
func (s *GormStore) InTx(ctx context.Context, fn func(services.MatchStore) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}

func (s *GormStore) CreateMatch(ctx context.Context, m *models.Match) error {
	return s.DB.WithContext(ctx).Create(m).Error
}

func (s *GormStore) MatchByID(ctx context.Context, id string) (*models.Match, error) {
	var m models.Match
	err := s.DB.WithContext(ctx).Preload("Participants").First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) PendingMatchesFor(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match
	err := s.DB.WithContext(ctx).
		Joins("JOIN match_participants mp ON mp.match_id = matches.id AND mp.deleted_at IS NULL").
		Where("matches.status = ? AND mp.user_id = ? AND mp.responder = ?", models.MatchStatusPending, userID, true).
		Preload("Participants").
		Order("matches.created_at DESC").
		Find(&matches).Error
	return matches, err
}

func (s *GormStore) PendingMatchesOlderThan(ctx context.Context, cutoff time.Time) ([]models.Match, error) {
	var matches []models.Match
	err := s.DB.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.MatchStatusPending, cutoff).
		Preload("Participants").
		Order("created_at ASC").
		Find(&matches).Error
	return matches, err
}

func (s *GormStore) ResolvedMatchesFor(ctx context.Context, userID string, page, limit int) ([]models.Match, error) {
	var matches []models.Match
	err := s.DB.WithContext(ctx).
		Joins("JOIN match_participants mp ON mp.match_id = matches.id AND mp.deleted_at IS NULL").
		Where("matches.status IN ? AND mp.user_id = ?",
			[]string{models.MatchStatusConfirmed, models.MatchStatusRejected}, userID).
		Preload("Participants").
		Order("matches.resolved_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&matches).Error
	return matches, err
}

// MarkMatchResolved is the single conditional update that serializes
// concurrent resolutions: only a still-pending row matches, so the second
// caller affects zero rows and gets ErrInvalidState.
func (s *GormStore) MarkMatchResolved(ctx context.Context, matchID, status, responderID string, at time.Time) error {
	res := s.DB.WithContext(ctx).Model(&models.Match{}).
		Where("id = ? AND status = ?", matchID, models.MatchStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_by": responderID,
			"resolved_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&models.Match{}).
			Where("id = ?", matchID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return services.ErrNotFound
		}
		return services.ErrInvalidState
	}
	return nil
}

func (s *GormStore) SaveParticipant(ctx context.Context, p *models.MatchParticipant) error {
	return s.DB.WithContext(ctx).Save(p).Error
}

func (s *GormStore) ProfilesByIDs(ctx context.Context, ids []string) ([]models.PlayerProfile, error) {
	var profiles []models.PlayerProfile
	err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error
	return profiles, err
}

// ProfileForUpdate takes a row lock; call it inside InTx so confirmations of
// different matches sharing a player serialize instead of losing updates.
func (s *GormStore) ProfileForUpdate(ctx context.Context, id string) (*models.PlayerProfile, error) {
	var p models.PlayerProfile
	err := s.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) SaveProfile(ctx context.Context, p *models.PlayerProfile) error {
	return s.DB.WithContext(ctx).Save(p).Error
}

func (s *GormStore) CreateRatingChange(ctx context.Context, rc *models.RatingChange) error {
	return s.DB.WithContext(ctx).Create(rc).Error
}

func (s *GormStore) CreateFriendRequest(ctx context.Context, fr *models.FriendRequest) error {
	return s.DB.WithContext(ctx).Create(fr).Error
}

func (s *GormStore) FriendRequestByID(ctx context.Context, id string) (*models.FriendRequest, error) {
	var fr models.FriendRequest
	err := s.DB.WithContext(ctx).First(&fr, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

func (s *GormStore) FriendRequestsBetween(ctx context.Context, a, b string) ([]models.FriendRequest, error) {
	var frs []models.FriendRequest
	err := s.DB.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)", a, b, b, a).
		Find(&frs).Error
	return frs, err
}

func (s *GormStore) SaveFriendRequest(ctx context.Context, fr *models.FriendRequest) error {
	return s.DB.WithContext(ctx).Save(fr).Error
}

func (s *GormStore) PendingFriendRequestsFor(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var frs []models.FriendRequest
	err := s.DB.WithContext(ctx).
		Where("addressee_id = ? AND status = ?", userID, models.FriendRequestPending).
		Order("created_at DESC").
		Find(&frs).Error
	return frs, err
}

func (s *GormStore) AcceptedFriendRequestsOf(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var frs []models.FriendRequest
	err := s.DB.WithContext(ctx).
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?", userID, userID, models.FriendRequestAccepted).
		Find(&frs).Error
	return frs, err
}
