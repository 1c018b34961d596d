package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"badminton-community-system/logging"
	"badminton-community-system/models"
)

// FriendStore is the persistence surface for the friend graph.
type FriendStore interface {
	CreateFriendRequest(ctx context.Context, fr *models.FriendRequest) error
	FriendRequestByID(ctx context.Context, id string) (*models.FriendRequest, error)
	FriendRequestsBetween(ctx context.Context, a, b string) ([]models.FriendRequest, error)
	SaveFriendRequest(ctx context.Context, fr *models.FriendRequest) error
	PendingFriendRequestsFor(ctx context.Context, userID string) ([]models.FriendRequest, error)
	AcceptedFriendRequestsOf(ctx context.Context, userID string) ([]models.FriendRequest, error)
	ProfilesByIDs(ctx context.Context, ids []string) ([]models.PlayerProfile, error)
}

// FriendService runs the friend-request workflow. Same two-phase shape as
// matches: the addressee resolves a pending request exactly once.
type FriendService struct {
	store  FriendStore
	events Emitter
}

func NewFriendService(store FriendStore, events Emitter) *FriendService {
	return &FriendService{store: store, events: events}
}

// Send opens (or re-opens, after a decline) a friend request and notifies
// the addressee.
func (s *FriendService) Send(ctx context.Context, fromID, toID string) (*models.FriendRequest, error) {
	if toID == "" {
		return nil, validationf("addressee id is required")
	}
	if fromID == toID {
		return nil, validationf("cannot send a friend request to yourself")
	}

	profiles, err := s.store.ProfilesByIDs(ctx, []string{fromID, toID})
	if err != nil {
		return nil, err
	}
	if len(profiles) != 2 {
		return nil, fmt.Errorf("player %s: %w", toID, ErrNotFound)
	}

	existing, err := s.store.FriendRequestsBetween(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	var reusable *models.FriendRequest
	for i := range existing {
		fr := &existing[i]
		switch fr.Status {
		case models.FriendRequestAccepted:
			return nil, fmt.Errorf("already friends: %w", ErrInvalidState)
		case models.FriendRequestPending:
			return nil, fmt.Errorf("request already open: %w", ErrInvalidState)
		case models.FriendRequestDeclined:
			if fr.RequesterID == fromID {
				reusable = fr
			}
		}
	}

	var request *models.FriendRequest
	if reusable != nil {
		reusable.Status = models.FriendRequestPending
		reusable.RespondedAt = nil
		if err := s.store.SaveFriendRequest(ctx, reusable); err != nil {
			return nil, err
		}
		request = reusable
	} else {
		request = &models.FriendRequest{
			ID:          uuid.NewString(),
			RequesterID: fromID,
			AddresseeID: toID,
			Status:      models.FriendRequestPending,
		}
		if err := s.store.CreateFriendRequest(ctx, request); err != nil {
			return nil, err
		}
	}

	var fromName string
	for _, p := range profiles {
		if p.ID == fromID {
			fromName = p.DisplayName
		}
	}
	s.events.Emit(Event{
		Name:       EventFriendRequest,
		Recipients: []string{toID},
		Payload: map[string]interface{}{
			"request_id": request.ID,
			"from_id":    fromID,
			"from_name":  fromName,
		},
	})

	logging.L().Info("friend request sent",
		zap.String("request_id", request.ID),
		zap.String("from", fromID),
		zap.String("to", toID))
	return request, nil
}

// Accept resolves a pending request positively. Only the addressee may act,
// and only once.
func (s *FriendService) Accept(ctx context.Context, requestID, userID string) (*models.FriendRequest, error) {
	fr, err := s.respond(ctx, requestID, userID, models.FriendRequestAccepted)
	if err != nil {
		return nil, err
	}

	s.events.Emit(Event{
		Name:       EventFriendAccepted,
		Recipients: []string{fr.RequesterID},
		Payload: map[string]interface{}{
			"request_id": fr.ID,
			"by_id":      userID,
		},
	})
	return fr, nil
}

// Decline resolves a pending request negatively. The requester is not
// notified; the original behaves the same way.
func (s *FriendService) Decline(ctx context.Context, requestID, userID string) (*models.FriendRequest, error) {
	return s.respond(ctx, requestID, userID, models.FriendRequestDeclined)
}

func (s *FriendService) respond(ctx context.Context, requestID, userID, status string) (*models.FriendRequest, error) {
	fr, err := s.store.FriendRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if fr.Status != models.FriendRequestPending {
		return nil, fmt.Errorf("request already %s: %w", fr.Status, ErrInvalidState)
	}
	if fr.AddresseeID != userID {
		return nil, ErrUnauthorized
	}

	now := time.Now()
	fr.Status = status
	fr.RespondedAt = &now
	if err := s.store.SaveFriendRequest(ctx, fr); err != nil {
		return nil, err
	}

	logging.L().Info("friend request resolved",
		zap.String("request_id", fr.ID),
		zap.String("status", status))
	return fr, nil
}

// IncomingPending lists the requests waiting on userID.
func (s *FriendService) IncomingPending(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	return s.store.PendingFriendRequestsFor(ctx, userID)
}

// FriendsOf returns the profiles of everyone with an accepted request
// involving userID, in either direction.
func (s *FriendService) FriendsOf(ctx context.Context, userID string) ([]models.PlayerProfile, error) {
	accepted, err := s.store.AcceptedFriendRequestsOf(ctx, userID)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, fr := range accepted {
		other := fr.RequesterID
		if other == userID {
			other = fr.AddresseeID
		}
		ids = append(ids, other)
	}
	if len(ids) == 0 {
		return []models.PlayerProfile{}, nil
	}
	return s.store.ProfilesByIDs(ctx, ids)
}
