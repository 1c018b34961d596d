package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"badminton-community-system/logging"
	"badminton-community-system/models"
)

// Score bounds for one badminton set.
const (
	maxSets      = 5
	maxSetPoints = 30
)

// MatchStore is the persistence surface the match engine needs. The
// production implementation is storage.GormStore; tests run an in-memory
// fake. Inside InTx, ProfileForUpdate must hold a row lock until the
// surrounding transaction ends, and MarkMatchResolved must be a conditional
// update that only matches a still-pending row.
type MatchStore interface {
	InTx(ctx context.Context, fn func(tx MatchStore) error) error

	CreateMatch(ctx context.Context, m *models.Match) error
	MatchByID(ctx context.Context, id string) (*models.Match, error)
	PendingMatchesFor(ctx context.Context, userID string) ([]models.Match, error)
	PendingMatchesOlderThan(ctx context.Context, cutoff time.Time) ([]models.Match, error)
	ResolvedMatchesFor(ctx context.Context, userID string, page, limit int) ([]models.Match, error)
	MarkMatchResolved(ctx context.Context, matchID, status, responderID string, at time.Time) error
	SaveParticipant(ctx context.Context, p *models.MatchParticipant) error

	ProfilesByIDs(ctx context.Context, ids []string) ([]models.PlayerProfile, error)
	ProfileForUpdate(ctx context.Context, id string) (*models.PlayerProfile, error)
	SaveProfile(ctx context.Context, p *models.PlayerProfile) error
	CreateRatingChange(ctx context.Context, rc *models.RatingChange) error
}

// MatchService runs the two-phase result workflow: one side proposes a
// result, the opposing side confirms or rejects it, and ratings move only on
// confirmation, exactly once per match.
type MatchService struct {
	store  MatchStore
	events Emitter
}

func NewMatchService(store MatchStore, events Emitter) *MatchService {
	return &MatchService{store: store, events: events}
}

// ProposeMatchInput is the payload for reporting a played match.
type ProposeMatchInput struct {
	Discipline  string     `json:"discipline"`
	SideA       []string   `json:"side_a"`
	SideB       []string   `json:"side_b"`
	Scores      [][2]int   `json:"scores"`
	WinningSide string     `json:"winning_side"`
	CourtID     *string    `json:"court_id,omitempty"`
	PlayedAt    *time.Time `json:"played_at,omitempty"`
}

// MatchView is the client-facing shape of a match, with scores decoded.
type MatchView struct {
	ID          string     `json:"id"`
	Discipline  string     `json:"discipline"`
	Status      string     `json:"status"`
	ProposerID  string     `json:"proposer_id"`
	WinningSide string     `json:"winning_side"`
	Scores      [][2]int   `json:"scores"`
	SideA       []string   `json:"side_a"`
	SideB       []string   `json:"side_b"`
	Responders  []string   `json:"responders"`
	CourtID     *string    `json:"court_id,omitempty"`
	PlayedAt    *time.Time `json:"played_at,omitempty"`
	ResolvedBy  *string    `json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewMatchView(m *models.Match) MatchView {
	var scores [][2]int
	_ = json.Unmarshal([]byte(m.ScoresJSON), &scores)

	return MatchView{
		ID:          m.ID,
		Discipline:  m.Discipline,
		Status:      m.Status,
		ProposerID:  m.ProposerID,
		WinningSide: m.WinningSide,
		Scores:      scores,
		SideA:       m.SideMembers(models.SideA),
		SideB:       m.SideMembers(models.SideB),
		Responders:  m.ResponderIDs(),
		CourtID:     m.CourtID,
		PlayedAt:    m.PlayedAt,
		ResolvedBy:  m.ResolvedBy,
		ResolvedAt:  m.ResolvedAt,
		CreatedAt:   m.CreatedAt,
	}
}

// Propose validates and persists a reported result in pending state and
// notifies the opposing side. The match stays pending until one of them
// responds, whether or not anyone was online for the push.
func (s *MatchService) Propose(ctx context.Context, proposerID string, in ProposeMatchInput) (*models.Match, error) {
	if err := validatePropose(proposerID, in); err != nil {
		return nil, err
	}

	ids := append(append([]string{}, in.SideA...), in.SideB...)
	profiles, err := s.store.ProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(profiles) != len(ids) {
		known := make(map[string]bool, len(profiles))
		for _, p := range profiles {
			known[p.ID] = true
		}
		for _, id := range ids {
			if !known[id] {
				return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
			}
		}
	}

	// Responders are the side the proposer is NOT on.
	proposerSide := models.SideA
	for _, id := range in.SideB {
		if id == proposerID {
			proposerSide = models.SideB
		}
	}

	scoresJSON, err := json.Marshal(in.Scores)
	if err != nil {
		return nil, fmt.Errorf("encode scores: %w", err)
	}

	m := &models.Match{
		ID:          uuid.NewString(),
		Discipline:  in.Discipline,
		Status:      models.MatchStatusPending,
		ProposerID:  proposerID,
		WinningSide: in.WinningSide,
		ScoresJSON:  string(scoresJSON),
		CourtID:     in.CourtID,
		PlayedAt:    in.PlayedAt,
	}
	appendSide := func(userIDs []string, side string) {
		for _, id := range userIDs {
			m.Participants = append(m.Participants, models.MatchParticipant{
				ID:        uuid.NewString(),
				MatchID:   m.ID,
				UserID:    id,
				Side:      side,
				Responder: side != proposerSide,
			})
		}
	}
	appendSide(in.SideA, models.SideA)
	appendSide(in.SideB, models.SideB)

	if err := s.store.CreateMatch(ctx, m); err != nil {
		return nil, err
	}

	s.events.Emit(Event{
		Name:       EventMatchPending,
		Recipients: m.ResponderIDs(),
		Payload:    map[string]interface{}{"match": NewMatchView(m)},
	})

	logging.L().Info("match proposed",
		zap.String("match_id", m.ID),
		zap.String("proposer_id", proposerID),
		zap.String("discipline", m.Discipline))
	return m, nil
}

// Confirm resolves a pending match in favor of the reported result and
// applies the rating update. The status flip and every rating write commit
// in one transaction, so a concurrent Confirm on the same match either wins
// the conditional update or sees ErrInvalidState. The deltas can never be
// applied twice.
func (s *MatchService) Confirm(ctx context.Context, matchID, responderID string) (*models.Match, error) {
	var (
		confirmed *models.Match
		changes   []models.RatingChange
	)

	err := s.store.InTx(ctx, func(tx MatchStore) error {
		m, err := tx.MatchByID(ctx, matchID)
		if err != nil {
			return err
		}
		if m.Status != models.MatchStatusPending {
			return fmt.Errorf("match already %s: %w", m.Status, ErrInvalidState)
		}
		if !m.HasResponder(responderID) {
			return ErrUnauthorized
		}

		now := time.Now()
		if err := tx.MarkMatchResolved(ctx, m.ID, models.MatchStatusConfirmed, responderID, now); err != nil {
			return err
		}

		// Lock profiles in stable order so overlapping confirmations that
		// share a player cannot deadlock.
		ids := m.ParticipantIDs()
		sort.Strings(ids)
		profiles := make(map[string]*models.PlayerProfile, len(ids))
		for _, id := range ids {
			p, err := tx.ProfileForUpdate(ctx, id)
			if err != nil {
				return err
			}
			profiles[id] = p
		}

		ratingsFor := func(side string) []int {
			var rs []int
			for _, id := range m.SideMembers(side) {
				rs = append(rs, profiles[id].RatingFor(m.Discipline))
			}
			return rs
		}
		sideA := SideRating(ratingsFor(models.SideA))
		sideB := SideRating(ratingsFor(models.SideB))
		aWon := m.WinningSide == models.SideA
		newA, newB := ComputeUpdatedRatings(sideA, sideB, aWon)
		deltaA, deltaB := newA-sideA, newB-sideB

		for i := range m.Participants {
			part := &m.Participants[i]
			profile := profiles[part.UserID]

			delta, won := deltaA, aWon
			if part.Side == models.SideB {
				delta, won = deltaB, !aWon
			}

			before := profile.RatingFor(m.Discipline)
			after := before + delta
			profile.SetRatingFor(m.Discipline, after)
			if won {
				profile.Wins++
			} else {
				profile.Losses++
			}
			if err := tx.SaveProfile(ctx, profile); err != nil {
				return err
			}

			part.RatingBefore = &before
			part.RatingAfter = &after
			if err := tx.SaveParticipant(ctx, part); err != nil {
				return err
			}

			change := models.RatingChange{
				ID:           uuid.NewString(),
				UserID:       part.UserID,
				MatchID:      m.ID,
				Discipline:   m.Discipline,
				RatingBefore: before,
				RatingAfter:  after,
				Delta:        delta,
			}
			if err := tx.CreateRatingChange(ctx, &change); err != nil {
				return err
			}
			changes = append(changes, change)
		}

		m.Status = models.MatchStatusConfirmed
		m.ResolvedBy = &responderID
		m.ResolvedAt = &now
		confirmed = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Emit(Event{
		Name:       EventMatchConfirmed,
		Recipients: recipientsExcluding(confirmed, responderID),
		Payload: map[string]interface{}{
			"match":          NewMatchView(confirmed),
			"rating_changes": changes,
		},
	})

	logging.L().Info("match confirmed",
		zap.String("match_id", confirmed.ID),
		zap.String("responder_id", responderID))
	return confirmed, nil
}

// Reject resolves a pending match without touching any rating.
func (s *MatchService) Reject(ctx context.Context, matchID, responderID string) (*models.Match, error) {
	m, err := s.store.MatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != models.MatchStatusPending {
		return nil, fmt.Errorf("match already %s: %w", m.Status, ErrInvalidState)
	}
	if !m.HasResponder(responderID) {
		return nil, ErrUnauthorized
	}

	now := time.Now()
	if err := s.store.MarkMatchResolved(ctx, m.ID, models.MatchStatusRejected, responderID, now); err != nil {
		return nil, err
	}
	m.Status = models.MatchStatusRejected
	m.ResolvedBy = &responderID
	m.ResolvedAt = &now

	s.events.Emit(Event{
		Name:       EventMatchRejected,
		Recipients: []string{m.ProposerID},
		Payload:    map[string]interface{}{"match": NewMatchView(m)},
	})

	logging.L().Info("match rejected",
		zap.String("match_id", m.ID),
		zap.String("responder_id", responderID))
	return m, nil
}

// ListPendingFor returns the matches userID still has to confirm or reject.
func (s *MatchService) ListPendingFor(ctx context.Context, userID string) ([]models.Match, error) {
	return s.store.PendingMatchesFor(ctx, userID)
}

// ByID is the pull-style fetch for clients that missed a push.
func (s *MatchService) ByID(ctx context.Context, matchID string) (*models.Match, error) {
	return s.store.MatchByID(ctx, matchID)
}

// History returns resolved matches the user played in, newest first.
func (s *MatchService) History(ctx context.Context, userID string, page, limit int) ([]models.Match, error) {
	return s.store.ResolvedMatchesFor(ctx, userID, page, limit)
}

// RemindPending re-pushes a reminder for matches that have sat pending longer
// than olderThan. Pure side channel: no state changes, delivery best effort.
func (s *MatchService) RemindPending(ctx context.Context, olderThan time.Duration) error {
	matches, err := s.store.PendingMatchesOlderThan(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return err
	}
	for i := range matches {
		m := &matches[i]
		s.events.Emit(Event{
			Name:       EventMatchReminder,
			Recipients: m.ResponderIDs(),
			Payload:    map[string]interface{}{"match": NewMatchView(m)},
		})
	}
	if len(matches) > 0 {
		logging.L().Info("pending match reminders sent", zap.Int("matches", len(matches)))
	}
	return nil
}

func validatePropose(proposerID string, in ProposeMatchInput) error {
	switch in.Discipline {
	case models.DisciplineSingles, models.DisciplineDoubles, models.DisciplineMixed:
	default:
		return validationf("unknown discipline %q", in.Discipline)
	}

	want := 2
	if in.Discipline == models.DisciplineSingles {
		want = 1
	}
	if len(in.SideA) != want || len(in.SideB) != want {
		return validationf("%s requires exactly %d player(s) per side", in.Discipline, want)
	}

	seen := make(map[string]bool, len(in.SideA)+len(in.SideB))
	for _, id := range append(append([]string{}, in.SideA...), in.SideB...) {
		if id == "" {
			return validationf("participant id must not be empty")
		}
		if seen[id] {
			return validationf("player %s listed more than once", id)
		}
		seen[id] = true
	}
	if !seen[proposerID] {
		return validationf("proposer must be one of the participants")
	}

	if in.WinningSide != models.SideA && in.WinningSide != models.SideB {
		return validationf("winning side must be %q or %q", models.SideA, models.SideB)
	}

	if len(in.Scores) == 0 {
		return validationf("at least one set score is required")
	}
	if len(in.Scores) > maxSets {
		return validationf("at most %d set scores are allowed", maxSets)
	}
	for i, set := range in.Scores {
		if set[0] < 0 || set[0] > maxSetPoints || set[1] < 0 || set[1] > maxSetPoints {
			return validationf("set %d: points must be between 0 and %d", i+1, maxSetPoints)
		}
		if set[0] == set[1] {
			return validationf("set %d: a set cannot end tied", i+1)
		}
	}
	return nil
}

// recipientsExcluding is everyone with a stake in the match except the actor:
// the proposer plus, for doubles, the participants who did not respond.
func recipientsExcluding(m *models.Match, actorID string) []string {
	seen := map[string]bool{actorID: true}
	var out []string
	for _, id := range append([]string{m.ProposerID}, m.ParticipantIDs()...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
