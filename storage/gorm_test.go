package storage

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"badminton-community-system/models"
	"badminton-community-system/services"
)

// testStore connects to TEST_DATABASE_URL or skips. These tests need a real
// Postgres because they exercise the conditional update and row locking that
// the in-memory fakes only approximate.
func testStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := db.AutoMigrate(
		&models.PlayerProfile{},
		&models.Match{},
		&models.MatchParticipant{},
		&models.RatingChange{},
		&models.FriendRequest{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGormStore(db)
}

func seedMatch(t *testing.T, store *GormStore) *models.Match {
	t.Helper()
	ctx := context.Background()

	m := &models.Match{
		ID:          uuid.NewString(),
		Discipline:  models.DisciplineSingles,
		Status:      models.MatchStatusPending,
		ProposerID:  uuid.NewString(),
		WinningSide: models.SideA,
		ScoresJSON:  `[[21,15]]`,
	}
	responder := uuid.NewString()
	m.Participants = []models.MatchParticipant{
		{ID: uuid.NewString(), MatchID: m.ID, UserID: m.ProposerID, Side: models.SideA},
		{ID: uuid.NewString(), MatchID: m.ID, UserID: responder, Side: models.SideB, Responder: true},
	}

	if err := store.CreateMatch(ctx, m); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	t.Cleanup(func() {
		store.DB.Unscoped().Where("match_id = ?", m.ID).Delete(&models.MatchParticipant{})
		store.DB.Unscoped().Where("id = ?", m.ID).Delete(&models.Match{})
	})
	return m
}

func TestMarkMatchResolvedIsConditional(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	m := seedMatch(t, store)
	responder := m.Participants[1].UserID

	if err := store.MarkMatchResolved(ctx, m.ID, models.MatchStatusConfirmed, responder, time.Now()); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	err := store.MarkMatchResolved(ctx, m.ID, models.MatchStatusRejected, responder, time.Now())
	if !errors.Is(err, services.ErrInvalidState) {
		t.Errorf("second resolve err = %v, want ErrInvalidState", err)
	}

	got, err := store.MatchByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("MatchByID: %v", err)
	}
	if got.Status != models.MatchStatusConfirmed {
		t.Errorf("status = %q, want confirmed to stick", got.Status)
	}

	err = store.MarkMatchResolved(ctx, uuid.NewString(), models.MatchStatusConfirmed, responder, time.Now())
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("unknown match err = %v, want ErrNotFound", err)
	}
}

func TestPendingMatchesForFiltersByResponder(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	m := seedMatch(t, store)
	responder := m.Participants[1].UserID

	pending, err := store.PendingMatchesFor(ctx, responder)
	if err != nil {
		t.Fatalf("PendingMatchesFor: %v", err)
	}
	found := false
	for _, p := range pending {
		if p.ID == m.ID {
			found = true
			if len(p.Participants) != 2 {
				t.Errorf("participants not preloaded: %d", len(p.Participants))
			}
		}
	}
	if !found {
		t.Error("responder does not see the pending match")
	}

	proposerPending, err := store.PendingMatchesFor(ctx, m.ProposerID)
	if err != nil {
		t.Fatalf("PendingMatchesFor(proposer): %v", err)
	}
	for _, p := range proposerPending {
		if p.ID == m.ID {
			t.Error("proposer sees their own match as awaiting response")
		}
	}
}

func TestProfileForUpdateNotFound(t *testing.T) {
	store := testStore(t)

	err := store.InTx(context.Background(), func(tx services.MatchStore) error {
		_, err := tx.ProfileForUpdate(context.Background(), uuid.NewString())
		return err
	})
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
