package services

import (
	"errors"
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	svc := NewSessionService("test-secret", time.Hour)

	token, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("Verify returned %q, want user-123", userID)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	svc := NewSessionService("test-secret", time.Hour)
	good, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := NewSessionService("another-secret", time.Hour)
	foreign, err := other.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue with other secret: %v", err)
	}

	expiredSvc := NewSessionService("test-secret", -time.Minute)
	expired, err := expiredSvc.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue expired: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"tampered signature", good + "x"},
		{"wrong secret", foreign},
		{"expired", expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.token); !errors.Is(err, ErrUnauthenticated) {
				t.Errorf("Verify(%s) err = %v, want ErrUnauthenticated", tt.name, err)
			}
		})
	}
}
