package orchestrators

import (
	"context"
	"testing"

	"resultroad/internal/domain/acknowledgement"
	"resultroad/internal/domain/profile"
)

// mockAckStore records acknowledgements keyed by (account, role),
// keeping the first write like the real upsert does.
type mockAckStore struct {
	acks map[string]acknowledgement.Acknowledgement
}

// Save implements the acknowledgement store interface for testing.
// PRE: ack has been validated
// POST: First write for (account, role) wins; later writes are dropped
func (m *mockAckStore) Save(_ context.Context, a acknowledgement.Acknowledgement) error {
	if m.acks == nil {
		m.acks = make(map[string]acknowledgement.Acknowledgement)
	}
	key := a.AccountID + "/" + a.Role
	if _, ok := m.acks[key]; ok {
		return nil
	}
	m.acks[key] = a
	return nil
}

// TestExecuteAcknowledgeOrientation_Success tests recording a watch.
func TestExecuteAcknowledgeOrientation_Success(t *testing.T) {
	store := &mockAckStore{}

	err := ExecuteAcknowledgeOrientation(context.Background(), AcknowledgeOrientationInput{
		AccountID: "acct-1",
		Role:      profile.RoleParticipant,
	}, AcknowledgeOrientationDeps{AcknowledgementStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ack, ok := store.acks["acct-1/participant"]
	if !ok {
		t.Fatal("expected acknowledgement to be persisted")
	}
	if ack.WatchedAt.IsZero() {
		t.Error("expected WatchedAt to be stamped")
	}
}

// TestExecuteAcknowledgeOrientation_WriteOnce tests that a repeat call
// keeps the original WatchedAt.
func TestExecuteAcknowledgeOrientation_WriteOnce(t *testing.T) {
	store := &mockAckStore{}
	input := AcknowledgeOrientationInput{AccountID: "acct-1", Role: profile.RoleParticipant}
	deps := AcknowledgeOrientationDeps{AcknowledgementStore: store}

	if err := ExecuteAcknowledgeOrientation(context.Background(), input, deps); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	first := store.acks["acct-1/participant"].WatchedAt

	if err := ExecuteAcknowledgeOrientation(context.Background(), input, deps); err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if !store.acks["acct-1/participant"].WatchedAt.Equal(first) {
		t.Error("repeat acknowledgement must not move WatchedAt")
	}
}

// TestExecuteAcknowledgeOrientation_Unauthenticated tests the session guard.
func TestExecuteAcknowledgeOrientation_Unauthenticated(t *testing.T) {
	err := ExecuteAcknowledgeOrientation(context.Background(), AcknowledgeOrientationInput{
		Role: profile.RoleParticipant,
	}, AcknowledgeOrientationDeps{AcknowledgementStore: &mockAckStore{}})
	if err != ErrNotAuthenticated {
		t.Errorf("error = %v, want ErrNotAuthenticated", err)
	}
}
