package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"resultroad/internal/domain/groupsession"
	"resultroad/internal/domain/registration"

	"github.com/google/uuid"
)

// SessionStoreForRegister defines the session store interface needed here.
type SessionStoreForRegister interface {
	GetByID(ctx context.Context, id string) (groupsession.Session, error)
}

// RegistrationStoreForRegister defines the registration store interface needed here.
type RegistrationStoreForRegister interface {
	GetBySessionAndParticipant(ctx context.Context, sessionID, participantID string) (registration.Registration, error)
	Save(ctx context.Context, r registration.Registration) error
	Delete(ctx context.Context, id string) error
	CountBySession(ctx context.Context, sessionID string) (int, error)
}

// RegisterSessionInput carries input for the register orchestrator.
type RegisterSessionInput struct {
	SessionID     string
	ParticipantID string
}

// RegisterSessionDeps holds dependencies for RegisterSession.
type RegisterSessionDeps struct {
	SessionStore      SessionStoreForRegister
	RegistrationStore RegistrationStoreForRegister
}

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionFull        = errors.New("this session is already full")
	ErrSessionStarted     = errors.New("this session has already started")
	ErrAlreadyRegistered  = errors.New("you are already registered for this session")
	ErrRegistrationAbsent = errors.New("you are not registered for this session")
)

// ExecuteRegisterForSession registers a participant for an upcoming
// group session, enforcing capacity.
// PRE: ParticipantID belongs to an authenticated participant session
// POST: Registration exists for (session, participant)
// INVARIANT: Registrations never exceed session capacity
func ExecuteRegisterForSession(ctx context.Context, input RegisterSessionInput, deps RegisterSessionDeps) (string, error) {
	if input.ParticipantID == "" {
		return "", ErrNotAuthenticated
	}

	sess, err := deps.SessionStore.GetByID(ctx, input.SessionID)
	if err != nil {
		return "", ErrSessionNotFound
	}
	if !sess.IsUpcoming(time.Now()) {
		return "", ErrSessionStarted
	}

	if _, err := deps.RegistrationStore.GetBySessionAndParticipant(ctx, input.SessionID, input.ParticipantID); err == nil {
		return "", ErrAlreadyRegistered
	}

	count, err := deps.RegistrationStore.CountBySession(ctx, input.SessionID)
	if err != nil {
		return "", err
	}
	if count >= sess.Capacity {
		return "", ErrSessionFull
	}

	reg := registration.Registration{
		ID:            uuid.New().String(),
		SessionID:     input.SessionID,
		ParticipantID: input.ParticipantID,
		RegisteredAt:  time.Now(),
	}
	if err := reg.Validate(); err != nil {
		return "", err
	}
	if err := deps.RegistrationStore.Save(ctx, reg); err != nil {
		return "", err
	}

	slog.Info("session_event", "event", "registered", "session_id", input.SessionID, "participant_id", input.ParticipantID)
	return reg.ID, nil
}

// ExecuteCancelRegistration removes a participant's registration for an
// upcoming session.
// PRE: A registration exists for (SessionID, ParticipantID)
// POST: Registration deleted; a spot opens up
func ExecuteCancelRegistration(ctx context.Context, input RegisterSessionInput, deps RegisterSessionDeps) error {
	if input.ParticipantID == "" {
		return ErrNotAuthenticated
	}

	sess, err := deps.SessionStore.GetByID(ctx, input.SessionID)
	if err != nil {
		return ErrSessionNotFound
	}
	if !sess.IsUpcoming(time.Now()) {
		return ErrSessionStarted
	}

	reg, err := deps.RegistrationStore.GetBySessionAndParticipant(ctx, input.SessionID, input.ParticipantID)
	if err != nil {
		return ErrRegistrationAbsent
	}
	if err := deps.RegistrationStore.Delete(ctx, reg.ID); err != nil {
		return err
	}

	slog.Info("session_event", "event", "registration_cancelled", "session_id", input.SessionID, "participant_id", input.ParticipantID)
	return nil
}
