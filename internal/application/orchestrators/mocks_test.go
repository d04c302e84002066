package orchestrators

import (
	"context"
	"errors"
	"sort"

	"resultroad/internal/adapters/email"
	"resultroad/internal/domain/account"
	"resultroad/internal/domain/assignment"
	"resultroad/internal/domain/audit"
	"resultroad/internal/domain/groupsession"
	"resultroad/internal/domain/profile"
	"resultroad/internal/domain/program"
	"resultroad/internal/domain/registration"
	"resultroad/internal/domain/submission"
)

var errNotFound = errors.New("not found")

// mockAccountStore is a map-backed account store shared by the
// orchestrator tests. It covers the login, sign-up, change-password
// and reset-flow store interfaces.
type mockAccountStore struct {
	accounts map[string]account.Account
	tokens   map[string]account.ResetToken
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{
		accounts: make(map[string]account.Account),
		tokens:   make(map[string]account.ResetToken),
	}
}

// GetByID implements the account store interface for testing.
// PRE: id is non-empty
// POST: Returns the account or an error if not found
func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return account.Account{}, errNotFound
}

// GetByEmail implements the account store interface for testing.
// PRE: email is non-empty
// POST: Returns the account or an error if not found
func (m *mockAccountStore) GetByEmail(_ context.Context, e string) (account.Account, error) {
	for _, a := range m.accounts {
		if a.Email == e {
			return a, nil
		}
	}
	return account.Account{}, errNotFound
}

// Save implements the account store interface for testing.
// PRE: account has been validated
// POST: Account is persisted
func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	if m.accounts == nil {
		m.accounts = make(map[string]account.Account)
	}
	m.accounts[a.ID] = a
	return nil
}

// SaveResetToken implements the reset-flow store interface for testing.
// PRE: token has a non-empty Token value
// POST: Token is persisted
func (m *mockAccountStore) SaveResetToken(_ context.Context, t account.ResetToken) error {
	if m.tokens == nil {
		m.tokens = make(map[string]account.ResetToken)
	}
	m.tokens[t.Token] = t
	return nil
}

// GetResetTokenByToken implements the reset-flow store interface for testing.
// PRE: token is non-empty
// POST: Returns the token or an error if not found
func (m *mockAccountStore) GetResetTokenByToken(_ context.Context, token string) (account.ResetToken, error) {
	if t, ok := m.tokens[token]; ok {
		return t, nil
	}
	return account.ResetToken{}, errNotFound
}

// InvalidateTokensForAccount implements the reset-flow store interface for testing.
// PRE: accountID is non-empty
// POST: Every token for the account is marked used
func (m *mockAccountStore) InvalidateTokensForAccount(_ context.Context, accountID string) error {
	for k, t := range m.tokens {
		if t.AccountID == accountID {
			t.Used = true
			m.tokens[k] = t
		}
	}
	return nil
}

// mockProfileStore is a map-backed profile store.
type mockProfileStore struct {
	profiles map[string]profile.Profile
}

func newMockProfileStore() *mockProfileStore {
	return &mockProfileStore{profiles: make(map[string]profile.Profile)}
}

// GetByID implements the profile store interface for testing.
// PRE: id is non-empty
// POST: Returns the profile or an error if not found
func (m *mockProfileStore) GetByID(_ context.Context, id string) (profile.Profile, error) {
	if p, ok := m.profiles[id]; ok {
		return p, nil
	}
	return profile.Profile{}, errNotFound
}

// Save implements the profile store interface for testing.
// PRE: profile has been validated
// POST: Profile is persisted
func (m *mockProfileStore) Save(_ context.Context, p profile.Profile) error {
	if m.profiles == nil {
		m.profiles = make(map[string]profile.Profile)
	}
	m.profiles[p.ID] = p
	return nil
}

// mockSubmissionStore is a map-backed submission store.
type mockSubmissionStore struct {
	submissions map[string]submission.Submission
}

func newMockSubmissionStore() *mockSubmissionStore {
	return &mockSubmissionStore{submissions: make(map[string]submission.Submission)}
}

// Save implements the submission store interface for testing.
// PRE: submission has been validated
// POST: Submission is persisted
func (m *mockSubmissionStore) Save(_ context.Context, s submission.Submission) error {
	if m.submissions == nil {
		m.submissions = make(map[string]submission.Submission)
	}
	m.submissions[s.ID] = s
	return nil
}

// ListByKind implements the submission store interface for testing.
// PRE: kind is a valid kind
// POST: Returns up to limit submissions of the kind, newest first
func (m *mockSubmissionStore) ListByKind(_ context.Context, kind string, limit int) ([]submission.Submission, error) {
	var list []submission.Submission
	for _, s := range m.submissions {
		if s.Kind == kind {
			list = append(list, s)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// mockGroupSessionStore is a map-backed group session store.
type mockGroupSessionStore struct {
	sessions map[string]groupsession.Session
}

// GetByID implements the session store interface for testing.
// PRE: id is non-empty
// POST: Returns the session or an error if not found
func (m *mockGroupSessionStore) GetByID(_ context.Context, id string) (groupsession.Session, error) {
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return groupsession.Session{}, errNotFound
}

// mockRegistrationStore is a map-backed registration store.
type mockRegistrationStore struct {
	registrations map[string]registration.Registration
}

func newMockRegistrationStore() *mockRegistrationStore {
	return &mockRegistrationStore{registrations: make(map[string]registration.Registration)}
}

// GetBySessionAndParticipant implements the registration store interface for testing.
// PRE: sessionID and participantID are non-empty
// POST: Returns the registration or an error if not found
func (m *mockRegistrationStore) GetBySessionAndParticipant(_ context.Context, sessionID, participantID string) (registration.Registration, error) {
	for _, r := range m.registrations {
		if r.SessionID == sessionID && r.ParticipantID == participantID {
			return r, nil
		}
	}
	return registration.Registration{}, errNotFound
}

// Save implements the registration store interface for testing.
// PRE: registration has been validated
// POST: Registration is persisted
func (m *mockRegistrationStore) Save(_ context.Context, r registration.Registration) error {
	if m.registrations == nil {
		m.registrations = make(map[string]registration.Registration)
	}
	m.registrations[r.ID] = r
	return nil
}

// Delete implements the registration store interface for testing.
// PRE: id is non-empty
// POST: Registration with given id is removed
func (m *mockRegistrationStore) Delete(_ context.Context, id string) error {
	delete(m.registrations, id)
	return nil
}

// CountBySession implements the registration store interface for testing.
// PRE: sessionID is non-empty
// POST: Returns the number of registrations for the session
func (m *mockRegistrationStore) CountBySession(_ context.Context, sessionID string) (int, error) {
	n := 0
	for _, r := range m.registrations {
		if r.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

// mockAssignmentStore is a map-backed assignment store.
type mockAssignmentStore struct {
	assignments map[string]assignment.Assignment
}

func newMockAssignmentStore() *mockAssignmentStore {
	return &mockAssignmentStore{assignments: make(map[string]assignment.Assignment)}
}

// GetByID implements the assignment store interface for testing.
// PRE: id is non-empty
// POST: Returns the assignment or an error if not found
func (m *mockAssignmentStore) GetByID(_ context.Context, id string) (assignment.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return assignment.Assignment{}, errNotFound
}

// Save implements the assignment store interface for testing.
// PRE: assignment has been validated
// POST: Assignment is persisted
func (m *mockAssignmentStore) Save(_ context.Context, a assignment.Assignment) error {
	if m.assignments == nil {
		m.assignments = make(map[string]assignment.Assignment)
	}
	m.assignments[a.ID] = a
	return nil
}

// ListByParticipant implements the assignment store interface for testing.
// PRE: participantID is non-empty
// POST: Returns assignments for the participant
func (m *mockAssignmentStore) ListByParticipant(_ context.Context, participantID string) ([]assignment.Assignment, error) {
	var list []assignment.Assignment
	for _, a := range m.assignments {
		if a.ParticipantID == participantID {
			list = append(list, a)
		}
	}
	return list, nil
}

// mockProgramStore is a map-backed program store.
type mockProgramStore struct {
	programs map[string]program.Program
}

// GetByID implements the program store interface for testing.
// PRE: id is non-empty
// POST: Returns the program or an error if not found
func (m *mockProgramStore) GetByID(_ context.Context, id string) (program.Program, error) {
	if p, ok := m.programs[id]; ok {
		return p, nil
	}
	return program.Program{}, errNotFound
}

// mockAuditStore records audit events in order.
type mockAuditStore struct {
	events []audit.Event
}

// Save implements the audit store interface for testing.
// PRE: event has actor and action set
// POST: Event is appended
func (m *mockAuditStore) Save(_ context.Context, e audit.Event) error {
	m.events = append(m.events, e)
	return nil
}

// mockEmailSender records outgoing email instead of sending it.
type mockEmailSender struct {
	sent []email.SendRequest
	err  error
}

// Send implements email.Sender for testing.
// PRE: req has a recipient
// POST: Request is recorded; returns the configured error
func (m *mockEmailSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "email-1"}, nil
}

// mockSessionRefresher records UpdateForAccount calls.
type mockSessionRefresher struct {
	calls []string
}

// UpdateForAccount implements SessionRefresher for testing.
// PRE: accountID is non-empty
// POST: Call is recorded
func (m *mockSessionRefresher) UpdateForAccount(accountID, displayName, role string) {
	m.calls = append(m.calls, accountID+":"+displayName+":"+role)
}
