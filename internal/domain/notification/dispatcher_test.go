package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"jobmarket/internal/domain/contractor"
	"jobmarket/internal/domain/job"
	"jobmarket/internal/domain/notification/push"
)

// Mocks

type MockContractorSource struct {
	mock.Mock
}

func (m *MockContractorSource) ListAll(ctx context.Context) ([]contractor.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contractor.Profile), args.Error(1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetPreference(ctx context.Context, userID string) (*Preference, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Preference), args.Error(1)
}

func (m *MockRepository) GetPreferences(ctx context.Context, userIDs []string) ([]Preference, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Preference), args.Error(1)
}

func (m *MockRepository) UpsertPreference(ctx context.Context, p *Preference) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) RegisterToken(ctx context.Context, userID, token, platform string) (*DeviceToken, error) {
	args := m.Called(ctx, userID, token, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DeviceToken), args.Error(1)
}

func (m *MockRepository) ListTokensByUser(ctx context.Context, userID string) ([]DeviceToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DeviceToken), args.Error(1)
}

func (m *MockRepository) ListTokensByUsers(ctx context.Context, userIDs []string) ([]DeviceToken, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DeviceToken), args.Error(1)
}

func (m *MockRepository) DeleteToken(ctx context.Context, userID, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

type MockRoomLookup struct {
	mock.Mock
}

func (m *MockRoomLookup) Participants(ctx context.Context, roomID string) (string, string, error) {
	args := m.Called(ctx, roomID)
	return args.String(0), args.String(1), args.Error(2)
}

// fakeSender records every call and fails the tokens listed in failTokens.
type fakeSender struct {
	mu         sync.Mutex
	calls      []string
	failTokens map[string]bool
}

func (f *fakeSender) Send(_ context.Context, token string, _ *push.Payload) (*push.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, token)
	f.mu.Unlock()
	if f.failTokens[token] {
		return &push.Result{OK: false, StatusCode: 500, Body: "boom"}, nil
	}
	return &push.Result{OK: true, StatusCode: 200}, nil
}

func limaJob() *job.Posting {
	return &job.Posting{
		ID:                "job-1",
		Title:             "Fix kitchen sink",
		LocationText:      "Lima",
		CompensationRange: "S/100-200",
		CategoryName:      "Plumbing",
		RequiredSkills:    []string{"Plumbing Fixes"},
	}
}

func limaContractor(userID string) contractor.Profile {
	return contractor.Profile{
		ID:           "c-" + userID,
		UserID:       userID,
		ServiceAreas: []string{"Lima", "Callao"},
		Specialties:  []string{"Plumbing Fixes"},
	}
}

func TestDispatchRejectsInvalidJob(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, &fakeSender{})

	_, err := d.Dispatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = d.Dispatch(context.Background(), &job.Posting{})
	assert.ErrorIs(t, err, ErrInvalidJob)
}

func TestDispatchRequiresConfiguredSender(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, nil)
	_, err := d.Dispatch(context.Background(), limaJob())
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestDispatchOneFailedSendDoesNotAbortSiblings(t *testing.T) {
	contractors := new(MockContractorSource)
	repo := new(MockRepository)
	sender := &fakeSender{failTokens: map[string]bool{"tok-2": true}}

	contractors.On("ListAll", mock.Anything).Return([]contractor.Profile{limaContractor("u1")}, nil)
	repo.On("GetPreferences", mock.Anything, []string{"u1"}).Return([]Preference{
		{UserID: "u1", EnableNewJobNotifications: true},
	}, nil)
	repo.On("ListTokensByUsers", mock.Anything, []string{"u1"}).Return([]DeviceToken{
		{UserID: "u1", Token: "tok-1", Platform: "android"},
		{UserID: "u1", Token: "tok-2", Platform: "ios"},
		{UserID: "u1", Token: "tok-3", Platform: "web"},
	}, nil)

	d := NewDispatcher(contractors, repo, nil, sender)
	result, err := d.Dispatch(context.Background(), limaJob())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Sent)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "tok-2", result.Errors[0].Token)
	assert.Len(t, sender.calls, 3, "all tokens attempted despite the failure")
}

func TestDispatchSkipsNonMatchingContractors(t *testing.T) {
	contractors := new(MockContractorSource)
	repo := new(MockRepository)

	other := limaContractor("u2")
	other.Specialties = []string{"Carpentry"}
	contractors.On("ListAll", mock.Anything).Return([]contractor.Profile{other}, nil)

	d := NewDispatcher(contractors, repo, nil, &fakeSender{})
	result, err := d.Dispatch(context.Background(), limaJob())

	require.NoError(t, err)
	assert.Equal(t, 0, result.Matched)
	assert.Equal(t, 0, result.Sent)
	repo.AssertNotCalled(t, "GetPreferences", mock.Anything, mock.Anything)
}

func TestDispatchPreferenceGating(t *testing.T) {
	contractors := new(MockContractorSource)
	repo := new(MockRepository)
	sender := &fakeSender{}

	contractors.On("ListAll", mock.Anything).Return([]contractor.Profile{
		limaContractor("u1"), limaContractor("u2"), limaContractor("u3"),
	}, nil)
	// u1 opted out, u3 has no stored preference row at all.
	repo.On("GetPreferences", mock.Anything, mock.Anything).Return([]Preference{
		{UserID: "u1", EnableNewJobNotifications: false},
		{UserID: "u2", EnableNewJobNotifications: true},
	}, nil)
	repo.On("ListTokensByUsers", mock.Anything, mock.Anything).Return([]DeviceToken{
		{UserID: "u1", Token: "tok-u1"},
		{UserID: "u2", Token: "tok-u2"},
		{UserID: "u3", Token: "tok-u3"},
	}, nil)

	d := NewDispatcher(contractors, repo, nil, sender)
	result, err := d.Dispatch(context.Background(), limaJob())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 2, result.SkippedDisabled, "opted-out and missing-preference users are both skipped")
	assert.Equal(t, []string{"tok-u2"}, sender.calls)
}

func TestDispatchQuietHours(t *testing.T) {
	contractors := new(MockContractorSource)
	repo := new(MockRepository)
	sender := &fakeSender{}

	contractors.On("ListAll", mock.Anything).Return([]contractor.Profile{limaContractor("u1")}, nil)
	repo.On("GetPreferences", mock.Anything, mock.Anything).Return([]Preference{
		{
			UserID:                    "u1",
			EnableNewJobNotifications: true,
			QuietHoursStart:           "22:00:00",
			QuietHoursEnd:             "08:00:00",
		},
	}, nil)
	repo.On("ListTokensByUsers", mock.Anything, mock.Anything).Return([]DeviceToken{
		{UserID: "u1", Token: "tok-1"},
	}, nil)

	d := NewDispatcher(contractors, repo, nil, sender)

	// 23:00 UTC, inside the crossing window.
	d.now = func() time.Time { return time.Date(2026, 1, 5, 23, 0, 0, 0, time.UTC) }
	result, err := d.Dispatch(context.Background(), limaJob())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 1, result.SkippedQuietHours)

	// 09:00 UTC, outside.
	d.now = func() time.Time { return time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC) }
	result, err = d.Dispatch(context.Background(), limaJob())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, 0, result.SkippedQuietHours)
}

func TestDispatchChatMessageDefaultsToEnabled(t *testing.T) {
	repo := new(MockRepository)
	rooms := new(MockRoomLookup)
	sender := &fakeSender{}

	rooms.On("Participants", mock.Anything, "room-1").Return("contractor-u", "client-u", nil)
	// No stored preference row: chat notifications default to enabled.
	repo.On("GetPreference", mock.Anything, "client-u").Return(nil, nil)
	repo.On("ListTokensByUser", mock.Anything, "client-u").Return([]DeviceToken{
		{UserID: "client-u", Token: "tok-c"},
	}, nil)

	d := NewDispatcher(nil, repo, rooms, sender)
	result, err := d.DispatchChatMessage(context.Background(), &ChatMessageEvent{
		MessageID:    "m1",
		RoomID:       "room-1",
		SenderUserID: "contractor-u",
		SenderName:   "Maria",
		Content:      "On my way",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Equal(t, []string{"tok-c"}, sender.calls)
}

func TestDispatchChatMessageRespectsOptOut(t *testing.T) {
	repo := new(MockRepository)
	rooms := new(MockRoomLookup)
	sender := &fakeSender{}

	rooms.On("Participants", mock.Anything, "room-1").Return("contractor-u", "client-u", nil)
	repo.On("GetPreference", mock.Anything, "contractor-u").Return(&Preference{
		UserID:                  "contractor-u",
		EnableChatNotifications: false,
	}, nil)

	d := NewDispatcher(nil, repo, rooms, sender)
	result, err := d.DispatchChatMessage(context.Background(), &ChatMessageEvent{
		MessageID:    "m1",
		RoomID:       "room-1",
		SenderUserID: "client-u",
		Content:      "hello",
	})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Sent)
	assert.Equal(t, 1, result.SkippedDisabled)
	assert.Empty(t, sender.calls)
}

func TestDispatchChatMessageValidation(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, &fakeSender{})

	_, err := d.DispatchChatMessage(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidMessage)

	_, err = d.DispatchChatMessage(context.Background(), &ChatMessageEvent{MessageID: "m1"})
	assert.ErrorIs(t, err, ErrInvalidMessage)
}
