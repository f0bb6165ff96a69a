package notification

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"jobmarket/internal/domain/contractor"
	"jobmarket/internal/domain/job"
	"jobmarket/internal/domain/match"
	"jobmarket/internal/domain/notification/push"
	"jobmarket/internal/pkg/timeutil"
)

// ContractorSource is the slice of the contractor repository the dispatcher
// needs: one snapshot of all profiles per dispatch.
type ContractorSource interface {
	ListAll(ctx context.Context) ([]contractor.Profile, error)
}

// RoomLookup resolves a chat room to its two participants. Implemented by
// the chat repository; declared here to keep the packages decoupled.
type RoomLookup interface {
	Participants(ctx context.Context, roomID string) (contractorID, clientID string, err error)
}

// ChatMessageEvent is the webhook payload for a new chat message.
type ChatMessageEvent struct {
	MessageID    string `json:"id"`
	RoomID       string `json:"room_id"`
	SenderUserID string `json:"sender_user_id"`
	SenderName   string `json:"sender_name,omitempty"`
	Content      string `json:"content"`
}

// SendError records one failed token send.
type SendError struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// DispatchResult aggregates one dispatch pass. Partial failures live in
// Errors; the pass itself still succeeds.
type DispatchResult struct {
	Matched           int         `json:"matched"`
	Sent              int         `json:"sent"`
	SkippedDisabled   int         `json:"skipped_disabled"`
	SkippedQuietHours int         `json:"skipped_quiet_hours"`
	Errors            []SendError `json:"errors"`
}

// Dispatcher orchestrates job and chat push notifications. It is stateless:
// every dispatch is one pass over a live snapshot of the tables.
type Dispatcher struct {
	contractors ContractorSource
	repo        Repository
	rooms       RoomLookup
	sender      push.Sender
	now         func() time.Time
}

func NewDispatcher(contractors ContractorSource, repo Repository, rooms RoomLookup, sender push.Sender) *Dispatcher {
	return &Dispatcher{
		contractors: contractors,
		repo:        repo,
		rooms:       rooms,
		sender:      sender,
		now:         time.Now,
	}
}

// Dispatch matches the job against all contractor profiles and pushes to
// every matched user's devices, honoring preferences and quiet hours.
// Provider failures are counted per token and never abort the batch.
func (d *Dispatcher) Dispatch(ctx context.Context, j *job.Posting) (*DispatchResult, error) {
	if j == nil || j.ID == "" {
		return nil, ErrInvalidJob
	}
	if d.sender == nil {
		return nil, ErrMissingCredentials
	}

	profiles, err := d.contractors.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var matchedUserIDs []string
	for i := range profiles {
		if match.Matches(j, &profiles[i]) {
			matchedUserIDs = append(matchedUserIDs, profiles[i].UserID)
		}
	}

	result := &DispatchResult{Matched: len(matchedUserIDs)}
	if len(matchedUserIDs) == 0 {
		log.Printf("dispatch_no_matches job_id=%s location=%s category=%s", j.ID, j.LocationText, j.CategoryName)
		return result, nil
	}

	prefs, err := d.repo.GetPreferences(ctx, matchedUserIDs)
	if err != nil {
		return nil, err
	}
	prefByUser := make(map[string]*Preference, len(prefs))
	for i := range prefs {
		prefByUser[prefs[i].UserID] = &prefs[i]
	}

	tokens, err := d.repo.ListTokensByUsers(ctx, matchedUserIDs)
	if err != nil {
		return nil, err
	}

	payload := buildJobPayload(j)
	nowMinutes := d.currentMinutes()

	var targets []DeviceToken
	for _, tok := range tokens {
		pref, ok := prefByUser[tok.UserID]
		// A user without a stored preference row has never opted in to
		// job alerts; skip. Chat alerts default the other way.
		if !ok || !pref.EnableNewJobNotifications {
			result.SkippedDisabled++
			continue
		}
		if inQuietHours(pref, nowMinutes) {
			result.SkippedQuietHours++
			continue
		}
		targets = append(targets, tok)
	}

	d.fanOut(ctx, targets, payload, result)
	log.Printf("dispatch_done job_id=%s matched=%d sent=%d skipped_disabled=%d skipped_quiet=%d errors=%d",
		j.ID, result.Matched, result.Sent, result.SkippedDisabled, result.SkippedQuietHours, len(result.Errors))
	return result, nil
}

// DispatchChatMessage notifies the other participant of a room message.
// Unlike job alerts, chat notifications default to enabled when the
// recipient has no stored preference row.
func (d *Dispatcher) DispatchChatMessage(ctx context.Context, ev *ChatMessageEvent) (*DispatchResult, error) {
	if ev == nil || ev.MessageID == "" || ev.RoomID == "" {
		return nil, ErrInvalidMessage
	}
	if d.sender == nil {
		return nil, ErrMissingCredentials
	}

	contractorID, clientID, err := d.rooms.Participants(ctx, ev.RoomID)
	if err != nil {
		return nil, err
	}

	recipientID := contractorID
	if ev.SenderUserID == contractorID {
		recipientID = clientID
	}

	result := &DispatchResult{Matched: 1}

	pref, err := d.repo.GetPreference(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if pref != nil && !pref.EnableChatNotifications {
		result.SkippedDisabled++
		return result, nil
	}
	if pref != nil && inQuietHours(pref, d.currentMinutes()) {
		result.SkippedQuietHours++
		return result, nil
	}

	tokens, err := d.repo.ListTokensByUser(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	d.fanOut(ctx, tokens, buildChatPayload(ev), result)
	return result, nil
}

// SendTest pushes a canned payload to all of one user's devices, bypassing
// preferences and quiet hours. Operator tooling only.
func (d *Dispatcher) SendTest(ctx context.Context, userID string) (*DispatchResult, error) {
	if d.sender == nil {
		return nil, ErrMissingCredentials
	}
	tokens, err := d.repo.ListTokensByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &DispatchResult{Matched: 1}
	d.fanOut(ctx, tokens, &push.Payload{
		Title: "Test notification",
		Body:  "Push delivery is working for this device.",
		Sound: "default",
		Data:  map[string]string{"test": "true"},
	}, result)
	return result, nil
}

// fanOut sends to every token in parallel. Each send is fault-isolated;
// one provider failure never cancels sibling sends.
func (d *Dispatcher) fanOut(ctx context.Context, tokens []DeviceToken, payload *push.Payload, result *DispatchResult) {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, tok := range tokens {
		wg.Add(1)
		go func(tok DeviceToken) {
			defer wg.Done()
			res, err := d.sender.Send(ctx, tok.Token, payload)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				log.Printf("push_send_error token=%s err=%v", tok.Token, err)
				result.Errors = append(result.Errors, SendError{Token: tok.Token, Message: err.Error()})
			case !res.OK:
				log.Printf("push_send_rejected token=%s status=%d body=%s", tok.Token, res.StatusCode, res.Body)
				result.Errors = append(result.Errors, SendError{
					Token:   tok.Token,
					Message: fmt.Sprintf("provider returned status %d", res.StatusCode),
				})
			default:
				result.Sent++
			}
		}(tok)
	}
	wg.Wait()
}

func (d *Dispatcher) currentMinutes() int {
	utc := d.now().UTC()
	return timeutil.MinutesOfDay(utc.Hour(), utc.Minute())
}

// inQuietHours evaluates the user's quiet window at the given minute of day.
// Missing or malformed bounds mean no quiet hours.
func inQuietHours(p *Preference, nowMinutes int) bool {
	if p.QuietHoursStart == "" || p.QuietHoursEnd == "" {
		return false
	}
	start, err := timeutil.ParseClock(p.QuietHoursStart)
	if err != nil {
		return false
	}
	end, err := timeutil.ParseClock(p.QuietHoursEnd)
	if err != nil {
		return false
	}
	return timeutil.WithinWindow(nowMinutes, start, end)
}
