package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/missionflow/internal/models"
	"github.com/iudanet/missionflow/pkg/api"
)

// DefaultMeetingDuration длительность встречи, если она не указана
const DefaultMeetingDuration = 60

// MeetingInput параметры новой встречи
type MeetingInput struct {
	StartTime       time.Time
	Title           string
	Description     string
	MeetingLink     string // MeetingLink ссылка на комнату, создается автоматически если пуста
	CreatedBy       string
	ParticipantIDs  []string
	DurationMinutes int
}

// Step шаг создания встречи
type Step string

const (
	StepMeeting       Step = "meeting"
	StepParticipants  Step = "participants"
	StepNotifications Step = "notifications"
)

// CreateMeetingResult итог создания встречи. Шаги не откатываются:
// при ошибке Failed указывает шаг, а уже созданные строки остаются.
type CreateMeetingResult struct {
	Meeting              *models.Meeting
	Failed               Step
	ParticipantsInserted int
	NotificationsSent    int
}

// ParticipantID детерминированный id строки участия пользователя во встрече
func ParticipantID(meetingID, userID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("missionflow:meeting:"+meetingID+":user:"+userID)).String()
}

// CreateMeeting создает встречу, строки участников и уведомления
func (e *Engine) CreateMeeting(ctx context.Context, in MeetingInput) (*CreateMeetingResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if in.StartTime.IsZero() {
		return nil, ErrStartRequired
	}

	id := uuid.New().String()
	link := in.MeetingLink
	if link == "" {
		link = e.linkBase + uuid.New().String()
	}
	duration := in.DurationMinutes
	if duration <= 0 {
		duration = DefaultMeetingDuration
	}

	row := map[string]any{
		models.IdentityField: id,
		"title":              title,
		"description":        in.Description,
		"start_time":         in.StartTime.UTC().Format(time.RFC3339),
		"duration_minutes":   duration,
		"meeting_link":       link,
		"created_by":         in.CreatedBy,
	}

	result := &CreateMeetingResult{}
	created, err := e.client.Insert(ctx, models.CollectionMeetings, row)
	if err != nil {
		result.Failed = StepMeeting
		return result, fmt.Errorf("failed to create meeting: %w", err)
	}
	// Встреча уже существует на сервере, кеш устарел при любом исходе
	defer e.Invalidate()

	meeting := models.MeetingFromRecord(created)
	if meeting.ID == "" {
		meeting = models.MeetingFromRecord(row)
	}
	result.Meeting = &meeting

	participants := dedup(in.ParticipantIDs)
	for _, userID := range participants {
		p := models.MeetingParticipant{
			ID:        ParticipantID(meeting.ID, userID),
			MeetingID: meeting.ID,
			UserID:    userID,
			Status:    models.ParticipantInvited,
		}
		if _, err := e.client.Insert(ctx, models.CollectionMeetingParticipants, participantRow(p)); err != nil {
			result.Failed = StepParticipants
			return result, fmt.Errorf("failed to add participant %s: %w", userID, err)
		}
		meeting.Participants = append(meeting.Participants, p)
		result.ParticipantsInserted++
	}

	for _, userID := range participants {
		if userID == in.CreatedBy {
			continue
		}
		notification := map[string]any{
			models.IdentityField: uuid.New().String(),
			"user_id":            userID,
			"title":              "New meeting invitation",
			"message":            fmt.Sprintf("You are invited to %q on %s", title, in.StartTime.UTC().Format("2006-01-02 15:04 MST")),
			"type":               "meeting",
			"link":               "/meetings/" + meeting.ID,
			"read":               false,
			"created_at":         e.clock.Now().UTC().Format(time.RFC3339),
		}
		if _, err := e.client.Insert(ctx, models.CollectionNotifications, notification); err != nil {
			result.Failed = StepNotifications
			return result, fmt.Errorf("failed to notify participant %s: %w", userID, err)
		}
		result.NotificationsSent++
	}

	e.logger.Info("Meeting created",
		"meeting_id", meeting.ID,
		"participants", result.ParticipantsInserted,
		"notifications", result.NotificationsSent)

	return result, nil
}

// UpdateMeeting применяет частичное обновление полей встречи
func (e *Engine) UpdateMeeting(ctx context.Context, id string, patch map[string]any) (*models.Meeting, error) {
	if id == "" {
		return nil, ErrMeetingIDRequired
	}
	if v, ok := patch["title"]; ok {
		if s, _ := v.(string); strings.TrimSpace(s) == "" {
			return nil, ErrTitleRequired
		}
	}
	if v, ok := patch["start_time"]; ok {
		if s, _ := v.(string); strings.TrimSpace(s) == "" {
			return nil, ErrStartRequired
		}
	}

	updated, err := e.client.Update(ctx, models.CollectionMeetings, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update meeting %s: %w", id, err)
	}
	e.Invalidate()

	meeting := models.MeetingFromRecord(updated)
	return &meeting, nil
}

// RespondToMeeting сохраняет ответ пользователя на приглашение
func (e *Engine) RespondToMeeting(ctx context.Context, meetingID, actorID string, status models.ParticipantStatus) error {
	if meetingID == "" {
		return ErrMeetingIDRequired
	}
	if actorID == "" {
		return ErrActorRequired
	}
	if status != models.ParticipantAccepted && status != models.ParticipantDeclined {
		return fmt.Errorf("%w: %q", ErrInvalidResponse, status)
	}

	p := models.MeetingParticipant{
		ID:        ParticipantID(meetingID, actorID),
		MeetingID: meetingID,
		UserID:    actorID,
		Status:    status,
	}
	if _, err := e.client.Upsert(ctx, models.CollectionMeetingParticipants, participantRow(p)); err != nil {
		return fmt.Errorf("failed to respond to meeting %s: %w", meetingID, err)
	}
	e.Invalidate()
	return nil
}

// DeleteMeeting удаляет участников и саму встречу.
// Участники удаляются без гарантий: ошибки только логируются.
func (e *Engine) DeleteMeeting(ctx context.Context, id string) error {
	if id == "" {
		return ErrMeetingIDRequired
	}

	rows, err := e.client.Select(ctx, models.CollectionMeetingParticipants, api.Query{}.Eq("meeting_id", id))
	if err != nil {
		e.logger.Warn("Failed to list meeting participants", "meeting_id", id, "error", err)
	}
	for _, row := range rows {
		if err := e.client.Delete(ctx, models.CollectionMeetingParticipants, row.ID()); err != nil {
			e.logger.Warn("Failed to delete meeting participant", "meeting_id", id, "participant_id", row.ID(), "error", err)
		}
	}

	if err := e.client.Delete(ctx, models.CollectionMeetings, id); err != nil {
		return fmt.Errorf("failed to delete meeting %s: %w", id, err)
	}
	e.Invalidate()
	return nil
}

func participantRow(p models.MeetingParticipant) map[string]any {
	return map[string]any{
		models.IdentityField: p.ID,
		"meeting_id":         p.MeetingID,
		"user_id":            p.UserID,
		"status":             string(p.Status),
	}
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
