package models

import "time"

// Имена коллекций backend, из которых строится календарь
const (
	CollectionMeetings            = "meetings"
	CollectionMeetingParticipants = "meeting_participants"
	CollectionCommitteeMeetings   = "committee_meetings"
	CollectionTasks               = "tasks"
	CollectionMilestones          = "project_milestones"
	CollectionNotifications       = "notifications"
)

// ParticipantStatus статус участия в встрече
type ParticipantStatus string

const (
	ParticipantInvited  ParticipantStatus = "invited"
	ParticipantAccepted ParticipantStatus = "accepted"
	ParticipantDeclined ParticipantStatus = "declined"
)

// MeetingParticipant статус участника встречи
type MeetingParticipant struct {
	ID        string            `json:"id"`
	MeetingID string            `json:"meeting_id"`
	UserID    string            `json:"user_id"`
	Status    ParticipantStatus `json:"status"`
}

// Meeting запись встречи
type Meeting struct {
	StartTime       time.Time            `json:"start_time"`
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description,omitempty"`
	MeetingLink     string               `json:"meeting_link,omitempty"`
	CreatedBy       string               `json:"created_by,omitempty"`
	Participants    []MeetingParticipant `json:"participants,omitempty"`
	DurationMinutes int                  `json:"duration_minutes"`
}

// CommitteeMeeting запись заседания комитета (COPIL, CODIR...)
type CommitteeMeeting struct {
	StartTime       time.Time `json:"start_time"`
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	CommitteeType   string    `json:"committee_type"`
	Location        string    `json:"location,omitempty"`
	MissionID       string    `json:"mission_id,omitempty"`
	MeetingLink     string    `json:"meeting_link,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
}

// Task задача с дедлайном
type Task struct {
	DueDate   time.Time `json:"due_date"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	ProjectID string    `json:"project_id,omitempty"`
}

// Milestone веха проекта
type Milestone struct {
	DueDate   time.Time `json:"due_date"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ProjectID string    `json:"project_id,omitempty"`
}

// TaskStatusDone статус завершенной задачи
const TaskStatusDone = "done"

// MeetingFromRecord разбирает строку коллекции meetings
func MeetingFromRecord(r map[string]any) Meeting {
	return Meeting{
		ID:              stringField(r, IdentityField),
		Title:           stringField(r, "title"),
		Description:     stringField(r, "description"),
		StartTime:       timeField(r, "start_time"),
		DurationMinutes: intField(r, "duration_minutes"),
		MeetingLink:     stringField(r, "meeting_link"),
		CreatedBy:       stringField(r, "created_by"),
	}
}

// ParticipantFromRecord разбирает строку коллекции meeting_participants
func ParticipantFromRecord(r map[string]any) MeetingParticipant {
	return MeetingParticipant{
		ID:        stringField(r, IdentityField),
		MeetingID: stringField(r, "meeting_id"),
		UserID:    stringField(r, "user_id"),
		Status:    ParticipantStatus(stringField(r, "status")),
	}
}

// CommitteeMeetingFromRecord разбирает строку коллекции committee_meetings
func CommitteeMeetingFromRecord(r map[string]any) CommitteeMeeting {
	return CommitteeMeeting{
		ID:              stringField(r, IdentityField),
		Title:           stringField(r, "title"),
		CommitteeType:   stringField(r, "committee_type"),
		StartTime:       timeField(r, "start_time"),
		DurationMinutes: intField(r, "duration_minutes"),
		Location:        stringField(r, "location"),
		MissionID:       stringField(r, "mission_id"),
		MeetingLink:     stringField(r, "meeting_link"),
	}
}

// TaskFromRecord разбирает строку коллекции tasks.
// Второе значение false, если у задачи нет дедлайна.
func TaskFromRecord(r map[string]any) (Task, bool) {
	due := optionalTimeField(r, "due_date")
	if due == nil {
		return Task{}, false
	}
	return Task{
		ID:        stringField(r, IdentityField),
		Title:     stringField(r, "title"),
		DueDate:   *due,
		Status:    stringField(r, "status"),
		Priority:  stringField(r, "priority"),
		ProjectID: stringField(r, "project_id"),
	}, true
}

// MilestoneFromRecord разбирает строку коллекции project_milestones
func MilestoneFromRecord(r map[string]any) (Milestone, bool) {
	due := optionalTimeField(r, "due_date")
	if due == nil {
		return Milestone{}, false
	}
	return Milestone{
		ID:        stringField(r, IdentityField),
		Title:     stringField(r, "title"),
		DueDate:   *due,
		ProjectID: stringField(r, "project_id"),
	}, true
}
