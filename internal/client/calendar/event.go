package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/missionflow/internal/models"
)

// Category тип события календаря
type Category string

const (
	CategoryMeeting   Category = "meeting"
	CategoryCommittee Category = "committee-session"
	CategoryDeadline  Category = "deadline"
	CategoryMilestone Category = "milestone"
)

// Цвета по категориям. Цвет определяется только категорией.
const (
	ColorMeeting   = "#3b82f6"
	ColorCommittee = "#8b5cf6"
	ColorDeadline  = "#ef4444"
	ColorMilestone = "#10b981"
)

// SourceKind тип исходной записи события
type SourceKind string

const (
	SourceMeeting   SourceKind = "meeting"
	SourceCommittee SourceKind = "committee"
	SourceTask      SourceKind = "task"
	SourceMilestone SourceKind = "milestone"
)

// Source исходная запись события. Реализуется только типами этого пакета.
type Source interface {
	Kind() SourceKind
	sealed()
}

// MeetingSource встреча с участниками
type MeetingSource struct{ Meeting models.Meeting }

// CommitteeSource заседание комитета
type CommitteeSource struct{ Committee models.CommitteeMeeting }

// DeadlineSource задача с дедлайном
type DeadlineSource struct{ Task models.Task }

// MilestoneSource веха проекта
type MilestoneSource struct{ Milestone models.Milestone }

func (MeetingSource) Kind() SourceKind   { return SourceMeeting }
func (CommitteeSource) Kind() SourceKind { return SourceCommittee }
func (DeadlineSource) Kind() SourceKind  { return SourceTask }
func (MilestoneSource) Kind() SourceKind { return SourceMilestone }

func (MeetingSource) sealed()   {}
func (CommitteeSource) sealed() {}
func (DeadlineSource) sealed()  {}
func (MilestoneSource) sealed() {}

// Metadata исходная запись события и ее тип
type Metadata struct {
	Source     Source     `json:"source"`
	SourceKind SourceKind `json:"source_kind"`
}

// Event событие единой ленты календаря
type Event struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Metadata Metadata  `json:"metadata"`
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Category Category  `json:"category"`
	Color    string    `json:"color"`
	Overdue  bool      `json:"overdue"`
}

// committeeLabels подписи известных типов комитетов
var committeeLabels = map[string]string{
	"copil":  "COPIL",
	"codir":  "CODIR",
	"cotech": "COTECH",
	"cosui":  "COSUI",
}

// CommitteeLabel возвращает подпись типа комитета; для пустого типа пустую строку
func CommitteeLabel(committeeType string) string {
	t := strings.TrimSpace(committeeType)
	if t == "" {
		return ""
	}
	if label, ok := committeeLabels[strings.ToLower(t)]; ok {
		return label
	}
	return strings.ToUpper(t)
}

// Project строит событие из исходной записи. now нужен для признака просрочки.
func Project(src Source, now time.Time) Event {
	switch s := src.(type) {
	case MeetingSource:
		m := s.Meeting
		return Event{
			ID:       eventID(SourceMeeting, m.ID),
			Title:    m.Title,
			Start:    m.StartTime,
			End:      endOf(m.StartTime, m.DurationMinutes),
			Category: CategoryMeeting,
			Color:    ColorMeeting,
			Metadata: Metadata{SourceKind: SourceMeeting, Source: s},
		}

	case CommitteeSource:
		c := s.Committee
		title := c.Title
		if label := CommitteeLabel(c.CommitteeType); label != "" {
			title = label + " - " + c.Title
		}
		return Event{
			ID:       eventID(SourceCommittee, c.ID),
			Title:    title,
			Start:    c.StartTime,
			End:      endOf(c.StartTime, c.DurationMinutes),
			Category: CategoryCommittee,
			Color:    ColorCommittee,
			Metadata: Metadata{SourceKind: SourceCommittee, Source: s},
		}

	case DeadlineSource:
		t := s.Task
		// Мгновенное событие: начало и конец совпадают с дедлайном
		return Event{
			ID:       eventID(SourceTask, t.ID),
			Title:    t.Title,
			Start:    t.DueDate,
			End:      t.DueDate,
			Category: CategoryDeadline,
			Color:    ColorDeadline,
			Overdue:  t.DueDate.Before(now) && t.Status != models.TaskStatusDone,
			Metadata: Metadata{SourceKind: SourceTask, Source: s},
		}

	case MilestoneSource:
		ms := s.Milestone
		return Event{
			ID:       eventID(SourceMilestone, ms.ID),
			Title:    ms.Title,
			Start:    ms.DueDate,
			End:      ms.DueDate,
			Category: CategoryMilestone,
			Color:    ColorMilestone,
			Metadata: Metadata{SourceKind: SourceMilestone, Source: s},
		}
	}

	panic(fmt.Sprintf("calendar: unknown source type %T", src))
}

func eventID(kind SourceKind, id string) string {
	return string(kind) + "-" + id
}

func endOf(start time.Time, durationMinutes int) time.Time {
	if durationMinutes <= 0 {
		return start
	}
	return start.Add(time.Duration(durationMinutes) * time.Minute)
}

// Action действие, доступное для события
type Action string

const (
	ActionRespond  Action = "respond"
	ActionJoin     Action = "join"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionOpenTask Action = "open-task"
)

// Actions возвращает действия, доступные для события
func Actions(ev Event) []Action {
	switch s := ev.Metadata.Source.(type) {
	case MeetingSource:
		return meetingActions(s.Meeting.MeetingLink)
	case CommitteeSource:
		return meetingActions(s.Committee.MeetingLink)
	case DeadlineSource:
		return []Action{ActionOpenTask}
	}
	return nil
}

func meetingActions(link string) []Action {
	actions := []Action{ActionRespond}
	if link != "" {
		actions = append(actions, ActionJoin)
	}
	return append(actions, ActionEdit, ActionDelete)
}

// JoinLink возвращает ссылку на комнату встречи, если она есть
func JoinLink(ev Event) string {
	switch s := ev.Metadata.Source.(type) {
	case MeetingSource:
		return s.Meeting.MeetingLink
	case CommitteeSource:
		return s.Committee.MeetingLink
	}
	return ""
}

// TaskID возвращает id задачи для события-дедлайна
func TaskID(ev Event) string {
	if s, ok := ev.Metadata.Source.(DeadlineSource); ok {
		return s.Task.ID
	}
	return ""
}
