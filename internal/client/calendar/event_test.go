package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/missionflow/internal/models"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestProject_Meeting(t *testing.T) {
	start := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	ev := Project(MeetingSource{Meeting: models.Meeting{
		ID:              "m-1",
		Title:           "Weekly sync",
		StartTime:       start,
		DurationMinutes: 45,
	}}, now)

	assert.Equal(t, "meeting-m-1", ev.ID)
	assert.Equal(t, "Weekly sync", ev.Title)
	assert.Equal(t, start, ev.Start)
	assert.Equal(t, start.Add(45*time.Minute), ev.End)
	assert.Equal(t, CategoryMeeting, ev.Category)
	assert.Equal(t, ColorMeeting, ev.Color)
	assert.Equal(t, SourceMeeting, ev.Metadata.SourceKind)
	assert.IsType(t, MeetingSource{}, ev.Metadata.Source)
}

func TestProject_Committee(t *testing.T) {
	start := time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		committeeType string
		want          string
	}{
		{committeeType: "copil", want: "COPIL - Budget review"},
		{committeeType: "CODIR", want: "CODIR - Budget review"},
		{committeeType: "cotech", want: "COTECH - Budget review"},
		{committeeType: "cosui", want: "COSUI - Budget review"},
		{committeeType: "audit", want: "AUDIT - Budget review"},
		{committeeType: "", want: "Budget review"},
	}

	for _, tt := range tests {
		t.Run(tt.committeeType, func(t *testing.T) {
			ev := Project(CommitteeSource{Committee: models.CommitteeMeeting{
				ID:              "c-1",
				Title:           "Budget review",
				CommitteeType:   tt.committeeType,
				StartTime:       start,
				DurationMinutes: 90,
			}}, now)

			assert.Equal(t, tt.want, ev.Title)
			assert.Equal(t, "committee-c-1", ev.ID)
			assert.Equal(t, start.Add(90*time.Minute), ev.End)
			assert.Equal(t, CategoryCommittee, ev.Category)
			assert.Equal(t, ColorCommittee, ev.Color)
		})
	}
}

func TestProject_Deadline(t *testing.T) {
	tests := []struct {
		name    string
		due     time.Time
		status  string
		overdue bool
	}{
		{name: "future", due: now.Add(24 * time.Hour), status: "todo", overdue: false},
		{name: "past and open", due: now.Add(-24 * time.Hour), status: "in_progress", overdue: true},
		{name: "past and done", due: now.Add(-24 * time.Hour), status: "done", overdue: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := Project(DeadlineSource{Task: models.Task{
				ID:      "t-1",
				Title:   "Submit report",
				DueDate: tt.due,
				Status:  tt.status,
			}}, now)

			assert.Equal(t, "task-t-1", ev.ID)
			assert.Equal(t, tt.due, ev.Start)
			assert.Equal(t, ev.Start, ev.End, "deadlines are instant events")
			assert.Equal(t, CategoryDeadline, ev.Category)
			assert.Equal(t, ColorDeadline, ev.Color, "color does not depend on overdue state")
			assert.Equal(t, tt.overdue, ev.Overdue)
		})
	}
}

func TestProject_Milestone(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	ev := Project(MilestoneSource{Milestone: models.Milestone{ID: "ms-1", Title: "Go live", DueDate: due}}, now)

	assert.Equal(t, "milestone-ms-1", ev.ID)
	assert.Equal(t, due, ev.Start)
	assert.Equal(t, due, ev.End)
	assert.Equal(t, CategoryMilestone, ev.Category)
	assert.Equal(t, ColorMilestone, ev.Color)
}

func TestProject_IsDeterministic(t *testing.T) {
	src := CommitteeSource{Committee: models.CommitteeMeeting{
		ID:              "c-9",
		Title:           "Steering",
		CommitteeType:   "copil",
		StartTime:       now,
		DurationMinutes: 30,
	}}
	assert.Equal(t, Project(src, now), Project(src, now))
}

func TestActions(t *testing.T) {
	withLink := Project(MeetingSource{Meeting: models.Meeting{ID: "m-1", StartTime: now, MeetingLink: "https://meet.example/x"}}, now)
	withoutLink := Project(CommitteeSource{Committee: models.CommitteeMeeting{ID: "c-1", StartTime: now}}, now)
	deadline := Project(DeadlineSource{Task: models.Task{ID: "t-1", DueDate: now}}, now)
	milestone := Project(MilestoneSource{Milestone: models.Milestone{ID: "ms-1", DueDate: now}}, now)

	assert.Equal(t, []Action{ActionRespond, ActionJoin, ActionEdit, ActionDelete}, Actions(withLink))
	assert.Equal(t, []Action{ActionRespond, ActionEdit, ActionDelete}, Actions(withoutLink))
	assert.Equal(t, []Action{ActionOpenTask}, Actions(deadline))
	assert.Empty(t, Actions(milestone))

	assert.Equal(t, "https://meet.example/x", JoinLink(withLink))
	assert.Empty(t, JoinLink(deadline))
	assert.Equal(t, "t-1", TaskID(deadline))
	assert.Empty(t, TaskID(withLink))
}

func TestSortEvents(t *testing.T) {
	events := []Event{
		{ID: "task-b", Start: now},
		{ID: "meeting-z", Start: now.Add(-time.Hour)},
		{ID: "task-a", Start: now},
	}
	SortEvents(events)

	assert.Equal(t, "meeting-z", events[0].ID)
	assert.Equal(t, "task-a", events[1].ID)
	assert.Equal(t, "task-b", events[2].ID)
}

func TestWindow_Contains(t *testing.T) {
	w := Window{From: now, To: now.Add(time.Hour)}
	assert.True(t, w.Contains(now))
	assert.False(t, w.Contains(now.Add(time.Hour)))
	assert.False(t, w.Contains(now.Add(-time.Second)))
	assert.True(t, Window{}.Contains(now))
}

func TestWindow_Overlaps(t *testing.T) {
	w := Window{From: now, To: now.Add(time.Hour)}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"starts before, runs into window", now.Add(-30 * time.Minute), now.Add(10 * time.Minute), true},
		{"ends at lower bound", now.Add(-time.Hour), now, false},
		{"inside", now.Add(10 * time.Minute), now.Add(20 * time.Minute), true},
		{"starts at upper bound", now.Add(time.Hour), now.Add(2 * time.Hour), false},
		{"covers whole window", now.Add(-time.Hour), now.Add(2 * time.Hour), true},
		{"point inside", now.Add(time.Minute), now.Add(time.Minute), true},
		{"point before", now.Add(-time.Minute), now.Add(-time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Overlaps(tt.start, tt.end))
		})
	}

	assert.True(t, Window{}.Overlaps(now, now.Add(time.Hour)))
}
