package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iudanet/missionflow/internal/client/calendar"
	"github.com/iudanet/missionflow/internal/client/iocli"
	"github.com/iudanet/missionflow/internal/models"
)

const dateLayout = "2006-01-02"

func (c *Cli) calendarCommand() *cobra.Command {
	var from, to string
	var days int
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show meetings, committee sessions, deadlines and milestones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.authenticate(ctx); err != nil {
				return err
			}

			w, err := c.window(from, to, days)
			if err != nil {
				return err
			}

			agg, err := c.calendar.Load(ctx, w)
			if err != nil {
				return fmt.Errorf("failed to load calendar: %w", err)
			}

			c.io.Printf("=== Calendar %s .. %s ===\n", w.From.Format(dateLayout), w.To.Format(dateLayout))
			c.io.Println()
			if len(agg.Events) == 0 {
				c.io.Println("No events")
			}

			var day string
			for _, ev := range agg.Events {
				if d := ev.Start.Local().Format(dateLayout); d != day {
					day = d
					c.io.Printf("%s\n", d)
				}
				c.io.Println(describeEvent(ev))
			}

			if agg.Partial() {
				c.io.Println()
				for _, name := range sortedErrKeys(agg.Errors) {
					c.io.Printf("⚠️  %s unavailable: %v\n", name, agg.Errors[name])
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Window start (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&to, "to", "", "Window end, exclusive (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 7, "Window length in days when --to is omitted")
	return cmd
}

// window строит окно выборки из флагов
func (c *Cli) window(from, to string, days int) (calendar.Window, error) {
	now := c.clock.Now().Local()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if from != "" {
		t, err := time.ParseInLocation(dateLayout, from, time.Local)
		if err != nil {
			return calendar.Window{}, fmt.Errorf("invalid --from: %w", err)
		}
		start = t
	}

	if days <= 0 {
		days = 7
	}
	end := start.AddDate(0, 0, days)
	if to != "" {
		t, err := time.ParseInLocation(dateLayout, to, time.Local)
		if err != nil {
			return calendar.Window{}, fmt.Errorf("invalid --to: %w", err)
		}
		end = t
	}
	if !end.After(start) {
		return calendar.Window{}, fmt.Errorf("window end must be after start")
	}
	return calendar.Window{From: start, To: end}, nil
}

func describeEvent(ev calendar.Event) string {
	var b strings.Builder
	if ev.End.After(ev.Start) {
		fmt.Fprintf(&b, "  %s-%s ", ev.Start.Local().Format("15:04"), ev.End.Local().Format("15:04"))
	} else {
		fmt.Fprintf(&b, "  %s       ", ev.Start.Local().Format("15:04"))
	}
	fmt.Fprintf(&b, "%-18s %s", string(ev.Category), ev.Title)
	if ev.Overdue {
		b.WriteString(" (overdue)")
	}

	actions := calendar.Actions(ev)
	if len(actions) > 0 {
		names := make([]string, 0, len(actions))
		for _, a := range actions {
			names = append(names, string(a))
		}
		fmt.Fprintf(&b, "  [%s]", strings.Join(names, ", "))
	}
	if link := calendar.JoinLink(ev); link != "" {
		fmt.Fprintf(&b, "\n      %s", link)
	}
	return b.String()
}

func sortedErrKeys(m map[string]error) []string {
	keys := make(map[string]any, len(m))
	for k := range m {
		keys[k] = nil
	}
	return sortedKeys(keys)
}

func (c *Cli) meetingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meeting",
		Short: "Create, update, answer and delete meetings",
	}
	cmd.AddCommand(
		c.meetingCreateCommand(),
		c.meetingUpdateCommand(),
		c.meetingRespondCommand(),
		c.meetingDeleteCommand(),
	)
	return cmd
}

func (c *Cli) meetingCreateCommand() *cobra.Command {
	var (
		in           calendar.MeetingInput
		start        string
		participants []string
	)
	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a meeting and invite participants",
		Example: `  missionflow meeting create "Sprint review" --start "2026-03-11 09:00" --duration 45 \
    --participant 3f2a... --participant 9b1c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.requireActor(ctx); err != nil {
				return err
			}

			t, err := time.ParseInLocation(timeLayout, start, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --start, expected %q: %w", timeLayout, err)
			}
			in.Title = args[0]
			in.StartTime = t
			in.CreatedBy = c.actorID
			in.ParticipantIDs = append([]string{c.actorID}, participants...)

			result, err := c.calendar.CreateMeeting(ctx, in)
			if result != nil && result.Meeting != nil {
				c.io.Printf("Meeting: %s\n", result.Meeting.ID)
				c.io.Printf("Link:    %s\n", result.Meeting.MeetingLink)
				c.io.Printf("Participants: %d, notifications: %d\n", result.ParticipantsInserted, result.NotificationsSent)
			}
			if err != nil {
				if result != nil && result.Failed != "" && result.Failed != calendar.StepMeeting {
					c.io.Printf("⚠️  Meeting created, but step %q failed\n", result.Failed)
				}
				return err
			}
			c.io.Println("✓ Meeting created")
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Start time ("+timeLayout+")")
	cmd.Flags().IntVar(&in.DurationMinutes, "duration", calendar.DefaultMeetingDuration, "Duration in minutes")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description")
	cmd.Flags().StringVar(&in.MeetingLink, "link", "", "Meeting room link (generated when omitted)")
	cmd.Flags().StringArrayVar(&participants, "participant", nil, "Participant user id (repeatable)")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func (c *Cli) meetingUpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update <meeting-id> <field=value>...",
		Short:   "Update meeting fields",
		Example: `  missionflow meeting update 5f1c... title="Sprint review" duration_minutes=30`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.authenticate(ctx); err != nil {
				return err
			}

			patch, err := parseFields(args[1:])
			if err != nil {
				return err
			}

			m, err := c.calendar.UpdateMeeting(ctx, args[0], patch)
			if err != nil {
				return err
			}
			c.io.Printf("✓ Meeting %s updated: %s\n", m.ID, strings.Join(sortedKeys(patch), ", "))
			return nil
		},
	}
	return cmd
}

func (c *Cli) meetingRespondCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "respond <meeting-id> <accepted|declined>",
		Short:     "Answer a meeting invitation",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(models.ParticipantAccepted), string(models.ParticipantDeclined)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.requireActor(ctx); err != nil {
				return err
			}

			status := models.ParticipantStatus(strings.ToLower(args[1]))
			if err := c.calendar.RespondToMeeting(ctx, args[0], c.actorID, status); err != nil {
				return err
			}
			c.io.Printf("✓ Response %q saved\n", status)
			return nil
		},
	}
}

func (c *Cli) meetingDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <meeting-id>",
		Short: "Delete a meeting and its participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.authenticate(ctx); err != nil {
				return err
			}

			if !yes {
				ok, err := iocli.Confirm(c.io, fmt.Sprintf("Delete meeting %s?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					c.io.Println("Cancelled")
					return nil
				}
			}

			if err := c.calendar.DeleteMeeting(ctx, args[0]); err != nil {
				return err
			}
			c.io.Println("✓ Meeting deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
