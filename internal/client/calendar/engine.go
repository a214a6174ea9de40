// Package calendar собирает встречи, заседания комитетов, дедлайны задач
// и вехи проектов в единую ленту событий.
package calendar

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	httpClient "github.com/iudanet/missionflow/internal/client/api"
	"github.com/iudanet/missionflow/internal/clock"
	"github.com/iudanet/missionflow/internal/models"
	"github.com/iudanet/missionflow/pkg/api"
)

// DefaultLinkBase префикс автоматически создаваемой ссылки на комнату встречи
const DefaultLinkBase = "https://meet.jit.si/missionflow-"

// MaxSessionLength максимальная длительность встречи или заседания, которую
// учитывает выборка: сессии, начавшиеся раньше окна не более чем на это
// время и еще идущие, попадают в ленту
const MaxSessionLength = 24 * time.Hour

// Window интервал выборки [From, To). Нулевая граница не ограничивает выборку.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains сообщает, попадает ли момент в окно
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && !t.Before(w.To) {
		return false
	}
	return true
}

// Overlaps сообщает, пересекается ли интервал [start, end) с окном.
// Событие без длительности проверяется по началу.
func (w Window) Overlaps(start, end time.Time) bool {
	if !end.After(start) {
		return w.Contains(start)
	}
	if !w.To.IsZero() && !start.Before(w.To) {
		return false
	}
	return w.From.IsZero() || end.After(w.From)
}

func (w Window) key() [2]int64 {
	var k [2]int64
	if !w.From.IsZero() {
		k[0] = w.From.UnixNano()
	}
	if !w.To.IsZero() {
		k[1] = w.To.UnixNano()
	}
	return k
}

// Aggregate результат загрузки ленты. Errors содержит ошибки по коллекциям;
// события остальных источников при этом присутствуют.
type Aggregate struct {
	LoadedAt time.Time
	Errors   map[string]error
	Window   Window
	Events   []Event
}

// Partial сообщает, что часть источников не загрузилась
func (a *Aggregate) Partial() bool {
	return len(a.Errors) > 0
}

// Engine загружает и кеширует ленту календаря и выполняет операции над встречами
type Engine struct {
	client   httpClient.ClientAPI
	clock    clock.Clock
	logger   *slog.Logger
	cache    map[[2]int64]*Aggregate
	linkBase string
	mu       sync.Mutex
}

// Option configures Engine
type Option func(*Engine)

// WithClock задает источник текущего времени
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLinkBase задает префикс ссылок на комнаты встреч
func WithLinkBase(base string) Option {
	return func(e *Engine) { e.linkBase = base }
}

// NewEngine создает движок календаря
func NewEngine(client httpClient.ClientAPI, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		client:   client,
		clock:    clock.System,
		logger:   logger,
		cache:    make(map[[2]int64]*Aggregate),
		linkBase: DefaultLinkBase,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Invalidate сбрасывает кеш лент
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.cache = make(map[[2]int64]*Aggregate)
	e.mu.Unlock()
}

// Load возвращает ленту для окна. Источники загружаются параллельно и независимо;
// ошибка возвращается, только если не загрузился ни один источник.
// Кешируется только полная лента: частичная загружается заново при следующем вызове.
func (e *Engine) Load(ctx context.Context, w Window) (*Aggregate, error) {
	e.mu.Lock()
	cached, ok := e.cache[w.key()]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	var (
		meetings   meetingLoad
		committees []Source
		deadlines  []Source
		milestones []Source
		errs       = make([]error, 4)
	)

	// Каждая горутина пишет только в свой слот, ошибки не отменяют соседей
	var wg sync.WaitGroup
	wg.Go(func() { meetings, errs[0] = e.loadMeetings(ctx, w) })
	wg.Go(func() { committees, errs[1] = e.loadCommittees(ctx, w) })
	wg.Go(func() { deadlines, errs[2] = e.loadDeadlines(ctx, w) })
	wg.Go(func() { milestones, errs[3] = e.loadMilestones(ctx, w) })
	wg.Wait()

	agg := &Aggregate{
		LoadedAt: e.clock.Now(),
		Errors:   make(map[string]error),
		Window:   w,
	}
	collections := []string{
		models.CollectionMeetings,
		models.CollectionCommitteeMeetings,
		models.CollectionTasks,
		models.CollectionMilestones,
	}
	for i, err := range errs {
		if err != nil {
			agg.Errors[collections[i]] = err
			e.logger.Warn("Calendar source failed", "collection", collections[i], "error", err)
		}
	}
	if countErrors(errs) == len(errs) {
		return nil, fmt.Errorf("%w: %w", ErrAllSourcesFailed, errors.Join(errs...))
	}
	if meetings.participantsErr != nil {
		agg.Errors[models.CollectionMeetingParticipants] = meetings.participantsErr
		e.logger.Warn("Meeting participants failed", "error", meetings.participantsErr)
	}

	now := e.clock.Now()
	for _, group := range [][]Source{meetings.sources, committees, deadlines, milestones} {
		for _, src := range group {
			ev := Project(src, now)
			if !w.Overlaps(ev.Start, ev.End) {
				continue
			}
			agg.Events = append(agg.Events, ev)
		}
	}
	SortEvents(agg.Events)

	if !agg.Partial() {
		e.mu.Lock()
		e.cache[w.key()] = agg
		e.mu.Unlock()
	}

	return agg, nil
}

// SortEvents сортирует события по началу, затем по ID
func SortEvents(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func countErrors(errs []error) int {
	n := 0
	for _, err := range errs {
		if err != nil {
			n++
		}
	}
	return n
}

// rangeQuery добавляет к выборке ограничения окна по полю.
// lookback сдвигает нижнюю границу назад для событий с длительностью.
func rangeQuery(field string, w Window, lookback time.Duration) api.Query {
	q := api.Query{}
	if !w.From.IsZero() {
		q = q.Where(field, api.OpGte, w.From.Add(-lookback).UTC().Format(time.RFC3339))
	}
	if !w.To.IsZero() {
		q = q.Where(field, api.OpLt, w.To.UTC().Format(time.RFC3339))
	}
	return q.Order(field, false)
}

// meetingLoad встречи и ошибка загрузки их участников
type meetingLoad struct {
	participantsErr error
	sources         []Source
}

// loadMeetings загружает встречи и их участников.
// Ошибка участников не отменяет встречи.
func (e *Engine) loadMeetings(ctx context.Context, w Window) (meetingLoad, error) {
	rows, err := e.client.Select(ctx, models.CollectionMeetings, rangeQuery("start_time", w, MaxSessionLength))
	if err != nil {
		return meetingLoad{}, err
	}

	meetings := make([]models.Meeting, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		m := models.MeetingFromRecord(row)
		if m.ID == "" || m.StartTime.IsZero() {
			continue
		}
		meetings = append(meetings, m)
		ids = append(ids, m.ID)
	}

	var load meetingLoad
	if len(ids) > 0 {
		partRows, err := e.client.Select(ctx, models.CollectionMeetingParticipants, api.Query{}.In("meeting_id", ids...))
		if err != nil {
			load.participantsErr = err
		} else {
			byMeeting := make(map[string][]models.MeetingParticipant)
			for _, row := range partRows {
				p := models.ParticipantFromRecord(row)
				byMeeting[p.MeetingID] = append(byMeeting[p.MeetingID], p)
			}
			for i := range meetings {
				meetings[i].Participants = byMeeting[meetings[i].ID]
			}
		}
	}

	load.sources = make([]Source, 0, len(meetings))
	for _, m := range meetings {
		load.sources = append(load.sources, MeetingSource{Meeting: m})
	}
	return load, nil
}

func (e *Engine) loadCommittees(ctx context.Context, w Window) ([]Source, error) {
	rows, err := e.client.Select(ctx, models.CollectionCommitteeMeetings, rangeQuery("start_time", w, MaxSessionLength))
	if err != nil {
		return nil, err
	}

	out := make([]Source, 0, len(rows))
	for _, row := range rows {
		c := models.CommitteeMeetingFromRecord(row)
		if c.ID == "" || c.StartTime.IsZero() {
			continue
		}
		out = append(out, CommitteeSource{Committee: c})
	}
	return out, nil
}

func (e *Engine) loadDeadlines(ctx context.Context, w Window) ([]Source, error) {
	rows, err := e.client.Select(ctx, models.CollectionTasks, rangeQuery("due_date", w, 0).NotNull("due_date"))
	if err != nil {
		return nil, err
	}

	out := make([]Source, 0, len(rows))
	for _, row := range rows {
		t, ok := models.TaskFromRecord(row)
		if !ok || t.ID == "" {
			continue
		}
		out = append(out, DeadlineSource{Task: t})
	}
	return out, nil
}

func (e *Engine) loadMilestones(ctx context.Context, w Window) ([]Source, error) {
	rows, err := e.client.Select(ctx, models.CollectionMilestones, rangeQuery("due_date", w, 0).NotNull("due_date"))
	if err != nil {
		return nil, err
	}

	out := make([]Source, 0, len(rows))
	for _, row := range rows {
		ms, ok := models.MilestoneFromRecord(row)
		if !ok || ms.ID == "" {
			continue
		}
		out = append(out, MilestoneSource{Milestone: ms})
	}
	return out, nil
}
