// Package notify runs the background deadline watch: a fixed-interval
// poll that classifies open tasks and alerts the notification channel
// about due-soon and overdue work, at most once per task.
package notify

import (
	"context"
	"fmt"
	"strings"
	gosync "sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nhle/casebot/internal/deadline"
	"github.com/nhle/casebot/internal/model"
	"github.com/nhle/casebot/internal/store"
	"github.com/nhle/casebot/internal/transport"
)

// DefaultInterval is how often the scheduler polls when the config does
// not say otherwise.
const DefaultInterval = 5 * time.Minute

// Config holds the scheduler's knobs.
type Config struct {
	// ChannelID is the notification channel alerts are sent to.
	ChannelID string

	// Window is the due-soon lookahead: deadlines inside [now, now+Window]
	// count as imminent.
	Window time.Duration

	// Interval is the poll period.
	Interval time.Duration
}

// Scheduler drives the deadline notification loop.
type Scheduler struct {
	store     store.Store
	transport transport.Transport
	cfg       Config
	notified  *NotifiedSet
	log       zerolog.Logger

	mu      gosync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewScheduler creates a Scheduler. Interval falls back to DefaultInterval
// when unset.
func NewScheduler(st store.Store, tr transport.Transport, cfg Config, log zerolog.Logger) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Scheduler{
		store:     st,
		transport: tr,
		cfg:       cfg,
		notified:  NewNotifiedSet(),
		log:       log,
	}
}

// Start launches the polling goroutine. The first tick runs immediately;
// subsequent ticks follow the configured interval. Start is a no-op if
// the scheduler is already running; a stopped scheduler can be started
// again.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	go s.run(ctx, stopCh)
}

// Stop halts the polling loop. A tick in flight finishes first.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	close(s.stopCh)
	s.running = false
}

func (s *Scheduler) run(ctx context.Context, stopCh <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.tickLogged(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tickLogged(ctx)
		}
	}
}

func (s *Scheduler) tickLogged(ctx context.Context) {
	if err := s.Tick(ctx, time.Now()); err != nil {
		s.log.Error().Err(err).Msg("deadline poll tick failed")
	}
}

// Tick runs one poll pass: fetch all tasks, classify each against now,
// and notify the ones that are due soon or overdue and have not been
// notified yet. One task's failure never aborts the rest of the pass.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) error {
	// A missing notification channel degrades the whole tick to a no-op;
	// the next tick retries naturally.
	if err := s.transport.ResolveChannel(ctx, s.cfg.ChannelID); err != nil {
		s.log.Debug().Err(err).Str("channel", s.cfg.ChannelID).
			Msg("notification channel unresolvable, skipping tick")
		return nil
	}

	tasks, err := s.store.AllTasks(ctx)
	if err != nil {
		return fmt.Errorf("fetching tasks: %w", err)
	}

	for _, t := range tasks {
		if t.Done || s.notified.Has(t.ID) {
			continue
		}

		due, ok := deadline.Parse(t.Deadline)
		if !ok {
			continue
		}

		status := deadline.Classify(now, due, s.cfg.Window)
		if status == deadline.NotYet {
			continue
		}

		if err := s.notifyTask(ctx, t, due, status); err != nil {
			s.log.Warn().Err(err).Int64("task_id", t.ID).
				Str("status", status.String()).Msg("notifying task failed")
			continue
		}
		s.notified.Mark(t.ID)
	}

	return nil
}

// notifyTask resolves the task's case and linked contacts, then delivers
// the descriptive alert and, when any contact has a platform user, a
// separate ping message. The ping is its own message because the rich
// alert body does not reliably trigger platform mention notifications.
func (s *Scheduler) notifyTask(
	ctx context.Context,
	t model.Task,
	due time.Time,
	status deadline.Status,
) error {
	c, err := s.store.GetCase(ctx, t.CaseID)
	if err != nil {
		return fmt.Errorf("resolving case %s: %w", t.CaseID, err)
	}

	contacts, err := s.store.ContactsForCase(ctx, t.CaseID)
	if err != nil {
		return fmt.Errorf("resolving contacts for case %s: %w", t.CaseID, err)
	}

	var mentions []string
	for _, lc := range contacts {
		if lc.PlatformUserID != "" {
			mentions = append(mentions, transport.Mention(lc.PlatformUserID))
		}
	}

	body := renderAlert(t, *c, due, status, mentions)
	if err := s.transport.Send(ctx, s.cfg.ChannelID, body); err != nil {
		return fmt.Errorf("sending alert: %w", err)
	}

	if len(mentions) > 0 {
		ping := "🔔 " + strings.Join(mentions, " ")
		if err := s.transport.Send(ctx, s.cfg.ChannelID, ping); err != nil {
			return fmt.Errorf("sending ping: %w", err)
		}
	}

	return nil
}

// renderAlert builds the descriptive notification message.
func renderAlert(
	t model.Task,
	c model.Case,
	due time.Time,
	status deadline.Status,
	mentions []string,
) string {
	title := "⚠️ **Task Due Soon!**"
	if status == deadline.Overdue {
		title = "❌ **Task Overdue!**"
	}

	linked := "No users linked"
	if len(mentions) > 0 {
		linked = strings.Join(mentions, " ")
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	fmt.Fprintf(&b, "**Task:** %s\n", t.Description)
	fmt.Fprintf(&b, "**Case:** %s (ID: %s)\n", c.Name, c.ID)
	fmt.Fprintf(&b, "**Deadline:** %s\n", due.Format(model.DeadlineDisplayFormat))
	fmt.Fprintf(&b, "**Linked Contacts:** %s", linked)
	return b.String()
}
