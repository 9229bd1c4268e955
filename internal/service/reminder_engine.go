package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"sync/atomic"
	"time"

	"task-manager/internal/config"
	"task-manager/internal/model"
	"task-manager/internal/notify"
	"task-manager/internal/timeutil"
)

// TaskStore is the task storage surface the engine consumes. Writes made
// earlier in a pass must be visible to later reads in the same pass.
type TaskStore interface {
	ArchivePastDue(ctx context.Context, before time.Time) (int64, error)
	ListPendingWithOwner(ctx context.Context) ([]model.Task, error)
	SetReminderSent(ctx context.Context, taskID string, sent bool) error
	SetLastReminderOn(ctx context.Context, taskID, day string) error
}

// UserStore is the user storage surface the engine consumes.
type UserStore interface {
	ListDailyReminderUsers(ctx context.Context) ([]model.User, error)
	SetLastDailyReminderOn(ctx context.Context, userID, day string) error
}

// EngineOptions tune the reminder decision and the delivery policy.
type EngineOptions struct {
	// ToleranceMinutes is the maximum distance between local now and the
	// target time for a reminder to count as due. Keep it wider than the
	// tick period so a skipped tick still gets at least one hit.
	ToleranceMinutes    float64
	DefaultReminderHour int
	// ProductionDelivery enables default-hour reminders; development
	// deployments only fire reminders with an explicit time.
	ProductionDelivery bool
	// MarkSentOnFailure advances reminder state even when delivery fails.
	MarkSentOnFailure bool
	// Channel selects the per-user delivery address (email or telegram).
	Channel string
}

// PassReport is the outcome of one archive+evaluate+dispatch pass.
type PassReport struct {
	Archived              int64 `json:"archived"`
	NotificationsSent     int   `json:"notificationsSent"`
	DeliveryFailures      int   `json:"deliveryFailures"`
	SkippedAlreadyRunning bool  `json:"skippedAlreadyRunning"`
}

// Engine runs the recurring reminder pass: archive past-due tasks, decide
// per pending task and per opted-in user whether a reminder is due right
// now in their local time, and dispatch at most one notification per due
// occurrence. A single-flight guard keeps passes from overlapping; it does
// not coordinate across processes.
type Engine struct {
	tasks    TaskStore
	users    UserStore
	notifier notify.Notifier
	opts     EngineOptions

	running atomic.Bool
}

func NewEngine(tasks TaskStore, users UserStore, notifier notify.Notifier, opts EngineOptions) *Engine {
	if opts.ToleranceMinutes <= 0 {
		opts.ToleranceMinutes = 5
	}
	if opts.Channel == "" {
		opts.Channel = config.ChannelEmail
	}
	return &Engine{tasks: tasks, users: users, notifier: notifier, opts: opts}
}

// RunPass executes one pass for the given instant. If a pass is already
// running the tick is dropped, not queued, and the report says so. Every
// per-record failure is logged and counted; none aborts the pass.
func (e *Engine) RunPass(ctx context.Context, now time.Time) PassReport {
	var report PassReport

	if !e.running.CompareAndSwap(false, true) {
		log.Println("[info] reminder pass already running, tick dropped")
		report.SkippedAlreadyRunning = true
		return report
	}
	defer e.running.Store(false)

	nowUTC := now.UTC()

	archived, err := e.tasks.ArchivePastDue(ctx, timeutil.StartOfDay(nowUTC))
	if err != nil {
		log.Printf("archive pass: %v", err)
	} else {
		report.Archived = archived
		if archived > 0 {
			log.Printf("[info] archived %d past-due tasks", archived)
		}
	}

	tasks, err := e.tasks.ListPendingWithOwner(ctx)
	if err != nil {
		log.Printf("list pending tasks: %v", err)
	}
	for _, task := range tasks {
		sent, failed := e.evaluateTask(ctx, task, nowUTC)
		if sent {
			report.NotificationsSent++
		}
		if failed {
			report.DeliveryFailures++
		}
	}

	users, err := e.users.ListDailyReminderUsers(ctx)
	if err != nil {
		log.Printf("list daily-reminder users: %v", err)
	}
	for _, user := range users {
		sent, failed := e.evaluateUser(ctx, user, nowUTC)
		if sent {
			report.NotificationsSent++
		}
		if failed {
			report.DeliveryFailures++
		}
	}

	return report
}

// evaluateTask decides whether a single task's reminder is due now and
// dispatches it. Returns whether a notification was delivered and whether
// a delivery attempt failed.
func (e *Engine) evaluateTask(ctx context.Context, task model.Task, nowUTC time.Time) (sent, failed bool) {
	owner := task.Owner
	if owner == nil {
		return false, false
	}
	addr := e.addressFor(owner)
	if addr == "" {
		return false, false
	}

	now := nowUTC.In(e.locationFor(owner))
	today := timeutil.DateKey(now)

	if task.DailyReminder {
		// Recurring reminders re-arm daily; the date marker keeps them
		// single-fire within a day.
		if task.LastReminderOn == today {
			return false, false
		}
	} else {
		if task.ReminderSent {
			return false, false
		}
		if !timeutil.SameDay(task.DueDate.In(now.Location()), now) {
			return false, false
		}
	}

	schedule, ok := e.scheduleFor(task)
	if !ok {
		return false, false
	}

	if !e.shouldFire(now, schedule.Resolve(now)) {
		return false, false
	}

	// Bodies are HTML; titles and names are user input and get escaped.
	name := html.EscapeString(displayName(owner))
	title := html.EscapeString(task.Title)
	subject := fmt.Sprintf("Reminder: %q is due today", task.Title)
	body := fmt.Sprintf("Hi %s,<br>Your task \"<b>%s</b>\" is due today.<br>— Task Manager",
		name, title)
	if task.DailyReminder {
		subject = fmt.Sprintf("Daily reminder: %q", task.Title)
		body = fmt.Sprintf("Hi %s,<br>Your daily task \"<b>%s</b>\" is waiting for you.<br>— Task Manager",
			name, title)
	}

	delivered := e.dispatch(ctx, addr, subject, body)

	if delivered || e.opts.MarkSentOnFailure {
		if task.DailyReminder {
			if err := e.tasks.SetLastReminderOn(ctx, task.ID, today); err != nil {
				log.Printf("mark daily task %s reminded: %v", task.ID, err)
			}
		} else {
			if err := e.tasks.SetReminderSent(ctx, task.ID, true); err != nil {
				log.Printf("mark task %s reminder sent: %v", task.ID, err)
			}
		}
	}
	if delivered {
		log.Printf("[info] task reminder sent for %q", task.Title)
	}
	return delivered, !delivered
}

// evaluateUser decides whether the user's standalone daily reminder is due
// now and dispatches it.
func (e *Engine) evaluateUser(ctx context.Context, user model.User, nowUTC time.Time) (sent, failed bool) {
	addr := e.addressFor(&user)
	if addr == "" {
		return false, false
	}

	now := nowUTC.In(e.locationFor(&user))
	today := timeutil.DateKey(now)
	if user.LastDailyReminderOn == today {
		return false, false
	}

	schedule, err := ExplicitSchedule(user.ReminderTime)
	if err != nil {
		log.Printf("user %s daily reminder: %v", user.ID, err)
		return false, false
	}

	if !e.shouldFire(now, schedule.Resolve(now)) {
		return false, false
	}

	body := fmt.Sprintf("Hi %s,<br>This is your daily reminder from Task Manager.<br>— Task Manager",
		html.EscapeString(displayName(&user)))
	delivered := e.dispatch(ctx, addr, "Daily Reminder", body)

	if delivered || e.opts.MarkSentOnFailure {
		if err := e.users.SetLastDailyReminderOn(ctx, user.ID, today); err != nil {
			log.Printf("mark user %s daily reminder: %v", user.ID, err)
		}
	}
	if delivered {
		log.Printf("[info] daily reminder sent to %s", addr)
	}
	return delivered, !delivered
}

// shouldFire is the one decision rule both reminder kinds share.
func (e *Engine) shouldFire(now, target time.Time) bool {
	return timeutil.MinutesBetween(now, target) <= e.opts.ToleranceMinutes
}

// scheduleFor resolves the task's reminder schedule. Default-hour
// schedules only apply under the production delivery policy.
func (e *Engine) scheduleFor(task model.Task) (ReminderSchedule, bool) {
	if task.ReminderTime != "" {
		schedule, err := ExplicitSchedule(task.ReminderTime)
		if err != nil {
			log.Printf("task %s reminder time: %v", task.ID, err)
			return ReminderSchedule{}, false
		}
		return schedule, true
	}
	if !e.opts.ProductionDelivery {
		return ReminderSchedule{}, false
	}
	return DefaultHourSchedule(e.opts.DefaultReminderHour), true
}

// dispatch attempts delivery. Failures are logged, never propagated, so a
// broken recipient does not take the rest of the batch down.
func (e *Engine) dispatch(ctx context.Context, addr, subject, body string) bool {
	if err := e.notifier.Send(ctx, addr, subject, body); err != nil {
		log.Printf("could not send notification to %s: %v", addr, err)
		return false
	}
	return true
}

// locationFor resolves the user's timezone, falling back to UTC on an
// unknown zone instead of failing the whole tick.
func (e *Engine) locationFor(user *model.User) *time.Location {
	loc, err := timeutil.Location(user.Timezone)
	if err != nil {
		if errors.Is(err, timeutil.ErrInvalidTimezone) {
			log.Printf("user %s has invalid timezone %q, using UTC", user.ID, user.Timezone)
		}
		return time.UTC
	}
	return loc
}

func (e *Engine) addressFor(user *model.User) string {
	if e.opts.Channel == config.ChannelTelegram {
		if user.TelegramChatID == 0 {
			return ""
		}
		return strconv.FormatInt(user.TelegramChatID, 10)
	}
	return user.Email
}

func displayName(user *model.User) string {
	if user.Name != "" {
		return user.Name
	}
	return "there"
}
