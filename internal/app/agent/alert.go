package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"golang.org/x/exp/slog"

	"fieldsync/internal/domain/emergency"
)

// TonePattern names an audible cue. The device runtime decides how each
// pattern actually sounds; the core only picks which one to play.
type TonePattern string

const (
	// ToneEmergencyWork is the insistent pattern used during work hours.
	ToneEmergencyWork TonePattern = "emergency_work_hours"
	// ToneEmergencyOff is the longer, softer pattern used outside work hours.
	ToneEmergencyOff TonePattern = "emergency_off_hours"
	// ToneClaimWon confirms a won claim.
	ToneClaimWon TonePattern = "claim_won"
)

// Toneplayer abstracts the platform audio capability.
type Toneplayer interface {
	Play(pattern TonePattern)
}

// WorkHours is the configured window selecting the emergency alert pattern.
type WorkHours struct {
	From int // inclusive hour, 0-23
	To   int // exclusive hour, 1-24
}

// Contains reports whether t falls inside the window.
func (w WorkHours) Contains(t time.Time) bool {
	h := t.Hour()
	return h >= w.From && h < w.To
}

// Alerter consumes the realtime change feed and turns row changes into user
// alerts: a new emergency plays an audible pattern and an UPDATE away from
// open removes it from the available list.
type Alerter struct {
	feed     emergency.Feed
	tone     Toneplayer
	notifier *ConsoleNotifier
	cache    *EntityCache
	hours    WorkHours
	now      func() time.Time
	log      *slog.Logger
}

func NewAlerter(feed emergency.Feed, tone Toneplayer, notifier *ConsoleNotifier, cache *EntityCache, hours WorkHours, log *slog.Logger) *Alerter {
	return &Alerter{
		feed:     feed,
		tone:     tone,
		notifier: notifier,
		cache:    cache,
		hours:    hours,
		now:      time.Now,
		log:      log.With("component", "alerter"),
	}
}

// Run blocks consuming feed events until ctx is cancelled or the feed closes.
func (a *Alerter) Run(ctx context.Context) {
	events, cancel := a.feed.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			a.handle(ev)
		}
	}
}

func (a *Alerter) handle(ev emergency.ChangeEvent) {
	if ev.New == nil {
		return
	}

	switch ev.Type {
	case emergency.EventInsert:
		pattern := ToneEmergencyOff
		if a.hours.Contains(a.now()) {
			pattern = ToneEmergencyWork
		}
		a.tone.Play(pattern)
		a.notifier.EmergencyAvailable(ev.New)
		a.cache.Invalidate(cacheKeyEmergencies)

	case emergency.EventUpdate:
		if ev.New.Status == emergency.StatusClaimed || ev.New.Status == emergency.StatusCancelled {
			a.notifier.EmergencyGone(ev.New)
			a.cache.Invalidate(cacheKeyEmergencies)
		}

	case emergency.EventDelete:
		a.cache.Invalidate(cacheKeyEmergencies)
	}
}

// ConsoleToneplayer renders tone patterns as colored console output; the real
// device maps patterns to synthesized audio.
type ConsoleToneplayer struct{}

func (ConsoleToneplayer) Play(pattern TonePattern) {
	switch pattern {
	case ToneEmergencyWork:
		color.New(color.FgRed, color.Bold).Println("\a[ALERT] ♪♪♪")
	case ToneEmergencyOff:
		color.New(color.FgYellow).Println("\a[ALERT] ♪ — ♪")
	case ToneClaimWon:
		color.New(color.FgGreen, color.Bold).Println("\a[OK] ♪♪")
	}
}

// maxDisplayedErrors bounds the per-pass error list shown to the user; the
// rest collapses into a "+N more" suffix.
const maxDisplayedErrors = 3

// ConsoleNotifier is the toast surface of the agent CLI.
type ConsoleNotifier struct{}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

// SyncSummary prints exactly one line per sync pass.
func (n *ConsoleNotifier) SyncSummary(success, failed int, errs []string) {
	switch {
	case failed == 0 && success > 0:
		color.Green("✓ %d change(s) synchronized", success)
	case success == 0 && failed > 0:
		color.Red("✗ synchronization failed, %d change(s) still queued", failed)
	case failed > 0:
		color.Yellow("⚠ %d synchronized, %d still queued", success, failed)
	default:
		return
	}

	for i, msg := range errs {
		if i == maxDisplayedErrors {
			color.Red("  +%d more", len(errs)-maxDisplayedErrors)
			break
		}
		color.Red("  %s", msg)
	}
}

func (n *ConsoleNotifier) EmergencyAvailable(em *emergency.Emergency) {
	color.New(color.FgRed, color.Bold).Printf("⚡ EMERGENCY: %s / %s (%s)\n",
		em.InterventionLabel, em.ClientName, em.Location)
	color.Red("   bonus %.2f %s, first responder wins", em.BonusAmount, em.Currency)
}

func (n *ConsoleNotifier) EmergencyGone(em *emergency.Emergency) {
	if em.Status == emergency.StatusClaimed {
		fmt.Printf("emergency %d taken by %s\n", em.ID, em.ClaimedByUserName)
		return
	}
	fmt.Printf("emergency %d cancelled\n", em.ID)
}

func (n *ConsoleNotifier) ClaimWon(em *emergency.Emergency) {
	color.New(color.FgGreen, color.Bold).Printf("✓ You got it! Bonus %.2f %s\n",
		em.BonusAmount, em.Currency)
	fmt.Printf("  %s, %s, %s\n", em.InterventionRef, em.ClientName, em.Location)
}

func (n *ConsoleNotifier) ClaimLost() {
	color.Yellow("this one was already taken")
}

func (n *ConsoleNotifier) ClaimUnavailable(err error) {
	color.Red("claim could not be sent (%v), try again later", err)
}
