package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ticketflow-dev/ticketflow/db"
	"github.com/ticketflow-dev/ticketflow/internal/models"
	"github.com/ticketflow-dev/ticketflow/internal/services"
	"github.com/ticketflow-dev/ticketflow/internal/types"
)

const (
	sweepInterval = time.Hour
	dueSoonWindow = 24 * time.Hour
)

// Scheduler periodically scans for open tickets approaching their due
// date and emails the assignee. reminded records the due date each
// reminder was sent for, so a ticket whose due date is pushed out gets
// a fresh reminder when the new date approaches, and entries are
// dropped once their due date has passed.
type Scheduler struct {
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	reminded map[uint]time.Time
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:      ctx,
		cancel:   cancel,
		reminded: make(map[uint]time.Time),
	}
}

// Start runs an immediate sweep, then keeps sweeping on a fixed
// interval until Stop is called.
func (s *Scheduler) Start() {
	logrus.Info("Starting due-date reminder scheduler")

	go func() {
		s.sweep()

		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	logrus.Info("Stopping due-date reminder scheduler")
	s.cancel()
}

// shouldRemind reports whether no reminder has been sent yet for this
// ticket at this due date.
func (s *Scheduler) shouldRemind(ticketID uint, due time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sentFor, ok := s.reminded[ticketID]
	return !ok || !sentFor.Equal(due)
}

func (s *Scheduler) markReminded(ticketID uint, due time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reminded[ticketID] = due
}

// prune drops bookkeeping for tickets whose recorded due date has
// passed; those can never match an upcoming sweep again.
func (s *Scheduler) prune(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ticketID, sentFor := range s.reminded {
		if sentFor.Before(now) {
			delete(s.reminded, ticketID)
		}
	}
}

func (s *Scheduler) sweep() {
	now := time.Now()
	s.prune(now)

	var tickets []models.Ticket

	err := db.DB.Preload("Assignee").Preload("Project").
		Where("due_date BETWEEN ? AND ?", now, now.Add(dueSoonWindow)).
		Where("status <> ?", types.StatusDone).
		Where("assignee_id IS NOT NULL").
		Find(&tickets).Error

	if err != nil {
		logrus.Errorf("Due-date sweep failed: %v", err)
		return
	}

	for _, ticket := range tickets {
		if ticket.Assignee == nil || ticket.DueDate == nil {
			continue
		}

		if !s.shouldRemind(ticket.ID, *ticket.DueDate) {
			continue
		}

		if err := services.SendDueSoonReminder(ticket.Assignee.Email, ticket.Title, ticket.Project.Name, *ticket.DueDate); err != nil {
			logrus.Warnf("Failed to send due-soon reminder for ticket %d: %v", ticket.ID, err)
			continue
		}

		s.markReminded(ticket.ID, *ticket.DueDate)
	}
}

// Global scheduler instance
var globalScheduler *Scheduler

func Initialize() {
	globalScheduler = NewScheduler()
	globalScheduler.Start()
}

func Shutdown() {
	if globalScheduler != nil {
		globalScheduler.Stop()
	}
}
