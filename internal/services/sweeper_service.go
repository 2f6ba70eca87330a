package services

import (
	"context"
	"log"
	"sync"
	"time"

	repository "github.com/UT-B-VIMAL/hrms-backend/internal/repositories"
)

// SweeperService force-closes timeline rows left open past the configured
// local wall-clock time, crediting partial time to their items. It is the
// safety net for users who never paused before the day ended.
//
// Unlike manual pauses, a sweep writes no history entries; forced closes
// are only logged.
type SweeperService struct {
	timelines *repository.TimelineRepository
	loc       *time.Location
	hour      int
	minute    int
	clock     func() time.Time

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewSweeperService(timelines *repository.TimelineRepository, loc *time.Location, hour, minute int) *SweeperService {
	return &SweeperService{
		timelines: timelines,
		loc:       loc,
		hour:      hour,
		minute:    minute,
		clock:     time.Now,
		stop:      make(chan struct{}),
	}
}

// Start launches the daily loop. Call Shutdown to stop it.
func (s *SweeperService) Start() {
	s.wg.Add(1)
	go s.loop()
}

func (s *SweeperService) loop() {
	defer s.wg.Done()

	for {
		next := s.nextRun(s.clock())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-timer.C:
			closed, err := s.SweepOnce(context.Background(), s.clock())
			if err != nil {
				log.Printf("sweep: %v", err)
			} else if closed > 0 {
				log.Printf("sweep: force-closed %d timeline entries", closed)
			}
		case <-s.stop:
			timer.Stop()
			return
		}
	}
}

// nextRun returns the next occurrence of the configured wall-clock time in
// the configured zone, strictly after now.
func (s *SweeperService) nextRun(now time.Time) time.Time {
	local := now.In(s.loc)
	run := time.Date(local.Year(), local.Month(), local.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !run.After(local) {
		run = run.AddDate(0, 0, 1)
	}
	return run
}

// SweepOnce closes every row still open through the end of the local day,
// crediting elapsed time and clearing the owning item's active flag. The
// scan reaches back past today so a run after downtime also catches rows
// left dangling on earlier days.
// Rows whose start lies in the future are skipped: crediting negative time
// from clock skew would corrupt the worked total.
func (s *SweeperService) SweepOnce(ctx context.Context, now time.Time) (int, error) {
	local := now.In(s.loc)
	dayEnd := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1)

	rows, err := s.timelines.ListOpenBefore(ctx, dayEnd)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, row := range rows {
		if row.StartTime.After(now) {
			log.Printf("sweep: skipping entry %s, start time is in the future", row.ID)
			continue
		}

		elapsed, ok, err := s.timelines.ForceClose(ctx, row.ID, now)
		if err != nil {
			log.Printf("sweep: close entry %s: %v", row.ID, err)
			continue
		}
		if !ok {
			// Someone paused it between the listing and now.
			continue
		}
		log.Printf("sweep: closed entry %s for user %s, credited %s", row.ID, row.UserID, elapsed)
		closed++
	}

	return closed, nil
}

// Shutdown stops the loop and waits for an in-flight sweep to finish.
func (s *SweeperService) Shutdown() {
	close(s.stop)
	s.wg.Wait()
}
