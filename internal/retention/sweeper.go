package retention

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/singleflight"

	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/jobs"
	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/pkg/log"
)

// Sweeper removes finished jobs and their on-disk artifacts once they
// outlive the retention window. Running jobs are never touched.
type Sweeper struct {
	store    *jobs.Store
	dataDirs []string
	ttl      time.Duration
	cronExpr string
	cron     *cron.Cron
}

func NewSweeper(
	store *jobs.Store,
	dataDirs []string,
	ttl time.Duration,
	cronExpr string,
	c *cron.Cron,
) *Sweeper {
	return &Sweeper{
		store:    store,
		dataDirs: dataDirs,
		ttl:      ttl,
		cronExpr: cronExpr,
		cron:     c,
	}
}

var sweepGroup singleflight.Group

// Schedule registers the periodic sweep on the injected cron runner.
// Sweeps stop once ctx is cancelled.
func (s *Sweeper) Schedule(ctx context.Context) error {
	runFunc := func() {
		_, _, _ = sweepGroup.Do("sweep", func() (any, error) {
			if ctx.Err() != nil {
				return nil, nil
			}
			removed := s.Sweep(time.Now())
			if removed > 0 {
				log.Info("Retention sweep removed %d expired jobs", removed)
			}
			return nil, nil
		})
	}
	_, err := s.cron.AddFunc(s.cronExpr, runFunc)
	return err
}

// Sweep runs one retention pass and returns the number of removed jobs.
func (s *Sweeper) Sweep(now time.Time) int {
	removed := 0
	for _, job := range s.store.List() {
		if !job.Status.Terminal() {
			continue
		}
		if now.Sub(job.UpdatedAt) < s.ttl {
			continue
		}

		s.removeArtifacts(job)
		s.store.Delete(job.ID)
		removed++
		log.Info("Removed expired job %s (%s since last update)", job.ID, now.Sub(job.UpdatedAt).Truncate(time.Second))
	}
	return removed
}

// removeArtifacts deletes every file the job left behind. Artifacts
// carry the job ID as a filename prefix, which is what we match on.
func (s *Sweeper) removeArtifacts(job jobs.Job) {
	if job.Source.UploadPath != "" {
		if err := os.Remove(job.Source.UploadPath); err != nil && !os.IsNotExist(err) {
			log.Warn("Failed to remove upload %s: %v", job.Source.UploadPath, err)
		}
	}

	for _, dir := range s.dataDirs {
		matches, err := filepath.Glob(filepath.Join(dir, job.ID+"*"))
		if err != nil {
			continue
		}
		for _, match := range matches {
			if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
				log.Warn("Failed to remove artifact %s: %v", match, err)
			}
		}
	}
}
