package service

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"golang-stock-insight/internal/insight/config"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"
)

// ReportSweeper periodically removes report directories older than the
// configured retention window.
type ReportSweeper struct {
	cfg  *config.Config
	log  *logger.Logger
	cron *cron.Cron
}

// NewReportSweeper creates a new ReportSweeper.
func NewReportSweeper(cfg *config.Config, log *logger.Logger) *ReportSweeper {
	return &ReportSweeper{cfg: cfg, log: log, cron: cron.New()}
}

// Start registers the sweep schedule and runs one sweep immediately so a
// restart does not leave stale directories until the first tick.
func (s *ReportSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Report.SweepCron, func() {
		utils.GoSafe(s.Sweep)
	}); err != nil {
		return err
	}
	utils.GoSafe(s.Sweep)
	s.cron.Start()
	s.log.Info("Report sweeper started",
		logger.StringField("schedule", s.cfg.Report.SweepCron),
		logger.IntField("retention_minutes", s.cfg.Report.RetentionMinutes),
	)
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *ReportSweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep removes every report directory whose modification time is older than
// the retention window. Individual failures are logged and skipped.
func (s *ReportSweeper) Sweep() {
	entries, err := os.ReadDir(s.cfg.Report.Dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("Report sweep failed to list directory", logger.ErrorField(err))
		}
		return
	}

	cutoff := utils.TimeNowCST().Add(-time.Duration(s.cfg.Report.RetentionMinutes) * time.Minute)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.cfg.Report.Dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			s.log.Warn("Failed to remove expired report directory", logger.ErrorField(err), logger.StringField("path", path))
			continue
		}
		removed++
	}
	if removed > 0 {
		s.log.Info("Expired report directories removed", logger.IntField("count", removed))
	}
}
