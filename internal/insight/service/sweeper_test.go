package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-insight/internal/insight/config"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"
)

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Report.Dir = dir
	cfg.Report.RetentionMinutes = 60

	expired := filepath.Join(dir, "600519_SH_20240101_120000")
	fresh := filepath.Join(dir, "000001_SZ_20990101_120000")
	require.NoError(t, os.Mkdir(expired, 0o755))
	require.NoError(t, os.Mkdir(fresh, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(expired, "report.pdf"), []byte("x"), 0o644))

	old := utils.TimeNowCST().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(expired, old, old))

	sweeper := NewReportSweeper(cfg, logger.NewNop())
	sweeper.Sweep()

	assert.NoDirExists(t, expired)
	assert.DirExists(t, fresh)
}

func TestSweepIgnoresFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Report.Dir = dir
	cfg.Report.RetentionMinutes = 60

	stray := filepath.Join(dir, "stray.txt")
	require.NoError(t, os.WriteFile(stray, []byte("x"), 0o644))
	old := utils.TimeNowCST().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stray, old, old))

	sweeper := NewReportSweeper(cfg, logger.NewNop())
	sweeper.Sweep()
	assert.FileExists(t, stray)
}

func TestSweepMissingDir(t *testing.T) {
	cfg := &config.Config{}
	cfg.Report.Dir = filepath.Join(t.TempDir(), "does-not-exist")
	cfg.Report.RetentionMinutes = 60

	// Must not panic or create the directory.
	NewReportSweeper(cfg, logger.NewNop()).Sweep()
	assert.NoDirExists(t, cfg.Report.Dir)
}
