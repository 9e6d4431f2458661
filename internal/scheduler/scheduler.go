package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/SheenArtem/StockCSVDownload/internal/batch"
	"github.com/SheenArtem/StockCSVDownload/internal/collector"
	"github.com/SheenArtem/StockCSVDownload/internal/export"
	"github.com/SheenArtem/StockCSVDownload/internal/notifier"
)

// Notifier delivers reports. *notifier.TelegramNotifier satisfies it.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
	SendDocumentWithRetry(ctx context.Context, doc notifier.Document, caption string, maxRetries int) error
}

// Options controls what a refresh downloads and where it goes.
type Options struct {
	Watchlist []string
	Request   collector.Request // Symbol is ignored
	ExportDir string
}

// Scheduler manages the periodic watchlist refresh and chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Runner    *batch.Runner
	Notifier  Notifier // nil disables notifications
	Options   Options
	Ctx       context.Context

	running atomic.Bool
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, runner *batch.Runner, n Notifier, opts Options) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Runner:    runner,
		Notifier:  n,
		Options:   opts,
		Ctx:       ctx,
	}
}

// RegisterAll registers the refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunRefreshNow executes the refresh immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	rep, _, err := s.RunRefresh(s.Ctx)
	if err == nil {
		return
	}
	log.Error().Err(err).Msg("refresh failed")
	if errors.Is(err, ErrNoResults) && rep != nil {
		s.trySend(notifier.FitLines(notifier.FormatBatchReport(rep), notifier.MaxMessage))
		return
	}
	s.trySend(fmt.Sprintf("❌ 資料更新失敗: %s", html.EscapeString(err.Error())))
}

var (
	// ErrBusy is returned when a refresh is already in progress.
	ErrBusy = errors.New("refresh already running")
	// ErrNoResults is returned when every instrument of a refresh failed.
	ErrNoResults = errors.New("no instrument succeeded")
)

// RunRefresh downloads the watchlist, writes the archive into the export
// directory and sends the report. It returns the report and archive path.
func (s *Scheduler) RunRefresh(ctx context.Context) (*batch.Report, string, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, "", ErrBusy
	}
	defer s.running.Store(false)

	log.Info().Strs("watchlist", s.Options.Watchlist).Msg("running refresh")
	rep := s.Runner.Run(ctx, s.Options.Watchlist, batch.CollectJob(s.Collector, s.Options.Request))

	frames := rep.Frames()
	if len(frames) == 0 {
		return rep, "", fmt.Errorf("%w out of %d", ErrNoResults, len(rep.Outcomes))
	}

	var buf bytes.Buffer
	if err := export.WriteZIP(&buf, frames, rep.Started); err != nil {
		return rep, "", fmt.Errorf("build archive: %w", err)
	}
	name := archiveName(rep.Started)
	if err := os.MkdirAll(s.Options.ExportDir, 0o755); err != nil {
		return rep, "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(s.Options.ExportDir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return rep, "", fmt.Errorf("write archive: %w", err)
	}
	log.Info().Str("path", path).Int("files", len(frames)).Msg("archive written")

	if s.Notifier != nil {
		s.sendArchive(ctx, notifier.Document{Name: name, Data: buf.Bytes()}, notifier.FormatBatchReport(rep))
	}
	return rep, path, nil
}

// sendArchive attaches the report as the caption when it fits, otherwise
// sends it as a message of its own ahead of the archive.
func (s *Scheduler) sendArchive(ctx context.Context, doc notifier.Document, report string) {
	caption := report
	if notifier.TextLen(report) > notifier.MaxCaption {
		if err := s.Notifier.SendWithRetry(ctx, notifier.FitLines(report, notifier.MaxMessage), 3); err != nil {
			log.Error().Err(err).Msg("send refresh report")
		}
		caption = "📦 " + html.EscapeString(doc.Name)
	}
	if err := s.Notifier.SendDocumentWithRetry(ctx, doc, caption, 3); err != nil {
		log.Error().Err(err).Msg("send refresh archive")
	}
}

func archiveName(at time.Time) string {
	return fmt.Sprintf("watchlist_%s.zip", at.Format("20060102_1504"))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) notifier.Reply {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.Reply{Text: helpText}
	}
	switch fields[0] {
	case "/scan", "查詢":
		if len(fields) < 2 {
			return notifier.Reply{Text: "用法: /scan 2330"}
		}
		return s.scan(ctx, fields[1])
	case "/refresh", "更新":
		if s.running.Load() {
			return notifier.Reply{Text: "⏳ 更新進行中，請稍候"}
		}
		go s.refreshTask()
		return notifier.Reply{Text: fmt.Sprintf("🔄 開始更新 %d 檔標的", len(s.Options.Watchlist))}
	case "/watchlist", "清單":
		return notifier.Reply{Text: "📋 " + html.EscapeString(strings.Join(s.Options.Watchlist, ", "))}
	default:
		return notifier.Reply{Text: helpText}
	}
}

const helpText = "可用命令:\n• /scan 代號 - 下載單檔 CSV\n• /refresh - 更新觀察清單\n• /watchlist - 查看觀察清單"

func (s *Scheduler) scan(ctx context.Context, symbol string) notifier.Reply {
	req := s.Options.Request
	req.Symbol = symbol
	res, err := s.Collector.Collect(ctx, req)
	if err != nil {
		log.Warn().Str("symbol", symbol).Err(err).Msg("scan failed")
		return notifier.Reply{Text: fmt.Sprintf("❌ %s: %s", html.EscapeString(symbol), html.EscapeString(err.Error()))}
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, res.Frame); err != nil {
		return notifier.Reply{Text: fmt.Sprintf("❌ 匯出失敗: %s", html.EscapeString(err.Error()))}
	}
	return notifier.Reply{
		Text: notifier.FormatSnapshot(res.Frame),
		Document: &notifier.Document{
			Name: export.FileName(res.Ticker.Symbol, time.Now()),
			Data: buf.Bytes(),
		},
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
