package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SheenArtem/StockCSVDownload/internal/batch"
	"github.com/SheenArtem/StockCSVDownload/internal/collector"
	"github.com/SheenArtem/StockCSVDownload/internal/config"
	"github.com/SheenArtem/StockCSVDownload/internal/export"
	"github.com/SheenArtem/StockCSVDownload/internal/logger"
	"github.com/SheenArtem/StockCSVDownload/internal/recorder"
)

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "YAML config path")
	symbols := flag.String("symbols", "", "comma separated tickers (default: watchlist)")
	period := flag.String("period", "", "history range, e.g. 1y, 3y, max")
	interval := flag.String("interval", "", "bar interval, e.g. 1d, 1wk, 5m")
	rs := flag.String("resample", "", "aggregate intraday bars into this width, e.g. 60m")
	out := flag.String("out", ".", "output directory")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if err := logger.Setup(cfg.Log, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("logger setup")
	}

	list := cfg.Watchlist
	if *symbols != "" {
		list = nil
		for _, s := range strings.Split(*symbols, ",") {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
	}
	tmpl := collector.Request{
		Period:   firstNonEmpty(*period, cfg.Download.Period),
		Interval: firstNonEmpty(*interval, cfg.Download.Interval),
		Resample: firstNonEmpty(*rs, cfg.Download.Resample),
	}

	var chips collector.ChipSource
	if !cfg.FinMind.Disable {
		chips = collector.NewFinMindSource(cfg.FinMind.Token, cfg.Proxy)
	}
	col := collector.NewCollector(collector.NewYahooFetcher(cfg.Proxy), chips, cfg.Ownership)
	runner := batch.NewRunner(cfg.Download.Workers, cfg.Download.Timeout, recorder.NewNoopRecorder())

	rep := runner.Run(context.Background(), list, batch.CollectJob(col, tmpl))
	for _, o := range rep.Failed() {
		fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", o.Symbol, o.Err)
	}

	path, err := write(*out, rep, len(list) > 1, time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("write output")
	}
	fmt.Println(path)
	if len(rep.Failed()) > 0 {
		os.Exit(1)
	}
}

// write stores the successful frames as one ZIP archive when zipped is
// set, otherwise the single frame as CSV.
func write(dir string, rep *batch.Report, zipped bool, now time.Time) (string, error) {
	frames := rep.Frames()
	if len(frames) == 0 {
		return "", fmt.Errorf("no instrument succeeded out of %d", len(rep.Outcomes))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, export.FileName(frames[0].Symbol, now))
	if zipped {
		path = filepath.Join(dir, fmt.Sprintf("batch_%s.zip", now.Format("20060102")))
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if zipped {
		err = export.WriteZIP(f, frames, now)
	} else {
		err = export.WriteCSV(f, frames[0])
	}
	if err != nil {
		return "", err
	}
	return path, f.Close()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
