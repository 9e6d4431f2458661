package main

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SheenArtem/StockCSVDownload/internal/batch"
	"github.com/SheenArtem/StockCSVDownload/internal/collector"
	"github.com/SheenArtem/StockCSVDownload/internal/model"
)

var exportDay = time.Date(2025, 1, 31, 16, 0, 0, 0, time.UTC)

func report(symbols ...string) *batch.Report {
	rep := &batch.Report{}
	for _, s := range symbols {
		if s == "BAD" {
			rep.Outcomes = append(rep.Outcomes, batch.Outcome{Symbol: s, Err: errors.New("no data")})
			continue
		}
		bars := []model.Bar{{Time: exportDay, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1}}
		rep.Outcomes = append(rep.Outcomes, batch.Outcome{Symbol: s, Result: &collector.Result{
			Ticker: collector.Ticker{Symbol: s},
			Frame:  model.NewFrame(s, "1d", bars),
		}})
	}
	return rep
}

func TestWrite_SingleSymbolIsCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := write(dir, report("2330.TW"), false, exportDay)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2330.TW_20250131.csv"), path)
}

func TestWrite_SeveralRequestedIsZIPEvenWithOneSurvivor(t *testing.T) {
	dir := t.TempDir()
	path, err := write(dir, report("2330.TW", "BAD"), true, exportDay)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "batch_20250131.zip"), path)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	assert.Equal(t, "2330.TW_20250131.csv", zr.File[0].Name)
}

func TestWrite_NothingSucceeded(t *testing.T) {
	dir := t.TempDir()
	_, err := write(dir, report("BAD"), true, exportDay)
	assert.Error(t, err)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}
