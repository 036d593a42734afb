package drive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
	"github.com/rudylameme/bvp-planning-sub000/internal/importer"
)

// ExportKind tells what a spreadsheet export contains, guessed from its name.
type ExportKind string

const (
	KindSales     ExportKind = "sales"
	KindTraffic   ExportKind = "traffic"
	KindReference ExportKind = "reference"
	KindUnknown   ExportKind = "unknown"
)

// Export is one downloaded spreadsheet.
type Export struct {
	File *File
	Name string
	Kind ExportKind
	Week domain.WeekOffset
	Data []byte
}

// DownloadOptions controls how files are pulled from Google Drive.
type DownloadOptions struct {
	FolderID    string
	DownloadDir string
}

// Downloader pulls the sales and traffic exports out of a Drive folder.
type Downloader struct {
	source Source
}

func NewDownloader(s Source) *Downloader {
	return &Downloader{source: s}
}

// FetchExports downloads every csv, xlsx or native Google Sheet of the
// folder into memory. Native sheets are exported as xlsx. When several files
// share a kind and week, the most recently modified wins.
func (d *Downloader) FetchExports(ctx context.Context, folderID string) ([]Export, error) {
	files, err := d.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	type slot struct {
		kind ExportKind
		week domain.WeekOffset
	}
	seen := make(map[slot]bool)

	var exports []Export
	for _, f := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		name := f.Name
		if f.IsSpreadsheet() {
			name += ".xlsx"
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".csv" && ext != ".xlsx" && ext != ".xlsm" {
			continue
		}

		kind, week := ClassifyName(name)
		key := slot{kind: kind, week: week}
		if kind != KindUnknown && seen[key] {
			log.Debug().Str("file", f.Name).Msg("skipping older export")
			continue
		}
		seen[key] = true

		var buf bytes.Buffer
		if err := d.source.DownloadFile(ctx, f, &buf); err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", f.Name, err)
		}
		exports = append(exports, Export{File: f, Name: name, Kind: kind, Week: week, Data: buf.Bytes()})
	}

	return exports, nil
}

// DownloadFolder writes the exports of the folder into opts.DownloadDir and
// returns their local paths.
func (d *Downloader) DownloadFolder(ctx context.Context, opts DownloadOptions) ([]string, error) {
	if opts.DownloadDir == "" {
		return nil, fmt.Errorf("download dir is required")
	}
	if err := os.MkdirAll(opts.DownloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}

	exports, err := d.FetchExports(ctx, opts.FolderID)
	if err != nil {
		return nil, err
	}

	var localPaths []string
	for _, e := range exports {
		localPath := filepath.Join(opts.DownloadDir, filepath.Base(e.Name))
		if err := os.WriteFile(localPath, e.Data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to create local file %s: %w", localPath, err)
		}
		localPaths = append(localPaths, localPath)
	}
	return localPaths, nil
}

var (
	salesHints     = []string{"vente", "sales", "ca article", "historique"}
	trafficHints   = []string{"frequentation", "traffic", "ticket", "passage", "affluence"}
	referenceHints = []string{"referentiel", "reference", "catalogue", "catalog"}
	lastYearHints  = []string{"n-1 an", "annee derniere", "last year", "lastyear", "ly", "an-1", "n1"}
	twoWeeksHints  = []string{"s-2", "minus two", "semaine -2", "w-2", "sem-2"}
)

// ClassifyName guesses the kind of an export and, for traffic files, which
// comparison week it covers. Traffic files default to the previous week.
func ClassifyName(name string) (ExportKind, domain.WeekOffset) {
	key := importer.FoldLabel(strings.NewReplacer("_", " ", ".", " ").Replace(strings.TrimSuffix(name, filepath.Ext(name))))
	padded := " " + key + " "

	hasAny := func(hints []string) bool {
		for _, h := range hints {
			if strings.Contains(padded, h) && (len(h) > 2 || strings.Contains(padded, " "+h+" ")) {
				return true
			}
		}
		return false
	}

	switch {
	case hasAny(trafficHints):
		switch {
		case hasAny(lastYearHints):
			return KindTraffic, domain.SameWeekLastYear
		case hasAny(twoWeeksHints):
			return KindTraffic, domain.MinusTwoWeeks
		}
		return KindTraffic, domain.MinusOneWeek
	case hasAny(referenceHints):
		return KindReference, ""
	case hasAny(salesHints):
		return KindSales, ""
	}
	return KindUnknown, ""
}
