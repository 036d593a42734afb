package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
	"github.com/rudylameme/bvp-planning-sub000/internal/drive"
)

var ErrDriveDisabled = errors.New("google drive source is not configured")

type driveImporter struct {
	downloader *drive.Downloader
	folderID   string
}

// WithDrive lets sessions import their exports straight from a Drive
// folder. folderID is used when a request names no folder.
func (s *SessionService) WithDrive(source drive.Source, folderID string) *SessionService {
	if source != nil {
		s.drive = &driveImporter{downloader: drive.NewDownloader(source), folderID: folderID}
	}
	return s
}

// DriveImportReport lists what a Drive import used and skipped.
type DriveImportReport struct {
	Sales   string                       `json:"sales,omitempty"`
	Traffic map[domain.WeekOffset]string `json:"traffic,omitempty"`
	Skipped []string                     `json:"skipped,omitempty"`
}

// ImportFromDrive imports the newest sales export and the newest traffic
// export of each comparison week found in the folder. Traffic is imported
// after sales so potentials are estimated once with the final weights.
func (s *SessionService) ImportFromDrive(ctx context.Context, id, folderID string) (*domain.Session, DriveImportReport, error) {
	report := DriveImportReport{Traffic: make(map[domain.WeekOffset]string)}
	if s.drive == nil {
		return nil, report, ErrDriveDisabled
	}
	if folderID == "" {
		folderID = s.drive.folderID
	}
	if folderID == "" {
		return nil, report, domain.ValidationErrors{{Field: "folder_id", Message: "is required"}}
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, report, err
	}

	exports, err := s.drive.downloader.FetchExports(ctx, folderID)
	if err != nil {
		return nil, report, fmt.Errorf("failed to fetch drive exports: %w", err)
	}

	var sales *drive.Export
	var traffic []drive.Export
	for i := range exports {
		e := exports[i]
		switch {
		case e.Kind == drive.KindSales && sales == nil:
			sales = &exports[i]
		case e.Kind == drive.KindTraffic:
			traffic = append(traffic, e)
		default:
			report.Skipped = append(report.Skipped, e.Name)
		}
	}
	if sales == nil && len(traffic) == 0 {
		return nil, report, fmt.Errorf("folder %s: no sales or traffic export: %w", folderID, domain.ErrNotFound)
	}

	var sess *domain.Session
	if sales != nil {
		if sess, err = s.ImportSales(ctx, id, sales.Name, bytes.NewReader(sales.Data)); err != nil {
			return nil, report, err
		}
		report.Sales = sales.Name
	}
	for _, e := range traffic {
		if sess, err = s.ImportTraffic(ctx, id, e.Week, "", e.Name, bytes.NewReader(e.Data)); err != nil {
			return nil, report, err
		}
		report.Traffic[e.Week] = e.Name
	}

	log.Info().
		Str("session", id).
		Str("folder", folderID).
		Int("skipped", len(report.Skipped)).
		Msg("drive exports imported")
	return sess, report, nil
}
