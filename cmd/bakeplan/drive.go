package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/rudylameme/bvp-planning-sub000/internal/config"
	"github.com/rudylameme/bvp-planning-sub000/internal/drive"
)

func driveCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "drive",
		Usage: "Work with the store exports kept on Google Drive",
		Subcommands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Download the sales and traffic exports of a Drive folder",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "credentials-file",
						Usage: "Service account JSON file (defaults to GOOGLE_DRIVE_CREDENTIALS_JSON)",
					},
					&cli.StringFlag{
						Name:  "folder",
						Usage: "Drive folder id",
						Value: cfg.Drive.FolderID,
					},
					&cli.StringFlag{
						Name:  "path",
						Usage: "Drive folder path, used when no folder id is given",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Local download directory",
						Value: "./data/drive",
					},
				},
				Action: func(c *cli.Context) error { return runDriveFetch(c, cfg) },
			},
		},
	}
}

func runDriveFetch(c *cli.Context, cfg *config.Config) error {
	credentials := cfg.Drive.CredentialsJSON
	if path := c.String("credentials-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read credentials: %w", err)
		}
		credentials = string(data)
	}
	if credentials == "" {
		return fmt.Errorf("google drive credentials are required")
	}

	svc, err := drive.NewService(c.Context, credentials)
	if err != nil {
		return err
	}

	folderID := c.String("folder")
	if folderID == "" {
		if folderID, err = svc.FindFolderByPath(c.Context, c.String("path")); err != nil {
			return err
		}
	}

	paths, err := drive.NewDownloader(svc).DownloadFolder(c.Context, drive.DownloadOptions{
		FolderID:    folderID,
		DownloadDir: c.String("out"),
	})
	if err != nil {
		return err
	}

	for _, p := range paths {
		kind, week := drive.ClassifyName(p)
		log.Info().Str("path", p).Str("kind", string(kind)).Str("week", string(week)).Msg("export downloaded")
	}
	fmt.Fprintf(c.App.Writer, "%d exports downloaded to %s\n", len(paths), c.String("out"))
	return nil
}
