package service

import (
	"context"
	"fmt"

	"rta-kabinets/config"
	"rta-kabinets/quote"
)

// NewArchiveSaver builds the quote archive selected by QUOTE_ARCHIVE.
// It returns nil when archiving is off; quotes are then only downloaded.
func NewArchiveSaver(ctx context.Context, cfg config.ArchiveConfig) (quote.Saver, error) {
	switch cfg.Driver {
	case config.ArchiveNone, "":
		return nil, nil
	case config.ArchiveDir:
		return quote.NewDirSaver(cfg.Dir), nil
	case config.ArchiveDrive:
		saver, err := NewDriveSaver(ctx, cfg.DriveFolderID, cfg.CredentialsPath, cfg.CredentialsJSON)
		if err != nil {
			return nil, err
		}
		return saver, nil
	case config.ArchiveS3:
		saver, err := NewS3Saver(ctx, S3Archive{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return saver, nil
	default:
		return nil, fmt.Errorf("unknown quote archive %q", cfg.Driver)
	}
}
