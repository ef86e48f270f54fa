package service

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"rta-kabinets/quote"
)

// DriveSaver archives generated quotes into a Google Drive folder
type DriveSaver struct {
	client   *drive.Service
	folderID string
}

var _ quote.Saver = (*DriveSaver)(nil)

// NewDriveSaver creates a DriveSaver authenticated with a Service Account.
// credentialsJSON takes precedence over credentialsPath when both are set.
func NewDriveSaver(ctx context.Context, folderID, credentialsPath, credentialsJSON string, opts ...option.ClientOption) (*DriveSaver, error) {
	switch {
	case credentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	case credentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	opts = append(opts, option.WithScopes(drive.DriveFileScope))

	client, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &DriveSaver{client: client, folderID: folderID}, nil
}

// Save uploads data as a PDF file in the folder and returns its web link,
// or the file id when Drive does not report one
func (d *DriveSaver) Save(ctx context.Context, name string, data []byte) (string, error) {
	file := &drive.File{
		Name:     quote.NormalizeName(name),
		MimeType: "application/pdf",
		Parents:  []string{d.folderID},
	}

	created, err := d.client.Files.Create(file).
		Media(bytes.NewReader(data)).
		SupportsAllDrives(true).
		Fields("id, name, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to drive: %w", file.Name, err)
	}

	zap.S().Debugf("☁️  Drive upload: name=%s id=%s", created.Name, created.Id)
	if created.WebViewLink != "" {
		return created.WebViewLink, nil
	}
	return "drive:" + created.Id, nil
}
