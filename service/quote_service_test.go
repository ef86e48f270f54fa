package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rta-kabinets/apperr"
	"rta-kabinets/config"
	"rta-kabinets/estimate"
	"rta-kabinets/metrics"
	"rta-kabinets/models"
	"rta-kabinets/quote"
	"rta-kabinets/repository"
)

type failingSaver struct{}

func (failingSaver) Save(context.Context, string, []byte) (string, error) {
	return "", errors.New("disk full")
}

type failingCounter struct{}

func (failingCounter) Next(context.Context, string) (int, error) {
	return 0, errors.New("connection refused")
}

func quoteSession(t *testing.T, items int) *estimate.Session {
	t.Helper()
	s := estimate.NewSession("s1", time.Now())
	for i, v := range cabinetVariants()[:items] {
		s.AddVariant(v, i+1)
	}
	s.SetClient(models.ClientProfile{Name: "Jane Doe", Address: "12 Main St", Phone: "520-000-0000"})
	return s
}

func fixedNow() time.Time { return time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC) }

func TestGenerateQuote(t *testing.T) {
	dir := t.TempDir()
	svc := NewQuoteService(repository.NewMemoryCounter(), quote.NewDirSaver(dir), quote.DefaultBranding(), metrics.New())
	svc.now = fixedNow

	res, err := svc.Generate(context.Background(), quoteSession(t, 2), "")
	require.NoError(t, err)

	assert.Equal(t, "Estimate-Jane Doe-2026-03-09.pdf", res.FileName)
	assert.Equal(t, 1, res.Number)
	assert.Equal(t, 1, res.Pages)
	assert.True(t, bytes.HasPrefix(res.Data, []byte("%PDF-")))
	assert.Equal(t, filepath.Join(dir, res.FileName), res.ArchivedTo)

	onDisk, err := os.ReadFile(res.ArchivedTo)
	require.NoError(t, err)
	assert.Equal(t, res.Data, onDisk)

	res, err = svc.Generate(context.Background(), quoteSession(t, 1), " my quote ")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Number, "estimate numbers increase")
	assert.Equal(t, "my quote.pdf", res.FileName)
}

func TestGenerateQuoteRequiresClient(t *testing.T) {
	svc := NewQuoteService(repository.NewMemoryCounter(), nil, quote.DefaultBranding(), nil)
	s := estimate.NewSession("s1", time.Now())

	_, err := svc.Generate(context.Background(), s, "")
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{"name", "address", "phone"}, ve.Fields)
}

func TestGenerateQuoteArchiveFailureStillReturnsDocument(t *testing.T) {
	svc := NewQuoteService(repository.NewMemoryCounter(), failingSaver{}, quote.DefaultBranding(), nil)

	res, err := svc.Generate(context.Background(), quoteSession(t, 1), "a.pdf")
	require.Error(t, err)
	assert.True(t, apperr.IsTransient(err))
	assert.NotEmpty(t, res.Data, "the download still works")
	assert.Empty(t, res.ArchivedTo)
}

func TestGenerateQuoteCounterFailure(t *testing.T) {
	svc := NewQuoteService(failingCounter{}, nil, quote.DefaultBranding(), nil)

	_, err := svc.Generate(context.Background(), quoteSession(t, 1), "")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, apperr.HTTPStatus(err))
}

type recordingPutter struct {
	input *s3.PutObjectInput
}

func (r *recordingPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	r.input = in
	return &s3.PutObjectOutput{}, nil
}

func TestS3Saver(t *testing.T) {
	putter := &recordingPutter{}
	saver := NewS3SaverWithClient(putter, "rta-quotes", "/quotes/")

	loc, err := saver.Save(context.Background(), "Estimate-Jane", []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, "s3://rta-quotes/quotes/Estimate-Jane.pdf", loc)
	require.NotNil(t, putter.input)
	assert.Equal(t, "quotes/Estimate-Jane.pdf", aws.ToString(putter.input.Key))
	assert.Equal(t, "application/pdf", aws.ToString(putter.input.ContentType))
	assert.Equal(t, int64(8), aws.ToInt64(putter.input.ContentLength))
}

func TestNewArchiveSaver(t *testing.T) {
	saver, err := NewArchiveSaver(context.Background(), config.ArchiveConfig{Driver: config.ArchiveNone})
	require.NoError(t, err)
	assert.Nil(t, saver)

	saver, err = NewArchiveSaver(context.Background(), config.ArchiveConfig{Driver: config.ArchiveDir, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &quote.DirSaver{}, saver)

	_, err = NewArchiveSaver(context.Background(), config.ArchiveConfig{Driver: "ftp"})
	assert.Error(t, err)
}
