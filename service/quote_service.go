package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"rta-kabinets/apperr"
	"rta-kabinets/estimate"
	"rta-kabinets/metrics"
	"rta-kabinets/quote"
	"rta-kabinets/repository"
)

// QuoteResult is a rendered quote ready to be downloaded
type QuoteResult struct {
	FileName   string
	Data       []byte
	Number     int
	Pages      int
	ArchivedTo string
}

// QuoteService turns an estimate session into a PDF quote
type QuoteService struct {
	counter  repository.Counter
	saver    quote.Saver
	branding quote.Branding
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewQuoteService creates a QuoteService. saver and m may be nil.
func NewQuoteService(counter repository.Counter, saver quote.Saver, branding quote.Branding, m *metrics.Metrics) *QuoteService {
	return &QuoteService{
		counter:  counter,
		saver:    saver,
		branding: branding,
		metrics:  m,
		now:      time.Now,
	}
}

// Generate renders the quote of session. The client name, address and phone
// must be filled in. fileName is normalized; when empty a name is derived from
// the client and the date.
//
// When archiving fails the rendered document is still returned, together with
// a transient error, so the caller can fall back to the download.
func (s *QuoteService) Generate(ctx context.Context, session *estimate.Session, fileName string) (QuoteResult, error) {
	profile, items, err := session.QuoteInput()
	if err != nil {
		return QuoteResult{}, err
	}

	number, err := s.counter.Next(ctx, repository.EstimateCounter)
	if err != nil {
		s.metrics.QuoteGenerated("error", 0)
		return QuoteResult{}, apperr.Transient("next estimate number", err)
	}

	date := s.now()
	name := quote.DefaultFileName(profile.Name, date)
	if strings.TrimSpace(fileName) != "" {
		name = quote.NormalizeName(fileName)
	}

	meta := quote.Meta{Number: number, Date: date}
	canvas := quote.NewPDFCanvas("Estimate #"+meta.EstimateNumber(), date)
	layout := quote.Render(canvas, s.branding, profile, items, meta)

	data, err := canvas.Bytes()
	if err != nil {
		s.metrics.QuoteGenerated("error", 0)
		return QuoteResult{}, fmt.Errorf("failed to write quote PDF: %w", err)
	}

	res := QuoteResult{
		FileName: name,
		Data:     data,
		Number:   number,
		Pages:    layout.Pages,
	}
	zap.S().Infof("📄 Quote #%s rendered: %d items, %d pages, %d bytes", meta.EstimateNumber(), len(items), layout.Pages, len(data))

	if s.saver != nil {
		location, err := s.saver.Save(ctx, name, data)
		if err != nil {
			zap.S().Warnf("⚠️  Failed to archive quote %s: %v", name, err)
			s.metrics.QuoteGenerated("archive_failed", layout.Pages)
			return res, apperr.Transient("archive quote", err)
		}
		res.ArchivedTo = location
		zap.S().Infof("💾 Quote %s archived to %s", name, location)
	}

	s.metrics.QuoteGenerated("ok", layout.Pages)
	return res, nil
}
