package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rta-kabinets/apperr"
	"rta-kabinets/fetch"
	"rta-kabinets/metrics"
	"rta-kabinets/models"
)

// ContentAPI is the part of the site API that stores page content
type ContentAPI interface {
	GetSection(ctx context.Context, page, key string) (models.Section, error)
	SaveSection(ctx context.Context, page, key string, in models.SectionInput) (models.Section, error)
	GetCarousel(ctx context.Context, page string) ([]models.CarouselImage, error)
	GetGallery(ctx context.Context, page, section string) ([]models.CarouselImage, error)
	AbsoluteURL(path string) string
}

// PageService loads and saves the editable sections of the public site pages
type PageService struct {
	api     ContentAPI
	latest  *fetch.Latest[models.PageContent]
	metrics *metrics.Metrics

	mu    sync.RWMutex
	pages map[string]models.PageContent
}

func NewPageService(api ContentAPI, m *metrics.Metrics) *PageService {
	return &PageService{
		api:     api,
		latest:  fetch.NewLatest[models.PageContent](),
		metrics: m,
		pages:   make(map[string]models.PageContent),
	}
}

// Load fetches the given sections of page together with its carousel.
// Every request runs in parallel and Load waits for all of them; a section or
// carousel that does not exist yet comes back empty. Loading the same page
// again before this one finishes discards this one with fetch.ErrSuperseded.
func (s *PageService) Load(ctx context.Context, page string, sections []string) (models.PageContent, error) {
	start := time.Now()
	defer s.metrics.ObserveFetch("page", start)

	content, err := s.latest.Do(ctx, "page:"+page, func(ctx context.Context) (models.PageContent, error) {
		return s.fetchPage(ctx, page, sections)
	}, func(content models.PageContent) {
		s.mu.Lock()
		s.pages[page] = content
		s.mu.Unlock()
	})
	if err != nil {
		if errors.Is(err, fetch.ErrSuperseded) || apperr.IsCanceled(err) {
			zap.S().Debugf("🔁 Page %s load discarded: %v", page, err)
		} else {
			zap.S().Errorf("❌ Failed to load page %s: %v", page, err)
		}
		return models.PageContent{}, err
	}
	zap.S().Infof("✓ Page %s loaded: %d sections, %d slides", page, len(content.Sections), len(content.Carousel))
	return content, nil
}

func (s *PageService) fetchPage(ctx context.Context, page string, sections []string) (models.PageContent, error) {
	results := make([]models.Section, len(sections))
	var carousel []models.CarouselImage

	g, gctx := errgroup.WithContext(ctx)
	for i, key := range sections {
		i, key := i, key
		g.Go(func() error {
			sec, err := s.api.GetSection(gctx, page, key)
			if errors.Is(err, apperr.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("section %s: %w", key, err)
			}
			results[i] = sec
			return nil
		})
	}
	g.Go(func() error {
		images, err := s.api.GetCarousel(gctx, page)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("carousel: %w", err)
		}
		carousel = s.absoluteImages(images)
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.PageContent{}, err
	}

	content := models.PageContent{
		Page:     page,
		Sections: make(map[string]models.Section, len(sections)),
		Carousel: carousel,
	}
	if content.Carousel == nil {
		content.Carousel = []models.CarouselImage{}
	}
	for i, key := range sections {
		content.Sections[key] = results[i]
	}
	return content, nil
}

// Cached returns the last page content that was fully loaded
func (s *PageService) Cached(page string) (models.PageContent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.pages[page]
	return c, ok
}

// SaveSection optimizes the image, if any, posts the section and returns the
// stored version as read back from the API
func (s *PageService) SaveSection(ctx context.Context, page, key string, in models.SectionInput) (models.Section, error) {
	if strings.TrimSpace(page) == "" || strings.TrimSpace(key) == "" {
		return models.Section{}, apperr.Validation(errors.New("page and section key are required"), "page", "key")
	}

	if len(in.Image) > 0 {
		optimized, err := OptimizeImage(in.Image, ProfileUpload)
		if err != nil {
			return models.Section{}, apperr.Validation(err, "image")
		}
		in.Image = optimized
		in.ImageName = jpegName(in.ImageName, key)
	}

	start := time.Now()
	saved, err := s.api.SaveSection(ctx, page, key, in)
	s.metrics.ObserveFetch("save_section", start)
	if err != nil {
		zap.S().Errorf("❌ Failed to save section %s/%s: %v", page, key, err)
		return models.Section{}, err
	}

	s.mu.Lock()
	if c, ok := s.pages[page]; ok {
		sections := make(map[string]models.Section, len(c.Sections)+1)
		for k, v := range c.Sections {
			sections[k] = v
		}
		sections[key] = saved
		c.Sections = sections
		s.pages[page] = c
	}
	s.mu.Unlock()

	zap.S().Infof("✓ Section %s/%s saved", page, key)
	return saved, nil
}

// Gallery returns the images of one page gallery with absolute paths
func (s *PageService) Gallery(ctx context.Context, page, section string) ([]models.CarouselImage, error) {
	images, err := s.api.GetGallery(ctx, page, section)
	if errors.Is(err, apperr.ErrNotFound) {
		return []models.CarouselImage{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.absoluteImages(images), nil
}

func (s *PageService) absoluteImages(images []models.CarouselImage) []models.CarouselImage {
	out := make([]models.CarouselImage, len(images))
	for i, img := range images {
		img.Path = s.api.AbsoluteURL(strings.ReplaceAll(img.Path, `\`, "/"))
		out[i] = img
	}
	return out
}

// jpegName swaps the extension of an uploaded file name for .jpg
func jpegName(name, key string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return key + ".jpg"
	}
	if dot := strings.LastIndex(name, "."); dot > 0 {
		name = name[:dot]
	}
	return name + ".jpg"
}
