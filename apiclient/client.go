package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"rta-kabinets/apperr"
	"rta-kabinets/models"
)

const defaultTimeout = 15 * time.Second

var httpScheme = regexp.MustCompile(`(?i)^http://`)

// Client talks to the public site API that owns products, variants and page sections
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for baseURL, e.g. "https://api.rtakabinetsolutions.com".
// A zero timeout uses 15s.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the API root without trailing slash
func (c *Client) BaseURL() string { return c.baseURL }

// ListVariants fetches every product variant, GET /api/product-variants/admin/all
func (c *Client) ListVariants(ctx context.Context) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if err := c.getJSON(ctx, "/api/product-variants/admin/all", &variants); err != nil {
		return nil, err
	}
	zap.S().Debugf("📦 ListVariants: fetched %d variants", len(variants))
	return variants, nil
}

// GetSection fetches one page section, GET /api/section/:page/:key.
// The image URL is returned absolute.
func (c *Client) GetSection(ctx context.Context, page, key string) (models.Section, error) {
	var s models.Section
	if err := c.getJSON(ctx, sectionPath(page, key), &s); err != nil {
		return models.Section{}, err
	}
	s.ImageURL = c.AbsoluteURL(s.ImageURL)
	return s, nil
}

// SaveSection posts a section as multipart form data and reads it back,
// so the caller gets what the server actually stored
func (c *Client) SaveSection(ctx context.Context, page, key string, in models.SectionInput) (models.Section, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("title", in.Title); err != nil {
		return models.Section{}, fmt.Errorf("failed to write title field: %w", err)
	}
	if err := mw.WriteField("description", in.Description); err != nil {
		return models.Section{}, fmt.Errorf("failed to write description field: %w", err)
	}
	if len(in.Image) > 0 {
		name := in.ImageName
		if name == "" {
			name = key + ".jpg"
		}
		fw, err := mw.CreateFormFile("image", name)
		if err != nil {
			return models.Section{}, fmt.Errorf("failed to create image field: %w", err)
		}
		if _, err := fw.Write(in.Image); err != nil {
			return models.Section{}, fmt.Errorf("failed to write image field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return models.Section{}, fmt.Errorf("failed to close multipart body: %w", err)
	}

	op := "save section " + page + "/" + key
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sectionPath(page, key), body)
	if err != nil {
		return models.Section{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Section{}, wrapTransport(ctx, op, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(op, resp); err != nil {
		return models.Section{}, err
	}
	zap.S().Infof("💾 SaveSection: saved %s/%s", page, key)

	return c.GetSection(ctx, page, key)
}

// GetCarousel fetches the slides of a page, GET /api/carousel/:page
func (c *Client) GetCarousel(ctx context.Context, page string) ([]models.CarouselImage, error) {
	return c.getImages(ctx, "/api/carousel/"+url.PathEscape(page))
}

// GetGallery fetches the images of a page section gallery, GET /api/gallery/:page/:section
func (c *Client) GetGallery(ctx context.Context, page, section string) ([]models.CarouselImage, error) {
	return c.getImages(ctx, "/api/gallery/"+url.PathEscape(page)+"/"+url.PathEscape(section))
}

func (c *Client) getImages(ctx context.Context, path string) ([]models.CarouselImage, error) {
	var out models.CarouselResponse
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	images := make([]models.CarouselImage, 0, len(out.Images))
	for _, img := range out.Images {
		img.Path = c.AbsoluteURL(strings.ReplaceAll(img.Path, "\\", "/"))
		images = append(images, img)
	}
	return images, nil
}

// AbsoluteURL resolves an upload path against the API root and forces https.
// Empty paths stay empty.
func (c *Client) AbsoluteURL(path string) string {
	if path == "" {
		return ""
	}
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return httpScheme.ReplaceAllString(path, "https://")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return httpScheme.ReplaceAllString(c.baseURL+path, "https://")
}

// Fetch downloads a raw resource such as an uploaded image
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapTransport(ctx, "fetch "+rawURL, err)
	}
	defer resp.Body.Close()
	if err := checkStatus("fetch "+rawURL, resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapTransport(ctx, "read "+rawURL, err)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	op := "GET " + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapTransport(ctx, op, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(op, resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return wrapTransport(ctx, op, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func sectionPath(page, key string) string {
	return "/api/section/" + url.PathEscape(page) + "/" + url.PathEscape(key)
}

// wrapTransport keeps cancellation errors as they are so callers can drop them quietly
func wrapTransport(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%s: %w", op, context.Canceled)
	}
	return apperr.Transient(op, err)
}

func checkStatus(op string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	case resp.StatusCode >= 300:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return apperr.Transient(op, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))))
	}
	return nil
}
