package service

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rta-kabinets/catalog"
	"rta-kabinets/models"
	"rta-kabinets/quote"
	"rta-kabinets/utils"
)

const productsPerPage = 9

//go:embed templates/brochure.html
var templateFS embed.FS

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

var brochureTemplate = template.Must(template.New("brochure.html").Funcs(template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
	// only data: URIs built by embedImages and https upload URLs reach the template
	"safeURL": func(s string) template.URL { return template.URL(s) },
	"swatch": func(hex string) template.CSS {
		if hexColor.MatchString(hex) {
			return template.CSS(hex)
		}
		return template.CSS("#dddddd")
	},
}).ParseFS(templateFS, "templates/brochure.html"))

// ImageFetcher downloads product pictures from the site API
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
	AbsoluteURL(path string) string
}

// CatalogService renders the printable product brochure from the catalog index
type CatalogService struct {
	store      *CatalogStore
	images     ImageFetcher
	cache      *ImageCache
	branding   quote.Branding
	chromePath string
	now        func() time.Time
}

// NewCatalogService creates a CatalogService. images and cache may be nil, in
// which case pictures are linked instead of embedded.
func NewCatalogService(store *CatalogStore, images ImageFetcher, cache *ImageCache, branding quote.Branding, chromePath string) *CatalogService {
	return &CatalogService{
		store:      store,
		images:     images,
		cache:      cache,
		branding:   branding,
		chromePath: chromePath,
		now:        time.Now,
	}
}

// detectChromePath returns the configured Chrome/Chromium binary if it exists,
// then the first of the common installation paths found. "" lets chromedp search.
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
		zap.S().Warnf("⚠️  CHROME_PATH %s not found, looking for a browser", configured)
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// paginateProducts splits products into pages of 9. An empty catalog still gets one page.
func paginateProducts(products []models.BrochureProduct) [][]models.BrochureProduct {
	if len(products) == 0 {
		return [][]models.BrochureProduct{{}}
	}
	var pages [][]models.BrochureProduct
	for i := 0; i < len(products); i += productsPerPage {
		end := i + productsPerPage
		if end > len(products) {
			end = len(products)
		}
		pages = append(pages, products[i:end])
	}
	return pages
}

// BrochureData builds the template data for the products matching query
func (s *CatalogService) BrochureData(query string) models.BrochureData {
	groups := s.store.Index().Filter(query)
	products := make([]models.BrochureProduct, 0, len(groups))
	for _, g := range groups {
		cg := catalog.Describe(g)
		min, max := catalog.PriceRange(g)
		p := models.BrochureProduct{
			Name:        cg.Name,
			Description: cg.Description,
			Colors:      cg.Colors,
			Sizes:       cg.Sizes,
			PriceLabel:  utils.FormatPriceRange(s.branding.Currency, min, max),
		}
		if cg.ImagePath != "" && s.images != nil {
			p.ImageURL = s.images.AbsoluteURL(cg.ImagePath)
		}
		products = append(products, p)
	}

	return models.BrochureData{
		BusinessName: s.branding.BusinessName,
		Tagline:      strings.Join(s.branding.Tagline, " "),
		Query:        strings.TrimSpace(query),
		Pages:        paginateProducts(products),
		GeneratedAt:  s.now().Format(s.branding.DateLayout),
	}
}

// embedImages replaces picture URLs with optimized JPEG data URIs so the
// brochure renders without further network access. Pictures that cannot be
// fetched are dropped from their card; a canceled ctx stops the whole pass.
func (s *CatalogService) embedImages(ctx context.Context, data *models.BrochureData) error {
	if s.images == nil {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for pi := range data.Pages {
		for i := range data.Pages[pi] {
			p := &data.Pages[pi][i]
			if p.ImageURL == "" {
				continue
			}
			g.Go(func() error {
				src, err := s.thumbnail(gctx, p.ImageURL)
				if err != nil {
					return err
				}
				p.ImageURL = src
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to embed pictures: %w", err)
	}
	return nil
}

// thumbnail returns the data URI of a picture, or "" when it cannot be used.
// Only cancellation of ctx is returned as an error.
func (s *CatalogService) thumbnail(ctx context.Context, url string) (string, error) {
	img, ok := s.cache.Get(url, ProfileThumb)
	if !ok {
		raw, err := s.images.Fetch(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			zap.S().Warnf("⚠️  Failed to fetch picture %s: %v", url, err)
			return "", nil
		}
		img, err = OptimizeImage(raw, ProfileThumb)
		if err != nil {
			zap.S().Warnf("⚠️  Failed to optimize picture %s: %v", url, err)
			return "", nil
		}
		s.cache.Put(url, ProfileThumb, img)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img), nil
}

// RenderHTML renders the brochure for the products matching query.
// With inline set, pictures are embedded as data URIs.
func (s *CatalogService) RenderHTML(ctx context.Context, query string, inline bool) (string, error) {
	data := s.BrochureData(query)
	if inline {
		if err := s.embedImages(ctx, &data); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	if err := brochureTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF renders the brochure through headless Chrome
func (s *CatalogService) GeneratePDF(ctx context.Context, query string) ([]byte, error) {
	html, err := s.RenderHTML(ctx, query, true)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("enable-print-preview", true),
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(`document.fonts.ready.then(() => true)`, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			// A4 = 8.27" x 11.69"
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			pdfBuf = buf
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	zap.S().Infof("📄 Brochure PDF generated: query=%q, %d bytes", query, len(pdfBuf))
	return pdfBuf, nil
}
