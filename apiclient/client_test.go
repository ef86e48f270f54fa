package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rta-kabinets/apperr"
	"rta-kabinets/models"
)

func TestListVariants(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/product-variants/admin/all", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id": 11, "product_id": 1, "product_name": "Cabinet A", "color": "red", "colorHex": "#f00", "size": "Small", "price": "100.00"},
			{"id": 12, "product_id": 1, "product_name": "Cabinet A", "color": "red", "colorHex": "#f00", "size": "Large", "price": 150}
		]`)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	variants, err := c.ListVariants(context.Background())
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.Equal(t, "Cabinet A", variants[1].ProductName)
	assert.True(t, variants[0].Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, variants[1].Price.Equal(decimal.NewFromInt(150)))
}

func TestGetSectionMakesImageAbsolute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/section/home/experience", r.URL.Path)
		json.NewEncoder(w).Encode(models.Section{Title: "Experience", Description: "20 years", ImageURL: "uploads/exp.jpg"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	s, err := c.GetSection(context.Background(), "home", "experience")
	require.NoError(t, err)
	assert.Equal(t, "Experience", s.Title)
	assert.Equal(t, c.AbsoluteURL("/uploads/exp.jpg"), s.ImageURL)
}

func TestSaveSectionPostsMultipartThenRereads(t *testing.T) {
	var mu sync.Mutex
	stored := models.Section{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPost:
			require.NoError(t, r.ParseMultipartForm(1<<20))
			stored.Title = r.FormValue("title")
			stored.Description = r.FormValue("description")
			f, hdr, err := r.FormFile("image")
			require.NoError(t, err)
			defer f.Close()
			stored.ImageURL = "/uploads/" + hdr.Filename
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			json.NewEncoder(w).Encode(stored)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	s, err := c.SaveSection(context.Background(), "about", "team", models.SectionInput{
		Title:       "Our team",
		Description: "Family business",
		Image:       []byte{0xff, 0xd8, 0xff},
	})
	require.NoError(t, err)
	assert.Equal(t, "Our team", s.Title)
	assert.Equal(t, "Family business", s.Description)
	assert.Equal(t, c.AbsoluteURL("/uploads/team.jpg"), s.ImageURL)
}

func TestGetCarouselNormalizesPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/carousel/home", r.URL.Path)
		io.WriteString(w, `{"images": [{"id": 1, "path": "uploads\\carousel\\a.jpg"}, {"id": 2, "path": "https://cdn.example.com/b.jpg"}]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	images, err := c.GetCarousel(context.Background(), "home")
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, c.AbsoluteURL("/uploads/carousel/a.jpg"), images[0].Path)
	assert.Equal(t, "https://cdn.example.com/b.jpg", images[1].Path)
}

func TestAbsoluteURL(t *testing.T) {
	c := New("http://api.example.com/", 0)

	assert.Equal(t, "", c.AbsoluteURL(""))
	assert.Equal(t, "https://api.example.com/uploads/a.jpg", c.AbsoluteURL("uploads/a.jpg"))
	assert.Equal(t, "https://api.example.com/uploads/a.jpg", c.AbsoluteURL("/uploads/a.jpg"))
	assert.Equal(t, "https://cdn.example.com/x.png", c.AbsoluteURL("HTTP://cdn.example.com/x.png"))
}

func TestServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "db down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).ListVariants(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsTransient(err))
	assert.Equal(t, http.StatusBadGateway, apperr.HTTPStatus(err))
}

func TestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New(srv.URL, time.Second).GetSection(context.Background(), "home", "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTimeoutIsTransient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, 50*time.Millisecond).ListVariants(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsTransient(err))
}

func TestCanceledIsNotTransient(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := New(srv.URL, 5*time.Second).ListVariants(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, apperr.IsTransient(err))
}
