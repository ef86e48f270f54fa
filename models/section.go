package models

// Section is the content of one editable page block, as served by GET /api/section/:page/:key
// Example: {"title": "Experience", "description": "20 years building cabinets", "image_url": "/uploads/exp.jpg"}
type Section struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// SectionInput is the multipart payload posted to /api/section/:page/:key
type SectionInput struct {
	Title       string
	Description string
	ImageName   string
	Image       []byte
}

// CarouselImage is one slide of a page carousel or gallery
type CarouselImage struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
}

// CarouselResponse is the body of GET /api/carousel/:page and GET /api/gallery/:page/:section
type CarouselResponse struct {
	Images []CarouselImage `json:"images"`
}

// PageContent is everything an admin page editor needs in one response
// Example response:
// {
//   "page": "home",
//   "sections": {"experience": {"title": "...", "description": "...", "image_url": "https://.../exp.jpg"}},
//   "carousel": [{"id": 1, "path": "https://.../slide1.jpg"}]
// }
type PageContent struct {
	Page     string             `json:"page"`
	Sections map[string]Section `json:"sections"`
	Carousel []CarouselImage    `json:"carousel"`
}
