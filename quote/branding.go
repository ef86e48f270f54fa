package quote

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Placeholders are printed instead of blank client fields
type Placeholders struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

// Branding holds the fixed texts of the quote: business name, contact
// footer and default wording. It can be overridden from a YAML file.
//
// Example file:
//
//	business_name: RTA KABINETS
//	tagline: [Carpentry, Estimate]
//	email: carpentry.ido@gmail.com
//	phone: 520-668-0771
//	default_notes: |
//	  1. This estimate is valid for 30 days from the date issued.
type Branding struct {
	BusinessName   string       `yaml:"business_name"`
	Tagline        []string     `yaml:"tagline"`
	Email          string       `yaml:"email"`
	Phone          string       `yaml:"phone"`
	SocialLabel    string       `yaml:"social_label"`
	SocialURL      string       `yaml:"social_url"`
	ClientTitle    string       `yaml:"client_title"`
	NotesTitle     string       `yaml:"notes_title"`
	DefaultNotes   string       `yaml:"default_notes"`
	SignatureLabel string       `yaml:"signature_label"`
	Currency       string       `yaml:"currency"`
	DateLayout     string       `yaml:"date_layout"`
	Placeholders   Placeholders `yaml:"placeholders"`
}

// DefaultBranding returns the texts printed on RTA Kabinets quotes
func DefaultBranding() Branding {
	return Branding{
		BusinessName: "RTA KABINETS",
		Tagline:      []string{"Carpentry", "Estimate"},
		Email:        "carpentry.ido@gmail.com",
		Phone:        "520-668-0771",
		SocialLabel:  "@RTA Cabinetry Store",
		SocialURL:    "https://www.facebook.com/profile.php?id=61572527397285",
		ClientTitle:  "Client Information",
		NotesTitle:   "Notes",
		DefaultNotes: "1. This estimate is valid for 30 days from the date issued.\n" +
			"2. Any changes to the project scope may result in additional costs.",
		SignatureLabel: "Client",
		Currency:       "$",
		DateLayout:     "1/2/2006",
		Placeholders: Placeholders{
			Name:    "Client not specified",
			Address: "Address not specified",
			Phone:   "Phone not specified",
			Email:   "Email not specified",
		},
	}
}

// LoadBranding reads a YAML branding file on top of DefaultBranding.
// Keys missing from the file keep their default. An empty path returns the defaults.
func LoadBranding(path string) (Branding, error) {
	b := DefaultBranding()
	if path == "" {
		return b, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return b, fmt.Errorf("failed to read branding file: %w", err)
	}
	if err := yaml.Unmarshal(data, &b); err != nil {
		return b, fmt.Errorf("failed to parse branding file %s: %w", path, err)
	}
	return b, nil
}
