package links

import (
	"net/url"
	"strings"
	"time"
)

// CreateLinkBody is the input for creating one link.
type CreateLinkBody struct {
	URL         string            `json:"url" validate:"required,url,max=32000"`
	Domain      string            `json:"domain,omitempty" validate:"omitempty,max=190"`
	Key         string            `json:"key,omitempty" validate:"omitempty,max=190"`
	Prefix      string            `json:"prefix,omitempty" validate:"omitempty,max=100"`
	Archived    bool              `json:"archived,omitempty"`
	PublicStats bool              `json:"publicStats,omitempty"`
	TagIDs      []string          `json:"tagIds,omitempty" validate:"omitempty,max=50,dive,required"`
	Comments    string            `json:"comments,omitempty" validate:"max=2000"`
	ExpiresAt   *time.Time        `json:"expiresAt,omitempty"`
	ExpiredURL  string            `json:"expiredUrl,omitempty" validate:"omitempty,url,max=32000"`
	Password    string            `json:"password,omitempty" validate:"max=255"`
	Proxy       bool              `json:"proxy,omitempty"`
	Title       string            `json:"title,omitempty" validate:"max=512"`
	Description string            `json:"description,omitempty" validate:"max=2000"`
	Image       string            `json:"image,omitempty" validate:"omitempty,url,max=32000"`
	Rewrite     bool              `json:"rewrite,omitempty"`
	IOS         string            `json:"ios,omitempty" validate:"omitempty,url,max=32000"`
	Android     string            `json:"android,omitempty" validate:"omitempty,url,max=32000"`
	Geo         map[string]string `json:"geo,omitempty" validate:"omitempty,dive,keys,len=2,alpha,endkeys,url"`
}

// normalize trims user input and fills in what callers commonly leave out.
func (b *CreateLinkBody) normalize() {
	b.URL = normalizeURL(b.URL)
	b.Domain = strings.ToLower(strings.TrimSpace(b.Domain))
	b.Key = strings.TrimSpace(b.Key)
	b.Prefix = strings.TrimSpace(b.Prefix)
	b.ExpiredURL = normalizeURL(b.ExpiredURL)
	b.IOS = normalizeURL(b.IOS)
	b.Android = normalizeURL(b.Android)
	if len(b.Geo) > 0 {
		geo := make(map[string]string, len(b.Geo))
		for country, u := range b.Geo {
			geo[strings.ToUpper(strings.TrimSpace(country))] = normalizeURL(u)
		}
		b.Geo = geo
	}
}

// normalizeURL prepends https:// to a bare host such as "example.com/x".
// Anything that already parses with a scheme, such as mailto: or tel:, is
// kept as is.
func normalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return u
	}
	if parsed, err := url.Parse(u); err == nil && parsed.Scheme != "" {
		return u
	}
	if strings.Contains(u, ".") && !strings.ContainsAny(u, " \t") {
		return "https://" + u
	}
	return u
}
