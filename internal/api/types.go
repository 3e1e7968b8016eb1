package api

import (
	"net/url"
	"time"

	"github.com/joestump/shortlinks/internal/links"
)

// TagResponse is the JSON representation of a tag attached to a link.
type TagResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// LinkResponse is the JSON representation of a single link. Optional values
// are pointers so they render as null when unset.
type LinkResponse struct {
	ID          string            `json:"id"`
	Domain      string            `json:"domain"`
	Key         string            `json:"key"`
	URL         string            `json:"url"`
	Archived    bool              `json:"archived"`
	ExpiresAt   *time.Time        `json:"expiresAt"`
	ExpiredURL  *string           `json:"expiredUrl"`
	Password    *string           `json:"password"`
	Proxy       bool              `json:"proxy"`
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Image       *string           `json:"image"`
	Rewrite     bool              `json:"rewrite"`
	IOS         *string           `json:"ios"`
	Android     *string           `json:"android"`
	Geo         map[string]string `json:"geo"`
	PublicStats bool              `json:"publicStats"`
	TagID       *string           `json:"tagId"` // first tag; superseded by Tags
	Tags        []TagResponse     `json:"tags"`
	Comments    *string           `json:"comments"`
	ShortLink   string            `json:"shortLink"`
	QRCode      string            `json:"qrCode"`
	UTMSource   *string           `json:"utm_source"`
	UTMMedium   *string           `json:"utm_medium"`
	UTMCampaign *string           `json:"utm_campaign"`
	UTMTerm     *string           `json:"utm_term"`
	UTMContent  *string           `json:"utm_content"`
	UserID      string            `json:"userId"`
	ProjectID   string            `json:"projectId"`
	Clicks      int64             `json:"clicks"`
	LastClicked *time.Time        `json:"lastClicked"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// newLinkResponse converts a service result into its API representation.
func newLinkResponse(res *links.Result, qrBaseURL string) *LinkResponse {
	l := res.Link
	shortLink := "https://" + l.Domain + "/" + l.Key

	lr := &LinkResponse{
		ID:          l.ID,
		Domain:      l.Domain,
		Key:         l.Key,
		URL:         l.URL,
		Archived:    l.Archived,
		ExpiredURL:  optional(l.ExpiredURL),
		Password:    optional(l.Password),
		Proxy:       l.Proxy,
		Title:       optional(l.Title),
		Description: optional(l.Description),
		Image:       optional(l.Image),
		Rewrite:     l.Rewrite,
		IOS:         optional(l.IOS),
		Android:     optional(l.Android),
		Geo:         links.DecodeGeo(l.Geo),
		PublicStats: l.PublicStats,
		Tags:        make([]TagResponse, 0, len(res.Tags)),
		Comments:    optional(l.Comments),
		ShortLink:   shortLink,
		QRCode:      qrBaseURL + "?url=" + url.QueryEscape(shortLink),
		UserID:      l.UserID,
		ProjectID:   l.ProjectID,
		Clicks:      l.Clicks,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.ExpiresAt.Valid {
		t := l.ExpiresAt.Time
		lr.ExpiresAt = &t
	}
	if l.LastClicked.Valid {
		t := l.LastClicked.Time
		lr.LastClicked = &t
	}
	for _, t := range res.Tags {
		lr.Tags = append(lr.Tags, TagResponse{ID: t.ID, Name: t.Name, Color: t.Color})
	}
	if len(lr.Tags) > 0 {
		lr.TagID = &lr.Tags[0].ID
	}

	if u, err := url.Parse(l.URL); err == nil {
		q := u.Query()
		lr.UTMSource = optional(q.Get("utm_source"))
		lr.UTMMedium = optional(q.Get("utm_medium"))
		lr.UTMCampaign = optional(q.Get("utm_campaign"))
		lr.UTMTerm = optional(q.Get("utm_term"))
		lr.UTMContent = optional(q.Get("utm_content"))
	}
	return lr
}
