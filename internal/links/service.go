// Package links implements link creation: input validation, domain and tag
// ownership checks, key assignment, and the atomic bulk insert.
package links

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"go.uber.org/zap"

	"github.com/joestump/shortlinks/internal/store"
)

// keyAttempts bounds how many times colliding random keys are regenerated.
const keyAttempts = 5

// Result is a created or fetched link together with its tags.
type Result struct {
	Link *store.Link
	Tags []*store.Tag
}

// Service creates and looks up links within a project.
type Service struct {
	links         *store.LinkStore
	tags          *store.TagStore
	domains       *store.DomainStore
	defaultDomain string
	validate      *validator.Validate
	trans         ut.Translator
	log           *zap.Logger
}

// NewService returns a Service. Links created without a domain are placed on
// defaultDomain, which every project may use.
func NewService(links *store.LinkStore, tags *store.TagStore, domains *store.DomainStore, defaultDomain string, log *zap.Logger) (*Service, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	uni := ut.New(en.New(), en.New())
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("register validation messages: %w", err)
	}

	return &Service{
		links:         links,
		tags:          tags,
		domains:       domains,
		defaultDomain: strings.ToLower(defaultDomain),
		validate:      validate,
		trans:         trans,
		log:           log,
	}, nil
}

// pending is one item of a create request after validation.
type pending struct {
	body      CreateLinkBody
	domain    string
	key       string // empty until assigned when generated
	generated bool   // the caller gave no key
}

// Create creates a single link. It follows the bulk path so both share the
// same rules.
func (s *Service) Create(ctx context.Context, project *store.Project, userID string, body CreateLinkBody) (*Result, error) {
	results, err := s.BulkCreate(ctx, project, userID, []CreateLinkBody{body})
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// BulkCreate validates every body and then creates all links in one
// transaction. It fails without creating anything when any item is invalid
// (*ValidationError), targets a foreign domain (ErrDomainNotAllowed), or uses a
// key that is taken (*ConflictError). Results are in input order.
func (s *Service) BulkCreate(ctx context.Context, project *store.Project, userID string, bodies []CreateLinkBody) ([]*Result, error) {
	if len(bodies) > MaxBulkLinks {
		return nil, ErrTooManyLinks
	}
	if len(bodies) == 0 {
		return []*Result{}, nil
	}

	items := make([]*pending, len(bodies))
	for i, b := range bodies {
		p, err := s.check(i, b)
		if err != nil {
			return nil, err
		}
		items[i] = p
	}

	tagsByID, err := s.resolveTags(ctx, project.ID, items)
	if err != nil {
		return nil, err
	}
	if err := s.checkDomains(ctx, project.ID, items); err != nil {
		return nil, err
	}
	if err := s.checkKeys(ctx, items); err != nil {
		return nil, err
	}
	if err := s.assignKeys(ctx, items); err != nil {
		return nil, err
	}

	rows := make([]*store.NewLink, len(items))
	for i, p := range items {
		rows[i], err = p.toNewLink(project.ID, userID)
		if err != nil {
			return nil, err
		}
	}

	created, err := s.links.CreateMany(ctx, rows)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(created))
	for i, l := range created {
		r := &Result{Link: l, Tags: []*store.Tag{}}
		for _, id := range items[i].body.TagIDs {
			r.Tags = append(r.Tags, tagsByID[id])
		}
		slices.SortFunc(r.Tags, func(a, b *store.Tag) int { return strings.Compare(a.Name, b.Name) })
		results[i] = r
	}

	s.log.Debug("links created",
		zap.String("project", project.Slug),
		zap.String("user_id", userID),
		zap.Int("count", len(results)))
	return results, nil
}

// Info returns the project's link addressed by domain and key. An empty
// domain means the default domain. Links of other projects are reported as
// store.ErrNotFound.
func (s *Service) Info(ctx context.Context, project *store.Project, domain, key string) (*Result, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		domain = s.defaultDomain
	}
	l, err := s.links.GetByDomainKey(ctx, domain, key)
	if err != nil {
		return nil, err
	}
	if l.ProjectID != project.ID {
		return nil, store.ErrNotFound
	}
	tags, err := s.tags.ListByLinks(ctx, []string{l.ID})
	if err != nil {
		return nil, err
	}
	r := &Result{Link: l, Tags: tags[l.ID]}
	if r.Tags == nil {
		r.Tags = []*store.Tag{}
	}
	return r, nil
}

// check normalizes and validates a single body.
func (s *Service) check(index int, b CreateLinkBody) (*pending, error) {
	b.normalize()
	b.TagIDs = dedupe(b.TagIDs)

	if err := s.validate.Struct(b); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &ValidationError{
				Index:   index,
				Field:   verrs[0].Field(),
				Message: verrs[0].Translate(s.trans),
			}
		}
		return nil, &ValidationError{Index: index, Message: err.Error()}
	}

	p := &pending{body: b, domain: b.Domain, generated: b.Key == ""}
	if p.domain == "" {
		p.domain = s.defaultDomain
	} else {
		d, err := store.NormalizeDomain(p.domain)
		if err != nil {
			return nil, &ValidationError{Index: index, Field: "domain", Message: err.Error()}
		}
		p.domain = d
	}

	if b.Key != "" {
		key := JoinPrefix(b.Prefix, b.Key)
		if err := ValidateKey(key, p.domain == s.defaultDomain); err != nil {
			return nil, &ValidationError{Index: index, Field: "key", Message: err.Error()}
		}
		p.key = key
	} else if b.Prefix != "" {
		// The prefix must leave room for a generated key.
		if err := ValidateKey(JoinPrefix(b.Prefix, strings.Repeat("x", GeneratedKeyLength)), p.domain == s.defaultDomain); err != nil {
			return nil, &ValidationError{Index: index, Field: "prefix", Message: err.Error()}
		}
	}
	return p, nil
}

// resolveTags loads every referenced tag and fails on the first item naming a
// tag outside the project.
func (s *Service) resolveTags(ctx context.Context, projectID string, items []*pending) (map[string]*store.Tag, error) {
	var ids []string
	for _, p := range items {
		ids = append(ids, p.body.TagIDs...)
	}
	ids = dedupe(ids)

	byID := make(map[string]*store.Tag, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	tags, err := s.tags.GetByIDs(ctx, projectID, ids)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	for _, t := range tags {
		byID[t.ID] = t
	}
	for i, p := range items {
		for _, id := range p.body.TagIDs {
			if _, ok := byID[id]; !ok {
				return nil, &ValidationError{
					Index:   i,
					Field:   "tagIds",
					Message: fmt.Sprintf("tag %q does not exist in this project", id),
				}
			}
		}
	}
	return byID, nil
}

func (s *Service) checkDomains(ctx context.Context, projectID string, items []*pending) error {
	allowed := map[string]bool{s.defaultDomain: true}
	for _, p := range items {
		ok, seen := allowed[p.domain]
		if !seen {
			var err error
			ok, err = s.domains.BelongsTo(ctx, projectID, p.domain)
			if err != nil {
				return fmt.Errorf("check domain %s: %w", p.domain, err)
			}
			allowed[p.domain] = ok
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrDomainNotAllowed, p.domain)
		}
	}
	return nil
}

// checkKeys rejects explicit keys repeated within the request or already
// stored. The reported conflict is the one with the lowest index.
func (s *Service) checkKeys(ctx context.Context, items []*pending) error {
	byDomain := make(map[string][]string)
	for _, p := range items {
		if p.key != "" {
			byDomain[p.domain] = append(byDomain[p.domain], p.key)
		}
	}

	taken := make(map[string]map[string]bool, len(byDomain))
	for domain, keys := range byDomain {
		existing, err := s.links.ExistingKeys(ctx, domain, keys)
		if err != nil {
			return fmt.Errorf("check keys on %s: %w", domain, err)
		}
		taken[domain] = existing
	}

	seen := make(map[string]bool)
	for i, p := range items {
		if p.key == "" {
			continue
		}
		id := p.domain + "/" + p.key
		if seen[id] || taken[p.domain][p.key] {
			return &ConflictError{Index: i, Domain: p.domain, Key: p.key}
		}
		seen[id] = true
	}
	return nil
}

// assignKeys gives every item without a key a random one that is free both
// in the store and within the request.
func (s *Service) assignKeys(ctx context.Context, items []*pending) error {
	used := make(map[string]bool)
	for _, p := range items {
		if p.key != "" {
			used[p.domain+"/"+p.key] = true
		}
	}

	for attempt := 0; attempt < keyAttempts; attempt++ {
		if allKeyed(items) {
			return nil
		}

		byDomain := make(map[string][]*pending)
		for _, p := range items {
			if !p.generated || p.key != "" {
				continue
			}
			k, err := GenerateKey(GeneratedKeyLength)
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}
			k = JoinPrefix(p.body.Prefix, k)
			if used[p.domain+"/"+k] {
				continue
			}
			used[p.domain+"/"+k] = true
			p.key = k
			byDomain[p.domain] = append(byDomain[p.domain], p)
		}

		for domain, ps := range byDomain {
			keys := make([]string, len(ps))
			for i, p := range ps {
				keys[i] = p.key
			}
			taken, err := s.links.ExistingKeys(ctx, domain, keys)
			if err != nil {
				return fmt.Errorf("check generated keys on %s: %w", domain, err)
			}
			for _, p := range ps {
				if taken[p.key] {
					s.log.Debug("generated key collided", zap.String("domain", domain), zap.String("key", p.key))
					p.key = ""
				}
			}
		}
	}
	if allKeyed(items) {
		return nil
	}
	return ErrKeyExhausted
}

func allKeyed(items []*pending) bool {
	for _, p := range items {
		if p.key == "" {
			return false
		}
	}
	return true
}

func (p *pending) toNewLink(projectID, userID string) (*store.NewLink, error) {
	b := p.body
	nl := &store.NewLink{
		Link: store.Link{
			ProjectID:   projectID,
			UserID:      userID,
			Domain:      p.domain,
			Key:         p.key,
			URL:         b.URL,
			Archived:    b.Archived,
			ExpiredURL:  b.ExpiredURL,
			Password:    b.Password,
			Proxy:       b.Proxy,
			Title:       b.Title,
			Description: b.Description,
			Image:       b.Image,
			Rewrite:     b.Rewrite,
			IOS:         b.IOS,
			Android:     b.Android,
			PublicStats: b.PublicStats,
			Comments:    b.Comments,
		},
		TagIDs: b.TagIDs,
	}
	if b.ExpiresAt != nil {
		nl.ExpiresAt = sql.NullTime{Time: b.ExpiresAt.UTC(), Valid: true}
	}
	if len(b.Geo) > 0 {
		geo, err := json.Marshal(b.Geo)
		if err != nil {
			return nil, fmt.Errorf("encode geo: %w", err)
		}
		nl.Geo = string(geo)
	}
	return nl, nil
}

// DecodeGeo parses a stored geo column. It returns nil when unset or invalid.
func DecodeGeo(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	var geo map[string]string
	if err := json.Unmarshal([]byte(raw), &geo); err != nil {
		return nil
	}
	return geo
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return ids
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
