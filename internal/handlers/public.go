// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"manassa/internal/cache"
	"manassa/internal/comments"
	"manassa/internal/contentkind"
	"manassa/internal/lifecycle"
	"manassa/internal/markdown"
	"manassa/internal/middleware"
	"manassa/internal/models"
	"manassa/internal/store"
)

const defaultPageSize = 20

// Public groups the unauthenticated JSON endpoints. List and detail
// responses go through the Valkey response cache; engagement writes
// (views, ad impressions, comments, ratings) always hit the database.
type Public struct {
	registry   *contentkind.Registry
	contents   *store.ContentStore
	categories *store.CategoryStore
	counters   *store.CounterStore
	ratings    *store.RatingStore
	ads        *store.AdStore
	comments   *comments.Service
	responses  *cache.ResponseCache
}

// NewPublic creates the public handler group.
func NewPublic(
	registry *contentkind.Registry,
	contents *store.ContentStore,
	categories *store.CategoryStore,
	counters *store.CounterStore,
	ratings *store.RatingStore,
	ads *store.AdStore,
	commentSvc *comments.Service,
	responses *cache.ResponseCache,
) *Public {
	return &Public{
		registry:   registry,
		contents:   contents,
		categories: categories,
		counters:   counters,
		ratings:    ratings,
		ads:        ads,
		comments:   commentSvc,
		responses:  responses,
	}
}

// contentSummary is the list-page projection of a content item.
type contentSummary struct {
	ID         uuid.UUID  `json:"id"`
	Kind       string     `json:"kind"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Excerpt    string     `json:"excerpt,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	IsFeatured bool       `json:"is_featured"`
	ViewCount  int64      `json:"view_count"`
	PublishAt  *time.Time `json:"publish_at,omitempty"`
}

func summarize(c *models.Content) contentSummary {
	s := contentSummary{
		ID:         c.ID,
		Kind:       string(c.Kind),
		Title:      c.Title,
		Slug:       c.Slug,
		Tags:       c.TagList(),
		IsFeatured: c.IsFeatured,
		ViewCount:  c.ViewCount,
		PublishAt:  c.PublishAt,
	}
	if c.Excerpt != nil {
		s.Excerpt = *c.Excerpt
	}
	return s
}

// listResponse is the payload of a content listing.
type listResponse struct {
	Items []contentSummary `json:"items"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
}

// detailResponse is the payload of a content detail request.
type detailResponse struct {
	models.Content
	BodyHTML string                `json:"body_html"`
	SEO      seoBlock              `json:"seo"`
	Comments []models.Comment      `json:"comments"`
	Rating   *models.RatingSummary `json:"rating,omitempty"`
	Related  []contentSummary      `json:"related,omitempty"`
}

type seoBlock struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords,omitempty"`
	Canonical   string `json:"canonical,omitempty"`
}

// ListContent serves GET /api/content/{kind}. Supports page, category, tag, and
// featured query parameters. Responses are cached per page and filter
// family.
func (p *Public) ListContent(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if p.registry.Lookup(kind) == nil {
		respondError(w, r, http.StatusNotFound, "unknown content kind")
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	filter := store.VisibleFilter{
		Kind:         models.ContentKind(kind),
		CategorySlug: q.Get("category"),
		Tag:          q.Get("tag"),
		FeaturedOnly: q.Get("featured") == "true",
		Limit:        defaultPageSize,
		Offset:       (page - 1) * defaultPageSize,
	}

	key := listCacheKey(filter, page)
	if cached, ok := p.responses.Get(r.Context(), key); ok {
		serveCached(w, cached)
		return
	}

	now := time.Now()
	items, err := p.contents.ListVisible(filter, now)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	total, err := p.contents.CountVisible(filter, now)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	resp := listResponse{Items: make([]contentSummary, 0, len(items)), Total: total, Page: page}
	for i := range items {
		resp.Items = append(resp.Items, summarize(&items[i]))
	}

	p.cacheAndServe(w, r, key, resp)
}

// listCacheKey picks the cache key family matching the filter so the
// invalidation hook can purge exactly the affected lists.
func listCacheKey(f store.VisibleFilter, page int) string {
	switch {
	case f.CategorySlug != "":
		return cache.CategoryListKey(f.Kind, f.CategorySlug, page)
	case f.Tag != "":
		return cache.TagListKey(f.Kind, f.Tag, page)
	case f.FeaturedOnly:
		return cache.FeaturedListKey(f.Kind, page)
	default:
		return cache.ListKey(f.Kind, page)
	}
}

// GetContent serves GET /api/{kind}/{slug}: the full record with
// rendered body, visible comment tree, rating summary, and related
// items. A draft or review record whose schedule came due is published
// on the way through, so readers never see a due record as missing.
func (p *Public) GetContent(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	slugParam := chi.URLParam(r, "slug")
	if p.registry.Lookup(kind) == nil {
		respondError(w, r, http.StatusNotFound, "unknown content kind")
		return
	}

	content, err := p.contents.FindBySlug(models.ContentKind(kind), slugParam)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if content == nil {
		respondError(w, r, http.StatusNotFound, "not found")
		return
	}

	now := time.Now()
	if from := content.Status; lifecycle.Reconcile(content, now) {
		moved, err := p.contents.UpdateStatus(content.ID, from, models.StatusPublished, content.PublishAt)
		if err != nil {
			slog.Error("reconcile on read failed", "content_id", content.ID, "error", err)
			content.Status = from
		} else if moved {
			slog.Info("published due content on read", "content_id", content.ID, "slug", content.Slug)
		}
	}

	if !lifecycle.Visible(content, now) {
		// Staff can preview through the admin endpoints, not here.
		respondError(w, r, http.StatusNotFound, "not found")
		return
	}

	// Count the view before consulting the cache; a cached payload may
	// carry a slightly stale count, the counter row never does.
	if _, err := p.counters.Increment(content.ID, models.CounterView); err != nil {
		slog.Warn("view counter increment failed", "content_id", content.ID, "error", err)
	}

	key := cache.DetailKey(content.Kind, content.Slug)
	if cached, ok := p.responses.Get(r.Context(), key); ok {
		serveCached(w, cached)
		return
	}

	bodyHTML, err := markdown.ToHTML(content.Body)
	if err != nil {
		slog.Warn("body render failed", "content_id", content.ID, "error", err)
		bodyHTML = ""
	}

	tree, err := p.comments.VisibleTree(content.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	summary, err := p.ratings.Summary(content.ID)
	if err != nil {
		slog.Warn("rating summary failed", "content_id", content.ID, "error", err)
	}

	related, err := p.contents.Related(content, now, 5)
	if err != nil {
		slog.Warn("related lookup failed", "content_id", content.ID, "error", err)
	}

	resp := detailResponse{
		Content:  *content,
		BodyHTML: bodyHTML,
		SEO: seoBlock{
			Title:       content.DisplayTitle(),
			Description: content.DisplayDescription(),
		},
		Comments: tree,
		Rating:   summary,
	}
	if content.SEOKeywords != nil {
		resp.SEO.Keywords = *content.SEOKeywords
	}
	if content.CanonicalURL != nil {
		resp.SEO.Canonical = *content.CanonicalURL
	}
	for i := range related {
		resp.Related = append(resp.Related, summarize(&related[i]))
	}

	p.cacheAndServe(w, r, key, resp)
}

// ListCategories serves GET /api/categories.
func (p *Public) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := p.categories.List()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	active := make([]models.Category, 0, len(cats))
	for _, c := range cats {
		if c.IsActive {
			active = append(active, c)
		}
	}
	render.JSON(w, r, map[string]any{"items": active})
}

// commentRequest is the body of a comment submission.
type commentRequest struct {
	ParentID    *uuid.UUID `json:"parent_id"`
	AuthorName  string     `json:"author_name"`
	AuthorEmail string     `json:"author_email"`
	Body        string     `json:"body"`
}

// SubmitComment serves POST /api/{kind}/{slug}/comments. Anyone may
// comment; moderator submissions are detected from the session and
// auto-approved.
func (p *Public) SubmitComment(w http.ResponseWriter, r *http.Request) {
	content, ok := p.resolveVisible(w, r)
	if !ok {
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	canModerate := false
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		canModerate = sess.Role == "admin" || sess.Role == "editor"
	}

	created, err := p.comments.Submit(r.Context(), comments.Submission{
		ContentID:   content.ID,
		ParentID:    req.ParentID,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Body:        req.Body,
		CanModerate: canModerate,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	status := http.StatusCreated
	msg := "comment published"
	if !created.Visible() {
		status = http.StatusAccepted
		msg = "comment held for moderation"
	}
	render.Status(r, status)
	render.JSON(w, r, map[string]any{"comment": created, "message": msg})
}

// GetComments serves GET /api/{kind}/{slug}/comments: the visible
// comment forest, newest threads first.
func (p *Public) GetComments(w http.ResponseWriter, r *http.Request) {
	content, ok := p.resolveVisible(w, r)
	if !ok {
		return
	}
	tree, err := p.comments.VisibleTree(content.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"items": tree})
}

// ratingRequest is the body of a rating submission.
type ratingRequest struct {
	Value int `json:"value"`
}

// Rate serves POST /api/{kind}/{slug}/rating. Requires a session; a
// repeat rating replaces the previous value.
func (p *Public) Rate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	content, ok := p.resolveVisible(w, r)
	if !ok {
		return
	}

	var req ratingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Value < 1 || req.Value > 5 {
		respondError(w, r, http.StatusUnprocessableEntity, "rating value must be between 1 and 5")
		return
	}

	if _, err := p.ratings.Upsert(content.ID, sess.UserID, req.Value); err != nil {
		respondServiceError(w, r, err)
		return
	}
	summary, err := p.ratings.Summary(content.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	// The cached detail payload embeds the old summary.
	p.responses.Delete(r.Context(), cache.DetailKey(content.Kind, content.Slug))

	render.JSON(w, r, summary)
}

// ServeAds serves GET /api/ads/{placement}: the live ads for one slot.
// Each serve counts an impression per ad.
func (p *Public) ServeAds(w http.ResponseWriter, r *http.Request) {
	placement := chi.URLParam(r, "placement")
	if !models.ValidPlacement(placement) {
		respondError(w, r, http.StatusNotFound, "unknown placement")
		return
	}

	ads, err := p.ads.ListLive(models.AdPlacement(placement), time.Now())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	for i := range ads {
		if _, err := p.counters.Increment(ads[i].ID, models.CounterImpression); err != nil {
			slog.Warn("ad impression increment failed", "ad_id", ads[i].ID, "error", err)
		}
	}

	render.JSON(w, r, map[string]any{"items": ads})
}

// AdClick serves POST /api/ads/{id}/click and returns the new total.
func (p *Public) AdClick(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid ad id")
		return
	}
	ad, err := p.ads.FindByID(id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if ad == nil {
		respondError(w, r, http.StatusNotFound, "not found")
		return
	}

	clicks, err := p.counters.Increment(ad.ID, models.CounterClick)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"clicks": clicks, "link_url": ad.LinkURL})
}

// resolveVisible loads the content item named by the kind and slug URL
// params and checks it is publicly visible. Writes the error response
// itself when the lookup fails.
func (p *Public) resolveVisible(w http.ResponseWriter, r *http.Request) (*models.Content, bool) {
	kind := chi.URLParam(r, "kind")
	if p.registry.Lookup(kind) == nil {
		respondError(w, r, http.StatusNotFound, "unknown content kind")
		return nil, false
	}
	content, err := p.contents.FindBySlug(models.ContentKind(kind), chi.URLParam(r, "slug"))
	if err != nil {
		respondServiceError(w, r, err)
		return nil, false
	}
	if content == nil || !lifecycle.Visible(content, time.Now()) {
		respondError(w, r, http.StatusNotFound, "not found")
		return nil, false
	}
	return content, true
}

// cacheAndServe stores the marshalled payload in the response cache and
// writes it. Marshalling once keeps the cached bytes and the response
// identical.
func (p *Public) cacheAndServe(w http.ResponseWriter, r *http.Request, key string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	p.responses.Set(r.Context(), key, raw)
	serveCached(w, raw)
}

func serveCached(w http.ResponseWriter, raw []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(raw)
}
