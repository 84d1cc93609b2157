// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"manassa/internal/cache"
	"manassa/internal/comments"
	"manassa/internal/contentkind"
	"manassa/internal/lifecycle"
	"manassa/internal/middleware"
	"manassa/internal/models"
	"manassa/internal/sanitize"
	"manassa/internal/slug"
	"manassa/internal/store"
)

// Admin groups the authenticated editorial endpoints: content CRUD and
// status transitions, the moderation queue, categories, advertisements,
// user management, and the cache audit log.
type Admin struct {
	registry     *contentkind.Registry
	contents     *store.ContentStore
	counters     *store.CounterStore
	categories   *store.CategoryStore
	commentSvc   *comments.Service
	commentStore *store.CommentStore
	ads          *store.AdStore
	users        *store.UserStore
	cacheLog     *store.CacheLogStore
	invalidator  *cache.Invalidator
}

// NewAdmin creates the admin handler group.
func NewAdmin(
	registry *contentkind.Registry,
	contents *store.ContentStore,
	counters *store.CounterStore,
	categories *store.CategoryStore,
	commentSvc *comments.Service,
	commentStore *store.CommentStore,
	ads *store.AdStore,
	users *store.UserStore,
	cacheLog *store.CacheLogStore,
	invalidator *cache.Invalidator,
) *Admin {
	return &Admin{
		registry:     registry,
		contents:     contents,
		counters:     counters,
		categories:   categories,
		commentSvc:   commentSvc,
		commentStore: commentStore,
		ads:          ads,
		users:        users,
		cacheLog:     cacheLog,
		invalidator:  invalidator,
	}
}

// Dashboard serves GET /api/admin/dashboard: per-kind item counts and
// the moderation backlog.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int, len(models.Kinds()))
	for _, k := range models.Kinds() {
		n, err := a.contents.CountByKind(k)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		counts[string(k)] = n
	}

	pending, err := a.commentStore.CountPending()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]any{
		"content_counts":   counts,
		"pending_comments": pending,
	})
}

// ---------- Content ----------

// contentRequest is the JSON body for content create and update.
type contentRequest struct {
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Body            string     `json:"body"`
	Excerpt         *string    `json:"excerpt"`
	CategoryID      *uuid.UUID `json:"category_id"`
	Tags            *string    `json:"tags"`
	SEOTitle        *string    `json:"seo_title"`
	SEODescription  *string    `json:"seo_description"`
	SEOKeywords     *string    `json:"seo_keywords"`
	CanonicalURL    *string    `json:"canonical_url"`
	FeaturedImageID *uuid.UUID `json:"featured_image_id"`
	PublishAt       *time.Time `json:"publish_at"`
	ExpireAt        *time.Time `json:"expire_at"`
	AllowComments   *bool      `json:"allow_comments"`
	IsFeatured      bool       `json:"is_featured"`
}

// apply copies the request fields onto a content item, normalizing the
// slug and tags on the way.
func (req *contentRequest) apply(c *models.Content, def *contentkind.Definition) {
	c.Title = strings.TrimSpace(req.Title)
	if req.Slug != "" {
		c.Slug = slug.Generate(req.Slug)
	} else if c.Slug == "" {
		c.Slug = slug.GenerateUnique(c.Title)
	}
	c.Body = req.Body
	c.Excerpt = req.Excerpt
	c.CategoryID = req.CategoryID
	c.Tags = normalizeTags(req.Tags)
	c.SEOTitle = req.SEOTitle
	c.SEODescription = req.SEODescription
	c.SEOKeywords = req.SEOKeywords
	c.CanonicalURL = req.CanonicalURL
	c.FeaturedImageID = req.FeaturedImageID
	c.PublishAt = req.PublishAt
	c.ExpireAt = req.ExpireAt
	c.IsFeatured = req.IsFeatured
	if req.AllowComments != nil {
		c.AllowComments = *req.AllowComments
	} else if c.ID == uuid.Nil {
		c.AllowComments = def.CommentsDefault
	}
}

// normalizeTags lowercases, trims, and deduplicates the comma-separated
// tag list. The stored form is what tag-scoped cache keys are built from.
func normalizeTags(raw *string) *string {
	if raw == nil {
		return nil
	}
	seen := make(map[string]bool)
	var tags []string
	for _, t := range strings.Split(*raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	if len(tags) == 0 {
		return nil
	}
	joined := strings.Join(tags, ",")
	return &joined
}

// ListContent serves GET /api/admin/content/{kind}: every status, for
// the editorial listing.
func (a *Admin) ListContent(w http.ResponseWriter, r *http.Request) {
	def, ok := a.resolveKind(w, r)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	items, err := a.contents.ListByKind(def.Kind, defaultPageSize, (page-1)*defaultPageSize)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"items": items, "page": page})
}

type adminContentResponse struct {
	Content  *models.Content  `json:"content"`
	Counters []models.Counter `json:"counters,omitempty"`
}

// GetContent serves GET /api/admin/content/{kind}/{id}. The response
// carries the raw record plus its engagement counters.
func (a *Admin) GetContent(w http.ResponseWriter, r *http.Request) {
	content, ok := a.resolveContent(w, r)
	if !ok {
		return
	}
	counters, err := a.counters.ReadAll(content.ID)
	if err != nil {
		slog.Warn("counter read failed", "content_id", content.ID, "error", err)
	}
	render.JSON(w, r, adminContentResponse{Content: content, Counters: counters})
}

// CreateContent serves POST /api/admin/content/{kind}. New items start
// as drafts; publication goes through the transition endpoint.
func (a *Admin) CreateContent(w http.ResponseWriter, r *http.Request) {
	def, ok := a.resolveKind(w, r)
	if !ok {
		return
	}

	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c := &models.Content{Kind: def.Kind, Status: models.StatusDraft}
	req.apply(c, def)
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		c.AuthorID = &sess.UserID
	}

	if verr := a.validate(c, def); verr != nil {
		respondServiceError(w, r, verr)
		return
	}

	created, err := a.contents.Create(c)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// UpdateContent serves PUT /api/admin/content/{kind}/{id}. The status
// field is immutable here; use the transition endpoint.
func (a *Admin) UpdateContent(w http.ResponseWriter, r *http.Request) {
	content, ok := a.resolveContent(w, r)
	if !ok {
		return
	}
	def := a.registry.Lookup(string(content.Kind))

	var req contentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.apply(content, def)
	if verr := a.validate(content, def); verr != nil {
		respondServiceError(w, r, verr)
		return
	}

	if err := a.contents.Update(content); err != nil {
		respondServiceError(w, r, err)
		return
	}

	a.invalidator.OnRecordChanged(r.Context(), content, "update")
	render.JSON(w, r, content)
}

// transitionRequest names the target status of a lifecycle transition.
type transitionRequest struct {
	To string `json:"to"`
}

// Transition serves POST /api/admin/content/{kind}/{id}/transition. The
// write is a compare-and-set on the current status, so two racing
// editors cannot double-apply a move.
func (a *Admin) Transition(w http.ResponseWriter, r *http.Request) {
	content, ok := a.resolveContent(w, r)
	if !ok {
		return
	}

	var req transitionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	from := content.Status
	to := models.ContentStatus(req.To)

	// Archived content may only be reactivated by an admin.
	if from == models.StatusArchived && from != to {
		sess := middleware.SessionFromCtx(r.Context())
		if sess == nil || sess.Role != string(models.RoleAdmin) {
			respondError(w, r, http.StatusForbidden, "reactivating archived content requires the admin role")
			return
		}
	}

	if err := lifecycle.Transition(content, to, time.Now()); err != nil {
		respondServiceError(w, r, err)
		return
	}

	moved, err := a.contents.UpdateStatus(content.ID, from, content.Status, content.PublishAt)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if !moved {
		respondError(w, r, http.StatusConflict, "content was modified concurrently, reload and retry")
		return
	}

	a.invalidator.OnRecordChanged(r.Context(), content, "transition:"+req.To)
	render.JSON(w, r, content)
}

// DeleteContent serves DELETE /api/admin/content/{kind}/{id}.
func (a *Admin) DeleteContent(w http.ResponseWriter, r *http.Request) {
	content, ok := a.resolveContent(w, r)
	if !ok {
		return
	}

	if err := a.contents.Delete(content.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	a.invalidator.OnRecordChanged(r.Context(), content, "delete")
	w.WriteHeader(http.StatusNoContent)
}

// validate runs the kind rules plus the editorial field limits.
func (a *Admin) validate(c *models.Content, def *contentkind.Definition) *lifecycle.ValidationError {
	verr := def.Validate(c)
	if verr == nil {
		verr = &lifecycle.ValidationError{}
	}
	validateEditorial(verr, c.Slug, c.Excerpt, c.Tags, c.SEOTitle, c.SEODescription, c.SEOKeywords)
	if c.CategoryID != nil {
		cat, err := a.categories.FindByID(*c.CategoryID)
		if err == nil && cat == nil {
			verr.Add("category_id", "does not exist")
		}
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// resolveKind maps the {kind} URL param to its registry definition.
func (a *Admin) resolveKind(w http.ResponseWriter, r *http.Request) (*contentkind.Definition, bool) {
	def := a.registry.Lookup(chi.URLParam(r, "kind"))
	if def == nil {
		respondError(w, r, http.StatusNotFound, "unknown content kind")
		return nil, false
	}
	return def, true
}

// resolveContent loads the item named by the {kind} and {id} URL params.
func (a *Admin) resolveContent(w http.ResponseWriter, r *http.Request) (*models.Content, bool) {
	def, ok := a.resolveKind(w, r)
	if !ok {
		return nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid content id")
		return nil, false
	}
	content, err := a.contents.FindByID(id)
	if err != nil {
		respondServiceError(w, r, err)
		return nil, false
	}
	if content == nil || content.Kind != def.Kind {
		respondError(w, r, http.StatusNotFound, "not found")
		return nil, false
	}
	return content, true
}

// ---------- Moderation ----------

// ModerationQueue serves GET /api/admin/comments/pending.
func (a *Admin) ModerationQueue(w http.ResponseWriter, r *http.Request) {
	a.listComments(w, r, a.commentStore.ListPending)
}

// SpamQueue serves GET /api/admin/comments/spam.
func (a *Admin) SpamQueue(w http.ResponseWriter, r *http.Request) {
	a.listComments(w, r, a.commentStore.ListSpam)
}

func (a *Admin) listComments(w http.ResponseWriter, r *http.Request, list func(int, int) ([]models.Comment, error)) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	items, err := list(defaultPageSize, (page-1)*defaultPageSize)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"items": items, "page": page})
}

// ApproveComment serves POST /api/admin/comments/{id}/approve.
func (a *Admin) ApproveComment(w http.ResponseWriter, r *http.Request) {
	a.moderateComment(w, r, a.commentSvc.Approve)
}

// RejectComment serves POST /api/admin/comments/{id}/reject.
func (a *Admin) RejectComment(w http.ResponseWriter, r *http.Request) {
	a.moderateComment(w, r, a.commentSvc.Reject)
}

// SpamComment serves POST /api/admin/comments/{id}/spam.
func (a *Admin) SpamComment(w http.ResponseWriter, r *http.Request) {
	a.moderateComment(w, r, a.commentSvc.MarkSpam)
}

func (a *Admin) moderateComment(w http.ResponseWriter, r *http.Request, action func(context.Context, uuid.UUID) (*models.Comment, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid comment id")
		return
	}
	comment, err := action(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, comment)
}

// DeleteComment serves DELETE /api/admin/comments/{id}. Replies are
// removed with their parent.
func (a *Admin) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid comment id")
		return
	}
	if err := a.commentSvc.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- Categories ----------

// categoryRequest is the JSON body for category create and update.
type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

// ListCategories serves GET /api/admin/categories, including inactive ones.
func (a *Admin) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := a.categories.List()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"items": cats})
}

// CreateCategory serves POST /api/admin/categories.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c := &models.Category{
		Name:        sanitize.PlainField(req.Name),
		Description: sanitize.PlainField(req.Description),
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.Slug != "" {
		c.Slug = slug.Generate(req.Slug)
	} else {
		c.Slug = slug.GenerateUnique(c.Name)
	}
	if strings.TrimSpace(c.Name) == "" {
		verr := &lifecycle.ValidationError{}
		verr.Add("name", "is required")
		respondServiceError(w, r, verr)
		return
	}

	created, err := a.categories.Create(c)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// UpdateCategory serves PUT /api/admin/categories/{id}.
func (a *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid category id")
		return
	}
	existing, err := a.categories.FindByID(id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if existing == nil {
		respondError(w, r, http.StatusNotFound, "not found")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	existing.Name = sanitize.PlainField(req.Name)
	existing.Description = sanitize.PlainField(req.Description)
	existing.SortOrder = req.SortOrder
	if req.Slug != "" {
		existing.Slug = slug.Generate(req.Slug)
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	if err := a.categories.Update(existing); err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, existing)
}

// DeleteCategory serves DELETE /api/admin/categories/{id}. Content in
// the category keeps existing with its category cleared.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid category id")
		return
	}
	if err := a.categories.Delete(id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- Advertisements ----------

// adRequest is the JSON body for advertisement create and update.
type adRequest struct {
	Title     string    `json:"title"`
	Placement string    `json:"placement"`
	ImageURL  *string   `json:"image_url"`
	HTML      *string   `json:"html"`
	LinkURL   string    `json:"link_url"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	IsActive  *bool     `json:"is_active"`
}

func (req *adRequest) validate() *lifecycle.ValidationError {
	verr := &lifecycle.ValidationError{}
	if strings.TrimSpace(req.Title) == "" {
		verr.Add("title", "is required")
	}
	if !models.ValidPlacement(req.Placement) {
		verr.Add("placement", "is not a known placement")
	}
	if strings.TrimSpace(req.LinkURL) == "" {
		verr.Add("link_url", "is required")
	}
	if !req.EndAt.After(req.StartAt) {
		verr.Add("end_at", "must be after start_at")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

func (req *adRequest) apply(ad *models.Advertisement) {
	ad.Title = req.Title
	ad.Placement = models.AdPlacement(req.Placement)
	ad.ImageURL = req.ImageURL
	ad.HTML = req.HTML
	ad.LinkURL = req.LinkURL
	ad.StartAt = req.StartAt
	ad.EndAt = req.EndAt
	if req.IsActive != nil {
		ad.IsActive = *req.IsActive
	}
}

// ListAds serves GET /api/admin/ads.
func (a *Admin) ListAds(w http.ResponseWriter, r *http.Request) {
	ads, err := a.ads.List()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"items": ads})
}

// CreateAd serves POST /api/admin/ads.
func (a *Admin) CreateAd(w http.ResponseWriter, r *http.Request) {
	var req adRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if verr := req.validate(); verr != nil {
		respondServiceError(w, r, verr)
		return
	}

	ad := &models.Advertisement{IsActive: true}
	req.apply(ad)

	created, err := a.ads.Create(ad)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	a.invalidator.OnAdChanged(r.Context(), created.ID, created.Placement, "create")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}

// UpdateAd serves PUT /api/admin/ads/{id}.
func (a *Admin) UpdateAd(w http.ResponseWriter, r *http.Request) {
	ad, ok := a.resolveAd(w, r)
	if !ok {
		return
	}

	var req adRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if verr := req.validate(); verr != nil {
		respondServiceError(w, r, verr)
		return
	}

	oldPlacement := ad.Placement
	req.apply(ad)
	if err := a.ads.Update(ad); err != nil {
		respondServiceError(w, r, err)
		return
	}

	a.invalidator.OnAdChanged(r.Context(), ad.ID, ad.Placement, "update")
	if oldPlacement != ad.Placement {
		a.invalidator.OnAdChanged(r.Context(), ad.ID, oldPlacement, "update")
	}
	render.JSON(w, r, ad)
}

// DeleteAd serves DELETE /api/admin/ads/{id}.
func (a *Admin) DeleteAd(w http.ResponseWriter, r *http.Request) {
	ad, ok := a.resolveAd(w, r)
	if !ok {
		return
	}
	if err := a.ads.Delete(ad.ID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	a.invalidator.OnAdChanged(r.Context(), ad.ID, ad.Placement, "delete")
	w.WriteHeader(http.StatusNoContent)
}

func (a *Admin) resolveAd(w http.ResponseWriter, r *http.Request) (*models.Advertisement, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid ad id")
		return nil, false
	}
	ad, err := a.ads.FindByID(id)
	if err != nil {
		respondServiceError(w, r, err)
		return nil, false
	}
	if ad == nil {
		respondError(w, r, http.StatusNotFound, "not found")
		return nil, false
	}
	return ad, true
}

// ---------- Users ----------

// userRequest is the JSON body for user creation.
type userRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// ListUsers serves GET /api/admin/users.
func (a *Admin) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List()
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"items": users})
}

// CreateUser serves POST /api/admin/users.
func (a *Admin) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	verr := &lifecycle.ValidationError{}
	if strings.TrimSpace(req.Email) == "" {
		verr.Add("email", "is required")
	}
	if len(req.Password) < 12 {
		verr.Add("password", "must be at least 12 characters")
	}
	role := models.Role(req.Role)
	if role != models.RoleAdmin && role != models.RoleEditor && role != models.RoleAuthor {
		verr.Add("role", "must be admin, editor, or author")
	}
	if !verr.Empty() {
		respondServiceError(w, r, verr)
		return
	}

	user, err := a.users.Create(req.Email, req.Password, req.DisplayName, role)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

// UpdateUserRole serves PUT /api/admin/users/{id}/role.
func (a *Admin) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	role := models.Role(req.Role)
	if role != models.RoleAdmin && role != models.RoleEditor && role != models.RoleAuthor {
		respondError(w, r, http.StatusUnprocessableEntity, "role must be admin, editor, or author")
		return
	}

	if err := a.users.UpdateRole(id, role); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetUserTwoFA serves POST /api/admin/users/{id}/reset-2fa. The user
// re-enrolls on next login.
func (a *Admin) ResetUserTwoFA(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := a.users.ResetTOTP(id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	slog.Info("2fa reset", "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteUser serves DELETE /api/admin/users/{id}. A user cannot delete
// their own account.
func (a *Admin) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil && sess.UserID == id {
		respondError(w, r, http.StatusConflict, "cannot delete your own account")
		return
	}
	if err := a.users.Delete(id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- Cache audit log ----------

// CacheLog serves GET /api/admin/cache-log: the most recent
// invalidation events.
func (a *Admin) CacheLog(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 500 {
		limit = 100
	}
	entries, err := a.cacheLog.RecentEntries(limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]any{"items": entries})
}
