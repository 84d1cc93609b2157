// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"manassa/internal/models"
)

func publishTestContent(t *testing.T, env *testEnv, kind models.ContentKind, slug string) *models.Content {
	t.Helper()

	now := time.Now().Add(-time.Minute)
	c, err := env.ContentStore.Create(&models.Content{
		Kind:          kind,
		Title:         "Public " + slug,
		Slug:          slug,
		Body:          "## Heading\n\nBody text.",
		Status:        models.StatusPublished,
		PublishAt:     &now,
		AllowComments: true,
	})
	if err != nil {
		t.Fatalf("create content: %v", err)
	}
	t.Cleanup(func() { cleanContent(t, env.DB, slug) })
	return c
}

func TestPublicGetContent(t *testing.T) {
	env := newTestEnv(t)
	publishTestContent(t, env, models.KindArticle, "public-test-detail")

	req := httptest.NewRequest("GET", "/api/content/article/public-test-detail", nil)
	req = withURLParams(req, nil, "kind", "article", "slug", "public-test-detail")
	w := httptest.NewRecorder()
	env.Public.GetContent(w, req)

	if w.Code != 200 {
		t.Fatalf("status: got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Slug     string `json:"slug"`
		BodyHTML string `json:"body_html"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Slug != "public-test-detail" {
		t.Errorf("slug: got %q", resp.Slug)
	}
	if !strings.Contains(resp.BodyHTML, "<h2") {
		t.Errorf("markdown not rendered: %q", resp.BodyHTML)
	}
}

func TestPublicGetContentHidesDrafts(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ContentStore.Create(&models.Content{
		Kind:   models.KindArticle,
		Title:  "Hidden Draft",
		Slug:   "public-test-draft",
		Status: models.StatusDraft,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { cleanContent(t, env.DB, "public-test-draft") })

	req := httptest.NewRequest("GET", "/", nil)
	req = withURLParams(req, nil, "kind", "article", "slug", "public-test-draft")
	w := httptest.NewRecorder()
	env.Public.GetContent(w, req)

	if w.Code != 404 {
		t.Errorf("draft detail: got %d, want 404", w.Code)
	}
}

func TestPublicGetContentPublishesDueSchedule(t *testing.T) {
	env := newTestEnv(t)

	// A draft whose scheduled time has passed publishes on first read.
	due := time.Now().Add(-time.Minute)
	c, err := env.ContentStore.Create(&models.Content{
		Kind:      models.KindPost,
		Title:     "Scheduled Post",
		Slug:      "public-test-due",
		Status:    models.StatusDraft,
		PublishAt: &due,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { cleanContent(t, env.DB, "public-test-due") })

	req := httptest.NewRequest("GET", "/", nil)
	req = withURLParams(req, nil, "kind", "post", "slug", "public-test-due")
	w := httptest.NewRecorder()
	env.Public.GetContent(w, req)

	if w.Code != 200 {
		t.Fatalf("due item: got %d, want 200: %s", w.Code, w.Body.String())
	}

	stored, err := env.ContentStore.FindByID(c.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if stored.Status != models.StatusPublished {
		t.Errorf("status after read: got %s, want published", stored.Status)
	}
}

func TestPublicGetContentCountsViews(t *testing.T) {
	env := newTestEnv(t)
	c := publishTestContent(t, env, models.KindArticle, "public-test-views")

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req = withURLParams(req, nil, "kind", "article", "slug", "public-test-views")
		w := httptest.NewRecorder()
		env.Public.GetContent(w, req)
		if w.Code != 200 {
			t.Fatalf("request %d: got %d", i, w.Code)
		}
	}

	n, err := env.CounterStore.Read(c.ID, models.CounterView)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	// Every request counts, cached responses included.
	if n != 3 {
		t.Errorf("view count: got %d, want 3", n)
	}
}

func TestPublicSubmitComment(t *testing.T) {
	env := newTestEnv(t)
	publishTestContent(t, env, models.KindArticle, "public-test-comment")

	body := `{"author_name": "Reader", "author_email": "reader@manassa.local", "body": "Great article, thank you."}`
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req = withURLParams(req, nil, "kind", "article", "slug", "public-test-comment")
	w := httptest.NewRecorder()
	env.Public.SubmitComment(w, req)

	// Anonymous comments wait for moderation.
	if w.Code != 202 {
		t.Fatalf("anonymous comment: got %d, want 202: %s", w.Code, w.Body.String())
	}
}

func TestPublicSubmitCommentSpamFlagged(t *testing.T) {
	env := newTestEnv(t)
	c := publishTestContent(t, env, models.KindArticle, "public-test-spam")

	body := `{"author_name": "Bot", "author_email": "bot@spam.example", "body": "buy now at http://a http://b http://c http://d"}`
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req = withURLParams(req, nil, "kind", "article", "slug", "public-test-spam")
	w := httptest.NewRecorder()
	env.Public.SubmitComment(w, req)

	if w.Code != 202 {
		t.Fatalf("spam comment: got %d, want 202: %s", w.Code, w.Body.String())
	}

	spam, err := env.CommentStore.ListSpam(10, 0)
	if err != nil {
		t.Fatalf("ListSpam: %v", err)
	}
	var found bool
	for _, cm := range spam {
		if cm.ContentID == c.ID {
			found = true
		}
	}
	if !found {
		t.Error("spam comment not flagged")
	}
}

func TestPublicModeratorCommentAutoApproved(t *testing.T) {
	env := newTestEnv(t)
	user := testEditor(t, env, "public-test-mod@manassa.local")
	publishTestContent(t, env, models.KindArticle, "public-test-modcomment")

	sess := testSession(user.ID, user.Email, "editor", true)
	body := `{"author_name": "Mod", "author_email": "mod@manassa.local", "body": "Pinned note from the team."}`
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req = withURLParams(req, sess, "kind", "article", "slug", "public-test-modcomment")
	w := httptest.NewRecorder()
	env.Public.SubmitComment(w, req)

	if w.Code != 201 {
		t.Fatalf("moderator comment: got %d, want 201: %s", w.Code, w.Body.String())
	}
}

func TestPublicRateRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	publishTestContent(t, env, models.KindCourse, "public-test-rate-anon")

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"value": 5}`))
	req = withURLParams(req, nil, "kind", "course", "slug", "public-test-rate-anon")
	w := httptest.NewRecorder()
	env.Public.Rate(w, req)

	if w.Code != 401 {
		t.Errorf("anonymous rating: got %d, want 401", w.Code)
	}
}

func TestPublicRate(t *testing.T) {
	env := newTestEnv(t)
	user := testEditor(t, env, "public-test-rater@manassa.local")
	c := publishTestContent(t, env, models.KindCourse, "public-test-rate")

	sess := testSession(user.ID, user.Email, "author", true)
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"value": 4}`))
	req = withURLParams(req, sess, "kind", "course", "slug", "public-test-rate")
	w := httptest.NewRecorder()
	env.Public.Rate(w, req)

	if w.Code != 200 {
		t.Fatalf("rating: got %d: %s", w.Code, w.Body.String())
	}

	sum, err := env.RatingStore.Summary(c.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Count != 1 || sum.Average != 4 {
		t.Errorf("summary: got avg=%v count=%d", sum.Average, sum.Count)
	}

	// Out-of-range values are rejected.
	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"value": 9}`))
	req = withURLParams(req, sess, "kind", "course", "slug", "public-test-rate")
	w = httptest.NewRecorder()
	env.Public.Rate(w, req)
	if w.Code != 422 {
		t.Errorf("out-of-range rating: got %d, want 422", w.Code)
	}
}

func TestPublicListContentFiltersKind(t *testing.T) {
	env := newTestEnv(t)
	publishTestContent(t, env, models.KindArticle, "public-test-list-a")
	publishTestContent(t, env, models.KindBook, "public-test-list-b")

	req := httptest.NewRequest("GET", "/api/content/article", nil)
	req = withURLParams(req, nil, "kind", "article")
	w := httptest.NewRecorder()
	env.Public.ListContent(w, req)

	if w.Code != 200 {
		t.Fatalf("list: got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Items []struct {
			Slug string `json:"slug"`
		} `json:"items"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, it := range resp.Items {
		if it.Slug == "public-test-list-b" {
			t.Error("book leaked into article list")
		}
	}
}
