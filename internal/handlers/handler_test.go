// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL or Valkey are
// unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"manassa/internal/cache"
	"manassa/internal/comments"
	"manassa/internal/contentkind"
	"manassa/internal/database"
	"manassa/internal/middleware"
	"manassa/internal/models"
	"manassa/internal/notify"
	"manassa/internal/session"
	"manassa/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "manassa")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "manassa")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "detail:*", "list:*", "ads:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	Valkey        *redis.Client
	Sessions      *session.Store
	Registry      *contentkind.Registry
	ContentStore  *store.ContentStore
	CategoryStore *store.CategoryStore
	CommentStore  *store.CommentStore
	CounterStore  *store.CounterStore
	RatingStore   *store.RatingStore
	AdStore       *store.AdStore
	UserStore     *store.UserStore
	CacheLog      *store.CacheLogStore
	Responses     *cache.ResponseCache
	Invalidator   *cache.Invalidator
	CommentSvc    *comments.Service
	Auth          *Auth
	Public        *Public
	Admin         *Admin
}

// newTestEnv creates a complete test environment with all handler
// dependencies wired the same way main does.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	registry := contentkind.NewRegistry()
	contentStore := store.NewContentStore(db)
	categoryStore := store.NewCategoryStore(db)
	commentStore := store.NewCommentStore(db)
	counterStore := store.NewCounterStore(db)
	ratingStore := store.NewRatingStore(db)
	adStore := store.NewAdStore(db)
	userStore := store.NewUserStore(db)
	cacheLogStore := store.NewCacheLogStore(db)

	responses := cache.NewResponseCache(vk, 1*time.Minute)
	invalidator := cache.NewInvalidator(responses, cacheLogStore)
	mailer := notify.NewMailer(notify.Config{})
	commentSvc := comments.NewService(contentStore, userStore, commentStore, invalidator, mailer)

	return &testEnv{
		DB:            db,
		Valkey:        vk,
		Sessions:      sessions,
		Registry:      registry,
		ContentStore:  contentStore,
		CategoryStore: categoryStore,
		CommentStore:  commentStore,
		CounterStore:  counterStore,
		RatingStore:   ratingStore,
		AdStore:       adStore,
		UserStore:     userStore,
		CacheLog:      cacheLogStore,
		Responses:     responses,
		Invalidator:   invalidator,
		CommentSvc:    commentSvc,
		Auth:          NewAuth(sessions, userStore),
		Public:        NewPublic(registry, contentStore, categoryStore, counterStore, ratingStore, adStore, commentSvc, responses),
		Admin:         NewAdmin(registry, contentStore, counterStore, categoryStore, commentSvc, commentStore, adStore, userStore, cacheLogStore, invalidator),
	}
}

// testSession creates a session.Data for handler tests.
func testSession(userID uuid.UUID, email, role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   twoFADone,
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// withURLParams adds chi URL parameters and an optional session to a request.
func withURLParams(r *http.Request, sess *session.Data, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	if sess != nil {
		ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	}
	return r.WithContext(ctx)
}

// testEditor creates an editor user for tests that need an author.
func testEditor(t *testing.T, env *testEnv, email string) *models.User {
	t.Helper()
	user, err := env.UserStore.Create(email, "a-sufficiently-long-pass", "Editor", models.RoleEditor)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE email = $1", email) })
	return user
}

// cleanContent removes test content rows by slug.
func cleanContent(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM counters WHERE subject_id IN (SELECT id FROM content WHERE slug = $1)", s)
		db.Exec("DELETE FROM content WHERE slug = $1", s)
	}
}
