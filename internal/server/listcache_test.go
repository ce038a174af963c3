package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/oakpoint-health/booking-portal/internal/slots"
	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

func cachedRouter(t *testing.T, cache *ListCache, seed ...slots.Slot) http.Handler {
	t.Helper()
	repo := NewMemoryRepository()
	for _, s := range seed {
		if _, err := repo.CreateIfAbsent(context.Background(), s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return NewRouter(&RouterConfig{
		Logger:             logging.New("error", "json"),
		Handler:            NewHandler(repo, cache, logging.New("error", "json")),
		CORSAllowedOrigins: []string{"*"},
	})
}

func listWith(t *testing.T, router http.Handler) (*httptest.ResponseRecorder, []slots.Slot) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointment-slot", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got []slots.Slot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec, got
}

func TestListSlotsCacheHitAndMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewListCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, logging.New("error", "json"))
	router := cachedRouter(t, cache,
		slots.Slot{AppointmentID: "a", AppointmentDate: "2025-07-01", AppointmentTime: "09:00 AM", Status: slots.StatusAvailable},
	)

	first, firstBody := listWith(t, router)
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("first request should miss, got X-Cache=%q", got)
	}

	second, secondBody := listWith(t, router)
	if got := second.Header().Get("X-Cache"); got != "HIT" {
		t.Fatalf("second request should hit, got X-Cache=%q", got)
	}
	if len(firstBody) != 1 || len(secondBody) != 1 || firstBody[0] != secondBody[0] {
		t.Fatalf("cached body diverged: %v vs %v", firstBody, secondBody)
	}
}

func TestListSlotsCacheExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewListCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, logging.New("error", "json"))
	router := cachedRouter(t, cache,
		slots.Slot{AppointmentID: "a", AppointmentDate: "2025-07-01", AppointmentTime: "09:00 AM", Status: slots.StatusAvailable},
	)

	listWith(t, router)
	mr.FastForward(2 * time.Minute)

	rec, _ := listWith(t, router)
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("expired entry should miss, got X-Cache=%q", got)
	}
}

func TestListSlotsCacheUnreachableFallsBack(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cache := NewListCache(redis.NewClient(&redis.Options{Addr: addr}), time.Minute, logging.New("error", "json"))
	router := cachedRouter(t, cache,
		slots.Slot{AppointmentID: "a", AppointmentDate: "2025-07-01", AppointmentTime: "09:00 AM", Status: slots.StatusAvailable},
	)

	rec, got := listWith(t, router)
	if rec.Header().Get("X-Cache") != "MISS" || len(got) != 1 {
		t.Fatalf("unreachable cache must fall back to the scan, got X-Cache=%q body=%v",
			rec.Header().Get("X-Cache"), got)
	}
}

func TestListCacheCorruptedEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.Set(listCacheKey, "{{{garbage")

	cache := NewListCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, logging.New("error", "json"))
	if _, ok := cache.Get(context.Background()); ok {
		t.Fatal("corrupted entry must read as a miss")
	}
}
