package contact

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/simp-lee/gospec/internal/domain"
	"github.com/simp-lee/gospec/internal/spec"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// memoryStore is an in-process querycache.Store.
type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStore() *memoryStore { return &memoryStore{data: make(map[string][]byte)} }

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryStore) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(string(m.data[key]), 10, 64)
	n++
	m.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func (m *memoryStore) keys(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(&domain.Company{}, &domain.Contact{}, &domain.Note{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// setupRouter wires the contact module over db and mounts it under /api/v1.
func setupRouter(t *testing.T, db *gorm.DB, cache *memoryStore) *gin.Engine {
	t.Helper()
	deps := Deps{DB: db, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if cache != nil {
		deps.Cache = cache
		deps.CacheTTL = time.Minute
		deps.Namespace = "test"
	}
	m, err := New(deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := gin.New()
	m.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return env
}

func seed(t *testing.T, db *gorm.DB, contacts ...*domain.Contact) {
	t.Helper()
	for _, c := range contacts {
		if err := db.Create(c).Error; err != nil {
			t.Fatalf("seed %s: %v", c.FirstName, err)
		}
	}
}

func listPage(t *testing.T, r http.Handler, query string) *spec.Page[domain.Contact] {
	t.Helper()
	w := do(r, http.MethodGet, "/api/v1/contacts?"+query, "")
	if w.Code != http.StatusOK {
		t.Fatalf("list %q: status %d body %s", query, w.Code, w.Body.String())
	}
	page := decode[spec.Page[domain.Contact]](t, w).Data
	return &page
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}
