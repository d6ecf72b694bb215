package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/resultdesk/internal/app/controllers"
	"github.com/yigit/resultdesk/internal/app/form"
	"github.com/yigit/resultdesk/internal/app/models"
	"github.com/yigit/resultdesk/internal/app/repositories"
	"github.com/yigit/resultdesk/internal/app/routes"
	"github.com/yigit/resultdesk/internal/app/services"
	"github.com/yigit/resultdesk/internal/app/templates"
)

/* ---------------- In-memory repositories.StudentStore ---------------- */

type memStudentStore struct {
	mu       sync.Mutex
	students map[int64]models.Student
	nextID   int64
}

func newMemStudentStore() *memStudentStore {
	return &memStudentStore{students: map[int64]models.Student{}}
}

func (s *memStudentStore) Create(_ context.Context, student *models.Student) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	student.ID = s.nextID
	student.CreatedAt = time.Now()
	student.UpdatedAt = student.CreatedAt
	s.students[student.ID] = *student
	return student.ID, nil
}

func (s *memStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &st, nil
}

func (s *memStudentStore) List(_ context.Context, filter models.StudentFilter, offset uint64, limit int) ([]*models.Student, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := []*models.Student{}
	for _, st := range s.students {
		if filter.Section != nil && st.Section != *filter.Section {
			continue
		}
		st := st
		all = append(all, &st)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := int64(len(all))
	start := int(offset)
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *memStudentStore) Update(_ context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.students[student.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	student.CreatedAt = old.CreatedAt
	student.UpdatedAt = time.Now()
	s.students[student.ID] = *student
	return nil
}

func (s *memStudentStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.students, id)
	return nil
}

/* ---------------- Router and request helpers ---------------- */

func newTestRouter(t *testing.T) (*gin.Engine, *memStudentStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemStudentStore()
	students := services.NewStudentService(repo, zerolog.Nop())
	forms := services.NewFormService(form.NewMemoryStore(time.Hour), students, zerolog.Nop())

	router := gin.New()
	router.SetHTMLTemplate(templates.Must())
	routes.SetupRouter(router,
		controllers.NewStudentController(students),
		controllers.NewFormController(forms),
		controllers.NewPageController(forms, zerolog.Nop()),
	)
	return router, repo
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doForm(router http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// envelope decodes the data and error of a response
type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Field   string                 `json:"field"`
		Details interface{} `json:"details"`
	} `json:"error"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return env
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body %s", w.Code, want, w.Body.String())
	}
}

// detail returns one entry of the error details map
func (e envelope[T]) detail(key string) string {
	if e.Error == nil {
		return ""
	}
	m, _ := e.Error.Details.(map[string]interface{})
	v, _ := m[key].(string)
	return v
}
