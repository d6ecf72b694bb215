package services

import (
	"context"
	"sort"
	"sync"

	"github.com/yigit/resultdesk/internal/app/form"
	"github.com/yigit/resultdesk/internal/app/models"
	"github.com/yigit/resultdesk/internal/app/repositories"
)

/* ---------------- In-memory fake that satisfies repositories.StudentStore ---------------- */

type fakeStudentStore struct {
	mu       sync.Mutex
	students map[int64]models.Student
	nextID   int64

	createErr error
	// createGate, when set, blocks Create until it is closed
	createGate chan struct{}
	// createStarted is closed when Create begins
	createStarted chan struct{}
	// onCreate runs at the start of Create
	onCreate func()
	creates  int
	updates       int
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: map[int64]models.Student{}}
}

func (s *fakeStudentStore) Create(_ context.Context, student *models.Student) (int64, error) {
	if s.onCreate != nil {
		s.onCreate()
	}
	if s.createStarted != nil {
		close(s.createStarted)
	}
	if s.createGate != nil {
		<-s.createGate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.nextID++
	student.ID = s.nextID
	s.students[student.ID] = *student
	return student.ID, nil
}

func (s *fakeStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.students[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &st, nil
}

func (s *fakeStudentStore) List(_ context.Context, filter models.StudentFilter, offset uint64, limit int) ([]*models.Student, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []*models.Student
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

func (s *fakeStudentStore) Update(_ context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[student.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.updates++
	s.students[student.ID] = *student
	return nil
}

func (s *fakeStudentStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.students, id)
	return nil
}

/* ---------------- form.Store wrapper that fails on a done context, like Redis does ---------------- */

type ctxAwareStore struct {
	form.Store
}

func (s ctxAwareStore) Save(ctx context.Context, id string, state form.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Save(ctx, id, state)
}

func (s ctxAwareStore) Load(ctx context.Context, id string) (form.State, error) {
	if err := ctx.Err(); err != nil {
		return form.State{}, err
	}
	return s.Store.Load(ctx, id)
}

func (s ctxAwareStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}
