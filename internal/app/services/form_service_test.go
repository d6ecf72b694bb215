package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/resultdesk/internal/app/form"
	"github.com/yigit/resultdesk/internal/app/grading"
	"github.com/yigit/resultdesk/internal/app/models"
	"github.com/yigit/resultdesk/internal/pkg/apperrors"
)

func newTestFormService(repo *fakeStudentStore) (*formServiceImpl, *form.MemoryStore) {
	store := form.NewMemoryStore(time.Hour)
	svc := NewFormService(store, NewStudentService(repo, zerolog.Nop()), zerolog.Nop()).(*formServiceImpl)
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("form-%d", n)
	}
	return svc, store
}

func TestFormCreateFlow(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStudentStore()
	svc, _ := newTestFormService(repo)

	sess, err := svc.Open(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sess.Mode != form.ModeCreate || sess.Draft.Grade != grading.GradeA || sess.Draft.Section != models.Section3CA {
		t.Fatalf("opened %+v", sess)
	}

	res, err := svc.Submit(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != form.OutcomeRejected || res.Session == nil || res.Session.Errors["name"] == "" || res.Session.Errors["marks"] == "" {
		t.Fatalf("empty submit = %+v", res)
	}

	sess, err = svc.Change(ctx, sess.ID, Edit{Field: "name", Value: "Alice"}, Edit{Field: "marks", Value: "85"})
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Errors) != 0 || sess.Draft.Grade != grading.GradeA {
		t.Fatalf("after edits %+v", sess)
	}

	res, err = svc.Submit(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != form.OutcomeSubmitted || !res.Created || res.Student == nil {
		t.Fatalf("submit = %+v", res)
	}
	if res.Student.Grade != "A" || res.Student.Marks != 85 || repo.creates != 1 {
		t.Fatalf("saved %+v creates=%d", res.Student, repo.creates)
	}

	if _, err := svc.Get(ctx, sess.ID); !errors.Is(err, apperrors.ErrFormNotFound) {
		t.Fatalf("form still open: %v", err)
	}
	if svc.locks.size() != 0 {
		t.Fatal("lock leaked")
	}
}

func TestFormEditFlow(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStudentStore()
	repo.students[5] = models.Student{ID: 5, Name: "Bob", Section: models.Section3CB, Marks: 65, Grade: "C"}
	svc, _ := newTestFormService(repo)

	sess, err := svc.Open(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if sess.Mode != form.ModeEdit || sess.Draft.Marks != "65" || sess.SubmitLabel != "Update Student" {
		t.Fatalf("opened %+v", sess)
	}

	if _, err := svc.Change(ctx, sess.ID, Edit{Field: "marks", Value: "95"}); err != nil {
		t.Fatal(err)
	}
	res, err := svc.Submit(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Created || repo.updates != 1 || repo.students[5].Grade != "A+" {
		t.Fatalf("res %+v stored %+v", res, repo.students[5])
	}
}

func TestFormOpenUnknownStudent(t *testing.T) {
	svc, _ := newTestFormService(newFakeStudentStore())
	if _, err := svc.Open(context.Background(), 99); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestFormChangeErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestFormService(newFakeStudentStore())
	sess, _ := svc.Open(ctx, 0)

	if _, err := svc.Change(ctx, sess.ID, Edit{Field: "email", Value: "x"}); !errors.Is(err, apperrors.ErrUnknownField) {
		t.Errorf("unknown field err = %v", err)
	}
	if _, err := svc.Change(ctx, sess.ID, Edit{Field: "grade", Value: "A+"}); !errors.Is(err, apperrors.ErrReadOnlyField) {
		t.Errorf("grade err = %v", err)
	}
	if _, err := svc.Change(ctx, "nope", Edit{Field: "name", Value: "x"}); !errors.Is(err, apperrors.ErrFormNotFound) {
		t.Errorf("missing form err = %v", err)
	}
}

func TestFormLoadingDisablesSubmitAndCancel(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStudentStore()
	svc, store := newTestFormService(repo)
	sess, _ := svc.Open(ctx, 0)
	_, _ = svc.Change(ctx, sess.ID, Edit{Field: "name", Value: "Alice"}, Edit{Field: "marks", Value: "85"})

	state, _ := store.Load(ctx, sess.ID)
	state.Loading = true
	_ = store.Save(ctx, sess.ID, state)

	if _, err := svc.Submit(ctx, sess.ID); !errors.Is(err, apperrors.ErrFormDisabled) {
		t.Fatalf("submit err = %v", err)
	}
	if err := svc.Cancel(ctx, sess.ID); !errors.Is(err, apperrors.ErrFormDisabled) {
		t.Fatalf("cancel err = %v", err)
	}
	if repo.creates != 0 {
		t.Fatal("record saved while loading")
	}
}

func TestFormSubmitWhileSaveInFlight(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStudentStore()
	repo.createGate = make(chan struct{})
	repo.createStarted = make(chan struct{})
	svc, _ := newTestFormService(repo)

	sess, _ := svc.Open(ctx, 0)
	_, _ = svc.Change(ctx, sess.ID, Edit{Field: "name", Value: "Alice"}, Edit{Field: "marks", Value: "85"})

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, sess.ID)
		done <- err
	}()
	<-repo.createStarted

	view, err := svc.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !view.Loading || view.SubmitLabel != "Saving..." || !view.SubmitDisabled {
		t.Fatalf("in-flight view %+v", view)
	}
	if _, err := svc.Submit(ctx, sess.ID); !errors.Is(err, apperrors.ErrFormDisabled) {
		t.Fatalf("second submit err = %v", err)
	}

	close(repo.createGate)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if repo.creates != 1 {
		t.Fatalf("creates = %d", repo.creates)
	}
}

func TestFormFailedSaveReenablesForm(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStudentStore()
	repo.createErr = errors.New("db down")
	svc, _ := newTestFormService(repo)

	sess, _ := svc.Open(ctx, 0)
	_, _ = svc.Change(ctx, sess.ID, Edit{Field: "name", Value: "Alice"}, Edit{Field: "marks", Value: "85"})

	if _, err := svc.Submit(ctx, sess.ID); err == nil {
		t.Fatal("expected save error")
	}
	view, err := svc.Get(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if view.Loading {
		t.Fatal("form still loading after failed save")
	}
}

func newCtxAwareFormService(repo *fakeStudentStore) (*formServiceImpl, *form.MemoryStore) {
	mem := form.NewMemoryStore(time.Hour)
	svc := NewFormService(ctxAwareStore{Store: mem}, NewStudentService(repo, zerolog.Nop()), zerolog.Nop()).(*formServiceImpl)
	return svc, mem
}

func TestFormClientGoneDuringFailedSave(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newFakeStudentStore()
	repo.onCreate = cancel
	repo.createErr = context.Canceled
	svc, mem := newCtxAwareFormService(repo)

	sess, _ := svc.Open(ctx, 0)
	_, _ = svc.Change(ctx, sess.ID, Edit{Field: "name", Value: "Alice"}, Edit{Field: "marks", Value: "85"})

	if _, err := svc.Submit(ctx, sess.ID); !errors.Is(err, context.Canceled) {
		t.Fatalf("submit err = %v", err)
	}

	state, err := mem.Load(context.Background(), sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Loading {
		t.Fatal("form still loading after the request was cancelled")
	}

	retry := context.Background()
	repo.onCreate = nil
	repo.createErr = nil
	res, err := svc.Submit(retry, sess.ID)
	if err != nil {
		t.Fatalf("retry submit err = %v", err)
	}
	if res.Outcome != form.OutcomeSubmitted || !res.Created {
		t.Fatalf("retry = %+v", res)
	}
}

func TestFormClientGoneDuringSuccessfulSave(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newFakeStudentStore()
	repo.onCreate = cancel
	svc, mem := newCtxAwareFormService(repo)

	sess, _ := svc.Open(ctx, 0)
	_, _ = svc.Change(ctx, sess.ID, Edit{Field: "name", Value: "Alice"}, Edit{Field: "marks", Value: "85"})

	if _, err := svc.Submit(ctx, sess.ID); err != nil {
		t.Fatalf("submit err = %v", err)
	}
	if _, err := mem.Load(context.Background(), sess.ID); !errors.Is(err, apperrors.ErrFormNotFound) {
		t.Fatalf("submitted form still stored, err = %v", err)
	}
}

func TestFormRejectsOverlongName(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStudentStore()
	svc, _ := newTestFormService(repo)

	sess, _ := svc.Open(ctx, 0)
	_, _ = svc.Change(ctx, sess.ID, Edit{Field: "name", Value: strings.Repeat("n", 256)}, Edit{Field: "marks", Value: "85"})

	res, err := svc.Submit(ctx, sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != form.OutcomeRejected || res.Session.Errors["name"] != "Name must be at most 255 characters" {
		t.Fatalf("overlong submit = %+v", res)
	}
	if repo.creates != 0 {
		t.Fatal("overlong name was saved")
	}
}

func TestFormCancel(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestFormService(newFakeStudentStore())
	sess, _ := svc.Open(ctx, 0)

	if err := svc.Cancel(ctx, sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, sess.ID); !errors.Is(err, apperrors.ErrFormNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestKeyedLockerReleases(t *testing.T) {
	k := newKeyedLocker()
	unlock := k.Lock("a")
	unlock()
	unlock()
	if k.size() != 0 {
		t.Fatalf("size = %d", k.size())
	}
}
