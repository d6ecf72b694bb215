package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/resultdesk/internal/app/form"
	"github.com/yigit/resultdesk/internal/app/models"
	"github.com/yigit/resultdesk/internal/pkg/apperrors"
)

// FormSession is an open form as seen by a client
type FormSession struct {
	ID string `json:"id"`
	form.View
}

// Edit is one field edit
type Edit struct {
	Field string
	Value string
}

// SubmitResult reports a submit attempt. Student is set when the record was
// saved, Session when the form stays open.
type SubmitResult struct {
	Outcome form.Outcome
	Student *models.Student
	Created bool
	Session *FormSession
}

// FormService keeps open student forms between requests
type FormService interface {
	// Open starts a form; studentID 0 opens a create-mode form
	Open(ctx context.Context, studentID int64) (*FormSession, error)
	Get(ctx context.Context, id string) (*FormSession, error)
	Change(ctx context.Context, id string, edits ...Edit) (*FormSession, error)
	// Submit validates the draft and saves it through the StudentService.
	// The form is discarded after a successful save.
	Submit(ctx context.Context, id string) (*SubmitResult, error)
	Cancel(ctx context.Context, id string) error
}

type formServiceImpl struct {
	store    form.Store
	students StudentService
	locks    *keyedLocker
	newID    func() string
	logger   zerolog.Logger
}

// NewFormService creates a form service backed by store
func NewFormService(store form.Store, students StudentService, logger zerolog.Logger) FormService {
	return &formServiceImpl{
		store:    store,
		students: students,
		locks:    newKeyedLocker(),
		newID:    uuid.NewString,
		logger:   logger,
	}
}

func session(id string, f *form.StudentForm) *FormSession {
	return &FormSession{ID: id, View: f.View()}
}

func (s *formServiceImpl) load(ctx context.Context, id string, handler form.Handler) (*form.StudentForm, error) {
	state, err := s.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrFormNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading form: %w", err)
	}
	return form.Restore(state, handler), nil
}

func (s *formServiceImpl) save(ctx context.Context, id string, f *form.StudentForm) error {
	if err := s.store.Save(ctx, id, f.State()); err != nil {
		return fmt.Errorf("error saving form: %w", err)
	}
	return nil
}

func (s *formServiceImpl) Open(ctx context.Context, studentID int64) (*FormSession, error) {
	var initial *models.Student
	if studentID != 0 {
		student, err := s.students.GetStudentByID(ctx, studentID)
		if err != nil {
			return nil, err
		}
		initial = student
	}

	f := form.NewStudentForm(initial, nil)
	id := s.newID()
	if err := s.save(ctx, id, f); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("formID", id).Str("mode", string(f.Mode())).Int64("studentID", studentID).Msg("Form opened")
	return session(id, f), nil
}

func (s *formServiceImpl) Get(ctx context.Context, id string) (*FormSession, error) {
	f, err := s.load(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	return session(id, f), nil
}

func (s *formServiceImpl) Change(ctx context.Context, id string, edits ...Edit) (*FormSession, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	f, err := s.load(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	for _, edit := range edits {
		field, ok := form.ParseField(edit.Field)
		if !ok {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownField, edit.Field)
		}
		if err := f.Change(field, edit.Value); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, id, f); err != nil {
		return nil, err
	}
	return session(id, f), nil
}

func (s *formServiceImpl) Submit(ctx context.Context, id string) (*SubmitResult, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var record form.Draft
	accepted := form.HandlerFuncs{
		Submit: func(_ context.Context, d form.Draft) error {
			record = d
			return nil
		},
	}

	f, err := s.load(ctx, id, accepted)
	if err != nil {
		return nil, err
	}

	outcome, err := f.Submit(ctx)
	if err != nil {
		return nil, err
	}

	switch outcome {
	case form.OutcomeDisabled:
		return nil, apperrors.ErrFormDisabled
	case form.OutcomeRejected:
		if err := s.save(ctx, id, f); err != nil {
			return nil, err
		}
		return &SubmitResult{Outcome: outcome, Session: session(id, f)}, nil
	}

	// The save runs outside the form lock so that concurrent requests see the loading state.
	f.SetLoading(true)
	if err := s.save(ctx, id, f); err != nil {
		return nil, err
	}
	mode, studentID := f.Mode(), f.StudentID()
	unlock()

	student, saveErr := s.persist(ctx, mode, studentID, record)

	// Loading must be settled even when the caller has gone away
	settle := context.WithoutCancel(ctx)
	unlock = s.locks.Lock(id)
	defer unlock()

	if saveErr != nil {
		s.clearLoading(settle, id)
		return nil, saveErr
	}

	if err := s.store.Delete(settle, id); err != nil {
		s.logger.Warn().Err(err).Str("formID", id).Msg("Failed to discard submitted form")
	}

	s.logger.Info().Str("formID", id).Int64("studentID", student.ID).Str("mode", string(mode)).Msg("Form submitted")
	return &SubmitResult{Outcome: outcome, Student: student, Created: mode == form.ModeCreate}, nil
}

func (s *formServiceImpl) persist(ctx context.Context, mode form.Mode, studentID int64, record form.Draft) (*models.Student, error) {
	student, err := record.Student(studentID)
	if err != nil {
		return nil, err
	}

	if mode == form.ModeEdit {
		if err := s.students.UpdateStudent(ctx, &student); err != nil {
			return nil, err
		}
		return &student, nil
	}

	id, err := s.students.CreateStudent(ctx, &student)
	if err != nil {
		return nil, err
	}
	student.ID = id
	return &student, nil
}

// clearLoading re-enables a form after a failed save
func (s *formServiceImpl) clearLoading(ctx context.Context, id string) {
	f, err := s.load(ctx, id, nil)
	if err != nil {
		s.logger.Warn().Err(err).Str("formID", id).Msg("Form vanished during save")
		return
	}
	f.SetLoading(false)
	if err := s.save(ctx, id, f); err != nil {
		s.logger.Error().Err(err).Str("formID", id).Msg("Failed to re-enable form")
	}
}

func (s *formServiceImpl) Cancel(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	cancelled := form.HandlerFuncs{
		Cancel: func() {
			s.logger.Debug().Str("formID", id).Msg("Form cancelled")
		},
	}

	f, err := s.load(ctx, id, cancelled)
	if err != nil {
		return err
	}
	if !f.Cancel() {
		return apperrors.ErrFormDisabled
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("error discarding form: %w", err)
	}
	return nil
}
