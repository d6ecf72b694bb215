package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/resultdesk/internal/app/form"
	"github.com/yigit/resultdesk/internal/app/grading"
	"github.com/yigit/resultdesk/internal/app/models"
	"github.com/yigit/resultdesk/internal/app/repositories"
	"github.com/yigit/resultdesk/internal/pkg/apperrors"
)

// StudentService defines the operations on student records
type StudentService interface {
	CreateStudent(ctx context.Context, student *models.Student) (int64, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	ListStudents(ctx context.Context, filter models.StudentFilter, offset uint64, limit int) ([]*models.Student, int64, error)
	UpdateStudent(ctx context.Context, student *models.Student) error
	DeleteStudent(ctx context.Context, id int64) error
}

type studentServiceImpl struct {
	repo   repositories.StudentStore
	logger zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(repo repositories.StudentStore, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// normalizeStudent validates a record with the form rules and re-derives its grade
func normalizeStudent(student *models.Student) error {
	if student == nil {
		return fmt.Errorf("%w: student is nil", apperrors.ErrValidationFailed)
	}

	fields := form.Validate(form.DraftFromStudent(*student)).Messages()
	if !student.Section.Valid() {
		fields[string(form.FieldSection)] = "Section must be one of 3CA, 3CB, 3CC"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError(fields)
	}

	student.Name = strings.TrimSpace(student.Name)
	student.Grade = string(grading.DeriveGrade(student.Marks))
	return nil
}

func (s *studentServiceImpl) CreateStudent(ctx context.Context, student *models.Student) (int64, error) {
	if err := normalizeStudent(student); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, student)
	if err != nil {
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	s.logger.Info().Int64("studentID", id).Str("section", string(student.Section)).Str("grade", student.Grade).Msg("Student created")
	return id, nil
}

func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrInvalidStudentID, id)
	}

	student, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

func (s *studentServiceImpl) ListStudents(ctx context.Context, filter models.StudentFilter, offset uint64, limit int) ([]*models.Student, int64, error) {
	if filter.Section != nil && !filter.Section.Valid() {
		return nil, 0, fmt.Errorf("%w: %q", apperrors.ErrUnknownSection, *filter.Section)
	}

	students, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, total, nil
}

func (s *studentServiceImpl) UpdateStudent(ctx context.Context, student *models.Student) error {
	if student != nil && student.ID <= 0 {
		return fmt.Errorf("%w: %d", apperrors.ErrInvalidStudentID, student.ID)
	}
	if err := normalizeStudent(student); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error updating student: %w", err)
	}

	s.logger.Info().Int64("studentID", student.ID).Str("grade", student.Grade).Msg("Student updated")
	return nil
}

func (s *studentServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", apperrors.ErrInvalidStudentID, id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.ErrStudentNotFound
		}
		return fmt.Errorf("error deleting student: %w", err)
	}

	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}
