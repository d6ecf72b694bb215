package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/resultdesk/internal/app/models"
	"github.com/yigit/resultdesk/internal/pkg/apperrors"
)

func TestCreateStudentDerivesGrade(t *testing.T) {
	repo := newFakeStudentStore()
	svc := NewStudentService(repo, zerolog.Nop())

	student := &models.Student{Name: "  Alice ", Section: models.Section3CB, Marks: 91, Grade: "F"}
	id, err := svc.CreateStudent(context.Background(), student)
	if err != nil {
		t.Fatal(err)
	}

	stored := repo.students[id]
	if stored.Grade != "A+" || stored.Name != "Alice" {
		t.Fatalf("stored %+v", stored)
	}
}

func TestCreateStudentValidation(t *testing.T) {
	svc := NewStudentService(newFakeStudentStore(), zerolog.Nop())

	_, err := svc.CreateStudent(context.Background(), &models.Student{Name: "A", Section: "9ZZ", Marks: 120})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v", err)
	}

	details := apperrors.DetailsOf(err)
	for _, field := range []string{"name", "section", "marks"} {
		if _, ok := details[field]; !ok {
			t.Errorf("missing %s in %v", field, details)
		}
	}
}

func TestStudentNotFoundMapping(t *testing.T) {
	svc := NewStudentService(newFakeStudentStore(), zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.GetStudentByID(ctx, 42); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("get err = %v", err)
	}
	if err := svc.DeleteStudent(ctx, 42); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("delete err = %v", err)
	}
	err := svc.UpdateStudent(ctx, &models.Student{ID: 42, Name: "Alice", Section: models.Section3CA, Marks: 50})
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("update err = %v", err)
	}
	if _, err := svc.GetStudentByID(ctx, 0); !errors.Is(err, apperrors.ErrInvalidStudentID) {
		t.Errorf("zero id err = %v", err)
	}
}

func TestListStudentsRejectsUnknownSection(t *testing.T) {
	svc := NewStudentService(newFakeStudentStore(), zerolog.Nop())
	bad := models.Section("4XX")

	_, _, err := svc.ListStudents(context.Background(), models.StudentFilter{Section: &bad}, 0, 10)
	if !errors.Is(err, apperrors.ErrUnknownSection) {
		t.Fatalf("err = %v", err)
	}
}
