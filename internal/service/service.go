// Package service holds the student business rules: payload validation,
// identifier and whitespace normalisation, and the read-then-write
// sequences behind update and delete.
//
// Every error it returns is an *apperr.Error, so callers can map it to a
// response without inspecting messages.
package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/aanand-mishra/students-api/internal/apperr"
	"github.com/aanand-mishra/students-api/internal/paging"
	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/types"
	"github.com/aanand-mishra/students-api/internal/validation"
)

const resourceName = "Student"

// StudentService implements the student use cases over a storage gateway.
// It holds no per-request state.
type StudentService struct {
	store     storage.Storage
	validator *validation.Validator
}

// NewStudentService wires the service to its collaborators.
func NewStudentService(store storage.Storage, validator *validation.Validator) *StudentService {
	return &StudentService{store: store, validator: validator}
}

// List returns one page of students. req must come from paging.Sanitizer.
func (s *StudentService) List(ctx context.Context, req paging.Request) (paging.Page[types.Student], error) {
	students, total, err := s.store.FindPage(ctx, req)
	if err != nil {
		return paging.Page[types.Student]{}, apperr.Internal(err)
	}
	return paging.NewPage(students, req, total), nil
}

// Get returns the student with id.
func (s *StudentService) Get(ctx context.Context, id int64) (types.Student, error) {
	student, err := s.store.FindByID(ctx, id)
	if err != nil {
		return types.Student{}, s.storageErr(err, id)
	}
	return student, nil
}

// Create validates the payload, drops any client-supplied id, trims the
// text fields and stores the result.
func (s *StudentService) Create(ctx context.Context, in *types.Student) (types.Student, error) {
	if err := s.validator.Student(in); err != nil {
		return types.Student{}, err
	}

	student := validation.Normalize(*in)
	student.ID = nil

	created, err := s.store.Save(ctx, student)
	if err != nil {
		return types.Student{}, apperr.Internal(err)
	}
	return created, nil
}

// Update replaces every mutable field of an existing student. The record
// must exist before the payload is validated.
func (s *StudentService) Update(ctx context.Context, id int64, in *types.Student) (types.Student, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return types.Student{}, err
	}

	if err := s.validator.Student(in); err != nil {
		return types.Student{}, err
	}

	incoming := validation.Normalize(*in)
	existing.FirstName = incoming.FirstName
	existing.LastName = incoming.LastName
	existing.Email = incoming.Email
	existing.DateOfBirth = incoming.DateOfBirth

	updated, err := s.store.Save(ctx, existing)
	if err != nil {
		return types.Student{}, s.storageErr(err, id)
	}
	return updated, nil
}

// Delete removes the student with id.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	ok, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return notFound(id)
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return s.storageErr(err, id)
	}
	return nil
}

// storageErr converts a storage failure for id into an *apperr.Error.
// A record deleted between the read and the write surfaces as not found.
func (s *StudentService) storageErr(err error, id int64) error {
	if errors.Is(err, storage.ErrNotFound) {
		return notFound(id)
	}
	return apperr.Internal(err)
}

func notFound(id int64) error {
	return apperr.NotFound(resourceName, "id", strconv.FormatInt(id, 10))
}
