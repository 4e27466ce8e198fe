package services

import (
	"context"

	"dorm-backend/internal/cache"
	"dorm-backend/internal/models"
	"dorm-backend/internal/policy"
	"dorm-backend/internal/repositories"
)

type StudentService struct {
	store  repositories.Store
	engine *OccupancyEngine
}

func NewStudentService(store repositories.Store, engine *OccupancyEngine) *StudentService {
	return &StudentService{store: store, engine: engine}
}

func (s *StudentService) List(ctx context.Context, actor policy.Actor, roomID string) ([]*models.Student, error) {
	if err := policy.Authorize(actor, policy.StudentRead); err != nil {
		return nil, err
	}
	load := func(ctx context.Context) (students []*models.Student, err error) {
		err = s.store.View(ctx, func(tx repositories.Tx) error {
			if roomID != "" {
				students, err = tx.Students().ListByRoom(ctx, roomID)
			} else {
				students, err = tx.Students().List(ctx)
			}
			return err
		})
		return students, err
	}
	if roomID != "" {
		return load(ctx)
	}
	return cache.Fetch(ctx, cache.StudentsListKey, load)
}

func (s *StudentService) Get(ctx context.Context, actor policy.Actor, id string) (st *models.Student, err error) {
	if err := policy.Authorize(actor, policy.StudentRead); err != nil {
		return nil, err
	}
	err = s.store.View(ctx, func(tx repositories.Tx) error {
		st, err = tx.Students().Get(ctx, id)
		return err
	})
	return st, err
}

// Create registers a student and takes a place in the chosen room
func (s *StudentService) Create(ctx context.Context, actor policy.Actor, req *models.CreateStudentRequest) (*models.Student, error) {
	if err := policy.Authorize(actor, policy.StudentCreate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	student := &models.Student{
		StudentCode: req.StudentCode,
		Name:        req.Name,
		DOB:         req.DOB,
		Gender:      req.Gender,
		Phone:       req.Phone,
		RoomID:      req.RoomID,
		University:  req.University,
	}
	err := s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		if err := s.engine.Assign(ctx, tx, models.Occupant{Kind: models.OccupantStudent}, req.RoomID); err != nil {
			return err
		}
		return tx.Students().Create(ctx, student)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateStudentCaches(ctx)
	return student, nil
}

// Update applies a partial update; a new room_id moves the student
func (s *StudentService) Update(ctx context.Context, actor policy.Actor, id string, req *models.UpdateStudentRequest) (st *models.Student, err error) {
	if err := policy.Authorize(actor, policy.StudentUpdate); err != nil {
		return nil, err
	}
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	err = s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		st, err = tx.Students().Get(ctx, id)
		if err != nil {
			return err
		}
		if req.RoomID != nil {
			if err := s.engine.Assign(ctx, tx, st.Occupant(), *req.RoomID); err != nil {
				return err
			}
		}
		req.Apply(st)
		return tx.Students().Update(ctx, st)
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateStudentCaches(ctx)
	return st, nil
}

// Delete removes the student and frees their place
func (s *StudentService) Delete(ctx context.Context, actor policy.Actor, id string) error {
	if err := policy.Authorize(actor, policy.StudentDelete); err != nil {
		return err
	}
	err := s.store.RunInTx(ctx, func(tx repositories.Tx) error {
		st, err := tx.Students().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.engine.Release(ctx, tx, st.Occupant()); err != nil {
			return err
		}
		return tx.Students().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	cache.InvalidateStudentCaches(ctx)
	return nil
}
