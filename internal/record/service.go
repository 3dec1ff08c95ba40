// AngelaMos | 2026
// service.go

package record

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/carterperez-dev/eatme/internal/core"
	"github.com/carterperez-dev/eatme/internal/middleware"
	"github.com/carterperez-dev/eatme/internal/user"
)

const msgNoAccess = "No access to the records of this user."

type UserFinder interface {
	Lookup(ctx context.Context, id int64) (*user.User, error)
}

type Service struct {
	repo   Repository
	users  UserFinder
	logger *slog.Logger
}

func NewService(repo Repository, users UserFinder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, users: users, logger: logger}
}

func (s *Service) List(
	ctx context.Context,
	caller *middleware.Identity,
	userID int64,
	query url.Values,
) ([]Record, error) {
	if !caller.CanAccess(userID, middleware.RoleEditor) {
		return nil, core.ForbiddenError(msgNoAccess)
	}

	if _, err := s.users.Lookup(ctx, userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("No such user.")
		}
		return nil, err
	}

	filter, err := ParseFilter(query)
	if err != nil {
		return nil, core.BadRequestError("Invalid query parameters.")
	}

	return s.repo.List(ctx, userID, filter)
}

func (s *Service) Create(
	ctx context.Context,
	caller *middleware.Identity,
	req CreateRecordRequest,
) (_ *Record, err error) {
	ctx, span := core.StartSpan(ctx, "record.create",
		core.AttrCallerID.Int64(caller.UserID),
		core.AttrUserID.Int64(req.UserID),
	)
	defer func() { core.EndSpan(span, err) }()

	if !caller.CanAccess(req.UserID, middleware.RoleEditor) {
		return nil, core.ForbiddenError("No access to add records to this user.")
	}

	if _, err := s.users.Lookup(ctx, req.UserID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("Invalid user")
		}
		return nil, err
	}

	record := &Record{
		UserID:      req.UserID,
		Calories:    *req.Calories,
		Description: req.Description,
	}
	if err := applyDateTime(record, req.RecordDate, req.RecordTime); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	span.SetAttributes(core.AttrRecordID.Int64(record.ID))

	s.logger.Info("record created",
		"record_id", record.ID,
		"user_id", record.UserID,
		"created_by", caller.UserID,
	)
	return record, nil
}

// Get returns the record when the caller owns it or is an editor.
func (s *Service) Get(
	ctx context.Context,
	caller *middleware.Identity,
	id int64,
) (*Record, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, recordError(err)
	}

	if !caller.CanAccess(record.UserID, middleware.RoleEditor) {
		return nil, core.ForbiddenError(msgNoAccess)
	}

	return record, nil
}

// Update applies the present fields of req to the locked row.
func (s *Service) Update(
	ctx context.Context,
	caller *middleware.Identity,
	id int64,
	req UpdateRecordRequest,
) (_ *Record, err error) {
	ctx, span := core.StartSpan(ctx, "record.update",
		core.AttrCallerID.Int64(caller.UserID),
		core.AttrRecordID.Int64(id),
	)
	defer func() { core.EndSpan(span, err) }()

	var updated *Record

	err = s.repo.InTx(ctx, func(repo Repository) error {
		record, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return recordError(err)
		}

		if !caller.CanAccess(record.UserID, middleware.RoleEditor) {
			return core.ForbiddenError(msgNoAccess)
		}

		if req.Calories != nil {
			record.Calories = *req.Calories
		}
		if req.Description != nil {
			record.Description = *req.Description
		}
		if err := applyDateTime(record, req.RecordDate, req.RecordTime); err != nil {
			return err
		}

		if err := repo.Update(ctx, record); err != nil {
			return recordError(err)
		}

		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("record updated", "record_id", id, "updated_by", caller.UserID)
	return updated, nil
}

func (s *Service) Delete(
	ctx context.Context,
	caller *middleware.Identity,
	id int64,
) (err error) {
	ctx, span := core.StartSpan(ctx, "record.delete",
		core.AttrCallerID.Int64(caller.UserID),
		core.AttrRecordID.Int64(id),
	)
	defer func() { core.EndSpan(span, err) }()

	err = s.repo.InTx(ctx, func(repo Repository) error {
		record, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return recordError(err)
		}

		if !caller.CanAccess(record.UserID, middleware.RoleEditor) {
			return core.ForbiddenError(msgNoAccess)
		}

		return recordError(repo.Delete(ctx, id))
	})
	if err != nil {
		return err
	}

	s.logger.Info("record deleted", "record_id", id, "deleted_by", caller.UserID)
	return nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func applyDateTime(record *Record, date, clock *string) error {
	if date != nil {
		value, err := core.ParseDate(*date)
		if err != nil {
			return core.BadRequestError("Invalid date given")
		}
		record.RecordDate = value
	}

	if clock != nil {
		value, err := core.ParseTimeOfDay(*clock)
		if err != nil {
			return core.BadRequestError("Invalid time given")
		}
		record.RecordTime = value
	}

	return nil
}

func recordError(err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError("No such record.")
	}
	return err
}
