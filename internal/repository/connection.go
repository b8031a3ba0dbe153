package repository

import (
	"context"
	"errors"

	"skillswap/internal/cache"
	"skillswap/internal/models"

	"gorm.io/gorm"
)

// ConnectionRepository defines persistence operations for swap requests.
//
// Lifecycle transitions go through conditioned single-row writes: the UPDATE
// (or DELETE) carries the expected current status in its WHERE clause, so two
// concurrent accept/decline calls cannot both win. The loser sees zero rows
// affected and surfaces InvalidState.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) error
	GetByID(ctx context.Context, id uint) (*models.Connection, error)
	ListForUser(ctx context.Context, userID string, status models.ConnectionStatus, limit, offset int) ([]models.Connection, error)
	TransitionFromPending(ctx context.Context, id uint, to models.ConnectionStatus) error
	DeletePending(ctx context.Context, id uint) error
	RecordFeedback(ctx context.Context, conn *models.Connection, raterID string, score int) error
}

type connectionRepository struct {
	db *gorm.DB
}

// NewConnectionRepository returns a new ConnectionRepository implementation.
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	if err := r.db.WithContext(ctx).Create(conn).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	var conn models.Connection
	if err := readDB(r.db).WithContext(ctx).
		Preload("FromUser").
		Preload("ToUser").
		Preload("Skill").
		Preload("SkillRequest").
		First(&conn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Swap request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &conn, nil
}

func (r *connectionRepository) ListForUser(ctx context.Context, userID string, status models.ConnectionStatus, limit, offset int) ([]models.Connection, error) {
	db := readDB(r.db).WithContext(ctx).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var conns []models.Connection
	if err := db.
		Preload("FromUser").
		Preload("ToUser").
		Preload("Skill").
		Preload("SkillRequest").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&conns).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return conns, nil
}

// TransitionFromPending atomically moves a pending connection to a terminal
// status. InvalidState is returned when the row is no longer pending,
// including when a concurrent transition won the race.
func (r *connectionRepository) TransitionFromPending(ctx context.Context, id uint, to models.ConnectionStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Connection{}).
		Where("id = ? AND status = ?", id, models.ConnectionStatusPending).
		Update("status", to)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewInvalidStateError("Swap request is not pending")
	}
	return nil
}

// DeletePending removes a pending connection. Same conditioned-write contract
// as TransitionFromPending.
func (r *connectionRepository) DeletePending(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.ConnectionStatusPending).
		Delete(&models.Connection{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewInvalidStateError("Swap request is not pending")
	}
	return nil
}

// RecordFeedback stores the rater's score on their side of an accepted
// connection and folds it into the counterpart's running rating average, all
// in one transaction. The slot update is conditioned on the slot still being
// empty so a double submit loses cleanly.
func (r *connectionRepository) RecordFeedback(ctx context.Context, conn *models.Connection, raterID string, score int) error {
	slot := "to_rating"
	if conn.FromUserID == raterID {
		slot = "from_rating"
	}
	counterpartID := conn.Counterpart(raterID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Connection{}).
			Where("id = ? AND status = ? AND "+slot+" IS NULL", conn.ID, models.ConnectionStatusAccepted).
			Update(slot, score)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewInvalidStateError("Feedback was already submitted for this swap")
		}

		// Both assignments read the pre-update column values, so the running
		// average uses the old total.
		if err := tx.Model(&models.User{}).
			Where("id = ?", counterpartID).
			Updates(map[string]interface{}{
				"rating":        gorm.Expr("(rating * total_ratings + ?) / (total_ratings + 1.0)", score),
				"total_ratings": gorm.Expr("total_ratings + 1"),
			}).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, counterpartID)
	return nil
}
