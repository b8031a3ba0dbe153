// Package service implements the application's business rules on top of the
// repository layer.
package service

import (
	"context"

	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
)

const (
	minFeedbackScore = 1
	maxFeedbackScore = 5
)

// CreateSwapInput carries the client-supplied fields of a new swap request.
// The requester is always the authenticated caller.
type CreateSwapInput struct {
	ToUserID       string
	SkillID        *uint
	SkillRequestID *uint
	Message        string
}

// ConnectionService provides the swap-request lifecycle business logic.
type ConnectionService struct {
	connRepo         repository.ConnectionRepository
	userRepo         repository.UserRepository
	skillRepo        repository.SkillRepository
	skillRequestRepo repository.SkillRequestRepository
}

// NewConnectionService returns a new ConnectionService.
func NewConnectionService(
	connRepo repository.ConnectionRepository,
	userRepo repository.UserRepository,
	skillRepo repository.SkillRepository,
	skillRequestRepo repository.SkillRequestRepository,
) *ConnectionService {
	return &ConnectionService{
		connRepo:         connRepo,
		userRepo:         userRepo,
		skillRepo:        skillRepo,
		skillRequestRepo: skillRequestRepo,
	}
}

// CreateSwapRequest creates a pending swap request from the caller to the
// target user. Referenced listings must exist, be active, and belong to the
// target user's own catalog.
func (s *ConnectionService) CreateSwapRequest(ctx context.Context, callerID string, in CreateSwapInput) (*models.Connection, error) {
	if in.ToUserID == callerID {
		return nil, models.NewSelfReferenceError("Cannot send a swap request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, in.ToUserID); err != nil {
		if isNotFound(err) {
			return nil, models.NewInvalidReferenceError("Target user does not exist")
		}
		return nil, err
	}

	if in.SkillID != nil {
		skill, err := s.skillRepo.GetByID(ctx, *in.SkillID)
		if err != nil {
			if isNotFound(err) {
				return nil, models.NewInvalidReferenceError("Referenced skill does not exist")
			}
			return nil, err
		}
		if skill.UserID != in.ToUserID {
			return nil, models.NewInvalidReferenceError("Referenced skill does not belong to the target user")
		}
		if !skill.IsActive {
			return nil, models.NewInvalidReferenceError("Referenced skill is no longer available")
		}
	}

	if in.SkillRequestID != nil {
		request, err := s.skillRequestRepo.GetByID(ctx, *in.SkillRequestID)
		if err != nil {
			if isNotFound(err) {
				return nil, models.NewInvalidReferenceError("Referenced skill request does not exist")
			}
			return nil, err
		}
		if request.UserID != in.ToUserID {
			return nil, models.NewInvalidReferenceError("Referenced skill request does not belong to the target user")
		}
		if !request.IsActive {
			return nil, models.NewInvalidReferenceError("Referenced skill request is no longer available")
		}
	}

	conn := &models.Connection{
		FromUserID:     callerID,
		ToUserID:       in.ToUserID,
		SkillID:        in.SkillID,
		SkillRequestID: in.SkillRequestID,
		Status:         models.ConnectionStatusPending,
		Message:        in.Message,
	}
	if err := s.connRepo.Create(ctx, conn); err != nil {
		return nil, err
	}

	observability.SwapTransitionsTotal.WithLabelValues("created").Inc()
	return s.connRepo.GetByID(ctx, conn.ID)
}

// Accept moves a pending swap request to accepted. Only the target user may
// accept; a request that is no longer pending fails with InvalidState even
// when a concurrent transition got there first.
func (s *ConnectionService) Accept(ctx context.Context, callerID string, id uint) (*models.Connection, error) {
	return s.transition(ctx, callerID, id, models.ConnectionStatusAccepted)
}

// Decline moves a pending swap request to declined. Same rules as Accept.
func (s *ConnectionService) Decline(ctx context.Context, callerID string, id uint) (*models.Connection, error) {
	return s.transition(ctx, callerID, id, models.ConnectionStatusDeclined)
}

func (s *ConnectionService) transition(ctx context.Context, callerID string, id uint, to models.ConnectionStatus) (*models.Connection, error) {
	conn, err := s.connRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if conn.ToUserID != callerID {
		return nil, models.NewForbiddenError("Only the recipient can respond to a swap request")
	}

	if err := s.connRepo.TransitionFromPending(ctx, id, to); err != nil {
		return nil, err
	}

	observability.SwapTransitionsTotal.WithLabelValues(string(to)).Inc()
	return s.connRepo.GetByID(ctx, id)
}

// Delete removes a pending swap request. Only the requester may delete, and
// only while the request is still pending; responded requests are history.
func (s *ConnectionService) Delete(ctx context.Context, callerID string, id uint) (*models.Connection, error) {
	conn, err := s.connRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if conn.FromUserID != callerID {
		return nil, models.NewForbiddenError("Only the requester can delete a swap request")
	}

	if err := s.connRepo.DeletePending(ctx, id); err != nil {
		return nil, err
	}

	observability.SwapTransitionsTotal.WithLabelValues("deleted").Inc()
	return conn, nil
}

// ListMine returns the caller's swap requests on either side, newest first,
// optionally filtered by status.
func (s *ConnectionService) ListMine(ctx context.Context, callerID string, status string, limit, offset int) ([]models.Connection, error) {
	var filter models.ConnectionStatus
	switch models.ConnectionStatus(status) {
	case "", models.ConnectionStatusPending, models.ConnectionStatusAccepted, models.ConnectionStatusDeclined:
		filter = models.ConnectionStatus(status)
	default:
		return nil, models.NewValidationError("Unknown status filter")
	}

	return s.connRepo.ListForUser(ctx, callerID, filter, limit, offset)
}

// SubmitFeedback records a 1-5 score from one participant of an accepted swap
// and folds it into the counterpart's running rating average. Each side may
// submit once.
func (s *ConnectionService) SubmitFeedback(ctx context.Context, callerID string, id uint, score int) (*models.Connection, error) {
	if score < minFeedbackScore || score > maxFeedbackScore {
		return nil, models.NewValidationError("Score must be between 1 and 5")
	}

	conn, err := s.connRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !conn.IsParticipant(callerID) {
		return nil, models.NewForbiddenError("Only swap participants can submit feedback")
	}
	if conn.Status != models.ConnectionStatusAccepted {
		return nil, models.NewInvalidStateError("Feedback is only accepted for accepted swaps")
	}

	if err := s.connRepo.RecordFeedback(ctx, conn, callerID, score); err != nil {
		return nil, err
	}

	observability.FeedbackSubmissionsTotal.Inc()
	return s.connRepo.GetByID(ctx, id)
}

// isNotFound reports whether err is an AppError with the NOT_FOUND code.
func isNotFound(err error) bool {
	appErr, ok := err.(*models.AppError)
	return ok && appErr.Code == models.CodeNotFound
}

// isConflict reports whether err is an AppError with the CONFLICT code.
func isConflict(err error) bool {
	appErr, ok := err.(*models.AppError)
	return ok && appErr.Code == models.CodeConflict
}
