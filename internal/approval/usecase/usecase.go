package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/approval"
	"github.com/fekuna/labstock-service/internal/approval/dto"
	"github.com/fekuna/labstock-service/internal/changefeed"
	"github.com/fekuna/labstock-service/internal/inventory"
	invdto "github.com/fekuna/labstock-service/internal/inventory/dto"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/movement"
	"github.com/fekuna/labstock-service/internal/submission"
	"github.com/fekuna/labstock-service/pkg/logger"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type approvalUseCase struct {
	submissions submission.Repository
	inventory   inventory.UseCase
	feed        changefeed.Publisher
	logger      logger.ZapLogger
	now         func() time.Time
}

type Option func(*approvalUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *approvalUseCase) { uc.now = now }
}

func NewApprovalUseCase(
	submissions submission.Repository,
	inv inventory.UseCase,
	feed changefeed.Publisher,
	log logger.ZapLogger,
	opts ...Option,
) approval.UseCase {
	uc := &approvalUseCase{
		submissions: submissions,
		inventory:   inv,
		feed:        feed,
		logger:      log,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.feed == nil {
		uc.feed = changefeed.NopPublisher{}
	}
	return uc
}

// Approve flips the status first, then writes every item concurrently under
// one INV ref. Items already written stay written when a sibling fails; the
// only compensation is putting the submission back to pending.
func (uc *approvalUseCase) Approve(ctx context.Context, submissionID string, admin model.Actor) (*dto.ApprovalResult, error) {
	s, err := uc.loadPending(ctx, submissionID, admin)
	if err != nil {
		return nil, err
	}

	reviewer := admin.UserName
	reviewedAt := uc.now()
	ok, err := uc.submissions.UpdateStatus(ctx, s.ID, model.SubmissionPending, model.SubmissionApproved, &reviewer, &reviewedAt)
	if err != nil {
		uc.logger.Error("failed to approve submission", zap.String("submission_id", s.ID), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, apperror.Conflict("submission " + s.ID + " is no longer pending")
	}
	s.Status = model.SubmissionApproved
	s.ReviewedBy = &reviewer
	s.ReviewedAt = &reviewedAt

	result := &dto.ApprovalResult{
		Submission:     s,
		TransactionRef: movement.NewRef(movement.PrefixInventory, uc.now()),
	}

	var (
		mu   sync.Mutex
		errs error
		g    errgroup.Group
	)
	for _, item := range s.Items {
		item := item
		g.Go(func() error {
			res, err := uc.inventory.SetStock(ctx, &invdto.SetStockInput{
				ProductID:      item.ProductID,
				NewStock:       item.Quantity,
				ChangeType:     model.ChangeSubmission,
				TransactionRef: result.TransactionRef,
				Location:       s.DepotName,
			}, admin)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				uc.logger.Error("approval item failed",
					zap.String("submission_id", s.ID),
					zap.String("product_id", item.ProductID),
					zap.String("transaction_ref", result.TransactionRef),
					zap.Error(err),
				)
				result.Failed = append(result.Failed, item.ProductID)
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", item.Name, err))
				return err
			}
			if res.Movement != nil {
				result.Movements = append(result.Movements, *res.Movement)
			}
			return nil
		})
	}
	_ = g.Wait()

	if errs != nil {
		ok, rerr := uc.submissions.UpdateStatus(ctx, s.ID, model.SubmissionApproved, model.SubmissionPending, nil, nil)
		switch {
		case rerr != nil:
			uc.logger.Error("failed to revert submission to pending", zap.String("submission_id", s.ID), zap.Error(rerr))
			errs = multierr.Append(errs, rerr)
		case ok:
			s.Status = model.SubmissionPending
			s.ReviewedBy = nil
			s.ReviewedAt = nil
		}
		uc.feed.Publish(ctx, changefeed.TableSubmissions, changefeed.ActionUpdate, s.ID)
		return result, errs
	}

	uc.logger.Info("submission approved",
		zap.String("submission_id", s.ID),
		zap.String("depot", s.DepotName),
		zap.String("transaction_ref", result.TransactionRef),
		zap.Int("items", len(s.Items)),
	)
	uc.feed.Publish(ctx, changefeed.TableSubmissions, changefeed.ActionUpdate, s.ID)
	return result, nil
}

func (uc *approvalUseCase) Reject(ctx context.Context, submissionID string, admin model.Actor) (*model.InventorySubmission, error) {
	s, err := uc.loadPending(ctx, submissionID, admin)
	if err != nil {
		return nil, err
	}

	reviewer := admin.UserName
	reviewedAt := uc.now()
	ok, err := uc.submissions.UpdateStatus(ctx, s.ID, model.SubmissionPending, model.SubmissionRejected, &reviewer, &reviewedAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Conflict("submission " + s.ID + " is no longer pending")
	}
	s.Status = model.SubmissionRejected
	s.ReviewedBy = &reviewer
	s.ReviewedAt = &reviewedAt

	uc.logger.Info("submission rejected", zap.String("submission_id", s.ID), zap.String("depot", s.DepotName))
	uc.feed.Publish(ctx, changefeed.TableSubmissions, changefeed.ActionUpdate, s.ID)
	return s, nil
}

func (uc *approvalUseCase) loadPending(ctx context.Context, id string, admin model.Actor) (*model.InventorySubmission, error) {
	if !admin.IsAdmin() {
		return nil, apperror.Forbidden("admin role required")
	}
	s, err := uc.submissions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperror.NotFound("submission", id)
	}
	if s.Status != model.SubmissionPending {
		return nil, apperror.Conflict(fmt.Sprintf("submission %s is already %s", s.ID, s.Status))
	}
	return s, nil
}
