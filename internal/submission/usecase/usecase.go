package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fekuna/labstock-service/internal/apperror"
	"github.com/fekuna/labstock-service/internal/auth"
	"github.com/fekuna/labstock-service/internal/changefeed"
	"github.com/fekuna/labstock-service/internal/chat"
	chatdto "github.com/fekuna/labstock-service/internal/chat/dto"
	"github.com/fekuna/labstock-service/internal/depot"
	"github.com/fekuna/labstock-service/internal/model"
	"github.com/fekuna/labstock-service/internal/report"
	"github.com/fekuna/labstock-service/internal/submission"
	"github.com/fekuna/labstock-service/internal/submission/dto"
	"github.com/fekuna/labstock-service/pkg/i18n"
	"github.com/fekuna/labstock-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const sideEffectTimeout = 30 * time.Second

// Exporter archives a CSV report under a file name.
type Exporter interface {
	Save(name string, write func(io.Writer) error) (string, error)
}

type submissionUseCase struct {
	repo     submission.Repository
	drafts   submission.DraftStore
	products submission.ProductReader
	depots   depot.Repository
	chat     chat.UseCase
	exporter Exporter
	feed     changefeed.Publisher
	logger   logger.ZapLogger

	mu       sync.Mutex // serializes draft read-modify-write
	inflight sync.WaitGroup
}

// NewSubmissionUseCase builds the depot-side workflow. exporter and
// chatUC may be nil, in which case the matching side effect is skipped.
func NewSubmissionUseCase(
	repo submission.Repository,
	drafts submission.DraftStore,
	products submission.ProductReader,
	depots depot.Repository,
	chatUC chat.UseCase,
	exporter Exporter,
	feed changefeed.Publisher,
	log logger.ZapLogger,
) submission.UseCase {
	if feed == nil {
		feed = changefeed.NopPublisher{}
	}
	return &submissionUseCase{
		repo:     repo,
		drafts:   drafts,
		products: products,
		depots:   depots,
		chat:     chatUC,
		exporter: exporter,
		feed:     feed,
		logger:   log,
	}
}

func (uc *submissionUseCase) Stage(ctx context.Context, input *dto.StageInput, actor model.Actor) ([]model.SubmissionItem, error) {
	if input.Quantity <= 0 {
		return nil, apperror.ErrInvalidQuantity
	}
	d, err := uc.depotFor(ctx, input.DepotID, actor)
	if err != nil {
		return nil, err
	}

	p, err := uc.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", input.ProductID)
	}
	if p.Location != d.Name {
		return nil, apperror.Validation("product_id", "product belongs to another depot")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	items, err := uc.drafts.Get(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ProductID == p.ID {
			return nil, apperror.Conflict(fmt.Sprintf("%s is already staged", p.Name))
		}
	}
	items = append(items, model.SubmissionItem{ProductID: p.ID, Name: p.Name, Quantity: input.Quantity})
	if err := uc.drafts.Save(ctx, d.ID, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (uc *submissionUseCase) Unstage(ctx context.Context, depotID, productID string, actor model.Actor) ([]model.SubmissionItem, error) {
	d, err := uc.depotFor(ctx, depotID, actor)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	items, err := uc.drafts.Get(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	if err := uc.drafts.Save(ctx, d.ID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (uc *submissionUseCase) Draft(ctx context.Context, depotID string, actor model.Actor) ([]model.SubmissionItem, error) {
	d, err := uc.depotFor(ctx, depotID, actor)
	if err != nil {
		return nil, err
	}
	return uc.drafts.Get(ctx, d.ID)
}

// Submit persists a pending submission, then fires the CSV archive and the
// chat notification. Neither side effect can fail or delay the submission.
func (uc *submissionUseCase) Submit(ctx context.Context, input *dto.SubmitInput, actor model.Actor) (*model.InventorySubmission, error) {
	d, err := uc.depotFor(ctx, input.DepotID, actor)
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	s, err := uc.create(ctx, d, input.Items)
	uc.mu.Unlock()
	if err != nil {
		return nil, err
	}

	uc.logger.Info("inventory submitted",
		zap.String("submission_id", s.ID),
		zap.String("depot", d.Name),
		zap.Int("items", len(s.Items)),
	)
	uc.feed.Publish(ctx, changefeed.TableSubmissions, changefeed.ActionInsert, s.ID)

	uc.dispatch("export", s, func(ctx context.Context) error { return uc.export(s) })
	uc.dispatch("notify", s, func(ctx context.Context) error { return uc.notify(ctx, s, actor) })
	return s, nil
}

// create stores the submission built from items, or from the draft when
// items is empty. Callers hold uc.mu so a line staged meanwhile is not
// cleared with the draft.
func (uc *submissionUseCase) create(ctx context.Context, d *model.Depot, items []model.SubmissionItem) (*model.InventorySubmission, error) {
	fromDraft := len(items) == 0
	if fromDraft {
		var err error
		items, err = uc.drafts.Get(ctx, d.ID)
		if err != nil {
			return nil, err
		}
	}
	items, err := uc.resolveItems(ctx, d, items)
	if err != nil {
		return nil, err
	}

	s := &model.InventorySubmission{
		ID:        uuid.New().String(),
		DepotID:   d.ID,
		DepotName: d.Name,
		Items:     items,
		Status:    model.SubmissionPending,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		uc.logger.Error("failed to create submission", zap.String("depot", d.Name), zap.Error(err))
		return nil, err
	}

	if fromDraft {
		if err := uc.drafts.Clear(ctx, d.ID); err != nil {
			uc.logger.Warn("failed to clear draft", zap.String("depot_id", d.ID), zap.Error(err))
		}
	}
	return s, nil
}

// resolveItems checks every line against the catalog: the product must exist
// and sit in depot d. Names are taken from the product, never from the caller.
func (uc *submissionUseCase) resolveItems(ctx context.Context, d *model.Depot, items []model.SubmissionItem) ([]model.SubmissionItem, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	resolved := make([]model.SubmissionItem, 0, len(items))
	for _, it := range items {
		p, err := uc.products.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, apperror.NotFound("product", it.ProductID)
		}
		if p.Location != d.Name {
			return nil, apperror.Validation("product_id", p.Code+" belongs to another depot")
		}
		resolved = append(resolved, model.SubmissionItem{ProductID: p.ID, Name: p.Name, Quantity: it.Quantity})
	}
	return resolved, nil
}

func (uc *submissionUseCase) GetSubmission(ctx context.Context, id string, actor model.Actor) (*model.InventorySubmission, error) {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperror.NotFound("submission", id)
	}
	if !auth.CanAccessDepot(actor, s.DepotID) {
		return nil, apperror.Forbidden("submission belongs to another depot")
	}
	return s, nil
}

func (uc *submissionUseCase) ListSubmissions(ctx context.Context, filters *dto.SubmissionFilters, actor model.Actor) ([]model.InventorySubmission, error) {
	if !actor.IsAdmin() {
		filters.DepotID = actor.DepotID
	}
	return uc.repo.List(ctx, filters)
}

func (uc *submissionUseCase) Wait() {
	uc.inflight.Wait()
}

func (uc *submissionUseCase) dispatch(name string, s *model.InventorySubmission, task func(ctx context.Context) error) {
	uc.inflight.Add(1)
	go func() {
		defer uc.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				uc.logger.Error("submission side effect panicked",
					zap.String("task", name),
					zap.String("submission_id", s.ID),
					zap.Any("panic", r),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		if err := task(ctx); err != nil {
			uc.logger.Warn("submission side effect failed",
				zap.String("task", name),
				zap.String("submission_id", s.ID),
				zap.Error(err),
			)
		}
	}()
}

func (uc *submissionUseCase) export(s *model.InventorySubmission) error {
	if uc.exporter == nil {
		return nil
	}
	name := fmt.Sprintf("inventaire_%s_%s.csv", s.DepotName, s.CreatedAt.Format("2006-01-02_150405"))
	path, err := uc.exporter.Save(name, func(w io.Writer) error {
		return report.WriteSubmissionDraft(w, s.DepotName, s.Items)
	})
	if err != nil {
		return err
	}
	uc.logger.Info("submission exported", zap.String("submission_id", s.ID), zap.String("path", path))
	return nil
}

func (uc *submissionUseCase) notify(ctx context.Context, s *model.InventorySubmission, actor model.Actor) error {
	if uc.chat == nil {
		return nil
	}
	body := i18n.T(i18n.MsgSubmissionNotice, map[string]interface{}{
		"Depot": s.DepotName,
		"Count": len(s.Items),
		"ID":    s.ID,
	})
	_, err := uc.chat.Send(ctx, &chatdto.SendMessageInput{DepotID: s.DepotID, Body: body}, actor)
	return err
}

func (uc *submissionUseCase) depotFor(ctx context.Context, depotID string, actor model.Actor) (*model.Depot, error) {
	if depotID == "" {
		depotID = actor.DepotID
	}
	if !auth.CanAccessDepot(actor, depotID) {
		return nil, apperror.Forbidden("depot mismatch")
	}
	d, err := uc.depots.FindByID(ctx, depotID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperror.NotFound("depot", depotID)
	}
	return d, nil
}

func validateItems(items []model.SubmissionItem) error {
	if len(items) == 0 {
		return apperror.Validation("items", "nothing to submit")
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ProductID == "" {
			return apperror.Validation("productId", "required")
		}
		if it.Quantity <= 0 {
			return apperror.ErrInvalidQuantity
		}
		if seen[it.ProductID] {
			return apperror.Validation("productId", "product staged twice: "+it.ProductID)
		}
		seen[it.ProductID] = true
	}
	return nil
}
