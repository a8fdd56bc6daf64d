// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/policy"
	"market/internal/domain/repository"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.CatalogUsecase {
	return &catalogService{
		txManager: txManager,
		logger:    logger,
	}
}

// CreateOffer validates the tier set and persists the offer together with
// its details in a single transaction.
func (srv *catalogService) CreateOffer(ctx context.Context, principal entity.Principal, input *usecase.CreateOfferInput) (*usecase.OfferView, error) {
	if err := policy.Authorize(principal, policy.ActionOfferCreate, uuid.Nil); err != nil {
		return nil, errors.WithStack(err)
	}

	if len(input.Details) < entity.MinOfferDetails {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("an offer requires at least %d details, got %d", entity.MinOfferDetails, len(input.Details)))
	}
	for i := range input.Details {
		if err := checkDetailInput(i, &input.Details[i]); err != nil {
			return nil, err
		}
	}

	offer := &entity.Offer{
		UserID:      principal.ID,
		Title:       input.Title,
		Description: input.Description,
	}
	if input.Image != nil {
		offer.Image = *input.Image
	}
	for i := range input.Details {
		offer.Details = append(offer.Details, detailFromInput(&input.Details[i]))
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.OfferRepo().Create(ctx, offer); err != nil {
			return errors.Wrap(err, "failed to create offer")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create offer")
	}
	srv.logger.Info("offer created", "offerID", offer.ID, "ownerID", principal.ID)

	return usecase.NewOfferView(offer), nil
}

// ListOffers returns a filtered window of offers with aggregates and the
// denormalized owner snapshot. Available to anonymous callers.
func (srv *catalogService) ListOffers(ctx context.Context, query *usecase.ListOffersQuery) (*usecase.OfferListPage, error) {
	filter := repository.OfferFilter{
		OwnerID:         query.CreatorID,
		MinPrice:        query.MinPrice,
		MaxDeliveryTime: query.MaxDeliveryTime,
		Search:          query.Search,
		Ordering:        usecase.OfferOrderingFromString(query.Ordering),
		Offset:          query.Offset,
		Limit:           clampLimit(query.Limit),
	}

	var page *usecase.OfferListPage

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		offers, total, err := repoFactory.OfferRepo().List(ctx, filter)
		if err != nil {
			return errors.Wrap(err, "failed to list offers")
		}

		results := make([]usecase.OfferListItem, 0, len(offers))
		for i := range offers {
			results = append(results, *usecase.NewOfferListItem(&offers[i], offers[i].Owner))
		}
		page = &usecase.OfferListPage{Count: total, Results: results}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list offers")
	}

	return page, nil
}

// GetOffer returns the full single-offer projection.
func (srv *catalogService) GetOffer(ctx context.Context, principal entity.Principal, id uuid.UUID) (*usecase.OfferView, error) {
	if principal.IsAnonymous() {
		return nil, domainerrors.ErrForbidden.WithDetails("authentication required")
	}

	var view *usecase.OfferView

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		offer, err := repoFactory.OfferRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrOfferNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "offer not found")
			}

			return errors.Wrap(err, "failed to find offer")
		}
		view = usecase.NewOfferView(offer)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get offer")
	}

	return view, nil
}

// GetOfferDetail returns one tier body.
func (srv *catalogService) GetOfferDetail(ctx context.Context, principal entity.Principal, id uuid.UUID) (*usecase.OfferDetailView, error) {
	if principal.IsAnonymous() {
		return nil, domainerrors.ErrForbidden.WithDetails("authentication required")
	}

	var view *usecase.OfferDetailView

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		detail, err := repoFactory.OfferRepo().FindDetailByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrOfferDetailNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "offer detail not found")
			}

			return errors.Wrap(err, "failed to find offer detail")
		}
		view = usecase.NewOfferDetailView(detail)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get offer detail")
	}

	return view, nil
}

// UpdateOffer patches base fields and matches supplied tiers to stored rows
// by offer_type. Row ids are never taken from the client, which closes the
// id-spoofing hole across owners.
func (srv *catalogService) UpdateOffer(ctx context.Context, principal entity.Principal, id uuid.UUID, input *usecase.UpdateOfferInput) (*usecase.OfferView, error) {
	var view *usecase.OfferView

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		offerRepo := repoFactory.OfferRepo()

		offer, err := offerRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrOfferNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "offer not found")
			}

			return errors.Wrap(err, "failed to find offer")
		}

		if err := policy.Authorize(principal, policy.ActionOfferUpdate, offer.UserID); err != nil {
			return errors.WithStack(err)
		}

		// Tier bodies are only inspected once the caller is known to own
		// the offer, so a stranger never learns whether their patch parsed.
		for i := range input.Details {
			if err := checkDetailInput(i, &input.Details[i]); err != nil {
				return err
			}
		}

		if input.Title != nil {
			offer.Title = *input.Title
		}
		if input.Description != nil {
			offer.Description = *input.Description
		}
		if input.Image != nil {
			offer.Image = *input.Image
		}

		for i := range input.Details {
			tier := &input.Details[i]
			existing := offer.DetailByType(tier.OfferType)
			if existing == nil {
				return domainerrors.ErrValidationFailed.WithDetails(
					fmt.Sprintf("no detail tier with offer_type '%s' exists on this offer", tier.OfferType))
			}
			applyDetailInput(existing, tier)
		}

		if err := offerRepo.Update(ctx, offer); err != nil {
			return errors.Wrap(err, "failed to update offer")
		}
		view = usecase.NewOfferView(offer)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update offer")
	}
	srv.logger.Info("offer updated", "offerID", id)

	return view, nil
}

// DeleteOffer removes an offer and its details. Owner or admin.
func (srv *catalogService) DeleteOffer(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		offerRepo := repoFactory.OfferRepo()

		offer, err := offerRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrOfferNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "offer not found")
			}

			return errors.Wrap(err, "failed to find offer")
		}

		if err := policy.Authorize(principal, policy.ActionOfferDelete, offer.UserID); err != nil {
			return errors.WithStack(err)
		}

		if err := offerRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrOfferDetailInUse) {
				return errors.Wrap(domainerrors.ErrConflict.WithDetails(
					"offer details are referenced by existing orders"), "failed to delete offer")
			}

			return errors.Wrap(err, "failed to delete offer")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete offer")
	}
	srv.logger.Info("offer deleted", "offerID", id)

	return nil
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}

	return limit
}

// checkDetailInput rejects a tier body that is incomplete or carries
// negative numbers. Index i only feeds the error message.
func checkDetailInput(i int, d *usecase.OfferDetailInput) error {
	if missing := missingDetailFields(d); len(missing) > 0 {
		return domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("detail %d is missing required fields: %s", i, strings.Join(missing, ", ")))
	}
	if negative := negativeDetailFields(d); len(negative) > 0 {
		return domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("detail %d has negative values for: %s", i, strings.Join(negative, ", ")))
	}

	return nil
}

// missingDetailFields reports which required tier fields are absent. A tier
// body is all-or-nothing: partial tier patches are not permitted.
func missingDetailFields(d *usecase.OfferDetailInput) []string {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if d.Revisions == nil {
		missing = append(missing, "revisions")
	}
	if d.DeliveryTimeInDays == nil {
		missing = append(missing, "delivery_time_in_days")
	}
	if d.Price == nil {
		missing = append(missing, "price")
	}
	if d.Features == nil {
		missing = append(missing, "features")
	}
	if strings.TrimSpace(d.OfferType) == "" {
		missing = append(missing, "offer_type")
	}

	return missing
}

// negativeDetailFields reports numeric tier fields below zero. Callers run
// missingDetailFields first, so the pointers are non-nil here.
func negativeDetailFields(d *usecase.OfferDetailInput) []string {
	var negative []string
	if *d.Revisions < 0 {
		negative = append(negative, "revisions")
	}
	if *d.DeliveryTimeInDays < 0 {
		negative = append(negative, "delivery_time_in_days")
	}
	if *d.Price < 0 {
		negative = append(negative, "price")
	}

	return negative
}

func detailFromInput(d *usecase.OfferDetailInput) entity.OfferDetail {
	return entity.OfferDetail{
		Title:              d.Title,
		Revisions:          *d.Revisions,
		DeliveryTimeInDays: *d.DeliveryTimeInDays,
		Price:              *d.Price,
		Features:           append([]string(nil), d.Features...),
		OfferType:          d.OfferType,
	}
}

func applyDetailInput(existing *entity.OfferDetail, d *usecase.OfferDetailInput) {
	existing.Title = d.Title
	existing.Revisions = *d.Revisions
	existing.DeliveryTimeInDays = *d.DeliveryTimeInDays
	existing.Price = *d.Price
	existing.Features = append([]string(nil), d.Features...)
}
