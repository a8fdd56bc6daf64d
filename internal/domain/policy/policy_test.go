package policy

import (
	"testing"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customer() entity.Principal {
	return entity.Principal{ID: uuid.New(), Role: entity.RoleCustomer}
}

func business() entity.Principal {
	return entity.Principal{ID: uuid.New(), Role: entity.RoleBusiness}
}

func admin() entity.Principal {
	return entity.Principal{ID: uuid.New(), Role: entity.RoleCustomer, IsAdmin: true}
}

func assertForbidden(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.ErrorCode())
}

func TestAuthorize_RoleRules(t *testing.T) {
	cust := customer()
	biz := business()

	assert.NoError(t, Authorize(biz, ActionOfferCreate, uuid.Nil))
	assertForbidden(t, Authorize(cust, ActionOfferCreate, uuid.Nil))

	assert.NoError(t, Authorize(cust, ActionOrderCreate, uuid.Nil))
	assertForbidden(t, Authorize(biz, ActionOrderCreate, uuid.Nil))

	assert.NoError(t, Authorize(cust, ActionReviewCreate, uuid.Nil))
	assertForbidden(t, Authorize(biz, ActionReviewCreate, uuid.Nil))
}

func TestAuthorize_OwnershipRules(t *testing.T) {
	owner := business()
	other := business()

	assert.NoError(t, Authorize(owner, ActionOfferUpdate, owner.ID))
	assertForbidden(t, Authorize(other, ActionOfferUpdate, owner.ID))

	// Order status changes belong to the business side of the order only.
	assert.NoError(t, Authorize(owner, ActionOrderUpdateStatus, owner.ID))
	assertForbidden(t, Authorize(customer(), ActionOrderUpdateStatus, owner.ID))

	reviewer := customer()
	assert.NoError(t, Authorize(reviewer, ActionReviewUpdate, reviewer.ID))
	assertForbidden(t, Authorize(customer(), ActionReviewUpdate, reviewer.ID))
}

func TestAuthorize_AdminRules(t *testing.T) {
	owner := business()
	adm := admin()

	// Offer delete allows owner or admin.
	assert.NoError(t, Authorize(owner, ActionOfferDelete, owner.ID))
	assert.NoError(t, Authorize(adm, ActionOfferDelete, owner.ID))
	assertForbidden(t, Authorize(business(), ActionOfferDelete, owner.ID))

	// Order delete is admin only, even for the order's own parties.
	assert.NoError(t, Authorize(adm, ActionOrderDelete, owner.ID))
	assertForbidden(t, Authorize(owner, ActionOrderDelete, owner.ID))
	assertForbidden(t, Authorize(customer(), ActionOrderDelete, uuid.Nil))
}

func TestAuthorize_Anonymous(t *testing.T) {
	anon := entity.Anonymous()

	assertForbidden(t, Authorize(anon, ActionOfferCreate, uuid.Nil))
	assertForbidden(t, Authorize(anon, ActionOrderCreate, uuid.Nil))
	assertForbidden(t, Authorize(anon, ActionOrderDelete, uuid.Nil))
}

func TestAuthorize_UnknownAction(t *testing.T) {
	assertForbidden(t, Authorize(admin(), Action("offer.publish"), uuid.Nil))
}
