package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"market/internal/domain/entity"
	"market/internal/domain/repository"
	mockRepo "market/internal/mocks/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// txHelper wires transaction expectations shared by all service fixtures.
type txHelper struct {
	t         *testing.T
	txManager *mockRepo.MockTransactionManager
}

// onExecute arranges for the next Execute call to run the transactional
// callback against a factory configured by setup, propagating the callback's
// error the way the real manager does.
func (h txHelper) onExecute(ctx context.Context, setup func(factory *mockRepo.MockRepositoryFactory)) {
	h.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			factory := mockRepo.NewMockRepositoryFactory(h.t)
			setup(factory)

			return fn(factory)
		})
}

func customerPrincipal() entity.Principal {
	return entity.Principal{ID: uuid.New(), Role: entity.RoleCustomer}
}

func businessPrincipal() entity.Principal {
	return entity.Principal{ID: uuid.New(), Role: entity.RoleBusiness}
}

func adminPrincipal() entity.Principal {
	return entity.Principal{ID: uuid.New(), Role: entity.RoleCustomer, IsAdmin: true}
}
