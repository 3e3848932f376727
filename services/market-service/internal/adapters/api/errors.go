package api

import (
	"errors"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	domainerrors "github.com/floroz/marketplace/services/market-service/internal/domain/errors"
	"github.com/floroz/marketplace/services/market-service/internal/domain/pagination"
)

// toConnectError maps a domain error kind to its Connect code.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, domainerrors.ErrInvalidState):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, domainerrors.ErrForbidden):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, domainerrors.ErrUnauthenticated):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, domainerrors.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, domainerrors.ErrTransient):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, connect.NewError(connect.CodeInvalidArgument, errors.New("invalid "+field))
	}
	return id, nil
}

// parsePage applies the default page size when the client sent none.
func parsePage(page, size int32) (pagination.Page, error) {
	if size == 0 {
		size = pagination.DefaultPageSize
	}
	p, err := pagination.New(int(page), int(size))
	if err != nil {
		return pagination.Page{}, toConnectError(err)
	}
	return p, nil
}
