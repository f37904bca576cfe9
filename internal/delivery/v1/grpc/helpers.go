package grpc

import (
	"context"
	"errors"

	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func GRPCErrorResponse(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, e.ErrOrderNotFound), errors.Is(err, e.ErrProductNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, e.ErrUnauthorized), errors.Is(err, e.ErrAdminRequired):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, e.ErrInvalidIdentity):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, e.ErrInsufficientStock),
		errors.Is(err, e.ErrProductInactive),
		errors.Is(err, e.ErrInvalidStatusTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, e.ErrTransient):
		return status.Error(codes.Unavailable, e.ErrTransient.Error())
	case e.IsDomain(err), errors.Is(err, e.ErrStatusBadRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

// errorInterceptor переводит ошибки usecase в gRPC-статусы и логирует внутренние.
func errorInterceptor(log logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}

		mapped := GRPCErrorResponse(err)
		if status.Code(mapped) == codes.Internal {
			log.Errorf(err, "%s", info.FullMethod)
		}

		return resp, mapped
	}
}
