package rpc

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
)

const (
	errorDomain = "retail.v1"

	reasonInsufficientStock = "INSUFFICIENT_STOCK"
	reasonReferenced        = "REFERENCED"
)

// ToStatus translates a domain error into a gRPC status carrying the details
// FromStatus needs to rebuild it on the client side.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var (
		verr  *domain.ValidationError
		nferr *domain.NotFoundError
		serr  *domain.InsufficientStockError
		rerr  *domain.ReferentialIntegrityError
	)
	switch {
	case errors.As(err, &verr):
		br := &errdetails.BadRequest{}
		for _, field := range slices.Sorted(maps.Keys(verr.Fields)) {
			br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
				Field:       field,
				Description: verr.Fields[field],
			})
		}
		return withDetails(codes.InvalidArgument, err.Error(), br)
	case errors.As(err, &nferr):
		return withDetails(codes.NotFound, err.Error(), &errdetails.ResourceInfo{
			ResourceType: nferr.Kind,
			ResourceName: nferr.ID,
		})
	case errors.As(err, &serr):
		return withDetails(codes.FailedPrecondition, err.Error(), &errdetails.ErrorInfo{
			Reason: reasonInsufficientStock,
			Domain: errorDomain,
			Metadata: map[string]string{
				"productId": serr.ProductID,
				"requested": strconv.Itoa(serr.Requested),
				"available": strconv.Itoa(serr.Available),
			},
		})
	case errors.As(err, &rerr):
		return withDetails(codes.FailedPrecondition, err.Error(), &errdetails.ErrorInfo{
			Reason:   reasonReferenced,
			Domain:   errorDomain,
			Metadata: map[string]string{"kind": rerr.Kind, "id": rerr.ID},
		})
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func withDetails(code codes.Code, msg string, details ...protoadapt.MessageV1) error {
	st, err := status.New(code, msg).WithDetails(details...)
	if err != nil {
		return status.Error(code, msg)
	}
	return st.Err()
}

// FromStatus rebuilds the domain error described by a gRPC status. Errors
// that carry no recognised detail are returned wrapped as they are.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	for _, d := range st.Details() {
		switch detail := d.(type) {
		case *errdetails.BadRequest:
			if st.Code() != codes.InvalidArgument {
				continue
			}
			fields := make(map[string]string, len(detail.GetFieldViolations()))
			for _, v := range detail.GetFieldViolations() {
				fields[v.GetField()] = v.GetDescription()
			}
			return &domain.ValidationError{Fields: fields}
		case *errdetails.ResourceInfo:
			if st.Code() != codes.NotFound {
				continue
			}
			return &domain.NotFoundError{Kind: detail.GetResourceType(), ID: detail.GetResourceName()}
		case *errdetails.ErrorInfo:
			if detail.GetDomain() != errorDomain {
				continue
			}
			md := detail.GetMetadata()
			switch detail.GetReason() {
			case reasonInsufficientStock:
				requested, _ := strconv.Atoi(md["requested"])
				available, _ := strconv.Atoi(md["available"])
				return &domain.InsufficientStockError{
					ProductID: md["productId"],
					Requested: requested,
					Available: available,
				}
			case reasonReferenced:
				return &domain.ReferentialIntegrityError{Kind: md["kind"], ID: md["id"]}
			}
		}
	}

	if st.Code() == codes.InvalidArgument {
		return &domain.ValidationError{Fields: map[string]string{"request": st.Message()}}
	}
	return fmt.Errorf("rpc: %w", err)
}
