package leave

import "context"

type LeaveService interface {
	Submit(ctx context.Context, req SubmitRequest) (LeaveRequest, error)
	Review(ctx context.Context, req ReviewRequest) (LeaveRequest, error)
	Revoke(ctx context.Context, req RevokeRequest) (LeaveRequest, error)
	List(ctx context.Context, callerID string, filter ListFilter) ([]LeaveRequest, int64, error)
	MyRequests(ctx context.Context, employeeID string) ([]LeaveRequest, int64, error)
}
