package ops

import (
	"context"

	"github.com/jacksmith/hris/internal/api"
	"github.com/jacksmith/hris/internal/model"
)

// API defines the remote calls required by business logic operations.
// The concrete implementation is api.Client, but this interface allows
// fakes in tests.
type API interface {
	ListBranches(ctx context.Context) ([]model.Branch, error)
	ListLeaveRequests(ctx context.Context, q api.LeaveQuery) ([]model.LeaveRequest, error)
	ApproveLeave(ctx context.Context, id int64) error
	RejectLeave(ctx context.Context, id int64, reason string) error
	ListAttendance(ctx context.Context, q api.AttendanceQuery) ([]model.AttendanceRecord, error)
	ListEmployees(ctx context.Context, q api.EmployeeQuery) ([]model.Employee, error)
}
