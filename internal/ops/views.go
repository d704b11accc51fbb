package ops

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jacksmith/hris/internal/api"
	"github.com/jacksmith/hris/internal/authz"
	"github.com/jacksmith/hris/internal/model"
)

// DateLayout is the accepted attendance date format.
const DateLayout = "2006-01-02"

// ValidateLeaveStatus checks a leave status filter. Empty means any status.
func ValidateLeaveStatus(status model.LeaveStatus) error {
	switch status {
	case "", model.LeaveStatusPending, model.LeaveStatusApproved,
		model.LeaveStatusRejected, model.LeaveStatusCancelled:
		return nil
	}
	return fmt.Errorf("invalid leave status %q: must be pending, approved, rejected or cancelled", status)
}

// ValidateDate checks an attendance date. Empty means today.
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return nil
}

// ValidateReason checks that a rejection reason is not empty or whitespace-only.
func ValidateReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("a reason is required to reject a leave request")
	}
	return nil
}

func validateLeaveID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid leave request id %d", id)
	}
	return nil
}

// ListLeave returns leave requests for the selected branch, or all branches.
func (s *Session) ListLeave(ctx context.Context, status model.LeaveStatus) ([]model.LeaveRequest, error) {
	if err := s.Require(authz.ModuleLeave, authz.ActionRead); err != nil {
		return nil, err
	}
	if err := ValidateLeaveStatus(status); err != nil {
		return nil, err
	}
	if err := s.RequireBranches(ctx); err != nil {
		return nil, err
	}

	return s.API.ListLeaveRequests(ctx, api.LeaveQuery{
		BranchID: s.Branches.SelectedBranchID(),
		Status:   status,
	})
}

// ApproveLeave approves a leave request.
func (s *Session) ApproveLeave(ctx context.Context, id int64) error {
	if err := s.Require(authz.ModuleLeave, authz.ActionApprove); err != nil {
		return err
	}
	if err := validateLeaveID(id); err != nil {
		return err
	}

	if err := s.API.ApproveLeave(ctx, id); err != nil {
		return err
	}
	s.logger(ctx).WithField("leave_id", id).Info("leave request approved")
	return nil
}

// RejectLeave rejects a leave request. A reason is required.
func (s *Session) RejectLeave(ctx context.Context, id int64, reason string) error {
	if err := s.Require(authz.ModuleLeave, authz.ActionApprove); err != nil {
		return err
	}
	if err := validateLeaveID(id); err != nil {
		return err
	}
	if err := ValidateReason(reason); err != nil {
		return err
	}

	if err := s.API.RejectLeave(ctx, id, strings.TrimSpace(reason)); err != nil {
		return err
	}
	s.logger(ctx).WithField("leave_id", id).Info("leave request rejected")
	return nil
}

// ListAttendance returns attendance for date (YYYY-MM-DD, empty for today)
// in the selected branch.
func (s *Session) ListAttendance(ctx context.Context, date string) ([]model.AttendanceRecord, error) {
	if err := s.Require(authz.ModuleAttendance, authz.ActionRead); err != nil {
		return nil, err
	}
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	if err := s.RequireBranches(ctx); err != nil {
		return nil, err
	}

	return s.API.ListAttendance(ctx, api.AttendanceQuery{
		BranchID: s.Branches.SelectedBranchID(),
		Date:     date,
	})
}

// ListEmployees returns employees in the selected branch matching search.
func (s *Session) ListEmployees(ctx context.Context, search string) ([]model.Employee, error) {
	if err := s.Require(authz.ModuleEmployees, authz.ActionRead); err != nil {
		return nil, err
	}
	if err := s.RequireBranches(ctx); err != nil {
		return nil, err
	}

	return s.API.ListEmployees(ctx, api.EmployeeQuery{
		BranchID: s.Branches.SelectedBranchID(),
		Search:   strings.TrimSpace(search),
	})
}
