package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/jacksmith/hris/internal/model"
)

// LeaveQuery filters leave requests.
type LeaveQuery struct {
	BranchID *int64 // nil means all branches
	Status   model.LeaveStatus
}

// AttendanceQuery filters attendance records.
type AttendanceQuery struct {
	BranchID *int64
	Date     string // YYYY-MM-DD, empty for the server default (today)
}

// EmployeeQuery filters employees.
type EmployeeQuery struct {
	BranchID *int64
	Search   string
}

// ListBranches returns the tenant's branches in server order.
func (c *Client) ListBranches(ctx context.Context) ([]model.Branch, error) {
	data, err := c.do(ctx, http.MethodGet, "/branches", nil, nil)
	if err != nil {
		return nil, err
	}
	return NormalizeBranches(data)
}

// ListLeaveRequests returns leave requests matching q.
func (c *Client) ListLeaveRequests(ctx context.Context, q LeaveQuery) ([]model.LeaveRequest, error) {
	query := branchQuery(q.BranchID)
	if q.Status != "" {
		query.Set("status", string(q.Status))
	}

	var out []model.LeaveRequest
	if err := c.getList(ctx, "/leave-requests", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveLeave approves a pending leave request.
func (c *Client) ApproveLeave(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/leave-requests/%d/approve", id), nil, struct{}{})
	if err != nil {
		return errors.Wrapf(err, "approve leave request %d", id)
	}
	return nil
}

// RejectLeave rejects a pending leave request with a reason.
func (c *Client) RejectLeave(ctx context.Context, id int64, reason string) error {
	payload := struct {
		Reason string `json:"reason"`
	}{Reason: reason}

	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/leave-requests/%d/reject", id), nil, payload)
	if err != nil {
		return errors.Wrapf(err, "reject leave request %d", id)
	}
	return nil
}

// ListAttendance returns attendance records matching q.
func (c *Client) ListAttendance(ctx context.Context, q AttendanceQuery) ([]model.AttendanceRecord, error) {
	query := branchQuery(q.BranchID)
	if q.Date != "" {
		query.Set("date", q.Date)
	}

	var out []model.AttendanceRecord
	if err := c.getList(ctx, "/attendance", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEmployees returns employees matching q.
func (c *Client) ListEmployees(ctx context.Context, q EmployeeQuery) ([]model.Employee, error) {
	query := branchQuery(q.BranchID)
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	var out []model.Employee
	if err := c.getList(ctx, "/employees", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}
