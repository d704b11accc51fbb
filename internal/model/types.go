// Package model defines the core data structures for hris.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LeaveStatus represents the review state of a leave request.
type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "pending"
	LeaveStatusApproved  LeaveStatus = "approved"
	LeaveStatusRejected  LeaveStatus = "rejected"
	LeaveStatusCancelled LeaveStatus = "cancelled"
)

// AttendanceStatus represents how an employee's day was recorded.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusOnLeave AttendanceStatus = "on_leave"
)

// Branch is one organizational location under the tenant.
// Branches are created and deleted by the remote system only.
type Branch struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
}

// UnmarshalJSON accepts the id either as a JSON number or as a numeric string.
func (b *Branch) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      json.RawMessage `json:"id"`
		Name    string          `json:"name"`
		Code    string          `json:"code"`
		Address string          `json:"address"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.ID)
	if err != nil {
		return fmt.Errorf("branch %s: %w", raw.Name, err)
	}

	*b = Branch{ID: id, Name: raw.Name, Code: raw.Code, Address: raw.Address}
	return nil
}

// DisplayName returns the name, falling back to "Branch <id>" for unnamed branches.
func (b *Branch) DisplayName() string {
	if strings.TrimSpace(b.Name) != "" {
		return b.Name
	}
	return "Branch " + FormatBranchID(b.ID)
}

// LeaveRequest is an employee's request for time off.
type LeaveRequest struct {
	ID           int64       `json:"id"`
	EmployeeID   int64       `json:"employeeId"`
	EmployeeName string      `json:"employeeName"`
	BranchID     int64       `json:"branchId"`
	Type         string      `json:"type"`
	StartDate    string      `json:"startDate"`
	EndDate      string      `json:"endDate"`
	Days         float64     `json:"days"`
	Status       LeaveStatus `json:"status"`
	Reason       string      `json:"reason,omitempty"`
}

// AttendanceRecord is one employee's attendance for one day.
type AttendanceRecord struct {
	ID           int64            `json:"id"`
	EmployeeID   int64            `json:"employeeId"`
	EmployeeName string           `json:"employeeName"`
	BranchID     int64            `json:"branchId"`
	Date         string           `json:"date"`
	CheckIn      string           `json:"checkIn,omitempty"`
	CheckOut     string           `json:"checkOut,omitempty"`
	Status       AttendanceStatus `json:"status"`
}

// Employee is an employee record as exposed by the API.
type Employee struct {
	ID             int64  `json:"id"`
	EmployeeNumber string `json:"employeeNumber"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email,omitempty"`
	Department     string `json:"department,omitempty"`
	Position       string `json:"position,omitempty"`
	BranchID       int64  `json:"branchId"`
	Status         string `json:"status,omitempty"`
}

// FullName joins first and last name.
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// decodeID reads an integer id that may be encoded as a number or a string.
func decodeID(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: missing id", ErrInvalidID)
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidID, err)
		}
		return ParseBranchID(s)
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrInvalidID, raw)
	}
	return id, nil
}
