package ops

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/jacksmith/hris/internal/authz"
	"github.com/jacksmith/hris/internal/model"
)

// ExportKind names a list that can be exported.
type ExportKind string

const (
	ExportLeave      ExportKind = "leave"
	ExportAttendance ExportKind = "attendance"
	ExportEmployees  ExportKind = "employees"
)

// ExportKinds returns every ExportKind.
func ExportKinds() []ExportKind {
	return []ExportKind{ExportLeave, ExportAttendance, ExportEmployees}
}

// ParseExportKind validates an export kind name.
func ParseExportKind(s string) (ExportKind, error) {
	for _, k := range ExportKinds() {
		if string(k) == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown export %q: must be leave, attendance or employees", s)
}

// ExportOptions filters the exported list.
type ExportOptions struct {
	LeaveStatus model.LeaveStatus // leave only
	Date        string            // attendance only
	Search      string            // employees only
}

// table is a header row plus data rows ready for a sheet.
type table struct {
	sheet  string
	header []any
	rows   [][]any
}

// Export writes the branch-scoped list of the given kind to an .xlsx
// workbook at path and returns the number of data rows written.
func (s *Session) Export(ctx context.Context, kind ExportKind, path string, opts ExportOptions) (int, error) {
	if err := s.Require(authz.ModuleExport, authz.ActionExport); err != nil {
		return 0, err
	}
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return 0, fmt.Errorf("export path %q must end in .xlsx", path)
	}

	var (
		t   *table
		err error
	)
	switch kind {
	case ExportLeave:
		t, err = s.leaveTable(ctx, opts.LeaveStatus)
	case ExportAttendance:
		t, err = s.attendanceTable(ctx, opts.Date)
	case ExportEmployees:
		t, err = s.employeesTable(ctx, opts.Search)
	default:
		return 0, fmt.Errorf("unknown export %q", kind)
	}
	if err != nil {
		return 0, err
	}

	if err := writeWorkbook(path, t); err != nil {
		return 0, err
	}
	s.logger(ctx).WithFields(logrus.Fields{"kind": kind, "rows": len(t.rows), "path": path}).Info("export written")
	return len(t.rows), nil
}

func (s *Session) leaveTable(ctx context.Context, status model.LeaveStatus) (*table, error) {
	reqs, err := s.ListLeave(ctx, status)
	if err != nil {
		return nil, err
	}
	t := &table{
		sheet:  "Leave",
		header: []any{"ID", "Employee", "Branch", "Type", "Start", "End", "Days", "Status", "Reason"},
	}
	for _, r := range reqs {
		t.rows = append(t.rows, []any{
			r.ID, r.EmployeeName, s.branchLabel(r.BranchID), r.Type,
			r.StartDate, r.EndDate, r.Days, string(r.Status), r.Reason,
		})
	}
	return t, nil
}

func (s *Session) attendanceTable(ctx context.Context, date string) (*table, error) {
	records, err := s.ListAttendance(ctx, date)
	if err != nil {
		return nil, err
	}
	t := &table{
		sheet:  "Attendance",
		header: []any{"ID", "Employee", "Branch", "Date", "Check In", "Check Out", "Status"},
	}
	for _, r := range records {
		t.rows = append(t.rows, []any{
			r.ID, r.EmployeeName, s.branchLabel(r.BranchID), r.Date,
			r.CheckIn, r.CheckOut, string(r.Status),
		})
	}
	return t, nil
}

func (s *Session) employeesTable(ctx context.Context, search string) (*table, error) {
	employees, err := s.ListEmployees(ctx, search)
	if err != nil {
		return nil, err
	}
	t := &table{
		sheet:  "Employees",
		header: []any{"ID", "Number", "Name", "Email", "Department", "Position", "Branch", "Status"},
	}
	for _, e := range employees {
		t.rows = append(t.rows, []any{
			e.ID, e.EmployeeNumber, e.FullName(), e.Email,
			e.Department, e.Position, s.branchLabel(e.BranchID), e.Status,
		})
	}
	return t, nil
}

// branchLabel names a branch from the current list, falling back to its id.
func (s *Session) branchLabel(id int64) string {
	if b := model.FindBranch(s.Branches.Branches(), id); b != nil {
		return b.DisplayName()
	}
	return model.FormatBranchID(id)
}

func writeWorkbook(path string, t *table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", t.sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	rows := append([][]any{t.header}, t.rows...)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := f.SetRowStyle(t.sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
