package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacksmith/hris/internal/model"
	"github.com/jacksmith/hris/internal/ops"
)

var exportCmd = &cobra.Command{
	Use:   "export <leave|attendance|employees>",
	Short: "Export a list to an Excel workbook",
	Long: `Export leave requests, attendance or employees in the active branch to
an .xlsx workbook with one header row and one row per record.

  -o, --output   Output file (default: <kind>-<YYYYMMDD>.xlsx)
  --status       Leave status filter (leave only)
  --date         Day as YYYY-MM-DD (attendance only)
  --search       Search text (employees only)`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(ops.ExportLeave), string(ops.ExportAttendance), string(ops.ExportEmployees)},
	RunE:      runExport,
}

var (
	exportOutput string
	exportStatus string
	exportDate   string
	exportSearch string
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (.xlsx)")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "leave status filter")
	exportCmd.Flags().StringVar(&exportDate, "date", "", "attendance day (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "employee search text")
	exportCmd.RegisterFlagCompletionFunc("status", completeLeaveStatus)
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	kind, err := ops.ParseExportKind(args[0])
	if err != nil {
		return err
	}

	path := exportOutput
	if path == "" {
		path = defaultExportPath(kind, time.Now())
	}

	sess, err := openSession()
	if err != nil {
		return err
	}

	n, err := sess.Export(commandContext(cmd), kind, path, ops.ExportOptions{
		LeaveStatus: model.LeaveStatus(exportStatus),
		Date:        exportDate,
		Search:      exportSearch,
	})
	if err != nil {
		return handleViewError(os.Stdout, err)
	}

	fmt.Printf("Exported %d %s rows to %s\n", n, kind, path)
	return nil
}

func defaultExportPath(kind ops.ExportKind, now time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", kind, now.Format("20060102"))
}
