package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jacksmith/hris/internal/cli"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Show attendance for a day",
	Long: `Show attendance records in the active branch for one day.

  --date   Day to show as YYYY-MM-DD (default: today, as decided by the server)`,
	Args: cobra.NoArgs,
	RunE: runAttendance,
}

var attendanceDate string

func init() {
	attendanceCmd.Flags().StringVar(&attendanceDate, "date", "", "day to show (YYYY-MM-DD)")
	rootCmd.AddCommand(attendanceCmd)
}

func runAttendance(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}

	records, err := sess.ListAttendance(commandContext(cmd), attendanceDate)
	if err != nil {
		return handleViewError(os.Stdout, err)
	}

	fmt.Println(cli.Gray(scopeLabel(sess)))
	if len(records) == 0 {
		fmt.Println("No attendance records found.")
		return nil
	}

	table := cli.NewTable()
	table.SetMaxWidth(1, cli.DefaultMaxNameWidth)
	table.AddHeader("ID", "EMPLOYEE", "BRANCH", "DATE", "IN", "OUT", "STATUS")
	for _, r := range records {
		table.AddRow(
			strconv.FormatInt(r.ID, 10),
			r.EmployeeName,
			branchName(sess, r.BranchID),
			r.Date,
			orDash(r.CheckIn),
			orDash(r.CheckOut),
			cli.StatusColor(string(r.Status)),
		)
	}
	table.Render(os.Stdout)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
