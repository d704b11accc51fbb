package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jacksmith/hris/internal/cli"
	"github.com/jacksmith/hris/internal/model"
	"github.com/jacksmith/hris/internal/ops"
)

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Review leave requests",
	Long:  "List, approve and reject leave requests in the active branch.",
}

var leaveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List leave requests",
	Long: `List leave requests in the active branch, or all branches.

  --status   Filter by status (pending, approved, rejected, cancelled)`,
	Args: cobra.NoArgs,
	RunE: runLeaveList,
}

var leaveApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a leave request",
	Args:  cobra.ExactArgs(1),
	RunE:  runLeaveApprove,
}

var leaveRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a leave request",
	Long: `Reject a leave request. A reason is required: pass it with --reason,
or use -i to write it in $EDITOR.`,
	Args: cobra.ExactArgs(1),
	RunE: runLeaveReject,
}

var (
	leaveStatus       string
	leaveReason       string
	leaveReasonEditor bool
)

func init() {
	leaveListCmd.Flags().StringVar(&leaveStatus, "status", "", "filter by status")
	leaveListCmd.RegisterFlagCompletionFunc("status", completeLeaveStatus)

	leaveRejectCmd.Flags().StringVarP(&leaveReason, "reason", "r", "", "reason for the rejection")
	leaveRejectCmd.Flags().BoolVarP(&leaveReasonEditor, "interactive", "i", false, "write the reason in $EDITOR")
	leaveRejectCmd.MarkFlagsMutuallyExclusive("reason", "interactive")

	leaveCmd.AddCommand(leaveListCmd)
	leaveCmd.AddCommand(leaveApproveCmd)
	leaveCmd.AddCommand(leaveRejectCmd)
	rootCmd.AddCommand(leaveCmd)
}

func runLeaveList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}

	reqs, err := sess.ListLeave(commandContext(cmd), model.LeaveStatus(leaveStatus))
	if err != nil {
		return handleViewError(os.Stdout, err)
	}

	fmt.Println(cli.Gray(scopeLabel(sess)))
	if len(reqs) == 0 {
		fmt.Println("No leave requests found.")
		return nil
	}

	table := cli.NewTable()
	table.SetMaxWidth(1, cli.DefaultMaxNameWidth)
	table.AddHeader("ID", "EMPLOYEE", "BRANCH", "TYPE", "FROM", "TO", "DAYS", "STATUS")
	for _, r := range reqs {
		table.AddRow(
			strconv.FormatInt(r.ID, 10),
			r.EmployeeName,
			branchName(sess, r.BranchID),
			r.Type,
			r.StartDate,
			r.EndDate,
			strconv.FormatFloat(r.Days, 'f', -1, 64),
			cli.StatusColor(string(r.Status)),
		)
	}
	table.Render(os.Stdout)
	return nil
}

func runLeaveApprove(cmd *cobra.Command, args []string) error {
	id, err := parseLeaveID(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	if err := sess.ApproveLeave(commandContext(cmd), id); err != nil {
		return err
	}

	fmt.Printf("Approved leave request %d\n", id)
	return nil
}

func runLeaveReject(cmd *cobra.Command, args []string) error {
	id, err := parseLeaveID(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}

	reason := leaveReason
	if leaveReasonEditor {
		reason, err = cli.EditReason(fmt.Sprintf("Leave request %d", id))
		if err != nil {
			return err
		}
		if reason == "" {
			fmt.Println("Empty reason, rejection aborted.")
			return nil
		}
	}
	if err := ops.ValidateReason(reason); err != nil {
		return &cli.ValidationError{Field: "reason", Message: "required (use --reason or -i)"}
	}

	if err := sess.RejectLeave(commandContext(cmd), id, reason); err != nil {
		return err
	}

	fmt.Printf("Rejected leave request %d\n", id)
	return nil
}

func parseLeaveID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, &cli.ValidationError{Field: "leave request id", Message: fmt.Sprintf("%q is not a positive integer", s)}
	}
	return id, nil
}

func completeLeaveStatus(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		string(model.LeaveStatusPending),
		string(model.LeaveStatusApproved),
		string(model.LeaveStatusRejected),
		string(model.LeaveStatusCancelled),
	}, cobra.ShellCompDirectiveNoFileComp
}
