package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacksmith/hris/internal/branch"
	"github.com/jacksmith/hris/internal/cli"
	"github.com/jacksmith/hris/internal/model"
	"github.com/jacksmith/hris/internal/ops"
)

const onboardingMessage = `No branches exist yet.
Ask an administrator to create a branch, then run 'hris branch refresh'.`

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Show and select the active branch",
	Long: `Show and select the branch that scopes leave, attendance and employee views.

The selection is remembered in .hris/state.yaml and checked against the
live branch list on every run: a branch that no longer exists falls back
to all branches. With exactly one branch it is always selected.`,
}

var branchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List branches",
	Long:  "List the tenant's branches. The active branch is marked with '*'.",
	Args:  cobra.NoArgs,
	RunE:  runBranchList,
}

var branchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show branch status and selection",
	Args:  cobra.NoArgs,
	RunE:  runBranchStatus,
}

var branchUseCmd = &cobra.Command{
	Use:   "use <id|name|all>",
	Short: "Select the active branch",
	Long: `Select the active branch by id, by name (a unique prefix is enough,
case-insensitive), or 'all' to view every branch.`,
	Args:              cobra.ExactArgs(1),
	RunE:              runBranchUse,
	ValidArgsFunction: completeBranches,
}

var branchClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Select all branches",
	Long:  "Clear the branch selection so views show all branches. Same as 'hris branch use all'.",
	Args:  cobra.NoArgs,
	RunE:  runBranchClear,
}

var branchRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the branch list again",
	Args:  cobra.NoArgs,
	RunE:  runBranchRefresh,
}

func init() {
	branchCmd.AddCommand(branchListCmd)
	branchCmd.AddCommand(branchStatusCmd)
	branchCmd.AddCommand(branchUseCmd)
	branchCmd.AddCommand(branchClearCmd)
	branchCmd.AddCommand(branchRefreshCmd)
	rootCmd.AddCommand(branchCmd)
}

func runBranchList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	snap, err := sess.BranchStatus(commandContext(cmd))
	if err != nil {
		return err
	}

	switch snap.Status {
	case branch.StatusNoBranch:
		fmt.Println(onboardingMessage)
		return nil
	case branch.StatusError:
		return &ops.NoBranchError{Status: snap.Status, Err: snap.Err}
	}

	table := cli.NewTable()
	table.SetMaxWidth(2, cli.DefaultMaxNameWidth)
	table.AddHeader("", "ID", "NAME", "CODE")
	for _, b := range snap.Branches {
		marker := ""
		if snap.SelectedID != nil && *snap.SelectedID == b.ID {
			marker = "*"
		}
		table.AddRow(marker, model.FormatBranchID(b.ID), b.DisplayName(), b.Code)
	}
	table.Render(os.Stdout)
	return nil
}

func runBranchStatus(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	snap, err := sess.BranchStatus(commandContext(cmd))
	if err != nil {
		return err
	}
	printBranchStatus(os.Stdout, snap)
	return nil
}

func runBranchUse(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	snap, err := sess.BranchStatus(ctx)
	if err != nil {
		return err
	}
	id, err := cli.MatchBranch(args[0], snap.Branches)
	if err != nil {
		return err
	}

	selected, err := sess.SelectBranch(ctx, id)
	if err != nil {
		var nb *ops.NoBranchError
		if errors.As(err, &nb) && nb.Status == branch.StatusNoBranch {
			fmt.Println(onboardingMessage)
			return nil
		}
		return err
	}
	printSelection(os.Stdout, selected)
	return nil
}

func runBranchClear(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	if _, err := sess.SelectBranch(commandContext(cmd), nil); err != nil {
		return err
	}
	printSelection(os.Stdout, nil)
	return nil
}

func runBranchRefresh(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	snap, err := sess.RefreshBranches(commandContext(cmd))
	if err != nil {
		return err
	}
	printBranchStatus(os.Stdout, snap)
	return nil
}

// printBranchStatus writes a summary of snap.
func printBranchStatus(w io.Writer, snap branch.Snapshot) {
	fmt.Fprintf(w, "Status:   %s\n", cli.StatusColor(string(snap.Status)))

	switch selected := snap.Selected(); {
	case selected != nil:
		fmt.Fprintf(w, "Selected: %s (%d)\n", selected.DisplayName(), selected.ID)
	case snap.SelectedID != nil:
		fmt.Fprintf(w, "Selected: branch %d\n", *snap.SelectedID)
	default:
		fmt.Fprintln(w, "Selected: all branches")
	}

	fmt.Fprintf(w, "Branches: %d\n", len(snap.Branches))
	if snap.CanProceed() {
		fmt.Fprintln(w, "Ready:    yes")
	} else {
		fmt.Fprintln(w, "Ready:    no")
	}

	switch snap.Status {
	case branch.StatusNoBranch:
		fmt.Fprintln(w)
		fmt.Fprintln(w, onboardingMessage)
	case branch.StatusError:
		fmt.Fprintln(w)
		if snap.Err != nil {
			fmt.Fprintf(w, "Error: %v\n", snap.Err)
		}
		fmt.Fprintln(w, "Run 'hris branch refresh' to retry.")
	}
}

func printSelection(w io.Writer, b *model.Branch) {
	if b == nil {
		fmt.Fprintln(w, "Viewing all branches")
		return
	}
	fmt.Fprintf(w, "Selected branch %s (%d)\n", b.DisplayName(), b.ID)
}
