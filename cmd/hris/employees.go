package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jacksmith/hris/internal/cli"
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "List employees",
	Long: `List employees in the active branch.

  --search   Match name, email or employee number (server-side)`,
	Args: cobra.NoArgs,
	RunE: runEmployees,
}

var employeesSearch string

func init() {
	employeesCmd.Flags().StringVarP(&employeesSearch, "search", "s", "", "search text")
	rootCmd.AddCommand(employeesCmd)
}

func runEmployees(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}

	employees, err := sess.ListEmployees(commandContext(cmd), employeesSearch)
	if err != nil {
		return handleViewError(os.Stdout, err)
	}

	fmt.Println(cli.Gray(scopeLabel(sess)))
	if len(employees) == 0 {
		fmt.Println("No employees found.")
		return nil
	}

	table := cli.NewTable()
	table.SetMaxWidth(2, cli.DefaultMaxNameWidth)
	table.AddHeader("ID", "NUMBER", "NAME", "DEPARTMENT", "POSITION", "BRANCH")
	for _, e := range employees {
		table.AddRow(
			strconv.FormatInt(e.ID, 10),
			e.EmployeeNumber,
			e.FullName(),
			e.Department,
			e.Position,
			branchName(sess, e.BranchID),
		)
	}
	table.Render(os.Stdout)
	return nil
}
