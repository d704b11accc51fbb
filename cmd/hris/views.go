package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jacksmith/hris/internal/branch"
	"github.com/jacksmith/hris/internal/model"
	"github.com/jacksmith/hris/internal/ops"
)

// handleViewError prints the onboarding prompt for a workspace without
// branches and returns nil; every other error is returned unchanged.
func handleViewError(w io.Writer, err error) error {
	var nb *ops.NoBranchError
	if errors.As(err, &nb) && nb.Status == branch.StatusNoBranch {
		fmt.Fprintln(w, onboardingMessage)
		return nil
	}
	return err
}

// scopeLabel describes the branch filter a view was fetched with.
func scopeLabel(sess *ops.Session) string {
	if b := sess.Branches.Selected(); b != nil {
		return fmt.Sprintf("Branch: %s", b.DisplayName())
	}
	return "Branch: all"
}

// branchName names a branch by id from the session's list.
func branchName(sess *ops.Session, id int64) string {
	if b := model.FindBranch(sess.Branches.Branches(), id); b != nil {
		return b.DisplayName()
	}
	return model.FormatBranchID(id)
}
