package ops

import (
	"context"
	"fmt"

	"github.com/jacksmith/hris/internal/authz"
	"github.com/jacksmith/hris/internal/branch"
	"github.com/jacksmith/hris/internal/model"
)

// BranchNotFoundError indicates a selection named a branch outside the list.
type BranchNotFoundError struct {
	ID int64
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch %d not found (run 'hris branch list')", e.ID)
}

// BranchStatus activates the branch context and returns its state.
func (s *Session) BranchStatus(ctx context.Context) (branch.Snapshot, error) {
	if err := s.Require(authz.ModuleBranches, authz.ActionRead); err != nil {
		return branch.Snapshot{}, err
	}
	s.Activate(ctx)
	return s.Branches.Snapshot(), nil
}

// RefreshBranches fetches the branch list again and returns the new state.
func (s *Session) RefreshBranches(ctx context.Context) (branch.Snapshot, error) {
	if err := s.Require(authz.ModuleBranches, authz.ActionRead); err != nil {
		return branch.Snapshot{}, err
	}
	s.activate.Do(func() {})
	s.Branches.Refresh(ctx)
	return s.Branches.Snapshot(), nil
}

// SelectBranch makes id the active branch, or all branches when id is nil.
func (s *Session) SelectBranch(ctx context.Context, id *int64) (*model.Branch, error) {
	if err := s.Require(authz.ModuleBranches, authz.ActionRead); err != nil {
		return nil, err
	}
	if id != nil {
		if err := s.RequireBranches(ctx); err != nil {
			return nil, err
		}
	}

	accepted, err := s.Branches.ChangeBranch(id)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, &BranchNotFoundError{ID: *id}
	}
	return s.Branches.Selected(), nil
}
