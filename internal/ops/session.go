package ops

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jacksmith/hris/internal/api"
	"github.com/jacksmith/hris/internal/authz"
	"github.com/jacksmith/hris/internal/branch"
	"github.com/jacksmith/hris/internal/logging"
	"github.com/jacksmith/hris/internal/storage"
)

// Session bundles everything one command invocation needs.
type Session struct {
	Config   *storage.Config
	API      API
	Branches *branch.Context
	Authz    *authz.Authorizer
	Log      *logrus.Entry

	activate sync.Once
}

// NoBranchError indicates a branch-scoped view cannot proceed.
type NoBranchError struct {
	Status branch.Status
	Err    error // the refresh failure when Status is ERROR
}

func (e *NoBranchError) Error() string {
	if e.Status == branch.StatusError {
		if e.Err != nil {
			return fmt.Sprintf("could not load branches: %v (run 'hris branch refresh' to retry)", e.Err)
		}
		return "could not load branches (run 'hris branch refresh' to retry)"
	}
	return "no branches exist yet: ask an administrator to create one, then run 'hris branch refresh'"
}

func (e *NoBranchError) Unwrap() error {
	return e.Err
}

// OpenSession opens the workspace in dir, loads its configuration and
// builds the API client, authorizer and branch context. The branch list is
// not fetched until Activate.
func OpenSession(dir string, logger *logrus.Logger) (*Session, error) {
	s, err := storage.Open(dir)
	if err != nil {
		return nil, err
	}
	cfg, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}

	client, err := api.New(cfg.APIURL,
		api.WithToken(cfg.Token),
		api.WithTenant(cfg.Tenant),
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logging.Component(logger, "api")),
	)
	if err != nil {
		return nil, err
	}

	sess, err := NewSession(cfg, client, s, logger)
	if err != nil {
		return nil, err
	}
	sess.Log.WithFields(logrus.Fields{
		"api_url": client.BaseURL(),
		"role":    cfg.Role,
	}).Debug("session opened")
	return sess, nil
}

// NewSession assembles a Session from its parts.
func NewSession(cfg *storage.Config, remote API, store branch.Store, logger *logrus.Logger) (*Session, error) {
	az, err := authz.New()
	if err != nil {
		return nil, err
	}
	if !authz.ValidRole(cfg.Role) {
		return nil, fmt.Errorf("unknown role %q (expected one of %v)", cfg.Role, authz.Roles())
	}

	return &Session{
		Config:   cfg,
		API:      remote,
		Branches: branch.New(remote, store, branch.WithLogger(logging.Component(logger, "branch"))),
		Authz:    az,
		Log:      logging.Component(logger, "ops"),
	}, nil
}

// Activate refreshes the branch context the first time it is called.
// Later calls are no-ops; use Branches.Refresh to fetch again.
func (s *Session) Activate(ctx context.Context) branch.Status {
	s.activate.Do(func() {
		s.Branches.Refresh(ctx)
	})
	return s.Branches.Status()
}

// Require checks the configured role against the authorization policy.
func (s *Session) Require(module, action string) error {
	return s.Authz.Require(s.Config.Role, module, action)
}

// RequireBranches activates the branch context and returns a *NoBranchError
// when branch-scoped views have nothing to show.
func (s *Session) RequireBranches(ctx context.Context) error {
	s.Activate(ctx)

	snap := s.Branches.Snapshot()
	if snap.CanProceed() {
		return nil
	}
	return &NoBranchError{Status: snap.Status, Err: snap.Err}
}

// logger returns the session entry, tagged with the invoking command when
// ctx carries one.
func (s *Session) logger(ctx context.Context) *logrus.Entry {
	if name, ok := logging.FromContext(ctx).Data["command"]; ok {
		return s.Log.WithField("command", name)
	}
	return s.Log
}
