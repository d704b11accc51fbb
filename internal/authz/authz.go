// Package authz gates console commands by role before they reach the API.
//
// The backend remains authoritative; this only stops an operator from
// issuing requests their role could never perform.
package authz

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"github.com/pkg/errors"
)

const (
	RoleSuperAdmin    = "super_admin"
	RoleHRAdmin       = "hr_admin"
	RoleBranchManager = "branch_manager"
	RoleEmployee      = "employee"
)

const (
	ModuleBranches   = "branches"
	ModuleLeave      = "leave"
	ModuleAttendance = "attendance"
	ModuleEmployees  = "employees"
	ModuleExport     = "export"
)

const (
	ActionRead    = "read"
	ActionApprove = "approve"
	ActionExport  = "export"
)

const wildcard = "*"

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// policies lists what each role may do. super_admin inherits hr_admin.
var policies = [][]string{
	{RoleHRAdmin, wildcard, wildcard},

	{RoleBranchManager, wildcard, ActionRead},
	{RoleBranchManager, ModuleLeave, ActionApprove},

	{RoleEmployee, ModuleBranches, ActionRead},
	{RoleEmployee, ModuleLeave, ActionRead},
	{RoleEmployee, ModuleAttendance, ActionRead},
}

var inheritance = [][]string{
	{RoleSuperAdmin, RoleHRAdmin},
}

// Roles returns the known role names.
func Roles() []string {
	return []string{RoleSuperAdmin, RoleHRAdmin, RoleBranchManager, RoleEmployee}
}

// ValidRole reports whether role is one of Roles.
func ValidRole(role string) bool {
	for _, r := range Roles() {
		if r == normalizeRole(role) {
			return true
		}
	}
	return false
}

// DeniedError is returned by Require when the role lacks the permission.
type DeniedError struct {
	Role   string
	Module string
	Action string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("role %q may not %s %s", e.Role, e.Action, e.Module)
}

// Authorizer evaluates the built-in role policy.
type Authorizer struct {
	enforcer *casbin.Enforcer
}

// New builds an Authorizer from the built-in model and policy.
func New() (*Authorizer, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, errors.Wrap(err, "authz: parse model")
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, errors.Wrap(err, "authz: create enforcer")
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, errors.Wrapf(err, "authz: add policy %v", p)
		}
	}
	for _, g := range inheritance {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, errors.Wrapf(err, "authz: add role %v", g)
		}
	}
	return &Authorizer{enforcer: enforcer}, nil
}

// Can reports whether role may perform action on module.
func (a *Authorizer) Can(role, module, action string) (bool, error) {
	ok, err := a.enforcer.Enforce(normalizeRole(role), module, action)
	if err != nil {
		return false, errors.Wrapf(err, "authz: enforce %s %s %s", role, module, action)
	}
	return ok, nil
}

// Require returns a *DeniedError unless role may perform action on module.
func (a *Authorizer) Require(role, module, action string) error {
	ok, err := a.Can(role, module, action)
	if err != nil {
		return err
	}
	if !ok {
		return &DeniedError{Role: role, Module: module, Action: action}
	}
	return nil
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
