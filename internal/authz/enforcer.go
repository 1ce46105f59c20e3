// Package authz はロール単位のアクセス制御（casbin RBAC）。
package authz

import (
	"fmt"

	"atelier/internal/domain/model"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

const anyMethod = "^(GET|POST|PUT|PATCH|DELETE)$"

// 既定のポリシー。ADMINはUSERの権限を引き継ぐ
var defaultPolicies = [][]string{
	{string(model.RoleUser), "/api/*", anyMethod},
	{string(model.RoleAdmin), "/admin/*", anyMethod},
}

var defaultGroupings = [][]string{
	{string(model.RoleAdmin), string(model.RoleUser)},
}

type Enforcer struct {
	e *casbin.Enforcer
}

func New() (*Enforcer, error) {
	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}

	if _, err := e.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("casbin policies: %w", err)
	}
	if _, err := e.AddGroupingPolicies(defaultGroupings); err != nil {
		return nil, fmt.Errorf("casbin roles: %w", err)
	}

	return &Enforcer{e: e}, nil
}

// Allow はroleがmethodでpathにアクセスできるかを返す。
func (a *Enforcer) Allow(role, path, method string) (bool, error) {
	if role == "" {
		return false, nil
	}
	return a.e.Enforce(role, path, method)
}
