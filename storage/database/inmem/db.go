// Package inmemdb is a mutex-guarded in-memory store used by tests and
// local development. It enforces the same uniqueness and scoping rules
// as the SQL store.
package inmemdb

import (
	"sync"

	"github.com/shulehq/shule/core/class"
	"github.com/shulehq/shule/core/performance"
	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/student"
	"github.com/shulehq/shule/core/tenant"
	"github.com/shulehq/shule/core/user"
)

type DB struct {
	mutex sync.RWMutex

	tenants      map[string]*tenant.Tenant
	branches     map[string]*tenant.Branch
	users        map[string]*user.User
	roles        map[string]*role.Role
	students     map[string]*student.Student
	classes      map[string]*class.Class
	performances map[string]*performance.Performance
}

func NewDB() *DB {
	return &DB{
		tenants:      make(map[string]*tenant.Tenant),
		branches:     make(map[string]*tenant.Branch),
		users:        make(map[string]*user.User),
		roles:        make(map[string]*role.Role),
		students:     make(map[string]*student.Student),
		classes:      make(map[string]*class.Class),
		performances: make(map[string]*performance.Performance),
	}
}
