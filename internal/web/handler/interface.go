package handler

import (
	"gorm.io/gorm"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/auth"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/config"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/service"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/router"
)

// Deps are the collaborators shared by the handlers.
type Deps struct {
	Cfg         *config.Config
	Users       *service.Users
	Permissions *service.Permissions
	UserGroups  *service.UserGroups
	Logins      *auth.LoginService
	Checks      *auth.PermissionCheckService
}

// NewDeps builds the services on db.
func NewDeps(cfg *config.Config, db *gorm.DB) *Deps {
	users := service.NewUsers(db)

	return &Deps{
		Cfg:         cfg,
		Users:       users,
		Permissions: service.NewPermissions(db),
		UserGroups:  service.NewUserGroups(db),
		Logins:      auth.NewLoginService(users),
		Checks:      auth.NewPermissionCheckService(users),
	}
}

// Valid reports whether every dependency is set.
func (d *Deps) Valid() bool {
	return d != nil && d.Cfg != nil && d.Users != nil && d.Permissions != nil &&
		d.UserGroups != nil && d.Logins != nil && d.Checks != nil
}

// Service is the interface for a web handler service registering its routes.
type Service interface {
	Init(table *router.Table, deps *Deps) error
}
