package api

import (
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"

	"github.com/tmshq/tms/internal/access"
	"github.com/tmshq/tms/internal/ailog"
	"github.com/tmshq/tms/internal/api/handler"
	"github.com/tmshq/tms/internal/api/middleware"
	"github.com/tmshq/tms/internal/group"
	"github.com/tmshq/tms/internal/org"
	"github.com/tmshq/tms/internal/project"
	"github.com/tmshq/tms/internal/requirement"
	"github.com/tmshq/tms/internal/role"
	"github.com/tmshq/tms/internal/session"
	"github.com/tmshq/tms/internal/testcase"
	"github.com/tmshq/tms/internal/user"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger handler.Pinger
	Version  string

	Sessions *session.Service
	Resolver *access.Resolver
	Sharing  *access.Sharing

	Orgs         org.Repository
	Roles        role.Repository
	Users        user.Repository
	Groups       group.Repository
	Projects     project.Repository
	Requirements requirement.Repository
	TestCases    testcase.Repository
	Logs         ailog.Repository

	DefaultRoleID int64
	BcryptCost    int
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	authHandler := handler.NewAuthHandler(deps.Users, deps.Sessions, deps.DefaultRoleID, deps.BcryptCost)
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)

	orgHandler := handler.NewOrganizationHandler(deps.Orgs)
	roleHandler := handler.NewRoleHandler(deps.Roles)
	userHandler := handler.NewUserHandler(deps.Users, deps.BcryptCost)
	groupHandler := handler.NewGroupHandler(deps.Groups, deps.Sharing)
	projectHandler := handler.NewProjectHandler(deps.Projects, deps.Resolver)
	sharingHandler := handler.NewSharingHandler(deps.Sharing)
	reqHandler := handler.NewRequirementHandler(deps.Requirements, deps.Resolver)
	tcHandler := handler.NewTestCaseHandler(deps.TestCases, deps.Resolver)
	logHandler := handler.NewAILogHandler(deps.Logs, deps.Resolver)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.Sessions))

		r.Post("/auth/logout", authHandler.Logout)

		r.Get("/api/users/me", userHandler.Me)

		r.Route("/api/organizations", func(r chi.Router) {
			r.Post("/", orgHandler.Create)
			r.Get("/", orgHandler.List)
			r.Get("/{id}", orgHandler.GetByID)
			r.Put("/{id}", orgHandler.Update)
			r.With(middleware.RequireAdmin()).Delete("/{id}", orgHandler.Delete)
		})

		r.Route("/api/roles", func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Post("/", roleHandler.Create)
			r.Get("/", roleHandler.List)
			r.Put("/{id}", roleHandler.Update)
			r.Delete("/{id}", roleHandler.Delete)
		})

		r.Route("/api/users", func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Post("/", userHandler.Create)
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.GetByID)
			r.Put("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})

		r.Route("/api/groups", func(r chi.Router) {
			r.Post("/", groupHandler.Create)
			r.Get("/", groupHandler.List)
			r.Delete("/{id}", groupHandler.Delete)
			r.Get("/{id}/members", groupHandler.ListMembers)
			r.Post("/{id}/members", groupHandler.AddMember)
			r.Delete("/{id}/members/{userId}", groupHandler.RemoveMember)
		})

		r.Route("/api/projects", func(r chi.Router) {
			r.Post("/", projectHandler.Create)
			r.Get("/", projectHandler.List)
			r.Get("/{id}", projectHandler.GetByID)
			r.Put("/{id}", projectHandler.Update)
			r.Delete("/{id}", projectHandler.Delete)

			r.Get("/{id}/members", sharingHandler.ListMembers)
			r.Post("/{id}/members", sharingHandler.AddMember)
			r.Patch("/{id}/members/{memberId}", sharingHandler.UpdateMember)
			r.Delete("/{id}/members/{memberId}", sharingHandler.RemoveMember)

			r.Post("/{id}/groups", sharingHandler.AttachGroup)
			r.Patch("/{id}/groups/{memberId}", sharingHandler.UpdateGroup)
			r.Delete("/{id}/groups/{memberId}", sharingHandler.DetachGroup)

			r.Post("/{id}/requirements", reqHandler.Create)
			r.Get("/{id}/requirements", reqHandler.List)
			r.Get("/{id}/requirements/{reqId}", reqHandler.GetByID)
			r.Put("/{id}/requirements/{reqId}", reqHandler.Update)
			r.Delete("/{id}/requirements/{reqId}", reqHandler.Delete)

			r.Post("/{id}/testcases", tcHandler.Create)
			r.Get("/{id}/testcases", tcHandler.List)
			r.Get("/{id}/testcases/{caseId}", tcHandler.GetByID)
			r.Put("/{id}/testcases/{caseId}", tcHandler.Update)
			r.Delete("/{id}/testcases/{caseId}", tcHandler.Delete)

			r.Post("/{id}/logs", logHandler.Create)
			r.Get("/{id}/logs", logHandler.List)
			r.Get("/{id}/logs/{logId}", logHandler.GetByID)
		})
	})

	return r
}
