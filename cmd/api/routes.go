package main

import (
	"flow-admin/internal/httpapi"
	"flow-admin/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW gin.HandlerFunc) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// AUTH routes (token issuance).
	// NOTE: Login is a skeleton route; credential validation is not wired.
	r.POST("/v1/auth/login", h.Login)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(authMW)
	v1.Use(rbac.RequireWorkspace())
	{
		// Read-only lookups are open to any authenticated role.
		v1.GET("/policy-types/:code", h.PolicyTypeDisplay)
		v1.POST("/policies/delete-check", h.DeleteCheck)

		// POLICY routes. Cloning and validating mutate nothing server-side,
		// but both expose workspace reference data, so viewers are kept out.
		policies := v1.Group("/policies")
		policies.Use(rbac.RequireAnyRole(rbac.RoleEditor))
		{
			policies.POST("/clone", h.ClonePolicy)
			policies.POST("/clone/report", h.CloneReport)
			policies.POST("/validate", h.ValidatePolicy)
		}
	}
}
