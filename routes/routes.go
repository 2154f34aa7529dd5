package routes

import (
	"time"

	"chemlab_inventory/app"
	"chemlab_inventory/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	chemCtl := controllers.NewChemicalController(s)
	invCtl := controllers.NewInventoryController(s)
	reqCtl := controllers.NewRequestController(s)
	notifCtl := controllers.NewNotificationController(s)
	userCtl := controllers.NewUserController(s)

	authMW := app.AuthRequired(a.AppSessions(), s.Repo)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// Auth (public + protected)
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}
	authed := r.Group("/api/auth", authMW, seenMW)
	{
		authed.POST("/logout", authCtl.Logout)
		authed.GET("/whoami", authCtl.WhoAmI)
	}

	// ------------------------------
	// Catalog + reference data
	// ------------------------------
	chems := r.Group("/api/chemicals", authMW, seenMW)
	{
		chems.GET("", chemCtl.List)
		chems.GET("/:id", chemCtl.Get)
	}
	chemsAdmin := r.Group("/api/chemicals", authMW, adminMW)
	{
		chemsAdmin.POST("", chemCtl.Create)
		chemsAdmin.PUT("/:id", chemCtl.Update)
		chemsAdmin.DELETE("/:id", chemCtl.Delete)
	}
	r.GET("/api/search", authMW, chemCtl.Search)
	r.GET("/api/hazards", authMW, chemCtl.ListHazards)
	r.GET("/api/locations", authMW, chemCtl.ListLocations)

	// ------------------------------
	// Inventory (reads open to all users, stock mutations admin-only)
	// ------------------------------
	inv := r.Group("/api/inventory", authMW, seenMW)
	{
		inv.GET("", invCtl.Summary)
		inv.GET("/:chemicalId", invCtl.ForChemical)
	}
	invAdmin := r.Group("/api/inventory", authMW, adminMW)
	{
		invAdmin.POST("", invCtl.Add)
		invAdmin.PUT("/:id", invCtl.UpdateQuantity)
		invAdmin.DELETE("/:id", invCtl.Delete)
	}

	// ------------------------------
	// Borrow workflow
	// ------------------------------
	reqs := r.Group("/api/requests", authMW, seenMW)
	{
		reqs.POST("", reqCtl.Create)
		reqs.GET("", reqCtl.List)
		reqs.GET("/borrowed", reqCtl.Borrowed)
		reqs.GET("/history", reqCtl.History)
		reqs.GET("/:id", reqCtl.Get)
	}
	reqsAdmin := r.Group("/api/requests", authMW, adminMW)
	{
		reqsAdmin.PUT("/:id/approve", reqCtl.Approve)
		reqsAdmin.PUT("/:id/reject", reqCtl.Reject)
		reqsAdmin.PUT("/:id/mark-borrowed", reqCtl.MarkBorrowed)
		reqsAdmin.PUT("/:id/mark-returned", reqCtl.MarkReturned)
	}

	// ------------------------------
	// Notifications
	// ------------------------------
	notifs := r.Group("/api/notifications", authMW)
	{
		notifs.GET("", notifCtl.List)
		notifs.GET("/unread-count", notifCtl.UnreadCount)
		notifs.PUT("/:id/read", notifCtl.MarkRead)
	}

	// ------------------------------
	// User management (admin only)
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", userCtl.List)
		users.GET("/:id", userCtl.Get)
		users.PUT("/:id/deactivate", userCtl.Deactivate)
	}
}
