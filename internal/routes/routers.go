package routes

import (
	"github.com/labstack/echo/v4"

	"itdesk/internal/controllers"
	"itdesk/pkg/middleware"
)

func runAuthRouter(api *echo.Group, authCtrl *controllers.AuthController, authMW *middleware.AuthMiddleware) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/logout", authCtrl.Logout)
		authGroup.GET("/me", authCtrl.Me, authMW.Identify)
	}
}

func runAdminRouter(secureGroup *echo.Group, ctrl *controllers.AdminController) {
	secureGroup.GET("/admins", ctrl.GetAdmins)
}

func runTicketRouter(secureGroup *echo.Group, ctrl *controllers.TicketController) {
	tickets := secureGroup.Group("/tickets")
	{
		tickets.GET("", ctrl.GetTickets)
		tickets.POST("", ctrl.CreateTicket)
		tickets.GET("/:id", ctrl.FindTicket)
		tickets.PUT("/:id", ctrl.UpdateTicket)
		tickets.DELETE("/:id", ctrl.DeleteTicket)
	}
}

func runTimeLogRouter(secureGroup *echo.Group, ctrl *controllers.TimeLogController) {
	logs := secureGroup.Group("/time-logs")
	{
		logs.GET("", ctrl.GetTimeLogs)
		logs.POST("", ctrl.CreateTimeLog)
		logs.GET("/summary", ctrl.GetSummary)
		logs.GET("/export", ctrl.ExportSummary)
		logs.PUT("/:id", ctrl.UpdateTimeLog)
		logs.DELETE("/:id", ctrl.DeleteTimeLog)
	}
}

func runClientRouter(secureGroup *echo.Group, ctrl *controllers.ClientController) {
	clients := secureGroup.Group("/clients")
	{
		clients.GET("", ctrl.GetClients)
		clients.POST("", ctrl.CreateClient)
		clients.GET("/:id", ctrl.FindClient)
		clients.PUT("/:id", ctrl.UpdateClient)
		clients.DELETE("/:id", ctrl.DeleteClient)
	}
}

func runAssetRouter(secureGroup *echo.Group, ctrl *controllers.AssetController) {
	assets := secureGroup.Group("/assets")
	{
		assets.GET("", ctrl.GetAssets)
		assets.POST("", ctrl.CreateAsset)
		assets.POST("/import", ctrl.ImportAssets)
		assets.GET("/:serialNumber", ctrl.FindAsset)
		assets.PATCH("/:serialNumber", ctrl.UpdateAsset)
		assets.DELETE("/:serialNumber", ctrl.DeleteAsset)
	}
}
