package handler

import (
	"github.com/hbenali/sunduq-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, memberHandler *MemberHandler, loanHandler *LoanHandler, paymentHandler *PaymentHandler, fundHandler *FundHandler, settingsHandler *SettingsHandler, maintenanceHandler *MaintenanceHandler, wsHandler *WebSocketHandler) {
	// WebSocket endpoint authenticates via query token, not the header middleware
	e.GET("/ws", wsHandler.HandleWS)

	// API version 1
	api := e.Group("/api/v1")

	// Member routes (protected)
	members := api.Group("/members")
	members.Use(authMiddleware.Authenticate())
	members.POST("", memberHandler.CreateMember)
	members.GET("", memberHandler.GetMembers)
	members.GET("/:id", memberHandler.GetMember)
	members.PUT("/:id", memberHandler.UpdateMember)
	members.PATCH("/:id/status", memberHandler.UpdateStatus)
	members.POST("/:id/cash-out", memberHandler.CashOut)
	members.DELETE("/:id", memberHandler.DeleteMember)
	members.GET("/:id/report", memberHandler.GetMemberReport)

	// Loan routes (protected)
	loans := api.Group("/loans")
	loans.Use(authMiddleware.Authenticate())
	loans.POST("", loanHandler.CreateLoan)
	loans.GET("", loanHandler.GetLoans)
	loans.POST("/preview", loanHandler.PreviewSchedule)
	loans.GET("/:id", loanHandler.GetLoan)
	loans.PUT("/:id", loanHandler.EditLoan)
	loans.GET("/:id/schedule", loanHandler.GetSchedule)

	// Payment routes (protected)
	payments := api.Group("/payments")
	payments.Use(authMiddleware.Authenticate())
	payments.POST("", paymentHandler.CreatePayment)
	payments.GET("", paymentHandler.GetPayments)

	// Fund routes (protected)
	fund := api.Group("/fund")
	fund.Use(authMiddleware.Authenticate())
	fund.GET("/summary", fundHandler.GetSummary)
	fund.GET("/snapshot", fundHandler.GetSnapshot)
	fund.GET("/transactions", fundHandler.GetTransactions)
	fund.GET("/interest/preview", fundHandler.PreviewInterest)
	fund.POST("/interest/apply", fundHandler.ApplyInterest)

	// Settings routes (protected)
	settings := api.Group("/settings")
	settings.Use(authMiddleware.Authenticate())
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)

	// Maintenance routes (protected)
	maintenance := api.Group("/maintenance")
	maintenance.Use(authMiddleware.Authenticate())
	maintenance.POST("/repair-transactions", maintenanceHandler.RepairTransactions)
	maintenance.POST("/reconcile-transactions", maintenanceHandler.ReconcileTransactions)
	maintenance.POST("/recalculate-contributions", maintenanceHandler.RecalculateContributions)
}
