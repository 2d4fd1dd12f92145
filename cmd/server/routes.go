package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"spay.backend/internal/interfaces/http/handlers"
	"spay.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	transferHandler *handlers.TransferHandler
	escrowHandler   *handlers.EscrowHandler
	rewardHandler   *handlers.RewardHandler
	walletHandler   *handlers.WalletHandler
	authMiddleware  gin.HandlerFunc
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Transfer routes (protected)
		transfers := v1.Group("/transfers")
		transfers.Use(d.authMiddleware)
		{
			transfers.POST("", middleware.IdempotencyMiddleware(), d.transferHandler.InitiateTransfer)
			transfers.GET("/:id", d.transferHandler.GetTransaction)
			transfers.GET("", d.transferHandler.ListTransactions)
		}

		// Escrow routes (protected)
		escrows := v1.Group("/escrows")
		escrows.Use(d.authMiddleware)
		{
			escrows.POST("/:id/release", d.escrowHandler.ReleaseEscrow)
			escrows.POST("/:id/dispute", d.escrowHandler.DisputeEscrow)
			escrows.GET("/:id", d.escrowHandler.GetEscrow)
			escrows.GET("", d.escrowHandler.ListEscrows)
		}

		// Reward routes (protected)
		rewards := v1.Group("/rewards")
		rewards.Use(d.authMiddleware)
		{
			rewards.POST("", middleware.IdempotencyMiddleware(), d.rewardHandler.ProcessReward)
		}

		// Wallet routes (protected)
		wallet := v1.Group("/wallet")
		wallet.Use(d.authMiddleware)
		{
			wallet.GET("", d.walletHandler.GetBalance)
		}
	}
}
