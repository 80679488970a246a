package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/archimatch/archimatch/internal/middleware"
)

type RouterDeps struct {
	Matches       *MatchHandler
	Architects    *ArchitectHandler
	Users         *UserHandler
	Health        *HealthHandler
	JWTSecret     []byte
	RankRateLimit time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/healthz", deps.Health.Check)
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))

	authGroup.GET("/matches/rank", middleware.RateLimit(deps.RankRateLimit), deps.Matches.Rank)
	authGroup.POST("/matches", deps.Matches.Request)
	authGroup.POST("/matches/:id/respond", deps.Matches.Respond)
	authGroup.GET("/matches/pending", deps.Matches.ListPending)
	authGroup.GET("/matches/mine", deps.Matches.ListMine)

	authGroup.PUT("/users/me", deps.Users.SyncMe)
	authGroup.GET("/users/me", deps.Users.Me)

	authGroup.POST("/architects/me", deps.Architects.Register)
	authGroup.GET("/architects/:id", deps.Architects.Get)
	authGroup.PUT("/architects/me", deps.Architects.UpdateMe)
	authGroup.POST("/architects/me/credentials", deps.Architects.UploadCredential)
	authGroup.PUT("/architects/:id/rating", deps.Architects.UpdateRating)
}
