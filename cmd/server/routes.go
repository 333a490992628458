package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/minaret/internal/engine"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	athanapi "github.com/Nixie-Tech-LLC/minaret/internal/http/api/athan/endpoints"
	"github.com/Nixie-Tech-LLC/minaret/internal/times"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, eng *engine.Engine, resolver times.Resolver) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/athan",
	},
		athanapi.RenewalModule(eng.Renewal),
		athanapi.ImportantDayModule(eng.ImportantDays, resolver),
		athanapi.SettingsModule(eng, resolver),
		athanapi.InboxModule(eng.Mirror, resolver),
	)
}
