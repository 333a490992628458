package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/engine"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api/athan/packets"
	"github.com/Nixie-Tech-LLC/minaret/internal/times"
)

type ImportantDayController struct {
	scheduler *engine.ImportantDayScheduler
	resolver  times.Resolver
}

func NewImportantDayController(scheduler *engine.ImportantDayScheduler, resolver times.Resolver) *ImportantDayController {
	return &ImportantDayController{scheduler: scheduler, resolver: resolver}
}

func ImportantDayModule(scheduler *engine.ImportantDayScheduler, resolver times.Resolver) api.Module {
	ctl := NewImportantDayController(scheduler, resolver)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/important_days/schedule", ctl.schedule)
	})
}

func (i *ImportantDayController) schedule(ctx *gin.Context) (any, *api.APIError) {
	var request packets.ScheduleImportantDaysRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	year := request.Year
	if year == 0 {
		year = time.Now().Year()
	}

	days, err := i.resolver.Resolve(ctx, year)
	if err != nil {
		log.Error().Err(err).Int("year", year).Msg("failed to resolve important days")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "failed to resolve important days"}
	}

	ok, err := i.scheduler.Schedule(ctx, days)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "important-day scheduling failed"}
	}
	return packets.ScheduleResponse{Success: ok}, nil
}
