package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/minaret/internal/engine"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api/athan/packets"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/times"
)

type InboxController struct {
	mirror   *engine.Mirror
	resolver times.Resolver
}

func NewInboxController(mirror *engine.Mirror, resolver times.Resolver) *InboxController {
	return &InboxController{mirror: mirror, resolver: resolver}
}

func InboxModule(mirror *engine.Mirror, resolver times.Resolver) api.Module {
	ctl := NewInboxController(mirror, resolver)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/notifications", ctl.list)
		c.POST("/notifications/sync", ctl.sync)
		c.POST("/notifications/:id/read", ctl.markRead)
	})
}

func (i *InboxController) list(ctx *gin.Context) (any, *api.APIError) {
	entries, err := i.mirror.List(ctx)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load notifications"}
	}

	response := make([]packets.NotificationResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, packets.NotificationResponse{
			ID:        e.ID,
			Title:     e.Title,
			Body:      e.Body,
			Type:      string(e.Type),
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Read:      e.Read,
		})
	}
	return response, nil
}

func (i *InboxController) sync(ctx *gin.Context) (any, *api.APIError) {
	var request packets.SyncNotificationsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	year := request.Year
	if year == 0 {
		year = time.Now().Year()
	}

	var days []model.ResolvedImportantDay
	if i.resolver != nil {
		resolved, err := i.resolver.Resolve(ctx, year)
		if err != nil {
			// the prayer half of the sync can still proceed
			log.Warn().Err(err).Int("year", year).Msg("could not resolve important days for sync")
		} else {
			days = resolved
		}
	}

	i.mirror.Sync(ctx, request.PrayerTimes, days)
	return packets.ScheduleResponse{Success: true}, nil
}

func (i *InboxController) markRead(ctx *gin.Context) (any, *api.APIError) {
	id := ctx.Param("id")
	if err := i.mirror.MarkRead(ctx, id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "notification not found"}
	}
	return packets.ScheduleResponse{Success: true}, nil
}
