package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/minaret/internal/engine"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api/athan/packets"
)

type RenewalController struct {
	coordinator *engine.Coordinator
}

func NewRenewalController(coordinator *engine.Coordinator) *RenewalController {
	return &RenewalController{coordinator: coordinator}
}

func RenewalModule(coordinator *engine.Coordinator) api.Module {
	ctl := NewRenewalController(coordinator)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/renewal", ctl.status)
		c.POST("/renewal/ensure", ctl.ensureFresh)
		c.POST("/renewal/force", ctl.forceRenew)
	})
}

func (r *RenewalController) status(ctx *gin.Context) (any, *api.APIError) {
	status, err := r.coordinator.Status(ctx)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to read renewal state"}
	}
	response := packets.RenewalStatusResponse{Due: status.Due}
	if !status.LastRenewal.IsZero() {
		response.LastRenewal = status.LastRenewal.Format(time.RFC3339)
	}
	return response, nil
}

func (r *RenewalController) ensureFresh(ctx *gin.Context) (any, *api.APIError) {
	var request packets.RenewRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	ok, err := r.coordinator.EnsureFresh(ctx, request.PrayerTimes)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "renewal failed"}
	}
	return packets.ScheduleResponse{Success: ok}, nil
}

func (r *RenewalController) forceRenew(ctx *gin.Context) (any, *api.APIError) {
	var request packets.RenewRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	ok, err := r.coordinator.ForceRenew(ctx, request.PrayerTimes)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "renewal failed"}
	}
	return packets.ScheduleResponse{Success: ok}, nil
}
