package controllers

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/routeplanner/pkg/geo"
	helper "github.com/lintang-b-s/routeplanner/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/routeplanner/pkg/util"
	"go.uber.org/zap"
)

const defaultPositionError = "position unavailable"

type plannerAPI struct {
	responder
	plannerService PlannerService
	log            *zap.Logger
}

func New(plannerService PlannerService, log *zap.Logger) *plannerAPI {
	return &plannerAPI{
		responder:      responder{log: log},
		plannerService: plannerService,
		log:            log,
	}
}

func (api *plannerAPI) Routes(group *helper.RouteGroup) {
	group.GET("/state", api.state)
	group.POST("/position", api.pushPosition)
	group.POST("/position/error", api.pushPositionError)
	group.POST("/clicks", api.click)
	group.POST("/route", api.computeRoute)
	group.DELETE("/waypoints", api.clear)
	group.GET("/markers", api.markersInBounds)
	group.GET("/markers/near", api.markersNear)
}

func (api *plannerAPI) readCoordinate(w http.ResponseWriter, r *http.Request) (geo.Coordinate, bool) {
	var request coordinateRequest
	if err := readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return geo.Coordinate{}, false
	}
	if err := validateStruct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return geo.Coordinate{}, false
	}
	return request.ToCoordinate(), true
}

func (api *plannerAPI) writeData(w http.ResponseWriter, r *http.Request, status int, data any) {
	if err := writeJSON(w, status, envelope{"data": data}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) state(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	snap, err := api.plannerService.State(r.Context())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	api.writeData(w, r, http.StatusOK, NewStateResponse(snap))
}

func (api *plannerAPI) pushPosition(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	c, ok := api.readCoordinate(w, r)
	if !ok {
		return
	}
	snap, err := api.plannerService.PushPosition(r.Context(), c)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	api.writeData(w, r, http.StatusOK, NewStateResponse(snap))
}

func (api *plannerAPI) pushPositionError(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request positionErrorRequest
	if err := readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validateStruct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if request.Message == "" {
		request.Message = defaultPositionError
	}

	snap, err := api.plannerService.PushPositionError(r.Context(), request.Message)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	api.writeData(w, r, http.StatusOK, NewStateResponse(snap))
}

func (api *plannerAPI) click(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	c, ok := api.readCoordinate(w, r)
	if !ok {
		return
	}
	snap, err := api.plannerService.Click(r.Context(), c)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	api.writeData(w, r, http.StatusCreated, NewStateResponse(snap))
}

func (api *plannerAPI) computeRoute(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	snap, err := api.plannerService.ComputeRoute(r.Context())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	api.writeData(w, r, http.StatusOK, NewStateResponse(snap))
}

func (api *plannerAPI) clear(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	snap, err := api.plannerService.Clear(r.Context())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	api.writeData(w, r, http.StatusOK, NewStateResponse(snap))
}

func (api *plannerAPI) markersInBounds(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request boundsRequest
	fields := []floatParam{
		{"sw_lat", &request.SouthWestLat},
		{"sw_lon", &request.SouthWestLon},
		{"ne_lat", &request.NorthEastLat},
		{"ne_lon", &request.NorthEastLon},
	}
	if !api.parseFloats(w, r, fields) {
		return
	}
	if err := validateStruct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	markers, err := api.plannerService.MarkersInBounds(r.Context(),
		geo.NewCoordinate(request.SouthWestLat, request.SouthWestLon),
		geo.NewCoordinate(request.NorthEastLat, request.NorthEastLon))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	api.writeData(w, r, http.StatusOK, NewMarkersResponse(markers))
}

func (api *plannerAPI) markersNear(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request nearRequest
	fields := []floatParam{
		{"lat", &request.Lat},
		{"lon", &request.Lon},
		{"radius_km", &request.RadiusKM},
	}
	if !api.parseFloats(w, r, fields) {
		return
	}
	if err := validateStruct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	markers, err := api.plannerService.MarkersNear(r.Context(),
		geo.NewCoordinate(request.Lat, request.Lon), request.RadiusKM)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	api.writeData(w, r, http.StatusOK, NewMarkersResponse(markers))
}

type floatParam struct {
	name string
	dst  *float64
}

func (api *plannerAPI) parseFloats(w http.ResponseWriter, r *http.Request, fields []floatParam) bool {
	query := r.URL.Query()
	for _, f := range fields {
		val, err := util.StringToFloat64(query.Get(f.name))
		if err != nil {
			api.BadRequestResponse(w, r, fmt.Errorf("%s is required and must be a valid float", f.name))
			return false
		}
		*f.dst = val
	}
	return true
}
