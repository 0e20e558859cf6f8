// Package docs registers the swagger document served under /doc.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["planner"],
                "summary": "current planner state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.stateEnvelope"}}
                }
            }
        },
        "/position": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["position"],
                "summary": "push a position fix",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.coordinateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.stateEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/controllers.errorEnvelope"}}
                }
            }
        },
        "/position/error": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["position"],
                "summary": "report a position error",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.positionErrorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.stateEnvelope"}}
                }
            }
        },
        "/clicks": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["waypoints"],
                "summary": "add a destination waypoint",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/controllers.coordinateRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/controllers.stateEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/controllers.errorEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/controllers.errorEnvelope"}}
                }
            }
        },
        "/route": {
            "post": {
                "produces": ["application/json"],
                "tags": ["route"],
                "summary": "compute the route through every waypoint",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.stateEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/controllers.errorEnvelope"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/controllers.errorEnvelope"}}
                }
            }
        },
        "/waypoints": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["waypoints"],
                "summary": "clear waypoints and route",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.stateEnvelope"}}
                }
            }
        },
        "/markers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["markers"],
                "summary": "markers inside a bounding box",
                "parameters": [
                    {"type": "number", "name": "sw_lat", "in": "query", "required": true},
                    {"type": "number", "name": "sw_lon", "in": "query", "required": true},
                    {"type": "number", "name": "ne_lat", "in": "query", "required": true},
                    {"type": "number", "name": "ne_lon", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.markersEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/controllers.errorEnvelope"}}
                }
            }
        },
        "/markers/near": {
            "get": {
                "produces": ["application/json"],
                "tags": ["markers"],
                "summary": "markers within a radius",
                "parameters": [
                    {"type": "number", "name": "lat", "in": "query", "required": true},
                    {"type": "number", "name": "lon", "in": "query", "required": true},
                    {"type": "number", "name": "radius_km", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.markersEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/controllers.errorEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.coordinateRequest": {
            "type": "object",
            "required": ["lat", "lon"],
            "properties": {
                "lat": {"type": "number", "maximum": 90, "minimum": -90},
                "lon": {"type": "number", "maximum": 180, "minimum": -180}
            }
        },
        "controllers.positionErrorRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "maxLength": 256}
            }
        },
        "controllers.waypointResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "marker": {"type": "string"}
            }
        },
        "controllers.markerResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "color": {"type": "string"}
            }
        },
        "controllers.routeResponse": {
            "type": "object",
            "properties": {
                "path": {"type": "array", "items": {"$ref": "#/definitions/geo.Coordinate"}},
                "polyline": {"type": "string"},
                "length_meters": {"type": "integer"},
                "travel_time_seconds": {"type": "number"},
                "path_length_meters": {"type": "number"},
                "geojson": {"type": "object"}
            }
        },
        "controllers.stateResponse": {
            "type": "object",
            "properties": {
                "state": {"type": "string"},
                "can_compute_route": {"type": "boolean"},
                "origin": {"$ref": "#/definitions/geo.Coordinate"},
                "waypoints": {"type": "array", "items": {"$ref": "#/definitions/controllers.waypointResponse"}},
                "route": {"$ref": "#/definitions/controllers.routeResponse"},
                "markers": {"type": "array", "items": {"$ref": "#/definitions/controllers.markerResponse"}}
            }
        },
        "controllers.stateEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.stateResponse"}
            }
        },
        "controllers.markersEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/controllers.markerResponse"}}
            }
        },
        "controllers.errorEnvelope": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/controllers.errorBody"}
            }
        },
        "controllers.errorBody": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "geo.Coordinate": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Route Planner API",
	Description:      "Interactive multi-waypoint route planner backed by an online routing service.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
