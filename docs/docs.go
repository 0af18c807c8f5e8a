// Package docs holds the OpenAPI description served at /swagger.
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
        "/destinations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Destinations"],
                "summary": "List destinations",
                "parameters": [
                    {"type": "string", "description": "Country filter", "name": "country", "in": "query"},
                    {"type": "string", "description": "Destination type filter", "name": "type", "in": "query"},
                    {"type": "string", "description": "Climate filter", "name": "climate", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.Destination"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/destinations/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Destinations"],
                "summary": "Catalog statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.CatalogStats"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/destinations/{destinationID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Destinations"],
                "summary": "Get a destination",
                "parameters": [
                    {"type": "integer", "description": "Destination ID", "name": "destinationID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Destination"}},
                    "400": {"description": "Invalid Input", "schema": {"$ref": "#/definitions/types.Response"}},
                    "404": {"description": "Destination Not Found", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/destinations/{destinationID}/similar": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Destinations"],
                "summary": "Destinations similar to a destination",
                "parameters": [
                    {"type": "integer", "description": "Destination ID", "name": "destinationID", "in": "path", "required": true},
                    {"type": "integer", "description": "Number of results", "name": "k", "in": "query"},
                    {"type": "string", "description": "weighted or cosine", "name": "method", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.SimilarityResult"}}},
                    "400": {"description": "Invalid Input", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/users/{userID}/recommendations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Recommend destinations for a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "userID", "in": "path", "required": true},
                    {"type": "integer", "description": "Number of recommendations", "name": "n", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.Recommendation"}}},
                    "400": {"description": "Invalid Input", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/users/{userID}/profile": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Preference profile of a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "userID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.UserProfileResponse"}},
                    "404": {"description": "No History", "schema": {"$ref": "#/definitions/types.Response"}}
                }
            }
        },
        "/users/{userID}/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Visit history of a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "userID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.VisitDetail"}}}
                }
            }
        },
        "/users/{userID}/history/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Users"],
                "summary": "Travel statistics of a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "userID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.HistoryStats"}}
                }
            }
        },
        "/features": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Destinations"],
                "summary": "Encoded feature table",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.FeatureTableResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.Destination": {
            "type": "object",
            "properties": {
                "destination_id": {"type": "integer"},
                "name": {"type": "string"},
                "country": {"type": "string"},
                "type": {"type": "string"},
                "activities": {"type": "array", "items": {"type": "string"}},
                "climate": {"type": "string"},
                "budget_level": {"type": "integer"},
                "popularity_score": {"type": "number"}
            }
        },
        "types.Recommendation": {
            "type": "object",
            "allOf": [{"$ref": "#/definitions/types.Destination"}],
            "properties": {"similarity_score": {"type": "number"}}
        },
        "types.SimilarityResult": {
            "type": "object",
            "allOf": [{"$ref": "#/definitions/types.Destination"}],
            "properties": {"similarity_score": {"type": "number"}}
        },
        "types.CatalogStats": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "by_type": {"type": "object", "additionalProperties": {"type": "integer"}},
                "by_climate": {"type": "object", "additionalProperties": {"type": "integer"}},
                "average_budget": {"type": "number"},
                "average_popularity": {"type": "number"}
            }
        },
        "types.VisitDetail": {
            "type": "object",
            "allOf": [{"$ref": "#/definitions/types.Destination"}],
            "properties": {
                "rating": {"type": "number"},
                "visit_date": {"type": "string"}
            }
        },
        "types.HistoryStats": {
            "type": "object",
            "properties": {
                "total_visits": {"type": "integer"},
                "average_rating": {"type": "number"},
                "favourite_type": {"type": "string"},
                "ratings_by_type": {"type": "array", "items": {"type": "object"}},
                "visits_by_climate": {"type": "object", "additionalProperties": {"type": "integer"}}
            }
        },
        "types.UserProfileResponse": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer"},
                "profile": {"type": "object", "additionalProperties": {"type": "number"}},
                "summary": {"type": "object"}
            }
        },
        "types.FeatureTableResponse": {
            "type": "object",
            "properties": {
                "columns": {"type": "array", "items": {"type": "string"}},
                "rows": {"type": "array", "items": {"type": "object"}}
            }
        },
        "types.Response": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"type": "string", "example": "destination not found"},
                "request_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8000",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Travel Recommender API",
	Description:      "Content-based travel destination recommendations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
