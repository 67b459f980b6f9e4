// Package docs holds the OpenAPI description served under /swagger.
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
        "/charts": {
            "get": {
                "description": "Retrieve the chart kinds that can be rendered over a dataset",
                "produces": ["application/json"],
                "tags": ["Charts"],
                "summary": "List chart kinds",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.GetChartsResponse"}}
                }
            }
        },
        "/currencies": {
            "get": {
                "description": "Retrieve every currency code present in the stored history",
                "produces": ["application/json"],
                "tags": ["Rates"],
                "summary": "List stored currencies",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.GetCurrenciesResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/datasets": {
            "post": {
                "description": "Select rows by price column, date range and currencies and keep them in the client session",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Datasets"],
                "summary": "Load a dataset",
                "parameters": [
                    {"type": "string", "description": "Existing session ID", "name": "X-Session-ID", "in": "header"},
                    {"description": "Dataset query", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoadDatasetRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.LoadDatasetResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "no data for the selected range", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "session store is full", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/datasets/{id}/charts/{kind}": {
            "get": {
                "description": "Render a chart kind over the dataset loaded in the session",
                "produces": ["application/json"],
                "tags": ["Charts"],
                "summary": "Render a chart",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Chart kind", "name": "kind", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.GetChartResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "session or chart kind not found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "chart can't be built from the dataset", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/sync": {
            "post": {
                "description": "Fetch the NBP tables published since the last stored date and store the new ones",
                "produces": ["application/json"],
                "tags": ["Sync"],
                "summary": "Synchronize rates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/rate.SyncReport"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "rates feed unavailable", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "analytics.Matrix": {
            "type": "object",
            "properties": {
                "codes": {"type": "array", "items": {"type": "string"}},
                "values": {"type": "array", "items": {"type": "array", "items": {"type": "number"}}}
            }
        },
        "analytics.Point": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "value": {"type": "number"}
            }
        },
        "analytics.Series": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "points": {"type": "array", "items": {"$ref": "#/definitions/analytics.Point"}}
            }
        },
        "domain.Row": {
            "type": "object",
            "properties": {
                "table": {"type": "string"},
                "no": {"type": "string"},
                "effective_date": {"type": "string"},
                "trading_date": {"type": "string"},
                "currency": {"type": "string"},
                "code": {"type": "string"},
                "mid": {"type": "number"},
                "bid": {"type": "number"},
                "ask": {"type": "number"}
            }
        },
        "handler.GetChartResponse": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "moving_average"},
                "name": {"type": "string", "example": "7-day moving average"},
                "y_label": {"type": "string", "example": "7-day mean"},
                "series": {"type": "array", "items": {"$ref": "#/definitions/analytics.Series"}},
                "matrix": {"$ref": "#/definitions/analytics.Matrix"},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/domain.Row"}}
            }
        },
        "handler.GetChartsResponse": {
            "type": "object",
            "properties": {
                "charts": {"type": "array", "items": {"$ref": "#/definitions/rate.ChartInfo"}}
            }
        },
        "handler.GetCurrenciesResponse": {
            "type": "object",
            "properties": {
                "codes": {"type": "array", "items": {"type": "string"}, "example": ["EUR", "USD", "CHF"]}
            }
        },
        "handler.LoadDatasetRequest": {
            "type": "object",
            "properties": {
                "course_kind": {"type": "string", "example": "mid"},
                "date_from": {"type": "string", "example": "2025-10-01"},
                "date_to": {"type": "string", "example": "2025-10-31"},
                "codes": {"type": "array", "items": {"type": "string"}, "example": ["USD", "EUR"]}
            }
        },
        "handler.LoadDatasetResponse": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string", "example": "77b5d9f5-0569-47e3-aee2-f659d59fbd97"},
                "rows": {"type": "array", "items": {"$ref": "#/definitions/domain.Row"}}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "rate.ChartInfo": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "rate.SyncReport": {
            "type": "object",
            "properties": {
                "exec_id": {"type": "string"},
                "started_at": {"type": "string"},
                "tables": {"type": "array", "items": {"$ref": "#/definitions/rate.TableReport"}}
            }
        },
        "rate.TableReport": {
            "type": "object",
            "properties": {
                "table_type": {"type": "string"},
                "from": {"type": "string"},
                "to": {"type": "string"},
                "fetched": {"type": "integer"},
                "tables_inserted": {"type": "integer"},
                "tables_skipped": {"type": "integer"},
                "rates_inserted": {"type": "integer"},
                "rates_skipped": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "NBP Rates API",
	Description:      "Synchronizes NBP exchange rate tables and renders chart series over the stored history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
