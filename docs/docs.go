// Package docs registers the OpenAPI description of the review service with swag
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
        "/api/v1/employees/{id}/review-action": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Employees"],
                "summary": "Employee review action",
                "parameters": [
                    {"type": "integer", "description": "Employee id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/exports/{uuid}": {
            "get": {
                "tags": ["Delay Reasons"],
                "summary": "Download export file",
                "parameters": [
                    {"type": "string", "description": "Export file id", "name": "uuid", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/review/pages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Review"],
                "summary": "Get review page",
                "parameters": [
                    {"type": "integer", "description": "Sales rep employee id", "name": "sales_rep_id", "in": "query", "required": true},
                    {"type": "integer", "description": "Zero based page index", "name": "page_index", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/review/submissions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Review"],
                "summary": "Submit review",
                "parameters": [
                    {"description": "Selected sales orders with reasons", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ReviewSubmitRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/sales-orders/{id}/delay-reasons": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Delay Reasons"],
                "summary": "List delay reasons of a sales order",
                "parameters": [
                    {"type": "integer", "description": "Sales order id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/api/v1/sales-reps/{id}/delay-reasons/export": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["Delay Reasons"],
                "summary": "Export delay reasons of a sales rep",
                "parameters": [
                    {"type": "integer", "description": "Sales rep employee id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/employees/{id}/review": {
            "get": {
                "tags": ["Employees"],
                "summary": "Open review form",
                "parameters": [
                    {"type": "integer", "description": "Employee id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "302": {"description": "Found"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.APIResponse"}}
                }
            }
        },
        "/review/open-sales-orders": {
            "get": {
                "produces": ["text/html"],
                "tags": ["Review"],
                "summary": "Review form",
                "parameters": [
                    {"type": "integer", "description": "Sales rep employee id", "name": "salesRepId", "in": "query", "required": true},
                    {"type": "integer", "description": "Zero based page index", "name": "pageIndex", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "HTML form", "schema": {"type": "string"}},
                    "400": {"description": "Missing sales rep id", "schema": {"type": "string"}},
                    "404": {"description": "Sales rep not found", "schema": {"type": "string"}}
                }
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/plain"],
                "tags": ["Review"],
                "summary": "Submit review form",
                "responses": {
                    "200": {"description": "Step outcomes", "schema": {"type": "string"}},
                    "400": {"description": "Invalid submission", "schema": {"type": "string"}},
                    "409": {"description": "Submission in progress", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "dto.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "dto.ReviewSelection": {
            "type": "object",
            "required": ["sales_order_id"],
            "properties": {
                "reason": {"type": "string", "maxLength": 4000},
                "sales_order_id": {"type": "integer"}
            }
        },
        "dto.ReviewSubmitRequest": {
            "type": "object",
            "required": ["sales_rep_id"],
            "properties": {
                "page_token": {"type": "string"},
                "sales_rep_id": {"type": "integer"},
                "selections": {"type": "array", "items": {"$ref": "#/definitions/dto.ReviewSelection"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Open Sales Order Review API",
	Description:      "Review of open sales orders, delay reasons and export notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
