// Package docs serves the OpenAPI document of the GoClean API. Regenerate with `swag init -g cmd/server/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "definitions": {
        "utils.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "message": {"type": "string"},
                "data": {},
                "error": {"type": "string"}
            }
        },
        "utils.PaginatedResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": true},
                "message": {"type": "string"},
                "data": {},
                "pagination": {
                    "type": "object",
                    "properties": {
                        "page": {"type": "integer"},
                        "per_page": {"type": "integer"},
                        "total": {"type": "integer"},
                        "total_pages": {"type": "integer"}
                    }
                }
            }
        }
    },
    "paths": {
        "/api/v1/health": {"get": {"tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "Service is healthy"}}}},
        "/api/v1/auth/register": {"post": {"tags": ["auth"], "summary": "Register a user or TPS account", "responses": {"201": {"description": "Account created", "schema": {"$ref": "#/definitions/utils.APIResponse"}}}}},
        "/api/v1/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "Token issued", "schema": {"$ref": "#/definitions/utils.APIResponse"}}}}},
        "/api/v1/auth/me": {
            "get": {"tags": ["auth"], "summary": "Current account", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Account", "schema": {"$ref": "#/definitions/utils.APIResponse"}}}},
            "put": {"tags": ["auth"], "summary": "Update own profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Account updated", "schema": {"$ref": "#/definitions/utils.APIResponse"}}}}
        },
        "/api/v1/auth/password": {"put": {"tags": ["auth"], "summary": "Change password", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Password changed"}}}},
        "/api/v1/tps": {"get": {"tags": ["tps"], "summary": "List verified TPS", "responses": {"200": {"description": "TPS list", "schema": {"$ref": "#/definitions/utils.APIResponse"}}}}},
        "/api/v1/tps/nearby": {"get": {"tags": ["tps"], "summary": "Find nearby TPS", "responses": {"200": {"description": "Nearby TPS", "schema": {"$ref": "#/definitions/utils.APIResponse"}}}}},
        "/api/v1/regions": {"get": {"tags": ["tps"], "summary": "List service regions", "responses": {"200": {"description": "Regions", "schema": {"$ref": "#/definitions/utils.APIResponse"}}}}},
        "/api/v1/tps/me": {"put": {"tags": ["tps"], "summary": "Update own TPS profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "TPS updated"}}}},
        "/api/v1/tps/me/open": {"post": {"tags": ["tps"], "summary": "Open or close own TPS", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "TPS updated"}}}},
        "/api/v1/waste-categories": {
            "get": {"tags": ["waste-categories"], "summary": "List active waste categories", "responses": {"200": {"description": "Categories", "schema": {"$ref": "#/definitions/utils.APIResponse"}}}},
            "post": {"tags": ["waste-categories"], "summary": "Create a waste category", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Category created"}}}
        },
        "/api/v1/waste-categories/{id}": {
            "get": {"tags": ["waste-categories"], "summary": "Get a waste category", "responses": {"200": {"description": "Category"}}},
            "put": {"tags": ["waste-categories"], "summary": "Update a waste category", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Category updated"}}},
            "delete": {"tags": ["waste-categories"], "summary": "Delete a waste category", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Category deleted"}}}
        },
        "/api/v1/pickups": {
            "get": {"tags": ["pickups"], "summary": "List pickups", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Pickups", "schema": {"$ref": "#/definitions/utils.PaginatedResponse"}}}},
            "post": {"tags": ["pickups"], "summary": "Request a pickup", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Pickup created"}}}
        },
        "/api/v1/pickups/{id}": {"get": {"tags": ["pickups"], "summary": "Get pickup", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Pickup"}}}},
        "/api/v1/pickups/{id}/history": {"get": {"tags": ["pickups"], "summary": "Pickup status history", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "History"}}}},
        "/api/v1/pickups/{id}/accept": {"post": {"tags": ["pickups"], "summary": "Accept a pending pickup", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Pickup accepted"}, "409": {"description": "Invalid transition"}}}},
        "/api/v1/pickups/{id}/start": {"post": {"tags": ["pickups"], "summary": "Start driving to the pickup", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Pickup on the way"}}}},
        "/api/v1/pickups/{id}/picked-up": {"post": {"tags": ["pickups"], "summary": "Mark waste collected", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Pickup picked up"}}}},
        "/api/v1/pickups/{id}/complete": {"post": {"tags": ["pickups"], "summary": "Complete with weighed items", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Pickup completed and transaction created"}}}},
        "/api/v1/pickups/{id}/cancel": {"post": {"tags": ["pickups"], "summary": "Cancel a pickup", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Pickup cancelled"}}}},
        "/api/v1/pickups/{id}/location": {
            "get": {"tags": ["pickups"], "summary": "Latest TPS location", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Location"}}},
            "put": {"tags": ["pickups"], "summary": "Report TPS location", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Location stored"}}}
        },
        "/api/v1/pickups/{id}/attachments": {
            "get": {"tags": ["pickups"], "summary": "List attachments", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Attachments"}}},
            "post": {"tags": ["pickups"], "summary": "Upload an attachment", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Attachment stored"}, "413": {"description": "File too large"}}}
        },
        "/api/v1/pickups/{id}/attachments/{name}": {"get": {"tags": ["pickups"], "summary": "Download an attachment", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "File"}}}},
        "/api/v1/transactions": {"get": {"tags": ["transactions"], "summary": "List transactions", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Transactions", "schema": {"$ref": "#/definitions/utils.PaginatedResponse"}}}}},
        "/api/v1/transactions/{id}": {"get": {"tags": ["transactions"], "summary": "Get transaction", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Transaction"}}}},
        "/api/v1/transactions/payment-link": {"post": {"tags": ["transactions"], "summary": "Create a Mayar payment link", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Payment link"}}}},
        "/api/v1/transactions/confirm-payment": {"post": {"tags": ["transactions"], "summary": "Confirm payment webhook (Mayar)", "responses": {"200": {"description": "Webhook received"}}}},
        "/api/v1/transactions/{id}/confirm-cash": {"post": {"tags": ["transactions"], "summary": "Confirm cash payment", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Payment confirmed"}}}},
        "/api/v1/notifications": {"get": {"tags": ["notifications"], "summary": "List notifications", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Notifications", "schema": {"$ref": "#/definitions/utils.PaginatedResponse"}}}}},
        "/api/v1/notifications/unread-count": {"get": {"tags": ["notifications"], "summary": "Count unread notifications", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Unread count"}}}},
        "/api/v1/notifications/{id}/read": {"post": {"tags": ["notifications"], "summary": "Mark a notification as read", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Marked"}}}},
        "/api/v1/notifications/read-all": {"post": {"tags": ["notifications"], "summary": "Mark every notification as read", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Marked"}}}},
        "/api/v1/sync": {"get": {"tags": ["sync"], "summary": "Incremental sync", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Changes"}}}},
        "/api/v1/dashboard": {"get": {"tags": ["dashboard"], "summary": "Get dashboard statistics", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Statistics"}}}},
        "/api/v1/menus/me": {"get": {"tags": ["menus"], "summary": "Get menus for the caller's role", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Menus"}}}},
        "/api/v1/admin/users": {"get": {"tags": ["admin"], "summary": "List users", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Users", "schema": {"$ref": "#/definitions/utils.PaginatedResponse"}}}}},
        "/api/v1/admin/users/{id}/active": {"post": {"tags": ["admin"], "summary": "Enable or disable a user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "User updated"}}}},
        "/api/v1/admin/tps/{id}/verify": {"post": {"tags": ["admin"], "summary": "Verify a TPS", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "TPS updated"}}}},
        "/api/v1/admin/waste-categories": {"get": {"tags": ["admin"], "summary": "List all waste categories", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Categories"}}}},
        "/api/v1/admin/transactions/export": {"get": {"tags": ["admin"], "summary": "Export transactions to Excel", "security": [{"BearerAuth": []}], "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "responses": {"200": {"description": "Excel file"}}}},
        "/api/v1/scheduler-logs": {"get": {"tags": ["admin"], "summary": "List scheduler runs", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Scheduler logs", "schema": {"$ref": "#/definitions/utils.PaginatedResponse"}}}}},
        "/api/v1/master-menus": {
            "get": {"tags": ["master-menus"], "summary": "List all menus", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Menus"}}},
            "post": {"tags": ["master-menus"], "summary": "Create a menu", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Menu created"}}}
        },
        "/api/v1/master-menus/{id}": {
            "get": {"tags": ["master-menus"], "summary": "Get a menu", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Menu"}}},
            "put": {"tags": ["master-menus"], "summary": "Update a menu", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Menu updated"}}},
            "delete": {"tags": ["master-menus"], "summary": "Delete a menu", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "Menu deleted"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "GoClean Backend Service API",
	Description:      "Waste pickup marketplace connecting households with TPS operators",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
