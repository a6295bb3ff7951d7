// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/inventory": {
            "get": {
                "summary": "List active pantry items",
                "parameters": [
                    {"name": "sort", "in": "query", "type": "string", "enum": ["expiration_date", "category", "name", "created_at"]},
                    {"name": "order", "in": "query", "type": "string", "enum": ["asc", "desc"]}
                ],
                "responses": {"200": {"description": "items"}}
            },
            "post": {
                "summary": "Add a pantry item",
                "parameters": [{"name": "item", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddItemRequest"}}],
                "responses": {"201": {"description": "created", "schema": {"$ref": "#/definitions/InventoryItem"}}, "400": {"description": "validation error"}}
            }
        },
        "/inventory/batch": {
            "post": {
                "summary": "Store reviewed receipt rows",
                "parameters": [{"name": "batch", "in": "body", "required": true, "schema": {"type": "object", "properties": {"items": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/BatchItem"}}}}}],
                "responses": {"201": {"description": "all rows stored"}, "207": {"description": "some rows failed"}, "422": {"description": "every row failed"}}
            }
        },
        "/inventory/expiring": {
            "get": {
                "summary": "List items expiring within a window",
                "parameters": [{"name": "days", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "items"}}
            }
        },
        "/inventory/expired": {
            "get": {"summary": "List expired items", "responses": {"200": {"description": "items"}}}
        },
        "/inventory/stats": {
            "get": {"summary": "Pantry counters", "responses": {"200": {"description": "stats"}}}
        },
        "/inventory/{id}": {
            "get": {
                "summary": "Get a pantry item",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}],
                "responses": {"200": {"description": "item", "schema": {"$ref": "#/definitions/InventoryItem"}}, "404": {"description": "not found"}}
            },
            "delete": {
                "summary": "Remove a used-up item",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}],
                "responses": {"204": {"description": "removed"}, "404": {"description": "not found"}}
            }
        },
        "/inventory/{id}/expire": {
            "post": {
                "summary": "Mark an item expired",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}],
                "responses": {"200": {"description": "marked"}}
            }
        },
        "/inventory/{id}/usage": {
            "post": {
                "summary": "Record partial usage",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}],
                "responses": {"201": {"description": "log entry and remaining quantity"}}
            }
        },
        "/inventory/{id}/logs": {
            "get": {
                "summary": "Usage history of an item",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}],
                "responses": {"200": {"description": "log entries"}}
            }
        },
        "/receipts/extract": {
            "post": {
                "summary": "Extract food rows from a receipt photo",
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "receipt", "in": "formData", "required": true, "type": "file"}],
                "responses": {"200": {"description": "rows"}, "422": {"description": "no food items found"}, "429": {"description": "rate limited"}, "502": {"description": "model unavailable"}}
            }
        },
        "/receipts/scan": {
            "post": {
                "summary": "Extract and store a receipt",
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "receipt", "in": "formData", "required": true, "type": "file"}],
                "responses": {"201": {"description": "stored"}, "207": {"description": "partially stored"}}
            }
        },
        "/recipes/suggest": {
            "post": {"summary": "Suggest a recipe from the pantry", "responses": {"200": {"description": "recipe"}, "502": {"description": "model unavailable"}}}
        }
    },
    "definitions": {
        "AddItemRequest": {
            "type": "object",
            "required": ["name", "quantity"],
            "properties": {
                "name": {"type": "string"},
                "category": {"type": "string"},
                "quantity": {"type": "number"},
                "unit": {"type": "string"},
                "standard_unit": {"type": "string", "enum": ["g", "ml", "count"]},
                "price": {"type": "number"},
                "expiration_date": {"type": "string", "format": "date"}
            }
        },
        "BatchItem": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "category": {"type": "string"},
                "quantity": {"type": "number", "default": 1},
                "unit": {"type": "string"},
                "price": {"type": "number"},
                "expiration_date": {"type": "string", "format": "date"}
            }
        },
        "InventoryItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "name": {"type": "string"},
                "category": {"type": "string"},
                "initial_quantity": {"type": "number"},
                "current_quantity": {"type": "number"},
                "user_unit": {"type": "string"},
                "standard_unit": {"type": "string"},
                "conversion_factor": {"type": "number"},
                "price": {"type": "number"},
                "expiration_date": {"type": "string"},
                "created_at": {"type": "string"},
                "status": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Savor API",
	Description:      "Pantry tracking: receipts in, recipes out.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
