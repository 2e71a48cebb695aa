// Package docs registers the OpenAPI document served under /swagger.
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
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "User login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}
        },
        "/auth/register": {
            "post": {"tags": ["auth"], "summary": "Register new user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/accounts": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Open a new account", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}},
            "get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Find an account by account number", "parameters": [{"type": "string", "name": "number", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/transactions/{transactionID}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Get a ledger entry by ID", "parameters": [{"type": "integer", "name": "transactionID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/accounts/{accountID}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Get an account by ID", "parameters": [{"type": "integer", "name": "accountID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Deactivate an account", "parameters": [{"type": "integer", "name": "accountID", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/accounts/{accountID}/balance": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Get an account balance", "parameters": [{"type": "integer", "name": "accountID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/accounts/{accountID}/transactions": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "List an account's transactions", "parameters": [{"type": "integer", "name": "accountID", "in": "path", "required": true}, {"type": "integer", "default": 20, "name": "limit", "in": "query"}, {"type": "string", "name": "nextToken", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}
        },
        "/accounts/{accountID}/deposit": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Deposit into an account", "parameters": [{"type": "integer", "name": "accountID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/accounts/{accountID}/withdraw": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Withdraw from an account", "parameters": [{"type": "integer", "name": "accountID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/customers/{customerID}/accounts": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "List a customer's accounts", "parameters": [{"type": "integer", "name": "customerID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/transfers": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["transfers"], "summary": "Transfer money between accounts", "parameters": [{"type": "string", "name": "Idempotency-Key", "in": "header"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Mini Banking API",
	Description:      "Accounts, cash operations and atomic transfers over a versioned ledger.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
