// Package docs holds the Swagger spec served at /swagger. Regenerate it with
// `swag init -g cmd/api/main.go` after changing handler annotations.
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
            "post": {
                "tags": ["auth"],
                "summary": "User login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Login successful"},
                    "400": {"description": "Email, password, and role are required"},
                    "401": {"description": "Email not found, invalid role or incorrect password"},
                    "403": {"description": "Account is deactivated"}
                }
            }
        },
        "/auth/logout": {
            "post": {"tags": ["auth"], "summary": "Log out", "responses": {"200": {"description": "Logged out successfully"}}},
            "get": {"tags": ["auth"], "summary": "Log out", "responses": {"200": {"description": "Logged out successfully"}}}
        },
        "/auth/me": {
            "get": {"security": [{"CookieAuth": []}], "tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "Current user"}}}
        },
        "/users": {
            "get": {"security": [{"CookieAuth": []}], "tags": ["users"], "summary": "List users", "responses": {"200": {"description": "Users"}}},
            "post": {"security": [{"CookieAuth": []}], "tags": ["users"], "summary": "Create user", "responses": {"201": {"description": "User created"}}}
        },
        "/courses": {
            "get": {"security": [{"CookieAuth": []}], "tags": ["courses"], "summary": "List courses", "responses": {"200": {"description": "Courses"}}},
            "post": {"security": [{"CookieAuth": []}], "tags": ["courses"], "summary": "Create course", "responses": {"201": {"description": "Course created"}}}
        },
        "/reports": {
            "get": {"security": [{"CookieAuth": []}], "tags": ["reports"], "summary": "List reports", "responses": {"200": {"description": "Reports"}}},
            "post": {"security": [{"CookieAuth": []}], "tags": ["reports"], "summary": "Generate report", "responses": {"201": {"description": "Report generated"}}}
        },
        "/applications": {
            "get": {"tags": ["applications"], "summary": "Find applications by email", "responses": {"200": {"description": "Applications"}}},
            "post": {"tags": ["applications"], "summary": "Submit application", "responses": {"201": {"description": "Application submitted"}}}
        },
        "/contact": {
            "post": {"tags": ["contact"], "summary": "Send contact message", "responses": {"200": {"description": "Message sent"}}}
        }
    },
    "definitions": {
        "dto.LoginRequest": {
            "type": "object",
            "required": ["email", "password", "role"],
            "properties": {
                "email": {"type": "string", "example": "ann.lee@greenfield.edu"},
                "password": {"type": "string", "example": "password123"},
                "role": {"type": "string", "enum": ["ADMIN", "FACULTY", "STUDENT"], "example": "STUDENT"}
            }
        }
    },
    "securityDefinitions": {
        "CookieAuth": {"type": "apiKey", "name": "auth_token", "in": "cookie"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Greenfield University Portal API",
	Description:      "Admissions, course management and role dashboards for Greenfield University.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
