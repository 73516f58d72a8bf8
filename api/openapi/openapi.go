// Package openapi embeds the static API document served on /openapi.json.
package openapi

// Document is the Swagger 2.0 description of the public API surface.
const Document = `{
    "swagger": "2.0",
    "info": {
        "title": "DayPlan API",
        "description": "Daily schedule generation with per-user learned preferences",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": ["http"],
    "tags": [
        {"name": "Authentication", "description": "Accounts and sessions"},
        {"name": "Tasks", "description": "Task pool management"},
        {"name": "Schedule", "description": "Plan generation and retrieval"},
        {"name": "Model", "description": "Feedback and learned weights"},
        {"name": "Settings", "description": "Scheduling preferences"},
        {"name": "Catalog", "description": "Reusable task templates"},
        {"name": "Export", "description": "Plan export artifacts"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List tasks",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "includeArchived", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Tasks"],
                "summary": "Create task",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTaskRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Daily task limit reached"}
                }
            }
        },
        "/tasks/{id}": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Get task",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "patch": {
                "tags": ["Tasks"],
                "summary": "Update task",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTaskRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Tasks"],
                "summary": "Archive task",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/schedule": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Generate day plan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/plans": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List recent plans",
                "parameters": [{"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/plans/{date}": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Get plan by date",
                "parameters": [{"name": "date", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No plan for this date"}
                }
            }
        },
        "/plans/{date}/export": {
            "get": {
                "tags": ["Export"],
                "summary": "Export plan",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/exports/{token}": {
            "get": {
                "tags": ["Export"],
                "summary": "Download export",
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "File content"},
                    "401": {"description": "Invalid or expired link"}
                }
            }
        },
        "/feedback": {
            "post": {
                "tags": ["Model"],
                "summary": "Submit slot feedback",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitFeedbackRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/model": {
            "get": {
                "tags": ["Model"],
                "summary": "Get learned model state",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Model"],
                "summary": "Reset learned model",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/settings": {
            "get": {
                "tags": ["Settings"],
                "summary": "Get settings",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "patch": {
                "tags": ["Settings"],
                "summary": "Update settings",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSettingsRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/catalog": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List task templates",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Catalog"],
                "summary": "Create task template",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTemplateRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/catalog/{id}/used": {
            "post": {
                "tags": ["Catalog"],
                "summary": "Mark template used",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "fullName": {"type": "string"},
                "profile": {"type": "string", "enum": ["adult", "child-school-age"]},
                "locale": {"type": "string"}
            },
            "required": ["email", "password", "fullName"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshRequest": {
            "type": "object",
            "properties": {"refreshToken": {"type": "string"}},
            "required": ["refreshToken"]
        },
        "CreateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "estimatedMinutes": {"type": "integer"},
                "priority": {"type": "number"},
                "deadline": {"type": "string"},
                "fixedStart": {"type": "string"},
                "mealType": {"type": "string", "enum": ["breakfast", "lunch", "dinner"]},
                "minChunkMinutes": {"type": "integer"}
            },
            "required": ["title", "estimatedMinutes"]
        },
        "UpdateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "estimatedMinutes": {"type": "integer"},
                "priority": {"type": "number"},
                "deadline": {"type": "string"},
                "clearDeadline": {"type": "boolean"},
                "fixedStart": {"type": "string"},
                "clearFixedStart": {"type": "boolean"},
                "mealType": {"type": "string"},
                "minChunkMinutes": {"type": "integer"}
            }
        },
        "GenerateScheduleRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "taskIds": {"type": "array", "items": {"type": "string"}}
            },
            "required": ["date"]
        },
        "SubmitFeedbackRequest": {
            "type": "object",
            "properties": {
                "planId": {"type": "string"},
                "taskId": {"type": "string"},
                "action": {"type": "string", "enum": ["kept", "moved"]}
            },
            "required": ["planId", "taskId", "action"]
        },
        "UpdateSettingsRequest": {
            "type": "object",
            "properties": {
                "sleepStart": {"type": "string"},
                "sleepEnd": {"type": "string"},
                "workStart": {"type": "string"},
                "workEnd": {"type": "string"},
                "breakfastOffset": {"type": "integer"},
                "lunchOffset": {"type": "integer"},
                "dinnerOffset": {"type": "integer"},
                "activityTargetMinutes": {"type": "integer"},
                "profile": {"type": "string"},
                "locale": {"type": "string"}
            }
        },
        "CreateTemplateRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "category": {"type": "string"},
                "estimatedMinutes": {"type": "integer"},
                "priority": {"type": "number"},
                "mealType": {"type": "string"}
            },
            "required": ["title", "category", "estimatedMinutes"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`
