package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Web Kalender HMPSTI API",
        "description": "Departmental event calendar: schedule, work programmes, uploads and broadcast texts.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Events", "description": "Schedule of activities"},
        {"name": "Prokers", "description": "Work programmes per department"},
        {"name": "Files", "description": "Logo and material uploads"},
        {"name": "Export", "description": "Agenda downloads and iCalendar feed"},
        {"name": "Jarkoman", "description": "WhatsApp broadcast texts"},
        {"name": "Admin Users", "description": "Super admin account management"},
        {"name": "Authentication", "description": "Admin sign in"},
        {"name": "Reference", "description": "Departments and form lookups"}
    ],
    "paths": {
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List events",
                "parameters": [
                    {"name": "department_id", "in": "query", "type": "integer"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Events"],
                "summary": "Schedule an event",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Schedule conflict, meta.conflict holds the overlapping event", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Event detail",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Events"],
                "summary": "Update an event",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EventRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Events"],
                "summary": "Delete an event",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/events/upcoming": {
            "get": {
                "tags": ["Events"],
                "summary": "Events of today and tomorrow in WIB",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/events/current": {
            "get": {
                "tags": ["Events"],
                "summary": "Event running now with elapsed percentage",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/events/stream": {
            "get": {
                "tags": ["Events"],
                "summary": "Server-sent change notifications",
                "produces": ["text/event-stream"],
                "parameters": [{"name": "table", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "event stream"}}
            }
        },
        "/events/conflicts": {
            "post": {
                "tags": ["Events"],
                "summary": "Preview a schedule conflict",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ConflictCheckRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/events/export": {
            "get": {
                "tags": ["Export"],
                "summary": "Download the agenda",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "department_id", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "file"}}
            }
        },
        "/events/{id}/jarkoman": {
            "post": {
                "tags": ["Jarkoman"],
                "summary": "Broadcast text of a stored event",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/JarkomanResponse"}}}
            }
        },
        "/calendar.ics": {
            "get": {
                "tags": ["Export"],
                "summary": "iCalendar feed",
                "produces": ["text/calendar"],
                "parameters": [{"name": "department_id", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "feed"}}
            }
        },
        "/prokers": {
            "get": {
                "tags": ["Prokers"],
                "summary": "List work programmes",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Prokers"],
                "summary": "Create a work programme",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProkerRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/prokers/{id}": {
            "put": {
                "tags": ["Prokers"],
                "summary": "Update a work programme",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProkerRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Prokers"],
                "summary": "Delete a work programme and its events",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/uploads": {
            "post": {
                "tags": ["Files"],
                "summary": "Upload a logo or material",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"},
                    {"name": "bucket", "in": "formData", "type": "string"},
                    {"name": "prefix", "in": "formData", "type": "string"}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/generate-jarkoman": {
            "post": {
                "tags": ["Jarkoman"],
                "summary": "Generate a broadcast text",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/JarkomanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/JarkomanResponse"}},
                    "500": {"description": "Gagal memanggil AI", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["Admin Users"],
                "summary": "List admin profiles",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "Profiles, super admins first", "schema": {"type": "array", "items": {"$ref": "#/definitions/Profile"}}}}
            },
            "post": {
                "tags": ["Admin Users"],
                "summary": "Create an admin account",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAdminUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AdminMessage"}},
                    "500": {"description": "Identity or profile store failure", "schema": {"$ref": "#/definitions/AdminError"}}
                }
            },
            "put": {
                "tags": ["Admin Users"],
                "summary": "Reset an admin password",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResetPasswordRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/AdminMessage"}}}
            },
            "delete": {
                "tags": ["Admin Users"],
                "summary": "Delete an admin account",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "query", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AdminMessage"}},
                    "403": {"description": "Super admin accounts cannot be deleted", "schema": {"$ref": "#/definitions/AdminError"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate admin",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current admin profile",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/departments": {
            "get": {
                "tags": ["Reference"],
                "summary": "List departments",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/reference": {
            "get": {
                "tags": ["Reference"],
                "summary": "Form reference data",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        }
    },
    "definitions": {
        "EventRequest": {
            "type": "object",
            "required": ["title", "start_time", "end_time", "location", "proker_id"],
            "properties": {
                "title": {"type": "string"},
                "activity_type": {"type": "string"},
                "start_time": {"type": "string", "example": "2024-08-12T13:00"},
                "end_time": {"type": "string", "example": "2024-08-12T15:00"},
                "location": {"type": "string"},
                "description": {"type": "string"},
                "proker_id": {"type": "string", "format": "uuid"},
                "participants": {"type": "array", "items": {"type": "string"}},
                "logistics": {"type": "string"},
                "file_url": {"type": "string"},
                "pic": {"type": "string"},
                "link_meeting": {"type": "string"},
                "status": {"type": "string", "enum": ["Fix", "Tentative"]},
                "confirm_conflict": {"type": "boolean"}
            }
        },
        "ConflictCheckRequest": {
            "type": "object",
            "required": ["start_time", "end_time"],
            "properties": {
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "exclude_id": {"type": "string", "format": "uuid"}
            }
        },
        "ProkerRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "department_id": {"type": "integer", "minimum": 1, "maximum": 8},
                "logo_url": {"type": "string"}
            }
        },
        "JarkomanRequest": {
            "type": "object",
            "required": ["title"],
            "properties": {
                "title": {"type": "string"},
                "date": {"type": "string"},
                "time": {"type": "string"},
                "location": {"type": "string"},
                "description": {"type": "string"},
                "type": {"type": "string"},
                "proker": {"type": "string"},
                "dept": {"type": "string"},
                "logistics": {"type": "string"},
                "pic": {"type": "string"},
                "status": {"type": "string"},
                "link_meeting": {"type": "string"}
            }
        },
        "Profile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["super_admin", "dept_admin"]},
                "department_id": {"type": "integer"}
            }
        },
        "AdminMessage": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "AdminError": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "JarkomanResponse": {
            "type": "object",
            "properties": {"jarkoman": {"type": "string"}}
        },
        "CreateAdminUserRequest": {
            "type": "object",
            "required": ["email", "password", "role"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6},
                "role": {"type": "string", "enum": ["super_admin", "dept_admin"]},
                "department_id": {"type": "integer"}
            }
        },
        "ResetPasswordRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "newPassword": {"type": "string", "minLength": 6}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
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
                "message": {"type": "string"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
