package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "StuDenTools API",
        "description": "Student productivity tools: auto-timetable, GPA calculator and feedback.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "System", "description": "Liveness, readiness and metrics"},
        {"name": "Timetable", "description": "Weekly timetable generation and export"},
        {"name": "GPA", "description": "Grade point average calculator"},
        {"name": "Feedback", "description": "User feedback"}
    ],
    "paths": {
        "/": {
            "get": {
                "tags": ["System"],
                "summary": "API welcome message",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["System"],
                "summary": "Readiness probe reporting optional dependencies",
                "responses": {"200": {"description": "Dependency status"}}
            }
        },
        "/auto-timetable/generate": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate a weekly timetable",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "Generated or infeasible timetable", "schema": {"$ref": "#/definitions/GenerateTimetableResponse"}},
                    "400": {"description": "Invalid payload or time range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auto-timetable/export": {
            "post": {
                "tags": ["Timetable"],
                "summary": "Generate a timetable and download it",
                "consumes": ["application/json"],
                "produces": ["application/pdf", "text/csv"],
                "parameters": [
                    {"in": "query", "name": "format", "type": "string", "enum": ["pdf", "csv"], "default": "pdf"},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "Attachment", "schema": {"type": "file"}},
                    "400": {"description": "Invalid payload or format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "No feasible timetable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/gpa": {
            "post": {
                "tags": ["GPA"],
                "summary": "Calculate GPA",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/GPARequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/gpa/scales": {
            "get": {
                "tags": ["GPA"],
                "summary": "List grade scales",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/feedback/": {
            "post": {
                "tags": ["Feedback"],
                "summary": "Submit feedback",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/FeedbackRequest"}}
                ],
                "responses": {
                    "200": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Storage unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Feedback"],
                "summary": "List feedback (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "type", "type": "string"},
                    {"in": "query", "name": "page", "type": "integer"},
                    {"in": "query", "name": "page_size", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Course": {
            "type": "object",
            "required": ["name", "duration"],
            "properties": {
                "name": {"type": "string"},
                "duration": {"type": "integer", "minimum": 1},
                "preferred_days": {"type": "array", "items": {"type": "string"}}
            }
        },
        "FreePeriod": {
            "type": "object",
            "properties": {
                "day": {"type": "string"},
                "start_time": {"type": "string", "example": "12:00"},
                "end_time": {"type": "string", "example": "13:00"}
            }
        },
        "FixedEvent": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "day": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"}
            }
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "courses": {"type": "array", "items": {"$ref": "#/definitions/Course"}},
                "constraints": {
                    "type": "object",
                    "properties": {
                        "start_time": {"type": "string", "example": "08:00"},
                        "end_time": {"type": "string", "example": "18:00"},
                        "free_periods": {"type": "array", "items": {"$ref": "#/definitions/FreePeriod"}}
                    }
                },
                "fixed_events": {"type": "array", "items": {"$ref": "#/definitions/FixedEvent"}},
                "preferences": {
                    "type": "object",
                    "properties": {
                        "compact_schedule": {"type": "boolean"},
                        "preferred_days": {"type": "array", "items": {"type": "string"}},
                        "max_hours_per_day": {"type": "integer"},
                        "min_break_duration": {"type": "integer"},
                        "max_session_duration": {"type": "integer"}
                    }
                },
                "seed": {"type": "integer", "format": "int64"}
            }
        },
        "TimetableEntry": {
            "type": "object",
            "properties": {
                "course_name": {"type": "string"},
                "day": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "color": {"type": "string"}
            }
        },
        "GenerateTimetableResponse": {
            "type": "object",
            "properties": {
                "timetable": {"type": "array", "items": {"$ref": "#/definitions/TimetableEntry"}},
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "GPARequest": {
            "type": "object",
            "required": ["courses"],
            "properties": {
                "courses": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "name": {"type": "string"},
                            "grade": {"type": "string", "example": "A-"},
                            "credits": {"type": "number"}
                        }
                    }
                },
                "scale_type": {"type": "string", "example": "4.0"}
            }
        },
        "FeedbackRequest": {
            "type": "object",
            "required": ["message"],
            "properties": {
                "type": {"type": "string", "example": "bug"},
                "message": {"type": "string"},
                "email": {"type": "string"}
            }
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

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
