package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Tutor ADP API",
        "description": "Billing and debt reconciliation API for the tutoring center dashboard",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Enrollment roster with session-ledger fields"},
        {"name": "Contracts", "description": "Tuition contracts and discount pricing"},
        {"name": "Settlements", "description": "Session-debt settlement and bad-debt reconciliation"},
        {"name": "Invoices", "description": "Settlement invoice history and export"},
        {"name": "Dashboard", "description": "Billing overview"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/auth/login": {
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
        "/api/v1/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students with session-ledger fields",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "classId", "in": "query", "type": "string"},
                    {"name": "inDebt", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/students/{id}/projection": {
            "get": {
                "tags": ["Students"],
                "summary": "Project when the student's paid sessions run out",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "from", "in": "query", "type": "string", "description": "YYYY-MM-DD"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/students/{id}/contracts": {
            "get": {
                "tags": ["Contracts"],
                "summary": "List a student's contracts",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/students/{id}/reconcile": {
            "post": {
                "tags": ["Settlements"],
                "summary": "Reconcile a student's bad-debt flag",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/discounts": {
            "get": {
                "tags": ["Contracts"],
                "summary": "List active catalog discounts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/contracts/preview": {
            "post": {
                "tags": ["Contracts"],
                "summary": "Preview line-item pricing with discounts applied",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PreviewPricingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/contracts": {
            "post": {
                "tags": ["Contracts"],
                "summary": "Create tuition contract",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateContractRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/contracts/{id}": {
            "get": {
                "tags": ["Contracts"],
                "summary": "Get contract detail with line items",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/settlements": {
            "post": {
                "tags": ["Settlements"],
                "summary": "Settle a student's session debt",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SettleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invoice code conflict"}
                }
            }
        },
        "/api/v1/invoices": {
            "get": {
                "tags": ["Invoices"],
                "summary": "List settlement invoices",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/invoices/export": {
            "get": {
                "tags": ["Invoices"],
                "summary": "Export settlement invoices as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/api/v1/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Billing dashboard summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CustomDiscountInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["PERCENT", "FIXED"]},
                "value": {"type": "integer"}
            },
            "required": ["name", "type", "value"]
        },
        "LineItemInput": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "sessions": {"type": "integer"},
                "subtotal": {"type": "integer"},
                "discount_ids": {"type": "array", "items": {"type": "string"}},
                "custom_discount": {"$ref": "#/definitions/CustomDiscountInput"}
            },
            "required": ["description", "sessions", "subtotal"]
        },
        "PreviewPricingRequest": {
            "type": "object",
            "properties": {
                "subtotal": {"type": "integer"},
                "discount_ids": {"type": "array", "items": {"type": "string"}},
                "custom_discount": {"$ref": "#/definitions/CustomDiscountInput"}
            },
            "required": ["subtotal"]
        },
        "CreateContractRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/LineItemInput"}}
            },
            "required": ["student_id", "items"]
        },
        "SettleRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "decision": {"type": "string", "enum": ["PAID", "BAD_DEBT"]},
                "note": {"type": "string"},
                "price_per_session": {"type": "integer"}
            },
            "required": ["student_id", "decision"]
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
