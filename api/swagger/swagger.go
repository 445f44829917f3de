package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Performance Assessment API",
        "description": "Employee performance assessment workflow service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and token inspection"},
        {"name": "Assessments", "description": "Review cycles and the approval workflow"},
        {"name": "Employees", "description": "Organizational records and approver chains"},
        {"name": "Questions", "description": "Question bank management"},
        {"name": "Delegations", "description": "Time-bounded permission grants"},
        {"name": "Organization", "description": "Groups, positions, and teams settings"},
        {"name": "Users", "description": "Application account management"},
        {"name": "Reports", "description": "Assessment result exports"}
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
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
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current account",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assessments": {
            "get": {
                "tags": ["Assessments"],
                "summary": "List assessments",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"},
                    {"name": "employee_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Assessments"],
                "summary": "Create assessment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssessmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assessments/summary": {
            "get": {
                "tags": ["Assessments"],
                "summary": "Workflow status summary",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assessments/{id}": {
            "get": {
                "tags": ["Assessments"],
                "summary": "Get assessment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Assessments"],
                "summary": "Delete assessment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/assessments/{id}/decision": {
            "post": {
                "tags": ["Assessments"],
                "summary": "Approve or reject an assessment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApproveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Invalid transition or concurrent modification"},
                    "412": {"description": "Incomplete review"}
                }
            }
        },
        "/assessments/{id}/responses": {
            "get": {
                "tags": ["Assessments"],
                "summary": "List responses",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Assessments"],
                "summary": "Save responses",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveResponsesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees": {
            "get": {
                "tags": ["Employees"],
                "summary": "List employees",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"},
                    {"name": "group", "in": "query", "type": "string"},
                    {"name": "team", "in": "query", "type": "string"},
                    {"name": "position", "in": "query", "type": "string"},
                    {"name": "employee_type", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Employees"],
                "summary": "Create employee",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEmployeeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/stats": {
            "get": {
                "tags": ["Employees"],
                "summary": "Headcount summary",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/employees/{empCode}": {
            "get": {
                "tags": ["Employees"],
                "summary": "Get employee",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "empCode", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Employees"],
                "summary": "Update employee",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "empCode", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEmployeeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Employees"],
                "summary": "Delete employee",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "empCode", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/questions": {
            "get": {
                "tags": ["Questions"],
                "summary": "List questions",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "applicable_level", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Questions"],
                "summary": "Create question",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateQuestionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/questions/reorder": {
            "post": {
                "tags": ["Questions"],
                "summary": "Reorder questions",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReorderQuestionsRequest"}}
                ],
                "responses": {
                    "204": {"description": "Reordered"}
                }
            }
        },
        "/delegations": {
            "get": {
                "tags": ["Delegations"],
                "summary": "List delegations",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "delegatee_id", "in": "query", "type": "string"},
                    {"name": "permission", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "offset", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Delegations"],
                "summary": "Create delegation",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDelegationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Admin only"}
                }
            }
        },
        "/delegations/check": {
            "get": {
                "tags": ["Delegations"],
                "summary": "Check a permission for the caller",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "permission", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Generate report",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Requires VIEW_REPORTS"}
                }
            }
        },
        "/reports/download": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download report",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "CreateAssessmentRequest": {
            "type": "object",
            "required": ["title", "category", "employeeId", "assessorId", "periodStart", "periodEnd", "dueDate"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string", "enum": ["Annual", "Mid-year", "Probation", "Special"]},
                "employeeId": {"type": "string"},
                "assessorId": {"type": "string"},
                "periodStart": {"type": "string"},
                "periodEnd": {"type": "string"},
                "dueDate": {"type": "string"}
            }
        },
        "ApproveRequest": {
            "type": "object",
            "required": ["action", "role"],
            "properties": {
                "action": {"type": "string", "enum": ["approve", "reject"]},
                "role": {"type": "string", "enum": ["self", "manager", "approver2", "approver3", "gm"]}
            }
        },
        "SaveResponsesRequest": {
            "type": "object",
            "required": ["role", "items"],
            "properties": {
                "role": {"type": "string"},
                "items": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "questionId": {"type": "string"},
                            "score": {"type": "number"},
                            "comment": {"type": "string"}
                        }
                    }
                }
            }
        },
        "CreateEmployeeRequest": {
            "type": "object",
            "required": ["empCode", "empNameEng", "position", "group", "assessmentLevel", "employeeType", "approver1Id", "gmId", "joinDate"],
            "properties": {
                "empCode": {"type": "string"},
                "empNameEng": {"type": "string"},
                "empNameThai": {"type": "string"},
                "email": {"type": "string"},
                "position": {"type": "string"},
                "group": {"type": "string"},
                "team": {"type": "string"},
                "assessmentLevel": {"type": "string"},
                "employeeType": {"type": "string", "enum": ["Permanent", "Temporary"]},
                "approver1Id": {"type": "string"},
                "approver2Id": {"type": "string"},
                "approver3Id": {"type": "string"},
                "gmId": {"type": "string"},
                "joinDate": {"type": "string"}
            }
        },
        "UpdateEmployeeRequest": {
            "type": "object",
            "properties": {
                "empNameEng": {"type": "string"},
                "position": {"type": "string"},
                "group": {"type": "string"},
                "warningCount": {"type": "integer"}
            }
        },
        "CreateQuestionRequest": {
            "type": "object",
            "required": ["category", "question", "weight"],
            "properties": {
                "category": {"type": "string"},
                "question": {"type": "string"},
                "description": {"type": "string"},
                "weight": {"type": "number"},
                "applicableLevel": {"type": "string"},
                "isActive": {"type": "boolean"}
            }
        },
        "ReorderQuestionsRequest": {
            "type": "object",
            "required": ["ids"],
            "properties": {
                "ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CreateDelegationRequest": {
            "type": "object",
            "required": ["delegateeId", "permission", "startDate", "endDate"],
            "properties": {
                "delegateeId": {"type": "string"},
                "permission": {"type": "string", "enum": ["MANAGE_EMPLOYEES", "MANAGE_ASSESSMENTS", "VIEW_REPORTS", "MANAGE_QUESTIONS"]},
                "startDate": {"type": "string"},
                "endDate": {"type": "string"},
                "reason": {"type": "string"}
            }
        },
        "ReportRequest": {
            "type": "object",
            "required": ["format"],
            "properties": {
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "category": {"type": "string"},
                "group": {"type": "string"}
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
