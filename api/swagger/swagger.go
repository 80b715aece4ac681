package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Scholar Array API",
        "description": "Grade and attendance aggregation for the student dashboard",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Students", "description": "Student records and bulk import"},
        {"name": "Classes", "description": "Class records and roster statistics"},
        {"name": "Assignments", "description": "Gradable work per class"},
        {"name": "Grades", "description": "Scores with derived percentage and letter"},
        {"name": "Attendance", "description": "Daily attendance marks and rates"},
        {"name": "Dashboard", "description": "Cached overview aggregates"},
        {"name": "Exports", "description": "CSV, XLSX and PDF downloads"}
    ],
    "paths": {
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["active", "inactive"]},
                    {"name": "grade_level", "in": "query", "type": "integer"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/import": {
            "post": {
                "tags": ["Students"],
                "summary": "Import students from an XLSX workbook",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "200": {"description": "All rows imported"},
                    "207": {"description": "Some rows failed"}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/students/{id}/status": {
            "patch": {
                "tags": ["Students"],
                "summary": "Set student status",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students/{id}/average": {
            "get": {
                "tags": ["Grades"],
                "summary": "Average percentage for a student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students/{id}/attendance-rate": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Attendance rate for a student",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "class_id", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students/{id}/attendance-summary": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Attendance counts by status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "class_id", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/AttendanceSummary"}}}
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes",
                "parameters": [
                    {"name": "semester", "in": "query", "type": "string", "enum": ["Fall", "Spring", "Summer"]},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassRequest"}}
                ],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid input"}}
            }
        },
        "/classes/{id}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Get class",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Classes"],
                "summary": "Update class",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete class",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/classes/{id}/stats": {
            "get": {
                "tags": ["Classes"],
                "summary": "Roster size, average and assignment count",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ClassStats"}}}
            }
        },
        "/classes/{id}/average": {
            "get": {
                "tags": ["Grades"],
                "summary": "Average percentage for a class",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignments",
                "parameters": [{"name": "class_id", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Create assignment",
                "responses": {"201": {"description": "Created"}, "404": {"description": "Class not found"}}
            }
        },
        "/assignments/{id}": {
            "get": {
                "tags": ["Assignments"],
                "summary": "Get assignment",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Assignments"],
                "summary": "Update assignment",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Assignments"],
                "summary": "Delete assignment",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/grades": {
            "get": {
                "tags": ["Grades"],
                "summary": "List grades",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "integer"},
                    {"name": "class_id", "in": "query", "type": "integer"},
                    {"name": "assignment_id", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Grades"],
                "summary": "Record grade",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateGradeRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Grade"}}, "400": {"description": "Invalid input"}}
            }
        },
        "/grades/{id}": {
            "get": {
                "tags": ["Grades"],
                "summary": "Get grade",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "put": {
                "tags": ["Grades"],
                "summary": "Update grade",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Grades"],
                "summary": "Delete grade",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance records",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "integer"},
                    {"name": "class_id", "in": "query", "type": "integer"},
                    {"name": "date", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/attendance/mark": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark attendance for one student, class and day",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkAttendanceRequest"}}
                ],
                "responses": {"200": {"description": "Existing record overwritten"}, "201": {"description": "Record created"}}
            }
        },
        "/attendance/mark-all-present": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Mark a list of students present",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MarkAllPresentRequest"}}
                ],
                "responses": {"200": {"description": "All marked"}, "207": {"description": "Some marks failed"}}
            }
        },
        "/attendance/{id}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Get attendance record",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Attendance"],
                "summary": "Delete attendance record",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard overview",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardOverview"}}}
            }
        },
        "/exports/grades": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export grades",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "xlsx", "pdf"]},
                    {"name": "class_id", "in": "query", "type": "integer"},
                    {"name": "student_id", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/exports/attendance": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export one class day of attendance",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "xlsx", "pdf"]},
                    {"name": "class_id", "in": "query", "required": true, "type": "integer"},
                    {"name": "date", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "File"}}
            }
        }
    },
    "definitions": {
        "CreateStudentRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "grade_level": {"type": "integer", "minimum": 9, "maximum": 12},
                "date_of_birth": {"type": "string", "format": "date"},
                "enrollment_date": {"type": "string", "format": "date"}
            },
            "required": ["first_name", "last_name", "email", "grade_level"]
        },
        "ClassRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "subject": {"type": "string"},
                "period": {"type": "string"},
                "room": {"type": "string"},
                "year": {"type": "integer"},
                "semester": {"type": "string", "enum": ["Fall", "Spring", "Summer"]}
            },
            "required": ["name", "subject", "year", "semester"]
        },
        "ClassStats": {
            "type": "object",
            "properties": {
                "class_id": {"type": "integer"},
                "student_count": {"type": "integer"},
                "average_grade": {"type": "number"},
                "letter_grade": {"type": "string"},
                "assignment_count": {"type": "integer"}
            }
        },
        "CreateGradeRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "integer"},
                "class_id": {"type": "integer"},
                "assignment_id": {"type": "integer"},
                "score": {"type": "number", "minimum": 0},
                "max_score": {"type": "number"},
                "date_recorded": {"type": "string", "format": "date"}
            },
            "required": ["student_id", "class_id", "score"]
        },
        "Grade": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "student_id": {"type": "integer"},
                "class_id": {"type": "integer"},
                "assignment_id": {"type": "integer"},
                "score": {"type": "number"},
                "max_score": {"type": "number"},
                "percentage": {"type": "integer"},
                "letter_grade": {"type": "string"},
                "date_recorded": {"type": "string", "format": "date"}
            }
        },
        "MarkAttendanceRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "integer"},
                "class_id": {"type": "integer"},
                "date": {"type": "string", "format": "date"},
                "status": {"type": "string", "enum": ["present", "absent", "late", "excused"]},
                "notes": {"type": "string"}
            },
            "required": ["student_id", "class_id", "date", "status"]
        },
        "MarkAllPresentRequest": {
            "type": "object",
            "properties": {
                "student_ids": {"type": "array", "items": {"type": "integer"}},
                "class_id": {"type": "integer"},
                "date": {"type": "string", "format": "date"}
            },
            "required": ["student_ids", "class_id", "date"]
        },
        "AttendanceSummary": {
            "type": "object",
            "properties": {
                "present": {"type": "integer"},
                "absent": {"type": "integer"},
                "late": {"type": "integer"},
                "excused": {"type": "integer"},
                "total": {"type": "integer"},
                "rate": {"type": "number"}
            }
        },
        "DashboardOverview": {
            "type": "object",
            "properties": {
                "total_students": {"type": "integer"},
                "active_students": {"type": "integer"},
                "total_classes": {"type": "integer"},
                "average_grade": {"type": "integer"},
                "attendance_rate": {"type": "integer"},
                "attendance": {"$ref": "#/definitions/AttendanceSummary"},
                "recent_grades": {"type": "array", "items": {"$ref": "#/definitions/Grade"}},
                "top_students": {"type": "array", "items": {"type": "object"}},
                "generated_at": {"type": "string", "format": "date-time"}
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
