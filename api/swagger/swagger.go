package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {"title": "Tutoring API", "description": "Tutoring administration: periods, groups, enrollments, semester progression and statistics.", "version": "1.0.0"},
    "basePath": "/api/v1",
    "schemes": ["http"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}},
    "tags": [{"name": "Authentication"}, {"name": "Users"}, {"name": "Periods"}, {"name": "Groups"}, {"name": "Enrollments"}, {"name": "Students"}, {"name": "Subjects"}, {"name": "Alerts"}, {"name": "Referrals"}, {"name": "Statistics"}, {"name": "Reports"}],
    "paths": {
        "/auth/login": {
            "post": {"tags": ["Authentication"], "summary": "Authenticate user", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/auth/refresh": {
            "post": {"tags": ["Authentication"], "summary": "Refresh access token", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/auth/logout": {
            "post": {"tags": ["Authentication"], "summary": "Revoke a refresh token", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}], "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/auth/me": {
            "get": {"tags": ["Authentication"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/users": {
            "get": {"tags": ["Users"], "summary": "List users", "security": [{"BearerAuth": []}], "parameters": [{"name": "page", "in": "query", "type": "integer", "required": false}, {"name": "page_size", "in": "query", "type": "integer", "required": false}, {"name": "role", "in": "query", "type": "string", "required": false}, {"name": "active", "in": "query", "type": "boolean", "required": false}, {"name": "search", "in": "query", "type": "string", "required": false}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Users"], "summary": "Create user", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/users/tutors": {
            "get": {"tags": ["Users"], "summary": "List active tutors", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/users/{id}": {
            "get": {"tags": ["Users"], "summary": "Get user", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Users"], "summary": "Update user", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Users"], "summary": "Deactivate user", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/periods": {
            "get": {"tags": ["Periods"], "summary": "List periods", "security": [{"BearerAuth": []}], "parameters": [{"name": "active", "in": "query", "type": "boolean", "required": false}, {"name": "search", "in": "query", "type": "string", "required": false}, {"name": "page", "in": "query", "type": "integer", "required": false}, {"name": "page_size", "in": "query", "type": "integer", "required": false}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Periods"], "summary": "Create period", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePeriodRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/periods/active": {
            "get": {"tags": ["Periods"], "summary": "Get the active period", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "412": {"description": "No active period", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/periods/{id}": {
            "get": {"tags": ["Periods"], "summary": "Get period", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Periods"], "summary": "Update period", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePeriodRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Periods"], "summary": "Delete period", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/periods/{id}/activate": {
            "put": {"tags": ["Periods"], "summary": "Activate period", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/periods/{id}/close": {
            "post": {"tags": ["Periods"], "summary": "Close period and open the next one", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClosePeriodRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "412": {"description": "No active period", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups": {
            "get": {"tags": ["Groups"], "summary": "List groups", "security": [{"BearerAuth": []}], "parameters": [{"name": "period_id", "in": "query", "type": "string", "required": false}, {"name": "program", "in": "query", "type": "string", "required": false}, {"name": "semester", "in": "query", "type": "integer", "required": false}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Groups"], "summary": "Create group", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateGroupRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "412": {"description": "No active period", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups/advance-semester": {
            "post": {"tags": ["Groups"], "summary": "Advance enrolled students one semester", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "412": {"description": "No active period", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups/clone": {
            "post": {"tags": ["Groups"], "summary": "Clone groups into another period", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CloneGroupsRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups/{id}": {
            "get": {"tags": ["Groups"], "summary": "Get group", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Groups"], "summary": "Update group", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateGroupRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Groups"], "summary": "Delete group", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups/{id}/tutor": {
            "put": {"tags": ["Groups"], "summary": "Set or clear the tutor", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignTutorRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups/{id}/students": {
            "get": {"tags": ["Enrollments"], "summary": "List enrolled students", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Enrollments"], "summary": "Enroll one or many students", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignStudentsRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "412": {"description": "No active period", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups/{id}/students/{studentId}": {
            "delete": {"tags": ["Enrollments"], "summary": "Remove a student from a group", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "studentId", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups/{id}/available-students": {
            "get": {"tags": ["Enrollments"], "summary": "Students without a group", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "all", "in": "query", "type": "boolean", "required": false}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups/{id}/statistics": {
            "get": {"tags": ["Statistics"], "summary": "Statistics of one group", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/groups/{id}/roster": {
            "get": {"tags": ["Reports"], "summary": "Download group roster", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "format", "in": "query", "type": "string", "required": false}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students": {
            "get": {"tags": ["Students"], "summary": "List students", "security": [{"BearerAuth": []}], "parameters": [{"name": "search", "in": "query", "type": "string", "required": false}, {"name": "program", "in": "query", "type": "string", "required": false}, {"name": "semester", "in": "query", "type": "integer", "required": false}, {"name": "page", "in": "query", "type": "integer", "required": false}, {"name": "page_size", "in": "query", "type": "integer", "required": false}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Students"], "summary": "Create student", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students/{id}": {
            "get": {"tags": ["Students"], "summary": "Get student", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Students"], "summary": "Update student", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStudentRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Students"], "summary": "Delete student", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students/{id}/group": {
            "put": {"tags": ["Enrollments"], "summary": "Move a student to another group", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangeGroupRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students/{id}/subjects": {
            "get": {"tags": ["Subjects"], "summary": "List subjects of a student", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "period_id", "in": "query", "type": "string", "required": false}, {"name": "semester", "in": "query", "type": "integer", "required": false}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Subjects"], "summary": "Assign subjects", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AssignSubjectsRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "412": {"description": "No active period", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students/{id}/subjects/{assignmentId}/grade": {
            "put": {"tags": ["Subjects"], "summary": "Record or clear a grade", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "assignmentId", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradeRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students/{id}/subjects/{assignmentId}": {
            "delete": {"tags": ["Subjects"], "summary": "Remove a subject", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "assignmentId", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/students/{id}/alerts": {
            "get": {"tags": ["Alerts"], "summary": "List alerts of a student", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/subjects": {
            "get": {"tags": ["Subjects"], "summary": "List subjects", "security": [{"BearerAuth": []}], "parameters": [{"name": "program", "in": "query", "type": "string", "required": false}, {"name": "semester", "in": "query", "type": "integer", "required": false}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Subjects"], "summary": "Create subject", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/subjects/{id}": {
            "get": {"tags": ["Subjects"], "summary": "Get subject", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Subjects"], "summary": "Update subject", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "delete": {"tags": ["Subjects"], "summary": "Delete subject", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}], "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/alerts": {
            "post": {"tags": ["Alerts"], "summary": "Raise an alert", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAlertRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/alerts/{id}/status": {
            "put": {"tags": ["Alerts"], "summary": "Update alert status", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/referrals": {
            "get": {"tags": ["Referrals"], "summary": "List referrals", "security": [{"BearerAuth": []}], "parameters": [{"name": "status", "in": "query", "type": "string", "required": false}, {"name": "area", "in": "query", "type": "string", "required": false}, {"name": "from", "in": "query", "type": "string", "required": false}, {"name": "to", "in": "query", "type": "string", "required": false}, {"name": "page", "in": "query", "type": "integer", "required": false}, {"name": "page_size", "in": "query", "type": "integer", "required": false}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Referrals"], "summary": "Refer a student", "security": [{"BearerAuth": []}], "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateReferralRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/referrals/report": {
            "get": {"tags": ["Reports"], "summary": "Download referral report", "security": [{"BearerAuth": []}], "parameters": [{"name": "format", "in": "query", "type": "string", "required": false}, {"name": "status", "in": "query", "type": "string", "required": false}, {"name": "area", "in": "query", "type": "string", "required": false}, {"name": "from", "in": "query", "type": "string", "required": false}, {"name": "to", "in": "query", "type": "string", "required": false}], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/referrals/{id}/status": {
            "put": {"tags": ["Referrals"], "summary": "Update referral status", "security": [{"BearerAuth": []}], "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StatusRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/statistics": {
            "get": {"tags": ["Statistics"], "summary": "Statistics of the active period", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        }
    },
    "definitions": {
        "LoginRequest": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}, "required": ["username", "password"]},
        "RefreshTokenRequest": {"type": "object", "properties": {"refresh_token": {"type": "string"}}, "required": ["refresh_token"]},
        "CreateUserRequest": {"type": "object", "properties": {"username": {"type": "string"}, "full_name": {"type": "string"}, "role": {"type": "string"}, "program": {"type": "string"}, "password": {"type": "string"}}, "required": ["username", "full_name", "password"]},
        "UpdateUserRequest": {"type": "object", "properties": {"full_name": {"type": "string"}, "role": {"type": "string"}, "program": {"type": "string"}, "active": {"type": "boolean"}, "password": {"type": "string"}}, "required": ["full_name"]},
        "CreatePeriodRequest": {"type": "object", "properties": {"name": {"type": "string"}, "start_date": {"type": "string", "format": "date"}, "end_date": {"type": "string", "format": "date"}, "activate": {"type": "boolean"}}, "required": ["name", "start_date", "end_date"]},
        "UpdatePeriodRequest": {"type": "object", "properties": {"name": {"type": "string"}, "start_date": {"type": "string", "format": "date"}, "end_date": {"type": "string", "format": "date"}}},
        "ClosePeriodRequest": {"type": "object", "properties": {"name": {"type": "string"}, "start_date": {"type": "string", "format": "date"}, "end_date": {"type": "string", "format": "date"}, "clone_group_ids": {"type": "array", "items": {"type": "string"}}}, "required": ["name", "start_date", "end_date"]},
        "CreateGroupRequest": {"type": "object", "properties": {"name": {"type": "string"}, "program": {"type": "string"}, "semester": {"type": "integer"}, "tutor_id": {"type": "string"}, "max_capacity": {"type": "integer"}}, "required": ["name", "program", "semester"]},
        "UpdateGroupRequest": {"type": "object", "properties": {"name": {"type": "string"}, "program": {"type": "string"}, "semester": {"type": "integer"}, "max_capacity": {"type": "integer"}}},
        "AssignTutorRequest": {"type": "object", "properties": {"tutor_id": {"type": "string"}}},
        "CloneGroupsRequest": {"type": "object", "properties": {"group_ids": {"type": "array", "items": {"type": "string"}}, "period_id": {"type": "string"}}, "required": ["group_ids", "period_id"]},
        "AssignStudentsRequest": {"type": "object", "properties": {"student_id": {"type": "string"}, "student_ids": {"type": "array", "items": {"type": "string"}}}},
        "ChangeGroupRequest": {"type": "object", "properties": {"group_id": {"type": "string"}}, "required": ["group_id"]},
        "CreateStudentRequest": {"type": "object", "properties": {"control_number": {"type": "string"}, "first_name": {"type": "string"}, "first_surname": {"type": "string"}, "second_surname": {"type": "string"}, "birth_date": {"type": "string", "format": "date"}, "program": {"type": "string"}, "current_semester": {"type": "integer"}}, "required": ["control_number", "first_name", "first_surname", "program"]},
        "UpdateStudentRequest": {"type": "object", "properties": {"control_number": {"type": "string"}, "first_name": {"type": "string"}, "first_surname": {"type": "string"}, "second_surname": {"type": "string"}, "birth_date": {"type": "string", "format": "date"}, "program": {"type": "string"}, "current_semester": {"type": "integer"}}, "required": ["control_number", "first_name", "first_surname", "program", "current_semester"]},
        "SubjectRequest": {"type": "object", "properties": {"name": {"type": "string"}, "program": {"type": "string"}, "semester": {"type": "integer"}}, "required": ["name", "program", "semester"]},
        "AssignSubjectsRequest": {"type": "object", "properties": {"subject_ids": {"type": "array", "items": {"type": "string"}}, "semester": {"type": "integer"}}, "required": ["subject_ids", "semester"]},
        "GradeRequest": {"type": "object", "properties": {"grade": {"type": "number", "x-nullable": true}}},
        "CreateAlertRequest": {"type": "object", "properties": {"student_id": {"type": "string"}, "type": {"type": "string", "enum": ["faltas_consecutivas", "materias_reprobadas", "riesgo_vital", "otro"]}, "description": {"type": "string"}, "absence_days": {"type": "integer"}, "failed_subjects": {"type": "integer"}, "alert_date": {"type": "string", "format": "date"}}, "required": ["student_id", "type"]},
        "CreateReferralRequest": {"type": "object", "properties": {"student_id": {"type": "string"}, "target_area": {"type": "string"}, "reason": {"type": "string"}, "notes": {"type": "string"}, "referral_date": {"type": "string", "format": "date"}}, "required": ["student_id", "target_area", "reason"]},
        "StatusRequest": {"type": "object", "properties": {"status": {"type": "string"}}, "required": ["status"]},
        "Pagination": {"type": "object", "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"}}},
        "APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}}},
        "ResponseEnvelope": {"type": "object", "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "pagination": {"$ref": "#/definitions/Pagination"}, "meta": {"type": "object"}}}
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
