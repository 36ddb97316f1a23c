package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "TEAR API",
        "description": "Daily mood and trait tracking for autistic patients, caregivers and therapists",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, registration and token refresh"},
        {"name": "Traits", "description": "Trait lifecycle and the daily tracking view"},
        {"name": "Tracking", "description": "Daily intensity entries"},
        {"name": "PatientData", "description": "Weekly history, averages, completion and exports"},
        {"name": "Patients", "description": "Relationship lookups and profile edits"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate an account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/registerPaciente": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a patient",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterPacienteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/registerTerapeuta": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a therapist",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterTerapeutaRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/registerCuidador": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a caregiver",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterCuidadorRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation or conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh the access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Expired or invalid token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Log out, revoking the account's refresh tokens",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/traits/daily-tracking/{patientId}": {
            "get": {
                "tags": ["Traits"],
                "summary": "Daily tracking view",
                "parameters": [
                    {"name": "patientId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/traits/{patientId}": {
            "post": {
                "tags": ["Traits"],
                "summary": "Create a trait",
                "parameters": [
                    {"name": "patientId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTraitRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/traits/{id}": {
            "delete": {
                "tags": ["Traits"],
                "summary": "Delete a trait and its entries",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/tracking/{traitId}": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Record a tracking entry",
                "parameters": [
                    {"name": "traitId", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TrackRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Intensity out of range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patient-data/weekly-history/{traitId}": {
            "get": {
                "tags": ["PatientData"],
                "summary": "Weekly history for a trait",
                "parameters": [
                    {"name": "traitId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patient-data/therapist-weekly-history/{traitId}/{patientId}": {
            "get": {
                "tags": ["PatientData"],
                "summary": "Weekly history, therapist route",
                "parameters": [
                    {"name": "traitId", "in": "path", "required": true, "type": "integer"},
                    {"name": "patientId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patient-data/average-intensity/{patientId}": {
            "get": {
                "tags": ["PatientData"],
                "summary": "Average intensity over the trailing week",
                "parameters": [
                    {"name": "patientId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patient-data/therapist-average-intensity/{therapistId}": {
            "get": {
                "tags": ["PatientData"],
                "summary": "Average intensity across a therapist's patients",
                "parameters": [
                    {"name": "therapistId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patient-data/completion/{patientId}": {
            "get": {
                "tags": ["PatientData"],
                "summary": "Today's completion percentage",
                "parameters": [
                    {"name": "patientId", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/patient-data/export/{patientId}": {
            "get": {
                "tags": ["PatientData"],
                "summary": "Export the weekly report",
                "parameters": [
                    {"name": "patientId", "in": "path", "required": true, "type": "integer"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "Report file"}
                }
            }
        },
        "/pacientes/porTerapeuta/{id}": {
            "get": {
                "tags": ["Patients"],
                "summary": "Patients of a therapist",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pacientes/por-cuidador/{id}": {
            "get": {
                "tags": ["Patients"],
                "summary": "Patients of a caregiver",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pacientes/info_cuidador/{id}": {
            "get": {
                "tags": ["Patients"],
                "summary": "Caregiver of a patient",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No caregiver linked", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pacientes/{id}": {
            "put": {
                "tags": ["Patients"],
                "summary": "Edit a patient profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terapeutas/{id}": {
            "put": {
                "tags": ["Patients"],
                "summary": "Edit a therapist profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cuidadores/{id}": {
            "put": {
                "tags": ["Patients"],
                "summary": "Edit a caregiver profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateProfileRequest"}}
                ],
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
                "senha": {"type": "string"}
            },
            "required": ["email", "senha"]
        },
        "RegisterPacienteRequest": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "email": {"type": "string"},
                "senha": {"type": "string"},
                "cpf": {"type": "string"},
                "telefone": {"type": "string"},
                "sexo": {"type": "string"},
                "data_nascimento": {"type": "string", "format": "date"},
                "email_terapeuta": {"type": "string"},
                "email_cuidador": {"type": "string"}
            },
            "required": ["nome", "email", "senha", "data_nascimento"]
        },
        "RegisterTerapeutaRequest": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "email": {"type": "string"},
                "senha": {"type": "string"},
                "cpf": {"type": "string"},
                "crp": {"type": "string"},
                "telefone": {"type": "string"},
                "sexo": {"type": "string"},
                "data_nascimento": {"type": "string", "format": "date"}
            },
            "required": ["nome", "email", "senha", "cpf", "crp", "data_nascimento"]
        },
        "RegisterCuidadorRequest": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "email": {"type": "string"},
                "senha": {"type": "string"},
                "cpf": {"type": "string"},
                "telefone": {"type": "string"},
                "sexo": {"type": "string"},
                "data_nascimento": {"type": "string", "format": "date"}
            },
            "required": ["nome", "email", "senha", "data_nascimento"]
        },
        "RefreshRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CreateTraitRequest": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "descricao": {"type": "string"}
            },
            "required": ["nome"]
        },
        "TrackRequest": {
            "type": "object",
            "properties": {
                "intensidade": {"type": "integer", "minimum": 1, "maximum": 5},
                "descricao": {"type": "string"},
                "dia_de_registro": {"type": "string", "format": "date"}
            },
            "required": ["intensidade"]
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "email": {"type": "string"},
                "cpf": {"type": "string"},
                "telefone": {"type": "string"},
                "sexo": {"type": "string"},
                "data_nascimento": {"type": "string", "format": "date"}
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
                "error": {"$ref": "#/definitions/APIError"}
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
