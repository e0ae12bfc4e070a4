package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Academic Scheduler API",
        "description": "Academic periods, schedule reconciliation, preference windows and publication.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Periods",
            "description": "Academic year and semester registry"
        },
        {
            "name": "Schedules",
            "description": "Reconciliation and assignment"
        },
        {
            "name": "Preferences",
            "description": "Preference windows and submissions"
        },
        {
            "name": "Publications",
            "description": "Schedule publication"
        },
        {
            "name": "Views",
            "description": "Published schedules"
        },
        {
            "name": "Sections",
            "description": "Sections and curricula"
        }
    ],
    "paths": {
        "/system/metrics": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "Process counters for operators",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/periods": {
            "get": {
                "tags": [
                    "Periods"
                ],
                "summary": "List academic years with their semesters",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Periods"
                ],
                "summary": "Create an academic year",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/CreatePeriodRequest"
                        }
                    }
                ]
            }
        },
        "/periods/active": {
            "get": {
                "tags": [
                    "Periods"
                ],
                "summary": "Get the active academic period",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/periods/activate": {
            "post": {
                "tags": [
                    "Periods"
                ],
                "summary": "Switch the active academic year and semester",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/ActivatePeriodRequest"
                        }
                    }
                ]
            }
        },
        "/periods/{academicYearId}": {
            "delete": {
                "tags": [
                    "Periods"
                ],
                "summary": "Delete an academic year without live schedules",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "academicYearId",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/schedules/tree": {
            "post": {
                "tags": [
                    "Schedules"
                ],
                "summary": "Reconcile offerings and return the schedule tree",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/schedules/{scheduleId}": {
            "get": {
                "tags": [
                    "Schedules"
                ],
                "summary": "Get a schedule",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "scheduleId",
                        "required": true,
                        "type": "integer"
                    }
                ]
            },
            "put": {
                "tags": [
                    "Schedules"
                ],
                "summary": "Overwrite the placement of a schedule",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "scheduleId",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AssignScheduleRequest"
                        }
                    }
                ]
            }
        },
        "/schedules/{scheduleId}/suggestions": {
            "get": {
                "tags": [
                    "Schedules"
                ],
                "summary": "Rank faculty for a schedule",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "scheduleId",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/section-courses/{sectionCourseId}/duplicate": {
            "post": {
                "tags": [
                    "Schedules"
                ],
                "summary": "Copy a section course",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "sectionCourseId",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/section-courses/{sectionCourseId}": {
            "delete": {
                "tags": [
                    "Schedules"
                ],
                "summary": "Remove a copied section course",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "sectionCourseId",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/preferences/window": {
            "put": {
                "tags": [
                    "Preferences"
                ],
                "summary": "Configure the global preference window",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/WindowRequest"
                        }
                    }
                ]
            }
        },
        "/preferences/window/{facultyId}": {
            "put": {
                "tags": [
                    "Preferences"
                ],
                "summary": "Configure one faculty preference window",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "facultyId",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/WindowRequest"
                        }
                    }
                ]
            }
        },
        "/faculty/{facultyId}/preferences": {
            "get": {
                "tags": [
                    "Preferences"
                ],
                "summary": "List preferences of a faculty",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "facultyId",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/me/preferences/window": {
            "get": {
                "tags": [
                    "Preferences"
                ],
                "summary": "Get the caller's preference window",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/me/preferences": {
            "get": {
                "tags": [
                    "Preferences"
                ],
                "summary": "List the caller's preferences",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "post": {
                "tags": [
                    "Preferences"
                ],
                "summary": "Submit a course preference",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SubmitPreferencesRequest"
                        }
                    }
                ]
            },
            "delete": {
                "tags": [
                    "Preferences"
                ],
                "summary": "Delete every preference of the caller",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/me/preferences/{preferenceId}": {
            "delete": {
                "tags": [
                    "Preferences"
                ],
                "summary": "Delete one preference",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "preferenceId",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/me/preferences/request": {
            "post": {
                "tags": [
                    "Preferences"
                ],
                "summary": "Request preference access",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            },
            "delete": {
                "tags": [
                    "Preferences"
                ],
                "summary": "Withdraw the access request",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/publications": {
            "get": {
                "tags": [
                    "Publications"
                ],
                "summary": "List publication flags",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                }
            }
        },
        "/publications/toggle": {
            "post": {
                "tags": [
                    "Publications"
                ],
                "summary": "Publish or unpublish every schedule",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/TogglePublicationRequest"
                        }
                    }
                ]
            }
        },
        "/publications/{facultyId}/toggle": {
            "post": {
                "tags": [
                    "Publications"
                ],
                "summary": "Publish or unpublish one faculty schedule",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "facultyId",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/TogglePublicationRequest"
                        }
                    }
                ]
            }
        },
        "/views/faculty/{facultyId}": {
            "get": {
                "tags": [
                    "Views"
                ],
                "summary": "Published schedule of a faculty",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "facultyId",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/views/rooms/{roomId}": {
            "get": {
                "tags": [
                    "Views"
                ],
                "summary": "Published schedule of a room",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "roomId",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/views/programs/{programId}": {
            "get": {
                "tags": [
                    "Views"
                ],
                "summary": "Published schedule of a program",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "programId",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "in": "query",
                        "name": "year_level",
                        "required": false,
                        "type": "integer"
                    }
                ]
            }
        },
        "/sections": {
            "get": {
                "tags": [
                    "Sections"
                ],
                "summary": "List sections of a program year level",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "query",
                        "name": "program_id",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "in": "query",
                        "name": "year_level",
                        "required": false,
                        "type": "integer"
                    }
                ]
            },
            "post": {
                "tags": [
                    "Sections"
                ],
                "summary": "Add a section",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/AddSectionRequest"
                        }
                    }
                ]
            }
        },
        "/sections/curriculum": {
            "put": {
                "tags": [
                    "Sections"
                ],
                "summary": "Switch the curriculum of a year level",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/SwitchCurriculumRequest"
                        }
                    }
                ]
            }
        },
        "/sections/{sectionId}": {
            "delete": {
                "tags": [
                    "Sections"
                ],
                "summary": "Remove a section",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "sectionId",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        },
        "/programs/{programId}": {
            "delete": {
                "tags": [
                    "Sections"
                ],
                "summary": "Delete a program",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "default": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/ResponseEnvelope"
                        }
                    }
                },
                "parameters": [
                    {
                        "in": "path",
                        "name": "programId",
                        "required": true,
                        "type": "integer"
                    }
                ]
            }
        }
    },
    "definitions": {
        "CreatePeriodRequest": {
            "type": "object",
            "properties": {
                "year_start": {
                    "type": "integer"
                },
                "year_end": {
                    "type": "integer"
                }
            },
            "required": [
                "year_start",
                "year_end"
            ]
        },
        "ActivatePeriodRequest": {
            "type": "object",
            "properties": {
                "academic_year_id": {
                    "type": "integer"
                },
                "semester_id": {
                    "type": "integer"
                },
                "start_date": {
                    "type": "string",
                    "format": "date"
                },
                "end_date": {
                    "type": "string",
                    "format": "date"
                }
            },
            "required": [
                "academic_year_id",
                "semester_id",
                "start_date",
                "end_date"
            ]
        },
        "AssignScheduleRequest": {
            "type": "object",
            "properties": {
                "faculty_id": {
                    "type": "integer"
                },
                "room_id": {
                    "type": "integer"
                },
                "day": {
                    "type": "string"
                },
                "start_time": {
                    "type": "string"
                },
                "end_time": {
                    "type": "string"
                }
            }
        },
        "WindowRequest": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "boolean"
                },
                "deadline": {
                    "type": "string",
                    "format": "date"
                },
                "start_date": {
                    "type": "string",
                    "format": "date"
                },
                "send_email": {
                    "type": "boolean"
                }
            }
        },
        "PreferenceDayInput": {
            "type": "object",
            "properties": {
                "preferred_day": {
                    "type": "string"
                },
                "preferred_start_time": {
                    "type": "string"
                },
                "preferred_end_time": {
                    "type": "string"
                }
            },
            "required": [
                "preferred_day",
                "preferred_start_time",
                "preferred_end_time"
            ]
        },
        "SubmitPreferencesRequest": {
            "type": "object",
            "properties": {
                "course_assignment_id": {
                    "type": "integer"
                },
                "days": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/PreferenceDayInput"
                    }
                }
            },
            "required": [
                "course_assignment_id",
                "days"
            ]
        },
        "TogglePublicationRequest": {
            "type": "object",
            "properties": {
                "is_published": {
                    "type": "boolean"
                }
            },
            "required": [
                "is_published"
            ]
        },
        "AddSectionRequest": {
            "type": "object",
            "properties": {
                "program_id": {
                    "type": "integer"
                },
                "year_level": {
                    "type": "integer"
                }
            },
            "required": [
                "program_id",
                "year_level"
            ]
        },
        "SwitchCurriculumRequest": {
            "type": "object",
            "properties": {
                "program_id": {
                    "type": "integer"
                },
                "year_level": {
                    "type": "integer"
                },
                "curriculum_id": {
                    "type": "integer"
                }
            },
            "required": [
                "program_id",
                "year_level",
                "curriculum_id"
            ]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "status": {
                    "type": "integer"
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {
                    "type": "object"
                },
                "error": {
                    "$ref": "#/definitions/APIError"
                },
                "meta": {
                    "type": "object"
                }
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
