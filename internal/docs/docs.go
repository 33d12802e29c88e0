// Package docs holds the generated swagger specification.
// Regenerate with: swag init -g cmd/api/main.go -o internal/docs
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
        "/link/token": {
            "post": {
                "produces": ["application/json"],
                "tags": ["link"],
                "summary": "Create a Link token",
                "responses": {
                    "200": {"description": "Link token"},
                    "503": {"description": "Provider unavailable"}
                }
            }
        },
        "/link/exchange": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["link"],
                "summary": "Exchange a public token",
                "responses": {
                    "201": {"description": "Linked item"},
                    "400": {"description": "Invalid input"},
                    "503": {"description": "Provider unavailable"}
                }
            }
        },
        "/link/items": {
            "get": {
                "produces": ["application/json"],
                "tags": ["link"],
                "summary": "Get linked items",
                "responses": {
                    "200": {"description": "Linked items"},
                    "500": {"description": "Server error"}
                }
            }
        },
        "/sync": {
            "post": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Trigger a sync cycle",
                "responses": {
                    "200": {"description": "Cycle result"},
                    "409": {"description": "Sync already in progress"}
                }
            }
        },
        "/sync/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Get sync status",
                "responses": {
                    "200": {"description": "Last cycle result"},
                    "404": {"description": "No cycle has run yet"}
                }
            }
        },
        "/accounts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Get accounts",
                "responses": {
                    "200": {"description": "Paginated accounts"},
                    "500": {"description": "Server error"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Create a manual account",
                "responses": {
                    "201": {"description": "Account created"},
                    "400": {"description": "Invalid input"}
                }
            }
        },
        "/accounts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Get an account",
                "responses": {
                    "200": {"description": "Account"},
                    "404": {"description": "Account not found"}
                }
            },
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Update an account",
                "responses": {
                    "200": {"description": "Updated account"},
                    "404": {"description": "Account not found"}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Delete an account",
                "responses": {
                    "204": {"description": "Account deleted"},
                    "404": {"description": "Account not found"}
                }
            }
        },
        "/transactions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Get transactions",
                "responses": {
                    "200": {"description": "Paginated transactions"},
                    "400": {"description": "Invalid input"}
                }
            }
        },
        "/transactions/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["transactions"],
                "summary": "Get a transaction",
                "responses": {
                    "200": {"description": "Transaction"},
                    "404": {"description": "Transaction not found"}
                }
            }
        },
        "/portfolio/overview": {
            "get": {
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "Get portfolio overview",
                "responses": {
                    "200": {"description": "Portfolio overview"},
                    "500": {"description": "Server error"}
                }
            }
        },
        "/budget/summary": {
            "get": {
                "produces": ["application/json"],
                "tags": ["budget"],
                "summary": "Get budget summary",
                "responses": {
                    "200": {"description": "Budget summary"},
                    "400": {"description": "Invalid input"}
                }
            }
        },
        "/profile": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Get profile",
                "responses": {
                    "200": {"description": "Profile"},
                    "500": {"description": "Server error"}
                }
            }
        },
        "/profile/salary": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Update salary",
                "responses": {
                    "200": {"description": "Updated profile"},
                    "400": {"description": "Invalid input"}
                }
            }
        },
        "/profile/expenses": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Get recurring expenses",
                "responses": {
                    "200": {"description": "Paginated expenses"},
                    "500": {"description": "Server error"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Create a recurring expense",
                "responses": {
                    "201": {"description": "Expense created"},
                    "400": {"description": "Invalid input"}
                }
            }
        },
        "/profile/expenses/{id}": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Update a recurring expense",
                "responses": {
                    "200": {"description": "Updated expense"},
                    "404": {"description": "Expense not found"}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Delete a recurring expense",
                "responses": {
                    "204": {"description": "Expense deleted"},
                    "404": {"description": "Expense not found"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "finsmar API",
	Description:      "finsmar is a personal finance aggregator that syncs accounts, transactions, and portfolio data across Plaid, Robinhood, and Coinbase into one local view.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
