package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the front-end pages.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>rems-web Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Pages answer with JSON view models; 303 responses carry the navigation target in Location.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "rems-web", "version": "v0.1.0" },
  "components": {
    "securitySchemes": { "session": { "type": "apiKey", "in": "cookie", "name": "rems_sid" } }
  },
  "security": [ { "session": [] } ],
  "paths": {
    "/": {
      "get": {
        "summary": "Home page: property search",
        "parameters": [
          {"name":"search","in":"query","schema":{"type":"string"}},
          {"name":"minPrice","in":"query","schema":{"type":"number"}},
          {"name":"maxPrice","in":"query","schema":{"type":"number"}},
          {"name":"type","in":"query","schema":{"type":"string","enum":["rent","buy"]}}
        ],
        "responses": { "200": { "description": "home view model" } }
      }
    },
    "/auth/login": {
      "get": { "summary": "Login page", "responses": { "200": { "description": "login view model" }, "303": { "description": "already logged in, sent to dashboard" } } },
      "post": {
        "summary": "Log in and store the session",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "303": { "description": "redirect to the role dashboard" }, "401": { "description": "invalid credentials" }, "422": { "description": "field errors" }, "429": { "description": "rate limited" } }
      }
    },
    "/auth/register": {
      "get": { "summary": "Registration page", "responses": { "200": { "description": "register view model" } } },
      "post": {
        "summary": "Create an account",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"},"name":{"type":"string"},"role":{"type":"string","enum":["agent","client"]}}}}}},
        "responses": { "303": { "description": "redirect to login" }, "422": { "description": "field errors" } }
      }
    },
    "/auth/logout": {
      "post": { "summary": "Clear the session", "responses": { "303": { "description": "redirect home" } } }
    },
    "/properties/{id}": {
      "get": { "summary": "Property details", "responses": { "200": { "description": "property view model" } } }
    },
    "/properties/{id}/contact": {
      "post": { "summary": "Message the listing agent", "responses": { "200": { "description": "sent" }, "303": { "description": "login required" } } }
    },
    "/agent/dashboard": {
      "get": { "summary": "Agent listings", "responses": { "200": { "description": "agent dashboard view model" }, "303": { "description": "agents only" } } }
    },
    "/agent/properties": {
      "post": { "summary": "Create a listing", "responses": { "201": { "description": "created" }, "422": { "description": "field errors" } } }
    },
    "/agent/properties/{id}": {
      "put": { "summary": "Update a listing", "responses": { "200": { "description": "updated" } } },
      "delete": { "summary": "Delete a listing", "responses": { "200": { "description": "deleted" } } }
    },
    "/agent/upload": {
      "post": { "summary": "Upload listing images (multipart field files)", "responses": { "200": { "description": "stored image paths" }, "422": { "description": "rejected image" } } }
    },
    "/client/dashboard": {
      "get": { "summary": "Client dashboard", "responses": { "200": { "description": "client dashboard view model" }, "303": { "description": "clients only" } } }
    },
    "/favorites": {
      "get": { "summary": "Saved properties", "responses": { "200": { "description": "favorites view model" } } }
    },
    "/favorites/{propertyId}": {
      "post": { "summary": "Save a property", "responses": { "200": { "description": "saved" } } },
      "delete": { "summary": "Forget a property", "responses": { "200": { "description": "removed" } } }
    },
    "/profile": {
      "get": { "summary": "Account page", "responses": { "200": { "description": "profile view model" } } },
      "put": { "summary": "Update name and optional password", "responses": { "200": { "description": "updated" } } }
    },
    "/theme": {
      "post": { "summary": "Toggle light/dark theme", "responses": { "200": { "description": "new theme" } } }
    }
  }
}`
