package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves a small Swagger UI page and the OpenAPI document.
// - GET /swagger/index.html
// - GET /swagger/doc.json
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>sitedash - Swagger</title>
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

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "Dashboard API", "version": "1.0.0" },
  "components": {
    "schemas": {
      "Content": {
        "type": "object",
        "required": ["header", "navbar", "footer"],
        "properties": {
          "header": { "type": "object", "properties": { "title": {"type":"string"}, "imageUrl": {"type":"string"} } },
          "navbar": { "type": "object", "properties": { "links": { "type": "array", "minItems": 3, "maxItems": 3, "items": { "type": "object", "properties": { "label": {"type":"string"}, "url": {"type":"string"} } } } } },
          "footer": { "type": "object", "properties": { "email": {"type":"string"}, "phone": {"type":"string"}, "address": {"type":"string"} } }
        }
      },
      "SaveOutcome": {
        "type": "object",
        "properties": { "success": {"type":"boolean"}, "message": {"type":"string"}, "modifiedCount": {"type":"integer"}, "upsertedCount": {"type":"integer"} }
      }
    }
  },
  "paths": {
    "/api/components": {
      "get": {
        "summary": "Get the dashboard content (created with defaults on first read)",
        "responses": { "200": { "description": "content document; X-Content-Source names the tier that answered", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Content" } } } }, "500": { "description": "store unavailable" } }
      },
      "post": {
        "summary": "Validate and save the dashboard content",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/Content" } } } },
        "responses": { "200": { "description": "saved", "content": { "application/json": { "schema": { "$ref": "#/components/schemas/SaveOutcome" } } } }, "400": { "description": "validation failed" }, "500": { "description": "store unavailable" } }
      }
    },
    "/api/media": {
      "post": {
        "summary": "Upload a header image (image/*, max 5MB)",
        "requestBody": { "content": { "multipart/form-data": { "schema": { "type": "object", "properties": { "file": { "type": "string", "format": "binary" } } } } } },
        "responses": { "200": { "description": "url and key of the stored image" }, "400": { "description": "not an image or too large" } }
      }
    },
    "/api/media/{key}": {
      "get": { "summary": "Fetch a stored image", "responses": { "200": { "description": "image bytes" }, "404": { "description": "not found" } } }
    },
    "/api/health": { "get": { "summary": "Database health check", "responses": { "200": { "description": "connected" }, "500": { "description": "disconnected" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
