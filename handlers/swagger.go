package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the registry.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
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
    <title>actadigital registry - Swagger</title>
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
  "info": { "title": "actadigital-registry", "version": "v0.1.0" },
  "paths": {
    "/api/fingerprints": {
      "post": { "summary": "Compute the SHA-256 fingerprint of content", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"content":{"type":"string"}}}}}}, "responses": { "200": { "description": "hash" } } }
    },
    "/api/documents": {
      "get": { "summary": "Registration history, most recent first", "responses": { "200": { "description": "records" }, "503": { "description": "storage unavailable" } } },
      "post": { "summary": "Register a document", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"owner":{"type":"string"},"content":{"type":"string"}}}}}}, "responses": { "201": { "description": "record and already_existed flag" }, "400": { "description": "invalid input" }, "503": { "description": "storage unavailable" } } }
    },
    "/api/documents/{hash}": {
      "get": { "summary": "Records registered under a fingerprint", "parameters": [{"name":"hash","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "records" }, "404": { "description": "not registered" } } }
    },
    "/api/documents/exists": {
      "post": { "summary": "Check whether content was registered", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"content":{"type":"string"}}}}}}, "responses": { "200": { "description": "exists flag" } } }
    },
    "/api/documents/verify": {
      "post": { "summary": "Compare content with a claimed fingerprint", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"content":{"type":"string"},"hash":{"type":"string"}}}}}}, "responses": { "200": { "description": "match flag and computed hash" } } }
    },
    "/api/votes": {
      "post": { "summary": "Cast a vote on a fingerprint", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"hash":{"type":"string"},"vote":{"type":"string","enum":["Sí","No"]}}}}}}, "responses": { "201": { "description": "recorded" }, "400": { "description": "invalid input" } } }
    },
    "/api/votes/tally": {
      "get": { "summary": "Vote tally, global or for one fingerprint", "parameters": [{"name":"hash","in":"query","required":false,"schema":{"type":"string"}}], "responses": { "200": { "description": "affirm and reject counts" } } }
    },
    "/api/admin/snapshots": {
      "post": { "summary": "Upload a snapshot of both ledgers to object storage", "responses": { "201": { "description": "snapshots" }, "503": { "description": "object storage unavailable" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
