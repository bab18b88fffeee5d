// Package docs serves the OpenAPI description of the API and a Swagger UI
// page that renders it.
package docs

import (
	_ "embed"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

// SiteTitle is the title of the Swagger UI page.
const SiteTitle = "Documentación REST API Go / Fiber / GORM"

// Spec decodes the embedded OpenAPI document.
func Spec() (map[string]any, error) {
	var spec map[string]any
	if err := yaml.Unmarshal(openAPIYAML, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	return spec, nil
}

// Handler serves the documentation routes.
type Handler struct {
	spec map[string]any
}

// NewHandler parses the OpenAPI document once.
func NewHandler() (*Handler, error) {
	spec, err := Spec()
	if err != nil {
		return nil, err
	}
	return &Handler{spec: spec}, nil
}

// RegisterRoutes mounts GET /docs and GET /docs/openapi.json.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Get("/docs", h.HandleUI)
	router.Get("/docs/openapi.json", h.HandleSpec)
}

// HandleSpec returns the OpenAPI document as JSON.
func (h *Handler) HandleSpec(c *fiber.Ctx) error {
	return c.JSON(h.spec)
}

// HandleUI returns the Swagger UI page.
func (h *Handler) HandleUI(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Type("html", "utf-8")
	return c.SendString(fmt.Sprintf(uiTemplate, SiteTitle))
}

const uiTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="utf-8" />
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({ url: "/docs/openapi.json", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`
