package handlers

import (
	"errors"

	"productsapi/internal/errs"
	"productsapi/internal/models"
	"productsapi/internal/repositories"
	"productsapi/internal/services"
	"productsapi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// MsgProductDeleted is the body of a successful delete.
const MsgProductDeleted = "Producto Eliminado..."

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	// protect guards mutating routes; nil leaves them public.
	protect fiber.Handler
}

// NewProductHandler creates a new ProductHandler. protect may be nil.
func NewProductHandler(service *services.ProductService, protect fiber.Handler) *ProductHandler {
	return &ProductHandler{
		service: service,
		protect: protect,
	}
}

// RegisterRoutes registers the product routes under /products. Each route
// runs its param rules, then its body rules, then the handler.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Get("/", h.HandleGetProducts)
	products.Get("/:id",
		validation.ParamGuard(validation.IDRules()...),
		h.HandleGetProductByID)
	products.Post("/", h.mutating(
		validation.Guard(validation.CreateProductRules()...),
		h.HandleCreateProduct)...)
	products.Put("/:id", h.mutating(
		validation.Guard(validation.Chain(validation.IDRules(), validation.UpdateProductRules())...),
		h.HandleUpdateProduct)...)
	products.Patch("/:id", h.mutating(
		validation.ParamGuard(validation.IDRules()...),
		h.HandleUpdateAvailability)...)
	products.Delete("/:id", h.mutating(
		validation.ParamGuard(validation.IDRules()...),
		h.HandleDeleteProduct)...)
}

func (h *ProductHandler) mutating(chain ...fiber.Handler) []fiber.Handler {
	if h.protect == nil {
		return chain
	}
	return append([]fiber.Handler{h.protect}, chain...)
}

// HandleGetProducts lists every product, newest first.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": products})
}

// HandleGetProductByID returns one product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	in := validation.InputFrom(c)
	product, err := h.service.GetProductByID(c.UserContext(), in.ProductID())
	if err != nil {
		return notFoundOr(err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleCreateProduct creates a product from the request body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	in := validation.InputFrom(c)
	product := models.NewProduct(in.Name(), in.Price())
	if availability, ok := in.Availability(); ok {
		product.Availability = availability
	}

	if err := h.service.CreateProduct(c.UserContext(), product); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": product})
}

// HandleUpdateProduct replaces name, price and availability. The response
// carries the persisted state.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	in := validation.InputFrom(c)
	availability, _ := in.Availability()
	product, err := h.service.UpdateProduct(c.UserContext(), in.ProductID(), services.ProductChanges{
		Name:         in.Name(),
		Price:        in.Price(),
		Availability: availability,
	})
	if err != nil {
		return notFoundOr(err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleUpdateAvailability flips the availability of a product.
func (h *ProductHandler) HandleUpdateAvailability(c *fiber.Ctx) error {
	in := validation.InputFrom(c)
	product, err := h.service.ToggleAvailability(c.UserContext(), in.ProductID())
	if err != nil {
		return notFoundOr(err)
	}
	return c.JSON(fiber.Map{"data": product})
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	in := validation.InputFrom(c)
	if err := h.service.DeleteProduct(c.UserContext(), in.ProductID()); err != nil {
		return notFoundOr(err)
	}
	return c.JSON(fiber.Map{"data": MsgProductDeleted})
}

// notFoundOr maps a missing product to a 404 and passes other errors on
// to the global error handler.
func notFoundOr(err error) error {
	if errors.Is(err, repositories.ErrProductNotFound) {
		return errs.NewNotFoundError(errs.MsgProductNotFound)
	}
	return err
}
