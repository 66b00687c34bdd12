package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"kasir/internal/apperrors"
	"kasir/internal/models"
	"kasir/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Pagination response headers of GET /product.
const (
	HeaderPage       = "X-Page"
	HeaderLimit      = "X-Limit"
	HeaderTotalPages = "X-Total-Pages"
	HeaderTotalCount = "X-Total-Count"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service      *services.ProductService
	defaultLimit int
}

// NewProductHandler creates a new ProductHandler. defaultLimit is the page
// size used when a request does not ask for one.
func NewProductHandler(service *services.ProductService, defaultLimit int) *ProductHandler {
	if defaultLimit < 1 {
		defaultLimit = 10
	}
	return &ProductHandler{
		service:      service,
		defaultLimit: defaultLimit,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/product")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts returns one page of products as a bare array; the
// pagination cursor travels in the X-Page, X-Limit and X-Total-* headers.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", h.defaultLimit)

	result, err := h.service.ListProducts(c.UserContext(), page, limit)
	if err != nil {
		return respondError(c, err, "Could not retrieve products")
	}

	c.Set(HeaderPage, strconv.Itoa(result.Page))
	c.Set(HeaderLimit, strconv.Itoa(result.Limit))
	c.Set(HeaderTotalPages, strconv.Itoa(result.TotalPage))
	c.Set(HeaderTotalCount, strconv.FormatInt(result.Total, 10))

	products := result.Products
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(c.UserContext(), productID)
	if err != nil {
		return respondError(c, err, notFoundOr(err, productID, "Could not retrieve product"))
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product from a multipart form (or JSON body).
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		return badRequest(c, err)
	}
	defer closeImage()

	product, err := h.service.CreateProduct(c.UserContext(), input, image)
	if err != nil {
		return respondError(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces every field of a product. Without a "gambar"
// file the stored image is kept.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")

	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		return badRequest(c, err)
	}
	defer closeImage()

	product, err := h.service.UpdateProduct(c.UserContext(), productID, input, image)
	if err != nil {
		return respondError(c, err, notFoundOr(err, productID, "Could not update product"))
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product. Products already recorded on a
// transaction are answered with 409.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), productID); err != nil {
		message := notFoundOr(err, productID, "Could not delete product")
		if errors.Is(err, apperrors.ErrConflict) {
			message = services.ConflictDeleteMessage
		}
		return respondError(c, err, message)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func notFoundOr(err error, productID, fallback string) string {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Sprintf("Product with ID %s not found", productID)
	}
	return fallback
}

// formImage opens the optional "gambar" part of a multipart request.
func formImage(c *fiber.Ctx) (*services.Image, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, noop, nil
	}
	header, err := c.FormFile("gambar")
	if err != nil {
		// A form without an image part keeps the current image.
		return nil, noop, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open uploaded image: %w", err)
	}
	return &services.Image{Filename: header.Filename, Content: file}, func() { file.Close() }, nil
}
