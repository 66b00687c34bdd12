package handlers

import (
	"errors"
	"log"

	"kasir/internal/middleware"
	"kasir/internal/models"
	"kasir/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration, login and the current operator.
type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes mounts /auth. GET /auth/me always needs a token, whatever
// the protection of the other routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/me", middleware.AuthRequired(h.authService), h.HandleMe)
}

func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return badRequest(c, err)
	}

	if err := h.authService.Register(c.UserContext(), &user); err != nil {
		return respondError(c, err, "Registration failed")
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var creds models.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return badRequest(c, err)
	}

	token, err := h.authService.Login(c.UserContext(), creds)
	if errors.Is(err, services.ErrInvalidCredentials) {
		log.Printf("Failed login for user %s", creds.Username)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}
	if err != nil {
		return respondError(c, err, "Authentication failed")
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// HandleMe returns the operator the bearer token belongs to.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.CurrentUser(c.UserContext(), middleware.Claims(c))
	if err != nil {
		return respondError(c, err, "Failed to load current user")
	}
	return c.JSON(user)
}
