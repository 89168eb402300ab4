package handlers

import (
	fiber "github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/internal/db/repos"
)

// TokenHandler handles admin HTTP requests for run tokens
type TokenHandler struct {
	tokenRepo *repos.TokenRepository
}

// NewTokenHandler creates a new token handler instance
func NewTokenHandler(tokenRepo *repos.TokenRepository) *TokenHandler {
	return &TokenHandler{tokenRepo: tokenRepo}
}

// CreateToken handles the admin-only request to mint a run token
func (h *TokenHandler) CreateToken(c *fiber.Ctx) error {
	token := &models.JobToken{Token: uuid.NewString()}
	if err := h.tokenRepo.Create(c.Context(), token); err != nil {
		return serviceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(token)
}

// ListTokens handles the admin-only request to list run tokens
func (h *TokenHandler) ListTokens(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	tokens, err := h.tokenRepo.List(c.Context(), getPaginationOptions(page))
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(tokens)
}
