package handlers

import (
	"strings"

	"pricewatch/internal/log"
	"pricewatch/internal/repos"
	"pricewatch/internal/services"
	"pricewatch/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SyncHandler struct {
	Sync     *services.SyncService
	Batch    *services.BatchService
	Products *repos.ProductRepo
}

type syncProductRequest struct {
	ProductName string   `json:"productName"`
	Platforms   []string `json:"platforms"`
}

// SyncOne triggers a scrape of one product across the requested
// platforms (all known platforms when none are given). Safe to retry
// after a partial failure: upserts are idempotent on the key.
func (h *SyncHandler) SyncOne(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid product id"})
	}

	var req syncProductRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid request body"})
		}
	}
	platforms, ok := validate.Platforms(req.Platforms)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid platform list"})
	}

	name := strings.TrimSpace(req.ProductName)
	if name == "" {
		p, err := h.Products.Get(id)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "unknown product"})
		}
		name = strings.TrimSpace(strings.Join([]string{p.Brand, p.Name, p.Size}, " "))
	}

	log.Audit(c, "sync.product", map[string]any{"product": id, "name": name})

	res, err := h.Sync.SyncProduct(c.Context(), id, name, platforms)
	if err != nil {
		log.Error(c, "sync.product.error", err, map[string]any{"product": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "sync failed"})
	}
	return c.JSON(res)
}

// SyncAll triggers the full-catalog batch run. The call blocks until
// the batch finishes and returns its summary.
func (h *SyncHandler) SyncAll(c *fiber.Ctx) error {
	log.Audit(c, "sync.all", nil)

	summary, err := h.Batch.SyncAll(c.Context())
	if err != nil {
		log.Error(c, "sync.all.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "batch sync failed"})
	}
	return c.JSON(summary)
}
