package handlers

import (
	"strings"

	"pricewatch/internal/domain"
	"pricewatch/internal/log"
	"pricewatch/internal/repos"
	"pricewatch/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Products  *repos.ProductRepo
	Platforms *repos.PlatformRepo
	Prices    *repos.PriceRepo
}

type productView struct {
	domain.Product
	PriceData []domain.PriceRecord `json:"price_data"`
}

// List serves /api/v1/products with optional search, barcode and
// category filters, each product carrying its current per-platform
// price rows.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var (
		products []domain.Product
		err      error
	)

	if barcode := strings.TrimSpace(c.Query("barcode")); barcode != "" {
		b, ok := validate.Barcode(barcode)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "barcode"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid barcode"})
		}
		products, err = h.Products.ByBarcode(b)
	} else {
		q := ""
		if raw := c.Query("search"); strings.TrimSpace(raw) != "" {
			var ok bool
			if q, ok = validate.Q(raw); !ok {
				log.Security(c, "validation.fail", map[string]any{"field": "search", "value": raw})
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid search query"})
			}
			q = strings.ToLower(q)
		}
		category := strings.TrimSpace(c.Query("category"))
		if category != "" {
			if _, ok := validate.Q(category); !ok {
				log.Security(c, "validation.fail", map[string]any{"field": "category"})
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid category"})
			}
		}
		products, err = h.Products.Search(q, category)
	}
	if err != nil {
		log.Error(c, "products.list.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "could not load products"})
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		prices, perr := h.Prices.ListForProduct(p.ID)
		if perr != nil {
			log.Error(c, "products.prices.error", perr, map[string]any{"product": p.ID})
			prices = nil
		}
		views = append(views, productView{Product: p, PriceData: prices})
	}

	platforms, err := h.Platforms.ListAll()
	if err != nil {
		log.Error(c, "products.platforms.error", err, nil)
		platforms = nil
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"products":  views,
		"platforms": platforms,
	})
}

// History serves the price history trail for one product×platform.
func (h *ProductHandler) History(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid product id"})
	}
	platform, ok := validate.Platform(c.Query("platform"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "invalid platform"})
	}
	entries, err := h.Prices.HistoryForKey(id, platform)
	if err != nil {
		log.Error(c, "products.history.error", err, map[string]any{"product": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "could not load history"})
	}
	return c.JSON(fiber.Map{"success": true, "history": entries})
}
