package handlers

import (
	"pricewatch/internal/domain"
	"pricewatch/internal/log"
	"pricewatch/internal/repos"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	Products *repos.ProductRepo
	Prices   *repos.PriceRepo
}

type dashboardRow struct {
	Product domain.Product
	Prices  []domain.PriceRecord
}

// Home renders the comparison table: every product with its current
// per-platform prices.
func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	products, err := h.Products.ListAll()
	if err != nil {
		log.Error(c, "dashboard.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load products. Please retry."})
	}

	rows := make([]dashboardRow, 0, len(products))
	for _, p := range products {
		prices, perr := h.Prices.ListForProduct(p.ID)
		if perr != nil {
			log.Error(c, "dashboard.prices.error", perr, map[string]any{"product": p.ID})
			prices = nil
		}
		rows = append(rows, dashboardRow{Product: p, Prices: prices})
	}
	return render(c, "home", fiber.Map{"Rows": rows, "Count": len(rows)})
}
