package handlers

import (
	"pricewatch/internal/config"
	"pricewatch/internal/fetch"
	"pricewatch/internal/repos"
	"pricewatch/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ProductHandler   *ProductHandler
	SyncHandler      *SyncHandler
	DashboardHandler *DashboardHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	prodRepo := repos.NewProductRepo(db)
	platRepo := repos.NewPlatformRepo(db)
	priceRepo := repos.NewPriceRepo(db)

	fetcher := fetch.NewClient(cfg.FirecrawlURL, cfg.FirecrawlKey, cfg.Country)
	syncSvc := services.NewSyncService(fetcher, priceRepo, platRepo, cfg.Pincode, cfg.PlatformDelay)
	batchSvc := services.NewBatchService(prodRepo, syncSvc, cfg.ProductDelay)

	return &Deps{
		ProductHandler:   &ProductHandler{Products: prodRepo, Platforms: platRepo, Prices: priceRepo},
		SyncHandler:      &SyncHandler{Sync: syncSvc, Batch: batchSvc, Products: prodRepo},
		DashboardHandler: &DashboardHandler{Products: prodRepo, Prices: priceRepo},
	}
}

// BatchService exposes the batch driver for the scheduler loop in main.
func (d *Deps) BatchService() *services.BatchService { return d.SyncHandler.Batch }
