package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tu-usuario/mercado-stock/internal/application/audit"
	"github.com/tu-usuario/mercado-stock/internal/domain/repository"
	"github.com/tu-usuario/mercado-stock/pkg/logger"
)

const (
	sweepTimeout = 5 * time.Minute
	pageSize     = 100
)

// Auditor recorre periódicamente todos los SKUs y verifica la conservación
// de cantidad con el CheckerUseCase. Un delta distinto de cero se loggea en
// error; no corrige nada, solo alerta.
type Auditor struct {
	cron        *cron.Cron
	checker     *audit.CheckerUseCase
	shopRepo    repository.ShopRepository
	productRepo repository.ProductRepository
	schedule    string
	log         *logger.Logger
}

// NewAuditor construye el auditor con la expresión cron dada (5 campos).
func NewAuditor(
	checker *audit.CheckerUseCase,
	shopRepo repository.ShopRepository,
	productRepo repository.ProductRepository,
	schedule string,
	log *logger.Logger,
) *Auditor {
	return &Auditor{
		cron:        cron.New(),
		checker:     checker,
		shopRepo:    shopRepo,
		productRepo: productRepo,
		schedule:    schedule,
		log:         log,
	}
}

// Start agenda el barrido y arranca el cron.
func (a *Auditor) Start() error {
	if _, err := a.cron.AddFunc(a.schedule, a.sweep); err != nil {
		return err
	}
	a.cron.Start()
	a.log.Info().Str("schedule", a.schedule).Msg("auditor de conservación agendado")
	return nil
}

// Stop detiene el cron y espera los jobs en curso.
func (a *Auditor) Stop() {
	ctx := a.cron.Stop()
	<-ctx.Done()
	a.log.Info().Msg("auditor de conservación detenido")
}

// sweep verifica todos los productos de todas las tiendas, paginando.
func (a *Auditor) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	checked, broken := 0, 0

	for shopOffset := 0; ; shopOffset += pageSize {
		shops, err := a.shopRepo.List(pageSize, shopOffset)
		if err != nil {
			a.log.Error().Err(err).Msg("auditor: listar tiendas")
			return
		}
		if len(shops) == 0 {
			break
		}
		for _, shop := range shops {
			for prodOffset := 0; ; prodOffset += pageSize {
				products, err := a.productRepo.ListByShop(shop.ID, pageSize, prodOffset)
				if err != nil {
					a.log.Error().Err(err).Str("shop_id", shop.ID).Msg("auditor: listar productos")
					return
				}
				if len(products) == 0 {
					break
				}
				for _, product := range products {
					report, err := a.checker.Verify(ctx, shop.ID, product.ID)
					if err != nil {
						a.log.Error().Err(err).
							Str("shop_id", shop.ID).
							Str("product_id", product.ID).
							Msg("auditor: verificación falló")
						continue
					}
					checked++
					if !report.Consistent {
						broken++
						a.log.Error().
							Str("shop_id", shop.ID).
							Str("product_id", product.ID).
							Str("on_hand", report.OnHand.String()).
							Str("allocated", report.Allocated.String()).
							Str("sold", report.Sold.String()).
							Str("total_stocked", report.TotalStocked.String()).
							Str("delta", report.Delta.String()).
							Msg("auditor: conservación rota")
					}
				}
			}
		}
	}

	a.log.Info().
		Int("checked", checked).
		Int("broken", broken).
		Dur("elapsed", time.Since(start)).
		Msg("auditor: barrido completo")
}
