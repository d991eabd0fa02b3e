package presenter

import (
	dashboardhandler "github.com/showroomhq/showroom/internal/handler/dashboard"
	notifyhandler "github.com/showroomhq/showroom/internal/handler/notify"
	registryhandler "github.com/showroomhq/showroom/internal/handler/registry"
	saleshandler "github.com/showroomhq/showroom/internal/handler/sales"
	searchhandler "github.com/showroomhq/showroom/internal/handler/search"
	customerrepo "github.com/showroomhq/showroom/internal/repository/customer"
	dealerrepo "github.com/showroomhq/showroom/internal/repository/dealer"
	purchaserepo "github.com/showroomhq/showroom/internal/repository/purchase"
	servicerecordrepo "github.com/showroomhq/showroom/internal/repository/servicerecord"
	vehiclerepo "github.com/showroomhq/showroom/internal/repository/vehicle"
	dashboardsrv "github.com/showroomhq/showroom/internal/service/dashboard"
	registrysrv "github.com/showroomhq/showroom/internal/service/registry"
	salessrv "github.com/showroomhq/showroom/internal/service/sales"
	searchsrv "github.com/showroomhq/showroom/internal/service/search"

	"github.com/showroomhq/showroom/config"
	"github.com/showroomhq/showroom/pkg/mailer"
	"github.com/showroomhq/showroom/pkg/telemetry"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Presenter struct {
	RegistryPresenter  *registryhandler.RegistryHandler
	SalesPresenter     *saleshandler.SalesHandler
	DashboardPresenter *dashboardhandler.DashboardHandler
	SearchPresenter    *searchhandler.SearchHandler
	NotifyPresenter    *notifyhandler.NotifyHandler
}

func NewPresenter(
	db *gorm.DB,
	redisClient *redis.Client,
	cfg *config.Config,
	tel *telemetry.OpenTelemetry,
) Presenter {
	// Repository
	customerRepositoryMeter := tel.MeterProvider.Meter("customer-repository-meter")
	customerRepositoryTracer := tel.TracerProvider.Tracer("customer-repository-tracer")
	customerRepository := customerrepo.NewCustomerRepository(
		db,
		customerRepositoryMeter,
		customerRepositoryTracer,
		tel.Log,
	)

	vehicleRepositoryMeter := tel.MeterProvider.Meter("vehicle-repository-meter")
	vehicleRepositoryTracer := tel.TracerProvider.Tracer("vehicle-repository-tracer")
	vehicleRepository := vehiclerepo.NewVehicleRepository(
		db,
		vehicleRepositoryMeter,
		vehicleRepositoryTracer,
		tel.Log,
	)

	dealerRepositoryMeter := tel.MeterProvider.Meter("dealer-repository-meter")
	dealerRepositoryTracer := tel.TracerProvider.Tracer("dealer-repository-tracer")
	dealerRepository := dealerrepo.NewSubDealerRepository(
		db,
		dealerRepositoryMeter,
		dealerRepositoryTracer,
		tel.Log,
	)

	serviceRecordRepositoryMeter := tel.MeterProvider.Meter("servicerecord-repository-meter")
	serviceRecordRepositoryTracer := tel.TracerProvider.Tracer("servicerecord-repository-tracer")
	serviceRecordRepository := servicerecordrepo.NewServiceRecordRepository(
		db,
		serviceRecordRepositoryMeter,
		serviceRecordRepositoryTracer,
		tel.Log,
	)

	purchaseRepositoryMeter := tel.MeterProvider.Meter("purchase-repository-meter")
	purchaseRepositoryTracer := tel.TracerProvider.Tracer("purchase-repository-tracer")
	purchaseRepository := purchaserepo.NewPurchaseRepository(
		db,
		purchaseRepositoryMeter,
		purchaseRepositoryTracer,
		tel.Log,
	)

	// Service
	registryServiceMeter := tel.MeterProvider.Meter("registry-service-meter")
	registryServiceTracer := tel.TracerProvider.Tracer("registry-service-trace")
	registryService := registrysrv.NewRegistryService(
		customerRepository,
		vehicleRepository,
		dealerRepository,
		serviceRecordRepository,
		registryServiceMeter,
		registryServiceTracer,
		tel.Log,
	)

	salesServiceMeter := tel.MeterProvider.Meter("sales-service-meter")
	salesServiceTracer := tel.TracerProvider.Tracer("sales-service-trace")
	salesService := salessrv.NewSalesService(
		vehicleRepository,
		dealerRepository,
		purchaseRepository,
		salesServiceMeter,
		salesServiceTracer,
		tel.Log,
	)

	dashboardServiceMeter := tel.MeterProvider.Meter("dashboard-service-meter")
	dashboardServiceTracer := tel.TracerProvider.Tracer("dashboard-service-trace")
	dashboardService := dashboardsrv.NewDashboardService(
		vehicleRepository,
		dealerRepository,
		serviceRecordRepository,
		purchaseRepository,
		redisClient,
		cfg.DASHBOARD_CACHE_TTL,
		dashboardServiceMeter,
		dashboardServiceTracer,
		tel.Log,
	)

	searchServiceMeter := tel.MeterProvider.Meter("search-service-meter")
	searchServiceTracer := tel.TracerProvider.Tracer("search-service-trace")
	searchService := searchsrv.NewSearchService(
		customerRepository,
		vehicleRepository,
		dealerRepository,
		searchServiceMeter,
		searchServiceTracer,
		tel.Log,
	)

	// Handler
	registryHandlerMeter := tel.MeterProvider.Meter("registry-handler-meter")
	registryHandlerTracer := tel.TracerProvider.Tracer("registry-handler-trace")
	registryHandler := registryhandler.NewRegistryHandler(
		registryService,
		registryHandlerMeter,
		registryHandlerTracer,
		tel.Log,
	)

	salesHandlerMeter := tel.MeterProvider.Meter("sales-handler-meter")
	salesHandlerTracer := tel.TracerProvider.Tracer("sales-handler-trace")
	salesHandler := saleshandler.NewSalesHandler(
		salesService,
		salesHandlerMeter,
		salesHandlerTracer,
		tel.Log,
	)

	dashboardHandlerMeter := tel.MeterProvider.Meter("dashboard-handler-meter")
	dashboardHandlerTracer := tel.TracerProvider.Tracer("dashboard-handler-trace")
	dashboardHandler := dashboardhandler.NewDashboardHandler(
		dashboardService,
		dashboardHandlerMeter,
		dashboardHandlerTracer,
		tel.Log,
	)

	searchHandlerMeter := tel.MeterProvider.Meter("search-handler-meter")
	searchHandlerTracer := tel.TracerProvider.Tracer("search-handler-trace")
	searchHandler := searchhandler.NewSearchHandler(
		searchService,
		searchHandlerMeter,
		searchHandlerTracer,
		tel.Log,
	)

	notifyHandlerMeter := tel.MeterProvider.Meter("notify-handler-meter")
	notifyHandlerTracer := tel.TracerProvider.Tracer("notify-handler-trace")
	notifyHandler := notifyhandler.NewNotifyHandler(
		mailer.NewMailer(cfg, tel.Log),
		notifyHandlerMeter,
		notifyHandlerTracer,
		tel.Log,
	)

	return Presenter{
		RegistryPresenter:  registryHandler,
		SalesPresenter:     salesHandler,
		DashboardPresenter: dashboardHandler,
		SearchPresenter:    searchHandler,
		NotifyPresenter:    notifyHandler,
	}
}
