package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/retail-pos/config"
	"github.com/niksmo/retail-pos/internal/adapter/httphandler"
	"github.com/niksmo/retail-pos/internal/adapter/kafka"
	"github.com/niksmo/retail-pos/internal/adapter/storage"
	"github.com/niksmo/retail-pos/internal/core/service"
	"github.com/niksmo/retail-pos/pkg/barcode"
	"github.com/niksmo/retail-pos/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type coreServices struct {
	product  service.ProductService
	checkout service.CheckoutService
	history  service.HistoryService
}

type App struct {
	ctx            context.Context
	cfg            config.Config
	sqldb          storage.SQLDB
	ordersProducer kafka.OrdersProducer
	salesProc      kafka.SalesStatsProcessor
	salesView      kafka.SalesStatsView
	services       coreServices
	httpServer     httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStorage()
	app.initBrokerAdapters()
	app.initCoreServices()
	app.initHTTPServer()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.sqldb = sqldb
}

func (app *App) initBrokerAdapters() {
	const op = "App.initBrokerAdapters"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	ordersTopic := app.cfg.Broker.Topics.OrdersStream
	statsGroup := app.cfg.Broker.Consumers.SalesStatsGroup

	srClient, err := sr.NewClient(sr.URLs(app.cfg.Broker.SchemaRegistryURLs...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	orderSerde, err := schema.NewSerdeOrderV1(
		ctx,
		schema.SubjectOpt(ordersTopic+"-value"),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	ordersProducer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, ordersTopic),
		kafka.ProducerEncoderOpt(orderSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	salesProc, err := kafka.NewSalesStatsProcessor(
		seedBrokers, ordersTopic, statsGroup, orderSerde,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	salesView, err := kafka.NewSalesStatsView(seedBrokers, statsGroup)
	if err != nil {
		app.fallDown(op, err)
	}

	app.ordersProducer = ordersProducer
	app.salesProc = salesProc
	app.salesView = salesView
}

func (app *App) initCoreServices() {
	inventory := storage.NewInventoryRepository(app.sqldb)
	orders := storage.NewOrderRepository(app.sqldb)

	app.services = coreServices{
		product:  service.NewProductService(inventory, barcodeSource{}),
		checkout: service.NewCheckoutService(inventory, orders, app.ordersProducer),
		history:  service.NewHistoryService(orders),
	}
}

func (app *App) initHTTPServer() {
	mux := http.NewServeMux()
	httphandler.RegisterProducts(
		mux, app.services.product, app.services.product, app.services.product,
	)
	httphandler.RegisterCheckout(mux, app.services.checkout)
	httphandler.RegisterOrders(mux, app.services.history, app.salesView)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.salesProc.Run(app.ctx)
	go app.salesView.Run(app.ctx)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.salesProc.Close()
	app.ordersProducer.Close()
	app.sqldb.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}

// barcodeSource adapts pkg/barcode to the core port.
type barcodeSource struct{}

func (barcodeSource) NewCode() string {
	return barcode.New()
}
