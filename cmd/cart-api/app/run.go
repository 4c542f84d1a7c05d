package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/ATjewellers01/zold-cart-api/configs"
	"github.com/ATjewellers01/zold-cart-api/internal/adapter/cache"
	"github.com/ATjewellers01/zold-cart-api/internal/adapter/gateway"
	apihttp "github.com/ATjewellers01/zold-cart-api/internal/adapter/http"
	"github.com/ATjewellers01/zold-cart-api/internal/adapter/http/middleware"
	"github.com/ATjewellers01/zold-cart-api/internal/adapter/kafka"
	"github.com/ATjewellers01/zold-cart-api/internal/adapter/queue"
	"github.com/ATjewellers01/zold-cart-api/internal/adapter/repo"
	"github.com/ATjewellers01/zold-cart-api/internal/adapter/ws"
	"github.com/ATjewellers01/zold-cart-api/internal/cart"
	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
	"github.com/ATjewellers01/zold-cart-api/internal/logging"
	"github.com/ATjewellers01/zold-cart-api/internal/rates"
	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init(cfg.App.Name, cfg.App.LogFile)
	log := logging.New("app")

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		return nil, nil, err
	}
	cancel()

	log.Info("cart-api starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	giftRepo := repo.NewMySQLGiftRepo(db)
	outbox := repo.NewMySQLOutboxRepo(db)
	invRepo := repo.NewMySQLInventoryRepo(db)
	userRepo := repo.NewMySQLUserRepo(db)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	orderCache := cache.NewRedisOrderCache(rdb, cfg.Cache.TTL)
	snapshots := cache.NewRedisCartSnapshots(rdb, cfg.Cart.SnapshotTTL)
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		return nil, nil, err
	}

	carts := cart.NewManager(snapshots, logging.New("cart"))

	// live rates: poller + kafka push + ws fanout
	rateSvc := rates.New(logging.New("rates"))
	fetcher, err := rates.NewHTTPFetcher(
		&http.Client{Timeout: 10 * time.Second},
		cfg.Rates.ProviderURL,
		cfg.Rates.ProviderToken,
	)
	if err != nil {
		return nil, nil, err
	}
	metals := make([]domain.Metal, 0, len(cfg.Rates.Metals))
	for _, m := range cfg.Rates.Metals {
		if metal, ok := domain.ParseMetal(m); ok {
			metals = append(metals, metal)
		}
	}
	poller := rates.NewPoller(rateSvc, fetcher, metals, cfg.Rates.PollInterval, logging.New("rates.poller"))
	poller.Start(context.Background())

	// register queue-handler (order.created -> payment gateway)
	gw := gateway.NewPaymentClient(cfg.PaymentGW.BaseURL, cfg.PaymentGW.Token, cfg.PaymentGW.Timeout)
	setupQueue(ch, gw)

	// register kafka-listeners (rate pushes + order status changes)
	consumerCancel := setupKafkaListeners(cfg, rateSvc, orderRepo, orderCache)

	// use cases
	checkoutUC := usecase.NewCheckout(carts, orderRepo, idem, outbox, producer, orderCache, cfg.Pricing.GSTPercent)
	giftUC := usecase.NewSendCoinGift(invRepo, giftRepo, outbox, producer)

	// handlers + router + middleware
	handlers := apihttp.Handlers{
		Cart:   apihttp.NewCartHandler(carts, rateSvc, invRepo, checkoutUC, cfg.Pricing.GSTPercent),
		Rates:  apihttp.NewRatesHandler(rateSvc, cfg.Pricing.GSTPercent),
		Gifts:  apihttp.NewGiftHandler(giftUC),
		Users:  apihttp.NewUsersHandler(userRepo),
		Token:  apihttp.NewTokenHandler(cfg),
		WS:     ws.NewRatesHandler(rateSvc, logging.New("ws")),
		Orders: orderRepo,
	}
	auth := middleware.NewAuthz(cfg)
	router := apihttp.NewRouter(handlers, auth)

	cleanup := func() {
		poller.Stop()
		consumerCancel()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupQueue(ch *amqp091.Channel, gw queue.PaymentGateway) {
	h := queue.NewOrderCreatedHandler(gw)

	router := queue.NewRouter(ch, logging.New("queue"), queue.WithPrefetch(50))
	router.Register(queue.OrderQueueName, queue.JSONHandler[usecase.OrderCreatedMsg]{HandleFunc: h.HandleCreate})

	if err := router.Start(); err != nil {
		panic(err)
	}
}

func setupKafkaListeners(cfg configs.Config, rateSvc *rates.Service, orderRepo *repo.MySQLOrderRepo, orderCache *cache.RedisOrderCache) func() {
	// one group per message type; a sarama group supports a single
	// Consume session at a time
	rateGrp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID+"-rates")
	if err != nil {
		panic(err)
	}
	statusGrp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID+"-orders")
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	log := logging.New("kafka")

	rh := kafka.NewRateUpdateHandler(rateSvc)
	rateConsumer := kafka.NewConsumer(rateGrp, []string{cfg.Kafka.RatesTopic}, rh.Handle)
	rateConsumer.Logger = log
	go func() {
		if err := rateConsumer.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error("rates consumer stopped", "err", err)
		}
	}()

	oh := kafka.NewOrderStatusChangedHandler(orderRepo, orderCache)
	statusConsumer := kafka.NewConsumer(statusGrp, []string{cfg.Kafka.OrdersTopic}, oh.Handle)
	statusConsumer.Logger = log
	go func() {
		if err := statusConsumer.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error("order status consumer stopped", "err", err)
		}
	}()

	return func() {
		cancel()
		_ = rateGrp.Close()
		_ = statusGrp.Close()
	}
}
