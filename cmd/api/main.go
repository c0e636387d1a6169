package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/pedidos-api/docs"
	"github.com/MikeMC777/pedidos-api/internal/auth"
	"github.com/MikeMC777/pedidos-api/internal/config"
	"github.com/MikeMC777/pedidos-api/internal/httpx"
	"github.com/MikeMC777/pedidos-api/internal/order"
	"github.com/MikeMC777/pedidos-api/internal/user"
)

// @title          Pedidos API
// @version        1.0
// @description    Order management API: accounts, JWT auth and order lifecycle.
// @BasePath       /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[redis] ping failed: %v (refresh tokens will not survive)", err)
	}

	users := user.NewPGRepo(pool)
	userSvc := user.NewService(users)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	store := auth.NewRedisStore(rdb)
	orderSvc := order.NewService(order.NewPGRepo(pool), users, cfg.StrictLifecycle)

	r := newRouter(userSvc, users, tokens, store, orderSvc)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Printf("api listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}

func newRouter(userSvc *user.Service, users user.Repository, tokens *auth.Tokens, store auth.RefreshStore, orderSvc *order.Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), cors.Default())

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })

	a := r.Group("/auth")
	a.POST("/register", registerHandler(userSvc))
	a.POST("/login", loginHandler(userSvc, tokens, store))
	a.POST("/refresh", refreshHandler(tokens, store, users))

	o := r.Group("/orders", httpx.AuthRequired(tokens, users))
	o.POST("", createOrderHandler(orderSvc))
	o.GET("", listOrdersHandler(orderSvc))
	o.GET("/mine", listMyOrdersHandler(orderSvc))
	o.GET("/:id", viewOrderHandler(orderSvc))
	o.POST("/:id/items", addItemHandler(orderSvc))
	o.DELETE("/:id/items/:item_id", removeItemHandler(orderSvc))
	o.POST("/:id/cancel", cancelOrderHandler(orderSvc))
	o.POST("/:id/finish", finishOrderHandler(orderSvc))
	o.DELETE("/:id", deleteOrderHandler(orderSvc))

	return r
}
