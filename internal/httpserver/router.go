package httpserver

import (
	"context"
	"log"
	"time"

	"github.com/arjun2k01/esports-cart/internal/domain"
	ordersvc "github.com/arjun2k01/esports-cart/internal/service/order"
	productsvc "github.com/arjun2k01/esports-cart/internal/service/product"
	usersvc "github.com/arjun2k01/esports-cart/internal/service/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductService is the catalog surface the router needs.
type ProductService interface {
	List(ctx context.Context, keyword string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// OrderService is the order placement and lifecycle surface.
type OrderService interface {
	Place(ctx context.Context, actor domain.Actor, in ordersvc.PlaceInput) (*domain.Order, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error)
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Order, error)
	ListAll(ctx context.Context, actor domain.Actor) ([]domain.Order, error)
	Pay(ctx context.Context, actor domain.Actor, id string, result *domain.PaymentResult) (*domain.Order, error)
	Ship(ctx context.Context, actor domain.Actor, id string, in ordersvc.ShipInput) (*domain.Order, error)
	Deliver(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error)
	Cancel(ctx context.Context, actor domain.Actor, id, reason string) (*domain.Order, error)
}

// UserService is the account/auth surface.
type UserService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	AccessTTLSeconds() int
}

// Deps bundles the services the router depends on.
type Deps struct {
	ProductSvc ProductService
	OrderSvc   OrderService
	UserSvc    UserService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestIDMiddleware(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/signup", signupHandler(deps.UserSvc))
		users.POST("/login", loginHandler(deps.UserSvc))
		users.GET("/me", authMiddleware(deps.UserSvc), meHandler())
		users.GET("", authMiddleware(deps.UserSvc), adminMiddleware(), listUsersHandler(deps.UserSvc))
	}

	products := api.Group("/products")
	{
		products.GET("", listProductsHandler(deps.ProductSvc))
		products.GET("/:id", getProductHandler(deps.ProductSvc))

		adminOnly := products.Group("", authMiddleware(deps.UserSvc), adminMiddleware())
		adminOnly.POST("", createProductHandler(deps.ProductSvc))
		adminOnly.PUT("/:id", updateProductHandler(deps.ProductSvc))
		adminOnly.DELETE("/:id", deleteProductHandler(deps.ProductSvc))
	}

	orders := api.Group("/orders", authMiddleware(deps.UserSvc))
	{
		orders.POST("", placeOrderHandler(deps.OrderSvc))
		orders.GET("/mine", listMyOrdersHandler(deps.OrderSvc))
		orders.GET("", adminMiddleware(), listAllOrdersHandler(deps.OrderSvc))
		orders.GET("/:id", getOrderHandler(deps.OrderSvc))
		orders.PUT("/:id/pay", payOrderHandler(deps.OrderSvc))
		orders.PUT("/:id/ship", adminMiddleware(), shipOrderHandler(deps.OrderSvc))
		orders.PUT("/:id/deliver", adminMiddleware(), deliverOrderHandler(deps.OrderSvc))
		orders.PUT("/:id/cancel", cancelOrderHandler(deps.OrderSvc))
	}

	return router
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
