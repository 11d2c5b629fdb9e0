package serverApp

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	config "endurance-api/configs"
	database "endurance-api/internal/pkg/db"
	"endurance-api/internal/pkg/formstore"
	"endurance-api/internal/pkg/gateway"
	"endurance-api/internal/pkg/geocode"
	"endurance-api/internal/pkg/middleware"
	"endurance-api/internal/pkg/rabbitmq"
	"endurance-api/internal/pkg/redis"
	s3aws "endurance-api/internal/pkg/storage/s3"
	"endurance-api/internal/repository"
	checkoutRepo "endurance-api/internal/repository/checkout"
	couponRepo "endurance-api/internal/repository/coupon"
	planRepo "endurance-api/internal/repository/plan"
	userRepo "endurance-api/internal/repository/user"

	checkoutHandler "endurance-api/internal/handler/checkout"
	couponHandler "endurance-api/internal/handler/coupon"
	registrationHandler "endurance-api/internal/handler/registration"
	checkoutService "endurance-api/internal/service/checkout"
	couponService "endurance-api/internal/service/coupon"
	registrationService "endurance-api/internal/service/registration"

	"endurance-api/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup initializes the HTTP server with middleware and routes
func Setup(
	engine *gin.Engine,
	ctx context.Context,
	wg *sync.WaitGroup,
	env *config.Config,
	db *database.Database,
	redisClient redis.IRedis,
	rb *rabbitmq.ConnectionManager,
	publisher *rabbitmq.Publisher,
	s3 s3aws.Is3,
	gw *gateway.Client,
	resolver *geocode.Resolver,
) checkoutService.IService {
	InitMiddleware(engine)

	// Set swagger host dynamically from APP_BASE_URL
	if parsed, err := url.Parse(env.AppBaseURL); err == nil {
		docs.SwaggerInfo.Host = parsed.Host
		if strings.HasPrefix(env.AppBaseURL, "https") {
			docs.SwaggerInfo.Schemes = []string{"https"}
		} else {
			docs.SwaggerInfo.Schemes = []string{"http"}
		}
	}

	// Swagger UI
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		rabbitmqHealth := "unhealthy"
		redisHealth := "unhealthy"
		databaseHealth := "unhealthy"
		rbCon := rb.GetConnection()

		if db != nil && !db.IsCloseConnection() {
			databaseHealth = "healthy"
		}

		if rbCon != nil && !rbCon.IsClosed() {
			rabbitmqHealth = "healthy"
		}
		if redisClient != nil {
			redisHealth = "healthy"
		}
		c.JSON(200, gin.H{
			"status": 200,
			"service": gin.H{
				"rabbitmq": gin.H{
					"status": rabbitmqHealth,
				},
				"redis": gin.H{
					"status": redisHealth,
				},
				"database": gin.H{
					"status": databaseHealth,
				},
			},
		})
	})

	e := engine.Group(BasePath())
	return InitRoutes(e, ctx, wg, env, db, redisClient, publisher, s3, gw, resolver)
}

// BasePath returns the base API path
func BasePath() string {
	return "/api"
}

// InitMiddleware initializes global middleware
func InitMiddleware(e *gin.Engine) {
	e.Use(middleware.CorsMiddleware())
	e.Use(middleware.RequestInit())
	e.Use(middleware.ResponseInit())
}

func InitRoutes(
	e *gin.RouterGroup,
	ctx context.Context,
	wg *sync.WaitGroup,
	env *config.Config,
	db *database.Database,
	redisClient redis.IRedis,
	publisher *rabbitmq.Publisher,
	s3 s3aws.Is3,
	gw *gateway.Client,
	resolver *geocode.Resolver,
) checkoutService.IService {

	// setup repo
	rp := repository.IRepository{
		User:     userRepo.NewRepo(db),
		Checkout: checkoutRepo.NewRepo(db),
		Coupon:   couponRepo.NewRepo(db),
		Plan:     planRepo.NewRepo(db),
	}

	draftTTL := time.Duration(env.DraftTTLHours) * time.Hour
	expiry := time.Duration(env.PaymentExpiryMinutes) * time.Minute

	// === Checkout ===
	CheckoutService := checkoutService.NewService(ctx, rp, gw, publisher, s3, expiry)
	CheckoutHandler := checkoutHandler.NewHandler(ctx, CheckoutService)
	CheckoutHandler.NewRoutes(e)

	// === Registration ===
	RegistrationService := registrationService.NewService(
		ctx, rp, resolver, CheckoutService, publisher,
		formstore.NewRedisStore(redisClient, "draft:purchase", draftTTL),
		formstore.NewRedisStore(redisClient, "draft:signup", draftTTL),
	)
	RegistrationHandler := registrationHandler.NewHandler(ctx, RegistrationService)
	RegistrationHandler.NewRoutes(e)

	// === Coupon ===
	CouponService := couponService.NewService(ctx, rp)
	CouponHandler := couponHandler.NewHandler(ctx, CouponService)
	CouponHandler.NewRoutes(e)

	return CheckoutService
}
