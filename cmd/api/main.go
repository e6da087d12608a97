package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"libris/internal/cache"
	"libris/internal/database"
	"libris/internal/middleware"
	"libris/internal/modules/auth"
	"libris/internal/modules/catalog"
	"libris/internal/modules/circulation"
	"libris/internal/modules/fine"
	"libris/internal/modules/reservation"
	"libris/internal/modules/upload"
	jwtsvc "libris/internal/pkg/jwt"
	"libris/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	checkoutRepo := repository.NewCheckoutRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	fineRepo := repository.NewFineRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	var catalogCache catalog.CatalogCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		catalogCache = cache.NewStore(rdb, 60*time.Second)
		log.Println("Catalog cache enabled:", addr)
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = upload.UploadsBaseDir
	}

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	uploadService := upload.NewService(uploadRepo, uploadDir, upload.StaticURLBase)
	uploadHandler := upload.NewHandler(uploadService)

	catalogService := catalog.NewService(bookRepo, uploadService, catalogCache)
	catalogHandler := catalog.NewHandler(catalogService)

	circulationService := circulation.NewService(checkoutRepo, bookRepo, reservationRepo)
	circulationHandler := circulation.NewHandler(circulationService)

	reservationService := reservation.NewService(reservationRepo, bookRepo, checkoutRepo)
	reservationHandler := reservation.NewHandler(reservationService)

	fineService := fine.NewService(fineRepo)
	fineHandler := fine.NewHandler(fineService)

	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.CORS())

	r.Static(upload.StaticURLBase, uploadDir)

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			employeeOnly := middleware.EmployeeOnly()

			authHandler.RegisterProtectedRoutes(protected, employeeOnly)
			circulationHandler.RegisterRoutes(protected, employeeOnly)
			reservationHandler.RegisterRoutes(protected)
			fineHandler.RegisterRoutes(protected, employeeOnly)
			uploadHandler.RegisterRoutes(protected)

			employee := protected.Group("/")
			employee.Use(employeeOnly)
			{
				catalogHandler.RegisterEmployeeRoutes(employee)
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
