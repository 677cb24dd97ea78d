package main

import (
	"database/sql"
	"log"
	"net/http"

	"tamvems/internal/api"
	"tamvems/internal/auth"
	"tamvems/internal/config"
	"tamvems/internal/logger"
	"tamvems/internal/repository"
	"tamvems/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	godotenv.Load()
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	zlog := logger.New(cfg.Environment)
	defer zlog.Sync()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to open DB", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		zlog.Fatal("failed to connect to DB", zap.Error(err))
	}

	bookingRepo := repository.NewBookingRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	userRepo := repository.NewUserRepository(db)

	var uploader service.Uploader
	if cfg.CloudinaryURL != "" {
		cu, err := service.NewCloudinaryUploader(cfg.CloudinaryURL, zlog)
		if err != nil {
			zlog.Fatal("failed to init cloudinary", zap.Error(err))
		}
		uploader = cu
	} else {
		zlog.Warn("CLOUDINARY_URL not set; uploads are disabled")
		uploader = service.DisabledUploader{}
	}

	jwtMiddleware := auth.NewMiddleware(cfg.JWTSecret)
	sender := service.NewSenderService(cfg)
	notifier := service.NewNotifyService(sender, zlog)

	bookingSvc := service.NewBookingService(bookingRepo, vehicleRepo, userRepo,
		uploader, notifier, cfg.MaxRequestsPerDay, zlog)
	availabilitySvc := service.NewAvailabilityService(bookingRepo, vehicleRepo, zlog)
	vehicleSvc := service.NewVehicleService(vehicleRepo, uploader, zlog)
	userSvc := service.NewUserService(userRepo, zlog)
	authSvc := service.NewAuthService(userRepo, jwtMiddleware, zlog)
	exportSvc := service.NewExportService(bookingRepo, zlog)
	jobSvc := service.NewJobService(bookingSvc, zlog)

	authHandler := api.NewAuthHandler(authSvc, userSvc)
	bookingHandler := api.NewBookingHandler(bookingSvc, availabilitySvc)
	adminHandler := api.NewAdminHandler(bookingSvc, exportSvc)
	vehicleHandler := api.NewVehicleHandler(vehicleSvc)
	userHandler := api.NewUserHandler(userSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/login", authHandler.Login).Methods("POST")

	// Authenticated endpoints
	user := r.PathPrefix("/api").Subrouter()
	user.Use(jwtMiddleware.RequireAuth)
	user.HandleFunc("/availability", bookingHandler.CheckAvailability).Methods("GET")
	user.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods("POST")
	user.HandleFunc("/bookings", bookingHandler.ListMyBookings).Methods("GET")
	user.HandleFunc("/bookings/{id}", bookingHandler.GetBooking).Methods("GET")
	user.HandleFunc("/bookings/{id}/checkout", bookingHandler.Checkout).Methods("POST")
	user.HandleFunc("/me/vehicle-status", bookingHandler.MyVehicleStatus).Methods("GET")
	user.HandleFunc("/me/password", authHandler.ChangePassword).Methods("PUT")
	user.HandleFunc("/vehicles", vehicleHandler.ListVehicles).Methods("GET")

	// Admin endpoints
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(jwtMiddleware.RequireAuth, jwtMiddleware.RequireAdmin)
	admin.HandleFunc("/bookings", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/bookings/export", adminHandler.ExportBookings).Methods("GET")
	admin.HandleFunc("/bookings/{id}/approve", adminHandler.ApproveBooking).Methods("POST")
	admin.HandleFunc("/bookings/{id}/reject", adminHandler.RejectBooking).Methods("POST")
	admin.HandleFunc("/bookings/{id}/checkout", bookingHandler.Checkout).Methods("POST")
	admin.HandleFunc("/vehicles", vehicleHandler.ListVehicles).Methods("GET")
	admin.HandleFunc("/vehicles", vehicleHandler.CreateVehicle).Methods("POST")
	admin.HandleFunc("/vehicles/{id}", vehicleHandler.GetVehicle).Methods("GET")
	admin.HandleFunc("/vehicles/{id}", vehicleHandler.UpdateVehicle).Methods("PUT")
	admin.HandleFunc("/vehicles/{id}", vehicleHandler.DeactivateVehicle).Methods("DELETE")
	admin.HandleFunc("/vehicles/{id}/photo", vehicleHandler.UploadPhoto).Methods("POST")
	admin.HandleFunc("/users", userHandler.ListUsers).Methods("GET")
	admin.HandleFunc("/users", userHandler.CreateUser).Methods("POST")
	admin.HandleFunc("/users/{id}", userHandler.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id}", userHandler.DeleteUser).Methods("DELETE")

	// Expiry also runs on a schedule so stale PENDING rows are cancelled
	// even when nobody is reading lists.
	c := cron.New()
	if _, err := c.AddFunc(cfg.ExpireSweepCron, jobSvc.ExpireStaleRequests); err != nil {
		zlog.Fatal("invalid EXPIRE_SWEEP_CRON", zap.Error(err))
	}
	c.Start()
	defer c.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	zlog.Info("server running", zap.String("port", cfg.Port))
	log.Fatal(http.ListenAndServe(":"+cfg.Port, cors(r)))
}
