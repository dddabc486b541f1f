package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gene2phenotype/g2pbackend/config"
	"github.com/gene2phenotype/g2pbackend/database"
	"github.com/gene2phenotype/g2pbackend/handlers"
	"github.com/gene2phenotype/g2pbackend/repository"
	"github.com/gene2phenotype/g2pbackend/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to access database connection: %v", err)
	}
	defer sqlDB.Close()

	log.Printf("Using database: %s", cfg.DatabasePath)

	userRepo := repository.NewGormUserRepository(db)
	lgdRepo := repository.NewGormLGDRepository(db)
	refRepo := repository.NewGormReferenceRepository(db)

	recordSvc := services.NewRecordService(db)
	curationSvc := services.NewCurationService(db)

	authHandler := handlers.NewAuthHandler(userRepo, cfg)
	curationHandler := handlers.NewCurationHandler(curationSvc, recordSvc)
	recordHandler := handlers.NewRecordHandler(recordSvc, lgdRepo)
	referenceHandler := handlers.NewReferenceHandler(refRepo)
	panelHandler := handlers.NewPanelHandler(sqlDB, refRepo, userRepo)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(corsHandler.Handler)

	requireAuth := handlers.AuthMiddleware(userRepo, cfg.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Post("/register", authHandler.Register)

		// public reference data
		r.With(handlers.OptionalAuth(userRepo, cfg.JWTSecret)).
			Get("/panels", referenceHandler.ListPanels)
		r.Get("/panels/{panelName}", panelHandler.GetPanel)
		r.Get("/panels/{panelName}/download", panelHandler.Download)
		r.Get("/attribs", referenceHandler.ListAttribs)
		r.Get("/mechanisms", referenceHandler.ListMechanisms)
		r.Get("/variant-types", referenceHandler.ListVariantTypes)
		r.Get("/phenotypes", referenceHandler.ListPhenotypes)
		r.Get("/permissions", handlers.ListPermissionDefinitions)

		// public record view
		r.Get("/records/{stableID}", recordHandler.GetRecord)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/me", authHandler.Me)
			r.Post("/panels/{panelName}/invites", panelHandler.CreateInvite)

			r.Route("/curations", func(r chi.Router) {
				r.Post("/", curationHandler.CreateDraft)
				r.Get("/", curationHandler.ListDrafts)
				r.Route("/{stableID}", func(r chi.Router) {
					r.Get("/", curationHandler.GetDraft)
					r.Put("/", curationHandler.UpdateDraft)
					r.Delete("/", curationHandler.DeleteDraft)
					r.Post("/publish", curationHandler.Publish)
				})
			})

			r.Post("/records/merge", recordHandler.Merge)
			r.Route("/records/{stableID}", func(r chi.Router) {
				r.Delete("/", recordHandler.DeleteRecord)
				r.Get("/history", recordHandler.History)
				r.Put("/confidence", recordHandler.UpdateConfidence)
				r.Put("/mechanism", recordHandler.UpdateMechanism)

				r.Post("/panels", recordHandler.AddPanel)
				r.Delete("/panels/{panelName}", recordHandler.RemovePanel)
				r.Post("/publications", recordHandler.AddPublications)
				r.Delete("/publications/{pmid}", recordHandler.RemovePublication)
				r.Post("/phenotypes", recordHandler.AddPhenotypes)
				r.Delete("/phenotypes/{accession}", recordHandler.RemovePhenotype)
				r.Post("/phenotype-summary", recordHandler.AddPhenotypeSummary)
				r.Delete("/phenotype-summary", recordHandler.RemovePhenotypeSummary)
				r.Post("/variant-types", recordHandler.AddVariantTypes)
				r.Delete("/variant-types/{accession}", recordHandler.RemoveVariantType)
				r.Post("/variant-descriptions", recordHandler.AddVariantDescriptions)
				r.Delete("/variant-descriptions", recordHandler.RemoveVariantDescription)
				r.Post("/variant-consequences", recordHandler.AddVariantConsequences)
				r.Delete("/variant-consequences", recordHandler.RemoveVariantConsequence)
				r.Post("/cross-cutting-modifiers", recordHandler.AddCrossCuttingModifier)
				r.Delete("/cross-cutting-modifiers", recordHandler.RemoveCrossCuttingModifier)
				r.Post("/comments", recordHandler.AddComment)
			})
		})
	})

	listenAddr := cfg.ListenAddr
	log.Printf("Starting server on %s", listenAddr)
	server := &http.Server{
		Addr:         listenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  90 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("FATAL: Server failed: %v", err)
	}
}
