package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/owndesign/owndesign/internal/app"
	"github.com/owndesign/owndesign/internal/config"
	"github.com/owndesign/owndesign/internal/database"
	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/email"
	"github.com/owndesign/owndesign/internal/filestore"
	"github.com/owndesign/owndesign/internal/logging"
	"github.com/owndesign/owndesign/internal/pubsub"
	"github.com/owndesign/owndesign/internal/registry"
	"github.com/owndesign/owndesign/internal/rendering"
	"github.com/owndesign/owndesign/internal/server"
	"github.com/owndesign/owndesign/internal/storage"
)

func main() {
	logging.New()
	if err := run(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.New()
	reg := registry.New(cfg)

	// --- Database ---
	conn := database.NewConnection(cfg)
	if err := conn.Connect(ctx); err != nil {
		return err
	}
	defer conn.Close(context.Background())
	conn.StartMonitoring()

	if err := database.ApplySchema(ctx, conn); err != nil {
		return err
	}

	// Record user sign-in changes the authentication of the connection it
	// runs on, so it gets its own.
	session := database.NewConnection(cfg, database.AsSession())
	if err := session.Connect(ctx); err != nil {
		return err
	}
	defer session.Close(context.Background())
	session.StartMonitoring()

	userClient, err := database.NewClient[domain.User](conn, cfg)
	if err != nil {
		return err
	}
	profileClient, err := database.NewClient[domain.Profile](conn, cfg)
	if err != nil {
		return err
	}
	galleryClient, err := database.NewClient[domain.GalleryImage](conn, cfg)
	if err != nil {
		return err
	}
	users := database.NewUserStore(userClient, session)
	profiles := database.NewProfileStore(profileClient)
	gallery := database.NewGalleryStore(galleryClient)

	// --- Object storage ---
	objects := storage.NewAferoStore(afero.NewOsFs(), cfg.GetStorageDir(), cfg.GetStorageBucket())
	media := filestore.NewService(objects, cfg)

	// --- Event bus ---
	tracer, shutdownTracing, err := pubsub.SetupOTel(ctx, pubsub.TracingConfigFrom(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("Failed to flush traces", "error", err)
		}
	}()
	bus := pubsub.NewWatermillBridgeWithTracer(tracer)
	defer bus.Close()

	registry.Set(reg, registry.GalleryRepositoryKey, domain.GalleryRepository(gallery))
	registry.Set(reg, registry.PublisherKey, pubsub.Publisher(bus))
	registry.Set(reg, registry.SubscriberKey, pubsub.Subscriber(bus))

	emailer, err := email.NewEmailService(cfg)
	if err != nil {
		return err
	}

	s, err := server.New(server.Dependencies{
		Config:    cfg,
		Emailer:   emailer,
		UserStore: users,
		Profiles:  profiles,
		Objects:   objects,
		Renderer:  rendering.NewUniversalRenderer(),
	})
	if err != nil {
		return err
	}

	modules := app.NewModules(app.Dependencies{
		Users:      users,
		Profiles:   profiles,
		Gallery:    gallery,
		Objects:    objects,
		Media:      media,
		Publisher:  bus,
		Subscriber: bus,
	})
	if err := s.InitModules(ctx, modules, reg); err != nil {
		return err
	}
	s.RegisterRoutes()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
