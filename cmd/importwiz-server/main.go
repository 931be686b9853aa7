package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-importwizard/internal/api"
	"github.com/goliatone/go-importwizard/pkg/template"
	"github.com/goliatone/go-importwizard/pkg/wizard"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	base := flag.String("base", "/v1", "base path for the API routes")
	templateDir := flag.String("templates", "", "directory with additional template definitions")
	flag.Parse()

	templates, err := template.DefaultRegistry()
	if err != nil {
		log.Fatalf("Failed to load builtin templates: %v", err)
	}
	if *templateDir != "" {
		if err := template.LoadFS(templates, os.DirFS(*templateDir)); err != nil {
			log.Fatalf("Failed to load templates from %s: %v", *templateDir, err)
		}
	}

	store := api.NewStore(func() (*wizard.Session, error) {
		return wizard.New(wizard.WithTemplates(templates))
	})
	handler, err := api.NewHandler(store)
	if err != nil {
		log.Fatalf("Failed to build API handler: %v", err)
	}
	routes, err := handler.Routes()
	if err != nil {
		log.Fatalf("Failed to build routes: %v", err)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Mount(*base, routes)

	server := &http.Server{
		Addr:              *addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Import wizard API listening on %s%s", *addr, *base)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Shutdown failed: %v", err)
		}
	}
}
