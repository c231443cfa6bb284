package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/divVerent/midisplit/internal/server"
	"github.com/divVerent/midisplit/internal/version"
)

var (
	listen  = flag.String("listen", ":8080", "address to listen on")
	origins = flag.String("cors_origins", "*", "comma separated list of origins allowed to call the API")
)

func Main() error {
	srv := &http.Server{
		Addr:              *listen,
		Handler:           server.New(strings.Split(*origins, ",")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("midisplit %v listening on %v", version.Version(), *listen)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func main() {
	flag.Parse()
	err := Main()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
