package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/joho/godotenv"
	"github.com/mistertach/tennis-ladder/config"
	"github.com/mistertach/tennis-ladder/controller"
	"github.com/mistertach/tennis-ladder/db"
	"github.com/mistertach/tennis-ladder/seed"
	"github.com/mistertach/tennis-ladder/web"
	"github.com/sirupsen/logrus"
)

func main() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logrus.Fatalf("Error loading .env file: %v", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}
	log := cfg.Log.NewLogger()

	clock := clock.New()
	db, err := db.New(context.Background(), cfg.Database.ConnString, clock,
		db.WithLockTimeout(cfg.Database.LockTimeout),
		db.WithTxTimeout(cfg.Database.TxTimeout))
	if err != nil {
		log.Fatalf("cannot connect to DB: %v", err)
	}

	ctrl, err := controller.New(clock, db, log)
	if err != nil {
		log.Fatalf("error creating a new controller: %v", err)
	}

	if cfg.SeedFile != "" {
		if err := seedLeagues(ctrl, cfg.SeedFile, log); err != nil {
			log.Fatalf("error seeding leagues: %v", err)
		}
	}

	server, err := web.NewServer(cfg.Web.Port, ctrl, cfg.Admins(), log)
	if err != nil {
		log.Fatalf("error creating new web server: %v", err)
	}

	shutdown := make(chan bool)
	wg := &sync.WaitGroup{}

	// Setup a handler to catch ctrl-c signals and properly shutdown everything.
	intChannel := make(chan os.Signal, 2)
	signal.Notify(intChannel, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-intChannel
		close(shutdown)

		if err := waitTimeout(wg, 10*time.Second); err != nil {
			log.Error("timed out waiting for proper shutdown")
			os.Exit(255)
		}
	}()

	// Start the web server
	wg.Add(1)
	go server.ListenAndServe(shutdown, wg)

	// Wait for everything to stop.
	wg.Wait()
	log.Info("server shutdown")
}

func seedLeagues(ctrl controller.C, path string, log *logrus.Logger) error {
	f, err := seed.Load(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	created, err := seed.Apply(ctx, ctrl, f, log)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"file": path, "created": created}).Info("seeded leagues")
	return nil
}

func waitTimeout(wg *sync.WaitGroup, timeout time.Duration) error {
	c := make(chan any)
	go func() {
		defer close(c)
		wg.Wait()
	}()

	select {
	case <-c:
		return nil // completed normally
	case <-time.After(timeout):
		return errors.New("timed out waiting")
	}
}
