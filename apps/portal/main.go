package main

import (
	"context"
	"fmt"
	"log"
	"os"

	echoportal "github.com/trezcool/projectgl/apps/portal/echo"
	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/nav"
	"github.com/trezcool/projectgl/core/session"
	apisvc "github.com/trezcool/projectgl/services/api"
	logsvc "github.com/trezcool/projectgl/services/logger"
	toastsvc "github.com/trezcool/projectgl/services/toast"
	filestore "github.com/trezcool/projectgl/storage/file"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	std := log.New(os.Stdout, "PORTAL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	wd, err := os.Getwd()
	if err != nil {
		std.Fatalf("getting working directory: %v", err)
	}
	conf, err := core.NewConfig(wd)
	if err != nil {
		std.Fatalf("loading config: %v", err)
	}

	// set up logger
	logger := logsvc.NewRollbarLogger(std, conf)
	defer logger.Close()

	// set up storage
	creds, err := filestore.New(conf.Credential.Dir)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up credential storage: %v", err), err)
	}

	// set up services
	toasts := toastsvc.NewQueue(toastsvc.DefaultCapacity)
	api := apisvc.New(conf, creds, toasts, logger)
	store := session.NewStore(creds, conf.Credential.Key, api.Auth, logger)

	table := nav.NewAppTable()
	guard := nav.NewGuard(store)
	router := nav.NewRouter(table, guard, logger)
	store.SetNavigator(router)
	api.LogoutOnUnauthorized(store.Revoke)
	router.OnChange(func(loc nav.Location) {
		logger.Debug(fmt.Sprintf("navigated to %s (requested %s)", loc.Path, loc.Requested))
	})

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// restore the session of the persisted credential, if any; the guard waits for it
	go func() {
		if err := store.LoadUser(context.Background()); err != nil {
			logger.Warn("could not restore session", err)
		}
	}()

	// =========================================================================
	// Start Portal

	server := echoportal.NewServer(
		echoportal.ServerDeps{
			Conf:    conf,
			Logger:  logger,
			Session: store,
			Table:   table,
			Guard:   guard,
			Router:  router,
			API:     api,
			Toasts:  toasts,
		},
	)

	go func() {
		logger.Info(fmt.Sprintf("portal listening on http://%s", conf.Portal.Address))
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Portal.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
