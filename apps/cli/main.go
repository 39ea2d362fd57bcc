package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/pterm/pterm"

	"github.com/trezcool/projectgl/apps/views"
	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/nav"
	"github.com/trezcool/projectgl/core/session"
	apisvc "github.com/trezcool/projectgl/services/api"
	logsvc "github.com/trezcool/projectgl/services/logger"
	toastsvc "github.com/trezcool/projectgl/services/toast"
	filestore "github.com/trezcool/projectgl/storage/file"
)

func main() {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("getting working directory: %v", err)
	}
	conf, err := core.NewConfig(wd)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	// logs would clutter the output; only show them while developing
	var logOut io.Writer = io.Discard
	if conf.Debug {
		logOut = os.Stderr
	}
	logger := logsvc.NewRollbarLogger(log.New(logOut, "CLI : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	creds, err := filestore.New(conf.Credential.Dir)
	if err != nil {
		logger.Fatal("setting up credential storage", err)
	}

	toasts := toastsvc.NewQueue(toastsvc.DefaultCapacity)
	api := apisvc.New(conf, creds, toasts, logger)
	store := session.NewStore(creds, conf.Credential.Key, api.Auth, logger)
	router := nav.NewRouter(nav.NewAppTable(), nav.NewGuard(store), logger)
	store.SetNavigator(router)
	api.LogoutOnUnauthorized(store.Revoke)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	cli := commandLine{
		session: store,
		router:  router,
		api:     api,
		views:   &views.Deps{Session: store, API: api},
		toasts:  toasts,
		creds:   creds,
		credKey: conf.Credential.Key,
		out:     os.Stdout,
	}
	err = cli.run(ctx, os.Args)
	stop()
	logger.Close()
	if err != nil {
		if err != errHelp {
			pterm.Error.Println(err)
		}
		os.Exit(1)
	}
}
