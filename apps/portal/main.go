package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/auth"
	"github.com/darasahq/darasa/core/user"
	"github.com/darasahq/darasa/portal"
	emailsvc "github.com/darasahq/darasa/services/email"
	logsvc "github.com/darasahq/darasa/services/logger"
	"github.com/darasahq/darasa/storage/database"
	"github.com/darasahq/darasa/storage/database/sqlxrepos"
	"github.com/darasahq/darasa/storage/sessioncache"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "PORTAL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db, conf), mailSvc, conf)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	user.Init(conf)

	core.ParseEmailTemplates(conf, logger)
	user.LoadCommonPasswords(conf, logger)

	cache, err := sessioncache.NewFileCache(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up session cache: %v", err), err)
	}
	authn := auth.NewAuthenticator(usrSvc, cache, conf, logger)
	dispatcher := portal.NewDispatcher(authn.Logout, portal.NewDashboards(usrSvc)...)

	// =========================================================================
	// Start Portal

	ctx := context.Background()
	a := &app{
		authn:      authn,
		dispatcher: dispatcher,
		usrSvc:     usrSvc,
		validate:   validate,
		translator: translator,
		in:         bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}

	// resume the previous session, if any
	if _, ok := authn.Restore(ctx); ok {
		_ = a.Home(ctx)
	}

	runREPL(ctx, a, bufio.NewScanner(os.Stdin))
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
