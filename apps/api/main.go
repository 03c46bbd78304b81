package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/shulehq/shule/api/echo"
	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/auth"
	"github.com/shulehq/shule/core/class"
	"github.com/shulehq/shule/core/performance"
	"github.com/shulehq/shule/core/role"
	"github.com/shulehq/shule/core/student"
	"github.com/shulehq/shule/core/tenant"
	"github.com/shulehq/shule/core/user"
	emailsvc "github.com/shulehq/shule/services/email"
	logsvc "github.com/shulehq/shule/services/logger"
	"github.com/shulehq/shule/storage/database"
	sqlxrepos "github.com/shulehq/shule/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
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

	// set up repositories
	tenantRepo := sqlxrepos.NewTenantRepository(db)
	userRepo := sqlxrepos.NewUserRepository(db)
	roleRepo := sqlxrepos.NewRoleRepository(db)
	studentRepo := sqlxrepos.NewStudentRepository(db)
	classRepo := sqlxrepos.NewClassRepository(db)
	perfRepo := sqlxrepos.NewPerformanceRepository(db)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	tenantSvc := tenant.NewService(tenantRepo, userRepo, mailSvc, conf)
	userSvc := user.NewService(userRepo, roleRepo)
	roleSvc := role.NewService(roleRepo)
	studentSvc := student.NewService(studentRepo, userRepo, roleRepo)
	classSvc := class.NewService(classRepo)
	perfSvc := performance.NewService(perfRepo, studentRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Gateway:    auth.NewGatewayGuard(conf),
			TokenSvc:   auth.NewTokenService(conf),
			Evaluator:  auth.NewEvaluator(roleRepo),
			TenantSvc:  tenantSvc,
			UserSvc:    userSvc,
			RoleSvc:    roleSvc,
			StudentSvc: studentSvc,
			ClassSvc:   classSvc,
			PerfSvc:    perfSvc,
		},
	)

	go func() {
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
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
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

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db, "migrations"); err != nil {
		return nil, err
	}
	return db, nil
}
