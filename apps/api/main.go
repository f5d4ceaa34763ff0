package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/kosoa/apps/api/echo"
	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/access"
	"github.com/trezcool/kosoa/core/annotation"
	"github.com/trezcool/kosoa/core/audit"
	"github.com/trezcool/kosoa/core/class"
	"github.com/trezcool/kosoa/core/correction"
	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/submission"
	"github.com/trezcool/kosoa/core/task"
	"github.com/trezcool/kosoa/core/taskresource"
	"github.com/trezcool/kosoa/core/user"
	"github.com/trezcool/kosoa/core/workflow"
	emailsvc "github.com/trezcool/kosoa/services/email"
	logsvc "github.com/trezcool/kosoa/services/logger"
	"github.com/trezcool/kosoa/storage/database"
	sqlxrepos "github.com/trezcool/kosoa/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf, err := core.NewConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

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
			logger.Error("failed to close DB", err)
		}
	}()
	dbx := sqlx.NewDb(db, conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger, conf)
	}

	wfSvc := workflow.NewService()

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(dbx), mailSvc, conf)
	mbSvc := membership.NewService(sqlxrepos.NewMembershipRepository(dbx))
	classSvc := class.NewService(sqlxrepos.NewClassRepository(dbx), mbSvc)
	taskSvc := task.NewService(sqlxrepos.NewTaskRepository(dbx), wfSvc)
	trSvc := taskresource.NewService(sqlxrepos.NewTaskResourceRepository(dbx))
	subSvc := submission.NewService(sqlxrepos.NewSubmissionRepository(dbx), wfSvc)
	corSvc := correction.NewService(sqlxrepos.NewCorrectionRepository(dbx), wfSvc, subSvc)
	annSvc := annotation.NewService(sqlxrepos.NewAnnotationRepository(dbx))
	auditSvc := audit.NewService(sqlxrepos.NewAuditRepository(dbx), logger)

	chains := access.NewChainResolver(usrSvc, classSvc, mbSvc, taskSvc, trSvc, subSvc, corSvc, annSvc)
	guard := access.NewGuard(chains, mbSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:            conf,
			Logger:          logger,
			MailSvc:         mailSvc,
			UserSvc:         usrSvc,
			ClassSvc:        classSvc,
			MembershipSvc:   mbSvc,
			TaskSvc:         taskSvc,
			TaskResourceSvc: trSvc,
			SubmissionSvc:   subSvc,
			CorrectionSvc:   corSvc,
			AnnotationSvc:   annSvc,
			AuditSvc:        auditSvc,
			Guard:           guard,
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
