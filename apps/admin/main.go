package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/class"
	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/task"
	"github.com/trezcool/kosoa/core/user"
	"github.com/trezcool/kosoa/core/workflow"
	emailsvc "github.com/trezcool/kosoa/services/email"
	"github.com/trezcool/kosoa/storage/database"
	sqlxrepos "github.com/trezcool/kosoa/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())
	dbx := sqlx.NewDb(db, conf.Database.Engine)

	// start CLI
	mbSvc := membership.NewService(sqlxrepos.NewMembershipRepository(dbx))
	cli := commandLine{
		db:       db,
		usrSvc:   user.NewService(sqlxrepos.NewUserRepository(dbx), emailsvc.NewConsoleService(conf), conf),
		classSvc: class.NewService(sqlxrepos.NewClassRepository(dbx), mbSvc),
		mbSvc:    mbSvc,
		taskSvc:  task.NewService(sqlxrepos.NewTaskRepository(dbx), workflow.NewService()),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
