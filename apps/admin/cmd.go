package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/dkasongo/darasa/core"
	"github.com/dkasongo/darasa/core/backup"
	"github.com/dkasongo/darasa/core/classroom"
	"github.com/dkasongo/darasa/core/sync"
	"github.com/dkasongo/darasa/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db       *sql.DB
	local    classroom.Repository
	syncSvc  *sync.Service
	restorer *backup.Restorer
	usrSvc   *user.Service
	mailSvc  core.EmailService
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  createdb                                   - provision the cloud database and run all migrations")
	fmt.Fprintln(cli.out, "  migrate COMMAND [args]                     - run database migrations (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  sync                                       - reconcile the local store with the cloud")
	fmt.Fprintln(cli.out, "  backup -o FILE [-email ADDRESS]            - export all local data to a backup file")
	fmt.Fprintln(cli.out, "  restore -i FILE [-y]                       - replace all local data from a backup file")
	fmt.Fprintln(cli.out, "  report -class ID -kind KIND -o FILE        - export a class report (attendance|grades|summary)")
	fmt.Fprintln(cli.out, "  adduser -username USERNAME -email EMAIL [-admin] - create a web account; password prompted")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	backupCmd := flag.NewFlagSet("backup", flag.ExitOnError)
	backupOut := backupCmd.String("o", "", "Output file path.")
	backupEmail := backupCmd.String("email", "", "Also email the backup to this address.")

	restoreCmd := flag.NewFlagSet("restore", flag.ExitOnError)
	restoreIn := restoreCmd.String("i", "", "Backup file to restore from.")
	restoreYes := restoreCmd.Bool("y", false, "Skip the interactive confirmation.")

	reportCmd := flag.NewFlagSet("report", flag.ExitOnError)
	reportClass := reportCmd.String("class", "", "Class id.")
	reportKind := reportCmd.String("kind", "attendance", "Report kind: attendance, grades or summary.")
	reportOut := reportCmd.String("o", "", "Output file path.")

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserUname := addUserCmd.String("username", "", "The user's username.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserAdmin := addUserCmd.Bool("admin", false, "Grant the admin role.")

	switch args[1] {
	case "createdb":
		return cli.createDB()
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "sync":
		return cli.sync()
	case "backup":
		if err := backupCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *backupOut == "" && *backupEmail == "" {
			backupCmd.Usage()
			return errHelp
		}
		return cli.backup(*backupOut, *backupEmail)
	case "restore":
		if err := restoreCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *restoreIn == "" {
			restoreCmd.Usage()
			return errHelp
		}
		return cli.restore(*restoreIn, *restoreYes)
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *reportClass == "" || *reportOut == "" {
			reportCmd.Usage()
			return errHelp
		}
		return cli.report(*reportClass, *reportKind, *reportOut)
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserUname, *addUserEmail, string(pwd), *addUserAdmin)
	default:
		cli.printUsage()
		return errHelp
	}
}
