package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/darasahq/darasa/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sql.DB
	usrRepo user.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addaccount -name NAME -email EMAIL [-role ROLE] - create or update an account")
	fmt.Println("  resetpassword -email EMAIL - reset an account's password")
	fmt.Println("  migrate COMMAND [ARGS...] - run database migrations; see goose for commands")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addAccountCmd := flag.NewFlagSet("addaccount", flag.ExitOnError)
	addAccountName := addAccountCmd.String("name", "", "The account holder's full name.")
	addAccountEmail := addAccountCmd.String("email", "", "The account's email. The password will be prompted next.")
	addAccountRole := addAccountCmd.String("role", user.RoleStudent, "One of: admin, teacher, student, parent.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The account's email. The password will be prompted next.")

	switch args[1] {
	case "addaccount":
		if err := addAccountCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addAccountName == "" || *addAccountEmail == "" {
			addAccountCmd.Usage()
			return errHelp
		}
		if !user.KnownRole(*addAccountRole) {
			addAccountCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addAccountCmd.Usage()
			return errHelp
		}
		return cli.addAccount(*addAccountName, *addAccountEmail, *addAccountRole, string(pwd))
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, string(pwd))
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() ([]byte, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	return pwd, err
}
