package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	stdlog "log"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/hadir/core/holiday"
	"github.com/trezcool/hadir/core/user"
	dummydb "github.com/trezcool/hadir/storage/database/dummy"
)

var (
	usrRepo user.Repository
	holRepo holiday.Repository
)

func setup(t *testing.T) *commandLine {
	t.Helper()
	logger = stdlog.New(io.Discard, "", 0)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	holRepo = dummydb.NewHolidayRepository(db)

	return &commandLine{
		db:      &sqlx.DB{},
		usrRepo: usrRepo,
		holRepo: holRepo,
	}
}

func createUser(t *testing.T, name, uname, email string) user.User {
	usr := user.User{Name: name, Username: uname, Email: email, Role: user.RoleStudent, IsActive: true}
	if err := usr.SetPassword("OriginalPwd#1"); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	return usr
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "redo", "reset", "status", "version", "fix": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s requires a VERSION argument", command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create requires a NAME argument")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to requires a VERSION argument"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create requires a NAME argument"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "schedule", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := createUser(t, "User", "aweawe", "awe@test.test")

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "FreshPwd#2"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, extra: extra{pwd: "FreshPwd#3"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUserByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("AdminPwd#1"), nil }

	// bootstraps a fresh admin
	if err := cli.run([]string{"admin", "adduser", "-name", "Boss", "-username", "theboss", "-email", "boss@test.test"}); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}
	usr, err := usrRepo.GetUserByUsername(ctx, "theboss")
	if err != nil {
		t.Fatalf("GetUserByUsername() failed, %v", err)
	}
	if !usr.IsAdmin() || !usr.IsActive {
		t.Errorf("adduser created role=%s active=%v, want an active admin", usr.Role, usr.IsActive)
	}
	if err = usr.CheckPassword("AdminPwd#1"); err != nil {
		t.Errorf("CheckPassword() failed, %v", err)
	}

	// promotes an existing user
	std := createUser(t, "Student", "student1", "std@test.test")
	if err = cli.run([]string{"admin", "adduser", "-name", "Student", "-username", std.Username, "-email", std.Email}); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}
	promoted, err := usrRepo.GetUserByID(ctx, std.ID)
	if err != nil {
		t.Fatalf("GetUserByID() failed, %v", err)
	}
	if !promoted.IsAdmin() {
		t.Errorf("adduser kept role %s, want %s", promoted.Role, user.RoleAdmin)
	}
}

func Test_commandLine_seedHolidays(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	tests := []cliTest{
		{name: "no year", args: []string{"seedholidays"}, wantErr: errHelp},
		{name: "seed", args: []string{"seedholidays", "-year", "2026"}},
		{name: "seed again skips existing", args: []string{"seedholidays", "-year", "2026"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil && err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	hols, err := holRepo.QueryAllHolidays(ctx)
	if err != nil {
		t.Fatalf("QueryAllHolidays() failed, %v", err)
	}
	if len(hols) != len(nationalHolidays) {
		t.Errorf("seeded %d holidays, want %d", len(hols), len(nationalHolidays))
	}
}
