// Command usersctl is a terminal front end for the user management API.
//
//	usersctl [-addr URL] [-timeout D] [-v] <list|get|create|update|delete> [flags]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"user-management-service/internal/client"
	"user-management-service/internal/ui"
	"user-management-service/pkg/logger"
)

const usage = `usage: usersctl [-addr URL] [-timeout D] [-v] <command> [flags]

commands:
  list                                     show all users
  get     -id N                            show one user
  create  -name S -email S -password S     add a user
  update  -id N [-name S] [-email S] [-password S]
  delete  -id N                            remove a user
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "usersctl:", err)
		os.Exit(1)
	}
}

// session wires the views to one API endpoint.
type session struct {
	api  *client.UsersAPI
	root *ui.RootView
	form *ui.CreateForm
	list *ui.ListView
	out  io.Writer
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := flag.NewFlagSet("usersctl", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	addr := global.String("addr", envOr("USERS_API_ADDR", "http://localhost:3000"), "API base URL")
	timeout := global.Duration("timeout", 10*time.Second, "per-request timeout")
	verbose := global.Bool("v", false, "debug logging to stderr")
	if err := global.Parse(args); err != nil {
		fmt.Fprint(out, usage)
		return err
	}
	if global.NArg() == 0 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log, err := logger.NewWithConfig(logger.Config{
		Level:       level,
		Format:      "console",
		OutputPath:  "stderr",
		ServiceName: "usersctl",
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	hook := client.NewHook(
		client.WithHTTPClient(&http.Client{Timeout: *timeout}),
		client.WithLogger(log),
	)
	s := newSession(client.NewUsersAPI(*addr, hook), log, out)

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "list":
		return s.listCmd(ctx)
	case "get":
		return s.getCmd(ctx, rest)
	case "create":
		return s.createCmd(ctx, rest)
	case "update":
		return s.updateCmd(ctx, rest)
	case "delete":
		return s.deleteCmd(ctx, rest)
	}
	fmt.Fprint(out, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

func newSession(api *client.UsersAPI, log *zap.Logger, out io.Writer) *session {
	root := ui.NewRootView(api, api.Hook(), log)
	return &session{
		api:  api,
		root: root,
		form: ui.NewCreateForm(root.AddUser),
		list: ui.NewListView(root.UpdateUser, root.DeleteUser),
		out:  out,
	}
}

func (s *session) render() error {
	return ui.RenderText(s.out, ui.Screen{
		Rows:       s.list.Rows(s.root.Users()),
		Loading:    s.root.Loading(),
		Error:      s.root.Error(),
		FormStatus: s.form.Status(),
	})
}

func (s *session) listCmd(ctx context.Context) error {
	if err := s.root.Mount(ctx); err != nil {
		return err
	}
	return s.render()
}

func (s *session) getCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	id := fs.Int64("id", 0, "user id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("get: -id is required")
	}

	u, err := s.api.Get(ctx, *id)
	if err != nil {
		return err
	}
	if u == nil {
		fmt.Fprintf(s.out, "user %d not found\n", *id)
		return nil
	}
	return ui.RenderText(s.out, ui.Screen{Rows: s.list.Rows([]client.User{*u})})
}

func (s *session) createCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	name := fs.String("name", "", "user name")
	email := fs.String("email", "", "user email")
	password := fs.String("password", "", "user password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s.form.Set(ui.FieldName, *name)
	s.form.Set(ui.FieldEmail, *email)
	s.form.Set(ui.FieldPassword, *password)
	err := s.form.Submit(ctx)
	if rerr := s.render(); rerr != nil {
		return rerr
	}
	return err
}

// updateCmd selects the user from a fresh list so fields not given on the
// command line keep their current values.
func (s *session) updateCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	id := fs.Int64("id", 0, "user id")
	fs.String("name", "", "new name")
	fs.String("email", "", "new email")
	fs.String("password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("update: -id is required")
	}

	if err := s.root.Mount(ctx); err != nil {
		return err
	}
	var target *client.User
	for _, u := range s.root.Users() {
		if u.ID == *id {
			target = &u
			break
		}
	}
	if target == nil {
		return fmt.Errorf("update: user %d not found", *id)
	}

	s.list.Select(*target)
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "id" || setErr != nil {
			return
		}
		field, err := ui.ParseField(f.Name)
		if err != nil {
			setErr = err
			return
		}
		setErr = s.list.SetField(field, f.Value.String())
	})
	if setErr != nil {
		s.list.Cancel()
		return setErr
	}

	err := s.list.SubmitEdit(ctx)
	if rerr := s.render(); rerr != nil {
		return rerr
	}
	return err
}

func (s *session) deleteCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.Int64("id", 0, "user id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return errors.New("delete: -id is required")
	}

	err := s.list.Delete(ctx, *id)
	if rerr := s.render(); rerr != nil {
		return rerr
	}
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
