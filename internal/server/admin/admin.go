// Package admin implements the operator command line: schema migration and
// reset, account creation, store health checks and course cover uploads.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gremath/internal/common"
	"github.com/dmitrijs2005/gremath/internal/filex"
	"github.com/dmitrijs2005/gremath/internal/flagx"
	"github.com/dmitrijs2005/gremath/internal/netx"
	"github.com/dmitrijs2005/gremath/internal/server/models"
	"golang.org/x/term"
)

var ErrUsage = errors.New("usage error")

const usage = `Usage: admin <command> [flags]

Commands:
  migrate                              apply pending schema migrations
  reset [-yes]                         drop every table and re-apply migrations
  create-user -email E [-role R]       create an account; password is read from the terminal
  check                                ping PostgreSQL and MongoDB
  upload-cover -course N -file PATH    upload a course cover image
`

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type App struct {
	backend Backend
	in      *bufio.Reader
	out     io.Writer
	upload  func(ctx context.Context, url, contentType string, body []byte) error
}

func NewApp(b Backend, in io.Reader, out io.Writer) *App {
	return &App{backend: b, in: bufio.NewReader(in), out: out, upload: netx.UploadToPresignedURL}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "migrate":
		return a.migrate(ctx)
	case "reset":
		return a.reset(ctx, rest)
	case "create-user":
		return a.createUser(ctx, rest)
	case "check":
		return a.check(ctx)
	case "upload-cover":
		return a.uploadCover(ctx, rest)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprintf(a.out, "Unknown command: %s\n\n%s", cmd, usage)
		return ErrUsage
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *App) migrate(ctx context.Context) error {
	if err := a.backend.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintln(a.out, "Migrations applied")
	return nil
}

func (a *App) reset(ctx context.Context, args []string) error {
	fs := newFlagSet("reset")
	yes := fs.Bool("yes", false, "skip confirmation")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-yes"})); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if !*yes {
		fmt.Fprint(a.out, "This drops all relational data. Type 'yes' to continue: ")
		answer, _ := a.in.ReadString('\n')
		if strings.TrimSpace(answer) != "yes" {
			fmt.Fprintln(a.out, "Aborted")
			return nil
		}
	}

	if err := a.backend.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Schema reset")
	return nil
}

func (a *App) createUser(ctx context.Context, args []string) error {
	fs := newFlagSet("create-user")
	email := fs.String("email", "", "account email")
	role := fs.String("role", string(models.RoleStudent), "student, teacher or admin")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "-role"})); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *email == "" {
		return fmt.Errorf("%w: -email is required", ErrUsage)
	}
	if !models.Role(*role).Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrUsage, *role)
	}

	fmt.Fprint(a.out, "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	defer common.WipeByteArray(pw)

	u, err := a.backend.CreateUser(ctx, *email, string(pw), models.Role(*role))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(a.out, "Created user %d (%s, %s)\n", u.ID, u.Email, u.Role)
	return nil
}

func (a *App) check(ctx context.Context) error {
	status := a.backend.Check(ctx)

	names := make([]string, 0, len(status))
	for name := range status {
		names = append(names, name)
	}
	sort.Strings(names)

	var down []string
	for _, name := range names {
		state := "ok"
		if !status[name] {
			state = "unreachable"
			down = append(down, name)
		}
		fmt.Fprintf(a.out, "%s: %s\n", name, state)
	}

	if len(down) > 0 {
		return fmt.Errorf("%w: %s", common.ErrStoreUnavailable, strings.Join(down, ", "))
	}
	return nil
}

func (a *App) uploadCover(ctx context.Context, args []string) error {
	fs := newFlagSet("upload-cover")
	courseID := fs.Int64("course", 0, "course id")
	path := fs.String("file", "", "image file")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-course", "-file"})); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if *courseID <= 0 || *path == "" {
		return fmt.Errorf("%w: -course and -file are required", ErrUsage)
	}

	data, contentType, err := filex.ReadUpload(*path)
	if err != nil {
		return err
	}

	up, err := a.backend.CoverUploadURL(ctx, *courseID)
	if err != nil {
		return fmt.Errorf("presign: %w", err)
	}

	if err := a.upload(ctx, up.UploadURL, contentType, data); err != nil {
		return err
	}

	if _, err := a.backend.ConfirmCover(ctx, *courseID, up.Key); err != nil {
		return fmt.Errorf("confirm: %w", err)
	}

	fmt.Fprintf(a.out, "Uploaded %s\n", up.Key)
	return nil
}
