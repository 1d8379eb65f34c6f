// Package main runs the interactive user directory console. All decision
// logic lives in internal/directory; this binary is a thin terminal shell
// over the store and the form controller.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aura-directory/console/config"
	"github.com/aura-directory/console/internal/directory"
	"github.com/aura-directory/console/internal/gateway"
	"github.com/aura-directory/console/internal/models"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	client, err := gateway.NewClient(cfg.Gateway.BaseURL, logger)
	if err != nil {
		logger.Fatal("gateway", zap.Error(err))
	}

	store := directory.NewStore(client, logger)
	form := directory.NewForm(client, cfg.Form.SettleDelay, logger)

	ctx := context.Background()
	saved := make(chan struct{}, 1)
	form.OnSuccess(func() {
		if err := store.Refresh(ctx, nil); err != nil {
			fmt.Println("reload failed:", store.Err())
		}
		select {
		case saved <- struct{}{}:
		default:
		}
	})

	fmt.Printf("user directory console — %s\n", cfg.Gateway.BaseURL)
	if err := store.Refresh(ctx, nil); err != nil {
		fmt.Println("error:", store.Err())
	} else {
		printUsers(store.Users())
	}

	repl(ctx, bufio.NewScanner(os.Stdin), store, form, saved)
}

func repl(ctx context.Context, in *bufio.Scanner, store *directory.Store, form *directory.Form, saved chan struct{}) {
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			printHelp()
		case "list":
			if err := store.Refresh(ctx, nil); err != nil {
				fmt.Println("error:", store.Err())
				continue
			}
			printUsers(store.Users())
		case "filter":
			text := ""
			org := ""
			if len(args) > 0 {
				text = args[0]
			}
			if len(args) > 1 {
				org = strings.Join(args[1:], " ")
			}
			if err := store.ApplyFilters(ctx, text, org); err != nil {
				fmt.Println("error:", store.Err())
				continue
			}
			printUsers(store.Users())
		case "org":
			if err := store.ApplyFilters(ctx, "", strings.Join(args, " ")); err != nil {
				fmt.Println("error:", store.Err())
				continue
			}
			printUsers(store.Users())
		case "clear":
			if err := store.ApplyFilters(ctx, "", ""); err != nil {
				fmt.Println("error:", store.Err())
				continue
			}
			printUsers(store.Users())
		case "orgs":
			for _, name := range store.Organizations() {
				fmt.Println(" ", name)
			}
		case "show":
			if len(args) != 1 {
				fmt.Println("usage: show <id>")
				continue
			}
			if err := store.ViewDetails(ctx, args[0]); err != nil {
				fmt.Println("error:", store.Err())
				continue
			}
			if u := store.Detail(); u != nil {
				printDetail(*u)
				store.CloseDetails()
			}
		case "new":
			form.Load(nil)
			runForm(ctx, in, form, saved)
		case "edit":
			if len(args) != 1 {
				fmt.Println("usage: edit <id>")
				continue
			}
			user, ok := findUser(store.Users(), args[0])
			if !ok {
				fmt.Println("no such user in the current list")
				continue
			}
			form.Load(&user)
			runForm(ctx, in, form, saved)
		case "rm":
			if len(args) != 1 {
				fmt.Println("usage: rm <id>")
				continue
			}
			runDelete(ctx, in, store, args[0])
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command; try help")
		}
	}
}

// runForm prompts for every draft field, then submits. On validation errors
// the loop re-prompts with the current values as defaults; pressing enter
// keeps a value.
func runForm(ctx context.Context, in *bufio.Scanner, form *directory.Form, saved chan struct{}) {
	prompts := []struct {
		field, label string
	}{
		{directory.FieldUsername, "username"},
		{directory.FieldFirstName, "first name"},
		{directory.FieldLastName, "last name"},
		{directory.FieldEmail, "email"},
		{directory.FieldPhone, "phone (optional)"},
		{directory.FieldOrganization, "organization (optional)"},
		{directory.FieldRole, "role (optional)"},
	}

	for {
		draft := form.Draft()
		for _, p := range prompts {
			if p.field == directory.FieldUsername && !form.UsernameEditable() {
				fmt.Printf("  username: %s (read-only)\n", draft.Username)
				continue
			}
			current := draftValue(draft, p.field)
			if current != "" {
				fmt.Printf("  %s [%s]: ", p.label, current)
			} else {
				fmt.Printf("  %s: ", p.label)
			}
			if !in.Scan() {
				form.Cancel()
				return
			}
			if value := strings.TrimSpace(in.Text()); value != "" {
				form.SetField(p.field, value)
			}
		}

		err := form.Submit(ctx)
		if err == nil {
			fmt.Println("  saving...")
			<-saved
			fmt.Println("  saved")
			return
		}
		if errs := form.FieldErrors(); len(errs) > 0 {
			for field, msg := range errs {
				fmt.Printf("  %s: %s\n", field, msg)
			}
			fmt.Println("  fix the fields above (ctrl-d cancels)")
			continue
		}
		fmt.Println("  error:", form.GeneralError())
		form.Cancel()
		return
	}
}

func runDelete(ctx context.Context, in *bufio.Scanner, store *directory.Store, id string) {
	store.RequestDelete(id)
	name := id
	if u, ok := findUser(store.Users(), id); ok {
		name = u.Username
	}
	fmt.Printf("delete %s? [y/N]: ", name)
	if !in.Scan() || strings.ToLower(strings.TrimSpace(in.Text())) != "y" {
		store.CancelDelete()
		fmt.Println("cancelled")
		return
	}
	if err := store.ConfirmDelete(ctx); err != nil {
		fmt.Println("error:", store.Err())
		return
	}
	fmt.Println("deleted")
	printUsers(store.Users())
}

func findUser(users []models.User, id string) (models.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func draftValue(d directory.FormDraft, field string) string {
	switch field {
	case directory.FieldUsername:
		return d.Username
	case directory.FieldFirstName:
		return d.FirstName
	case directory.FieldLastName:
		return d.LastName
	case directory.FieldEmail:
		return d.Email
	case directory.FieldPhone:
		return d.Phone
	case directory.FieldOrganization:
		return d.Organization
	case directory.FieldRole:
		return d.Role
	}
	return ""
}

func printUsers(users []models.User) {
	if len(users) == 0 {
		fmt.Println("no users")
		return
	}
	for _, u := range users {
		fmt.Printf("  %-36s  %-12s  %-24s  %s\n", u.ID, u.Username, u.DisplayName(), formatMemberships(u.Organizations))
	}
}

func printDetail(u models.User) {
	fmt.Printf("  id:       %s\n", u.ID)
	fmt.Printf("  username: %s\n", u.Username)
	fmt.Printf("  name:     %s\n", u.DisplayName())
	fmt.Printf("  email:    %s\n", u.Email)
	if u.Phone != "" {
		fmt.Printf("  phone:    %s\n", u.Phone)
	}
	for _, m := range u.Organizations {
		fmt.Printf("  org:      %s\n", formatMemberships([]models.Membership{m}))
	}
}

// formatMemberships renders a roleless membership distinctly from one with
// roles; the two must never look the same.
func formatMemberships(ms []models.Membership) string {
	parts := make([]string, 0, len(ms))
	for _, m := range ms {
		if len(m.Roles) == 0 {
			parts = append(parts, m.Organization+" (no roles)")
		} else {
			parts = append(parts, m.Organization+" ["+strings.Join(m.Roles, ", ")+"]")
		}
	}
	return strings.Join(parts, "; ")
}

func printHelp() {
	fmt.Println(`  list                 reload and show all users
  filter <text> [org]  filter the current list by text and organization
  org <name>           filter the current list by organization
  clear                clear filters (full reload)
  orgs                 show organization filter options
  show <id>            show one user's details
  new                  create a user
  edit <id>            edit a user from the current list
  rm <id>              delete a user (asks for confirmation)
  quit                 exit`)
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	logger, _ := config.Build()
	return logger
}
