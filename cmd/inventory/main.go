package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/iyhunko/product-inventory/internal/client"
	"github.com/iyhunko/product-inventory/internal/config"
	"github.com/iyhunko/product-inventory/internal/inventory"
	"github.com/iyhunko/product-inventory/internal/logger"
	"github.com/urfave/cli/v2"
)

var formFields = []string{"name", "description", "price", "quantity"}

type app struct {
	api   *client.Client
	ctrl  *inventory.Controller
	out   io.Writer
	debug bool
}

func main() {
	conf := config.LoadClientFromEnv()
	a := &app{out: os.Stdout}

	cliApp := &cli.App{
		Name:  "inventory",
		Usage: "Manage the product inventory from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Value: conf.APIBaseURL, EnvVars: []string{config.APIBaseURLEnv}, Usage: "Base URL of the product API"},
			&cli.StringFlag{Name: "token", Value: conf.APIToken, EnvVars: []string{config.APITokenEnv}, Usage: "Bearer token for authenticated endpoints"},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm every action without asking"},
			&cli.BoolFlag{Name: "debug", EnvVars: []string{config.DebugModeEnv}, Usage: "Log requests to stderr"},
		},
		Before: a.setup,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List products",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Only show products whose name contains this text"},
				},
				Action: a.list,
			},
			{
				Name:      "show",
				Usage:     "Show one product",
				ArgsUsage: "<id>",
				Action:    a.show,
			},
			{
				Name:   "add",
				Usage:  "Add a product",
				Flags:  productFlags(),
				Action: a.add,
			},
			{
				Name:      "edit",
				Usage:     "Update a product; omitted fields keep their current value",
				ArgsUsage: "<id>",
				Flags:     productFlags(),
				Action:    a.edit,
			},
			{
				Name:      "delete",
				Usage:     "Delete a product",
				ArgsUsage: "<id>",
				Action:    a.delete,
			},
			{
				Name:   "whoami",
				Usage:  "Show the user behind the configured token",
				Action: a.whoami,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func productFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Product name"},
		&cli.StringFlag{Name: "description", Usage: "Product description"},
		&cli.StringFlag{Name: "price", Usage: "Unit price, e.g. 12.50"},
		&cli.StringFlag{Name: "quantity", Usage: "Units in stock"},
	}
}

func (a *app) setup(c *cli.Context) error {
	a.debug = c.Bool("debug")
	if a.debug {
		slog.SetDefault(logger.New(os.Stderr, true))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	a.api = client.New(c.String("api-url"), client.WithToken(c.String("token")))
	prompt := inventory.NewPrompt(os.Stdin, os.Stdout, os.Stderr, c.Bool("yes"))
	a.ctrl = inventory.NewController(a.api, prompt, prompt)
	return nil
}

func (a *app) list(c *cli.Context) error {
	if err := a.ctrl.Load(c.Context); err != nil {
		return failed(err)
	}
	a.ctrl.SetSearch(c.String("search"))
	return inventory.RenderTable(a.out, a.ctrl.Filtered())
}

func (a *app) show(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	product, err := a.api.Get(c.Context, id)
	if err != nil {
		return err
	}
	return inventory.RenderProduct(a.out, product)
}

func (a *app) add(c *cli.Context) error {
	a.ctrl.StartAdd()
	if err := a.applyFlags(c); err != nil {
		return err
	}
	return a.submit(c)
}

func (a *app) edit(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	if err := a.ctrl.Load(c.Context); err != nil {
		return failed(err)
	}
	if err := a.ctrl.StartEdit(id); err != nil {
		return err
	}
	if err := a.applyFlags(c); err != nil {
		return err
	}
	return a.submit(c)
}

func (a *app) delete(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	err = a.ctrl.Delete(c.Context, id)
	if errors.Is(err, inventory.ErrDeclined) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err != nil {
		return failed(err)
	}
	fmt.Fprintln(a.out, "Product deleted successfully")
	return nil
}

func (a *app) whoami(c *cli.Context) error {
	user, err := a.api.CurrentUser(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> (id %d)\n", user.Name, user.Email, user.ID)
	return nil
}

func (a *app) applyFlags(c *cli.Context) error {
	for _, field := range formFields {
		if !c.IsSet(field) {
			continue
		}
		if err := a.ctrl.SetField(field, c.String(field)); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) submit(c *cli.Context) error {
	err := a.ctrl.Submit(c.Context)
	if errors.Is(err, inventory.ErrDeclined) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err != nil {
		var te *client.TransportError
		if errors.As(err, &te) {
			for _, field := range formFields {
				for _, msg := range te.Fields[field] {
					fmt.Fprintf(os.Stderr, "  %s\n", msg)
				}
			}
		}
		return failed(err)
	}
	fmt.Fprintln(a.out, "Product saved.")
	return inventory.RenderTable(a.out, a.ctrl.Filtered())
}

func idArg(c *cli.Context) (int64, error) {
	if c.Args().Len() != 1 {
		return 0, cli.Exit("expected exactly one product id", 2)
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, cli.Exit(fmt.Sprintf("invalid product id %q", c.Args().First()), 2)
	}
	return id, nil
}

// failed exits non-zero once the controller has already alerted the user.
func failed(err error) error {
	slog.Debug("Command failed", slog.Any("err", err))
	return cli.Exit("", 1)
}
