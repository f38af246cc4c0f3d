package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/keamoral/ouijagames/services/storefront/internal/catalog"
	"github.com/keamoral/ouijagames/services/storefront/internal/form"
	"github.com/keamoral/ouijagames/services/storefront/internal/identity"
	"github.com/keamoral/ouijagames/services/storefront/internal/image"
	"github.com/keamoral/ouijagames/services/storefront/internal/listing"
	"github.com/keamoral/ouijagames/services/storefront/internal/workflow"
	prom "github.com/prometheus/client_golang/prometheus"
)

var errUsage = errors.New(usage)

type app struct {
	out        io.Writer
	registry   *prom.Registry
	controller *listing.Controller
	workflow   *workflow.Workflow
	identity   *identity.Client
	gate       *identity.Gate
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		if err := a.identity.SignOut(); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "signed out")
		return nil
	case "products":
		return a.products(ctx)
	case "show":
		return a.show(ctx, args)
	case "categories":
		return a.categories(ctx)
	case "add":
		return a.add(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	default:
		return errUsage
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var reg identity.Registration
	fs.StringVar(&reg.Username, "user", "", "username")
	fs.StringVar(&reg.RUT, "rut", "", "RUT")
	fs.StringVar(&reg.Email, "email", "", "email")
	fs.StringVar(&reg.Password, "password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := identity.Run(ctx, a.gate, func(ctx context.Context) (*identity.User, error) {
		return a.identity.Register(ctx, reg)
	})
	if err != nil {
		return errors.New(identity.Describe(err))
	}
	fmt.Fprintf(a.out, "account created for %s\n", user.Email)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := identity.Run(ctx, a.gate, func(ctx context.Context) (*identity.User, error) {
		return a.identity.SignIn(ctx, *email, *password)
	})
	if err != nil {
		return errors.New(identity.Describe(err))
	}
	fmt.Fprintf(a.out, "signed in as %s\n", user.Email)
	return nil
}

func (a *app) products(ctx context.Context) error {
	a.controller.LoadProducts(ctx)
	if msg := a.controller.Err.Get(); msg != "" {
		return errors.New(msg)
	}
	printProducts(a.out, a.controller.Products.Get())
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	a.controller.LoadProduct(ctx, id)
	if msg := a.controller.Err.Get(); msg != "" {
		return errors.New(msg)
	}
	p := a.controller.Selected.Get()
	if p == nil {
		return fmt.Errorf("product %d not found", id)
	}
	printProduct(a.out, p)
	return nil
}

func (a *app) categories(ctx context.Context) error {
	a.controller.LoadCategories(ctx)
	if msg := a.controller.Err.Get(); msg != "" {
		return errors.New(msg)
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
	for _, c := range a.controller.Categories.Get() {
		fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Description)
	}
	return w.Flush()
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	name := fs.String("name", "", "product name")
	description := fs.String("description", "", "product description")
	price := fs.String("price", "", "price, a positive integer")
	stock := fs.String("stock", "", "stock, zero or more")
	img := fs.String("img", "", "image URL")
	category := fs.String("category", "", "category id, defaults to the first category")
	localImage := fs.String("image", "", "path of a local image, takes precedence over -img")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cancel := a.workflow.WatchCategories(a.controller.Categories)
	defer cancel()
	a.controller.LoadCategories(ctx)

	a.workflow.SetName(*name)
	a.workflow.SetDescription(*description)
	a.workflow.SetPrice(*price)
	a.workflow.SetStock(*stock)
	a.workflow.SetImageURL(*img)
	if *category != "" {
		a.workflow.SetCategoryID(*category)
	}
	if *localImage != "" {
		a.workflow.SelectImage(image.Selection{Path: *localImage})
	}

	switch a.workflow.Submit(ctx) {
	case workflow.OutcomeCreated:
		a.workflow.AcknowledgeSuccess()
		fmt.Fprintln(a.out, "product created")
		printProducts(a.out, a.controller.Products.Get())
		return nil
	case workflow.OutcomeRejected:
		printFieldErrors(a.out, a.workflow.Draft.Get())
		return errors.New("product not saved")
	case workflow.OutcomeBusy:
		return errors.New("a submission is already running")
	default:
		return errors.New(a.workflow.Err.Get())
	}
}

func (a *app) delete(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}
	if !a.controller.DeleteProduct(ctx, id) {
		return errors.New(a.controller.Err.Get())
	}
	fmt.Fprintf(a.out, "product %d deleted\n", id)
	return nil
}

func idArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", args[0])
	}
	return id, nil
}

func printProducts(out io.Writer, products []catalog.Product) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tCATEGORY")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", p.ID, p.Name, p.Price, p.Stock, p.Category.Name)
	}
	w.Flush()
}

func printProduct(out io.Writer, p *catalog.Product) {
	fmt.Fprintf(out, "%s (#%d)\n%s\nprice: %d\nstock: %d\ncategory: %s\nimage: %s\n",
		p.Name, p.ID, p.Description, p.Price, p.Stock, p.Category.Name, p.ImageRef)
}

func printFieldErrors(out io.Writer, d form.Draft) {
	for _, f := range []struct{ field, msg string }{
		{"name", d.NameError},
		{"description", d.DescriptionError},
		{"price", d.PriceError},
		{"stock", d.StockError},
		{"image", d.ImageError},
	} {
		if f.msg != "" {
			fmt.Fprintf(out, "%s: %s\n", f.field, f.msg)
		}
	}
}
