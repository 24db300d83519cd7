package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/stebinsabu13/fastlane/pkg/app"
	"github.com/stebinsabu13/fastlane/pkg/cart"
	"github.com/stebinsabu13/fastlane/pkg/config"
	"github.com/stebinsabu13/fastlane/pkg/handlers"
	"github.com/stebinsabu13/fastlane/pkg/models"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.WithError(err).Fatal("fastlane failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "fastlane",
		Usage:    "cart and category catalog for the FastLane F1 scale-model store",
		Metadata: map[string]any{},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level, err := log.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			c.App.Metadata["config"] = cfg
			return nil
		},
		Commands: []*cli.Command{
			categoriesCommand(),
			cartCommand(),
			summaryCommand(),
			lambdaCommand(),
		},
	}
}

func configFrom(c *cli.Context) *config.Config {
	return c.App.Metadata["config"].(*config.Config)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "load the category catalog and print it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Usage: "only categories of this type"},
			&cli.StringFlag{Name: "id", Usage: "a single category"},
			&cli.BoolFlag{Name: "counts", Usage: "print counts per type"},
		},
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			loader, err := app.NewCatalogLoader(cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(c.Context, cfg.CatalogTimeout)
			defer cancel()
			loader.Load(ctx)

			switch {
			case c.String("id") != "":
				category, ok := loader.CategoryByID(c.String("id"))
				if !ok {
					return cli.Exit(fmt.Sprintf("category %q not found", c.String("id")), 1)
				}
				return printJSON(category)
			case c.Bool("counts"):
				return printJSON(loader.CountByType())
			case c.String("type") != "":
				typ, err := models.ParseCategoryType(c.String("type"))
				if err != nil {
					return err
				}
				return printJSON(loader.CategoriesByType(typ))
			default:
				return printJSON(loader.Categories())
			}
		},
	}
}

// withApp bootstraps the application for one command and closes it afterwards.
func withApp(fn func(c *cli.Context, a *app.App) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := app.Bootstrap(c.Context, configFrom(c))
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(c, a)
	}
}

func printCart(s *cart.Store) error {
	return printJSON(map[string]any{
		"items": s.Items(),
		"total": s.Total(),
		"count": s.ItemCount(),
	})
}

func cartCommand() *cli.Command {
	productFlags := []cli.Flag{
		&cli.IntFlag{Name: "id", Required: true},
		&cli.StringFlag{Name: "name", Required: true},
		&cli.StringFlag{Name: "price", Required: true},
		&cli.StringFlag{Name: "category"},
	}
	return &cli.Command{
		Name:  "cart",
		Usage: "inspect and change the cart (kept across runs with redis or postgres storage)",
		Before: func(c *cli.Context) error {
			if !configFrom(c).PersistentStorage() {
				log.WithField("storage", configFrom(c).Storage).
					Warn("Cart storage is in memory, changes are lost when the command exits")
			}
			return nil
		},
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Action: withApp(func(c *cli.Context, a *app.App) error { return printCart(a.Cart) }),
			},
			{
				Name:  "add",
				Flags: productFlags,
				Action: withApp(func(c *cli.Context, a *app.App) error {
					price, err := decimal.NewFromString(c.String("price"))
					if err != nil {
						return cli.Exit(fmt.Sprintf("invalid price %q", c.String("price")), 1)
					}
					a.Cart.AddToCart(models.Product{
						ID:       c.Int("id"),
						Name:     c.String("name"),
						Category: c.String("category"),
						Price:    price,
						InStock:  true,
					})
					log.Info(a.Notifier.Current().Message)
					return printCart(a.Cart)
				}),
			},
			{
				Name:  "remove",
				Flags: []cli.Flag{&cli.IntFlag{Name: "id", Required: true}},
				Action: withApp(func(c *cli.Context, a *app.App) error {
					a.Cart.RemoveFromCart(c.Int("id"))
					return printCart(a.Cart)
				}),
			},
			{
				Name: "update",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "id", Required: true},
					&cli.IntFlag{Name: "quantity", Required: true},
				},
				Action: withApp(func(c *cli.Context, a *app.App) error {
					a.Cart.UpdateQuantity(c.Int("id"), c.Int("quantity"))
					return printCart(a.Cart)
				}),
			},
			{
				Name: "clear",
				Action: withApp(func(c *cli.Context, a *app.App) error {
					a.Cart.ClearCart()
					return printCart(a.Cart)
				}),
			},
			{
				Name:  "export",
				Usage: "write the cart as CSV to stdout",
				Action: withApp(func(c *cli.Context, a *app.App) error {
					return cart.WriteCSV(os.Stdout, a.Cart.Items())
				}),
			},
		},
	}
}

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "print cart totals and category counts",
		Action: withApp(func(c *cli.Context, a *app.App) error {
			return printJSON(map[string]any{
				"cartTotal":     a.Cart.Total(),
				"cartItemCount": a.Cart.ItemCount(),
				"categories":    a.Catalog.CountByType(),
				"catalogError":  a.Catalog.Err(),
			})
		}),
	}
}

func lambdaCommand() *cli.Command {
	return &cli.Command{
		Name:  "lambda",
		Usage: "run as an AWS Lambda function",
		Action: func(c *cli.Context) error {
			cfg := configFrom(c)
			loader, err := app.NewCatalogLoader(cfg)
			if err != nil {
				return err
			}
			if cfg.LambdaHandler == "s3" {
				h := &handlers.CatalogUpdated{Loader: loader, Bucket: cfg.S3Bucket, Key: cfg.S3Key}
				lambda.StartWithOptions(h.Handle, lambda.WithContext(c.Context))
				return nil
			}
			lambda.StartWithOptions(handlers.NewAPI(loader).HandleCategories, lambda.WithContext(c.Context))
			return nil
		},
	}
}
