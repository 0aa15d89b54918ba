package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/niksmo/shop-admin/internal/app"
	"github.com/spf13/pflag"
)

func loginCmd(ctx context.Context, a *app.Admin, args []string) (func() error, error) {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return func() error {
		return a.Login(ctx, *email, *password)
	}, nil
}

func registerCmd(ctx context.Context, a *app.Admin, args []string) (func() error, error) {
	fs := newFlagSet("register")
	var ra app.RegisterArgs
	fs.StringVar(&ra.FirstName, "first-name", "", "first name")
	fs.StringVar(&ra.LastName, "last-name", "", "last name")
	fs.StringVar(&ra.Email, "email", "", "account email")
	fs.StringVar(&ra.Password, "password", "", "account password, at least 8 characters")
	fs.StringVar(&ra.ImagePath, "image", "", "profile image file")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return func() error {
		return a.Register(ctx, ra)
	}, nil
}

func logoutCmd(ctx context.Context, a *app.Admin, args []string) (func() error, error) {
	fs := newFlagSet("logout")
	yes := fs.BoolP("yes", "y", false, "do not ask for confirmation")
	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return func() error {
		return a.Logout(ctx, *yes)
	}, nil
}

func productsCmd(ctx context.Context, a *app.Admin, args []string) (func() error, error) {
	sub := "list"
	if len(args) != 0 && args[0] != "" && args[0][0] != '-' {
		sub, args = args[0], args[1:]
	}

	fs := newFlagSet("products " + sub)
	switch sub {
	case "list":
		if err := parse(fs, args); err != nil {
			return nil, err
		}
		return func() error { return a.Products(ctx) }, nil

	case "add", "edit":
		id := fs.Int64("id", 0, "product id, edit only")
		name := fs.String("name", "", "product name")
		price := fs.String("price", "", "product price")
		image := fs.String("image", "", "product image file")
		remove := fs.Bool("remove-image", false, "drop the chosen image, edit only")
		if err := parse(fs, args); err != nil {
			return nil, err
		}
		pa := productArgs(fs, *name, *price, *image, *remove)

		if sub == "add" {
			// Unset fields are submitted blank so the form reports them.
			if pa.Name == nil {
				pa.Name = name
			}
			if pa.Price == nil {
				pa.Price = price
			}
			return func() error { return a.AddProduct(ctx, pa) }, nil
		}
		if *id <= 0 {
			return nil, errors.New("products edit: --id is required")
		}
		return func() error { return a.EditProduct(ctx, *id, pa) }, nil

	case "delete":
		id := fs.Int64("id", 0, "product id")
		yes := fs.BoolP("yes", "y", false, "do not ask for confirmation")
		if err := parse(fs, args); err != nil {
			return nil, err
		}
		if *id <= 0 {
			return nil, errors.New("products delete: --id is required")
		}
		return func() error { return a.DeleteProduct(ctx, *id, *yes) }, nil
	}
	return nil, fmt.Errorf("unknown products command %q", sub)
}

func productArgs(
	fs *pflag.FlagSet, name, price, image string, remove bool,
) app.ProductArgs {
	pa := app.ProductArgs{ImagePath: image, RemoveImage: remove}
	if fs.Changed("name") {
		pa.Name = &name
	}
	if fs.Changed("price") {
		pa.Price = &price
	}
	return pa
}
