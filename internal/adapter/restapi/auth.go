package restapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/niksmo/shop-admin/internal/core/domain"
)

func (c Client) Login(
	ctx context.Context, creds domain.Credentials,
) (domain.Session, error) {
	const op = "Client.Login"

	fd := newFormData()
	fd.field("email", creds.Email)
	fd.field("password", creds.Password)
	body, contentType, err := fd.finish()
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	var resp loginResponse
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/task-login",
		body:        body,
		contentType: contentType,
	}, &resp)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.Session{Token: resp.Token, User: resp.User}, nil
}

func (c Client) Register(ctx context.Context, reg domain.Registration) error {
	const op = "Client.Register"

	fd := newFormData()
	fd.field("first_name", reg.FirstName)
	fd.field("last_name", reg.LastName)
	fd.field("email", reg.Email)
	fd.field("password", reg.Password)
	fd.field("password_confirmation", reg.Password)
	fd.field("user_name", reg.UserName())
	fd.file("profile_image", reg.ProfileImage)
	body, contentType, err := fd.finish()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/register",
		body:        body,
		contentType: contentType,
	}, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c Client) Logout(ctx context.Context) error {
	const op = "Client.Logout"

	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/logout",
		body:        strings.NewReader("{}"),
		contentType: "application/json",
		bearer:      true,
	}, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
