package terminal

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/form"
	"github.com/niksmo/shop-admin/internal/core/view"
)

const maxPreview = 48

func (t *Terminal) ProductsTable(ps []domain.Product) {
	if len(ps) == 0 {
		t.println(mutedStyle.Render("no products"))
		return
	}

	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			priceCell(p),
			p.ImageURL,
		})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "PRICE", "IMAGE").
		Rows(rows...)
	t.println(tbl.String())
}

func priceCell(p domain.Product) string {
	if !p.HasPrice() {
		return "n/a"
	}
	return fmt.Sprintf("$%.2f", p.Price)
}

func (t *Terminal) ProductsView(v *view.ProductsView) {
	if v.Loading() {
		t.Spinner("products")
		return
	}
	if f := v.Form(); f != nil {
		t.ProductForm(f)
		return
	}
	t.ProductsTable(v.Products())
}

func (t *Terminal) ProductForm(f *form.ProductForm) {
	s := f.State()
	t.println(titleStyle.Render(f.Title()))
	t.Banner(s.Errors)
	t.Fields(
		Field{Label: "Product Name", Kind: KindText, Value: s.Name, Error: s.Errors.Get(form.FieldName)},
		Field{Label: "Price", Kind: KindNumber, Value: s.Price, Error: s.Errors.Get(form.FieldPrice)},
		Field{Label: "Product Image", Kind: KindFile, Value: imageLabel(s.Image, s.Preview), Error: s.Errors.Get(form.FieldImage)},
	)
	t.println(accentStyle.Render("[" + f.SubmitLabel() + "]"))
}

func (t *Terminal) LoginForm(f *form.LoginForm) {
	s := f.State()
	t.println(titleStyle.Render("Login to Account"))
	t.Banner(s.Errors)
	t.Fields(
		Field{Label: "Email", Kind: KindEmail, Value: s.Email, Error: s.Errors.Get(form.FieldEmail)},
		Field{Label: "Password", Kind: KindPassword, Value: s.Password, Error: s.Errors.Get(form.FieldPassword)},
	)
	t.println(accentStyle.Render("[" + f.SubmitLabel() + "]"))
}

func (t *Terminal) RegisterForm(f *form.RegisterForm) {
	s := f.State()
	t.println(titleStyle.Render("Create an Account"))
	t.Banner(s.Errors)
	t.Fields(
		Field{Label: "First Name", Kind: KindText, Value: s.FirstName, Error: s.Errors.Get(form.FieldFirstName)},
		Field{Label: "Last Name", Kind: KindText, Value: s.LastName, Error: s.Errors.Get(form.FieldLastName)},
		Field{Label: "Email", Kind: KindEmail, Value: s.Email, Error: s.Errors.Get(form.FieldEmail)},
		Field{Label: "Password", Kind: KindPassword, Value: s.Password, Error: s.Errors.Get(form.FieldPassword)},
		Field{Label: "Profile Image", Kind: KindFile, Value: imageLabel(s.ProfileImage, s.Preview), Error: s.Errors.Get(form.FieldProfileImage)},
	)
	t.println(accentStyle.Render("[" + f.SubmitLabel() + "]"))
}

func imageLabel(img *domain.Image, preview string) string {
	if img != nil {
		return fmt.Sprintf("%s (%s, %d bytes)", img.Name, img.ContentType, len(img.Data))
	}
	if len(preview) > maxPreview {
		return preview[:maxPreview] + "…"
	}
	return preview
}
