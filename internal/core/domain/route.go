package domain

const (
	PathSignIn   = "/"
	PathLogin    = "/login"
	PathRegister = "/register"
	PathProducts = "/products"
)
