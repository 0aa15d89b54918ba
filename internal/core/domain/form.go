package domain

// FormField is the reserved key of the whole-form banner.
const FormField = "form"

type FieldErrors map[string]string

func (e FieldErrors) Set(field, msg string) {
	e[field] = msg
}

func (e FieldErrors) Clear(field string) {
	delete(e, field)
}

func (e FieldErrors) Get(field string) string {
	return e[field]
}

func (e FieldErrors) Valid() bool {
	return len(e) == 0
}

func (e FieldErrors) Clone() FieldErrors {
	c := make(FieldErrors, len(e))
	for k, v := range e {
		c[k] = v
	}
	return c
}

type Mode int

const (
	ModeList Mode = iota
	ModeAdd
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "add"
	case ModeEdit:
		return "edit"
	default:
		return "list"
	}
}
