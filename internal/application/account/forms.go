package account

// SignupForm is the decoded signup POST body. Labels feed the
// translated validation messages.
type SignupForm struct {
	FullName        string `validate:"min=3" label:"Full name"`
	Email           string `validate:"signup_email" label:"Email"`
	PhoneNumber     string `validate:"phone_digits=10" label:"Phone number"`
	Password        string `validate:"min=8" label:"Password"`
	ConfirmPassword string `validate:"eqfield=Password" label:"Confirm password"`
}

// LoginForm is the decoded login POST body. Username carries the email.
type LoginForm struct {
	Username string
	Password string
}

type Flag int

const (
	FlagUnset Flag = iota
	FlagValid
	FlagInvalid
)

// Class maps a flag to the CSS class the form templates use.
func (f Flag) Class() string {
	switch f {
	case FlagValid:
		return "is-valid"
	case FlagInvalid:
		return "is-invalid"
	default:
		return ""
	}
}

type FieldFlags struct {
	FullName        Flag
	Email           Flag
	PhoneNumber     Flag
	Password        Flag
	ConfirmPassword Flag
}

// SignupCheck is the per-field outcome of validating a SignupForm.
// Messages are ordered name, email, phone, password.
type SignupCheck struct {
	Flags    FieldFlags
	Messages []string
}

func (c SignupCheck) Valid() bool {
	f := c.Flags
	return f.FullName == FlagValid &&
		f.Email == FlagValid &&
		f.PhoneNumber == FlagValid &&
		f.Password == FlagValid &&
		f.ConfirmPassword == FlagValid
}

// InvalidFields lists the form field names flagged invalid.
func (c SignupCheck) InvalidFields() []string {
	var out []string
	add := func(name string, f Flag) {
		if f == FlagInvalid {
			out = append(out, name)
		}
	}
	add("full_name", c.Flags.FullName)
	add("email", c.Flags.Email)
	add("phone_number", c.Flags.PhoneNumber)
	add("password", c.Flags.Password)
	add("confirm_password", c.Flags.ConfirmPassword)
	return out
}
