package register

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/civicspace/agora/internal/services/web/backend"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
	"golang.org/x/sync/errgroup"
)

const (
	passwordMinLength    = 8
	passwordStrongLength = 12
	minStrengthScore     = 2
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

const specialCharacters = `!@#$%^&*(),.?":{}|<>`

// Gateway checks availability and creates accounts.
type Gateway interface {
	CheckUsername(ctx context.Context, username string) (bool, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
	ValidatePassword(ctx context.Context, password string) (backend.PasswordCheck, error)
	Register(ctx context.Context, input backend.RegisterInput) (backend.Profile, error)
}

type service struct {
	gateway Gateway
}

func newService(gateway Gateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway}
}

// registerForm is the submitted registration form.
type registerForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	DisplayName     string
	Bio             string
	Location        string
	Terms           bool
}

// fieldErrors maps a form field to the localization key of its message.
type fieldErrors map[string]string

// strength scores a password: one point each for an ASCII upper case
// letter, an ASCII lower case letter, a digit, a special character and a
// length of at least passwordStrongLength.
func strength(password string) webtemplates.PasswordStrength {
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case 'A' <= r && r <= 'Z':
			upper = true
		case 'a' <= r && r <= 'z':
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(specialCharacters, r):
			special = true
		}
	}
	score := 0
	for _, ok := range []bool{upper, lower, digit, special, len([]rune(password)) >= passwordStrongLength} {
		if ok {
			score++
		}
	}
	level := "strong"
	switch {
	case score < minStrengthScore:
		level = "weak"
	case score < 4:
		level = "medium"
	}
	return webtemplates.PasswordStrength{Level: level, Score: score}
}

func validUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".") && !strings.ContainsAny(email, " \t")
}

// validate checks the form locally and builds the backend input.
func validate(form registerForm) (backend.RegisterInput, fieldErrors) {
	errs := fieldErrors{}
	input := backend.RegisterInput{
		Username:    strings.TrimSpace(form.Username),
		Email:       strings.TrimSpace(form.Email),
		Password:    form.Password,
		DisplayName: strings.TrimSpace(form.DisplayName),
		Bio:         strings.TrimSpace(form.Bio),
		Location:    strings.TrimSpace(form.Location),
	}
	if !validUsername(input.Username) {
		errs["username"] = "web.register.username_invalid"
	}
	if !validEmail(input.Email) {
		errs["email"] = "web.register.email_invalid"
	}
	switch {
	case len([]rune(form.Password)) < passwordMinLength:
		errs["password"] = "web.register.password_too_short"
	case strength(form.Password).Score < minStrengthScore:
		errs["password"] = "web.register.password_weak"
	}
	if form.ConfirmPassword != form.Password {
		errs["confirm_password"] = "web.register.password_mismatch"
	}
	if !form.Terms {
		errs["terms"] = "web.register.terms_required"
	}
	if input.DisplayName == "" {
		input.DisplayName = input.Username
	}
	if len(errs) > 0 {
		return backend.RegisterInput{}, errs
	}
	return input, nil
}

// register validates locally, checks availability with the backend and
// creates the account. Field errors come back without an error.
func (s service) register(ctx context.Context, form registerForm) (backend.Profile, fieldErrors, error) {
	input, errs := validate(form)
	if errs != nil {
		return backend.Profile{}, errs, nil
	}

	var usernameFree, emailFree bool
	var password backend.PasswordCheck
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		usernameFree, err = s.gateway.CheckUsername(gctx, input.Username)
		return err
	})
	g.Go(func() error {
		var err error
		emailFree, err = s.gateway.CheckEmail(gctx, input.Email)
		return err
	})
	g.Go(func() error {
		var err error
		password, err = s.gateway.ValidatePassword(gctx, input.Password)
		return err
	})
	if err := g.Wait(); err != nil {
		return backend.Profile{}, nil, err
	}

	errs = fieldErrors{}
	if !usernameFree {
		errs["username"] = "web.register.username_taken"
	}
	if !emailFree {
		errs["email"] = "web.register.email_taken"
	}
	if !password.Valid {
		errs["password"] = "web.register.password_rejected"
	}
	if len(errs) > 0 {
		return backend.Profile{}, errs, nil
	}

	profile, err := s.gateway.Register(ctx, input)
	if err != nil {
		return backend.Profile{}, nil, err
	}
	return profile, nil, nil
}

// checkUsername reports the live availability of a username.
func (s service) checkUsername(ctx context.Context, username string) (webtemplates.UsernameCheck, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return webtemplates.UsernameCheck{Key: "web.register.username_hint"}, nil
	case !validUsername(username):
		return webtemplates.UsernameCheck{Key: "web.register.username_invalid"}, nil
	}
	free, err := s.gateway.CheckUsername(ctx, username)
	if err != nil {
		return webtemplates.UsernameCheck{}, err
	}
	if !free {
		return webtemplates.UsernameCheck{Key: "web.register.username_taken"}, nil
	}
	return webtemplates.UsernameCheck{Available: true, Key: "web.register.username_available"}, nil
}
