// validation проверяет тело регистрации через go-playground/validator.
//
// Все правила вычисляются независимо, нарушения собираются полностью:
// одно поле может дать несколько записей (например, короткий и не
// алфавитно-цифровой Username).
package validation

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/myflixjw/movie-api/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Violation - одно нарушение правила; формат совместим с клиентами.
type Violation struct {
	Location string `json:"location"`
	Param    string `json:"param"`
	Value    any    `json:"value"`
	Msg      string `json:"msg"`
}

// Violations - набор нарушений; реализует error.
type Violations []Violation

func (v Violations) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Param+": "+e.Msg)
	}

	return "validation failed: " + strings.Join(msgs, "; ")
}

// RegisterRequest - тело POST /users.
type RegisterRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
	Email    string `json:"Email"`
	Birthday string `json:"Birthday,omitempty"`
}

type rule struct {
	param string
	tag   string
	msg   string
	value func(*RegisterRequest) string
}

var registerRules = []rule{
	{"Username", "min=3", "Username is required", func(r *RegisterRequest) string { return r.Username }},
	{"Username", "alphanum", "Username contains non alphanumeric characters - not allowed.", func(r *RegisterRequest) string { return r.Username }},
	{"Password", "required", "Password is required", func(r *RegisterRequest) string { return r.Password }},
	{"Email", "email", "Email does not appear to be valid", func(r *RegisterRequest) string { return r.Email }},
	{"Birthday", "omitempty,birthday", "Birthday must be a valid date", func(r *RegisterRequest) string { return r.Birthday }},
}

// GetValidator возвращает singleton с зарегистрированным тегом birthday.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("birthday", func(fl validator.FieldLevel) bool {
			_, err := models.ParseBirthday(fl.Field().String())
			return err == nil
		})
	})

	return validate
}

// Register проверяет тело регистрации. nil - всё в порядке.
func Register(req *RegisterRequest) Violations {
	v := GetValidator()

	var out Violations
	for _, r := range registerRules {
		val := r.value(req)
		if err := v.Var(val, r.tag); err != nil {
			out = append(out, Violation{
				Location: "body",
				Param:    r.param,
				Value:    val,
				Msg:      r.msg,
			})
		}
	}

	return out
}
