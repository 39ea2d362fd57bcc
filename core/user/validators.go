package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/projectgl/core"
)

var (
	allRolesTag  = "allroles"
	allRolesText = "invalid roles"
)

// InitValidators registers the user validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(allRolesTag, allRolesValidation)
	core.RegisterCustomTranslation(validate, translator, allRolesTag, allRolesText)
}

// allRolesValidation checks that provided user roles are all in AllRoles
func allRolesValidation(fl validator.FieldLevel) bool {
	roles, ok := fl.Field().Interface().([]Role)
	if !ok {
		return false
	}
	for _, role := range roles {
		if _, err := ParseRole(string(role)); err != nil {
			return false
		}
	}
	return true
}

// LoginRequest holds the credentials sent to sign in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

// NewStudent is a student row of an imported list.
type NewStudent struct {
	FirstName  string  `json:"firstName" validate:"required"`
	LastName   string  `json:"lastName" validate:"required"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Gender     string  `json:"gender" validate:"omitempty,oneof=male female"`
	Option     string  `json:"option"`
	IsBachelor bool    `json:"bachelor"`
	GradePast  float64 `json:"gradePast" validate:"gte=0,lte=20"`
	Roles      []Role  `json:"roles" validate:"omitempty,allroles"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return validate.Struct(ns)
}
