package validation

import (
	"github.com/go-playground/validator/v10"

	"itdesk/pkg/constants"
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	rules := map[string]func(string) bool{
		"ticket_status": constants.IsTicketStatus,
		"asset_status":  constants.IsAssetStatus,
		"asset_type":    constants.IsAssetType,
		"clock_action":  constants.IsClockAction,
	}
	for tag, check := range rules {
		if err := v.RegisterValidation(tag, oneOf(check)); err != nil {
			return err
		}
	}
	return nil
}

func oneOf(check func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return check(fl.Field().String())
	}
}
