package handlers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

var registerValidatorsOnce sync.Once

// accountNumberValidator accepts a well-formed account number of any type.
// Whether the number matches the account type is checked by the account service.
func accountNumberValidator(fl validator.FieldLevel) bool {
	_, ok := domain.TypeForAccountNumber(fl.Field().String())
	return ok
}

// registerValidators adds custom binding rules to gin's validator engine.
func registerValidators() error {
	var err error
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		err = v.RegisterValidation("account_number", accountNumberValidator)
	})
	return err
}
