package handlers

import (
	"fmt"
	"sync"

	"github.com/SscSPs/rental_reconciler/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// registerValidators adds the domain enum tags used in request bindings to gin's
// validator engine. A failed registration would break every binding using the tag,
// so it panics at startup instead.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic(fmt.Sprintf("unexpected gin validator engine %T", binding.Validator.Engine()))
		}
		if err := registerDomainValidators(v); err != nil {
			panic(err)
		}
	})
}

// registerDomainValidators registers the txntype, txnstatus and rowfield tags on v.
func registerDomainValidators(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"txntype": func(fl validator.FieldLevel) bool {
			return domain.TransactionType(fl.Field().String()).IsValid()
		},
		"txnstatus": func(fl validator.FieldLevel) bool {
			return domain.TransactionStatus(fl.Field().String()).IsValid()
		},
		"rowfield": func(fl validator.FieldLevel) bool {
			return domain.RowField(fl.Field().String()).IsValid()
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q validator: %w", tag, err)
		}
	}
	return nil
}
