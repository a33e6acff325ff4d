package validator

import (
	"github.com/finsuite/ledgergateway/internal/model"
	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/go-playground/validator/v10"
)

const (
	DomainTag = "paydomain"
	MethodTag = "paymethod"
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	DomainTag: ValidateDomain,
	MethodTag: ValidateMethod,
}

func ValidateDomain(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case service.DomainBill, service.DomainInvestment, service.DomainWithdrawal:
		return true
	}
	return false
}

func ValidateMethod(fl validator.FieldLevel) bool {
	return model.ValidMethod(fl.Field().String())
}
