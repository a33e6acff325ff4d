package service

import (
	"errors"
	"fmt"

	"github.com/finsuite/ledgergateway/internal/constants"
	"github.com/finsuite/ledgergateway/internal/model"
)

const (
	DomainBill       = "bill"
	DomainInvestment = "investment"
	DomainWithdrawal = "withdrawal"
)

func NewDomainStrategies() []DomainStrategy {
	return []DomainStrategy{NewBillStrategy(), NewInvestmentStrategy(), NewWithdrawalStrategy()}
}

func validateCommon(cmd SubmitPaymentCommand) error {
	if cmd.Amount <= 0 {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("amount must be positive"))
	}

	if !model.ValidMethod(cmd.Method) {
		return NewServiceError(constants.ErrCodeValidationFailed, fmt.Errorf("unknown payment method %q", cmd.Method))
	}

	if cmd.UserID == "" {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("user id is required"))
	}

	if cmd.IdempotencyToken == "" {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("idempotency token is required"))
	}

	return nil
}

type BillStrategy struct{}

func NewBillStrategy() DomainStrategy { return BillStrategy{} }

func (BillStrategy) Domain() string { return DomainBill }
func (BillStrategy) Kind() model.TxKind { return model.TxKindBillPayment }
func (BillStrategy) PurposeTag() string { return "bill-payment" }

func (BillStrategy) Validate(cmd SubmitPaymentCommand) error {
	if err := validateCommon(cmd); err != nil {
		return err
	}

	if cmd.Target == "" {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("biller id is required"))
	}

	return nil
}

func (BillStrategy) Describe(cmd SubmitPaymentCommand) (string, string) {
	counterparty := cmd.Counterparty
	if counterparty == "" {
		counterparty = cmd.Target
	}

	return counterparty, fmt.Sprintf("Bill payment to %s.", counterparty)
}

type InvestmentStrategy struct{}

func NewInvestmentStrategy() DomainStrategy { return InvestmentStrategy{} }

func (InvestmentStrategy) Domain() string { return DomainInvestment }
func (InvestmentStrategy) Kind() model.TxKind { return model.TxKindInvestment }
func (InvestmentStrategy) PurposeTag() string { return "investment" }

func (InvestmentStrategy) Validate(cmd SubmitPaymentCommand) error {
	if err := validateCommon(cmd); err != nil {
		return err
	}

	if cmd.Target == "" {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("fund code is required"))
	}

	return nil
}

func (InvestmentStrategy) Describe(cmd SubmitPaymentCommand) (string, string) {
	counterparty := cmd.Counterparty
	if counterparty == "" {
		counterparty = cmd.Target
	}

	return counterparty, fmt.Sprintf("Lumpsum investment in %s.", counterparty)
}

type WithdrawalStrategy struct{}

func NewWithdrawalStrategy() DomainStrategy { return WithdrawalStrategy{} }

func (WithdrawalStrategy) Domain() string { return DomainWithdrawal }
func (WithdrawalStrategy) Kind() model.TxKind { return model.TxKindCashWithdrawal }
func (WithdrawalStrategy) PurposeTag() string { return "cash-withdrawal" }

func (WithdrawalStrategy) Validate(cmd SubmitPaymentCommand) error {
	if err := validateCommon(cmd); err != nil {
		return err
	}

	if cmd.Target == "" {
		return NewServiceError(constants.ErrCodeValidationFailed, errors.New("destination account is required"))
	}

	return nil
}

func (WithdrawalStrategy) Describe(cmd SubmitPaymentCommand) (string, string) {
	counterparty := cmd.Counterparty
	if counterparty == "" {
		counterparty = "Cash withdrawal"
	}

	return counterparty, fmt.Sprintf("Cash withdrawal to account %s.", cmd.Target)
}
