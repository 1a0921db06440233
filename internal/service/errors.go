package service

import (
	"errors"
	"fmt"
)

// 错误分类：每类错误一个基础哨兵，具体错误通过 %w 包装后仍可用 errors.Is 归类
var (
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("conflict")
	ErrInvalidOrExpired = errors.New("code is invalid or expired")
	ErrNotVerified      = errors.New("code has not been verified")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrDelivery         = errors.New("message delivery failed")
)

// 具体业务错误
var (
	ErrMissingFields        = classify(ErrValidation, "name, email, phone, password and code are required")
	ErrInvalidEmail         = classify(ErrValidation, "email address is invalid")
	ErrInvalidPhone         = classify(ErrValidation, "phone must be exactly 10 digits")
	ErrInvalidPurpose       = classify(ErrValidation, "purpose must be registration or password_reset")
	ErrInvalidRole          = classify(ErrValidation, "role must be member or administrator")
	ErrWeakPassword         = classify(ErrValidation, "password does not meet the policy")
	ErrAccountExists        = classify(ErrConflict, "an account with this email or phone already exists")
	ErrPhoneTaken           = classify(ErrConflict, "phone is already in use")
	ErrAdministratorExists  = classify(ErrConflict, "an administrator already exists")
	ErrLastAdministrator    = classify(ErrConflict, "cannot demote the last administrator")
	ErrSlugExists           = classify(ErrConflict, "slug is already in use")
	ErrCategoryInUse        = classify(ErrConflict, "category still has products")
	ErrInvalidCredentials   = classify(ErrUnauthorized, "email or password is incorrect")
	ErrAccountDisabled      = classify(ErrUnauthorized, "account is disabled")
	ErrInvalidToken         = classify(ErrUnauthorized, "session token is invalid")
	ErrExternalAuthDisabled = classify(ErrUnauthorized, "external sign-in is not enabled")
	ErrAccountNotFound      = classify(ErrNotFound, "account not found")
	ErrProductNotFound      = classify(ErrNotFound, "product not found")
	ErrCategoryNotFound     = classify(ErrNotFound, "category not found")
	ErrOrderNotFound        = classify(ErrNotFound, "order not found")
	ErrCartEmpty            = classify(ErrValidation, "cart is empty")
	ErrInvalidOrderStatus   = classify(ErrValidation, "order status transition is not allowed")
	ErrMailerDisabled       = errors.New("mailer is disabled")
)

// classifiedError 携带面向用户的具体原因，同时归属于某一错误类别
type classifiedError struct {
	class  error
	reason string
}

func (e *classifiedError) Error() string { return e.reason }

func (e *classifiedError) Unwrap() error { return e.class }

func classify(class error, reason string) error {
	return &classifiedError{class: class, reason: reason}
}

// validationf 构造带格式化原因的校验错误
func validationf(format string, args ...interface{}) error {
	return classify(ErrValidation, fmt.Sprintf(format, args...))
}

// deliveryError 包装投递失败原因
func deliveryError(cause error) error {
	return fmt.Errorf("%w: %v", ErrDelivery, cause)
}

// ErrorClasses 按优先级排列的已知错误类别
func ErrorClasses() []error {
	return []error{
		ErrValidation,
		ErrConflict,
		ErrInvalidOrExpired,
		ErrNotVerified,
		ErrUnauthorized,
		ErrForbidden,
		ErrNotFound,
		ErrDelivery,
	}
}
