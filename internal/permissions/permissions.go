// Package permissions реализует проверку прав административных ролей.
//
// Authorize — чистая функция от пары (роль, операция) без побочных эффектов.
// Вызывается перед каждой изменяющей операцией администратора.
package permissions

import (
	"github.com/workbridge/marketplace-engine/internal/errs"
	"github.com/workbridge/marketplace-engine/internal/models"
)

// Operation идентифицирует административную операцию.
type Operation string

// Операции, защищённые проверкой роли.
const (
	OpConfirmPayment      Operation = "payment.confirm"
	OpRejectPayment       Operation = "payment.reject"
	OpMarkPaid            Operation = "payment.mark_paid"
	OpViewPayments        Operation = "payment.view_history"
	OpApproveSubscription Operation = "subscription.approve"
	OpSuspendUser         Operation = "user.suspend"
	OpDeleteUser          Operation = "user.delete"
	OpResolveTicket       Operation = "support.resolve_ticket"
)

// grants сопоставляет роли с явно разрешёнными операциями.
// Super в таблице отсутствует: ему разрешено всё.
var grants = map[string]map[Operation]struct{}{
	models.AdminRoleSupport: {
		OpSuspendUser:   {},
		OpDeleteUser:    {},
		OpResolveTicket: {},
	},
	models.AdminRoleVerification: {
		OpApproveSubscription: {},
	},
	models.AdminRolePayment: {
		OpConfirmPayment: {},
		OpRejectPayment:  {},
		OpMarkPaid:       {},
		OpViewPayments:   {},
	},
}

// Authorize возвращает nil, если роль adminRole вправе выполнить операцию,
// иначе errs.ErrForbidden.
//
// Пустая или неизвестная роль всегда запрещена: учётная запись администратора
// без явно назначенной роли считается ошибкой конфигурации, а не Super.
func Authorize(adminRole string, op Operation) error {
	if adminRole == models.AdminRoleSuper {
		return nil
	}
	ops, ok := grants[adminRole]
	if !ok {
		return errs.ErrForbidden
	}
	if _, ok := ops[op]; !ok {
		return errs.ErrForbidden
	}
	return nil
}
