// Package lifecycle is the order status state machine: which transitions
// exist, who may trigger them, and which timestamps and notifications
// each one produces. It is pure; delivery of notifications and
// persistence of the updated order are the caller's job.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"tailor_shop/internal/models"
)

var (
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrForbidden         = errors.New("role not permitted to perform this action")
)

// NoticeAudience says who an in-app notification goes to.
type NoticeAudience string

const (
	AudienceManagers NoticeAudience = "managers"
)

// CustomerTemplate identifies which outbound WhatsApp message applies
// after a transition. Composition happens in the dispatcher.
type CustomerTemplate string

const (
	TemplateOrderReady     CustomerTemplate = "order_ready"
	TemplateOrderDelivered CustomerTemplate = "order_delivered"
)

// Notice describes the notification a transition calls for, without
// sending anything.
type Notice struct {
	Audience NoticeAudience
	Title    string
	Message  string
	Customer CustomerTemplate
}

// Result is the outcome of a legal transition. OutstandingBalance is set
// when an order is delivered with money still owed, so the caller can
// warn and require explicit confirmation before persisting.
type Result struct {
	Order              models.Order
	Notice             *Notice
	OutstandingBalance bool
}

type edge struct {
	from, to models.OrderStatus
}

// The full transition table. Edges absent here are illegal for every role.
var transitions = map[edge][]models.UserRole{
	{models.OrderPending, models.OrderStitched}:   {models.RoleTailor, models.RoleManager},
	{models.OrderStitched, models.OrderDelivered}: {models.RoleManager},
}

// Transition validates and applies a status change. Role permission is
// checked before anything is mutated; illegal edges (skips, backward
// moves, self-loops) fail with ErrIllegalTransition regardless of role.
func Transition(order models.Order, target models.OrderStatus, role models.UserRole, now time.Time) (Result, error) {
	e := edge{from: models.OrderStatus(order.Status), to: target}
	allowed, ok := transitions[e]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.Status, target)
	}
	if !roleAllowed(role, allowed) {
		return Result{}, fmt.Errorf("%w: %s may not move %s -> %s", ErrForbidden, role, order.Status, target)
	}

	res := Result{}
	switch target {
	case models.OrderStitched:
		order.Status = string(models.OrderStitched)
		if order.CompletedAt == nil {
			t := now
			order.CompletedAt = &t
		}
		res.Notice = &Notice{
			Audience: AudienceManagers,
			Title:    "Order ready",
			Message:  fmt.Sprintf("Order %s for %s is stitched and ready", order.SerialNumber, order.CustomerName),
			Customer: TemplateOrderReady,
		}
	case models.OrderDelivered:
		order.Status = string(models.OrderDelivered)
		if order.DeliveredAt == nil {
			t := now
			order.DeliveredAt = &t
		}
		res.OutstandingBalance = order.RemainingAmount.IsPositive()
		res.Notice = &Notice{
			Audience: AudienceManagers,
			Title:    "Order delivered",
			Message:  fmt.Sprintf("Order %s was delivered to %s", order.SerialNumber, order.CustomerName),
			Customer: TemplateOrderDelivered,
		}
	}
	res.Order = order
	return res, nil
}

// CanCreateOrder reports whether role may create orders.
func CanCreateOrder(role models.UserRole) bool { return role == models.RoleManager }

// CanRecordPayment reports whether role may record payments.
func CanRecordPayment(role models.UserRole) bool { return role == models.RoleManager }

// CanAddAttachment reports whether role may attach measurement sheets.
func CanAddAttachment(role models.UserRole) bool { return role == models.RoleManager }

func roleAllowed(role models.UserRole, allowed []models.UserRole) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
