package lifecycle

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailor_shop/internal/models"
)

func orderIn(status models.OrderStatus, remaining string) models.Order {
	return models.Order{
		SerialNumber:    "ORD-001",
		CustomerName:    "Siti",
		CustomerPhone:   "081234567890",
		TotalAmount:     decimal.RequireFromString("500"),
		DepositAmount:   decimal.RequireFromString("100"),
		RemainingAmount: decimal.RequireFromString(remaining),
		Status:          string(status),
	}
}

func TestTransitionTable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		role    models.UserRole
		wantErr error
	}{
		{name: "tailor marks stitched", from: models.OrderPending, to: models.OrderStitched, role: models.RoleTailor},
		{name: "manager marks stitched", from: models.OrderPending, to: models.OrderStitched, role: models.RoleManager},
		{name: "manager delivers", from: models.OrderStitched, to: models.OrderDelivered, role: models.RoleManager},
		{name: "tailor may not deliver", from: models.OrderStitched, to: models.OrderDelivered, role: models.RoleTailor, wantErr: ErrForbidden},
		{name: "no skipping to delivered", from: models.OrderPending, to: models.OrderDelivered, role: models.RoleManager, wantErr: ErrIllegalTransition},
		{name: "no backward from stitched", from: models.OrderStitched, to: models.OrderPending, role: models.RoleManager, wantErr: ErrIllegalTransition},
		{name: "no backward from delivered", from: models.OrderDelivered, to: models.OrderStitched, role: models.RoleManager, wantErr: ErrIllegalTransition},
		{name: "no backward to pending from delivered", from: models.OrderDelivered, to: models.OrderPending, role: models.RoleManager, wantErr: ErrIllegalTransition},
		{name: "no self-loop pending", from: models.OrderPending, to: models.OrderPending, role: models.RoleManager, wantErr: ErrIllegalTransition},
		{name: "no self-loop stitched", from: models.OrderStitched, to: models.OrderStitched, role: models.RoleManager, wantErr: ErrIllegalTransition},
		{name: "no self-loop delivered", from: models.OrderDelivered, to: models.OrderDelivered, role: models.RoleManager, wantErr: ErrIllegalTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Transition(orderIn(tt.from, "0"), tt.to, tt.role, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(tt.to), res.Order.Status)
		})
	}
}

func TestTransitionIsDeterministic(t *testing.T) {
	now := time.Now()
	order := orderIn(models.OrderPending, "400")

	first, err1 := Transition(order, models.OrderStitched, models.RoleTailor, now)
	second, err2 := Transition(order, models.OrderStitched, models.RoleTailor, now)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first.Order.Status, second.Order.Status)
	assert.Equal(t, first.Order.CompletedAt, second.Order.CompletedAt)
	assert.Equal(t, first.Notice, second.Notice)
}

func TestStitchedSideEffects(t *testing.T) {
	now := time.Now()
	res, err := Transition(orderIn(models.OrderPending, "400"), models.OrderStitched, models.RoleTailor, now)
	require.NoError(t, err)

	require.NotNil(t, res.Order.CompletedAt)
	assert.True(t, res.Order.CompletedAt.Equal(now))
	assert.Nil(t, res.Order.DeliveredAt)
	assert.False(t, res.OutstandingBalance)

	require.NotNil(t, res.Notice)
	assert.Equal(t, AudienceManagers, res.Notice.Audience)
	assert.Equal(t, TemplateOrderReady, res.Notice.Customer)
	assert.Contains(t, res.Notice.Message, "ORD-001")
}

func TestCompletedAtSetExactlyOnce(t *testing.T) {
	already := time.Now().Add(-24 * time.Hour)
	order := orderIn(models.OrderPending, "400")
	order.CompletedAt = &already

	res, err := Transition(order, models.OrderStitched, models.RoleManager, time.Now())
	require.NoError(t, err)
	assert.True(t, res.Order.CompletedAt.Equal(already), "existing completed_at must not be overwritten")
}

func TestDeliveredSideEffects(t *testing.T) {
	now := time.Now()

	t.Run("settled order delivers without warning", func(t *testing.T) {
		res, err := Transition(orderIn(models.OrderStitched, "0"), models.OrderDelivered, models.RoleManager, now)
		require.NoError(t, err)
		assert.False(t, res.OutstandingBalance)
		require.NotNil(t, res.Order.DeliveredAt)
		assert.True(t, res.Order.DeliveredAt.Equal(now))
		require.NotNil(t, res.Notice)
		assert.Equal(t, TemplateOrderDelivered, res.Notice.Customer)
	})

	t.Run("outstanding balance flags the result", func(t *testing.T) {
		res, err := Transition(orderIn(models.OrderStitched, "150"), models.OrderDelivered, models.RoleManager, now)
		require.NoError(t, err)
		assert.True(t, res.OutstandingBalance)
		assert.Equal(t, string(models.OrderDelivered), res.Order.Status)
	})
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, CanCreateOrder(models.RoleManager))
	assert.False(t, CanCreateOrder(models.RoleTailor))

	assert.True(t, CanRecordPayment(models.RoleManager))
	assert.False(t, CanRecordPayment(models.RoleTailor))

	assert.True(t, CanAddAttachment(models.RoleManager))
	assert.False(t, CanAddAttachment(models.RoleTailor))
}
