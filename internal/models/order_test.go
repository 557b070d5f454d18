package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderConfirmed, OrderPreparing, true},
		{OrderPreparing, OrderReady, true},
		{OrderReady, OrderCompleted, true},
		{OrderPending, OrderCanceled, true},
		{OrderConfirmed, OrderCanceled, true},
		{OrderPreparing, OrderCanceled, true},
		{OrderReady, OrderCanceled, true},

		{OrderPreparing, OrderCompleted, false},
		{OrderPending, OrderReady, false},
		{OrderConfirmed, OrderPending, false},
		{OrderReady, OrderPreparing, false},
		{OrderPending, OrderPending, false},
		{OrderCompleted, OrderCanceled, false},
		{OrderCompleted, OrderPending, false},
		{OrderCanceled, OrderPending, false},
		{OrderCanceled, OrderCanceled, false},
		{OrderPending, "SHIPPED", false},
		{"SHIPPED", OrderCanceled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCanTransition_OnlyForwardOrCancel(t *testing.T) {
	index := make(map[OrderStatus]int, len(OrderStatuses))
	for i, s := range OrderStatuses {
		index[s] = i
	}
	for _, from := range OrderStatuses {
		for _, to := range OrderStatuses {
			if !CanTransition(from, to) {
				continue
			}
			if to == OrderCanceled {
				continue
			}
			if index[to] != index[from]+1 {
				t.Errorf("unexpected edge %s -> %s", from, to)
			}
		}
	}
}

func TestValidateTransition(t *testing.T) {
	if err := ValidateTransition(OrderReady, OrderCompleted); err != nil {
		t.Fatalf("ValidateTransition() unexpected error = %v", err)
	}

	err := ValidateTransition(OrderPreparing, OrderCompleted)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ValidateTransition() error = %v, want ErrInvalidTransition", err)
	}

	err = ValidateTransition(OrderCompleted, OrderCanceled)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ValidateTransition() error = %v, want ErrInvalidTransition", err)
	}
	if CodeOf(err) != CodeInvalidTransition {
		t.Errorf("CodeOf() = %s, want %s", CodeOf(err), CodeInvalidTransition)
	}
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus(" preparing ")
	if err != nil || got != OrderPreparing {
		t.Fatalf("ParseOrderStatus() = %v, %v", got, err)
	}
	if _, err := ParseOrderStatus("shipped"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseOrderStatus() error = %v, want ErrInvalidArgument", err)
	}
}

func TestOrder_StatusChecks(t *testing.T) {
	tests := []struct {
		status OrderStatus
		checks map[string]bool
	}{
		{
			status: OrderPending,
			checks: map[string]bool{"IsPending": true, "IsCompleted": false, "IsCanceled": false, "CanBeCanceled": true, "IsProcessing": false},
		},
		{
			status: OrderPreparing,
			checks: map[string]bool{"IsPending": false, "IsCompleted": false, "IsCanceled": false, "CanBeCanceled": true, "IsProcessing": true},
		},
		{
			status: OrderCompleted,
			checks: map[string]bool{"IsPending": false, "IsCompleted": true, "IsCanceled": false, "CanBeCanceled": false, "IsProcessing": false},
		},
		{
			status: OrderCanceled,
			checks: map[string]bool{"IsPending": false, "IsCompleted": false, "IsCanceled": true, "CanBeCanceled": false, "IsProcessing": false},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			order := &Order{Status: tt.status}
			if got := order.IsPending(); got != tt.checks["IsPending"] {
				t.Errorf("IsPending() = %v, want %v", got, tt.checks["IsPending"])
			}
			if got := order.IsCompleted(); got != tt.checks["IsCompleted"] {
				t.Errorf("IsCompleted() = %v, want %v", got, tt.checks["IsCompleted"])
			}
			if got := order.IsCanceled(); got != tt.checks["IsCanceled"] {
				t.Errorf("IsCanceled() = %v, want %v", got, tt.checks["IsCanceled"])
			}
			if got := order.CanBeCanceled(); got != tt.checks["CanBeCanceled"] {
				t.Errorf("CanBeCanceled() = %v, want %v", got, tt.checks["CanBeCanceled"])
			}
			if got := tt.status.IsProcessing(); got != tt.checks["IsProcessing"] {
				t.Errorf("IsProcessing() = %v, want %v", got, tt.checks["IsProcessing"])
			}
		})
	}
}

func TestOrder_Validate(t *testing.T) {
	tests := []struct {
		name    string
		order   Order
		wantErr bool
	}{
		{
			name:  "valid order",
			order: Order{ID: 1, Status: OrderPending, TotalPrice: decimal.NewFromInt(20)},
		},
		{
			name:    "missing id",
			order:   Order{Status: OrderPending},
			wantErr: true,
		},
		{
			name:    "unknown status",
			order:   Order{ID: 1, Status: "LOST"},
			wantErr: true,
		},
		{
			name: "bad item",
			order: Order{ID: 1, Status: OrderPending, Items: []OrderItem{
				{ID: 3, Quantity: 0, Price: decimal.NewFromInt(1)},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidResponse) {
				t.Errorf("Validate() error = %v, want ErrInvalidResponse", err)
			}
		})
	}
}

func TestFilterOrders(t *testing.T) {
	orders := []Order{
		{ID: 1, Status: OrderPending},
		{ID: 2, Status: OrderPreparing},
		{ID: 3, Status: OrderCompleted},
		{ID: 4, Status: OrderReady},
		{ID: 5, Status: OrderCanceled},
	}

	got := FilterOrders(orders, ProcessingStatuses...)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 4 {
		t.Errorf("FilterOrders(processing) = %+v", got)
	}
	if got := FilterOrders(orders, OrderCanceled); len(got) != 1 || got[0].ID != 5 {
		t.Errorf("FilterOrders(canceled) = %+v", got)
	}
	if got := FilterOrders(nil, OrderPending); len(got) != 0 {
		t.Errorf("FilterOrders(nil) = %+v", got)
	}
}

func TestOrder_GetStatusDisplayName(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   string
	}{
		{OrderPending, "Pending"},
		{OrderReady, "Ready for pickup"},
		{OrderCanceled, "Canceled"},
		{"unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			order := &Order{Status: tt.status}
			if got := order.GetStatusDisplayName(); got != tt.want {
				t.Errorf("GetStatusDisplayName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := OrderItem{Quantity: 3, Price: decimal.RequireFromString("4.50")}
	if got := item.Subtotal(); !got.Equal(decimal.RequireFromString("13.50")) {
		t.Errorf("Subtotal() = %s, want 13.50", got)
	}
}
