package mysql

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

func strPtr(s string) *string { return &s }
func uintPtr(u uint) *uint    { return &u }
func intPtr(i int) *int       { return &i }

func nullDec(s string) decimal.NullDecimal {
	d, _ := decimal.NewFromString(s)
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func headerRow(orderID string) orderDetailRow {
	return orderDetailRow{
		OrderID:     orderID,
		UserID:      "u1",
		OrderDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: decimal.NewFromInt(100),
		Status:      "ACCEPTED",
		PaymentID:   strPtr("PAY-" + orderID),
		PayMethod:   strPtr("card"),
		AddrID:      uintPtr(7),
		City:        strPtr("Pune"),
	}
}

func itemRow(orderID string, itemID uint, productID uint, qty int) orderDetailRow {
	row := headerRow(orderID)
	row.ItemID = uintPtr(itemID)
	row.ItemProductID = uintPtr(productID)
	row.ItemQuantity = intPtr(qty)
	row.ItemDiscount = nullDec("0.00")
	row.ItemPrice = nullDec("25.00")
	return row
}

func TestFoldRows(t *testing.T) {
	t.Run("one aggregate per id with items appended", func(t *testing.T) {
		ids := []string{"ORD-3", "ORD-2", "ORD-1"}
		rows := []orderDetailRow{
			// JOIN 行序与 id 页顺序故意不一致
			itemRow("ORD-2", 20, 102, 1),
			itemRow("ORD-3", 31, 103, 2),
			itemRow("ORD-3", 32, 104, 1),
			itemRow("ORD-3", 33, 105, 3),
			headerRow("ORD-1"), // 无条目订单，条目列全 NULL
		}

		orders := foldRows(ids, rows)
		require.Len(t, orders, 3)

		assert.Equal(t, "ORD-3", orders[0].OrderID)
		assert.Len(t, orders[0].Items, 3)
		assert.Equal(t, uint(103), orders[0].Items[0].ProductID)
		assert.Equal(t, 2, orders[0].Items[0].Quantity)

		assert.Equal(t, "ORD-2", orders[1].OrderID)
		assert.Len(t, orders[1].Items, 1)

		assert.Equal(t, "ORD-1", orders[2].OrderID)
		assert.NotNil(t, orders[2].Items)
		assert.Empty(t, orders[2].Items)
	})

	t.Run("payment and address folded once", func(t *testing.T) {
		orders := foldRows([]string{"ORD-9"}, []orderDetailRow{
			itemRow("ORD-9", 1, 100, 1),
			itemRow("ORD-9", 2, 101, 1),
		})
		require.Len(t, orders, 1)

		require.NotNil(t, orders[0].Payment)
		assert.Equal(t, "PAY-ORD-9", orders[0].Payment.PaymentID)
		assert.Equal(t, "card", orders[0].Payment.Method)

		require.NotNil(t, orders[0].Address)
		assert.Equal(t, uint(7), orders[0].Address.ID)
		assert.Equal(t, "Pune", orders[0].Address.City)
	})

	t.Run("missing payment and address stay nil", func(t *testing.T) {
		row := headerRow("ORD-5")
		row.PaymentID = nil
		row.AddrID = nil

		orders := foldRows([]string{"ORD-5"}, []orderDetailRow{row})
		require.Len(t, orders, 1)
		assert.Nil(t, orders[0].Payment)
		assert.Nil(t, orders[0].Address)
	})

	t.Run("ids absent from rows are skipped", func(t *testing.T) {
		orders := foldRows([]string{"ORD-1", "GONE"}, []orderDetailRow{headerRow("ORD-1")})
		require.Len(t, orders, 1)
		assert.Equal(t, "ORD-1", orders[0].OrderID)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, foldRows(nil, nil))
	})
}

func TestSortClause(t *testing.T) {
	tests := []struct {
		name   string
		sort   []domain.SortOrder
		prefix string
		want   string
	}{
		{
			name: "default",
			want: "order_date DESC, order_id DESC",
		},
		{
			name:   "default with alias",
			prefix: "o.",
			want:   "o.order_date DESC, o.order_id DESC",
		},
		{
			name: "whitelisted field ascending",
			sort: []domain.SortOrder{{Field: "totalAmount"}},
			want: "total_amount ASC, order_id DESC",
		},
		{
			name: "multiple fields keep request order",
			sort: []domain.SortOrder{{Field: "orderStatus", Desc: true}, {Field: "orderDate"}},
			want: "status DESC, order_date ASC, order_id DESC",
		},
		{
			name: "unknown field falls back to order date",
			sort: []domain.SortOrder{{Field: "password; DROP TABLE orders", Desc: true}},
			want: "order_date DESC, order_id DESC",
		},
		{
			name:   "trailing order id needs no extra tiebreak",
			sort:   []domain.SortOrder{{Field: "orderId", Desc: true}},
			prefix: "o.",
			want:   "o.order_id DESC",
		},
		{
			name: "ascending order id stands alone too",
			sort: []domain.SortOrder{{Field: "orderId"}},
			want: "order_id ASC",
		},
		{
			name: "tiebreak still added when order id is not last",
			sort: []domain.SortOrder{{Field: "orderId", Desc: true}, {Field: "orderDate"}},
			want: "order_id DESC, order_date ASC, order_id DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sortClause(tt.sort, tt.prefix))
		})
	}
}
