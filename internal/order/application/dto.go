package application

import (
	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

type OrderDTO struct {
	OrderID     string          `json:"order_id"`
	UserID      string          `json:"user_id"`
	OrderDate   string          `json:"order_date"`
	TotalAmount string          `json:"total_amount"`
	Status      string          `json:"status"`
	Payment     *PaymentDTO     `json:"payment,omitempty"`
	Address     *AddressDTO     `json:"address,omitempty"`
	Items       []OrderItemDTO  `json:"items"`
}

type OrderItemDTO struct {
	ID                  uint   `json:"id"`
	ProductID           uint   `json:"product_id"`
	Quantity            int    `json:"quantity"`
	Discount            string `json:"discount"`
	OrderedProductPrice string `json:"ordered_product_price"`
}

type PaymentDTO struct {
	PaymentID string `json:"payment_id"`
	Method    string `json:"method"`
	PgName    string `json:"pg_name"`
	PgStatus  string `json:"pg_status"`
}

type AddressDTO struct {
	ID           uint   `json:"id"`
	Street       string `json:"street"`
	BuildingName string `json:"building_name"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	Pincode      string `json:"pincode"`
}

// PageResult 固定形态的分页响应（不透传 ORM 的分页对象）
type PageResult struct {
	Content       []*OrderDTO `json:"content"`
	PageNumber    int         `json:"page_number"`
	PageSize      int         `json:"page_size"`
	TotalElements int64       `json:"total_elements"`
	TotalPages    int         `json:"total_pages"`
	LastPage      bool        `json:"last_page"`
}

func ToOrderDTO(o *domain.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	dto := &OrderDTO{
		OrderID:     o.OrderID,
		UserID:      o.UserID,
		OrderDate:   o.OrderDate.Format("2006-01-02"),
		TotalAmount: o.TotalAmount.StringFixed(2),
		Status:      string(o.Status),
		Items:       make([]OrderItemDTO, 0, len(o.Items)),
	}
	if o.Payment != nil {
		dto.Payment = &PaymentDTO{
			PaymentID: o.Payment.PaymentID,
			Method:    o.Payment.Method,
			PgName:    o.Payment.PgName,
			PgStatus:  o.Payment.PgStatus,
		}
	}
	if o.Address != nil {
		dto.Address = &AddressDTO{
			ID:           o.Address.ID,
			Street:       o.Address.Street,
			BuildingName: o.Address.BuildingName,
			City:         o.Address.City,
			State:        o.Address.State,
			Country:      o.Address.Country,
			Pincode:      o.Address.Pincode,
		}
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:                  item.ID,
			ProductID:           item.ProductID,
			Quantity:            item.Quantity,
			Discount:            item.Discount.StringFixed(2),
			OrderedProductPrice: item.OrderedProductPrice.StringFixed(2),
		})
	}
	return dto
}

func toOrderDTOs(orders []*domain.Order) []*OrderDTO {
	dtos := make([]*OrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, ToOrderDTO(o))
	}
	return dtos
}
