package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownAction is returned for callback data no flow understands.
var ErrUnknownAction = errors.New("unknown action")

// Action is a decoded button press. The set of implementations is closed.
type Action interface {
	// Encode renders the callback data carried by the button.
	Encode() string
	isAction()
}

const (
	bookingCategoryPrefix = "booking_category_"
	bookingServicePrefix  = "booking_service_"
	bookingDatePrefix     = "booking_date_"
	bookingTimePrefix     = "booking_time_"
	bookingCancelData     = "booking_cancel"

	orderCategoryPrefix = "order_category_"
	orderItemPrefix     = "order_item_"
	orderQuantityPrefix = "order_quantity_"
	orderMoreData       = "order_categories"
	orderCheckoutData   = "order_checkout"
	orderCancelData     = "order_cancel"

	viewCartData     = "view_cart"
	viewBookingsData = "view_bookings"
	viewOrdersData   = "view_orders"
)

type (
	SelectServiceCategory struct{ Index int }
	SelectService         struct{ ServiceID string }
	SelectDate            struct{ Date string }
	SelectTime            struct{ Time string }
	CancelBooking         struct{}

	SelectCategory struct{ Index int }
	SelectItem     struct{ ItemID string }
	SelectQuantity struct {
		ItemID   string
		Quantity int
	}
	OrderMore   struct{}
	Checkout    struct{}
	CancelOrder struct{}

	ViewCart     struct{}
	ViewBookings struct{}
	ViewOrders   struct{}
)

func (a SelectServiceCategory) Encode() string { return bookingCategoryPrefix + strconv.Itoa(a.Index) }
func (a SelectService) Encode() string         { return bookingServicePrefix + a.ServiceID }
func (a SelectDate) Encode() string            { return bookingDatePrefix + a.Date }
func (a SelectTime) Encode() string            { return bookingTimePrefix + a.Time }
func (CancelBooking) Encode() string           { return bookingCancelData }
func (a SelectCategory) Encode() string        { return orderCategoryPrefix + strconv.Itoa(a.Index) }
func (a SelectItem) Encode() string            { return orderItemPrefix + a.ItemID }
func (a SelectQuantity) Encode() string {
	return fmt.Sprintf("%s%s_%d", orderQuantityPrefix, a.ItemID, a.Quantity)
}
func (OrderMore) Encode() string    { return orderMoreData }
func (Checkout) Encode() string     { return orderCheckoutData }
func (CancelOrder) Encode() string  { return orderCancelData }
func (ViewCart) Encode() string     { return viewCartData }
func (ViewBookings) Encode() string { return viewBookingsData }
func (ViewOrders) Encode() string   { return viewOrdersData }

func (SelectServiceCategory) isAction() {}
func (SelectService) isAction()         {}
func (SelectDate) isAction()            {}
func (SelectTime) isAction()            {}
func (CancelBooking) isAction()         {}
func (SelectCategory) isAction()        {}
func (SelectItem) isAction()            {}
func (SelectQuantity) isAction()        {}
func (OrderMore) isAction()             {}
func (Checkout) isAction()              {}
func (CancelOrder) isAction()           {}
func (ViewCart) isAction()              {}
func (ViewBookings) isAction()          {}
func (ViewOrders) isAction()            {}

// DecodeAction parses callback data. Exact tags are checked before prefixes
// since "order_categories" shares a prefix with "order_category_".
func DecodeAction(data string) (Action, error) {
	switch data {
	case bookingCancelData:
		return CancelBooking{}, nil
	case orderMoreData:
		return OrderMore{}, nil
	case orderCheckoutData:
		return Checkout{}, nil
	case orderCancelData:
		return CancelOrder{}, nil
	case viewCartData:
		return ViewCart{}, nil
	case viewBookingsData:
		return ViewBookings{}, nil
	case viewOrdersData:
		return ViewOrders{}, nil
	}

	if v, ok := payload(data, bookingCategoryPrefix); ok {
		i, err := index(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAction, data)
		}
		return SelectServiceCategory{Index: i}, nil
	}
	if v, ok := payload(data, bookingServicePrefix); ok {
		return SelectService{ServiceID: v}, nil
	}
	if v, ok := payload(data, bookingDatePrefix); ok {
		return SelectDate{Date: v}, nil
	}
	if v, ok := payload(data, bookingTimePrefix); ok {
		return SelectTime{Time: v}, nil
	}
	if v, ok := payload(data, orderCategoryPrefix); ok {
		i, err := index(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAction, data)
		}
		return SelectCategory{Index: i}, nil
	}
	if v, ok := payload(data, orderItemPrefix); ok {
		return SelectItem{ItemID: v}, nil
	}
	if v, ok := payload(data, orderQuantityPrefix); ok {
		i := strings.LastIndex(v, "_")
		if i <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAction, data)
		}
		qty, err := strconv.Atoi(v[i+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: bad quantity in %q", ErrUnknownAction, data)
		}
		return SelectQuantity{ItemID: v[:i], Quantity: qty}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, data)
}

func payload(data, prefix string) (string, bool) {
	if !strings.HasPrefix(data, prefix) {
		return "", false
	}
	v := strings.TrimPrefix(data, prefix)
	return v, v != ""
}

func index(v string) (int, error) {
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, fmt.Errorf("negative index %d", i)
	}
	return i, nil
}
