package models

import (
	"time"

	"cupbot/utils"
)

// Step is where a user currently is in a guided flow.
type Step string

const (
	StepIdle = Step("idle")

	StepBookingService = Step("booking_select_service")
	StepBookingDate    = Step("booking_select_date")
	StepBookingTime    = Step("booking_select_time")

	StepOrderCategory = Step("order_select_category")
	StepOrderItem     = Step("order_select_item")
	StepOrderQuantity = Step("order_select_quantity")
	StepOrderCart     = Step("order_cart")
)

// Session is one user's conversational state.
type Session struct {
	UserID    int64         `json:"userId"`
	Step      Step          `json:"step"`
	Booking   *BookingDraft `json:"booking,omitempty"`
	Order     *OrderDraft   `json:"order,omitempty"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewSession returns the idle default for a user.
func NewSession(userID int64) *Session {
	return &Session{UserID: userID, Step: StepIdle}
}

// InFlow reports whether the user is somewhere in a booking or order flow.
func (s *Session) InFlow() bool {
	return s.Step != StepIdle && s.Step != ""
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Booking != nil {
		b := *s.Booking
		c.Booking = &b
	}
	if s.Order != nil {
		c.Order = s.Order.Clone()
	}
	return &c
}

// Apply shallow-merges a patch. Drafts are replaced wholesale, and setting one
// draft drops the other.
func (s *Session) Apply(p SessionPatch) {
	if p.Step != nil {
		s.Step = *p.Step
	}
	if p.Booking != nil {
		b := *p.Booking
		s.Booking = &b
		s.Order = nil
	}
	if p.Order != nil {
		s.Order = p.Order.Clone()
		s.Booking = nil
	}
}

// SessionPatch is a partial session update. Nil fields are left alone.
type SessionPatch struct {
	Step    *Step
	Booking *BookingDraft
	Order   *OrderDraft
}

// StepPatch is shorthand for a patch that only moves the step.
func StepPatch(step Step) SessionPatch {
	return SessionPatch{Step: &step}
}

type BookingDraft struct {
	ServiceID string `json:"serviceId,omitempty"`
	Date      string `json:"date,omitempty"` // 2006-01-02
	Time      string `json:"time,omitempty"` // 15:04
}

// Complete reports whether the draft can be turned into a booking.
func (d *BookingDraft) Complete() bool {
	return d != nil && d.ServiceID != "" && d.Date != "" && d.Time != ""
}

type OrderLine struct {
	ItemID    string  `json:"itemId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

// OrderDraft is the cart. Total always equals the sum of line totals.
type OrderDraft struct {
	Items []OrderLine `json:"items"`
	Total float64     `json:"total"`
}

// Add appends a line. Repeated items get their own line.
func (d *OrderDraft) Add(itemID, name string, qty int, unitPrice float64) OrderLine {
	line := OrderLine{
		ItemID:    itemID,
		Name:      name,
		Quantity:  qty,
		UnitPrice: unitPrice,
		LineTotal: utils.RoundMoney(unitPrice * float64(qty)),
	}
	d.Items = append(d.Items, line)
	d.Recompute()
	return line
}

// Recompute resets Total from the lines.
func (d *OrderDraft) Recompute() float64 {
	var total float64
	for _, l := range d.Items {
		total += l.LineTotal
	}
	d.Total = utils.RoundMoney(total)
	return d.Total
}

func (d *OrderDraft) Empty() bool {
	return d == nil || len(d.Items) == 0
}

func (d *OrderDraft) Clone() *OrderDraft {
	if d == nil {
		return nil
	}
	c := &OrderDraft{Total: d.Total}
	if d.Items != nil {
		c.Items = append([]OrderLine(nil), d.Items...)
	}
	return c
}
