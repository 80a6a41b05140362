package handlers

import (
	"cupbot/services/business"
	"cupbot/services/customersvc"
)

// HandlerBundle groups the services the management API is served from.
type HandlerBundle struct {
	Business  business.BusinessService
	Customers customersvc.CustomerService
}

func NewHandlerBundle(biz business.BusinessService, customers customersvc.CustomerService) *HandlerBundle {
	return &HandlerBundle{Business: biz, Customers: customers}
}
