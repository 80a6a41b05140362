package repository

import (
	businessRepo "cupbot/database/repository/business"
	customerRepo "cupbot/database/repository/customer"
)

// Re-export the BusinessRepository interface and constructor.
type BusinessRepository = businessRepo.BusinessRepository

var NewMongoBusinessRepo = businessRepo.NewMongoBusinessRepo

// Re-export the CustomerRepository interface and constructor.
type CustomerRepository = customerRepo.CustomerRepository

var NewMongoCustomerRepo = customerRepo.NewMongoCustomerRepo
