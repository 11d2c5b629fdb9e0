package repository

import (
	checkoutRepo "endurance-api/internal/repository/checkout"
	couponRepo "endurance-api/internal/repository/coupon"
	planRepo "endurance-api/internal/repository/plan"
	userRepo "endurance-api/internal/repository/user"
)

// IRepository is a container for all repository interfaces
type IRepository struct {
	User     userRepo.IRepository
	Checkout checkoutRepo.IRepository
	Coupon   couponRepo.IRepository
	Plan     planRepo.IRepository
}
