package application

import "time"

// ProductSelection is one user-selected product with its production quantity.
type ProductSelection struct {
	ProductName string `json:"productName" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// CreatePlanCommand requests a scheduling run over the selected products.
// Origin defaults to today at 07:00 when omitted.
type CreatePlanCommand struct {
	Selections []ProductSelection `json:"selections" binding:"required,min=1,dive"`
	Origin     *time.Time         `json:"origin,omitempty"`
}
