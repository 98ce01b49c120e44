package models

import "time"

// StockLocations is the canonical location enum. It covers every user branch
// plus the central service station, which holds stock but has no users.
var StockLocations = []string{"Chennai", "Coimbatore", "Trichy", "Madurai", "Service Station"}

func ValidLocation(location string) bool {
	for _, l := range StockLocations {
		if l == location {
			return true
		}
	}
	return false
}

type Stock struct {
	ID        string    `json:"id"`
	ItemName  string    `json:"itemName"`
	Quantity  int       `json:"quantity"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
