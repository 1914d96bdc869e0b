package model

import "time"

// Message is a buyer inquiry about a home.  RealtorID is copied from the
// home at creation time so the realtor's inbox does not need a join.
type Message struct {
	ID        uint64
	Message   string
	HomeID    uint64
	RealtorID uint64
	BuyerID   uint64
	CreatedAt time.Time
}

// MessageWithBuyer is a Message joined with the buyer's contact details.
type MessageWithBuyer struct {
	Message
	BuyerName  string
	BuyerEmail string
	BuyerPhone string
}
