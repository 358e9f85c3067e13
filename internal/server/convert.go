package server

import (
	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
	"github.com/msgtv/Gifts-Buyer/pkg/lox"
)

type giftsResponse struct {
	Gifts []giftResponse `json:"gifts"`
	Total int            `json:"total"`
}

type giftResponse struct {
	ID           int64  `json:"id"`
	Price        int64  `json:"price"`
	IsLimited    bool   `json:"isLimited"`
	IsSoldOut    bool   `json:"isSoldOut"`
	TotalAmount  int64  `json:"totalAmount,omitempty"`
	UpgradePrice *int64 `json:"upgradePrice,omitempty"`
}

func toGiftResponses(known map[int64]entity.Gift) []giftResponse {
	return lox.ReverseMap(known, func(_ int64, gift entity.Gift) giftResponse {
		return giftResponse{
			ID:           gift.ID,
			Price:        gift.Price,
			IsLimited:    gift.IsLimited,
			IsSoldOut:    gift.IsSoldOut,
			TotalAmount:  gift.TotalAmount,
			UpgradePrice: gift.UpgradePrice,
		}
	})
}
