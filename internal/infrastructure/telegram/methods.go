package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gotd/td/tg"

	"github.com/msgtv/Gifts-Buyer/internal/domain"
	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
	"github.com/msgtv/Gifts-Buyer/internal/domain/service/purchase"
	"github.com/msgtv/Gifts-Buyer/pkg/errcodes"
)

const requestTimeout = 15 * time.Second

// GetAvailableGifts возвращает текущий каталог подарков, сохраняя порядок
// выдачи платформы.
func (c *Client) GetAvailableGifts(ctx context.Context) ([]entity.Gift, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	// hash=0 — всегда полная выдача, нас интересует весь каталог.
	resRaw, err := c.api.PaymentsGetStarGifts(ctx, 0)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.CatalogUnavailable, "fetch star gifts")
	}

	var rawGifts []tg.StarGiftClass
	switch res := resRaw.(type) {
	case *tg.PaymentsStarGifts:
		rawGifts = res.Gifts
	case *tg.PaymentsStarGiftsNotModified:
		return []entity.Gift{}, nil
	default:
		return nil, domain.NewError(errcodes.CatalogUnavailable,
			fmt.Sprintf("unexpected response type: %T", resRaw))
	}

	result := make([]entity.Gift, 0, len(rawGifts))

	for _, gRaw := range rawGifts {
		g, ok := gRaw.(*tg.StarGift)
		if !ok {
			continue
		}

		item := entity.Gift{
			ID:        g.ID,
			Price:     g.Stars,
			IsLimited: g.Limited,
			IsSoldOut: g.SoldOut,
		}

		if total, ok := g.GetAvailabilityTotal(); ok {
			item.TotalAmount = int64(total)
		}

		if upgrade, ok := g.GetUpgradeStars(); ok {
			price := upgrade
			item.UpgradePrice = &price
		}

		result = append(result, item)
	}

	return result, nil
}

// GetGiftPrice — живая цена одного подарка. Отдельного метода у платформы
// нет, перечитываем каталог и ищем по id.
func (c *Client) GetGiftPrice(ctx context.Context, giftID int64) (int64, error) {
	gifts, err := c.GetAvailableGifts(ctx)
	if err != nil {
		return 0, err
	}

	for _, gift := range gifts {
		if gift.ID == giftID {
			return gift.Price, nil
		}
	}

	return 0, domain.NewError(errcodes.GiftNotFound,
		fmt.Sprintf("gift %d not in catalog", giftID))
}

// GetStarsBalance — текущий баланс звёзд аккаунта.
func (c *Client) GetStarsBalance(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	status, err := c.api.PaymentsGetStarsStatus(ctx, &tg.PaymentsGetStarsStatusRequest{
		Peer: &tg.InputPeerSelf{},
	})
	if err != nil {
		return 0, fmt.Errorf("get stars status: %w", err)
	}

	return status.Balance.GetAmount(), nil
}

// ResolveRecipient резолвит получателя в отображаемую ссылку. Username
// резолвится через каталог пиров, числовой ID — напрямую; access hash
// достаёт менеджер пиров.
func (c *Client) ResolveRecipient(ctx context.Context, recipient entity.Recipient) (purchase.RecipientInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	peer, err := c.resolvePeer(ctx, recipient)
	if err != nil {
		return purchase.RecipientInfo{}, err
	}

	if username, ok := peer.Username(); ok {
		return purchase.RecipientInfo{
			Display: "@" + username,
			Handle:  username,
		}, nil
	}

	if recipient.IsNumeric() {
		id := strconv.FormatInt(recipient.UserID, 10)
		return purchase.RecipientInfo{
			Display: fmt.Sprintf(`<a href="tg://user?id=%s">%s</a>`, id, id),
		}, nil
	}

	return purchase.RecipientInfo{Display: recipient.String()}, nil
}

// SendGift покупает одну единицу подарка получателю. Имя отправителя
// скрывается всегда.
func (c *Client) SendGift(ctx context.Context, recipient entity.Recipient, giftID int64) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	peer, err := c.resolvePeer(ctx, recipient)
	if err != nil {
		return err
	}

	invoice := &tg.InputInvoiceStarGift{
		HideName: true,
		Peer:     peer.InputPeer(),
		GiftID:   giftID,
	}

	formRaw, err := c.api.PaymentsGetPaymentForm(ctx, &tg.PaymentsGetPaymentFormRequest{
		Invoice: invoice,
	})
	if err != nil {
		return fmt.Errorf("get payment form: %w", err)
	}

	form, ok := formRaw.(*tg.PaymentsPaymentFormStarGift)
	if !ok {
		return fmt.Errorf("unexpected payment form type: %T", formRaw)
	}

	if _, err := c.api.PaymentsSendStarsForm(ctx, &tg.PaymentsSendStarsFormRequest{
		FormID:  form.FormID,
		Invoice: invoice,
	}); err != nil {
		return fmt.Errorf("send stars form: %w", err)
	}

	return nil
}

func (c *Client) resolvePeer(ctx context.Context, recipient entity.Recipient) (peerRef, error) {
	if recipient.Handle != "" {
		p, err := c.peers.ResolveDomain(ctx, recipient.Handle)
		if err != nil {
			return nil, fmt.Errorf("resolve @%s: %w", recipient.Handle, err)
		}
		return p, nil
	}

	user, err := c.peers.GetUser(ctx, &tg.InputUser{UserID: recipient.UserID})
	if err != nil {
		return nil, fmt.Errorf("resolve user %d: %w", recipient.UserID, err)
	}

	return user, nil
}

// peerRef — общий срез peers.Peer и peers.User.
type peerRef interface {
	InputPeer() tg.InputPeerClass
	Username() (string, bool)
}
