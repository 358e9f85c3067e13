package purchase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
	"github.com/msgtv/Gifts-Buyer/internal/domain/service/purchase"
	"github.com/msgtv/Gifts-Buyer/pkg/errcodes"
)

type fakeTg struct {
	price      int64
	priceErr   error
	balance    int64
	balanceErr error

	// sendErr срабатывает для получателя с этим ключом на каждом вызове.
	sendErr map[string]error
	sent    []string
}

func (f *fakeTg) GetGiftPrice(_ context.Context, _ int64) (int64, error) {
	return f.price, f.priceErr
}

func (f *fakeTg) GetStarsBalance(_ context.Context) (int64, error) {
	return f.balance, f.balanceErr
}

func (f *fakeTg) ResolveRecipient(_ context.Context, recipient entity.Recipient) (purchase.RecipientInfo, error) {
	return purchase.RecipientInfo{Display: recipient.String(), Handle: recipient.Handle}, nil
}

func (f *fakeTg) SendGift(_ context.Context, recipient entity.Recipient, _ int64) error {
	key := recipient.String()
	f.sent = append(f.sent, key)
	return f.sendErr[key]
}

func newPurchaser(tg *fakeTg) (*purchase.Purchaser, chan entity.Event) {
	events := make(chan entity.Event, 64)
	p := purchase.NewPurchaser(tg, events).WithDelay(time.Millisecond)
	return p, events
}

func drain(events chan entity.Event) []entity.Event {
	close(events)

	var out []entity.Event
	for event := range events {
		out = append(out, event)
	}
	return out
}

func kinds(events []entity.Event) []entity.EventKind {
	out := make([]entity.EventKind, 0, len(events))
	for _, event := range events {
		out = append(out, event.Kind)
	}
	return out
}

func TestAcquireFullFulfillment(t *testing.T) {
	rq := require.New(t)

	tg := &fakeTg{price: 10, balance: 1000}
	p, events := newPurchaser(tg)

	gift := entity.Gift{ID: 42, Price: 10, IsLimited: true, TotalAmount: 50}
	verdict := entity.EligibleVerdict(2, []entity.Recipient{
		{Handle: "alice"},
		{UserID: 777},
	})

	rq.NoError(p.Acquire(context.Background(), gift, verdict))

	// Два получателя по две единицы, получатели строго в порядке конфигурации.
	rq.Equal([]string{"@alice", "@alice", "777", "777"}, tg.sent)

	got := drain(events)
	rq.Len(got, 4)
	for _, event := range got {
		rq.Equal(entity.EventUnitPurchased, event.Kind)
	}
	rq.Equal(1, got[0].Unit)
	rq.Equal(2, got[0].Total)
}

func TestAcquirePartialFulfillment(t *testing.T) {
	rq := require.New(t)

	// Баланс 25 при цене 10: доступно 2 из 5 запрошенных.
	tg := &fakeTg{price: 10, balance: 25}
	p, events := newPurchaser(tg)

	gift := entity.Gift{ID: 42, Price: 10, IsLimited: true, TotalAmount: 50}
	verdict := entity.EligibleVerdict(5, []entity.Recipient{{Handle: "alice"}})

	rq.NoError(p.Acquire(context.Background(), gift, verdict))
	rq.Len(tg.sent, 2)

	got := drain(events)
	rq.Equal([]entity.EventKind{
		entity.EventUnitPurchased,
		entity.EventUnitPurchased,
		entity.EventPartialPurchase,
	}, kinds(got))

	partial := got[2]
	rq.Equal(2, partial.Purchased)
	rq.Equal(5, partial.Requested)
	// Недобор считается от баланса на момент начала покупки.
	rq.Equal(int64(30), partial.Shortfall)
}

func TestAcquireInsufficientBalance(t *testing.T) {
	rq := require.New(t)

	tg := &fakeTg{price: 10, balance: 5}
	p, events := newPurchaser(tg)

	gift := entity.Gift{ID: 42, Price: 10, IsLimited: true, TotalAmount: 50}
	verdict := entity.EligibleVerdict(3, []entity.Recipient{{Handle: "alice"}})

	rq.NoError(p.Acquire(context.Background(), gift, verdict))

	// Ни одного вызова покупки: подарок пропущен целиком.
	rq.Empty(tg.sent)

	got := drain(events)
	rq.Equal([]entity.EventKind{entity.EventInsufficientBalance}, kinds(got))
	rq.Equal(int64(5), got[0].Balance)
	rq.Equal(3, got[0].Requested)
}

func TestAcquireUnknownPriceTreatedAsFree(t *testing.T) {
	rq := require.New(t)

	tg := &fakeTg{priceErr: errors.New("catalog timeout"), balance: 0}
	p, events := newPurchaser(tg)

	gift := entity.Gift{ID: 42, IsLimited: true, TotalAmount: 50}
	verdict := entity.EligibleVerdict(2, []entity.Recipient{{Handle: "alice"}})

	// Неизвестная цена не блокирует конвейер: покупаем всё запрошенное.
	rq.NoError(p.Acquire(context.Background(), gift, verdict))
	rq.Len(tg.sent, 2)

	got := drain(events)
	rq.Equal([]entity.EventKind{
		entity.EventUnitPurchased,
		entity.EventUnitPurchased,
	}, kinds(got))
}

func TestAcquireBalanceLookupFailureBlocks(t *testing.T) {
	rq := require.New(t)

	tg := &fakeTg{price: 10, balanceErr: errors.New("rpc timeout")}
	p, events := newPurchaser(tg)

	gift := entity.Gift{ID: 42, Price: 10, IsLimited: true, TotalAmount: 50}
	verdict := entity.EligibleVerdict(1, []entity.Recipient{{Handle: "alice"}})

	rq.NoError(p.Acquire(context.Background(), gift, verdict))
	rq.Empty(tg.sent)

	got := drain(events)
	rq.Equal([]entity.EventKind{entity.EventInsufficientBalance}, kinds(got))
}

func TestAcquireRecipientFailureIsolated(t *testing.T) {
	rq := require.New(t)

	tg := &fakeTg{
		price:   10,
		balance: 1000,
		sendErr: map[string]error{"@alice": errors.New("PEER_ID_INVALID")},
	}
	p, events := newPurchaser(tg)

	gift := entity.Gift{ID: 42, Price: 10, IsLimited: true, TotalAmount: 50}
	verdict := entity.EligibleVerdict(2, []entity.Recipient{
		{Handle: "alice"},
		{Handle: "bob"},
	})

	rq.NoError(p.Acquire(context.Background(), gift, verdict))

	// Отказ на первой единице alice обрывает только её, bob получает обе.
	rq.Equal([]string{"@alice", "@bob", "@bob"}, tg.sent)

	got := drain(events)
	rq.Equal([]entity.EventKind{
		entity.EventPurchaseFailed,
		entity.EventUnitPurchased,
		entity.EventUnitPurchased,
	}, kinds(got))
	rq.Equal(errcodes.InvalidRecipient, got[0].Code)
	rq.Equal("@alice", got[0].Recipient)
}

func TestAcquireSpacingBetweenUnits(t *testing.T) {
	rq := require.New(t)

	tg := &fakeTg{price: 1, balance: 100}
	delay := 20 * time.Millisecond

	events := make(chan entity.Event, 64)
	p := purchase.NewPurchaser(tg, events).WithDelay(delay)

	gift := entity.Gift{ID: 42, Price: 1, IsLimited: true, TotalAmount: 50}
	verdict := entity.EligibleVerdict(3, []entity.Recipient{{Handle: "alice"}})

	start := time.Now()
	rq.NoError(p.Acquire(context.Background(), gift, verdict))

	// Три единицы: минимум два полных интервала между вызовами.
	rq.GreaterOrEqual(time.Since(start), 2*delay)
	rq.Len(tg.sent, 3)
}
