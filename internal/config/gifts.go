package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
)

// Gifts — правила покупки. Диапазоны задаются строками вида
//
//	"1000-5000: 100000 x 2: @someuser,123456789"
//
// (ценовой коридор, потолок тиража, количество на получателя, получатели).
// Диапазоны разделяются ';', получатели внутри диапазона — ','.
type Gifts struct {
	Ranges              []string      `env:"GIFT_RANGES,required" envSeparator:";"`
	OnlyUpgradable      bool          `env:"PURCHASE_ONLY_UPGRADABLE_GIFTS" envDefault:"false"`
	PrioritizeLowSupply bool          `env:"PRIORITIZE_LOW_SUPPLY" envDefault:"false"`
	CheckInterval       time.Duration `env:"CHECK_INTERVAL" envDefault:"15s"`
	PurchaseDelay       time.Duration `env:"PURCHASE_DELAY" envDefault:"500ms"`

	parsed []entity.AcquisitionRange
}

// AcquisitionRanges — распарсенные правила в порядке конфигурации.
func (g *Gifts) AcquisitionRanges() []entity.AcquisitionRange {
	return g.parsed
}

func (g *Gifts) parseRanges() error {
	g.parsed = make([]entity.AcquisitionRange, 0, len(g.Ranges))

	for _, raw := range g.Ranges {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		r, err := parseRange(raw)
		if err != nil {
			return fmt.Errorf("invalid gift range %q: %w", raw, err)
		}

		g.parsed = append(g.parsed, r)
	}

	if len(g.parsed) == 0 {
		return fmt.Errorf("GIFT_RANGES is empty")
	}

	return nil
}

func parseRange(raw string) (entity.AcquisitionRange, error) {
	var r entity.AcquisitionRange

	pricePart, rest, ok := strings.Cut(raw, ":")
	if !ok {
		return r, fmt.Errorf("expected MIN-MAX: SUPPLY x QTY: recipients")
	}

	supplyQtyPart, recipientsPart, ok := strings.Cut(rest, ":")
	if !ok {
		return r, fmt.Errorf("missing recipients section")
	}

	minRaw, maxRaw, ok := strings.Cut(strings.TrimSpace(pricePart), "-")
	if !ok {
		return r, fmt.Errorf("price band must be MIN-MAX")
	}

	supplyRaw, qtyRaw, ok := strings.Cut(strings.TrimSpace(supplyQtyPart), " x ")
	if !ok {
		return r, fmt.Errorf("supply section must be SUPPLY x QTY")
	}

	var err error
	if r.MinPrice, err = strconv.ParseInt(strings.TrimSpace(minRaw), 10, 64); err != nil {
		return r, fmt.Errorf("min price: %w", err)
	}
	if r.MaxPrice, err = strconv.ParseInt(strings.TrimSpace(maxRaw), 10, 64); err != nil {
		return r, fmt.Errorf("max price: %w", err)
	}
	if r.SupplyLimit, err = strconv.ParseInt(strings.TrimSpace(supplyRaw), 10, 64); err != nil {
		return r, fmt.Errorf("supply limit: %w", err)
	}
	if r.Quantity, err = strconv.Atoi(strings.TrimSpace(qtyRaw)); err != nil {
		return r, fmt.Errorf("quantity: %w", err)
	}

	recipients, err := parseRecipients(recipientsPart)
	if err != nil {
		return r, err
	}
	r.Recipients = recipients

	return r, nil
}

func parseRecipients(raw string) ([]entity.Recipient, error) {
	parts := strings.Split(raw, ",")
	recipients := make([]entity.Recipient, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		recipients = append(recipients, parseRecipient(part))
	}

	if len(recipients) == 0 {
		return nil, fmt.Errorf("range has no recipients")
	}

	return recipients, nil
}

// parseRecipient: "@user" и "user" — username, чисто числовая строка —
// числовой ID.
func parseRecipient(raw string) entity.Recipient {
	if handle, ok := strings.CutPrefix(raw, "@"); ok {
		return entity.Recipient{Handle: handle}
	}

	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return entity.Recipient{UserID: id}
	}

	return entity.Recipient{Handle: raw}
}
