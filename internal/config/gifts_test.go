package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
)

func TestParseRanges(t *testing.T) {
	rq := require.New(t)

	gifts := Gifts{Ranges: []string{
		"1000-5000: 100000 x 2: @someuser,123456789",
		" 1-999: 5000 x 1: bob ",
	}}

	rq.NoError(gifts.parseRanges())

	parsed := gifts.AcquisitionRanges()
	rq.Len(parsed, 2)

	rq.Equal(entity.AcquisitionRange{
		MinPrice:    1000,
		MaxPrice:    5000,
		SupplyLimit: 100000,
		Quantity:    2,
		Recipients: []entity.Recipient{
			{Handle: "someuser"},
			{UserID: 123456789},
		},
	}, parsed[0])

	rq.Equal(entity.AcquisitionRange{
		MinPrice:    1,
		MaxPrice:    999,
		SupplyLimit: 5000,
		Quantity:    1,
		Recipients:  []entity.Recipient{{Handle: "bob"}},
	}, parsed[1])
}

func TestParseRangesOrderPreserved(t *testing.T) {
	rq := require.New(t)

	gifts := Gifts{Ranges: []string{
		"51-100: 50 x 1: @second",
		"10-50: 100 x 2: @first",
	}}

	rq.NoError(gifts.parseRanges())

	parsed := gifts.AcquisitionRanges()
	rq.Equal(int64(51), parsed[0].MinPrice)
	rq.Equal(int64(10), parsed[1].MinPrice)
}

func TestParseRangesErrors(t *testing.T) {
	testCases := []struct {
		name   string
		ranges []string
	}{
		{name: "empty", ranges: nil},
		{name: "blank entries only", ranges: []string{"  ", ""}},
		{name: "missing sections", ranges: []string{"1000-5000"}},
		{name: "missing recipients section", ranges: []string{"1000-5000: 100 x 2"}},
		{name: "no recipients listed", ranges: []string{"1000-5000: 100 x 2: , "}},
		{name: "price band without dash", ranges: []string{"1000: 100 x 2: @user"}},
		{name: "supply without quantity", ranges: []string{"1000-5000: 100: @user"}},
		{name: "non-numeric price", ranges: []string{"abc-5000: 100 x 2: @user"}},
		{name: "non-numeric quantity", ranges: []string{"1000-5000: 100 x two: @user"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gifts := Gifts{Ranges: tc.ranges}
			require.Error(t, gifts.parseRanges())
		})
	}
}

func TestParseRecipient(t *testing.T) {
	testCases := []struct {
		raw  string
		want entity.Recipient
	}{
		{raw: "@alice", want: entity.Recipient{Handle: "alice"}},
		{raw: "alice", want: entity.Recipient{Handle: "alice"}},
		{raw: "123456789", want: entity.Recipient{UserID: 123456789}},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			require.Equal(t, tc.want, parseRecipient(tc.raw))
		})
	}
}
