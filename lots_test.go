package satsnav

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLotsSubtract(t *testing.T) {
	lots := Lots{
		{ID: "a", Asset: BTC, Amount: D("1")},
		{ID: "b", Asset: BTC, Amount: D("2")},
		{ID: "c", Asset: BTC, Amount: D("3")},
	}
	testCases := []struct {
		name      string
		amount    string
		policy    ConsumptionPolicy
		remaining []string
		taken     []string
		split     string // id of the cut lot, if any
	}{
		{name: "lifo exact", amount: "3", policy: LIFO, remaining: []string{"a", "b"}, taken: []string{"c"}},
		{name: "lifo cut", amount: "4", policy: LIFO, remaining: []string{"a", "b"}, taken: []string{"b", "c"}, split: "b"},
		{name: "fifo exact", amount: "3", policy: FIFO, remaining: []string{"c"}, taken: []string{"a", "b"}},
		{name: "fifo cut", amount: "2", policy: FIFO, remaining: []string{"b", "c"}, taken: []string{"a", "b"}, split: "b"},
		{name: "all", amount: "6", policy: LIFO, remaining: []string{}, taken: []string{"a", "b", "c"}},
		{name: "nothing", amount: "0", policy: FIFO, remaining: []string{"a", "b", "c"}, taken: []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sub, err := lots.subtract(D(tc.amount), tc.policy, keepID)
			require.NoError(t, err)
			assert.Equal(t, tc.remaining, sub.remaining.IDs())
			assert.Equal(t, tc.taken, sub.taken.IDs())
			assert.True(t, sub.taken.Sum().Equal(D(tc.amount)))
			assert.True(t, sub.remaining.Sum().Add(sub.taken.Sum()).Equal(D("6")))
			if tc.split == "" {
				assert.Nil(t, sub.split)
			} else {
				require.NotNil(t, sub.split)
				assert.Equal(t, tc.split, sub.split.original.ID)
			}
		})
	}
	assert.Equal(t, []string{"1", "2", "3"}, amounts(lots), "input must not be modified")
}

func TestLotsSubtractCutAmounts(t *testing.T) {
	lots := Lots{
		{ID: "a", Asset: BTC, Amount: D("0.5")},
		{ID: "b", Asset: BTC, Amount: D("0.5")},
	}
	sub, err := lots.subtract(D("0.7"), LIFO, keepID)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.3"}, amounts(sub.remaining))
	assert.Equal(t, []string{"0.2", "0.5"}, amounts(sub.taken))

	sub, err = lots.subtract(D("0.7"), FIFO, keepID)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.3"}, amounts(sub.remaining))
	assert.Equal(t, []string{"0.5", "0.2"}, amounts(sub.taken))
}

func TestLotsSubtractErrors(t *testing.T) {
	lots := Lots{{ID: "a", Asset: BTC, Amount: D("1")}}

	_, err := lots.subtract(D("1.5"), LIFO, keepID)
	var underflow *BalanceUnderflowError
	require.True(t, errors.As(err, &underflow))
	assert.True(t, underflow.Requested.Equal(D("1.5")))
	assert.True(t, underflow.Available.Equal(D("1")))

	_, err = lots.subtract(D("-1"), LIFO, keepID)
	assert.Error(t, err)
}
