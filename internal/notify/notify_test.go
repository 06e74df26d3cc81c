package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type writerMock struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *writerMock) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *writerMock) Close() error { return nil }

func TestLogNotifier(t *testing.T) {
	log, hook := test.NewNullLogger()
	n := NewLogNotifier(log)

	n.Notify(context.Background(), Event{
		Kind:      KindItemAdded,
		Message:   `2 × "Backpack" added to cart`,
		ProductID: 1,
		Quantity:  2,
	})

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, `2 × "Backpack" added to cart`, entry.Message)
	assert.Equal(t, KindItemAdded, entry.Data["kind"])
	assert.Equal(t, int64(1), entry.Data["product_id"])
}

func TestLogNotifier_OmitsEmptyFields(t *testing.T) {
	log, hook := test.NewNullLogger()
	NewLogNotifier(log).Notify(context.Background(), Event{Kind: KindCartCleared, Message: "Cart cleared!"})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.NotContains(t, entry.Data, "product_id")
	assert.NotContains(t, entry.Data, "quantity")
}

func TestKafkaNotifier_PublishesJSON(t *testing.T) {
	log, _ := test.NewNullLogger()
	w := &writerMock{}
	n := &KafkaNotifier{writer: w, log: log}

	n.Notify(context.Background(), Event{Kind: KindQuantityUpdated, Message: "m", ProductID: 42, Quantity: 3})

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "42", string(w.msgs[0].Key))

	var got Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, KindQuantityUpdated, got.Kind)
	assert.Equal(t, 3, got.Quantity)
}

func TestKafkaNotifier_WriteErrorIsLogged(t *testing.T) {
	log, hook := test.NewNullLogger()
	w := &writerMock{err: errors.New("broker down")}
	n := &KafkaNotifier{writer: w, log: log}

	assert.NotPanics(t, func() {
		n.Notify(context.Background(), Event{Kind: KindCartCleared, Message: "Cart cleared!"})
	})
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestFanout(t *testing.T) {
	a, b := NewRecorder(0), NewRecorder(0)
	Fanout{a, Nop{}, b}.Notify(context.Background(), Event{Kind: KindItemRemoved})

	assert.Equal(t, []Kind{KindItemRemoved}, a.Kinds())
	assert.Equal(t, []Kind{KindItemRemoved}, b.Kinds())
}

func TestRecorder_Limit(t *testing.T) {
	r := NewRecorder(2)
	ctx := context.Background()

	r.Notify(ctx, Event{Kind: KindItemAdded})
	r.Notify(ctx, Event{Kind: KindItemRemoved})
	r.Notify(ctx, Event{Kind: KindCartCleared})

	assert.Equal(t, []Kind{KindItemRemoved, KindCartCleared}, r.Kinds())
}
