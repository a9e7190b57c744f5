package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	q := NewInMemory(4)
	require.NoError(t, q.Publish(ctx, Message{Type: "otp", Body: []byte(`{"email":"a@b.c"}`)}))

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)

	select {
	case msg := <-msgs:
		assert.Equal(t, "otp", msg.Type)
		assert.Equal(t, `{"email":"a@b.c"}`, string(msg.Body))
	case <-ctx.Done():
		t.Fatal("no message before timeout")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	msg, err := deserialize(serialize(Message{Type: "otp", Body: []byte("payload|with|pipes")}))
	require.NoError(t, err)
	assert.Equal(t, "otp", msg.Type)
	assert.Equal(t, "payload|with|pipes", string(msg.Body))
}

func TestDeserializeWithoutType(t *testing.T) {
	msg, err := deserialize("just a body")
	require.NoError(t, err)
	assert.Empty(t, msg.Type)
	assert.Equal(t, "just a body", string(msg.Body))
}
