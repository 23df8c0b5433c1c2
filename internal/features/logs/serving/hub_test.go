package logs_serving

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Broadcast_WithSubscriber_DeliversLines(t *testing.T) {
	hub := NewStreamHub()
	lines, cancel := hub.Subscribe("access")
	defer cancel()

	hub.Broadcast("access", []string{"first", "second"})

	assert.Equal(t, "first", <-lines)
	assert.Equal(t, "second", <-lines)
}

func Test_Broadcast_WithOtherFile_DoesNotDeliver(t *testing.T) {
	hub := NewStreamHub()
	lines, cancel := hub.Subscribe("access")
	defer cancel()

	hub.Broadcast("error", []string{"unrelated"})

	assert.Empty(t, lines)
}

func Test_Subscribe_AfterCancel_StopsDelivery(t *testing.T) {
	hub := NewStreamHub()
	_, cancel := hub.Subscribe("access")

	require.Equal(t, 1, hub.SubscriberCount("access"))
	cancel()
	assert.Equal(t, 0, hub.SubscriberCount("access"))
}

func Test_Broadcast_WithFullSubscriberBuffer_DropsInsteadOfBlocking(t *testing.T) {
	hub := NewStreamHub()
	lines, cancel := hub.Subscribe("access")
	defer cancel()

	batch := make([]string, subscriberBufferSize*2)
	for index := range batch {
		batch[index] = "line"
	}

	hub.Broadcast("access", batch)

	assert.Len(t, lines, subscriberBufferSize)
}

func Test_ExtractLines_WithPartialTrailingLine_BuffersRemainder(t *testing.T) {
	lines, rest := extractLines([]byte("complete one\ncomplete two\npartial"))

	assert.Equal(t, []string{"complete one", "complete two"}, lines)
	assert.Equal(t, "partial", string(rest))
}

func Test_ExtractLines_WithNoNewline_ReturnsNoLines(t *testing.T) {
	lines, rest := extractLines([]byte("still going"))

	assert.Empty(t, lines)
	assert.Equal(t, "still going", string(rest))
}
