package kafka

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/patent-litigation-graph/internal/testutil"
	"github.com/turtacn/patent-litigation-graph/pkg/types/common"
)

// queueReader serves queued messages and then blocks until cancelled.
type queueReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (r *queueReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		m := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *queueReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *queueReader) Close() error {
	r.closed = true
	return nil
}

func (r *queueReader) commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*common.ProducerMessage
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, msg *common.ProducerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func testConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Brokers: []string{"localhost:9092"},
		GroupID: "plg-worker",
		Topics:  []string{TopicPatentSearched},
		Retry:   RetryConfig{MaxRetries: 2, RetryBackoff: time.Millisecond, DeadLetterTopic: TopicDeadLetter},
	}
}

func TestValidateConsumerConfig(t *testing.T) {
	assert.NoError(t, ValidateConsumerConfig(testConsumerConfig()))

	cfg := testConsumerConfig()
	cfg.Brokers = nil
	assert.Error(t, ValidateConsumerConfig(cfg))

	cfg = testConsumerConfig()
	cfg.GroupID = ""
	assert.Error(t, ValidateConsumerConfig(cfg))

	cfg = testConsumerConfig()
	cfg.Topics = nil
	assert.Error(t, ValidateConsumerConfig(cfg))

	cfg = testConsumerConfig()
	cfg.AutoOffsetReset = "middle"
	assert.Error(t, ValidateConsumerConfig(cfg))
}

func TestConsumer_DispatchesAndCommits(t *testing.T) {
	reader := &queueReader{queue: []kafka.Message{
		{Topic: TopicPatentSearched, Offset: 1, Value: []byte("a"), Headers: []kafka.Header{{Key: "event_type", Value: []byte(TopicPatentSearched)}}},
		{Topic: "unknown.topic", Offset: 2, Value: []byte("b")},
	}}
	c := newConsumerWith(reader, nil, testConsumerConfig(), testutil.NewMockLogger())

	got := make(chan *common.ConsumerMessage, 1)
	c.Subscribe(TopicPatentSearched, func(ctx context.Context, msg *common.ConsumerMessage) error {
		got <- msg
		return nil
	})

	require.NoError(t, c.Start(context.Background()))
	assert.Equal(t, ErrAlreadyRunning, c.Start(context.Background()))

	select {
	case msg := <-got:
		assert.Equal(t, int64(1), msg.Offset)
		assert.Equal(t, TopicPatentSearched, msg.Headers["event_type"])
	case <-time.After(2 * time.Second):
		t.Fatal("handler not invoked")
	}

	assert.Eventually(t, func() bool { return reader.commits() == 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, c.Close())
	assert.True(t, reader.closed)

	consumed, processed, failed := c.Stats()
	assert.Equal(t, int64(2), consumed)
	assert.Equal(t, int64(1), processed)
	assert.Equal(t, int64(0), failed)
}

func TestProcessMessage_RetrySucceeds(t *testing.T) {
	c := newConsumerWith(&queueReader{}, nil, testConsumerConfig(), testutil.NewMockLogger())

	var calls int32
	err := c.processMessage(context.Background(), &common.ConsumerMessage{Topic: "t"}, func(ctx context.Context, msg *common.ConsumerMessage) error {
		if atomic.AddInt32(&calls, 1) < 2 {
			return stderrors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls)
}

func TestProcessMessage_ExhaustedGoesToDeadLetter(t *testing.T) {
	dl := &recordingPublisher{}
	logger := testutil.NewMockLogger()
	c := newConsumerWith(&queueReader{}, dl, testConsumerConfig(), logger)

	var calls int32
	msg := &common.ConsumerMessage{Topic: TopicPatentSearched, Key: []byte("k"), Value: []byte("v"), Headers: map[string]string{"a": "b"}}
	err := c.processMessage(context.Background(), msg, func(ctx context.Context, m *common.ConsumerMessage) error {
		atomic.AddInt32(&calls, 1)
		return stderrors.New("permanent")
	})

	require.Error(t, err)
	assert.Equal(t, int32(3), calls)
	require.Len(t, dl.msgs, 1)
	assert.Equal(t, TopicDeadLetter, dl.msgs[0].Topic)
	assert.Equal(t, TopicPatentSearched, dl.msgs[0].Headers["original_topic"])
	assert.Equal(t, "permanent", dl.msgs[0].Headers["error_message"])
	assert.Equal(t, "b", dl.msgs[0].Headers["a"])
	assert.NotContains(t, msg.Headers, "original_topic")
	assert.True(t, logger.HasMessage("error", "Message processing failed after retries"))
}

func TestProcessMessage_ContextCancelledDuringBackoff(t *testing.T) {
	cfg := testConsumerConfig()
	cfg.Retry.RetryBackoff = time.Hour
	c := newConsumerWith(&queueReader{}, nil, cfg, testutil.NewMockLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.processMessage(ctx, &common.ConsumerMessage{}, func(ctx context.Context, m *common.ConsumerMessage) error {
		return stderrors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

//Personal.AI order the ending
