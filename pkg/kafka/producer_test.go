package kafka

import (
	"sync"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWriterConcurrentSameTopic(t *testing.T) {
	p := NewProducer(DefaultConfig())
	defer p.Close()

	// the first low-stock mutation after startup creates the writer from
	// two publish goroutines at once
	const goroutines = 8
	writers := make([]*kafkago.Writer, goroutines)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			writers[i] = p.getWriter(Topics.InventoryEvents)
		}(i)
	}
	wg.Wait()

	require.NotNil(t, writers[0])
	for i := 1; i < goroutines; i++ {
		assert.Same(t, writers[0], writers[i])
	}
}

func TestGetWriterPerTopic(t *testing.T) {
	p := NewProducer(DefaultConfig())
	defer p.Close()

	a := p.getWriter("topic-a")
	b := p.getWriter("topic-b")

	assert.NotSame(t, a, b)
	assert.Same(t, a, p.getWriter("topic-a"))
	assert.Equal(t, "topic-a", a.Topic)
}
