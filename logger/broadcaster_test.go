package logger

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcasterFansOut(t *testing.T) {
	var sink bytes.Buffer
	b := NewBroadcaster(&sink)

	ch := b.Subscribe()
	fmt.Fprint(b, "[TEST] hello\n")

	assert.Equal(t, "[TEST] hello\n", <-ch)
	assert.Equal(t, "[TEST] hello\n", sink.String())

	b.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open)
	b.Unsubscribe(ch)
}

func TestBroadcasterReplaysHistory(t *testing.T) {
	b := NewBroadcaster(nil)
	for i := 0; i < historySize+5; i++ {
		fmt.Fprintf(b, "line %d\n", i)
	}

	recent := b.Recent()
	assert.Len(t, recent, historySize)
	assert.Equal(t, "line 5\n", recent[0])
	assert.Equal(t, fmt.Sprintf("line %d\n", historySize+4), recent[len(recent)-1])

	ch := b.Subscribe()
	assert.Equal(t, "line 5\n", <-ch)
	assert.Len(t, ch, historySize-1)
}
