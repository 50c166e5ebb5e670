package pubsub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	Tournament string `msgpack:"tournament"`
	Rows       int    `msgpack:"rows"`
}

func TestNew_WithoutProjectIsNoop(t *testing.T) {
	c, err := New(context.Background(), "")
	require.NoError(t, err)
	assert.IsType(t, noop{}, c)

	require.NoError(t, c.SendMessage(EventImportCompleted, event{Tournament: "UDAAN 2025", Rows: 3}))
	assert.Error(t, c.SendMessage(EventImportCompleted, make(chan int)), "unencodable payloads still fail")
	assert.NoError(t, c.Close())
}
