package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairKey_OrderIndependent(t *testing.T) {
	assert.Equal(t, PairKey("alice", "bob"), PairKey("bob", "alice"))
	assert.Equal(t, "alice:bob", PairKey("bob", "alice"))
}

func TestNewMessage_TrimsText(t *testing.T) {
	text := "  hello there  "
	m, err := NewMessage("t1", "part-a", &text, nil)
	require.NoError(t, err)
	require.NotNil(t, m.Text)
	assert.Equal(t, "hello there", *m.Text)
	require.NotNil(t, m.SenderParticipantID)
	assert.Equal(t, "part-a", *m.SenderParticipantID)
	assert.False(t, m.IsSystem)
}

func TestNewMessage_WhitespaceOnlyTextIsEmpty(t *testing.T) {
	text := "   \n\t "
	_, err := NewMessage("t1", "part-a", &text, nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestNewMessage_ImageOnly(t *testing.T) {
	ref := "https://img.example/x.jpg"
	m, err := NewMessage("t1", "part-a", nil, &ref)
	require.NoError(t, err)
	assert.Nil(t, m.Text)
	require.NotNil(t, m.ImageRef)
}

func TestNewMessage_RequiresIdentity(t *testing.T) {
	text := "hi"
	_, err := NewMessage("", "part-a", &text, nil)
	assert.Error(t, err)
	_, err = NewMessage("t1", "", &text, nil)
	assert.Error(t, err)
}

func TestNewSystemMessage(t *testing.T) {
	m := NewSystemMessage("t1", "Conversation started")
	assert.True(t, m.IsSystem)
	assert.Nil(t, m.SenderParticipantID)
	require.NotNil(t, m.Text)
	assert.Equal(t, "Conversation started", *m.Text)
}
