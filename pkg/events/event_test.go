package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeKeepsTypeAndOwner(t *testing.T) {
	owner := uuid.New()
	e := New(NotebookUpdated, owner, map[string]interface{}{"notebook_id": "abc"})

	data, err := Marshal(e)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, NotebookUpdated, got.EventType())
	assert.Equal(t, owner, got.UserID())
	assert.Equal(t, "abc", got.Payload()["notebook_id"])
	assert.True(t, e.Timestamp().Equal(got.Timestamp()))
}

func TestNewDefaultsPayload(t *testing.T) {
	e := New(FolderDeleted, uuid.New(), nil)
	assert.NotNil(t, e.Payload())
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := Unmarshal([]byte("not json"))
	assert.Error(t, err)
}
